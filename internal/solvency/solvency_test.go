package solvency_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/washrent/internal/money"
	"github.com/MrJamesThe3rd/washrent/internal/solvency"
)

func TestCheck(t *testing.T) {
	balances := money.Balances{Cash: 70000, WalletA: 50000, WalletB: 0}

	type args struct {
		amount  int64
		channel money.Channel
	}

	type testCase struct {
		name    string
		args    args
		want    bool
		wantErr error
	}

	tests := []testCase{
		{name: "Covered", args: args{amount: 40000, channel: money.ChannelCash}, want: true},
		{name: "Exact", args: args{amount: 70000, channel: money.ChannelCash}, want: true},
		{name: "Insufficient", args: args{amount: 80000, channel: money.ChannelCash}, want: false},
		{name: "EmptyChannel", args: args{amount: 1, channel: money.ChannelWalletB}, want: false},
		{name: "ZeroAmount", args: args{amount: 0, channel: money.ChannelCash}, wantErr: solvency.ErrNonPositiveAmount},
		{name: "NegativeAmount", args: args{amount: -5, channel: money.ChannelCash}, wantErr: solvency.ErrNonPositiveAmount},
		{name: "UnknownChannel", args: args{amount: 5, channel: "card"}, wantErr: money.ErrUnknownChannel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := solvency.Check(balances, tt.args.amount, tt.args.channel)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheck_Monotonic(t *testing.T) {
	balances := money.Balances{Cash: 12345, WalletA: 999, WalletB: 1}

	for _, ch := range money.Channels {
		for amount := int64(1); amount <= 20000; amount += 37 {
			ok, err := solvency.Check(balances, amount, ch)
			require.NoError(t, err)

			if !ok {
				continue
			}

			for smaller := int64(1); smaller <= amount; smaller += 53 {
				okSmaller, err := solvency.Check(balances, smaller, ch)
				require.NoError(t, err)
				assert.True(t, okSmaller, "channel %s amount %d admissible but %d is not", ch, amount, smaller)
			}
		}
	}
}

func TestAdmissibleChannels(t *testing.T) {
	balances := money.Balances{Cash: 70000, WalletA: 50000, WalletB: 0}

	got, err := solvency.AdmissibleChannels(balances, 40000)
	require.NoError(t, err)
	assert.Equal(t, []money.Channel{money.ChannelCash, money.ChannelWalletA}, got)

	got, err = solvency.AdmissibleChannels(money.Balances{Cash: 1, WalletA: 100, WalletB: 100}, 50)
	require.NoError(t, err)
	assert.Equal(t, []money.Channel{money.ChannelWalletA, money.ChannelWalletB}, got)

	got, err = solvency.AdmissibleChannels(balances, 1_000_000)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = solvency.AdmissibleChannels(balances, 0)
	assert.ErrorIs(t, err, solvency.ErrNonPositiveAmount)
}

func TestDefault(t *testing.T) {
	ch, ok := solvency.Default(money.Balances{WalletB: 10}, 5)
	assert.True(t, ok)
	assert.Equal(t, money.ChannelWalletB, ch)

	_, ok = solvency.Default(money.Balances{}, 5)
	assert.False(t, ok)
}
