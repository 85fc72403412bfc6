package money_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/washrent/internal/money"
)

func TestParseChannel(t *testing.T) {
	for _, c := range money.Channels {
		got, err := money.ParseChannel(string(c))
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}

	for in, want := range map[string]money.Channel{
		" Efectivo ": money.ChannelCash,
		"NEQUI":      money.ChannelWalletA,
		"daviplata":  money.ChannelWalletB,
	} {
		got, err := money.ParseChannel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := money.ParseChannel("bitcoin")
	assert.ErrorIs(t, err, money.ErrUnknownChannel)
}

func TestChannels_Order(t *testing.T) {
	assert.Equal(t,
		[]money.Channel{money.ChannelCash, money.ChannelWalletA, money.ChannelWalletB},
		money.Channels,
	)
}

func TestSplit(t *testing.T) {
	s := money.Split{Cash: 100, WalletA: 50, WalletB: 0}

	assert.Equal(t, int64(150), s.Total())
	assert.False(t, s.IsZero())
	assert.False(t, s.HasNegative())
	assert.Equal(t, int64(50), s.Get(money.ChannelWalletA))
	assert.True(t, money.Split{}.IsZero())
	assert.True(t, money.Split{WalletB: -1}.HasNegative())
}

func TestBalances_CreditDebit(t *testing.T) {
	var b money.Balances

	b.Add(money.Split{Cash: 100, WalletA: 20, WalletB: 5})
	b.Credit(money.ChannelWalletB, 10)
	b.Debit(money.ChannelCash, 30)
	b.Sub(money.Split{WalletA: 20})

	assert.Equal(t, money.Balances{Cash: 70, WalletA: 0, WalletB: 15}, b)
	assert.Equal(t, int64(85), b.Total())
	assert.Equal(t, int64(15), b.Get(money.ChannelWalletB))
}

func TestParseAmount(t *testing.T) {
	type testCase struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}

	tests := []testCase{
		{name: "Plain", input: "50000", want: 5000000},
		{name: "Grouped", input: "70.000", want: 7000000},
		{name: "WithDecimals", input: "1.234,56", want: 123456},
		{name: "CurrencySign", input: "$ 30.000", want: 3000000},
		{name: "Negative", input: "-588,74", want: -58874},
		{name: "NegativeWithSign", input: "-$70.000", want: -7000000},
		{name: "Garbage", input: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := money.ParseAmount(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormat(t *testing.T) {
	strip := strings.NewReplacer(".", "", " ", "", " ", "")

	assert.Equal(t, "$70000", strip.Replace(money.Format(7000000)))
	assert.Equal(t, "-$300", strip.Replace(money.Format(-30000)))
	assert.Equal(t, "$12,50", strip.Replace(money.Format(1250)))
}
