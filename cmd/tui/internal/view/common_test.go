package view

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/washrent/internal/ledger"
	"github.com/MrJamesThe3rd/washrent/internal/money"
)

func TestParseOptionalAmount(t *testing.T) {
	type testCase struct {
		in      string
		want    int64
		wantErr bool
	}

	tests := map[string]testCase{
		"Blank":     {in: "   ", want: 0},
		"Grouped":   {in: "60.000", want: 6000000},
		"Decimals":  {in: "1.234,56", want: 123456},
		"Negative":  {in: "-5.000", wantErr: true},
		"Garbage":   {in: "abc", wantErr: true},
		"WithSign":  {in: "$ 20.000", want: 2000000},
		"PlainPeso": {in: "500", want: 50000},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := parseOptionalAmount(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRenderBalances(t *testing.T) {
	out := RenderBalances(ledger.Snapshot{
		Balances: money.Balances{Cash: 7000000, WalletA: 5000000},
		Total:    12000000,
	})

	assert.Contains(t, out, "Efectivo")
	assert.Contains(t, out, "Nequi")
	assert.Contains(t, out, "Daviplata")
	assert.Contains(t, out, money.Format(12000000))
	assert.NotContains(t, out, "!")
}

func TestRenderBalances_Degraded(t *testing.T) {
	out := RenderBalances(ledger.Snapshot{Warning: "could not load expenses"})

	assert.True(t, strings.Contains(out, "could not load expenses"))
}
