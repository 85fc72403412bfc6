package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.MustParse("es-CO"))

// ParseAmount parses a Colombian-formatted amount string into cents.
// Format examples: "70.000" -> 7000000, "1.234,56" -> 123456, "50000" -> 5000000.
func ParseAmount(s string) (int64, error) {
	clean := strings.TrimSpace(s)
	clean = strings.ReplaceAll(clean, "$", "")
	clean = strings.ReplaceAll(clean, " ", "")
	clean = strings.ReplaceAll(clean, ".", "")
	clean = strings.ReplaceAll(clean, ",", ".")

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", s, err)
	}

	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}

// Format renders cents as a grouped peso amount, e.g. 7000000 -> "$70.000".
// Fractional pesos are only shown when present.
func Format(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	pesos, rest := cents/100, cents%100
	if rest == 0 {
		return printer.Sprintf("%s$%d", sign, pesos)
	}

	return printer.Sprintf("%s$%d,%02d", sign, pesos, rest)
}
