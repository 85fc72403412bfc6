package sheet

import "github.com/MrJamesThe3rd/washrent/internal/money"

// amountMode determines how amounts are extracted from a row.
type amountMode int

const (
	// amountSingle means one signed column (e.g. "Valor" with value "-10.000").
	amountSingle amountMode = iota
	// amountSplit means separate debit and credit columns (e.g. "Débito"/"Crédito").
	amountSplit
)

// Profile describes the column layout of one spreadsheet format. Header
// names are matched lowercased and trimmed.
type Profile struct {
	Name       string
	DateCol    string
	ConceptCol string
	DescCol    string // optional
	AmountMode amountMode
	AmountCol  string // used when AmountMode == amountSingle
	DebitCol   string // used when AmountMode == amountSplit
	CreditCol  string // used when AmountMode == amountSplit

	// ChannelCol names the column holding the paying channel. When empty,
	// every row is paid from Channel.
	ChannelCol string
	Channel    money.Channel

	// Signed exports list income too; only negative amounts are expenses.
	Signed bool
}

// requiredCols returns the column names that must be present for this profile to match.
func (p Profile) requiredCols() []string {
	cols := []string{p.DateCol, p.ConceptCol}

	switch p.AmountMode {
	case amountSingle:
		cols = append(cols, p.AmountCol)
	case amountSplit:
		cols = append(cols, p.DebitCol, p.CreditCol)
	}

	if p.ChannelCol != "" {
		cols = append(cols, p.ChannelCol)
	}

	return cols
}

// profiles is the ordered list of formats tried during auto-detection.
// More specific profiles come first.
var profiles = []Profile{
	{
		Name:       "planilla",
		DateCol:    "fecha",
		ConceptCol: "concepto",
		DescCol:    "descripcion",
		AmountMode: amountSingle,
		AmountCol:  "valor",
		ChannelCol: "medio",
	},
	{
		Name:       "daviplata",
		DateCol:    "fecha",
		ConceptCol: "detalle",
		AmountMode: amountSplit,
		DebitCol:   "débito",
		CreditCol:  "crédito",
		Channel:    money.ChannelWalletB,
	},
	{
		Name:       "nequi",
		DateCol:    "fecha",
		ConceptCol: "descripción",
		AmountMode: amountSingle,
		AmountCol:  "valor",
		Channel:    money.ChannelWalletA,
		Signed:     true,
	},
}
