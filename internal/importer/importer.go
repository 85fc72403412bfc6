package importer

import (
	"io"

	"github.com/MrJamesThe3rd/washrent/internal/expense"
)

type Format string

const (
	// FormatSheet auto-detects the operator spreadsheet and the wallet exports.
	FormatSheet Format = "sheet"
)

type Importer interface {
	Parse(r io.Reader) ([]expense.CreateParams, error)
}
