// Package sheet parses expense spreadsheets exported as semicolon CSV.
package sheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	enc "github.com/MrJamesThe3rd/washrent/internal/encoding"
	"github.com/MrJamesThe3rd/washrent/internal/expense"
	"github.com/MrJamesThe3rd/washrent/internal/money"
)

var dateLayouts = []string{"02/01/2006", "2006-01-02", "02-01-2006", "2/1/2006"}

// Parser reads expense sheets and produces expense params without an author.
// It auto-detects the layout by matching column headers against known
// profiles. Dates are read as midnight in loc.
type Parser struct {
	loc *time.Location
}

func NewParser(loc *time.Location) *Parser {
	if loc == nil {
		loc = time.Local
	}

	return &Parser{loc: loc}
}

func (p *Parser) Parse(r io.Reader) ([]expense.CreateParams, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(utf8r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, colMap, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, fmt.Errorf("no matching sheet format found: expected fecha;concepto;valor;medio columns or a wallet export")
	}

	return p.parseRows(profile, colMap, rows[headerIdx+1:], headerIdx)
}

// colIndex maps lowercased column names to their index in the row.
type colIndex map[string]int

// detectProfile scans rows for a header that matches a known profile.
// Returns the matched profile, column index map, and header row index.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			name := strings.ToLower(strings.TrimSpace(cell))
			if name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows extracts expenses from data rows using the matched profile.
// headerRowNum is the 0-based index of the header in the original file (for error messages).
func (p *Parser) parseRows(prof *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]expense.CreateParams, error) {
	dateIdx := cols[prof.DateCol]
	conceptIdx := cols[prof.ConceptCol]

	descIdx := -1
	if idx, ok := cols[prof.DescCol]; ok && prof.DescCol != "" {
		descIdx = idx
	}

	var params []expense.CreateParams

	for i, row := range rows {
		rowNum := headerRowNum + i + 2 // 1-based, skipping header

		date, ok := p.parseDate(row, dateIdx)
		if !ok {
			continue
		}

		concept := cellValue(row, conceptIdx)
		if concept == "" {
			return nil, fmt.Errorf("row %d: missing concept", rowNum)
		}

		amount, ok, err := parseAmount(prof, cols, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		if !ok {
			continue
		}

		channel := prof.Channel
		if prof.ChannelCol != "" {
			channel, err = money.ParseChannel(cellValue(row, cols[prof.ChannelCol]))
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", rowNum, err)
			}
		}

		params = append(params, expense.CreateParams{
			Concept:     concept,
			Amount:      amount,
			Date:        date,
			Channel:     channel,
			Description: cellValue(row, descIdx),
		})
	}

	return params, nil
}

// parseDate returns false for empty cells or unparseable values (footer rows, etc).
func (p *Parser) parseDate(row []string, idx int) (time.Time, bool) {
	s := cellValue(row, idx)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, p.loc); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// parseAmount returns the expense amount of a row. ok is false for rows that
// carry no expense, such as income lines in a wallet export.
func parseAmount(p *Profile, cols colIndex, row []string) (int64, bool, error) {
	switch p.AmountMode {
	case amountSingle:
		return parseSingleAmount(row, cols[p.AmountCol], p.Signed)
	case amountSplit:
		return parseSplitAmount(row, cols[p.DebitCol])
	}

	return 0, false, nil
}

func parseSingleAmount(row []string, idx int, signed bool) (int64, bool, error) {
	s := cellValue(row, idx)
	if s == "" {
		return 0, false, nil
	}

	cents, err := money.ParseAmount(s)
	if err != nil {
		return 0, false, err
	}

	if signed {
		if cents >= 0 {
			return 0, false, nil
		}

		return -cents, true, nil
	}

	if cents <= 0 {
		return 0, false, fmt.Errorf("amount must be positive, got %q", s)
	}

	return cents, true, nil
}

// parseSplitAmount only reads the debit column; credits are income.
func parseSplitAmount(row []string, debitIdx int) (int64, bool, error) {
	s := cellValue(row, debitIdx)
	if s == "" {
		return 0, false, nil
	}

	cents, err := money.ParseAmount(s)
	if err != nil {
		return 0, false, err
	}

	if cents == 0 {
		return 0, false, nil
	}

	return abs(cents), true, nil
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}

	return n
}
