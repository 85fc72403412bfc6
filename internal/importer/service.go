package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/MrJamesThe3rd/washrent/internal/expense"
	"github.com/MrJamesThe3rd/washrent/internal/importer/sheet"
)

// Suggester maps a raw concept to the operator's preferred one, or "".
type Suggester interface {
	Suggest(ctx context.Context, raw string) (string, error)
}

type Service struct {
	sheetImporter Importer
	matcher       Suggester
}

// NewService builds the importer. matcher may be nil.
func NewService(loc *time.Location, matcher Suggester) *Service {
	return &Service{
		sheetImporter: sheet.NewParser(loc),
		matcher:       matcher,
	}
}

// Import parses r and returns expense params stamped with author. Concepts
// with a learned mapping are replaced; the raw text moves to Description
// when that is empty.
func (s *Service) Import(ctx context.Context, format Format, r io.Reader, author string) ([]expense.CreateParams, error) {
	var importer Importer

	switch format {
	case FormatSheet, "":
		importer = s.sheetImporter
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}

	params, err := importer.Parse(r)
	if err != nil {
		return nil, err
	}

	for i := range params {
		params[i].Author = author

		if s.matcher == nil {
			continue
		}

		suggested, err := s.matcher.Suggest(ctx, params[i].Concept)
		if err != nil {
			slog.Warn("concept suggestion failed", "concept", params[i].Concept, "error", err)
			continue
		}

		if suggested == "" || suggested == params[i].Concept {
			continue
		}

		if params[i].Description == "" {
			params[i].Description = params[i].Concept
		}

		params[i].Concept = suggested
	}

	return params, nil
}
