package matching

import (
	"context"
	"errors"
	"strings"
)

var ErrEmptyMapping = errors.New("pattern and concept are required")

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=matching
type Repository interface {
	FindMatch(ctx context.Context, raw string) (string, error)
	CreateMapping(ctx context.Context, rawPattern, concept string) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Suggest tries to find the preferred expense concept for a raw bank or
// spreadsheet description. Returns empty string if no match found.
func (s *Service) Suggest(ctx context.Context, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}

	return s.repo.FindMatch(ctx, raw)
}

// Learn remembers that descriptions containing rawPattern mean concept.
func (s *Service) Learn(ctx context.Context, rawPattern, concept string) error {
	rawPattern = strings.TrimSpace(rawPattern)
	concept = strings.TrimSpace(concept)

	if rawPattern == "" || concept == "" {
		return ErrEmptyMapping
	}

	return s.repo.CreateMapping(ctx, rawPattern, concept)
}
