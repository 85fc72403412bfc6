package capital

import "errors"

var (
	ErrNotFound         = errors.New("capital movement not found")
	ErrNoInitialCapital = errors.New("no initial capital recorded")
	ErrAlreadyExists    = errors.New("initial capital already exists")
	ErrInvalidAmounts   = errors.New("at least one channel amount must be positive and none negative")
	ErrEmptyConcept     = errors.New("concept is required")
	ErrInvalidKind      = errors.New("movement kind must be injection or withdrawal")
	ErrMissingAuthor    = errors.New("author is required")
)
