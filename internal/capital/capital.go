package capital

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/washrent/internal/money"
)

// Kind represents the direction of a capital movement.
type Kind string

const (
	KindInjection  Kind = "injection"
	KindWithdrawal Kind = "withdrawal"
)

func (k Kind) Valid() bool {
	return k == KindInjection || k == KindWithdrawal
}

// InitialCapital is the opening balance of the business. At most one exists.
type InitialCapital struct {
	ID        uuid.UUID
	Amounts   money.Split
	Date      time.Time
	Author    string
	CreatedAt time.Time
}

// Movement is an operator-recorded injection or withdrawal of capital.
type Movement struct {
	ID        uuid.UUID
	Kind      Kind
	Amounts   money.Split
	Concept   string
	Notes     string
	Date      time.Time
	Author    string
	CreatedAt time.Time
	DeletedAt *time.Time
}
