package expense

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/washrent/internal/money"
)

// Expense is an operating cost paid from one channel.
type Expense struct {
	ID          uuid.UUID
	Concept     string
	Amount      int64 // Amount in cents
	Date        time.Time
	Channel     money.Channel
	Description string
	Author      string
	CreatedAt   time.Time
	DeletedAt   *time.Time
}

// Maintenance is a repair or service job on a washer. It enters the books
// when it is recorded, so its ledger date is CreatedAt.
type Maintenance struct {
	ID          uuid.UUID
	Equipment   string
	Description string
	Cost        int64
	Channel     money.Channel
	EstimatedAt *time.Time
	CompletedAt *time.Time
	Author      string
	CreatedAt   time.Time
	DeletedAt   *time.Time
}
