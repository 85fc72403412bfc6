package capital

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/washrent/internal/capital"
	"github.com/MrJamesThe3rd/washrent/internal/money"
)

type initialResponse struct {
	ID        uuid.UUID   `json:"id"`
	Amounts   money.Split `json:"amounts"`
	Total     int64       `json:"total"`
	Date      time.Time   `json:"date"`
	Author    string      `json:"author"`
	CreatedAt time.Time   `json:"created_at"`
}

type movementResponse struct {
	ID        uuid.UUID    `json:"id"`
	Kind      capital.Kind `json:"kind"`
	Amounts   money.Split  `json:"amounts"`
	Total     int64        `json:"total"`
	Concept   string       `json:"concept"`
	Notes     string       `json:"notes,omitempty"`
	Date      time.Time    `json:"date"`
	Author    string       `json:"author"`
	CreatedAt time.Time    `json:"created_at"`
}

func toInitialResponse(ic *capital.InitialCapital) initialResponse {
	return initialResponse{
		ID:        ic.ID,
		Amounts:   ic.Amounts,
		Total:     ic.Amounts.Total(),
		Date:      ic.Date,
		Author:    ic.Author,
		CreatedAt: ic.CreatedAt,
	}
}

func toMovementResponse(m *capital.Movement) movementResponse {
	return movementResponse{
		ID:        m.ID,
		Kind:      m.Kind,
		Amounts:   m.Amounts,
		Total:     m.Amounts.Total(),
		Concept:   m.Concept,
		Notes:     m.Notes,
		Date:      m.Date,
		Author:    m.Author,
		CreatedAt: m.CreatedAt,
	}
}

func toMovementResponseList(ms []*capital.Movement) []movementResponse {
	resp := make([]movementResponse, 0, len(ms))
	for _, m := range ms {
		resp = append(resp, toMovementResponse(m))
	}

	return resp
}
