package expense

import (
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/washrent/internal/expense"
	"github.com/MrJamesThe3rd/washrent/internal/money"
)

type response struct {
	ID          uuid.UUID     `json:"id"`
	Concept     string        `json:"concept"`
	Amount      int64         `json:"amount"`
	Date        time.Time     `json:"date"`
	Channel     money.Channel `json:"channel"`
	Description string        `json:"description,omitempty"`
	Author      string        `json:"author"`
	CreatedAt   time.Time     `json:"created_at"`
}

type maintenanceResponse struct {
	ID          uuid.UUID     `json:"id"`
	Equipment   string        `json:"equipment"`
	Description string        `json:"description,omitempty"`
	Cost        int64         `json:"cost"`
	Channel     money.Channel `json:"channel"`
	EstimatedAt *time.Time    `json:"estimated_at,omitempty"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
	Author      string        `json:"author"`
	CreatedAt   time.Time     `json:"created_at"`
}

type paramsDTO struct {
	Concept     string        `json:"concept"`
	Amount      int64         `json:"amount"`
	Date        time.Time     `json:"date"`
	Channel     money.Channel `json:"channel"`
	Description string        `json:"description,omitempty"`
}

type conflictDTO struct {
	Incoming paramsDTO `json:"incoming"`
	Existing response  `json:"existing"`
}

type importConflictResponse struct {
	New       []paramsDTO   `json:"new"`
	Conflicts []conflictDTO `json:"conflicts"`
}

type importSuccessResponse struct {
	Imported int        `json:"imported"`
	Expenses []response `json:"expenses"`
}

func toResponse(e *expense.Expense) response {
	return response{
		ID:          e.ID,
		Concept:     e.Concept,
		Amount:      e.Amount,
		Date:        e.Date,
		Channel:     e.Channel,
		Description: e.Description,
		Author:      e.Author,
		CreatedAt:   e.CreatedAt,
	}
}

func toResponseList(expenses []*expense.Expense) []response {
	resp := make([]response, 0, len(expenses))
	for _, e := range expenses {
		resp = append(resp, toResponse(e))
	}

	return resp
}

func toMaintenanceResponse(m *expense.Maintenance) maintenanceResponse {
	return maintenanceResponse{
		ID:          m.ID,
		Equipment:   m.Equipment,
		Description: m.Description,
		Cost:        m.Cost,
		Channel:     m.Channel,
		EstimatedAt: m.EstimatedAt,
		CompletedAt: m.CompletedAt,
		Author:      m.Author,
		CreatedAt:   m.CreatedAt,
	}
}

func toParamsDTO(p expense.CreateParams) paramsDTO {
	return paramsDTO{
		Concept:     p.Concept,
		Amount:      p.Amount,
		Date:        p.Date,
		Channel:     p.Channel,
		Description: p.Description,
	}
}

func toConflictResponse(result *expense.ImportResult) importConflictResponse {
	resp := importConflictResponse{
		New:       make([]paramsDTO, 0, len(result.New)),
		Conflicts: make([]conflictDTO, 0, len(result.Conflicts)),
	}

	for _, p := range result.New {
		resp.New = append(resp.New, toParamsDTO(p))
	}

	for _, c := range result.Conflicts {
		resp.Conflicts = append(resp.Conflicts, conflictDTO{
			Incoming: toParamsDTO(c.Incoming),
			Existing: toResponse(c.Existing),
		})
	}

	return resp
}
