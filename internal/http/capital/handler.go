package capital

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/washrent/internal/capital"
	"github.com/MrJamesThe3rd/washrent/internal/http/auth"
	"github.com/MrJamesThe3rd/washrent/internal/http/httpx"
	"github.com/MrJamesThe3rd/washrent/internal/money"
)

type Handler struct {
	svc *capital.Service
	now func() time.Time
}

func NewHandler(svc *capital.Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/initial", h.getInitial)
	r.Post("/initial", h.createInitial)

	r.Route("/movements", func(r chi.Router) {
		r.Get("/", h.listMovements)
		r.Post("/", h.createMovement)
		r.Get("/{id}", h.getMovement)
		r.Delete("/{id}", h.deleteMovement)
	})
}

type createInitialRequest struct {
	Amounts money.Split `json:"amounts"`
	Date    time.Time   `json:"date"`
}

func (h *Handler) getInitial(w http.ResponseWriter, r *http.Request) {
	ic, err := h.svc.InitialCapital(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}

	if ic == nil {
		http.Error(w, "initial capital not recorded", http.StatusNotFound)
		return
	}

	httpx.JSON(w, http.StatusOK, toInitialResponse(ic))
}

func (h *Handler) createInitial(w http.ResponseWriter, r *http.Request) {
	var req createInitialRequest
	if err := httpx.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ic, err := h.svc.CreateInitialCapital(r.Context(), capital.CreateInitialParams{
		Amounts: req.Amounts,
		Date:    httpx.DateOr(req.Date, h.now()),
		Author:  auth.Operator(r.Context()),
	})
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, toInitialResponse(ic))
}

type createMovementRequest struct {
	Kind    capital.Kind `json:"kind" validate:"required,oneof=injection withdrawal"`
	Amounts money.Split  `json:"amounts"`
	Concept string       `json:"concept" validate:"required"`
	Notes   string       `json:"notes"`
	Date    time.Time    `json:"date"`
}

func (h *Handler) createMovement(w http.ResponseWriter, r *http.Request) {
	var req createMovementRequest
	if err := httpx.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	m, err := h.svc.CreateMovement(r.Context(), capital.CreateMovementParams{
		Kind:    req.Kind,
		Amounts: req.Amounts,
		Concept: req.Concept,
		Notes:   req.Notes,
		Date:    httpx.DateOr(req.Date, h.now()),
		Author:  auth.Operator(r.Context()),
	})
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, toMovementResponse(m))
}

func (h *Handler) listMovements(w http.ResponseWriter, r *http.Request) {
	movements, err := h.svc.ListMovements(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toMovementResponseList(movements))
}

func (h *Handler) getMovement(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	m, err := h.svc.GetMovement(r.Context(), id)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toMovementResponse(m))
}

func (h *Handler) deleteMovement(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.DeleteMovement(r.Context(), id); err != nil {
		httpx.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
