package order

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/washrent/internal/http/httpx"
	"github.com/MrJamesThe3rd/washrent/internal/money"
	"github.com/MrJamesThe3rd/washrent/internal/order"
)

type Handler struct {
	svc *order.Service
	now func() time.Time
}

func NewHandler(svc *order.Service) *Handler {
	return &Handler{svc: svc, now: time.Now}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Patch("/{id}/status", h.updateStatus)
	r.Post("/{id}/payments", h.addPayment)
}

type createRequest struct {
	ClientName  string    `json:"client_name" validate:"required"`
	ClientPhone string    `json:"client_phone"`
	Plan        string    `json:"plan" validate:"required"`
	Total       int64     `json:"total" validate:"gte=0"`
	StartDate   time.Time `json:"start_date"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpx.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	o, err := h.svc.Create(r.Context(), order.CreateParams{
		ClientName:  req.ClientName,
		ClientPhone: req.ClientPhone,
		Plan:        req.Plan,
		Total:       req.Total,
		StartDate:   httpx.DateOr(req.StartDate, h.now()),
	})
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, toResponse(o))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	var filter order.ListFilter

	if s := r.URL.Query().Get("status"); s != "" {
		status := order.Status(s)
		if !status.Valid() {
			http.Error(w, order.ErrInvalidStatus.Error(), http.StatusBadRequest)
			return
		}

		filter.Status = &status
	}

	orders, err := h.svc.List(r.Context(), filter)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	resp := make([]response, 0, len(orders))
	for _, o := range orders {
		resp = append(resp, toResponse(o))
	}

	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	o, err := h.svc.Get(r.Context(), id)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toResponse(o))
}

type statusRequest struct {
	Status order.Status `json:"status" validate:"required"`
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req statusRequest
	if err := httpx.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.svc.UpdateStatus(r.Context(), id, req.Status); err != nil {
		httpx.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type paymentRequest struct {
	Amount    int64     `json:"amount" validate:"gt=0"`
	Channel   string    `json:"channel" validate:"required"`
	PaidAt    time.Time `json:"paid_at"`
	Reference string    `json:"reference"`
}

func (h *Handler) addPayment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	var req paymentRequest
	if err := httpx.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ch, err := money.ParseChannel(req.Channel)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	p, err := h.svc.AddPayment(r.Context(), id, order.AddPaymentParams{
		Amount:    req.Amount,
		Channel:   ch,
		PaidAt:    httpx.DateOr(req.PaidAt, h.now()),
		Reference: req.Reference,
	})
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, toPaymentResponse(*p))
}
