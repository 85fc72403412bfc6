package ledger

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/washrent/internal/http/httpx"
	"github.com/MrJamesThe3rd/washrent/internal/ledger"
	"github.com/MrJamesThe3rd/washrent/internal/money"
	"github.com/MrJamesThe3rd/washrent/internal/report"
	"github.com/MrJamesThe3rd/washrent/internal/solvency"
)

type Handler struct {
	builder    *ledger.Builder
	aggregator *ledger.Aggregator
	reports    *report.Service
	loc        *time.Location
	now        func() time.Time
}

func NewHandler(builder *ledger.Builder, aggregator *ledger.Aggregator, reports *report.Service, loc *time.Location) *Handler {
	return &Handler{
		builder:    builder,
		aggregator: aggregator,
		reports:    reports,
		loc:        loc,
		now:        time.Now,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/ledger", h.ledger)
	r.Get("/balances", h.balances)
	r.Get("/solvency", h.solvency)
	r.Get("/reports/summary", h.summary)
}

type ledgerResponse struct {
	Start   time.Time      `json:"start"`
	End     time.Time      `json:"end"`
	Entries []ledger.Entry `json:"entries"`
}

func (h *Handler) ledger(w http.ResponseWriter, r *http.Request) {
	start, end, err := httpx.Window(r, h.loc, h.now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entries, err := h.builder.Build(r.Context(), start, end)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	if entries == nil {
		entries = []ledger.Entry{}
	}

	httpx.JSON(w, http.StatusOK, ledgerResponse{Start: start, End: end, Entries: entries})
}

func (h *Handler) balances(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.aggregator.Current(r.Context()))
}

type solvencyResponse struct {
	Amount     int64           `json:"amount"`
	Channel    money.Channel   `json:"channel,omitempty"`
	Sufficient *bool           `json:"sufficient,omitempty"`
	Admissible []money.Channel `json:"admissible"`
	Default    money.Channel   `json:"default,omitempty"`
	Balances   money.Balances  `json:"balances"`
}

// solvency answers whether amount can be paid, from one channel when given,
// and lists every channel that could pay it.
func (h *Handler) solvency(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	amount, err := money.ParseAmount(q.Get("amount"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	balances, err := h.aggregator.Balances(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}

	admissible, err := solvency.AdmissibleChannels(balances, amount)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	resp := solvencyResponse{
		Amount:     amount,
		Admissible: admissible,
		Balances:   balances,
	}
	if def, ok := solvency.Default(balances, amount); ok {
		resp.Default = def
	}

	if raw := q.Get("channel"); raw != "" {
		ch, err := money.ParseChannel(raw)
		if err != nil {
			httpx.Error(w, err)
			return
		}

		ok, err := solvency.Check(balances, amount, ch)
		if err != nil {
			httpx.Error(w, err)
			return
		}

		resp.Channel = ch
		resp.Sufficient = &ok
	}

	httpx.JSON(w, http.StatusOK, resp)
}

type summaryResponse struct {
	*report.Summary
	Statement string `json:"statement,omitempty"`
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	start, end, err := httpx.Window(r, h.loc, h.now())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sum, entries, err := h.reports.Summary(r.Context(), start, end)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	resp := summaryResponse{Summary: sum}
	if r.URL.Query().Get("statement") == "true" {
		resp.Statement = report.Statement(entries, h.loc)
	}

	httpx.JSON(w, http.StatusOK, resp)
}
