package expense

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/washrent/internal/expense"
	"github.com/MrJamesThe3rd/washrent/internal/http/auth"
	"github.com/MrJamesThe3rd/washrent/internal/http/httpx"
	"github.com/MrJamesThe3rd/washrent/internal/importer"
	"github.com/MrJamesThe3rd/washrent/internal/money"
)

type Handler struct {
	svc       *expense.Service
	importSvc *importer.Service
	loc       *time.Location
	now       func() time.Time
}

func NewHandler(svc *expense.Service, importSvc *importer.Service, loc *time.Location) *Handler {
	return &Handler{svc: svc, importSvc: importSvc, loc: loc, now: time.Now}
}

// Routes mounts the expense endpoints.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Delete("/{id}", h.delete)
	r.Post("/import", h.importCSV)
	r.Post("/import/confirm", h.confirmImport)
}

// MaintenanceRoutes mounts the maintenance endpoints.
func (h *Handler) MaintenanceRoutes(r chi.Router) {
	r.Get("/", h.listMaintenance)
	r.Post("/", h.createMaintenance)
	r.Delete("/{id}", h.deleteMaintenance)
}

type createRequest struct {
	Concept     string    `json:"concept" validate:"required"`
	Amount      int64     `json:"amount" validate:"gt=0"`
	Date        time.Time `json:"date"`
	Channel     string    `json:"channel" validate:"required"`
	Description string    `json:"description"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := httpx.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ch, err := money.ParseChannel(req.Channel)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	e, err := h.svc.Create(r.Context(), expense.CreateParams{
		Concept:     req.Concept,
		Amount:      req.Amount,
		Date:        httpx.DateOr(req.Date, h.now()),
		Channel:     ch,
		Description: req.Description,
		Author:      auth.Operator(r.Context()),
	})
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, toResponse(e))
}

func (h *Handler) filter(r *http.Request) (expense.ListFilter, error) {
	var filter expense.ListFilter

	q := r.URL.Query()

	if q.Get("start") != "" || q.Get("end") != "" {
		start, end, err := httpx.Window(r, h.loc, h.now())
		if err != nil {
			return filter, err
		}

		filter.StartDate = new(start)
		filter.EndDate = new(end)
	}

	if s := q.Get("channel"); s != "" {
		ch, err := money.ParseChannel(s)
		if err != nil {
			return filter, err
		}

		filter.Channel = new(ch)
	}

	return filter, nil
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter, err := h.filter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	expenses, err := h.svc.List(r.Context(), filter)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, toResponseList(expenses))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		httpx.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type createMaintenanceRequest struct {
	Equipment   string     `json:"equipment" validate:"required"`
	Description string     `json:"description"`
	Cost        int64      `json:"cost" validate:"gt=0"`
	Channel     string     `json:"channel" validate:"required"`
	EstimatedAt *time.Time `json:"estimated_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

func (h *Handler) createMaintenance(w http.ResponseWriter, r *http.Request) {
	var req createMaintenanceRequest
	if err := httpx.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ch, err := money.ParseChannel(req.Channel)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	m, err := h.svc.CreateMaintenance(r.Context(), expense.CreateMaintenanceParams{
		Equipment:   req.Equipment,
		Description: req.Description,
		Cost:        req.Cost,
		Channel:     ch,
		EstimatedAt: req.EstimatedAt,
		CompletedAt: req.CompletedAt,
		Author:      auth.Operator(r.Context()),
	})
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, toMaintenanceResponse(m))
}

func (h *Handler) listMaintenance(w http.ResponseWriter, r *http.Request) {
	filter, err := h.filter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	jobs, err := h.svc.ListMaintenance(r.Context(), filter)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	resp := make([]maintenanceResponse, 0, len(jobs))
	for _, m := range jobs {
		resp = append(resp, toMaintenanceResponse(m))
	}

	httpx.JSON(w, http.StatusOK, resp)
}

func (h *Handler) deleteMaintenance(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := h.svc.DeleteMaintenance(r.Context(), id); err != nil {
		httpx.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	format := importer.Format(r.FormValue("format"))

	params, err := h.importSvc.Import(r.Context(), format, file, auth.Operator(r.Context()))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.writeImport(w, r, params)
}

type confirmRequest struct {
	Params []paramsDTO `json:"params" validate:"required,min=1"`
}

func (h *Handler) confirmImport(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := httpx.Decode(r, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	author := auth.Operator(r.Context())

	params := make([]expense.CreateParams, 0, len(req.Params))
	for _, p := range req.Params {
		params = append(params, expense.CreateParams{
			Concept:     p.Concept,
			Amount:      p.Amount,
			Date:        p.Date,
			Channel:     p.Channel,
			Description: p.Description,
			Author:      author,
		})
	}

	h.writeImport(w, r, params)
}

func (h *Handler) writeImport(w http.ResponseWriter, r *http.Request, params []expense.CreateParams) {
	result, err := h.svc.ImportBatch(r.Context(), params)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	if len(result.Conflicts) > 0 {
		httpx.JSON(w, http.StatusConflict, toConflictResponse(result))
		return
	}

	httpx.JSON(w, http.StatusCreated, importSuccessResponse{
		Imported: len(result.Imported),
		Expenses: toResponseList(result.Imported),
	})
}
