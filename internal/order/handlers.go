package order

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mtzalva/backend-taller/internal/common"
)

// Handlers exposes the order endpoints. Document, when set, serves the merged
// quote/warranty download under /{id}/document.
type Handlers struct {
	Service  *Service
	Document http.HandlerFunc
}

// Routes builds a standalone order sub-router.
func (h Handlers) Routes() chi.Router {
	r := chi.NewRouter()
	h.Register(r)
	return r
}

// Register attaches the order endpoints to an existing router.
func (h Handlers) Register(r chi.Router) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Put("/", h.Save)
		r.Delete("/", h.Delete)
		r.Patch("/status", h.Transition)
		r.Patch("/summary", h.UpdateSummary)
		r.Post("/services", h.AddService)
		r.Put("/services/{itemID}", h.ReplaceService)
		r.Delete("/services/{itemID}", h.DeleteService)
		r.Post("/parts", h.AddPart)
		r.Put("/parts/{itemID}", h.ReplacePart)
		r.Delete("/parts/{itemID}", h.DeletePart)
		r.Post("/labor", h.AddLabor)
		r.Put("/labor/{itemID}", h.ReplaceLabor)
		r.Delete("/labor/{itemID}", h.DeleteLabor)
		if h.Document != nil {
			r.Get("/document", h.Document)
		}
	})
}

// Create handles POST /orders.
func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if !decodeBody(w, r, &in) {
		return
	}
	o, err := h.Service.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, o)
}

// List handles GET /orders with pagination and an optional status filter.
func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := common.ParsePagination(r, 20)
	status := Status(r.URL.Query().Get("status"))

	orders, total, err := h.Service.List(r.Context(), status, page, perPage)
	if err != nil {
		writeError(w, err)
		return
	}
	if orders == nil {
		orders = []Order{}
	}
	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	common.JSON(w, http.StatusOK, map[string]any{
		"items":   orders,
		"page":    page,
		"perPage": perPage,
		"total":   total,
	})
}

// Get handles GET /orders/{id}.
func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	o, err := h.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, o)
}

// Save handles PUT /orders/{id}.
func (h Handlers) Save(w http.ResponseWriter, r *http.Request) {
	var in CreateInput
	if !decodeBody(w, r, &in) {
		return
	}
	o, err := h.Service.Save(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, o)
}

// Delete handles DELETE /orders/{id}.
func (h Handlers) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Transition handles PATCH /orders/{id}/status.
func (h Handlers) Transition(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Status Status `json:"status"`
	}
	if !decodeBody(w, r, &in) {
		return
	}
	o, err := h.Service.Transition(r.Context(), chi.URLParam(r, "id"), in.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, o)
}

// UpdateSummary handles PATCH /orders/{id}/summary.
func (h Handlers) UpdateSummary(w http.ResponseWriter, r *http.Request) {
	var in SummaryInput
	if !decodeBody(w, r, &in) {
		return
	}
	o, err := h.Service.UpdateSummary(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, o)
}

// AddService handles POST /orders/{id}/services.
func (h Handlers) AddService(w http.ResponseWriter, r *http.Request) {
	h.lineItemMutation(w, r, h.Service.AddService)
}

// ReplaceService handles PUT /orders/{id}/services/{itemID}.
func (h Handlers) ReplaceService(w http.ResponseWriter, r *http.Request) {
	h.lineItemReplace(w, r, h.Service.ReplaceService)
}

// DeleteService handles DELETE /orders/{id}/services/{itemID}.
func (h Handlers) DeleteService(w http.ResponseWriter, r *http.Request) {
	h.lineItemDelete(w, r, h.Service.DeleteService)
}

// AddLabor handles POST /orders/{id}/labor.
func (h Handlers) AddLabor(w http.ResponseWriter, r *http.Request) {
	h.lineItemMutation(w, r, h.Service.AddLabor)
}

// ReplaceLabor handles PUT /orders/{id}/labor/{itemID}.
func (h Handlers) ReplaceLabor(w http.ResponseWriter, r *http.Request) {
	h.lineItemReplace(w, r, h.Service.ReplaceLabor)
}

// DeleteLabor handles DELETE /orders/{id}/labor/{itemID}.
func (h Handlers) DeleteLabor(w http.ResponseWriter, r *http.Request) {
	h.lineItemDelete(w, r, h.Service.DeleteLabor)
}

// AddPart handles POST /orders/{id}/parts.
func (h Handlers) AddPart(w http.ResponseWriter, r *http.Request) {
	var in PartInput
	if !decodeBody(w, r, &in) {
		return
	}
	o, err := h.Service.AddPart(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, o)
}

// ReplacePart handles PUT /orders/{id}/parts/{itemID}.
func (h Handlers) ReplacePart(w http.ResponseWriter, r *http.Request) {
	var in PartInput
	if !decodeBody(w, r, &in) {
		return
	}
	o, err := h.Service.ReplacePart(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "itemID"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, o)
}

// DeletePart handles DELETE /orders/{id}/parts/{itemID}.
func (h Handlers) DeletePart(w http.ResponseWriter, r *http.Request) {
	o, err := h.Service.DeletePart(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "itemID"))
	if err != nil {
		writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, o)
}

func (h Handlers) lineItemMutation(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id string, in LineItemInput) (*Order, error)) {
	var in LineItemInput
	if !decodeBody(w, r, &in) {
		return
	}
	o, err := fn(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, o)
}

func (h Handlers) lineItemReplace(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id, itemID string, in LineItemInput) (*Order, error)) {
	var in LineItemInput
	if !decodeBody(w, r, &in) {
		return
	}
	o, err := fn(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "itemID"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, o)
}

func (h Handlers) lineItemDelete(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id, itemID string) (*Order, error)) {
	o, err := fn(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "itemID"))
	if err != nil {
		writeError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, o)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		common.JSONAppError(w, common.ClassifyStatus(http.StatusBadRequest, err))
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, err error) {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		common.JSONAppError(w, appErr)
		return
	}
	common.JSONAppError(w, common.ClassifyStatus(http.StatusInternalServerError, err))
}
