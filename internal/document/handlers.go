package document

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/mtzalva/backend-taller/internal/common"
	"github.com/mtzalva/backend-taller/internal/obs"
	"github.com/mtzalva/backend-taller/internal/order"
)

// OrderGetter loads the snapshot to print.
type OrderGetter interface {
	Get(ctx context.Context, id string) (*order.Order, error)
}

// Handlers serves the merged quote/warranty download.
type Handlers struct {
	Orders   OrderGetter
	Renderer Renderer
	Warranty *WarrantyLoader
	Metrics  *obs.DocumentMetrics
	Logger   zerolog.Logger
}

// Generate handles GET /orders/{id}/document: render the quote, append the
// warranty pages and stream the result with the deterministic filename.
func (h Handlers) Generate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	o, err := h.Orders.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	quote, err := h.Renderer.Render(o)
	if err != nil {
		h.failMerge(w, id, err)
		return
	}
	warranty, err := h.Warranty.Load()
	if err != nil {
		h.failMerge(w, id, err)
		return
	}
	merged, err := Merge(quote, warranty)
	if err != nil {
		h.failMerge(w, id, err)
		return
	}

	if h.Metrics != nil {
		h.Metrics.Generated.Inc()
	}
	name := Filename(o.Folio, o.Vehicle.Model, o.Customer.Name)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(merged)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(merged)
}

func (h Handlers) failMerge(w http.ResponseWriter, orderID string, err error) {
	if h.Metrics != nil {
		h.Metrics.MergeFailure.Inc()
	}
	h.Logger.Error().Err(err).Str("order_id", orderID).Msg("document generation failed")
	h.writeError(w, err)
}

func (h Handlers) writeError(w http.ResponseWriter, err error) {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		common.JSONAppError(w, appErr)
		return
	}
	common.JSONAppError(w, common.ClassifyStatus(http.StatusInternalServerError, err))
}
