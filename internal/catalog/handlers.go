package catalog

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mtzalva/backend-taller/internal/common"
)

// Lister resolves catalog collections for HTTP handlers.
type Lister interface {
	List(ctx context.Context, kind Kind, bearerToken string) ([]Item, error)
	Refresh(ctx context.Context, kind Kind, bearerToken string) ([]Item, error)
}

// Handlers exposes the catalog endpoints.
type Handlers struct {
	Service Lister
}

// List serves GET /catalog/{kind}.
func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "service unavailable", nil)
		return
	}
	kind := Kind(chi.URLParam(r, "kind"))
	token, _ := common.BearerToken(r.Context())

	items, err := h.Service.List(r.Context(), kind, token)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"items": items})
}

// Refresh serves POST /catalog/{kind}/refresh and bypasses the cache.
func (h Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	if h.Service == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "service unavailable", nil)
		return
	}
	kind := Kind(chi.URLParam(r, "kind"))
	token, _ := common.BearerToken(r.Context())

	items, err := h.Service.Refresh(r.Context(), kind, token)
	if err != nil {
		writeCatalogError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"items": items})
}

func writeCatalogError(w http.ResponseWriter, err error) {
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		common.JSONAppError(w, appErr)
		return
	}
	common.JSONAppError(w, common.ClassifyStatus(http.StatusBadGateway, err))
}
