package document

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/mtzalva/backend-taller/internal/common"
	"github.com/mtzalva/backend-taller/internal/order"
)

type fakeGetter struct {
	order *order.Order
	err   error
}

func (f fakeGetter) Get(context.Context, string) (*order.Order, error) {
	return f.order, f.err
}

func documentRouter(h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Get("/orders/{id}/document", h.Generate)
	return r
}

func TestGenerateStreamsMergedDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warranty.pdf")
	require.NoError(t, os.WriteFile(path, makePDF(t, 2, "warranty"), 0o600))

	h := Handlers{
		Orders:   fakeGetter{order: sampleOrder()},
		Renderer: Renderer{ShopName: "Taller Automotriz MT"},
		Warranty: &WarrantyLoader{Path: path},
		Logger:   zerolog.Nop(),
	}

	rr := httptest.NewRecorder()
	documentRouter(h).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/orders/ord-1/document", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "application/pdf", rr.Header().Get("Content-Type"))
	require.Equal(t, `attachment; filename="ORDEN_1042_VERSA_JUAN_PÉREZ.pdf"`,
		rr.Header().Get("Content-Disposition"))

	n, err := PageCount(rr.Body.Bytes())
	require.NoError(t, err)
	require.Equal(t, 5, n)
}

func TestGenerateUnknownOrder(t *testing.T) {
	h := Handlers{
		Orders: fakeGetter{err: common.ClassifyStatus(http.StatusNotFound, nil)},
		Logger: zerolog.Nop(),
	}

	rr := httptest.NewRecorder()
	documentRouter(h).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/orders/nope/document", nil))
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestGenerateFailsWithoutWarranty(t *testing.T) {
	h := Handlers{
		Orders:   fakeGetter{order: sampleOrder()},
		Renderer: Renderer{ShopName: "Taller"},
		Warranty: &WarrantyLoader{Path: filepath.Join(t.TempDir(), "missing.pdf")},
		Logger:   zerolog.Nop(),
	}

	rr := httptest.NewRecorder()
	documentRouter(h).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/orders/ord-1/document", nil))
	require.Equal(t, http.StatusBadGateway, rr.Code)
	require.Empty(t, rr.Header().Get("Content-Disposition"))
}
