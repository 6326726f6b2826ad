package document

import (
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/mtzalva/backend-taller/internal/common"
)

// WarrantyLoader serves the static warranty policy PDF. The asset is
// immutable for the lifetime of the process, so a successful read is cached
// and reused. A failed read is not cached: the asset may simply not be in
// place yet, and the next download attempt must retry.
type WarrantyLoader struct {
	Path string

	mu   sync.Mutex
	data []byte
}

// Load returns the warranty PDF bytes. A missing or unreadable asset is a
// hard failure for the current request: the merged document must not ship
// without the warranty pages.
func (l *WarrantyLoader) Load() ([]byte, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.data != nil {
		return l.data, nil
	}
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, warrantyUnavailable(fmt.Errorf("load warranty asset: %w", err))
	}
	if err := validatePDF(data, nil); err != nil {
		return nil, warrantyUnavailable(fmt.Errorf("warranty asset %s: %w", l.Path, err))
	}
	l.data = data
	return l.data, nil
}

func warrantyUnavailable(err error) *common.AppError {
	return common.NewAppError("WARRANTY_UNAVAILABLE",
		"El documento de garantía no está disponible.",
		http.StatusBadGateway, err)
}
