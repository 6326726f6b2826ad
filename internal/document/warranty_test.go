package document

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mtzalva/backend-taller/internal/common"
)

func TestWarrantyLoaderReadsAsset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warranty.pdf")
	require.NoError(t, os.WriteFile(path, makePDF(t, 2, "warranty"), 0o600))

	loader := &WarrantyLoader{Path: path}
	data, err := loader.Load()
	require.NoError(t, err)

	n, err := PageCount(data)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	// cached copy survives asset removal
	require.NoError(t, os.Remove(path))
	again, err := loader.Load()
	require.NoError(t, err)
	require.Equal(t, data, again)
}

func TestWarrantyLoaderMissingAssetIsHardFailure(t *testing.T) {
	loader := &WarrantyLoader{Path: filepath.Join(t.TempDir(), "missing.pdf")}

	_, err := loader.Load()
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "WARRANTY_UNAVAILABLE", appErr.Code)
	require.Equal(t, http.StatusBadGateway, appErr.HTTPStatus)
}

func TestWarrantyLoaderRecoversOnceAssetAppears(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warranty.pdf")
	loader := &WarrantyLoader{Path: path}

	_, err := loader.Load()
	require.Error(t, err)

	require.NoError(t, os.WriteFile(path, makePDF(t, 1, "warranty"), 0o600))

	data, err := loader.Load()
	require.NoError(t, err)

	n, err := PageCount(data)
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestWarrantyLoaderRetriesAfterCorruptAssetReplaced(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warranty.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0o600))

	loader := &WarrantyLoader{Path: path}
	_, err := loader.Load()
	require.Error(t, err)

	require.NoError(t, os.WriteFile(path, makePDF(t, 2, "warranty"), 0o600))

	data, err := loader.Load()
	require.NoError(t, err)

	n, err := PageCount(data)
	require.NoError(t, err)
	require.Equal(t, 2, n)
}

func TestWarrantyLoaderRejectsCorruptAsset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "warranty.pdf")
	require.NoError(t, os.WriteFile(path, []byte("not a pdf"), 0o600))

	loader := &WarrantyLoader{Path: path}
	_, err := loader.Load()
	require.Error(t, err)
}
