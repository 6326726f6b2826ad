package document

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Merge concatenates the rendered quote with the warranty policy, quote pages
// first. Pages are copied as-is, no reordering or transformation. Any
// malformed input is a hard failure; no partial document is returned.
func Merge(primary, warranty []byte) ([]byte, error) {
	conf := model.NewDefaultConfiguration()

	if err := validatePDF(primary, conf); err != nil {
		return nil, fmt.Errorf("primary document: %w", err)
	}
	if err := validatePDF(warranty, conf); err != nil {
		return nil, fmt.Errorf("warranty document: %w", err)
	}

	sources := []io.ReadSeeker{
		bytes.NewReader(primary),
		bytes.NewReader(warranty),
	}
	var out bytes.Buffer
	if err := api.MergeRaw(sources, &out, false, conf); err != nil {
		return nil, fmt.Errorf("merge documents: %w", err)
	}
	return out.Bytes(), nil
}

// PageCount returns the number of pages in a PDF.
func PageCount(doc []byte) (int, error) {
	return api.PageCount(bytes.NewReader(doc), model.NewDefaultConfiguration())
}

func validatePDF(doc []byte, conf *model.Configuration) error {
	if len(doc) == 0 {
		return fmt.Errorf("empty input")
	}
	n, err := api.PageCount(bytes.NewReader(doc), conf)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("document has no pages")
	}
	return nil
}
