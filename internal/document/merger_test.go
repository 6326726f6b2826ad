package document

import (
	"bytes"
	"fmt"
	"io"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/stretchr/testify/require"
)

// makePDF builds a simple document with the given number of pages.
func makePDF(t *testing.T, pages int, label string) []byte {
	t.Helper()
	pdf := fpdf.New("P", "mm", "Letter", "")
	for i := 1; i <= pages; i++ {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "", 12)
		pdf.CellFormat(0, 10, fmt.Sprintf("%s page %d", label, i), "", 1, "L", false, 0, "")
	}
	var buf bytes.Buffer
	require.NoError(t, pdf.Output(&buf))
	return buf.Bytes()
}

// pageContent returns the decoded content stream of one page.
func pageContent(t *testing.T, doc []byte, pageNr int) string {
	t.Helper()
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(doc), model.NewDefaultConfiguration())
	require.NoError(t, err)
	r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
	require.NoError(t, err)
	content, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(content)
}

func TestMergeQuoteFirstWarrantyLast(t *testing.T) {
	quote := makePDF(t, 3, "quote")
	warranty := makePDF(t, 2, "warranty")

	merged, err := Merge(quote, warranty)
	require.NoError(t, err)

	n, err := PageCount(merged)
	require.NoError(t, err)
	require.Equal(t, 5, n)

	// quote pages must come first, warranty pages last, in original order
	for i := 1; i <= 3; i++ {
		require.Contains(t, pageContent(t, merged, i), fmt.Sprintf("quote page %d", i))
	}
	for i := 1; i <= 2; i++ {
		require.Contains(t, pageContent(t, merged, 3+i), fmt.Sprintf("warranty page %d", i))
	}
}

func TestMergeRejectsEmptyInput(t *testing.T) {
	quote := makePDF(t, 1, "quote")

	_, err := Merge(quote, nil)
	require.Error(t, err)

	_, err = Merge(nil, quote)
	require.Error(t, err)
}

func TestMergeRejectsCorruptInput(t *testing.T) {
	quote := makePDF(t, 1, "quote")

	_, err := Merge(quote, []byte("definitely not a pdf"))
	require.Error(t, err)
}

func TestPageCount(t *testing.T) {
	doc := makePDF(t, 4, "doc")
	n, err := PageCount(doc)
	require.NoError(t, err)
	require.Equal(t, 4, n)
}
