package document

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/mtzalva/backend-taller/internal/finance"
	"github.com/mtzalva/backend-taller/internal/order"
)

// Renderer produces the printable quote from an order snapshot. The layout is
// a fixed three-page structure: itemized quote with summary, intake and
// inspection report, condensed quote with signature blocks.
type Renderer struct {
	ShopName    string
	ShopAddress string
	ShopPhone   string
}

const (
	pageMargin = 15.0
	lineHeight = 6.0
)

// Render projects the snapshot into PDF bytes. Pure transform: no state is
// read beyond the snapshot and the renderer's shop constants.
func (rd Renderer) Render(o *order.Order) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, pageMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	rd.quotePage(pdf, tr, o)
	rd.inspectionPage(pdf, tr, o)
	rd.signaturePage(pdf, tr, o)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render quote: %w", err)
	}
	return buf.Bytes(), nil
}

// quotePage is page 1: the itemized quote plus the financial summary.
func (rd Renderer) quotePage(pdf *fpdf.Fpdf, tr func(string) string, o *order.Order) {
	pdf.AddPage()
	rd.header(pdf, tr, o, "COTIZACIÓN")

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, lineHeight, tr("Servicios"), "", 1, "L", false, 0, "")
	rd.lineItemTable(pdf, tr, o.Services)

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, lineHeight, tr("Refacciones"), "", 1, "L", false, 0, "")
	rd.partTable(pdf, tr, o.Parts)

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, lineHeight, tr("Mano de obra"), "", 1, "L", false, 0, "")
	rd.lineItemTable(pdf, tr, o.Labor)

	pdf.Ln(5)
	rd.summaryBlock(pdf, tr, o.Summary)
}

// inspectionPage is page 2: intake data, inspection checklist, damages and
// security points.
func (rd Renderer) inspectionPage(pdf *fpdf.Fpdf, tr func(string) string, o *order.Order) {
	pdf.AddPage()
	rd.header(pdf, tr, o, "REPORTE DE RECEPCIÓN E INSPECCIÓN")

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, lineHeight, tr("Inspección"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	if len(o.Inspection) == 0 {
		pdf.CellFormat(0, lineHeight, tr("Sin elementos registrados."), "", 1, "L", false, 0, "")
	}
	for _, entry := range o.Inspection {
		line := fmt.Sprintf("%s: %s", entry.Name, entry.Condition)
		if entry.Notes != "" {
			line += " — " + entry.Notes
		}
		pdf.CellFormat(0, lineHeight, tr(line), "B", 1, "L", false, 0, "")
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, lineHeight, tr("Daños visibles"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	if len(o.Damages) == 0 {
		pdf.CellFormat(0, lineHeight, tr("Sin daños registrados."), "", 1, "L", false, 0, "")
	}
	for _, d := range o.Damages {
		pdf.CellFormat(0, lineHeight, tr(fmt.Sprintf("%s: %s", d.Location, d.Description)), "B", 1, "L", false, 0, "")
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, lineHeight, tr("Puntos de seguridad"), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	for _, p := range o.SecurityPoints {
		present := "NO"
		if p.Present {
			present = "SÍ"
		}
		line := fmt.Sprintf("%s: %s", p.Name, present)
		if p.Notes != "" {
			line += " (" + p.Notes + ")"
		}
		pdf.CellFormat(0, lineHeight, tr(line), "B", 1, "L", false, 0, "")
	}
}

// signaturePage is page 3: condensed totals and the signature blocks.
func (rd Renderer) signaturePage(pdf *fpdf.Fpdf, tr func(string) string, o *order.Order) {
	pdf.AddPage()
	rd.header(pdf, tr, o, "AUTORIZACIÓN")

	rd.summaryBlock(pdf, tr, o.Summary)

	pdf.Ln(30)
	pageWidth, _ := pdf.GetPageSize()
	colWidth := (pageWidth - 2*pageMargin - 20) / 2

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(colWidth, lineHeight, "", "T", 0, "C", false, 0, "")
	pdf.CellFormat(20, lineHeight, "", "", 0, "C", false, 0, "")
	pdf.CellFormat(colWidth, lineHeight, "", "T", 1, "C", false, 0, "")
	pdf.CellFormat(colWidth, lineHeight, tr("Firma del cliente"), "", 0, "C", false, 0, "")
	pdf.CellFormat(20, lineHeight, "", "", 0, "C", false, 0, "")
	pdf.CellFormat(colWidth, lineHeight, tr("Firma del asesor"), "", 1, "C", false, 0, "")
}

func (rd Renderer) header(pdf *fpdf.Fpdf, tr func(string) string, o *order.Order, title string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 8, tr(rd.ShopName), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	if rd.ShopAddress != "" {
		pdf.CellFormat(0, 4, tr(rd.ShopAddress), "", 1, "C", false, 0, "")
	}
	if rd.ShopPhone != "" {
		pdf.CellFormat(0, 4, tr("Tel. "+rd.ShopPhone), "", 1, "C", false, 0, "")
	}
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, lineHeight, tr(title), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(95, lineHeight, tr(fmt.Sprintf("Folio: %d", o.Folio)), "", 0, "L", false, 0, "")
	pdf.CellFormat(0, lineHeight, tr("Fecha: "+formatDate(o.CreatedAt)), "", 1, "R", false, 0, "")
	pdf.CellFormat(95, lineHeight, tr("Cliente: "+o.Customer.Name), "", 0, "L", false, 0, "")
	pdf.CellFormat(0, lineHeight, tr("Tel: "+o.Customer.Phone), "", 1, "R", false, 0, "")
	pdf.CellFormat(95, lineHeight,
		tr(fmt.Sprintf("Vehículo: %s %s %d", o.Vehicle.Brand, o.Vehicle.Model, o.Vehicle.Year)),
		"", 0, "L", false, 0, "")
	pdf.CellFormat(0, lineHeight, tr("Placas: "+o.Vehicle.Plate), "", 1, "R", false, 0, "")
	pdf.Ln(4)
}

func (rd Renderer) lineItemTable(pdf *fpdf.Fpdf, tr func(string) string, items []finance.LineItem) {
	pdf.SetFont("Helvetica", "", 9)
	if len(items) == 0 {
		pdf.CellFormat(0, lineHeight, tr("Sin conceptos."), "", 1, "L", false, 0, "")
		return
	}
	for _, item := range items {
		pdf.CellFormat(140, lineHeight, tr(item.Description), "B", 0, "L", false, 0, "")
		pdf.CellFormat(0, lineHeight, formatMoney(item.Price), "B", 1, "R", false, 0, "")
	}
}

func (rd Renderer) partTable(pdf *fpdf.Fpdf, tr func(string) string, parts []finance.PartItem) {
	pdf.SetFont("Helvetica", "", 9)
	if len(parts) == 0 {
		pdf.CellFormat(0, lineHeight, tr("Sin refacciones."), "", 1, "L", false, 0, "")
		return
	}
	for _, part := range parts {
		label := fmt.Sprintf("%d x %s @ %s", part.Quantity, part.Name, formatMoney(part.UnitPrice))
		pdf.CellFormat(140, lineHeight, tr(label), "B", 0, "L", false, 0, "")
		pdf.CellFormat(0, lineHeight, formatMoney(part.Total), "B", 1, "R", false, 0, "")
	}
}

func (rd Renderer) summaryBlock(pdf *fpdf.Fpdf, tr func(string) string, s finance.Summary) {
	row := func(label string, amount float64, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 9)
		pdf.CellFormat(140, lineHeight, tr(label), "", 0, "R", false, 0, "")
		pdf.CellFormat(0, lineHeight, formatMoney(amount), "", 1, "R", false, 0, "")
	}
	row("Subtotal", s.Subtotal, false)
	if s.TaxIncluded {
		row("IVA (16%)", s.Tax, false)
	}
	row("Total", s.Total, true)
	row("Anticipo", s.AdvancePayment, false)
	row("Saldo", s.BalanceDue, true)
}

// formatMoney renders an amount as $1,234.56.
func formatMoney(v float64) string {
	negative := v < 0
	if negative {
		v = -v
	}
	s := fmt.Sprintf("%.2f", v)
	dot := strings.Index(s, ".")
	intPart, frac := s[:dot], s[dot:]
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := "$" + b.String() + frac
	if negative {
		out = "-" + out
	}
	return out
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.Format("02/01/2006")
}
