// Package finance derives the financial summary of a repair order from its
// line-item collections. All derived fields are recomputed from scratch on
// every call; nothing here holds state.
package finance

import "math"

// TaxRate is the fixed IVA rate applied when an order includes tax.
// It is not configurable per order.
const TaxRate = 0.16

// DefaultMarginPercent is the uniform margin applied to parts unless a
// per-part override is stored.
const DefaultMarginPercent = 30.0

// LineItem is a priced service or labor entry on an order.
type LineItem struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// PartItem is a replacement part with a cost-plus-margin price. UnitPrice and
// Total are always derived from UnitCost, MarginPercent and Quantity; they are
// never accepted from callers.
type PartItem struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Quantity      int     `json:"quantity"`
	UnitCost      float64 `json:"unitCost"`
	MarginPercent float64 `json:"marginPercent"`
	UnitPrice     float64 `json:"unitPrice"`
	Total         float64 `json:"total"`
}

// Summary holds every derived financial figure of an order. Only TaxIncluded
// and AdvancePayment are caller inputs; the rest are recomputed.
type Summary struct {
	ServicesTotal  float64 `json:"servicesTotal"`
	PartsTotal     float64 `json:"partsTotal"`
	LaborTotal     float64 `json:"laborTotal"`
	Subtotal       float64 `json:"subtotal"`
	TaxIncluded    bool    `json:"taxIncluded"`
	Tax            float64 `json:"tax"`
	Total          float64 `json:"total"`
	AdvancePayment float64 `json:"advancePayment"`
	BalanceDue     float64 `json:"balanceDue"`
}

// ApplyMargin returns the selling unit price for a part.
func ApplyMargin(unitCost, marginPercent float64) float64 {
	return round2(unitCost * (1 + marginPercent/100))
}

// LineTotal returns the extended price for a part line.
func LineTotal(quantity int, unitPrice float64) float64 {
	return round2(float64(quantity) * unitPrice)
}

// Derive refreshes the computed fields of the part in place. Call after any
// mutation of UnitCost, MarginPercent or Quantity.
func (p *PartItem) Derive() {
	p.UnitPrice = ApplyMargin(p.UnitCost, p.MarginPercent)
	p.Total = LineTotal(p.Quantity, p.UnitPrice)
}

// Recompute derives a full summary from the current line items and the two
// scalar inputs. It is pure: identical inputs always produce an identical
// summary. BalanceDue may go negative when the advance exceeds the total;
// it is intentionally not clamped.
func Recompute(services []LineItem, parts []PartItem, labor []LineItem, taxIncluded bool, advancePayment float64) Summary {
	var servicesTotal, laborTotal float64
	for _, it := range services {
		servicesTotal += it.Price
	}
	for _, it := range labor {
		laborTotal += it.Price
	}
	var partsTotal float64
	for _, p := range parts {
		partsTotal += LineTotal(p.Quantity, ApplyMargin(p.UnitCost, p.MarginPercent))
	}

	servicesTotal = round2(servicesTotal)
	partsTotal = round2(partsTotal)
	laborTotal = round2(laborTotal)
	subtotal := round2(servicesTotal + partsTotal + laborTotal)

	var tax float64
	total := subtotal
	if taxIncluded {
		tax = round2(subtotal * TaxRate)
		total = round2(subtotal * (1 + TaxRate))
	}

	return Summary{
		ServicesTotal:  servicesTotal,
		PartsTotal:     partsTotal,
		LaborTotal:     laborTotal,
		Subtotal:       subtotal,
		TaxIncluded:    taxIncluded,
		Tax:            tax,
		Total:          total,
		AdvancePayment: advancePayment,
		BalanceDue:     round2(total - advancePayment),
	}
}

// round2 rounds to the currency's natural precision (cents, half away from zero).
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
