// Package order owns the repair-order snapshot: intake data, inspection
// results, line items and the derived financial summary, plus the workflow
// state machine that gates mutations.
package order

import (
	"time"

	"github.com/mtzalva/backend-taller/internal/finance"
)

// Customer is the intake contact block of an order.
type Customer struct {
	Name    string `json:"name" validate:"required,min=3,max=120"`
	Phone   string `json:"phone" validate:"required,min=7,max=20"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address,omitempty" validate:"max=200"`
}

// Vehicle describes the unit received for service.
type Vehicle struct {
	Brand   string `json:"brand" validate:"required,min=2,max=60"`
	Model   string `json:"model" validate:"required,min=1,max=60"`
	Year    int    `json:"year" validate:"required,min=1950,max=2100"`
	Plate   string `json:"plate" validate:"required,min=3,max=15"`
	VIN     string `json:"vin,omitempty" validate:"omitempty,len=17"`
	Color   string `json:"color,omitempty" validate:"max=40"`
	Mileage int    `json:"mileage,omitempty" validate:"min=0"`
}

// InspectionEntry records the observed condition of one checklist element.
type InspectionEntry struct {
	ElementID string `json:"elementId"`
	Name      string `json:"name"`
	Condition string `json:"condition"`
	Notes     string `json:"notes,omitempty"`
}

// Damage is one entry of the visible-damage list captured at reception.
type Damage struct {
	Location    string `json:"location"`
	Description string `json:"description"`
}

// SecurityPoint records whether a valuables/security item was present at
// intake.
type SecurityPoint struct {
	PointID string `json:"pointId"`
	Name    string `json:"name"`
	Present bool   `json:"present"`
	Notes   string `json:"notes,omitempty"`
}

// Order is the full snapshot persisted per repair order. The summary is
// always derived from the line items, never hand-set.
type Order struct {
	ID             string                 `json:"id"`
	Folio          int64                  `json:"folio"`
	Status         Status                 `json:"status"`
	Customer       Customer               `json:"customer"`
	Vehicle        Vehicle                `json:"vehicle"`
	Inspection     []InspectionEntry      `json:"inspection"`
	Damages        []Damage               `json:"damages"`
	SecurityPoints []SecurityPoint        `json:"securityPoints"`
	Services       []finance.LineItem     `json:"services"`
	Parts          []finance.PartItem     `json:"parts"`
	Labor          []finance.LineItem     `json:"labor"`
	Summary        finance.Summary        `json:"summary"`
	CreatedAt      time.Time              `json:"createdAt"`
	UpdatedAt      time.Time              `json:"updatedAt"`
}

// RecomputeSummary re-derives every part and the financial summary from the
// current line items. Called synchronously after every mutation.
func (o *Order) RecomputeSummary() {
	for i := range o.Parts {
		o.Parts[i].Derive()
	}
	o.Summary = finance.Recompute(o.Services, o.Parts, o.Labor, o.Summary.TaxIncluded, o.Summary.AdvancePayment)
}
