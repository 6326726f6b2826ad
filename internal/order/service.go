package order

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mtzalva/backend-taller/internal/common"
	"github.com/mtzalva/backend-taller/internal/finance"
)

// Store abstracts order persistence.
type Store interface {
	Create(ctx context.Context, o *Order) error
	Get(ctx context.Context, id string) (*Order, error)
	List(ctx context.Context, status Status, limit, offset int) ([]Order, error)
	Count(ctx context.Context, status Status) (int, error)
	Update(ctx context.Context, o *Order) error
	Delete(ctx context.Context, id string) error
}

// Service implements the order operations over a Store. Every line-item or
// summary mutation re-derives the financial summary before persisting, so a
// stored snapshot is always internally consistent.
type Service struct {
	Store  Store
	Logger zerolog.Logger
}

// CreateInput is the intake payload for a new order.
type CreateInput struct {
	Customer       Customer          `json:"customer"`
	Vehicle        Vehicle           `json:"vehicle"`
	Inspection     []InspectionEntry `json:"inspection"`
	Damages        []Damage          `json:"damages"`
	SecurityPoints []SecurityPoint   `json:"securityPoints"`
}

// LineItemInput is the payload for a service or labor entry.
type LineItemInput struct {
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// PartInput is the payload for a part entry. When MarginPercent is nil the
// default margin applies.
type PartInput struct {
	Name          string   `json:"name"`
	Quantity      int      `json:"quantity"`
	UnitCost      float64  `json:"unitCost"`
	MarginPercent *float64 `json:"marginPercent"`
}

// SummaryInput carries the two user-settable summary fields. Nil means leave
// unchanged.
type SummaryInput struct {
	TaxIncluded    *bool    `json:"taxIncluded"`
	AdvancePayment *float64 `json:"advancePayment"`
}

// Create validates the intake and stores a new snapshot in reception with
// zero-valued line items and summary.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Order, error) {
	if err := ValidateIntake(in.Customer, in.Vehicle); err != nil {
		return nil, err
	}
	o := &Order{
		Status:         StatusReception,
		Customer:       in.Customer,
		Vehicle:        in.Vehicle,
		Inspection:     in.Inspection,
		Damages:        in.Damages,
		SecurityPoints: in.SecurityPoints,
	}
	o.RecomputeSummary()
	if err := s.Store.Create(ctx, o); err != nil {
		return nil, err
	}
	s.Logger.Info().Str("order_id", o.ID).Int64("folio", o.Folio).Msg("order created")
	return o, nil
}

// Get loads one snapshot.
func (s *Service) Get(ctx context.Context, id string) (*Order, error) {
	o, err := s.Store.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, common.ClassifyStatus(http.StatusNotFound, err)
	}
	return o, err
}

// List returns a page of snapshots plus the unpaged total.
func (s *Service) List(ctx context.Context, status Status, page, perPage int) ([]Order, int, error) {
	if status != "" && !status.Valid() {
		return nil, 0, common.NewAppError("UNPROCESSABLE", "Estado de orden desconocido.", http.StatusUnprocessableEntity, nil)
	}
	total, err := s.Store.Count(ctx, status)
	if err != nil {
		return nil, 0, err
	}
	orders, err := s.Store.List(ctx, status, perPage, (page-1)*perPage)
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// Save replaces the intake and checklist blocks of an existing snapshot. Line
// items and status are managed through their own operations.
func (s *Service) Save(ctx context.Context, id string, in CreateInput) (*Order, error) {
	if err := ValidateIntake(in.Customer, in.Vehicle); err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, false, func(o *Order) error {
		o.Customer = in.Customer
		o.Vehicle = in.Vehicle
		o.Inspection = in.Inspection
		o.Damages = in.Damages
		o.SecurityPoints = in.SecurityPoints
		return nil
	})
}

// Delete removes a snapshot.
func (s *Service) Delete(ctx context.Context, id string) error {
	err := s.Store.Delete(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return common.ClassifyStatus(http.StatusNotFound, err)
	}
	return err
}

// Transition moves the workflow to the next stage if the edge is allowed.
func (s *Service) Transition(ctx context.Context, id string, next Status) (*Order, error) {
	if !next.Valid() {
		return nil, common.NewAppError("UNPROCESSABLE", "Estado de orden desconocido.", http.StatusUnprocessableEntity, nil)
	}
	return s.mutate(ctx, id, false, func(o *Order) error {
		if !o.Status.CanTransitionTo(next) {
			return common.NewAppError("INVALID_TRANSITION",
				"La orden no puede pasar de "+string(o.Status)+" a "+string(next)+".",
				http.StatusUnprocessableEntity, nil)
		}
		o.Status = next
		return nil
	})
}

// AddService appends a service line item.
func (s *Service) AddService(ctx context.Context, id string, in LineItemInput) (*Order, error) {
	item, err := newLineItem(in)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, true, func(o *Order) error {
		o.Services = append(o.Services, item)
		return nil
	})
}

// ReplaceService fully replaces a service line item by id.
func (s *Service) ReplaceService(ctx context.Context, id, itemID string, in LineItemInput) (*Order, error) {
	item, err := newLineItem(in)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, true, func(o *Order) error {
		return replaceLineItem(o.Services, itemID, item)
	})
}

// DeleteService removes a service line item by id.
func (s *Service) DeleteService(ctx context.Context, id, itemID string) (*Order, error) {
	return s.mutate(ctx, id, true, func(o *Order) error {
		items, err := deleteLineItem(o.Services, itemID)
		if err != nil {
			return err
		}
		o.Services = items
		return nil
	})
}

// AddLabor appends a labor line item.
func (s *Service) AddLabor(ctx context.Context, id string, in LineItemInput) (*Order, error) {
	item, err := newLineItem(in)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, true, func(o *Order) error {
		o.Labor = append(o.Labor, item)
		return nil
	})
}

// ReplaceLabor fully replaces a labor line item by id.
func (s *Service) ReplaceLabor(ctx context.Context, id, itemID string, in LineItemInput) (*Order, error) {
	item, err := newLineItem(in)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, true, func(o *Order) error {
		return replaceLineItem(o.Labor, itemID, item)
	})
}

// DeleteLabor removes a labor line item by id.
func (s *Service) DeleteLabor(ctx context.Context, id, itemID string) (*Order, error) {
	return s.mutate(ctx, id, true, func(o *Order) error {
		items, err := deleteLineItem(o.Labor, itemID)
		if err != nil {
			return err
		}
		o.Labor = items
		return nil
	})
}

// AddPart appends a part line item with derived pricing.
func (s *Service) AddPart(ctx context.Context, id string, in PartInput) (*Order, error) {
	part, err := newPart(in)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, true, func(o *Order) error {
		o.Parts = append(o.Parts, part)
		return nil
	})
}

// ReplacePart fully replaces a part by id; unit price and total are
// re-derived.
func (s *Service) ReplacePart(ctx context.Context, id, itemID string, in PartInput) (*Order, error) {
	part, err := newPart(in)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, id, true, func(o *Order) error {
		for i := range o.Parts {
			if o.Parts[i].ID == itemID {
				part.ID = itemID
				o.Parts[i] = part
				return nil
			}
		}
		return common.ClassifyStatus(http.StatusNotFound, nil)
	})
}

// DeletePart removes a part by id.
func (s *Service) DeletePart(ctx context.Context, id, itemID string) (*Order, error) {
	return s.mutate(ctx, id, true, func(o *Order) error {
		for i := range o.Parts {
			if o.Parts[i].ID == itemID {
				o.Parts = append(o.Parts[:i], o.Parts[i+1:]...)
				return nil
			}
		}
		return common.ClassifyStatus(http.StatusNotFound, nil)
	})
}

// UpdateSummary changes taxIncluded and/or advancePayment, the only two
// summary fields a user may set.
func (s *Service) UpdateSummary(ctx context.Context, id string, in SummaryInput) (*Order, error) {
	if in.AdvancePayment != nil && *in.AdvancePayment < 0 {
		return nil, common.NewAppError("UNPROCESSABLE", "El anticipo no puede ser negativo.", http.StatusUnprocessableEntity, nil)
	}
	return s.mutate(ctx, id, true, func(o *Order) error {
		if in.TaxIncluded != nil {
			o.Summary.TaxIncluded = *in.TaxIncluded
		}
		if in.AdvancePayment != nil {
			o.Summary.AdvancePayment = *in.AdvancePayment
		}
		return nil
	})
}

// mutate loads, applies, recomputes and persists a snapshot. When
// requiresEditable is set the mutation is rejected once the quote is locked.
func (s *Service) mutate(ctx context.Context, id string, requiresEditable bool, fn func(*Order) error) (*Order, error) {
	o, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if requiresEditable && !o.Status.CanEditItems() {
		return nil, common.NewAppError("ORDER_LOCKED",
			"La orden ya no acepta cambios en la cotización.",
			http.StatusUnprocessableEntity, nil)
	}
	if err := fn(o); err != nil {
		return nil, err
	}
	o.RecomputeSummary()
	if err := s.Store.Update(ctx, o); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, common.ClassifyStatus(http.StatusNotFound, err)
		}
		return nil, err
	}
	return o, nil
}

func newLineItem(in LineItemInput) (finance.LineItem, error) {
	if in.Description == "" {
		return finance.LineItem{}, itemError("description", "es obligatorio")
	}
	if in.Price <= 0 {
		return finance.LineItem{}, itemError("price", "debe ser mayor que cero")
	}
	return finance.LineItem{ID: uuid.NewString(), Description: in.Description, Price: in.Price}, nil
}

func newPart(in PartInput) (finance.PartItem, error) {
	if in.Name == "" {
		return finance.PartItem{}, itemError("name", "es obligatorio")
	}
	if in.Quantity <= 0 {
		return finance.PartItem{}, itemError("quantity", "debe ser mayor que cero")
	}
	if in.UnitCost < 0 {
		return finance.PartItem{}, itemError("unitCost", "no puede ser negativo")
	}
	margin := finance.DefaultMarginPercent
	if in.MarginPercent != nil {
		if *in.MarginPercent < 0 {
			return finance.PartItem{}, itemError("marginPercent", "no puede ser negativo")
		}
		margin = *in.MarginPercent
	}
	part := finance.PartItem{
		ID:            uuid.NewString(),
		Name:          in.Name,
		Quantity:      in.Quantity,
		UnitCost:      in.UnitCost,
		MarginPercent: margin,
	}
	part.Derive()
	return part, nil
}

func itemError(field, message string) *common.AppError {
	appErr := common.ClassifyStatus(http.StatusUnprocessableEntity, nil)
	appErr.Details = common.FieldErrorMessages(map[string]string{field: message})
	return appErr
}

func replaceLineItem(items []finance.LineItem, itemID string, item finance.LineItem) error {
	for i := range items {
		if items[i].ID == itemID {
			item.ID = itemID
			items[i] = item
			return nil
		}
	}
	return common.ClassifyStatus(http.StatusNotFound, nil)
}

func deleteLineItem(items []finance.LineItem, itemID string) ([]finance.LineItem, error) {
	for i := range items {
		if items[i].ID == itemID {
			return append(items[:i], items[i+1:]...), nil
		}
	}
	return nil, common.ClassifyStatus(http.StatusNotFound, nil)
}
