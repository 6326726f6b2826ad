package order

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/mtzalva/backend-taller/internal/common"
)

type memStore struct {
	orders    map[string]Order
	nextFolio int64
}

func newMemStore() *memStore {
	return &memStore{orders: map[string]Order{}, nextFolio: 1000}
}

func (m *memStore) Create(_ context.Context, o *Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	m.nextFolio++
	o.Folio = m.nextFolio
	o.CreatedAt = time.Now()
	o.UpdatedAt = o.CreatedAt
	m.orders[o.ID] = *o
	return nil
}

func (m *memStore) Get(_ context.Context, id string) (*Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := o
	return &clone, nil
}

func (m *memStore) List(_ context.Context, status Status, limit, offset int) ([]Order, error) {
	var out []Order
	for _, o := range m.orders {
		if status == "" || o.Status == status {
			out = append(out, o)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) Count(_ context.Context, status Status) (int, error) {
	n := 0
	for _, o := range m.orders {
		if status == "" || o.Status == status {
			n++
		}
	}
	return n, nil
}

func (m *memStore) Update(_ context.Context, o *Order) error {
	if _, ok := m.orders[o.ID]; !ok {
		return ErrNotFound
	}
	o.UpdatedAt = time.Now()
	m.orders[o.ID] = *o
	return nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	if _, ok := m.orders[id]; !ok {
		return ErrNotFound
	}
	delete(m.orders, id)
	return nil
}

func newTestService() (*Service, *memStore) {
	store := newMemStore()
	return &Service{Store: store, Logger: zerolog.Nop()}, store
}

func createTestOrder(t *testing.T, svc *Service) *Order {
	t.Helper()
	o, err := svc.Create(context.Background(), CreateInput{
		Customer: validCustomer(),
		Vehicle:  validVehicle(),
	})
	require.NoError(t, err)
	return o
}

func TestCreateStartsInReception(t *testing.T) {
	svc, _ := newTestService()
	o := createTestOrder(t, svc)

	require.Equal(t, StatusReception, o.Status)
	require.NotEmpty(t, o.ID)
	require.Greater(t, o.Folio, int64(0))
	require.Zero(t, o.Summary.Total)
}

func TestCreateRejectsInvalidIntake(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Create(context.Background(), CreateInput{})

	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, http.StatusUnprocessableEntity, appErr.HTTPStatus)
}

func TestLineItemMutationsRecomputeSummary(t *testing.T) {
	svc, _ := newTestService()
	o := createTestOrder(t, svc)
	ctx := context.Background()

	o, err := svc.AddService(ctx, o.ID, LineItemInput{Description: "Afinación mayor", Price: 500})
	require.NoError(t, err)
	require.Equal(t, 500.0, o.Summary.ServicesTotal)

	o, err = svc.AddPart(ctx, o.ID, PartInput{Name: "Balatas delanteras", Quantity: 2, UnitCost: 100})
	require.NoError(t, err)
	require.Equal(t, 260.0, o.Summary.PartsTotal)
	require.Equal(t, 130.0, o.Parts[0].UnitPrice)

	o, err = svc.AddLabor(ctx, o.ID, LineItemInput{Description: "Mano de obra frenos", Price: 300})
	require.NoError(t, err)
	require.Equal(t, 1060.0, o.Summary.Subtotal)

	taxIncluded := true
	advance := 200.0
	o, err = svc.UpdateSummary(ctx, o.ID, SummaryInput{TaxIncluded: &taxIncluded, AdvancePayment: &advance})
	require.NoError(t, err)
	require.Equal(t, 169.6, o.Summary.Tax)
	require.Equal(t, 1229.6, o.Summary.Total)
	require.Equal(t, 1029.6, o.Summary.BalanceDue)
}

func TestDeleteLineItemRecomputes(t *testing.T) {
	svc, _ := newTestService()
	o := createTestOrder(t, svc)
	ctx := context.Background()

	o, err := svc.AddService(ctx, o.ID, LineItemInput{Description: "Cambio de aceite", Price: 450})
	require.NoError(t, err)
	itemID := o.Services[0].ID

	o, err = svc.DeleteService(ctx, o.ID, itemID)
	require.NoError(t, err)
	require.Empty(t, o.Services)
	require.Zero(t, o.Summary.Subtotal)
}

func TestReplaceServiceKeepsID(t *testing.T) {
	svc, _ := newTestService()
	o := createTestOrder(t, svc)
	ctx := context.Background()

	o, err := svc.AddService(ctx, o.ID, LineItemInput{Description: "Diagnóstico", Price: 350})
	require.NoError(t, err)
	itemID := o.Services[0].ID

	o, err = svc.ReplaceService(ctx, o.ID, itemID, LineItemInput{Description: "Diagnóstico computarizado", Price: 400})
	require.NoError(t, err)
	require.Equal(t, itemID, o.Services[0].ID)
	require.Equal(t, 400.0, o.Services[0].Price)
	require.Equal(t, 400.0, o.Summary.ServicesTotal)
}

func TestMutationRejectedAfterAuthorization(t *testing.T) {
	svc, _ := newTestService()
	o := createTestOrder(t, svc)
	ctx := context.Background()

	for _, next := range []Status{StatusDiagnosis, StatusQuote, StatusAuthorized} {
		var err error
		o, err = svc.Transition(ctx, o.ID, next)
		require.NoError(t, err)
	}

	_, err := svc.AddService(ctx, o.ID, LineItemInput{Description: "Extra", Price: 100})
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "ORDER_LOCKED", appErr.Code)
}

func TestTransitionRejectsSkippedStage(t *testing.T) {
	svc, _ := newTestService()
	o := createTestOrder(t, svc)

	_, err := svc.Transition(context.Background(), o.ID, StatusInRepair)
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, "INVALID_TRANSITION", appErr.Code)
}

func TestSummaryRejectsNegativeAdvance(t *testing.T) {
	svc, _ := newTestService()
	o := createTestOrder(t, svc)

	advance := -10.0
	_, err := svc.UpdateSummary(context.Background(), o.ID, SummaryInput{AdvancePayment: &advance})
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, http.StatusUnprocessableEntity, appErr.HTTPStatus)
}

func TestAdvanceAboveTotalLeavesNegativeBalance(t *testing.T) {
	svc, _ := newTestService()
	o := createTestOrder(t, svc)
	ctx := context.Background()

	_, err := svc.AddService(ctx, o.ID, LineItemInput{Description: "Lavado de motor", Price: 100})
	require.NoError(t, err)

	advance := 250.0
	o, err = svc.UpdateSummary(ctx, o.ID, SummaryInput{AdvancePayment: &advance})
	require.NoError(t, err)
	require.Equal(t, -150.0, o.Summary.BalanceDue)
}

func TestItemValidation(t *testing.T) {
	svc, _ := newTestService()
	o := createTestOrder(t, svc)
	ctx := context.Background()

	_, err := svc.AddService(ctx, o.ID, LineItemInput{Description: "Sin precio"})
	require.Error(t, err)

	_, err = svc.AddPart(ctx, o.ID, PartInput{Name: "Filtro", Quantity: 0, UnitCost: 50})
	require.Error(t, err)

	bad := -5.0
	_, err = svc.AddPart(ctx, o.ID, PartInput{Name: "Filtro", Quantity: 1, UnitCost: 50, MarginPercent: &bad})
	require.Error(t, err)
}

func TestGetUnknownOrderIs404(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.Get(context.Background(), uuid.NewString())

	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, http.StatusNotFound, appErr.HTTPStatus)
}

func TestListFiltersByStatus(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	first := createTestOrder(t, svc)
	createTestOrder(t, svc)

	_, err := svc.Transition(ctx, first.ID, StatusDiagnosis)
	require.NoError(t, err)

	orders, total, err := svc.List(ctx, StatusDiagnosis, 1, 20)
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Len(t, orders, 1)
	require.Equal(t, first.ID, orders[0].ID)

	_, _, err = svc.List(ctx, Status("BOGUS"), 1, 20)
	require.Error(t, err)
}
