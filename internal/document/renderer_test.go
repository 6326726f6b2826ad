package document

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mtzalva/backend-taller/internal/finance"
	"github.com/mtzalva/backend-taller/internal/order"
)

func sampleOrder() *order.Order {
	o := &order.Order{
		ID:     "ord-1",
		Folio:  1042,
		Status: order.StatusQuote,
		Customer: order.Customer{
			Name:  "Juan Pérez",
			Phone: "5512345678",
		},
		Vehicle: order.Vehicle{
			Brand: "Nissan",
			Model: "Versa",
			Year:  2019,
			Plate: "ABC1234",
		},
		Inspection: []order.InspectionEntry{
			{ElementID: "1", Name: "Luces delanteras", Condition: "BUENO"},
			{ElementID: "2", Name: "Llantas", Condition: "REGULAR", Notes: "desgaste frontal"},
		},
		Damages: []order.Damage{
			{Location: "Puerta derecha", Description: "rayón profundo"},
		},
		SecurityPoints: []order.SecurityPoint{
			{PointID: "1", Name: "Llanta de refacción", Present: true},
			{PointID: "2", Name: "Extintor", Present: false, Notes: "no entregado"},
		},
		Services: []finance.LineItem{{ID: "s1", Description: "Afinación mayor", Price: 500}},
		Parts: []finance.PartItem{{
			ID: "p1", Name: "Balatas", Quantity: 2, UnitCost: 100,
			MarginPercent: 30, UnitPrice: 130, Total: 260,
		}},
		Labor:     []finance.LineItem{{ID: "l1", Description: "Mano de obra", Price: 300}},
		CreatedAt: time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC),
	}
	o.Summary = finance.Recompute(o.Services, o.Parts, o.Labor, true, 200)
	return o
}

func TestRenderProducesThreePages(t *testing.T) {
	rd := Renderer{ShopName: "Taller Automotriz MT", ShopPhone: "5588990011"}

	doc, err := rd.Render(sampleOrder())
	require.NoError(t, err)
	require.NotEmpty(t, doc)

	n, err := PageCount(doc)
	require.NoError(t, err)
	require.Equal(t, 3, n)
}

func TestRenderEmptyOrder(t *testing.T) {
	rd := Renderer{ShopName: "Taller Automotriz MT"}
	o := &order.Order{Folio: 1, Customer: order.Customer{Name: "Ana"}, Vehicle: order.Vehicle{Brand: "VW", Model: "Polo", Year: 2020, Plate: "XYZ"}}

	doc, err := rd.Render(o)
	require.NoError(t, err)

	n, err := PageCount(doc)
	require.NoError(t, err)
	require.Equal(t, 3, n)
}

func TestFormatMoney(t *testing.T) {
	require.Equal(t, "$1,229.60", formatMoney(1229.6))
	require.Equal(t, "$0.00", formatMoney(0))
	require.Equal(t, "-$150.00", formatMoney(-150))
	require.Equal(t, "$1,234,567.89", formatMoney(1234567.89))
	require.Equal(t, "$999.99", formatMoney(999.99))
}
