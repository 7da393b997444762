package service

import (
	"testing"

	"github.com/amineweldmaryem/boutique/internal/models"
)

func TestApplyStockAdjustmentsClampsAtZero(t *testing.T) {
	colors := models.ColorVariants{{Name: "Rouge", Stock: 3}}
	ops := []StockAdjustment{
		{ProductID: 1, Color: "Rouge", Delta: -2},
		{ProductID: 1, Color: "Rouge", Delta: -2},
		{ProductID: 1, Color: "Rouge", Delta: -7},
	}
	next, missing := applyStockAdjustments(colors, ops)
	if len(missing) != 0 {
		t.Fatalf("unexpected missing colors: %v", missing)
	}
	if next[0].Stock != 0 {
		t.Fatalf("want stock 0 got %d", next[0].Stock)
	}
	if colors[0].Stock != 3 {
		t.Fatalf("input snapshot must not be mutated, got %d", colors[0].Stock)
	}
}

func TestApplyStockAdjustmentsFirstMatchWins(t *testing.T) {
	colors := models.ColorVariants{
		{Name: "Noir", Stock: 1},
		{Name: "Noir", Stock: 9},
	}
	next, _ := applyStockAdjustments(colors, []StockAdjustment{{ProductID: 1, Color: "Noir", Delta: 4}})
	if next[0].Stock != 5 || next[1].Stock != 9 {
		t.Fatalf("want only first variant adjusted, got %+v", next)
	}
}

func TestApplyStockAdjustmentsMissingVariantIsNoop(t *testing.T) {
	colors := models.ColorVariants{{Name: "Rouge", Stock: 3}}
	next, missing := applyStockAdjustments(colors, []StockAdjustment{
		{ProductID: 1, Color: "rouge", Delta: -1},
		{ProductID: 1, Color: "Vert", Delta: 5},
	})
	if len(missing) != 2 {
		t.Fatalf("want 2 missing colors got %v", missing)
	}
	if next[0].Stock != 3 {
		t.Fatalf("want stock untouched got %d", next[0].Stock)
	}
}

func TestGroupStockAdjustmentsKeepsFirstSeenOrder(t *testing.T) {
	ids, grouped := groupStockAdjustments([]StockAdjustment{
		{ProductID: 7, Color: "Rouge", Delta: -1},
		{ProductID: 3, Color: "Noir", Delta: -1},
		{ProductID: 7, Color: "Noir", Delta: -2},
	})
	if len(ids) != 2 || ids[0] != 7 || ids[1] != 3 {
		t.Fatalf("unexpected product order: %v", ids)
	}
	if len(grouped[7]) != 2 {
		t.Fatalf("want 2 ops for product 7 got %d", len(grouped[7]))
	}
}

func TestOrderStockAdjustmentsSign(t *testing.T) {
	ops := orderStockAdjustments([]models.OrderItem{
		{ProductID: 1, Color: "Rouge", Quantity: 3},
		{ProductID: 0, Color: "Rouge", Quantity: 3},
		{ProductID: 2, Color: "Noir", Quantity: 0},
	}, 1)
	if len(ops) != 1 || ops[0].Delta != 3 {
		t.Fatalf("unexpected ops: %+v", ops)
	}
}
