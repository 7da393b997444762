package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/amineweldmaryem/boutique/internal/models"
)

func analyticsTestOrder(total string, orderDate time.Time, items ...models.OrderItem) *models.Order {
	return &models.Order{TotalAmount: models.MustMoney(total), OrderDate: orderDate, Items: items}
}

func TestSplitRevenue(t *testing.T) {
	cases := []struct {
		total, amine, maryem string
	}{
		{"108", "10.80", "97.20"},
		{"50", "5.00", "45.00"},
		{"33.35", "3.34", "30.01"},
		{"0", "0", "0"},
	}
	for _, tc := range cases {
		amine, maryem := splitRevenue(models.MustMoney(tc.total))
		if !amine.Equal(models.MustMoney(tc.amine)) || !maryem.Equal(models.MustMoney(tc.maryem)) {
			t.Fatalf("split %s: want %s/%s got %s/%s", tc.total, tc.amine, tc.maryem, amine, maryem)
		}
		if !amine.Plus(maryem).Equal(models.MustMoney(tc.total)) {
			t.Fatalf("split %s does not sum back to total", tc.total)
		}
	}
}

func TestAccrueFromBaselineUsesOrderDateMonth(t *testing.T) {
	orderDate := time.Date(2026, 1, 31, 23, 30, 0, 0, time.UTC)
	now := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	order := analyticsTestOrder("108", orderDate, item(1, "Rouge", 2, "50"))

	next := accrueSalesAnalytics(nil, order, 4, time.UTC, 100, now)
	if next.ID != models.SalesAnalyticsSummaryID {
		t.Fatalf("want summary id got %s", next.ID)
	}
	if next.TotalOrdersDelivered != 1 || next.TotalItemsSold != 2 || next.TotalCustomers != 4 {
		t.Fatalf("unexpected counters: %+v", next)
	}
	if _, ok := next.MonthlySales["2026-01"]; !ok {
		t.Fatalf("want bucket keyed by order date, got %v", next.MonthlySales)
	}
	if _, ok := next.MonthlySales["2026-02"]; ok {
		t.Fatalf("delivery month must not be used")
	}
	if !next.LastUpdated.Equal(now) {
		t.Fatalf("want last updated %v got %v", now, next.LastUpdated)
	}
}

func TestAccrueDoesNotMutateCurrent(t *testing.T) {
	current := accrueSalesAnalytics(nil, analyticsTestOrder("10", time.Now(), item(1, "Rouge", 1, "2")), 1, time.UTC, 100, time.Now())
	_ = accrueSalesAnalytics(current, analyticsTestOrder("10", time.Now(), item(1, "Rouge", 1, "2")), 1, time.UTC, 100, time.Now())
	if current.TotalOrdersDelivered != 1 || current.TopSellingProducts[0].QuantitySold != 1 {
		t.Fatalf("current snapshot mutated: %+v", current)
	}
}

func TestAccrueTopSellersSortedAndCapped(t *testing.T) {
	var current *models.SalesAnalytics
	for i := 1; i <= 105; i++ {
		order := analyticsTestOrder("10", time.Now(), models.OrderItem{
			ProductID: uint(i),
			Name:      fmt.Sprintf("P%d", i),
			Quantity:  i,
		})
		current = accrueSalesAnalytics(current, order, 0, time.UTC, 100, time.Now())
	}
	if len(current.TopSellingProducts) != 100 {
		t.Fatalf("want 100 top sellers got %d", len(current.TopSellingProducts))
	}
	if current.TopSellingProducts[0].ProductID != 105 {
		t.Fatalf("want best seller 105 got %d", current.TopSellingProducts[0].ProductID)
	}
	for i := 1; i < len(current.TopSellingProducts); i++ {
		if current.TopSellingProducts[i-1].QuantitySold < current.TopSellingProducts[i].QuantitySold {
			t.Fatalf("top sellers not sorted descending at %d", i)
		}
	}
}

func TestRankTopSellersIsStable(t *testing.T) {
	list := models.TopSellingProducts{
		{ProductID: 1, QuantitySold: 2},
		{ProductID: 2, QuantitySold: 5},
		{ProductID: 3, QuantitySold: 2},
	}
	ranked := rankTopSellers(list, 0)
	if ranked[0].ProductID != 2 || ranked[1].ProductID != 1 || ranked[2].ProductID != 3 {
		t.Fatalf("unexpected order: %+v", ranked)
	}
}

func TestAccrueReverseIsInverse(t *testing.T) {
	month := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	base := accrueSalesAnalytics(nil, analyticsTestOrder("77.77", month, item(1, "Rouge", 3, "23.23")), 2, time.UTC, 100, time.Now())
	order := analyticsTestOrder("33.35", month, item(2, "Noir", 1, "25.35"))

	restored := reverseSalesAnalytics(accrueSalesAnalytics(base, order, 5, time.UTC, 100, time.Now()), order, time.UTC, time.Now())
	if !restored.TotalRevenue.Equal(base.TotalRevenue) ||
		!restored.RevenueAmine.Equal(base.RevenueAmine) ||
		!restored.RevenueMaryem.Equal(base.RevenueMaryem) {
		t.Fatalf("revenue not restored: want %s/%s/%s got %s/%s/%s",
			base.TotalRevenue, base.RevenueAmine, base.RevenueMaryem,
			restored.TotalRevenue, restored.RevenueAmine, restored.RevenueMaryem)
	}
	if restored.TotalOrdersDelivered != base.TotalOrdersDelivered || restored.TotalItemsSold != base.TotalItemsSold {
		t.Fatalf("counters not restored: %+v", restored)
	}
	if restored.TotalCustomers != 5 {
		t.Fatalf("reversal must keep customers snapshot, got %d", restored.TotalCustomers)
	}
}

func TestReverseRemovesEmptyMonthAndTopSeller(t *testing.T) {
	jan := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	janOrder := analyticsTestOrder("20", jan, item(1, "Rouge", 1, "12"))
	febOrder := analyticsTestOrder("40", feb, item(2, "Noir", 2, "16"))

	current := accrueSalesAnalytics(nil, janOrder, 1, time.UTC, 100, time.Now())
	current = accrueSalesAnalytics(current, febOrder, 1, time.UTC, 100, time.Now())
	next := reverseSalesAnalytics(current, janOrder, time.UTC, time.Now())

	if _, ok := next.MonthlySales["2026-01"]; ok {
		t.Fatalf("empty month bucket must be removed: %v", next.MonthlySales)
	}
	if bucket := next.MonthlySales["2026-02"]; bucket.Orders != 1 {
		t.Fatalf("other month must survive, got %+v", bucket)
	}
	if len(next.TopSellingProducts) != 1 || next.TopSellingProducts[0].ProductID != 2 {
		t.Fatalf("want product 1 pruned from top sellers, got %+v", next.TopSellingProducts)
	}
}

func TestReverseClampsAtZeroAndSkipsMissingMonth(t *testing.T) {
	current := &models.SalesAnalytics{
		ID:                   models.SalesAnalyticsSummaryID,
		TotalRevenue:         models.MustMoney("5"),
		RevenueAmine:         models.MustMoney("0.5"),
		RevenueMaryem:        models.MustMoney("4.5"),
		TotalOrdersDelivered: 0,
		TotalItemsSold:       1,
		TotalCustomers:       9,
		MonthlySales:         models.MonthlySales{"2025-12": {Revenue: models.MustMoney("5"), Orders: 1}},
	}
	order := analyticsTestOrder("100", time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC), item(3, "Rouge", 4, "23"))
	next := reverseSalesAnalytics(current, order, time.UTC, time.Now())

	if !next.TotalRevenue.Equal(models.MustMoney("0")) || !next.RevenueAmine.Equal(models.MustMoney("0")) || !next.RevenueMaryem.Equal(models.MustMoney("0")) {
		t.Fatalf("revenue must clamp at zero: %+v", next)
	}
	if next.TotalOrdersDelivered != 0 || next.TotalItemsSold != 0 || next.TotalCustomers != 9 {
		t.Fatalf("unexpected counters: %+v", next)
	}
	if bucket := next.MonthlySales["2025-12"]; bucket.Orders != 1 {
		t.Fatalf("unrelated month must be untouched: %+v", bucket)
	}
}

func TestReverseWithoutSummaryReturnsNil(t *testing.T) {
	if got := reverseSalesAnalytics(nil, analyticsTestOrder("10", time.Now()), time.UTC, time.Now()); got != nil {
		t.Fatalf("want nil got %+v", got)
	}
}

func TestMonthKeyHonoursTimezone(t *testing.T) {
	loc := time.FixedZone("UTC+1", 3600)
	orderDate := time.Date(2026, 4, 30, 23, 30, 0, 0, time.UTC)
	if got := monthKey(orderDate, loc); got != "2026-05" {
		t.Fatalf("want 2026-05 got %s", got)
	}
	if got := monthKey(orderDate, nil); got != "2026-04" {
		t.Fatalf("want 2026-04 got %s", got)
	}
}
