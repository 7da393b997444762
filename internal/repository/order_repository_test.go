package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/amineweldmaryem/boutique/internal/constants"
	"github.com/amineweldmaryem/boutique/internal/models"

	"gorm.io/gorm"
)

func createTestOrder(t *testing.T, db *gorm.DB, orderNo, userID, status string, orderDate time.Time) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNo:      orderNo,
		UserID:       userID,
		Status:       status,
		ShippingCost: models.MustMoney("8"),
		TotalAmount:  models.MustMoney("58"),
		OrderDate:    orderDate,
		Items: []models.OrderItem{
			{ProductID: 1, Name: "Hijab", Color: "Rouge", Quantity: 2, PriceAtPurchase: models.MustMoney("25")},
		},
	}
	if err := NewOrderRepository(db).Create(order); err != nil {
		t.Fatalf("create order failed: %v", err)
	}
	return order
}

func TestOrderListAdminOrdersByDateAndFiltersStatus(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewOrderRepository(db)
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	createTestOrder(t, db, "BQ-1", "u1", constants.OrderStatusPending, base)
	createTestOrder(t, db, "BQ-2", "u2", constants.OrderStatusDelivered, base.Add(48*time.Hour))
	createTestOrder(t, db, "BQ-3", "u1", constants.OrderStatusShipped, base.Add(24*time.Hour))

	orders, total, err := repo.ListAdmin(OrderListFilter{})
	if err != nil {
		t.Fatalf("list admin failed: %v", err)
	}
	if total != 3 || len(orders) != 3 {
		t.Fatalf("want 3 orders got total=%d len=%d", total, len(orders))
	}
	if orders[0].OrderNo != "BQ-2" || orders[1].OrderNo != "BQ-3" || orders[2].OrderNo != "BQ-1" {
		t.Fatalf("orders should be sorted by order date desc: %s %s %s", orders[0].OrderNo, orders[1].OrderNo, orders[2].OrderNo)
	}
	if len(orders[0].Items) != 1 {
		t.Fatalf("items should be preloaded")
	}

	_, total, err = repo.ListAdmin(OrderListFilter{Statuses: []string{constants.OrderStatusPending, constants.OrderStatusShipped}})
	if err != nil {
		t.Fatalf("list by status failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("status filter want 2 got %d", total)
	}

	mine, total, err := repo.ListByUser(OrderListFilter{UserID: "u1", Page: 1, PageSize: 1})
	if err != nil {
		t.Fatalf("list by user failed: %v", err)
	}
	if total != 2 || len(mine) != 1 || mine[0].OrderNo != "BQ-3" {
		t.Fatalf("user list pagination mismatch: total=%d len=%d", total, len(mine))
	}

	count, err := repo.Count(OrderListFilter{})
	if err != nil || count != 3 {
		t.Fatalf("count want 3 got %d (%v)", count, err)
	}
}

func TestOrderGetByIDAndUserScopesOwner(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewOrderRepository(db)
	order := createTestOrder(t, db, "BQ-OWN", "owner", constants.OrderStatusPending, time.Now())

	got, err := repo.GetByIDAndUser(order.ID, "someone-else")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got != nil {
		t.Fatalf("order of another user should not be visible")
	}
	got, err = repo.GetByIDAndUser(order.ID, "owner")
	if err != nil || got == nil {
		t.Fatalf("owner should see order: %v", err)
	}
}

func TestOrderVersionedStatusUpdateAndDelete(t *testing.T) {
	db := openRepositoryTestDB(t)
	repo := NewOrderRepository(db)
	order := createTestOrder(t, db, "BQ-V", "u1", constants.OrderStatusPending, time.Now())

	if err := repo.UpdateStatusIfVersion(order.ID, order.Version, constants.OrderStatusPaid); err != nil {
		t.Fatalf("update status failed: %v", err)
	}
	if err := repo.UpdateStatusIfVersion(order.ID, order.Version, constants.OrderStatusShipped); !errors.Is(err, ErrWriteConflict) {
		t.Fatalf("stale status update should conflict, got %v", err)
	}
	if err := repo.DeleteIfVersion(order.ID, order.Version); !errors.Is(err, ErrWriteConflict) {
		t.Fatalf("stale delete should conflict, got %v", err)
	}
	if err := repo.DeleteIfVersion(order.ID, order.Version+1); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	got, err := repo.GetByID(order.ID)
	if err != nil {
		t.Fatalf("get after delete failed: %v", err)
	}
	if got != nil {
		t.Fatalf("order should be deleted")
	}
	var items int64
	db.Model(&models.OrderItem{}).Where("order_id = ?", order.ID).Count(&items)
	if items != 0 {
		t.Fatalf("order items should be deleted, got %d", items)
	}
}
