package service

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/amineweldmaryem/boutique/internal/constants"
	"github.com/amineweldmaryem/boutique/internal/models"
	"github.com/amineweldmaryem/boutique/internal/queue"
	"github.com/amineweldmaryem/boutique/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

var testOrderSeq int64

type serviceTestEnv struct {
	db          *gorm.DB
	productRepo *repository.GormProductRepository
	orderRepo   *repository.GormOrderRepository
	userRepo    *repository.GormUserRepository
	stock       *StockService
	analytics   *AnalyticsService
	orders      *OrderService
	maintenance *MaintenanceService
	fixedNow    time.Time
}

func newServiceTestEnv(t *testing.T) *serviceTestEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s_%d?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("get sql db failed: %v", err)
	}
	// 单连接串行化事务，避免共享缓存模式下的表锁错误
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	env := &serviceTestEnv{
		db:          db,
		productRepo: repository.NewProductRepository(db),
		orderRepo:   repository.NewOrderRepository(db),
		userRepo:    repository.NewUserRepository(db),
		fixedNow:    time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
	}
	env.stock = NewStockService(db, env.productRepo)
	env.analytics = NewAnalyticsService(db, repository.NewSalesAnalyticsRepository(db), env.userRepo, AnalyticsOptions{Timezone: "UTC"})
	env.analytics.now = func() time.Time { return env.fixedNow }
	queueClient, _ := queue.NewClient(nil)
	env.orders = NewOrderService(db, env.orderRepo, env.productRepo, env.stock, env.analytics, queueClient, OrderOptions{
		ShippingCost:   models.MustMoney("8"),
		TxnMaxAttempts: 3,
	})
	env.orders.now = func() time.Time { return env.fixedNow }
	env.maintenance = NewMaintenanceService(db, true, env.orderRepo, env.orders, env.analytics)
	return env
}

func (e *serviceTestEnv) createProduct(t *testing.T, slug string, price string, colors ...models.ColorVariant) *models.Product {
	t.Helper()
	product := &models.Product{
		Slug:     slug,
		Name:     "Produit " + slug,
		Category: "hijabs",
		Price:    models.MustMoney(price),
		Sizes:    models.StringArray{"standard"},
		Colors:   models.ColorVariants(colors),
	}
	if err := e.productRepo.Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

// insertOrder 直接写入订单（不触发扣减），用于构造任意状态与下单日期
func (e *serviceTestEnv) insertOrder(t *testing.T, status string, orderDate time.Time, total string, items ...models.OrderItem) *models.Order {
	t.Helper()
	order := &models.Order{
		OrderNo:      fmt.Sprintf("T%d", atomic.AddInt64(&testOrderSeq, 1)),
		UserID:       "uid-1",
		Status:       status,
		ShippingCost: models.MustMoney("8"),
		TotalAmount:  models.MustMoney(total),
		OrderDate:    orderDate,
		Items:        items,
	}
	if err := e.orderRepo.Create(order); err != nil {
		t.Fatalf("insert order failed: %v", err)
	}
	return order
}

func (e *serviceTestEnv) stockOf(t *testing.T, productID uint, color string) int {
	t.Helper()
	product, err := e.productRepo.GetByID(productID)
	if err != nil || product == nil {
		t.Fatalf("load product %d failed: %v", productID, err)
	}
	idx := product.Colors.Find(color)
	if idx < 0 {
		t.Fatalf("color %s missing on product %d", color, productID)
	}
	return product.Colors[idx].Stock
}

func (e *serviceTestEnv) summary(t *testing.T) *models.SalesAnalytics {
	t.Helper()
	summary, err := e.analytics.Get(context.Background())
	if err != nil {
		t.Fatalf("load analytics failed: %v", err)
	}
	return summary
}

func item(productID uint, color string, qty int, price string) models.OrderItem {
	return models.OrderItem{
		ProductID:       productID,
		Name:            fmt.Sprintf("Produit %d", productID),
		Color:           color,
		Quantity:        qty,
		PriceAtPurchase: models.MustMoney(price),
	}
}

func deliver(t *testing.T, env *serviceTestEnv, orderID uint) {
	t.Helper()
	if _, err := env.orders.UpdateOrderStatus(context.Background(), orderID, constants.OrderStatusDelivered); err != nil {
		t.Fatalf("deliver order %d failed: %v", orderID, err)
	}
}
