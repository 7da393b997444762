//go:build integration
// +build integration

package repository

import (
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/amineweldmaryem/boutique/internal/config"
	"github.com/amineweldmaryem/boutique/internal/constants"
	"github.com/amineweldmaryem/boutique/internal/models"

	"gorm.io/gorm"
)

// setupPostgresIntegrationDB 初始化 PostgreSQL 集成测试数据库。
func setupPostgresIntegrationDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := strings.TrimSpace(os.Getenv("TEST_POSTGRES_DSN"))
	if dsn == "" {
		t.Skip("skip postgres integration test: TEST_POSTGRES_DSN is empty")
	}

	db, err := models.OpenDB(config.DatabaseConfig{
		Driver: "postgres",
		DSN:    dsn,
		Pool:   config.DatabasePoolConfig{MaxOpenConns: 4},
	})
	if err != nil {
		t.Fatalf("open postgres failed: %v", err)
	}

	cleanupModels := []interface{}{
		&models.OrderItem{},
		&models.Order{},
		&models.Product{},
		&models.SalesAnalytics{},
		&models.User{},
	}
	_ = db.Migrator().DropTable(cleanupModels...)

	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate postgres models failed: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Migrator().DropTable(cleanupModels...)
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}

func TestPostgresProductJSONFilters(t *testing.T) {
	db := setupPostgresIntegrationDB(t)

	createTestProduct(t, db, "pg-jersey", func(p *models.Product) {
		p.Name = "Jersey Hijab"
		p.Sizes = models.StringArray{"standard"}
		p.Colors = models.ColorVariants{{Name: "Sage", Stock: 4}, {Name: "Black", Stock: 2}}
	})
	createTestProduct(t, db, "pg-turban", func(p *models.Product) {
		p.Name = "Cotton Turban"
		p.Sizes = models.StringArray{"M", "L"}
		p.Colors = models.ColorVariants{{Name: "Terracotta", Stock: 1}}
	})

	repo := NewProductRepository(db)
	byColor, total, err := repo.List(ProductListFilter{Page: 1, PageSize: 10, Color: "Sage"})
	if err != nil {
		t.Fatalf("list by color failed: %v", err)
	}
	if total != 1 || len(byColor) != 1 || byColor[0].Slug != "pg-jersey" {
		t.Fatalf("color filter mismatch: total=%d items=%+v", total, byColor)
	}

	bySize, total, err := repo.List(ProductListFilter{Page: 1, PageSize: 10, Size: "L"})
	if err != nil {
		t.Fatalf("list by size failed: %v", err)
	}
	if total != 1 || bySize[0].Slug != "pg-turban" {
		t.Fatalf("size filter mismatch: total=%d", total)
	}

	bySearch, total, err := repo.List(ProductListFilter{Page: 1, PageSize: 10, Search: "turban"})
	if err != nil {
		t.Fatalf("list by search failed: %v", err)
	}
	if total != 1 || bySearch[0].Slug != "pg-turban" {
		t.Fatalf("case-insensitive search mismatch: total=%d", total)
	}
}

func TestPostgresVersionedWritesConflict(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	product := createTestProduct(t, db, "pg-versioned", nil)

	repo := NewProductRepository(db)
	colors := product.Colors.Clone()
	colors[0].Stock--
	if err := repo.UpdateColorsIfVersion(product.ID, product.Version, colors); err != nil {
		t.Fatalf("first versioned update failed: %v", err)
	}
	if err := repo.UpdateColorsIfVersion(product.ID, product.Version, colors); !errors.Is(err, ErrWriteConflict) {
		t.Fatalf("stale version should conflict, got %v", err)
	}

	analytics := NewSalesAnalyticsRepository(db)
	first := &models.SalesAnalytics{ID: models.SalesAnalyticsSummaryID}
	if err := analytics.Create(first); err != nil {
		t.Fatalf("create analytics failed: %v", err)
	}
	if err := analytics.Create(&models.SalesAnalytics{ID: models.SalesAnalyticsSummaryID}); !errors.Is(err, ErrWriteConflict) {
		t.Fatalf("duplicate singleton should conflict, got %v", err)
	}
}

func TestPostgresOrderFilters(t *testing.T) {
	db := setupPostgresIntegrationDB(t)
	repo := NewOrderRepository(db)

	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	for i, status := range []string{constants.OrderStatusPending, constants.OrderStatusDelivered, constants.OrderStatusDelivered} {
		order := &models.Order{
			OrderNo:   "PG" + string(rune('A'+i)),
			UserID:    "pg-user",
			Status:    status,
			OrderDate: now.Add(time.Duration(i) * time.Hour),
		}
		if err := repo.Create(order); err != nil {
			t.Fatalf("create order failed: %v", err)
		}
	}

	count, err := repo.Count(OrderListFilter{Statuses: []string{constants.OrderStatusDelivered}})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("delivered count want 2 got %d", count)
	}
}
