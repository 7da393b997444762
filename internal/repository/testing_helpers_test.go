package repository

import (
	"fmt"
	"strings"
	"testing"

	"github.com/amineweldmaryem/boutique/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openRepositoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	return db
}

func createTestProduct(t *testing.T, db *gorm.DB, slug string, mutate func(*models.Product)) *models.Product {
	t.Helper()
	product := &models.Product{
		Slug:     slug,
		Name:     "Produit " + slug,
		Category: "hijabs",
		Price:    models.MustMoney("25.00"),
		Sizes:    models.StringArray{"standard"},
		Colors: models.ColorVariants{
			{Name: "Rouge", Stock: 10},
			{Name: "Noir", Stock: 4},
		},
	}
	if mutate != nil {
		mutate(product)
	}
	if err := NewProductRepository(db).Create(product); err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}
