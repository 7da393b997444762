package main

import (
	"context"
	"errors"
	"os"

	"github.com/amineweldmaryem/boutique/internal/config"
	"github.com/amineweldmaryem/boutique/internal/logger"
	"github.com/amineweldmaryem/boutique/internal/models"
	"github.com/amineweldmaryem/boutique/internal/repository"
	"github.com/amineweldmaryem/boutique/internal/service"
)

func main() {
	// 连接数据库
	cfg, err := config.Load()
	if err != nil {
		logger.StdLogger().Fatalf("load config: %v", err)
	}
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(nil); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	if err := models.InitDefaultAdmin(nil, os.Getenv("BQ_DEFAULT_ADMIN_USERNAME"), os.Getenv("BQ_DEFAULT_ADMIN_PASSWORD")); err != nil {
		stdLog.Printf("Failed to init default admin: %v", err)
	}

	// 种子数据不走缓存，写入后直接按 slug 去重
	ctx := context.Background()
	products := service.NewProductService(models.DB, repository.NewProductRepository(models.DB), 0)
	for _, p := range demoCatalog() {
		product := p
		if _, err := products.GetBySlug(ctx, product.Slug); err == nil {
			stdLog.Printf("Product already exists: %s", product.Slug)
			continue
		} else if !errors.Is(err, service.ErrProductNotFound) {
			stdLog.Printf("Failed to check product %s: %v", product.Slug, err)
			continue
		}
		if err := products.Create(ctx, &product); err != nil {
			stdLog.Printf("Failed to create product %s: %v", product.Slug, err)
			continue
		}
		stdLog.Printf("Created product: %s (%d colors, %d in stock)", product.Slug, len(product.Colors), product.TotalStock())
	}

	stdLog.Println("Seed data completed")
}

func demoCatalog() []models.Product {
	return []models.Product{
		{
			Slug:        "classic-jersey-hijab",
			Name:        "Classic Jersey Hijab",
			Category:    "hijabs",
			Price:       models.MustMoney("24.90"),
			Sizes:       models.StringArray{"standard"},
			ImageURL:    "/images/jersey-hijab.jpg",
			Description: "Soft stretch jersey that stays in place all day.",
			Details:     models.StringArray{"95% viscose, 5% elastane", "180 x 70 cm", "Machine wash cold"},
			IsFeatured:  true,
			Colors: models.ColorVariants{
				{Name: "Black", Stock: 40, Images: []models.ProductImage{{View: "front", URL: "/images/jersey-hijab-black.jpg"}}},
				{Name: "Dusty Rose", Stock: 25, Images: []models.ProductImage{{View: "front", URL: "/images/jersey-hijab-rose.jpg"}}},
				{Name: "Sage", Stock: 18},
			},
		},
		{
			Slug:        "chiffon-everyday-hijab",
			Name:        "Chiffon Everyday Hijab",
			Category:    "hijabs",
			Price:       models.MustMoney("19.50"),
			Sizes:       models.StringArray{"standard", "large"},
			ImageURL:    "/images/chiffon-hijab.jpg",
			Description: "Lightweight georgette chiffon with a matte finish.",
			Details:     models.StringArray{"100% polyester georgette", "Non-slip texture"},
			Colors: models.ColorVariants{
				{Name: "Ivory", Stock: 30},
				{Name: "Navy", Stock: 22},
				{Name: "Mocha", Stock: 12},
			},
		},
		{
			Slug:        "pre-tied-cotton-turban",
			Name:        "Pre-tied Cotton Turban",
			Category:    "turbans",
			Price:       models.MustMoney("29.00"),
			Sizes:       models.StringArray{"S", "M", "L"},
			ImageURL:    "/images/cotton-turban.jpg",
			Description: "Ready-to-wear turban with a knotted front.",
			Details:     models.StringArray{"100% cotton jersey", "Elastic back"},
			IsFeatured:  true,
			Colors: models.ColorVariants{
				{Name: "Terracotta", Stock: 15, Images: []models.ProductImage{{View: "front", URL: "/images/turban-terracotta.jpg"}}},
				{Name: "Black", Stock: 20},
			},
		},
		{
			Slug:        "satin-lined-bonnet-turban",
			Name:        "Satin-lined Bonnet Turban",
			Category:    "turbans",
			Price:       models.MustMoney("34.00"),
			Sizes:       models.StringArray{"M", "L"},
			ImageURL:    "/images/satin-turban.jpg",
			Description: "Twist turban with a satin lining that protects hair.",
			Details:     models.StringArray{"Outer: modal blend", "Lining: satin"},
			Colors: models.ColorVariants{
				{Name: "Emerald", Stock: 10},
				{Name: "Champagne", Stock: 8},
			},
		},
		{
			Slug:        "underscarf-cap",
			Name:        "Underscarf Cap",
			Category:    "accessories",
			Price:       models.MustMoney("9.90"),
			Sizes:       models.StringArray{"standard"},
			ImageURL:    "/images/underscarf.jpg",
			Description: "Breathable tube cap worn under any hijab.",
			Colors: models.ColorVariants{
				{Name: "Black", Stock: 60},
				{Name: "Nude", Stock: 45},
				{Name: "White", Stock: 35},
			},
		},
	}
}
