package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/amineweldmaryem/boutique/internal/models"
	"github.com/amineweldmaryem/boutique/internal/repository"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// memoryCatalog 进程内的按代目录缓存，行为与 redis 实现一致
type memoryCatalog struct {
	mu      sync.Mutex
	gen     int64
	entries map[string][]byte
}

func newMemoryCatalog() *memoryCatalog {
	return &memoryCatalog{entries: map[string][]byte{}}
}

func (m *memoryCatalog) Key(_ context.Context, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fmt.Sprintf("catalog:%d:%s", m.gen, name), nil
}

func (m *memoryCatalog) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	m.mu.Lock()
	raw, ok := m.entries[key]
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *memoryCatalog) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.entries[key] = raw
	m.mu.Unlock()
	return nil
}

func (m *memoryCatalog) invalidate() {
	m.mu.Lock()
	m.gen++
	m.mu.Unlock()
}

func TestProductServiceReadsWithoutCache(t *testing.T) {
	env := newServiceTestEnv(t)
	ctx := context.Background()
	svc := NewProductService(env.db, env.productRepo, time.Minute)

	require.NoError(t, svc.Create(ctx, &models.Product{
		Slug:     "turban-coton",
		Name:     "Turban coton",
		Category: "turbans",
		Price:    models.MustMoney("19.90"),
		Colors:   models.ColorVariants{{Name: "Beige", Stock: 3}, {Name: "Noir", Stock: 1}},
	}))
	env.createProduct(t, "hijab-jersey", "12", models.ColorVariant{Name: "Noir", Stock: 2})

	page, err := svc.List(ctx, repository.ProductListFilter{Category: "turbans"})
	require.NoError(t, err)
	require.EqualValues(t, 1, page.Total)
	require.Equal(t, "turban-coton", page.Items[0].Slug)

	product, err := svc.GetBySlug(ctx, "turban-coton")
	require.NoError(t, err)
	require.Equal(t, 4, product.TotalStock())

	_, err = svc.GetBySlug(ctx, "absent")
	require.ErrorIs(t, err, ErrProductNotFound)

	colors, err := svc.ListColors(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"Beige", "Noir"}, colors)

	require.ErrorIs(t, svc.Create(ctx, &models.Product{Name: "sans slug"}), ErrOrderItemInvalid)
}

func TestProductListCacheKeyDistinguishesFilters(t *testing.T) {
	minPrice := models.MustMoney("10")
	a := productListCacheKey(repository.ProductListFilter{Category: "hijabs"})
	b := productListCacheKey(repository.ProductListFilter{Category: "hijabs", MinPrice: &minPrice})
	require.NotEqual(t, a, b)
	require.Equal(t, a, productListCacheKey(repository.ProductListFilter{Category: " hijabs "}))

	require.NotEqual(t, a, productListCacheKey(repository.ProductListFilter{Category: "Hijabs"}))
	require.NotEqual(t,
		productListCacheKey(repository.ProductListFilter{Color: "Red"}),
		productListCacheKey(repository.ProductListFilter{Color: "red"}))
	require.NotEqual(t,
		productListCacheKey(repository.ProductListFilter{Size: "M"}),
		productListCacheKey(repository.ProductListFilter{Size: "m"}))
}

func TestProductListCacheDoesNotMergeColorCase(t *testing.T) {
	env := newServiceTestEnv(t)
	ctx := context.Background()
	svc := NewProductService(env.db, env.productRepo, time.Minute)
	svc.catalog = newMemoryCatalog()
	env.createProduct(t, "hijab-rouge", "12", models.ColorVariant{Name: "Red", Stock: 2})

	page, err := svc.List(ctx, repository.ProductListFilter{Color: "Red"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	uncached, _, err := env.productRepo.List(repository.ProductListFilter{Color: "red"})
	require.NoError(t, err)
	page, err = svc.List(ctx, repository.ProductListFilter{Color: "red"})
	require.NoError(t, err)
	require.Len(t, page.Items, len(uncached))
}

func TestProductListNotCachedUnderNewerGeneration(t *testing.T) {
	env := newServiceTestEnv(t)
	ctx := context.Background()
	catalog := newMemoryCatalog()
	svc := NewProductService(env.db, env.productRepo, time.Minute)
	svc.catalog = catalog
	product := env.createProduct(t, "hijab-jersey", "12", models.ColorVariant{Name: "Noir", Stock: 5})

	// 列表查询读完之后、回写缓存之前，插入一次库存写入与缓存失效
	armed := true
	require.NoError(t, env.db.Callback().Query().After("gorm:query").Register("test:stock_write_after_list", func(tx *gorm.DB) {
		if _, ok := tx.Statement.Dest.(*[]models.Product); !ok || !armed {
			return
		}
		armed = false
		_, err := env.stock.ApplyBatch(context.Background(), []StockAdjustment{{ProductID: product.ID, Color: "Noir", Delta: -5}})
		require.NoError(t, err)
		catalog.invalidate()
	}))

	first, err := svc.List(ctx, repository.ProductListFilter{})
	require.NoError(t, err)
	require.Equal(t, 5, first.Items[0].Colors[0].Stock)
	require.False(t, armed)

	second, err := svc.List(ctx, repository.ProductListFilter{})
	require.NoError(t, err)
	require.Equal(t, 0, env.stockOf(t, product.ID, "Noir"))
	require.Equal(t, 0, second.Items[0].Colors[0].Stock)

	third, err := svc.List(ctx, repository.ProductListFilter{})
	require.NoError(t, err)
	require.Equal(t, 0, third.Items[0].Colors[0].Stock)
}

func TestUserProfileUpsertFeedsCustomerCount(t *testing.T) {
	env := newServiceTestEnv(t)
	ctx := context.Background()
	svc := NewUserService(env.db, env.userRepo)

	_, err := svc.UpsertProfile(ctx, UpsertProfileInput{UID: " "})
	require.ErrorIs(t, err, ErrProfileInvalid)

	user, err := svc.UpsertProfile(ctx, UpsertProfileInput{UID: "uid-1", Email: "a@example.com", DisplayName: "Amina"})
	require.NoError(t, err)
	require.Equal(t, "Amina", user.DisplayName)

	user, err = svc.UpsertProfile(ctx, UpsertProfileInput{UID: "uid-1", Email: "a@example.com", DisplayName: "Amina B."})
	require.NoError(t, err)
	require.Equal(t, "Amina B.", user.DisplayName)

	count, err := env.userRepo.Count()
	require.NoError(t, err)
	require.EqualValues(t, 1, count)

	missing, err := svc.GetProfile(ctx, "uid-404")
	require.NoError(t, err)
	require.Nil(t, missing)
}
