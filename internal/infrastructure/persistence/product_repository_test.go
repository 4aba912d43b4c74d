package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

func newTestProduct(t *testing.T, sku, name, price string) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(sku, name, valueobject.NewMoneyUSD(decimal.RequireFromString(price)))
	require.NoError(t, err)
	return p
}

func seedProduct(t *testing.T, db *gorm.DB, p *catalog.Product) {
	t.Helper()
	require.NoError(t, db.Create(p).Error)
}

func TestGormProductRepository_FindByID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	p := newTestProduct(t, "TEE-001", "Classic Tee", "19.99")
	seedProduct(t, db, p)

	found, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "TEE-001", found.SKU)
	assert.True(t, found.Price.Equal(decimal.RequireFromString("19.99")))

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormProductRepository_FindBySKU_CaseInsensitive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	p := newTestProduct(t, "HOODIE-7", "Zip Hoodie", "49.00")
	seedProduct(t, db, p)

	found, err := repo.FindBySKU(ctx, "hoodie-7")
	require.NoError(t, err)
	assert.Equal(t, p.ID, found.ID)

	_, err = repo.FindBySKU(ctx, "NOPE-0")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormProductRepository_FindAll_Filters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	tee := newTestProduct(t, "TEE-002", "Summer Tee", "15.00")
	require.NoError(t, tee.SetTaxonomy("Top Wear", "Rabbit", "Summer", "Cotton", catalog.GenderMen))
	tee.SetVariants([]string{"S", "M"}, []string{"Red"})
	require.NoError(t, tee.Publish())
	seedProduct(t, db, tee)

	jeans := newTestProduct(t, "JEAN-002", "Slim Jeans", "60.00")
	require.NoError(t, jeans.SetTaxonomy("Bottom Wear", "Rabbit", "Autumn", "Denim", catalog.GenderWomen))
	jeans.SetVariants([]string{"XL"}, []string{"Blue"})
	require.NoError(t, jeans.Publish())
	seedProduct(t, db, jeans)

	draft := newTestProduct(t, "DRAFT-002", "Unreleased Jacket", "99.00")
	seedProduct(t, db, draft)

	t.Run("published only hides drafts", func(t *testing.T) {
		filter := catalog.DefaultProductFilter()
		filter.PublishedOnly = true

		products, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		assert.Len(t, products, 2)
	})

	t.Run("category", func(t *testing.T) {
		filter := catalog.DefaultProductFilter()
		filter.Category = "Bottom Wear"

		products, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "JEAN-002", products[0].SKU)
	})

	t.Run("size matches json list", func(t *testing.T) {
		filter := catalog.DefaultProductFilter()
		filter.Size = "M"

		products, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "TEE-002", products[0].SKU)
	})

	t.Run("price bounds", func(t *testing.T) {
		min := decimal.RequireFromString("50.00")
		filter := catalog.DefaultProductFilter()
		filter.MinPrice = &min

		products, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, products, 2)

		max := decimal.RequireFromString("20.00")
		filter = catalog.DefaultProductFilter()
		filter.MaxPrice = &max

		products, err = repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "TEE-002", products[0].SKU)
	})

	t.Run("search matches name case-insensitively", func(t *testing.T) {
		filter := catalog.DefaultProductFilter()
		filter.Search = "SUMMER"

		products, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "TEE-002", products[0].SKU)
	})

	t.Run("count ignores pagination", func(t *testing.T) {
		filter := catalog.DefaultProductFilter()
		filter.PageSize = 1

		count, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})
}

func TestGormProductRepository_FindBestSellers(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	low := newTestProduct(t, "LOW-1", "Low Rated", "10.00")
	low.Rating = decimal.RequireFromString("3.20")
	low.NumReviews = 5
	require.NoError(t, low.Publish())
	seedProduct(t, db, low)

	high := newTestProduct(t, "HIGH-1", "Crowd Favorite", "10.00")
	high.Rating = decimal.RequireFromString("4.80")
	high.NumReviews = 40
	require.NoError(t, high.Publish())
	seedProduct(t, db, high)

	hidden := newTestProduct(t, "HIDDEN-1", "Great But Draft", "10.00")
	hidden.Rating = decimal.RequireFromString("5.00")
	hidden.NumReviews = 100
	seedProduct(t, db, hidden)

	products, err := repo.FindBestSellers(ctx, 2)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "HIGH-1", products[0].SKU)
	assert.Equal(t, "LOW-1", products[1].SKU)
}

func TestGormProductRepository_FindNewArrivals(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	old := newTestProduct(t, "OLD-1", "Last Season", "10.00")
	old.CreatedAt = time.Now().Add(-48 * time.Hour)
	require.NoError(t, old.Publish())
	seedProduct(t, db, old)

	fresh := newTestProduct(t, "NEW-1", "Just Dropped", "10.00")
	require.NoError(t, fresh.Publish())
	seedProduct(t, db, fresh)

	products, err := repo.FindNewArrivals(ctx, 1)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "NEW-1", products[0].SKU)
}

func TestGormProductRepository_FindSimilar(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	base := newTestProduct(t, "BASE-1", "Base Tee", "20.00")
	require.NoError(t, base.SetTaxonomy("Top Wear", "Rabbit", "", "", catalog.GenderMen))
	require.NoError(t, base.Publish())
	seedProduct(t, db, base)

	similar := newTestProduct(t, "SIM-1", "Similar Tee", "22.00")
	require.NoError(t, similar.SetTaxonomy("Top Wear", "Other", "", "", catalog.GenderMen))
	require.NoError(t, similar.Publish())
	seedProduct(t, db, similar)

	other := newTestProduct(t, "OTHER-1", "Different Jeans", "50.00")
	require.NoError(t, other.SetTaxonomy("Bottom Wear", "Rabbit", "", "", catalog.GenderWomen))
	require.NoError(t, other.Publish())
	seedProduct(t, db, other)

	products, err := repo.FindSimilar(ctx, base, 4)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "SIM-1", products[0].SKU)
}

func TestGormProductRepository_Save_DuplicateSKU(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	first := newTestProduct(t, "DUP-1", "First", "10.00")
	require.NoError(t, repo.Save(ctx, first))

	second := newTestProduct(t, "DUP-1", "Second", "12.00")
	err := repo.Save(ctx, second)
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestGormProductRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	p := newTestProduct(t, "DEL-1", "To Delete", "10.00")
	seedProduct(t, db, p)

	require.NoError(t, repo.Delete(ctx, p.ID))

	_, err := repo.FindByID(ctx, p.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	err = repo.Delete(ctx, p.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormProductRepository_ExistsBySKU(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormProductRepository(db)
	ctx := context.Background()

	p := newTestProduct(t, "EXIST-1", "Exists", "10.00")
	seedProduct(t, db, p)

	exists, err := repo.ExistsBySKU(ctx, "exist-1")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsBySKU(ctx, "MISSING-1")
	require.NoError(t, err)
	assert.False(t, exists)
}
