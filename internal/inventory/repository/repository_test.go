package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/food-waste/internal/inventory/domain"
	"github.com/tair/food-waste/pkg/database"
)

var now = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func newTestRepo(t *testing.T) *GormInventoryRepository {
	t.Helper()
	return NewGormInventoryRepository(database.NewTestDB(t, &domain.InventoryItem{}))
}

func seed(t *testing.T, repo domain.InventoryRepository, name string, category domain.Category, expiresIn time.Duration, status domain.Status, price string) *domain.InventoryItem {
	t.Helper()
	item := &domain.InventoryItem{
		ProductName: name,
		Category:    category,
		Quantity:    5,
		ExpiryDate:  now.Add(expiresIn),
		Price:       decimal.RequireFromString(price),
		Status:      status,
		Location:    "Aisle 3",
	}
	require.NoError(t, repo.Create(context.Background(), item))
	return item
}

func TestCreateAssignsIDAndTimestamps(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	item := seed(t, repo, "Bread", domain.CategoryBakery, 48*time.Hour, domain.StatusAvailable, "3.50")

	assert.NotEqual(t, uuid.Nil, item.ID)
	assert.False(t, item.CreatedAt.IsZero())

	got, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bread", got.ProductName)
	assert.Equal(t, domain.CategoryBakery, got.Category)
	assert.True(t, got.Price.Equal(decimal.RequireFromString("3.50")))
	assert.False(t, got.DiscountedPrice.Valid)
	assert.True(t, got.ExpiryDate.Equal(item.ExpiryDate))
}

func TestFindByIDNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestFindAllNewestFirst(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for i, name := range []string{"first", "second", "third"} {
		item := &domain.InventoryItem{
			ProductName: name,
			Category:    domain.CategoryFruits,
			Quantity:    1,
			ExpiryDate:  now.Add(240 * time.Hour),
			Price:       decimal.NewFromInt(1),
			Status:      domain.StatusAvailable,
			Location:    domain.DefaultLocation,
			CreatedAt:   now.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Create(ctx, item))
	}

	items, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "third", items[0].ProductName)
	assert.Equal(t, "second", items[1].ProductName)
	assert.Equal(t, "first", items[2].ProductName)
}

func TestFindExpiringBetween(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	seed(t, repo, "soon", domain.CategoryDairy, 24*time.Hour, domain.StatusAvailable, "2")
	seed(t, repo, "later", domain.CategoryDairy, 240*time.Hour, domain.StatusAvailable, "2")
	seed(t, repo, "gone", domain.CategoryDairy, -24*time.Hour, domain.StatusAvailable, "2")
	seed(t, repo, "discounted", domain.CategoryDairy, 24*time.Hour, domain.StatusNearExpiry, "2")

	items, err := repo.FindExpiringBetween(ctx, domain.StatusAvailable, now, now.Add(72*time.Hour))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "soon", items[0].ProductName)
}

func TestCountsAndCategories(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	seed(t, repo, "apple", domain.CategoryFruits, 240*time.Hour, domain.StatusAvailable, "1")
	seed(t, repo, "pear", domain.CategoryFruits, 24*time.Hour, domain.StatusNearExpiry, "1")
	seed(t, repo, "cheese", domain.CategoryDairy, 24*time.Hour, domain.StatusDonated, "1")

	total, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	nearExpiry, err := repo.CountByStatus(ctx, domain.StatusNearExpiry)
	require.NoError(t, err)
	assert.Equal(t, int64(1), nearExpiry)

	rows, err := repo.CountByCategory(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.CategoryCount{
		{Category: domain.CategoryDairy, Count: 1},
		{Category: domain.CategoryFruits, Count: 2},
	}, rows)
}

func TestUpdateStatus(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	item := seed(t, repo, "yogurt", domain.CategoryDairy, 24*time.Hour, domain.StatusNearExpiry, "4")

	updated, err := repo.UpdateStatus(ctx, item.ID, domain.StatusDonated)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDonated, updated.Status)
	assert.Equal(t, item.ID, updated.ID)

	_, err = repo.UpdateStatus(ctx, uuid.New(), domain.StatusDonated)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestMarkNearExpiry(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	inWindow := seed(t, repo, "milk", domain.CategoryDairy, 48*time.Hour, domain.StatusAvailable, "100")
	cents := seed(t, repo, "bun", domain.CategoryBakery, 12*time.Hour, domain.StatusAvailable, "19.99")
	farOff := seed(t, repo, "rice", domain.CategoryOther, 240*time.Hour, domain.StatusAvailable, "10")
	longGone := seed(t, repo, "fish", domain.CategoryMeat, -48*time.Hour, domain.StatusAvailable, "10")
	donated := seed(t, repo, "ham", domain.CategoryMeat, 24*time.Hour, domain.StatusDonated, "10")

	marked, err := repo.MarkNearExpiry(ctx, domain.CandidateWindow(now), domain.DiscountRate, now)
	require.NoError(t, err)
	assert.Equal(t, int64(2), marked)

	got, err := repo.FindByID(ctx, inWindow.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNearExpiry, got.Status)
	require.True(t, got.DiscountedPrice.Valid)
	assert.True(t, got.DiscountedPrice.Decimal.Equal(decimal.RequireFromString("70.00")), got.DiscountedPrice.Decimal.String())

	got, err = repo.FindByID(ctx, cents.ID)
	require.NoError(t, err)
	assert.True(t, got.DiscountedPrice.Decimal.Equal(decimal.RequireFromString("13.99")), got.DiscountedPrice.Decimal.String())

	for _, unchanged := range []*domain.InventoryItem{farOff, longGone, donated} {
		got, err := repo.FindByID(ctx, unchanged.ID)
		require.NoError(t, err)
		assert.Equal(t, unchanged.Status, got.Status, unchanged.ProductName)
		assert.False(t, got.DiscountedPrice.Valid, unchanged.ProductName)
	}

	again, err := repo.MarkNearExpiry(ctx, domain.CandidateWindow(now), domain.DiscountRate, now)
	require.NoError(t, err)
	assert.Equal(t, int64(0), again)
}

func TestMarkNearExpiryMatchesEvaluate(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	cases := []struct {
		expiresIn time.Duration
		status    domain.Status
		price     string
	}{
		{-25 * time.Hour, domain.StatusAvailable, "10"},
		{-23 * time.Hour, domain.StatusAvailable, "4.99"},
		{0, domain.StatusAvailable, "0.10"},
		{30 * time.Hour, domain.StatusAvailable, "12.34"},
		{72 * time.Hour, domain.StatusAvailable, "999.99"},
		{73 * time.Hour, domain.StatusAvailable, "5"},
		{24 * time.Hour, domain.StatusExpired, "8"},
		{24 * time.Hour, domain.StatusAvailable, "0"},
	}

	var seeded []*domain.InventoryItem
	for i, tc := range cases {
		seeded = append(seeded, seed(t, repo, fmt.Sprintf("item-%d", i), domain.CategoryOther, tc.expiresIn, tc.status, tc.price))
	}

	_, err := repo.MarkNearExpiry(ctx, domain.CandidateWindow(now), domain.DiscountRate, now)
	require.NoError(t, err)

	for _, item := range seeded {
		want, _ := domain.Evaluate(*item, now)

		got, err := repo.FindByID(ctx, item.ID)
		require.NoError(t, err)
		assert.Equal(t, want.Status, got.Status, item.ProductName)
		require.Equal(t, want.DiscountedPrice.Valid, got.DiscountedPrice.Valid, item.ProductName)
		if want.DiscountedPrice.Valid {
			assert.True(t, want.DiscountedPrice.Decimal.Equal(got.DiscountedPrice.Decimal),
				"%s: want %s, got %s", item.ProductName, want.DiscountedPrice.Decimal, got.DiscountedPrice.Decimal)
		}
	}
}

func TestTracingRepositoryDelegates(t *testing.T) {
	repo := NewTracingInventoryRepository(newTestRepo(t))
	ctx := context.Background()

	item := seed(t, repo, "kale", domain.CategoryVegetables, 24*time.Hour, domain.StatusAvailable, "2")

	got, err := repo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "kale", got.ProductName)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	marked, err := repo.MarkNearExpiry(ctx, domain.CandidateWindow(now), domain.DiscountRate, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), marked)
}
