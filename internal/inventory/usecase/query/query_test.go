package query

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tair/food-waste/internal/inventory/cache"
	"github.com/tair/food-waste/internal/inventory/domain"
	"github.com/tair/food-waste/internal/inventory/repository"
	"github.com/tair/food-waste/pkg/database"
)

var now = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return now }

func newTestRepo(t *testing.T) domain.InventoryRepository {
	t.Helper()
	return repository.NewGormInventoryRepository(database.NewTestDB(t, &domain.InventoryItem{}))
}

func newRedisCache(t *testing.T) *cache.RedisAnalyticsCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return cache.NewRedisAnalyticsCache(client, time.Minute)
}

func seed(t *testing.T, repo domain.InventoryRepository, name string, category domain.Category, expiresIn time.Duration, status domain.Status) *domain.InventoryItem {
	t.Helper()
	item := &domain.InventoryItem{
		ProductName: name,
		Category:    category,
		Quantity:    2,
		ExpiryDate:  now.Add(expiresIn),
		Price:       decimal.NewFromInt(10),
		Status:      status,
		Location:    domain.DefaultLocation,
	}
	require.NoError(t, repo.Create(context.Background(), item))
	return item
}

func names(items []domain.InventoryItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ProductName)
	}
	return out
}

func TestListItemsEmpty(t *testing.T) {
	items, err := NewListItemsHandler(newTestRepo(t)).Handle(context.Background(), ListItemsQuery{})
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestListItems(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo, "apples", domain.CategoryFruits, 72*time.Hour, domain.StatusAvailable)
	seed(t, repo, "cheese", domain.CategoryDairy, 24*time.Hour, domain.StatusDonated)

	items, err := NewListItemsHandler(repo).Handle(context.Background(), ListItemsQuery{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"apples", "cheese"}, names(items))
}

func TestListNearExpiry(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo, "tomorrow", domain.CategoryFruits, 24*time.Hour, domain.StatusAvailable)
	seed(t, repo, "in three days", domain.CategoryFruits, 72*time.Hour, domain.StatusAvailable)
	seed(t, repo, "next week", domain.CategoryFruits, 7*24*time.Hour, domain.StatusAvailable)
	seed(t, repo, "yesterday", domain.CategoryFruits, -24*time.Hour, domain.StatusAvailable)
	seed(t, repo, "already flagged", domain.CategoryFruits, 24*time.Hour, domain.StatusNearExpiry)
	seed(t, repo, "right now", domain.CategoryFruits, 0, domain.StatusAvailable)

	h := NewListNearExpiryHandler(repo, clock)
	days := func(n int) *int { return &n }

	items, err := h.Handle(context.Background(), ListNearExpiryQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"right now", "tomorrow", "in three days"}, names(items))

	items, err = h.Handle(context.Background(), ListNearExpiryQuery{Days: days(10)})
	require.NoError(t, err)
	assert.Equal(t, []string{"right now", "tomorrow", "in three days", "next week"}, names(items))

	items, err = h.Handle(context.Background(), ListNearExpiryQuery{Days: days(0)})
	require.NoError(t, err)
	assert.Equal(t, []string{"right now"}, names(items))

	_, err = h.Handle(context.Background(), ListNearExpiryQuery{Days: days(-1)})
	assert.True(t, domain.IsValidationError(err))
}

func TestListDonationCandidates(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo, "bread", domain.CategoryBakery, 24*time.Hour, domain.StatusNearExpiry)
	seed(t, repo, "milk", domain.CategoryDairy, 24*time.Hour, domain.StatusAvailable)
	seed(t, repo, "beef", domain.CategoryMeat, 24*time.Hour, domain.StatusDonated)

	items, err := NewListDonationCandidatesHandler(repo).Handle(context.Background(), ListDonationCandidatesQuery{})
	require.NoError(t, err)
	assert.Equal(t, []string{"bread"}, names(items))
}

func TestGetStats(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo, "a", domain.CategoryFruits, 24*time.Hour, domain.StatusAvailable)
	seed(t, repo, "b", domain.CategoryFruits, 24*time.Hour, domain.StatusNearExpiry)
	seed(t, repo, "c", domain.CategoryDairy, 24*time.Hour, domain.StatusNearExpiry)
	seed(t, repo, "d", domain.CategoryMeat, 24*time.Hour, domain.StatusDonated)

	stats, err := NewGetStatsHandler(repo, cache.Noop{}).Handle(context.Background(), GetStatsQuery{})
	require.NoError(t, err)
	assert.Equal(t, domain.InventoryStats{TotalItems: 4, NearExpiry: 2, Donated: 1}, *stats)
}

func TestGetStatsReadThroughCache(t *testing.T) {
	repo := newTestRepo(t)
	c := newRedisCache(t)
	h := NewGetStatsHandler(repo, c)
	ctx := context.Background()

	seed(t, repo, "a", domain.CategoryFruits, 24*time.Hour, domain.StatusAvailable)

	first, err := h.Handle(ctx, GetStatsQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.TotalItems)

	seed(t, repo, "b", domain.CategoryFruits, 24*time.Hour, domain.StatusAvailable)

	cached, err := h.Handle(ctx, GetStatsQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), cached.TotalItems)

	require.NoError(t, c.Invalidate(ctx))

	fresh, err := h.Handle(ctx, GetStatsQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), fresh.TotalItems)
}

// racingRepo runs afterCount once the count has been read, standing in for a
// write that lands while a stats query is still in flight.
type racingRepo struct {
	domain.InventoryRepository
	afterCount func()
}

func (r *racingRepo) Count(ctx context.Context) (int64, error) {
	n, err := r.InventoryRepository.Count(ctx)
	if r.afterCount != nil {
		r.afterCount()
		r.afterCount = nil
	}
	return n, err
}

func TestGetStatsDoesNotCacheAcrossInvalidate(t *testing.T) {
	repo := newTestRepo(t)
	c := newRedisCache(t)
	ctx := context.Background()

	seed(t, repo, "a", domain.CategoryFruits, 24*time.Hour, domain.StatusAvailable)

	racing := &racingRepo{InventoryRepository: repo}
	racing.afterCount = func() {
		seed(t, repo, "b", domain.CategoryFruits, 24*time.Hour, domain.StatusAvailable)
		require.NoError(t, c.Invalidate(ctx))
	}

	stale, err := NewGetStatsHandler(racing, c).Handle(ctx, GetStatsQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), stale.TotalItems)

	_, ok := c.GetStats(ctx)
	assert.False(t, ok)

	fresh, err := NewGetStatsHandler(repo, c).Handle(ctx, GetStatsQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), fresh.TotalItems)
}

func TestCategoryDistribution(t *testing.T) {
	repo := newTestRepo(t)
	seed(t, repo, "a", domain.CategoryFruits, 24*time.Hour, domain.StatusAvailable)
	seed(t, repo, "b", domain.CategoryFruits, 24*time.Hour, domain.StatusDonated)
	seed(t, repo, "c", domain.CategoryDairy, 24*time.Hour, domain.StatusAvailable)

	dist, err := NewCategoryDistributionHandler(repo, newRedisCache(t)).Handle(context.Background(), CategoryDistributionQuery{})
	require.NoError(t, err)
	assert.Equal(t, []domain.CategoryCount{
		{Category: domain.CategoryDairy, Count: 1},
		{Category: domain.CategoryFruits, Count: 2},
	}, dist)
}

func TestCategoryDistributionEmpty(t *testing.T) {
	dist, err := NewCategoryDistributionHandler(newTestRepo(t), cache.Noop{}).Handle(context.Background(), CategoryDistributionQuery{})
	require.NoError(t, err)
	assert.NotNil(t, dist)
	assert.Empty(t, dist)
}
