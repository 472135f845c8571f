package query

import (
	"context"
	"fmt"

	"github.com/tair/food-waste/internal/inventory/domain"
)

// CategoryDistributionQuery represents the category distribution query
type CategoryDistributionQuery struct{}

// CategoryDistributionHandler handles category distribution query
type CategoryDistributionHandler struct {
	repo  domain.InventoryRepository
	cache domain.AnalyticsCache
}

// NewCategoryDistributionHandler creates a new category distribution handler
func NewCategoryDistributionHandler(repo domain.InventoryRepository, cache domain.AnalyticsCache) *CategoryDistributionHandler {
	return &CategoryDistributionHandler{repo: repo, cache: cache}
}

// Handle returns one count per category present in the store, ordered by
// category. Categories with no items are omitted.
func (h *CategoryDistributionHandler) Handle(ctx context.Context, _ CategoryDistributionQuery) ([]domain.CategoryCount, error) {
	if dist, ok := h.cache.GetCategoryDistribution(ctx); ok {
		return dist, nil
	}
	generation := h.cache.Generation(ctx)

	dist, err := h.repo.CountByCategory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to group items by category: %w", err)
	}
	if dist == nil {
		dist = []domain.CategoryCount{}
	}
	h.cache.SetCategoryDistribution(ctx, generation, dist)

	return dist, nil
}
