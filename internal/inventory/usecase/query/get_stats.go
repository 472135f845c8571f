package query

import (
	"context"
	"fmt"

	"github.com/tair/food-waste/internal/inventory/domain"
)

// GetStatsQuery represents the analytics stats query
type GetStatsQuery struct{}

// GetStatsHandler handles get stats query
type GetStatsHandler struct {
	repo  domain.InventoryRepository
	cache domain.AnalyticsCache
}

// NewGetStatsHandler creates a new get stats handler
func NewGetStatsHandler(repo domain.InventoryRepository, cache domain.AnalyticsCache) *GetStatsHandler {
	return &GetStatsHandler{repo: repo, cache: cache}
}

// Handle returns total, near-expiry and donated counts
func (h *GetStatsHandler) Handle(ctx context.Context, _ GetStatsQuery) (*domain.InventoryStats, error) {
	if stats, ok := h.cache.GetStats(ctx); ok {
		return stats, nil
	}
	generation := h.cache.Generation(ctx)

	total, err := h.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count items: %w", err)
	}
	nearExpiry, err := h.repo.CountByStatus(ctx, domain.StatusNearExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to count near-expiry items: %w", err)
	}
	donated, err := h.repo.CountByStatus(ctx, domain.StatusDonated)
	if err != nil {
		return nil, fmt.Errorf("failed to count donated items: %w", err)
	}

	stats := &domain.InventoryStats{
		TotalItems: total,
		NearExpiry: nearExpiry,
		Donated:    donated,
	}
	h.cache.SetStats(ctx, generation, stats)

	return stats, nil
}
