package command

import (
	"context"
	"fmt"
	"time"

	"github.com/tair/food-waste/internal/inventory/domain"
	"github.com/tair/food-waste/pkg/logger"
)

// SweepNearExpiryCommand evaluates the store as of Now
type SweepNearExpiryCommand struct {
	Now time.Time
}

// SweepNearExpiryHandler discounts every available item close to expiry
type SweepNearExpiryHandler struct {
	repo      domain.InventoryRepository
	cache     domain.AnalyticsCache
	publisher domain.EventPublisher
}

// NewSweepNearExpiryHandler creates a new sweep handler
func NewSweepNearExpiryHandler(repo domain.InventoryRepository, cache domain.AnalyticsCache, publisher domain.EventPublisher) *SweepNearExpiryHandler {
	return &SweepNearExpiryHandler{repo: repo, cache: cache, publisher: publisher}
}

// Handle runs one bulk conditional update. Running it twice with the same
// Now leaves the store as a single run would.
func (h *SweepNearExpiryHandler) Handle(ctx context.Context, cmd SweepNearExpiryCommand) (*domain.SweepSummary, error) {
	if cmd.Now.IsZero() {
		return nil, fmt.Errorf("sweep time is required")
	}

	window := domain.CandidateWindow(cmd.Now)
	marked, err := h.repo.MarkNearExpiry(ctx, window, domain.DiscountRate, cmd.Now)
	if err != nil {
		return nil, fmt.Errorf("failed to mark near-expiry items: %w", err)
	}

	summary := &domain.SweepSummary{
		RanAt:  cmd.Now,
		Window: window,
		Marked: marked,
	}

	if marked == 0 {
		return summary, nil
	}

	if err := h.cache.Invalidate(ctx); err != nil {
		logger.Warn(ctx).Err(err).Msg("Failed to invalidate analytics cache")
	}
	if err := h.publisher.PublishNearExpiry(ctx, *summary); err != nil {
		logger.Warn(ctx).Err(err).Int64("marked", marked).Msg("Failed to publish near-expiry event")
	}

	return summary, nil
}
