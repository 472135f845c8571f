package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tair/food-waste/internal/inventory/domain"
	"github.com/tair/food-waste/pkg/logger"
)

// DonateItemCommand marks one item as donated
type DonateItemCommand struct {
	ItemID  string
	Partner string
}

// DonateItemHandler handles donate item command
type DonateItemHandler struct {
	repo      domain.InventoryRepository
	cache     domain.AnalyticsCache
	publisher domain.EventPublisher
}

// NewDonateItemHandler creates a new donate item handler
func NewDonateItemHandler(repo domain.InventoryRepository, cache domain.AnalyticsCache, publisher domain.EventPublisher) *DonateItemHandler {
	return &DonateItemHandler{repo: repo, cache: cache, publisher: publisher}
}

// Handle sets the item's status to donated whatever its current status and
// returns the updated item. Price and discount are left as they were.
func (h *DonateItemHandler) Handle(ctx context.Context, cmd DonateItemCommand) (*domain.InventoryItem, error) {
	id, err := uuid.Parse(strings.TrimSpace(cmd.ItemID))
	if err != nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidID, cmd.ItemID)
	}

	item, err := h.repo.UpdateStatus(ctx, id, domain.StatusDonated)
	if err != nil {
		return nil, fmt.Errorf("failed to donate item %s: %w", id, err)
	}

	logger.Info(ctx).
		Str("item_id", id.String()).
		Str("partner", cmd.Partner).
		Msg("Item donated")

	if err := h.cache.Invalidate(ctx); err != nil {
		logger.Warn(ctx).Err(err).Msg("Failed to invalidate analytics cache")
	}
	if err := h.publisher.PublishItemDonated(ctx, item); err != nil {
		logger.Warn(ctx).Err(err).Str("item_id", id.String()).Msg("Failed to publish donation event")
	}

	return item, nil
}
