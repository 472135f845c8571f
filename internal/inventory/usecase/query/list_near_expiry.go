package query

import (
	"context"
	"fmt"
	"time"

	"github.com/tair/food-waste/internal/inventory/domain"
)

// ListNearExpiryQuery lists available items expiring within Days days.
// A nil Days uses domain.NearExpiryWindowDays; zero means expiring exactly now.
type ListNearExpiryQuery struct {
	Days *int
}

// ListNearExpiryHandler handles list near expiry query
type ListNearExpiryHandler struct {
	repo domain.InventoryRepository
	now  domain.Clock
}

// NewListNearExpiryHandler creates a new list near expiry handler
func NewListNearExpiryHandler(repo domain.InventoryRepository, clock domain.Clock) *ListNearExpiryHandler {
	return &ListNearExpiryHandler{repo: repo, now: clock}
}

// Handle returns available items with expiry in [now, now+Days], soonest first.
// Items already past expiry are not included.
func (h *ListNearExpiryHandler) Handle(ctx context.Context, query ListNearExpiryQuery) ([]domain.InventoryItem, error) {
	days := domain.NearExpiryWindowDays
	if query.Days != nil {
		days = *query.Days
	}
	if days < 0 {
		return nil, domain.InvalidField("days", "must not be negative")
	}

	now := h.now()
	until := now.Add(time.Duration(days) * 24 * time.Hour)

	items, err := h.repo.FindExpiringBetween(ctx, domain.StatusAvailable, now, until)
	if err != nil {
		return nil, fmt.Errorf("failed to list near-expiry items: %w", err)
	}
	return nonNil(items), nil
}
