package query

import (
	"context"
	"fmt"

	"github.com/tair/food-waste/internal/inventory/domain"
)

// ListItemsQuery represents the query to list every inventory item
type ListItemsQuery struct{}

// ListItemsHandler handles list items query
type ListItemsHandler struct {
	repo domain.InventoryRepository
}

// NewListItemsHandler creates a new list items handler
func NewListItemsHandler(repo domain.InventoryRepository) *ListItemsHandler {
	return &ListItemsHandler{repo: repo}
}

// Handle returns all items, newest first
func (h *ListItemsHandler) Handle(ctx context.Context, _ ListItemsQuery) ([]domain.InventoryItem, error) {
	items, err := h.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory items: %w", err)
	}
	return nonNil(items), nil
}

func nonNil(items []domain.InventoryItem) []domain.InventoryItem {
	if items == nil {
		return []domain.InventoryItem{}
	}
	return items
}
