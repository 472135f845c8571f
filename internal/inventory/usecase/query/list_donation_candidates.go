package query

import (
	"context"
	"fmt"

	"github.com/tair/food-waste/internal/inventory/domain"
)

// ListDonationCandidatesQuery lists items that can be offered to partners
type ListDonationCandidatesQuery struct{}

// ListDonationCandidatesHandler handles list donation candidates query
type ListDonationCandidatesHandler struct {
	repo domain.InventoryRepository
}

// NewListDonationCandidatesHandler creates a new list donation candidates handler
func NewListDonationCandidatesHandler(repo domain.InventoryRepository) *ListDonationCandidatesHandler {
	return &ListDonationCandidatesHandler{repo: repo}
}

// Handle returns every near-expiry item
func (h *ListDonationCandidatesHandler) Handle(ctx context.Context, _ ListDonationCandidatesQuery) ([]domain.InventoryItem, error) {
	items, err := h.repo.FindByStatus(ctx, domain.StatusNearExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to list donation candidates: %w", err)
	}
	return nonNil(items), nil
}
