package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tair/food-waste/internal/inventory/domain"
	"github.com/tair/food-waste/pkg/logger"
)

// expiryLayouts are accepted for CreateItemCommand.ExpiryDate, in order.
var expiryLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// CreateItemCommand carries raw client input; numeric and date fields are
// coerced by the handler.
type CreateItemCommand struct {
	ProductName string
	Category    string
	Quantity    string
	ExpiryDate  string
	Price       string
	Location    string
	// Status is accepted from clients but ignored: new items always start available.
	Status string
}

// CreateItemHandler handles create item command
type CreateItemHandler struct {
	repo  domain.InventoryRepository
	cache domain.AnalyticsCache
}

// NewCreateItemHandler creates a new create item handler
func NewCreateItemHandler(repo domain.InventoryRepository, cache domain.AnalyticsCache) *CreateItemHandler {
	return &CreateItemHandler{repo: repo, cache: cache}
}

// Handle validates cmd, stores a new available item and returns it.
// Validation failures are *domain.ValidationError and never reach the store.
func (h *CreateItemHandler) Handle(ctx context.Context, cmd CreateItemCommand) (*domain.InventoryItem, error) {
	item, err := buildItem(cmd)
	if err != nil {
		return nil, err
	}

	if err := h.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create inventory item: %w", err)
	}

	if err := h.cache.Invalidate(ctx); err != nil {
		logger.Warn(ctx).Err(err).Msg("Failed to invalidate analytics cache")
	}

	return item, nil
}

func buildItem(cmd CreateItemCommand) (*domain.InventoryItem, error) {
	required := []struct {
		field string
		value string
	}{
		{"productName", cmd.ProductName},
		{"category", cmd.Category},
		{"quantity", cmd.Quantity},
		{"expiryDate", cmd.ExpiryDate},
		{"price", cmd.Price},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return nil, domain.MissingField(r.field)
		}
	}

	category := domain.Category(strings.ToLower(strings.TrimSpace(cmd.Category)))
	if !category.Valid() {
		return nil, domain.InvalidField("category", fmt.Sprintf("unknown category %q", cmd.Category))
	}

	quantity, err := parseQuantity(cmd.Quantity)
	if err != nil {
		return nil, err
	}

	expiry, err := parseExpiryDate(cmd.ExpiryDate)
	if err != nil {
		return nil, err
	}

	price, err := decimal.NewFromString(strings.TrimSpace(cmd.Price))
	if err != nil {
		return nil, domain.InvalidField("price", "not a number")
	}
	if price.IsNegative() {
		return nil, domain.InvalidField("price", "must not be negative")
	}
	price = price.Round(2)
	if price.GreaterThan(domain.MaxPrice) {
		return nil, domain.InvalidField("price", "too large")
	}

	location := strings.TrimSpace(cmd.Location)
	if location == "" {
		location = domain.DefaultLocation
	}

	return &domain.InventoryItem{
		ProductName: strings.TrimSpace(cmd.ProductName),
		Category:    category,
		Quantity:    quantity,
		ExpiryDate:  expiry,
		Price:       price,
		Status:      domain.StatusAvailable,
		Location:    location,
	}, nil
}

func parseQuantity(raw string) (int, error) {
	q, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return 0, domain.InvalidField("quantity", "not a number")
	}
	if !q.IsInteger() {
		return 0, domain.InvalidField("quantity", "must be a whole number")
	}
	if q.IsNegative() {
		return 0, domain.InvalidField("quantity", "must not be negative")
	}
	if q.GreaterThan(domain.MaxQuantity) {
		return 0, domain.InvalidField("quantity", "too large")
	}
	return int(q.IntPart()), nil
}

func parseExpiryDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, domain.InvalidField("expiryDate", "expected RFC 3339 timestamp or YYYY-MM-DD")
}
