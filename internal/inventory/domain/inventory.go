package domain

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func init() {
	// prices go over the wire as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

// DefaultLocation is stored when an item is created without a location.
const DefaultLocation = "Default Location"

// Category classifies a perishable item.
type Category string

const (
	CategoryFruits     Category = "fruits"
	CategoryVegetables Category = "vegetables"
	CategoryDairy      Category = "dairy"
	CategoryBakery     Category = "bakery"
	CategoryMeat       Category = "meat"
	CategoryOther      Category = "other"
)

// Categories lists every valid category.
var Categories = []Category{
	CategoryFruits,
	CategoryVegetables,
	CategoryDairy,
	CategoryBakery,
	CategoryMeat,
	CategoryOther,
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Status is the lifecycle state of an inventory item.
type Status string

const (
	StatusAvailable  Status = "available"
	StatusNearExpiry Status = "near-expiry"
	StatusExpired    Status = "expired"
	StatusDonated    Status = "donated"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusNearExpiry, StatusExpired, StatusDonated:
		return true
	}
	return false
}

// Upper bounds accepted on create. MaxPrice is the largest value the
// decimal(12,2) price columns hold.
var (
	MaxQuantity = decimal.NewFromInt(math.MaxInt32)
	MaxPrice    = decimal.RequireFromString("9999999999.99")
)

// InventoryItem represents a perishable stock record
type InventoryItem struct {
	ID              uuid.UUID           `json:"id" gorm:"type:uuid;primaryKey"`
	ProductName     string              `json:"productName" gorm:"not null"`
	Category        Category            `json:"category" gorm:"type:varchar(20);not null;index"`
	Quantity        int                 `json:"quantity" gorm:"not null"`
	ExpiryDate      time.Time           `json:"expiryDate" gorm:"not null;index"`
	Price           decimal.Decimal     `json:"price" gorm:"type:decimal(12,2);not null"`
	DiscountedPrice decimal.NullDecimal `json:"discountedPrice" gorm:"type:decimal(12,2)"`
	Status          Status              `json:"status" gorm:"type:varchar(20);not null;default:available;index"`
	Location        string              `json:"location" gorm:"not null"`
	CreatedAt       time.Time           `json:"createdAt" gorm:"index"`
	UpdatedAt       time.Time           `json:"updatedAt"`
}

// TableName specifies the table name
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// BeforeCreate assigns an id to new records.
func (i *InventoryItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// CategoryCount is one row of the category distribution.
type CategoryCount struct {
	Category Category `json:"category"`
	Count    int64    `json:"count"`
}

// InventoryStats summarises the store for the analytics dashboard.
type InventoryStats struct {
	TotalItems int64 `json:"totalItems"`
	NearExpiry int64 `json:"nearExpiry"`
	Donated    int64 `json:"donated"`
}

// ExpiryWindow bounds expiry dates as (After, Until].
type ExpiryWindow struct {
	After time.Time
	Until time.Time
}

func (w ExpiryWindow) String() string {
	return fmt.Sprintf("(%s, %s]", w.After.Format(time.RFC3339), w.Until.Format(time.RFC3339))
}

// InventoryRepository defines the contract for inventory data access
type InventoryRepository interface {
	Create(ctx context.Context, item *InventoryItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryItem, error)
	FindAll(ctx context.Context) ([]InventoryItem, error)
	FindByStatus(ctx context.Context, status Status) ([]InventoryItem, error)
	FindExpiringBetween(ctx context.Context, status Status, from, to time.Time) ([]InventoryItem, error)
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status Status) (int64, error)
	CountByCategory(ctx context.Context) ([]CategoryCount, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (*InventoryItem, error)
	MarkNearExpiry(ctx context.Context, window ExpiryWindow, rate decimal.Decimal, now time.Time) (int64, error)
}

// AnalyticsCache holds precomputed analytics responses.
// Implementations must treat every failure as a cache miss.
//
// Readers take a Generation before querying the store and hand it back to
// the setter. A value computed under a generation that an Invalidate has
// since moved past is dropped instead of cached.
type AnalyticsCache interface {
	Generation(ctx context.Context) int64
	GetStats(ctx context.Context) (*InventoryStats, bool)
	SetStats(ctx context.Context, generation int64, stats *InventoryStats)
	GetCategoryDistribution(ctx context.Context) ([]CategoryCount, bool)
	SetCategoryDistribution(ctx context.Context, generation int64, dist []CategoryCount)
	Invalidate(ctx context.Context) error
}

// SweepSummary describes one completed near-expiry sweep.
type SweepSummary struct {
	RanAt  time.Time
	Window ExpiryWindow
	Marked int64
}

// EventPublisher announces inventory changes to donation partners.
type EventPublisher interface {
	PublishNearExpiry(ctx context.Context, summary SweepSummary) error
	PublishItemDonated(ctx context.Context, item *InventoryItem) error
}

// Clock returns the current time.
type Clock func() time.Time

// SystemClock reads the wall clock in UTC.
func SystemClock() time.Time {
	return time.Now().UTC()
}
