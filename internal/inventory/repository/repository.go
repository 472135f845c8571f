package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/tair/food-waste/internal/inventory/domain"
)

type GormInventoryRepository struct {
	db *gorm.DB
}

func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

func (r *GormInventoryRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.InventoryItem{})
}

func (r *GormInventoryRepository) Create(ctx context.Context, item *domain.InventoryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *GormInventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormInventoryRepository) FindAll(ctx context.Context) ([]domain.InventoryItem, error) {
	var items []domain.InventoryItem
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&items).Error
	return items, err
}

func (r *GormInventoryRepository) FindByStatus(ctx context.Context, status domain.Status) ([]domain.InventoryItem, error) {
	var items []domain.InventoryItem
	err := r.db.WithContext(ctx).
		Where("status = ?", string(status)).
		Order("expiry_date ASC").
		Find(&items).Error
	return items, err
}

// FindExpiringBetween returns items in status whose expiry lies in [from, to].
func (r *GormInventoryRepository) FindExpiringBetween(ctx context.Context, status domain.Status, from, to time.Time) ([]domain.InventoryItem, error) {
	var items []domain.InventoryItem
	err := r.db.WithContext(ctx).
		Where("status = ? AND expiry_date >= ? AND expiry_date <= ?", string(status), from.UTC(), to.UTC()).
		Order("expiry_date ASC").
		Find(&items).Error
	return items, err
}

func (r *GormInventoryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.InventoryItem{}).Count(&count).Error
	return count, err
}

func (r *GormInventoryRepository) CountByStatus(ctx context.Context, status domain.Status) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.InventoryItem{}).
		Where("status = ?", string(status)).
		Count(&count).Error
	return count, err
}

func (r *GormInventoryRepository) CountByCategory(ctx context.Context) ([]domain.CategoryCount, error) {
	var rows []domain.CategoryCount
	err := r.db.WithContext(ctx).
		Model(&domain.InventoryItem{}).
		Select("category, COUNT(*) AS count").
		Group("category").
		Order("category").
		Scan(&rows).Error
	return rows, err
}

// UpdateStatus overwrites the status of one item and returns the stored row.
func (r *GormInventoryRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) (*domain.InventoryItem, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.InventoryItem{}).
		Where("id = ?", id).
		Update("status", string(status))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrItemNotFound
	}
	return r.FindByID(ctx, id)
}

// MarkNearExpiry moves every available item expiring inside window to
// near-expiry in one statement and returns the number of rows changed.
// Each row ends up as domain.Evaluate would leave it. The rate is bound as
// its exact decimal text so the store multiplies in numeric, not float.
func (r *GormInventoryRepository) MarkNearExpiry(ctx context.Context, window domain.ExpiryWindow, rate decimal.Decimal, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.InventoryItem{}).
		Where("status = ? AND expiry_date > ? AND expiry_date <= ?",
			string(domain.StatusAvailable), window.After.UTC(), window.Until.UTC()).
		Updates(map[string]interface{}{
			"status":           string(domain.StatusNearExpiry),
			"discounted_price": gorm.Expr("ROUND(price * ?, 2)", rate.String()),
			"updated_at":       now.UTC(),
		})
	return res.RowsAffected, res.Error
}
