package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/food-waste/internal/inventory/domain"
)

var tracer = otel.Tracer("inventory-repository")

// TracingInventoryRepository wraps a repository with OpenTelemetry spans
type TracingInventoryRepository struct {
	next domain.InventoryRepository
}

// NewTracingInventoryRepository decorates next with tracing
func NewTracingInventoryRepository(next domain.InventoryRepository) *TracingInventoryRepository {
	return &TracingInventoryRepository{next: next}
}

func (r *TracingInventoryRepository) Create(ctx context.Context, item *domain.InventoryItem) error {
	ctx, span := tracer.Start(ctx, "repository.Create",
		trace.WithAttributes(
			attribute.String("inventory.product_name", item.ProductName),
			attribute.String("inventory.category", string(item.Category)),
			attribute.Int("inventory.quantity", item.Quantity),
		),
	)
	defer span.End()

	if err := r.next.Create(ctx, item); err != nil {
		addDBErrorToSpan(span, err)
		return err
	}

	span.SetAttributes(attribute.String("inventory.id", item.ID.String()))
	return nil
}

func (r *TracingInventoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.InventoryItem, error) {
	ctx, span := tracer.Start(ctx, "repository.FindByID",
		trace.WithAttributes(attribute.String("inventory.id", id.String())),
	)
	defer span.End()

	item, err := r.next.FindByID(ctx, id)
	if err != nil {
		addDBErrorToSpan(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.String("inventory.status", string(item.Status)))
	return item, nil
}

func (r *TracingInventoryRepository) FindAll(ctx context.Context) ([]domain.InventoryItem, error) {
	ctx, span := tracer.Start(ctx, "repository.FindAll")
	defer span.End()

	items, err := r.next.FindAll(ctx)
	if err != nil {
		addDBErrorToSpan(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(items)))
	return items, nil
}

func (r *TracingInventoryRepository) FindByStatus(ctx context.Context, status domain.Status) ([]domain.InventoryItem, error) {
	ctx, span := tracer.Start(ctx, "repository.FindByStatus",
		trace.WithAttributes(attribute.String("query.status", string(status))),
	)
	defer span.End()

	items, err := r.next.FindByStatus(ctx, status)
	if err != nil {
		addDBErrorToSpan(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(items)))
	return items, nil
}

func (r *TracingInventoryRepository) FindExpiringBetween(ctx context.Context, status domain.Status, from, to time.Time) ([]domain.InventoryItem, error) {
	ctx, span := tracer.Start(ctx, "repository.FindExpiringBetween",
		trace.WithAttributes(
			attribute.String("query.status", string(status)),
			attribute.String("query.from", from.Format(time.RFC3339)),
			attribute.String("query.to", to.Format(time.RFC3339)),
		),
	)
	defer span.End()

	items, err := r.next.FindExpiringBetween(ctx, status, from, to)
	if err != nil {
		addDBErrorToSpan(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(items)))
	return items, nil
}

func (r *TracingInventoryRepository) Count(ctx context.Context) (int64, error) {
	ctx, span := tracer.Start(ctx, "repository.Count")
	defer span.End()

	count, err := r.next.Count(ctx)
	if err != nil {
		addDBErrorToSpan(span, err)
		return 0, err
	}
	return count, nil
}

func (r *TracingInventoryRepository) CountByStatus(ctx context.Context, status domain.Status) (int64, error) {
	ctx, span := tracer.Start(ctx, "repository.CountByStatus",
		trace.WithAttributes(attribute.String("query.status", string(status))),
	)
	defer span.End()

	count, err := r.next.CountByStatus(ctx, status)
	if err != nil {
		addDBErrorToSpan(span, err)
		return 0, err
	}

	span.SetAttributes(attribute.Int64("result.count", count))
	return count, nil
}

func (r *TracingInventoryRepository) CountByCategory(ctx context.Context) ([]domain.CategoryCount, error) {
	ctx, span := tracer.Start(ctx, "repository.CountByCategory")
	defer span.End()

	rows, err := r.next.CountByCategory(ctx)
	if err != nil {
		addDBErrorToSpan(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.categories", len(rows)))
	return rows, nil
}

func (r *TracingInventoryRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) (*domain.InventoryItem, error) {
	ctx, span := tracer.Start(ctx, "repository.UpdateStatus",
		trace.WithAttributes(
			attribute.String("inventory.id", id.String()),
			attribute.String("status.new_value", string(status)),
		),
	)
	defer span.End()

	item, err := r.next.UpdateStatus(ctx, id, status)
	if err != nil {
		addDBErrorToSpan(span, err)
		return nil, err
	}
	return item, nil
}

func (r *TracingInventoryRepository) MarkNearExpiry(ctx context.Context, window domain.ExpiryWindow, rate decimal.Decimal, now time.Time) (int64, error) {
	ctx, span := tracer.Start(ctx, "repository.MarkNearExpiry",
		trace.WithAttributes(
			attribute.String("sweep.window", window.String()),
			attribute.String("sweep.discount_rate", rate.String()),
		),
	)
	defer span.End()

	marked, err := r.next.MarkNearExpiry(ctx, window, rate, now)
	if err != nil {
		addDBErrorToSpan(span, err)
		return 0, err
	}

	span.SetAttributes(attribute.Int64("sweep.marked", marked))
	return marked, nil
}

// addDBErrorToSpan records err on span
func addDBErrorToSpan(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, fmt.Sprintf("database error: %v", err))
}
