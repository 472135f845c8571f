package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/tair/food-waste/internal/inventory/domain"
	"github.com/tair/food-waste/pkg/logger"
)

// Publisher wraps a Kafka producer for inventory events
type Publisher struct {
	producer sarama.SyncProducer
	now      domain.Clock
}

// NewPublisher creates a new Kafka publisher
func NewPublisher(brokers []string) (*Publisher, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.Retry.Max = 3
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Compression = sarama.CompressionSnappy
	config.Producer.MaxMessageBytes = 1000000

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	logger.Logger.Info().
		Strs("brokers", brokers).
		Msg("Kafka publisher initialized")

	return NewPublisherWithProducer(producer, domain.SystemClock), nil
}

// NewPublisherWithProducer builds a publisher around an existing producer
func NewPublisherWithProducer(producer sarama.SyncProducer, now domain.Clock) *Publisher {
	return &Publisher{producer: producer, now: now}
}

// PublishNearExpiry publishes a summary of a sweep run
func (p *Publisher) PublishNearExpiry(ctx context.Context, summary domain.SweepSummary) error {
	event := NearExpiryEvent{
		EventID:      newEventID(),
		EventType:    EventTypeNearExpiry,
		Marked:       summary.Marked,
		WindowStart:  summary.Window.After,
		WindowEnd:    summary.Window.Until,
		DiscountRate: domain.DiscountRate.String(),
		Timestamp:    p.now(),
	}

	return p.publish(ctx, EventTypeNearExpiry, event.EventID, "sweep", event,
		attribute.Int64("sweep.marked", summary.Marked),
	)
}

// PublishItemDonated publishes a donation of a single item
func (p *Publisher) PublishItemDonated(ctx context.Context, item *domain.InventoryItem) error {
	event := ItemDonatedEvent{
		EventID:     newEventID(),
		EventType:   EventTypeItemDonated,
		ItemID:      item.ID.String(),
		ProductName: item.ProductName,
		Category:    string(item.Category),
		Quantity:    item.Quantity,
		Location:    item.Location,
		ExpiryDate:  item.ExpiryDate,
		Timestamp:   p.now(),
	}

	return p.publish(ctx, EventTypeItemDonated, event.EventID, "item_"+event.ItemID, event,
		attribute.String("inventory.id", event.ItemID),
	)
}

func (p *Publisher) publish(ctx context.Context, eventType, eventID, key string, event interface{}, attrs ...attribute.KeyValue) error {
	tracer := otel.Tracer("kafka-publisher")
	ctx, span := tracer.Start(ctx, "kafka.publish."+eventType,
		trace.WithSpanKind(trace.SpanKindProducer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", TopicInventoryEvents),
			attribute.String("messaging.destination_kind", "topic"),
			attribute.String("event.type", eventType),
			attribute.String("event.id", eventID),
		),
		trace.WithAttributes(attrs...),
	)
	defer span.End()

	payload, err := json.Marshal(event)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to marshal event")
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	headers := []sarama.RecordHeader{
		{Key: []byte(HeaderEventType), Value: []byte(eventType)},
		{Key: []byte(HeaderEventID), Value: []byte(eventID)},
	}

	carrier := propagation.MapCarrier{}
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	for k, v := range carrier {
		headers = append(headers, sarama.RecordHeader{Key: []byte(k), Value: []byte(v)})
	}

	msg := &sarama.ProducerMessage{
		Topic:   TopicInventoryEvents,
		Key:     sarama.StringEncoder(key),
		Value:   sarama.ByteEncoder(payload),
		Headers: headers,
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to send message")
		logger.Error(ctx).
			Err(err).
			Str("topic", TopicInventoryEvents).
			Str("event_type", eventType).
			Msg("Failed to publish event")
		return fmt.Errorf("failed to send message to Kafka: %w", err)
	}

	span.SetAttributes(
		attribute.Int("messaging.kafka.partition", int(partition)),
		attribute.Int64("messaging.kafka.offset", offset),
	)
	span.SetStatus(codes.Ok, "Event published")

	logger.Info(ctx).
		Str("event_id", eventID).
		Str("event_type", eventType).
		Str("topic", TopicInventoryEvents).
		Int32("partition", partition).
		Int64("offset", offset).
		Msg("Inventory event published")

	return nil
}

// Close closes the Kafka producer
func (p *Publisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

func newEventID() string {
	return "evt_" + uuid.NewString()
}

// NoopPublisher drops events; used when Kafka is not configured
type NoopPublisher struct{}

func (NoopPublisher) PublishNearExpiry(context.Context, domain.SweepSummary) error { return nil }

func (NoopPublisher) PublishItemDonated(context.Context, *domain.InventoryItem) error { return nil }

