package kafka

import "time"

// NearExpiryEvent announces that a sweep discounted items for donation or sale
type NearExpiryEvent struct {
	EventID      string    `json:"event_id"`
	EventType    string    `json:"event_type"`
	Marked       int64     `json:"marked"`
	WindowStart  time.Time `json:"window_start"`
	WindowEnd    time.Time `json:"window_end"`
	DiscountRate string    `json:"discount_rate"`
	Timestamp    time.Time `json:"timestamp"`
}

// ItemDonatedEvent announces that an item was redirected to a donation partner
type ItemDonatedEvent struct {
	EventID     string    `json:"event_id"`
	EventType   string    `json:"event_type"`
	ItemID      string    `json:"item_id"`
	ProductName string    `json:"product_name"`
	Category    string    `json:"category"`
	Quantity    int       `json:"quantity"`
	Location    string    `json:"location"`
	ExpiryDate  time.Time `json:"expiry_date"`
	Timestamp   time.Time `json:"timestamp"`
}

// DonationClaimedEvent is sent by a partner that picks up a near-expiry item
type DonationClaimedEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	ItemID    string    `json:"item_id"`
	Partner   string    `json:"partner"`
	Timestamp time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeNearExpiry      = "inventory.near_expiry"
	EventTypeItemDonated     = "inventory.donated"
	EventTypeDonationClaimed = "donation.claimed"
)

// Kafka topics
const (
	TopicInventoryEvents = "inventory-events"
	TopicDonationClaims  = "donation-claims"
)

// Header keys
const (
	HeaderEventType = "event_type"
	HeaderEventID   = "event_id"
)
