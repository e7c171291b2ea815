// Package event publishes storefront domain events.
package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/rasulshaikhdev/techgear-hub/internal/domain"
	pkgkafka "github.com/rasulshaikhdev/techgear-hub/pkg/kafka"
)

// Aggregate type constants.
const (
	AggregateTypeCart     = "cart"
	AggregateTypeWishlist = "wishlist"
	AggregateTypeOrder    = "order"
)

// SourceStorefront identifies events published by this module.
const SourceStorefront = "storefront"

// LineData is the item payload within cart and order events.
type LineData struct {
	ProductID int             `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
}

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	SessionID string          `json:"session_id"`
	Items     []LineData      `json:"items"`
	ItemCount int             `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
}

// WishlistUpdatedData is the payload for a wishlist.updated event.
type WishlistUpdatedData struct {
	SessionID  string `json:"session_id"`
	ProductIDs []int  `json:"product_ids"`
}

// OrderPlacedData is the payload for an order.placed event.
type OrderPlacedData struct {
	OrderID   string          `json:"order_id"`
	SessionID string          `json:"session_id"`
	Email     string          `json:"email"`
	Items     []LineData      `json:"items"`
	ItemCount int             `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
}

// Producer publishes storefront events through a Kafka publisher.
type Producer struct {
	kafka  pkgkafka.Publisher
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka pkgkafka.Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

func lineData(lines []domain.CartLine) []LineData {
	items := make([]LineData, len(lines))
	for i, l := range lines {
		items[i] = LineData{ProductID: l.ID, Name: l.Name, Price: l.Price, Quantity: l.Quantity}
	}
	return items
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any) error {
	event, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	event.WithContext(ctx)

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published event",
		slog.String("topic", topic),
		slog.String("aggregate_id", aggregateID),
	)
	return nil
}

// PublishCartUpdated publishes a cart.updated event.
func (p *Producer) PublishCartUpdated(ctx context.Context, sessionID string, cart []domain.CartLine) error {
	totals := domain.ComputeTotals(cart, nil)
	data := CartUpdatedData{
		SessionID: sessionID,
		Items:     lineData(cart),
		ItemCount: totals.ItemCount,
		Total:     totals.Total,
	}
	return p.publish(ctx, pkgkafka.TopicCartUpdated, sessionID, AggregateTypeCart, data)
}

// PublishWishlistUpdated publishes a wishlist.updated event.
func (p *Producer) PublishWishlistUpdated(ctx context.Context, sessionID string, wishlist []domain.WishlistEntry) error {
	ids := make([]int, len(wishlist))
	for i, e := range wishlist {
		ids[i] = e.ID
	}
	data := WishlistUpdatedData{SessionID: sessionID, ProductIDs: ids}
	return p.publish(ctx, pkgkafka.TopicWishlistUpdated, sessionID, AggregateTypeWishlist, data)
}

// PublishOrderPlaced publishes an order.placed event.
func (p *Producer) PublishOrderPlaced(ctx context.Context, sessionID string, order domain.Order) error {
	data := OrderPlacedData{
		OrderID:   order.ID,
		SessionID: sessionID,
		Email:     order.Email,
		Items:     lineData(order.Lines),
		ItemCount: order.ItemCount,
		Total:     order.Total,
	}
	return p.publish(ctx, pkgkafka.TopicOrderPlaced, order.ID, AggregateTypeOrder, data)
}
