// Package event publishes the domain events emitted by the store. Publishing
// is best effort: failures are logged and never surface to the caller.
package event

import (
	"context"
	"log/slog"

	"github.com/kevalmehta17/EclipseStore/internal/domain"
	"github.com/kevalmehta17/EclipseStore/pkg/kafka"
)

const source = "eclipse-store"

// Topics the store publishes to.
const (
	TopicUsers    = "store.users"
	TopicProducts = "store.products"
)

// Event types.
const (
	TypeUserRegistered = "store.user.registered"
	TypeProductCreated = "store.product.created"
	TypeProductDeleted = "store.product.deleted"
)

// UserRegistered is the payload published when a new account is created.
type UserRegistered struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// ProductCreated is the payload published when a product is added.
type ProductCreated struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Price     int64  `json:"price"`
	Category  string `json:"category"`
}

// ProductDeleted is the payload published when a product is removed.
type ProductDeleted struct {
	ProductID string `json:"product_id"`
}

// Publisher emits store events to Kafka.
type Publisher struct {
	producer *kafka.Producer
	logger   *slog.Logger
}

// NewPublisher builds a Publisher on top of producer.
func NewPublisher(producer *kafka.Producer, logger *slog.Logger) *Publisher {
	return &Publisher{producer: producer, logger: logger}
}

// UserRegistered publishes a registration event for user.
func (p *Publisher) UserRegistered(ctx context.Context, user *domain.User) {
	p.publish(ctx, TopicUsers, TypeUserRegistered, user.ID, "user", UserRegistered{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	})
}

// ProductCreated publishes a creation event for product.
func (p *Publisher) ProductCreated(ctx context.Context, product *domain.Product) {
	p.publish(ctx, TopicProducts, TypeProductCreated, product.ID, "product", ProductCreated{
		ProductID: product.ID,
		Name:      product.Name,
		Slug:      product.Slug,
		Price:     product.Price,
		Category:  product.Category,
	})
}

// ProductDeleted publishes a deletion event for the product id.
func (p *Publisher) ProductDeleted(ctx context.Context, productID string) {
	p.publish(ctx, TopicProducts, TypeProductDeleted, productID, "product", ProductDeleted{
		ProductID: productID,
	})
}

func (p *Publisher) publish(ctx context.Context, topic, eventType, aggregateID, aggregateType string, data any) {
	evt, err := kafka.NewEvent(eventType, aggregateID, aggregateType, source, data)
	if err != nil {
		p.logger.ErrorContext(ctx, "building event",
			slog.String("event_type", eventType), slog.String("error", err.Error()))
		return
	}
	if err := p.producer.Publish(ctx, topic, evt); err != nil {
		p.logger.ErrorContext(ctx, "publishing event",
			slog.String("event_type", eventType),
			slog.String("topic", topic),
			slog.String("error", err.Error()))
	}
}
