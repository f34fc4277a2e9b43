// Package events описывает доменные события каталога и их публикацию.
// Публикация выполняется по принципу best effort: ошибки логируются вызывающей
// стороной и не влияют на результат операции.
package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/magabrotheeeer/product-catalog/internal/lib/rabbitmq"
)

// Type — routing key события.
type Type string

const (
	ProductCreated     Type = "product.created"
	ProductUpdated     Type = "product.updated"
	ProductDeleted     Type = "product.deleted"
	ProductApproved    Type = "product.approved"
	ProductDisapproved Type = "product.disapproved"
	UserRegistered     Type = "user.registered"
	UserBanned         Type = "user.banned"
	UserUnbanned       Type = "user.unbanned"
)

// Event описывает произошедшее изменение.
type Event struct {
	Type       Type      `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`
	ActorID    string    `json:"actorId,omitempty"`
	UserID     string    `json:"userId,omitempty"`
	ProductID  string    `json:"productId,omitempty"`
}

// New создаёт событие с текущим временем.
func New(t Type) Event {
	return Event{Type: t, OccurredAt: time.Now().UTC()}
}

// Publisher публикует события.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Noop — публикатор, отбрасывающий события. Используется без RabbitMQ.
type Noop struct{}

// Publish ничего не делает.
func (Noop) Publish(context.Context, Event) error { return nil }

// AMQPPublisher публикует события в topic-exchange RabbitMQ.
type AMQPPublisher struct {
	mu       sync.Mutex
	ch       rabbitmq.Channel
	exchange string
}

// NewAMQPPublisher создаёт публикатор поверх открытого канала.
func NewAMQPPublisher(ch rabbitmq.Channel, exchange string) *AMQPPublisher {
	return &AMQPPublisher{ch: ch, exchange: exchange}
}

// Publish отправляет событие с routing key, равным его типу.
func (p *AMQPPublisher) Publish(ctx context.Context, event Event) error {
	const op = "events.Publish"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := rabbitmq.PublishMessage(p.ch, p.exchange, string(event.Type), event); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
