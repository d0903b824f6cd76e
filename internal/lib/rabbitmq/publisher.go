package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

// Channel часть amqp.Channel, нужная издателю.
type Channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher публикует JSON-сообщения в exchange.
type Publisher struct {
	ch       Channel
	exchange string
}

// NewPublisher создаёт издателя поверх открытого канала.
func NewPublisher(ch Channel, exchange string) *Publisher {
	return &Publisher{ch: ch, exchange: exchange}
}

// Publish сериализует message в JSON и отправляет его с ключом routingKey.
func (p *Publisher) Publish(ctx context.Context, routingKey string, message any) error {
	const op = "rabbitmq.Publish"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	msg, err := newPublishing(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := p.ch.Publish(p.exchange, routingKey, false, false, msg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Identified сообщение со своим идентификатором. Он же уходит в заголовок
// message-id, чтобы потребители могли отбрасывать повторы.
type Identified interface {
	Identifier() string
}

func newPublishing(message any) (amqp.Publishing, error) {
	body, err := json.Marshal(message)
	if err != nil {
		return amqp.Publishing{}, err
	}
	id := uuid.NewString()
	if m, ok := message.(Identified); ok && m.Identifier() != "" {
		id = m.Identifier()
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		MessageId:    id,
		Timestamp:    time.Now().UTC(),
		DeliveryMode: amqp.Persistent,
		Body:         body,
	}, nil
}

// NoopPublisher используется, когда брокер не настроен.
type NoopPublisher struct{}

// Publish ничего не делает.
func (NoopPublisher) Publish(context.Context, string, any) error { return nil }
