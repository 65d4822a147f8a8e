package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// OrderEvent is published after an order transaction commits, never
// before.
type OrderEvent struct {
	OrderID  uuid.UUID `json:"order_id"`
	Type     string    `json:"type"` // created, updated
	Status   string    `json:"status"`
	Occurred time.Time `json:"occurred"`
}

// Publisher sends order lifecycle events to RabbitMQ. A nil *Publisher
// is valid and publishes nothing, so the server runs without a broker.
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

func NewPublisher(url, exchange, queue string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	if err := ch.ExchangeDeclare(
		exchange,
		"direct",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	if _, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	if err := ch.QueueBind(queue, "", exchange, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	return &Publisher{conn: conn, channel: ch, exchange: exchange}, nil
}

func (p *Publisher) PublishOrderEvent(orderID uuid.UUID, eventType, status string) error {
	if p == nil {
		return nil
	}

	body, err := json.Marshal(OrderEvent{
		OrderID:  orderID,
		Type:     eventType,
		Status:   status,
		Occurred: time.Now(),
	})
	if err != nil {
		return err
	}

	return p.channel.Publish(
		p.exchange,
		"",
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			ContentType:  "application/json",
			Body:         body,
		},
	)
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
