// Package events publishes transfer notifications to RabbitMQ. A separate
// SMS worker consumes the queue and performs the actual delivery; this
// service only enqueues.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// NotificationMessage is the payload handed to the SMS worker.
type NotificationMessage struct {
	Phone   string    `json:"phone"`
	Message string    `json:"message"`
	SentAt  time.Time `json:"sent_at"`
}

// RabbitMQNotifier publishes notification messages to a topic exchange.
type RabbitMQNotifier struct {
	conn       *amqp.Connection
	channel    *amqp.Channel
	exchange   string
	routingKey string
}

// NewRabbitMQNotifier connects to RabbitMQ and declares the notification
// exchange.
func NewRabbitMQNotifier(url, exchange, routingKey string) (*RabbitMQNotifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	log.Printf("RabbitMQ notifier initialized: exchange=%s, routing_key=%s", exchange, routingKey)

	return &RabbitMQNotifier{
		conn:       conn,
		channel:    channel,
		exchange:   exchange,
		routingKey: routingKey,
	}, nil
}

// Send enqueues one notification for the SMS worker.
func (n *RabbitMQNotifier) Send(ctx context.Context, phoneNumber, message string) error {
	body, err := json.Marshal(NotificationMessage{
		Phone:   phoneNumber,
		Message: message,
		SentAt:  time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	err = n.channel.PublishWithContext(ctx,
		n.exchange,   // exchange
		n.routingKey, // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}

	return nil
}

// Close closes the RabbitMQ connection and channel.
func (n *RabbitMQNotifier) Close() error {
	if n.channel != nil {
		if err := n.channel.Close(); err != nil {
			log.Printf("Error closing channel: %v", err)
		}
	}
	if n.conn != nil {
		return n.conn.Close()
	}
	return nil
}
