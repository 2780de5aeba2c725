package rabbitmq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

var ErrNotArray = errors.New("import payload must be a JSON array")

// ImportPublisher enqueues bulk visa payloads for the import worker.
type ImportPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewImportPublisher(conn *amqp.Connection, queueName string) *ImportPublisher {
	return &ImportPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

// Publish sends one JSON array of visa records as a persistent message.
func (p *ImportPublisher) Publish(ctx context.Context, payload []byte) error {
	if !IsJSONArray(payload) {
		return ErrNotArray
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	if err := DeclareQueue(ch, p.queueName); err != nil {
		return fmt.Errorf("declare queue failed: %w", err)
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("publish import payload failed: %w", err)
	}
	return nil
}

// IsJSONArray reports whether payload is syntactically valid JSON whose top
// level value is an array.
func IsJSONArray(payload []byte) bool {
	trimmed := bytes.TrimSpace(payload)
	return len(trimmed) > 0 && trimmed[0] == '[' && json.Valid(trimmed)
}
