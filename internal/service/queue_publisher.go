// Package queue_publisher publishes domain events to RabbitMQ. Errors are
// logged and returned so callers can ignore failures without interrupting
// the main request flow; note operations never fail because the broker is
// down.
package queue_publisher

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/harshk49/notes-app-backend/internal/logger"
	q "github.com/harshk49/notes-app-backend/internal/queue"
)

// PublishNoteActivity publishes a NoteActivityEvent to the durable
// "note.activity" queue on the broker at url (resolved once at startup by
// the config loader). Messages are marked persistent so they survive
// broker restarts. Any error is logged and returned; the function never
// panics.
func PublishNoteActivity(ctx context.Context, url string, event q.NoteActivityEvent) error {
	conn, err := amqp.Dial(url)
	if err != nil {
		logger.Sugar.Warnf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logger.Sugar.Warnf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		"note.activity", // name
		true,            // durable
		false,           // autoDelete
		false,           // exclusive
		false,           // noWait
		nil,             // args
	); err != nil {
		logger.Sugar.Warnf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		logger.Sugar.Warnf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",              // default exchange
		"note.activity", // routing key = queue name
		false,           // mandatory
		false,           // immediate
		pub,
	); err != nil {
		logger.Sugar.Warnf("rabbitmq: publish failed: %v", err)
		return err
	}

	return nil
}
