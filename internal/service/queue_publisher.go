// Package service holds the reservation flow logic that sits between
// the HTTP handlers and the repositories: hold lifecycle, confirmation,
// pricing, payments, the expiry sweeper, and event publishing.
package service

import (
    "context"
    "encoding/json"
    "fmt"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/bookmyseat/seat-reservation/internal/queue"
)

// PublishBookingConfirmed delivers a confirmation event to the durable
// booking queue.  A short-lived connection per publish keeps the
// coordinator free of broker state; confirmations are rare enough that
// the dial cost does not matter.  Messages are persistent so a broker
// restart cannot lose a paid booking.
func PublishBookingConfirmed(ctx context.Context, event queue.BookingConfirmedEvent) error {
    body, err := json.Marshal(event)
    if err != nil {
        return fmt.Errorf("marshal event: %w", err)
    }

    conn, err := amqp.Dial(queue.BrokerURL())
    if err != nil {
        return fmt.Errorf("dial broker: %w", err)
    }
    defer conn.Close()

    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("open channel: %w", err)
    }
    defer ch.Close()

    // Declare is idempotent and keeps publisher and consumer agreeing
    // on durability regardless of which side starts first.
    if _, err := ch.QueueDeclare(queue.BookingQueueName, true, false, false, false, nil); err != nil {
        return fmt.Errorf("declare queue: %w", err)
    }

    err = ch.PublishWithContext(ctx, "", queue.BookingQueueName, false, false, amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    })
    if err != nil {
        return fmt.Errorf("publish: %w", err)
    }
    return nil
}
