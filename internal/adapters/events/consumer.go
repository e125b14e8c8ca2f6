package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"hotel_site/internal/domain"
)

type Handler func(ctx context.Context, ev domain.BookingCreatedEvent) error

// Consumer reads booking.created and hands each event to a Handler.
type Consumer struct {
	url      string
	queue    string
	prefetch int
	handle   Handler
}

func NewConsumer(url string, prefetch int, h Handler) *Consumer {
	if prefetch <= 0 {
		prefetch = 50
	}
	return &Consumer{url: url, queue: BookingCreatedQueue, prefetch: prefetch, handle: h}
}

// Run dials, consumes and redials with backoff until ctx is done.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			log.Warn().Err(err).Dur("retry_in", backoff).Msg("notifier: dial failed")
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn().Err(err).Msg("notifier: consume loop ended, reconnecting")
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(c.prefetch, 0, false); err != nil {
		log.Warn().Err(err).Msg("notifier: set qos")
	}
	if _, err := ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}
	log.Info().Str("queue", c.queue).Msg("notifier: consuming")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.Handle(ctx, d.Body); err != nil {
				log.Error().Err(err).Str("message_id", d.MessageId).Msg("notifier: handle failed")
				_ = d.Nack(false, false) // no requeue, avoids a hot loop on poison messages
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// Handle decodes one message body and runs the handler on it.
func (c *Consumer) Handle(ctx context.Context, body []byte) error {
	var ev domain.BookingCreatedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.BookingID == "" {
		return errors.New("event without booking_id")
	}
	return c.handle(ctx, ev)
}

// LogBooking is the default handler: one structured line per new booking.
func LogBooking(_ context.Context, ev domain.BookingCreatedEvent) error {
	log.Info().
		Str("booking_id", ev.BookingID).
		Str("name", ev.Name).
		Str("email", ev.Email).
		Str("check_in", ev.CheckIn).
		Str("check_out", ev.CheckOut).
		Str("guests", ev.Guests).
		Str("room_type", ev.RoomType).
		Str("created_at", ev.CreatedAt).
		Msg("new booking request")
	return nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
