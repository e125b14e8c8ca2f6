// Package events moves booking notifications through RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"hotel_site/internal/domain"
)

const BookingCreatedQueue = "booking.created"

// dialTimeout bounds TCP connect plus the AMQP handshake.
const dialTimeout = 2 * time.Second

// Publisher keeps one broker connection and redials when it drops.
type Publisher struct {
	url         string
	queue       string
	dialTimeout time.Duration

	mu   sync.Mutex
	conn *amqp.Connection
}

func NewPublisher(url string) *Publisher {
	return &Publisher{url: url, queue: BookingCreatedQueue, dialTimeout: dialTimeout}
}

func (p *Publisher) current() *amqp.Connection {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn != nil && !p.conn.IsClosed() {
		return p.conn
	}
	return nil
}

type dialResult struct {
	conn *amqp.Connection
	err  error
}

// connection returns the live connection or dials a new one. The dial runs
// outside the lock and gives up when ctx ends.
func (p *Publisher) connection(ctx context.Context) (*amqp.Connection, error) {
	if c := p.current(); c != nil {
		return c, nil
	}

	done := make(chan dialResult, 1)
	go func() {
		conn, err := amqp.DialConfig(p.url, amqp.Config{
			Heartbeat: 10 * time.Second,
			Locale:    "en_US",
			Dial:      amqp.DefaultDial(p.dialTimeout),
		})
		done <- dialResult{conn, err}
	}()

	var res dialResult
	select {
	case <-ctx.Done():
		go func() {
			if r := <-done; r.conn != nil {
				_ = r.conn.Close()
			}
		}()
		return nil, fmt.Errorf("rabbitmq dial: %w", ctx.Err())
	case res = <-done:
	}
	if res.err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", res.err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn != nil && !p.conn.IsClosed() {
		// lost the race to a concurrent dial
		_ = res.conn.Close()
		return p.conn, nil
	}
	p.conn = res.conn
	return res.conn, nil
}

func (p *Publisher) PublishBookingCreated(ctx context.Context, ev domain.BookingCreatedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	conn, err := p.connection(ctx)
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	// durable so messages survive broker restarts
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.BookingID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil || p.conn.IsClosed() {
		return nil
	}
	return p.conn.Close()
}
