package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// session is a connection plus channel bound to one durable queue.
type session struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

// DeadLetterQueue names the queue that receives events the consumer gave
// up on.
func DeadLetterQueue(queue string) string { return queue + ".dead" }

// deadLetterArgs routes rejected messages through the default exchange
// to the queue's dead-letter queue.
func deadLetterArgs(queue string) amqp.Table {
	return amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": DeadLetterQueue(queue),
	}
}

func dial(url, queue string) (*session, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	fail := func(err error) (*session, error) {
		ch.Close()
		conn.Close()
		return nil, err
	}
	if _, err := ch.QueueDeclare(DeadLetterQueue(queue), true, false, false, false, nil); err != nil {
		return fail(fmt.Errorf("declare queue %s: %w", DeadLetterQueue(queue), err))
	}
	q, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		deadLetterArgs(queue),
	)
	if err != nil {
		return fail(fmt.Errorf("declare queue %s: %w", queue, err))
	}
	return &session{conn: conn, ch: ch, queue: q.Name}, nil
}

func (s *session) close() error {
	return errors.Join(s.ch.Close(), s.conn.Close())
}

// ErrNotConnected is returned by Publish while the broker connection is
// down and being redialled.
var ErrNotConnected = errors.New("rabbitmq not connected")

const (
	minRedialDelay = time.Second
	maxRedialDelay = 30 * time.Second
)

// AMQPPublisher publishes persistent JSON messages to the default exchange.
// When the connection or channel drops it redials in the background with
// exponential backoff; publishes in the gap fail with ErrNotConnected.
type AMQPPublisher struct {
	url   string
	queue string
	log   *zap.Logger

	mu     sync.Mutex // amqp channels are not safe for concurrent publishing
	s      *session
	closed bool
	done   chan struct{}
}

// NewAMQPPublisher connects and declares queue.
func NewAMQPPublisher(url, queue string, logger *zap.Logger) (*AMQPPublisher, error) {
	s, err := dial(url, queue)
	if err != nil {
		return nil, err
	}
	logger.Info("connected to rabbitmq", zap.String("queue", s.queue))
	p := &AMQPPublisher{url: url, queue: queue, log: logger, s: s, done: make(chan struct{})}
	p.watch(s)
	return p, nil
}

func (p *AMQPPublisher) watch(s *session) {
	connClosed := s.conn.NotifyClose(make(chan *amqp.Error, 1))
	chClosed := s.ch.NotifyClose(make(chan *amqp.Error, 1))
	go func() {
		var reason *amqp.Error
		select {
		case <-p.done:
			return
		case reason = <-connClosed:
		case reason = <-chClosed:
		}

		p.mu.Lock()
		if p.s == s {
			p.s = nil
		}
		p.mu.Unlock()
		_ = s.close()

		fields := []zap.Field{zap.String("queue", p.queue)}
		if reason != nil {
			fields = append(fields, zap.String("reason", reason.Reason), zap.Int("code", reason.Code))
		}
		p.log.Warn("rabbitmq connection lost; redialling", fields...)
		p.redial()
	}()
}

// redial retries until it connects or the publisher is closed.
func (p *AMQPPublisher) redial() {
	delay := minRedialDelay
	for {
		select {
		case <-p.done:
			return
		case <-time.After(delay):
		}

		s, err := dial(p.url, p.queue)
		if err != nil {
			p.log.Warn("rabbitmq redial failed", zap.Duration("next_in", nextRedialDelay(delay)), zap.Error(err))
			delay = nextRedialDelay(delay)
			continue
		}

		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			_ = s.close()
			return
		}
		p.s = s
		p.mu.Unlock()

		p.log.Info("reconnected to rabbitmq", zap.String("queue", s.queue))
		p.watch(s)
		return
	}
}

func nextRedialDelay(d time.Duration) time.Duration {
	d *= 2
	if d > maxRedialDelay {
		return maxRedialDelay
	}
	return d
}

// Publish implements Publisher.
func (p *AMQPPublisher) Publish(ctx context.Context, e Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.s == nil {
		return ErrNotConnected
	}
	return p.s.ch.PublishWithContext(ctx,
		"",        // exchange
		p.s.queue, // routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    e.ID,
			Type:         e.Type,
			Timestamp:    e.OccurredAt,
			Body:         body,
		},
	)
}

// Close stops redialling and closes the current connection, if any.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.done)
	s := p.s
	p.s = nil
	p.mu.Unlock()

	if s == nil {
		return nil
	}
	return s.close()
}

// Handler processes one event. A returned error requeues the message once;
// a second failure moves it to the dead-letter queue.
type Handler func(ctx context.Context, e Event) error

// Consumer reads events from the queue with manual acks.
type Consumer struct {
	s        *session
	prefetch int
	log      *zap.Logger
}

// NewConsumer connects and declares queue.
func NewConsumer(url, queue string, prefetch int, logger *zap.Logger) (*Consumer, error) {
	s, err := dial(url, queue)
	if err != nil {
		return nil, err
	}
	if prefetch <= 0 {
		prefetch = 10
	}
	if err := s.ch.Qos(prefetch, 0, false); err != nil {
		s.close()
		return nil, fmt.Errorf("set qos: %w", err)
	}
	return &Consumer{s: s, prefetch: prefetch, log: logger}, nil
}

// Run delivers events to h until ctx is cancelled or the broker closes the
// channel. Malformed messages go straight to the dead-letter queue.
func (c *Consumer) Run(ctx context.Context, h Handler) error {
	msgs, err := c.s.ch.Consume(
		c.s.queue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return errors.New("delivery channel closed")
			}
			c.handle(ctx, d, h)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, d amqp.Delivery, h Handler) {
	var e Event
	if err := json.Unmarshal(d.Body, &e); err != nil {
		c.log.Warn("discarding malformed event", zap.Error(err))
		_ = d.Nack(false, false)
		return
	}
	if err := h(ctx, e); err != nil {
		retry := !d.Redelivered
		c.log.Error("event handler failed",
			zap.String("type", e.Type),
			zap.String("event_id", e.ID),
			zap.Bool("requeued", retry),
			zap.Error(err))
		_ = d.Nack(false, retry)
		return
	}
	_ = d.Ack(false)
}

// Close closes the channel and connection.
func (c *Consumer) Close() error { return c.s.close() }
