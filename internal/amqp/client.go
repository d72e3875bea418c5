package amqp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"budget/internal/core"
	"budget/internal/log"
)

// Circuit breaker states.
const (
	StateClosed int32 = iota
	StateOpen
	StateHalfOpen
)

const (
	maxFailures     = 5
	openTimeout     = 30 * time.Second
	publishTimeout  = 5 * time.Second
	maxBackoff      = 30 * time.Second
	maxRequeueDelay = 10 * time.Second
)

var errCircuitOpen = errors.New("circuit breaker is open")

// Client publishes and consumes transaction.recorded events on a durable
// direct exchange. A broken connection is re-dialled lazily on the next
// publish; repeated failures open a circuit breaker so callers fail fast.
type Client struct {
	url          string
	exchangeName string
	queueName    string
	logger       *log.Logger

	mu      sync.Mutex
	conn    *amqp091.Connection
	channel *amqp091.Channel

	failureCount int64
	state        int32
	lastFailure  time.Time

	// requeueDelay is how long to hold a message after the n-th consecutive
	// handler failure before requeueing it.
	requeueDelay func(n int) time.Duration
}

// acknowledger is the part of amqp091.Delivery the consumer settles with.
type acknowledger interface {
	Ack(multiple bool) error
	Nack(multiple, requeue bool) error
}

func NewClient(url, exchangeName, queueName string, logger *log.Logger) (*Client, error) {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	client := &Client{
		url:          url,
		exchangeName: exchangeName,
		queueName:    queueName,
		logger:       logger.WithComponent(log.ComponentAMQP),
		requeueDelay: requeueBackoff,
	}

	if err := client.connect(); err != nil {
		return nil, err
	}
	return client, nil
}

func (c *Client) connect() error {
	conn, err := amqp091.Dial(c.url)
	if err != nil {
		return fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	if err := setup(channel, c.exchangeName, c.queueName); err != nil {
		channel.Close()
		conn.Close()
		return fmt.Errorf("setup exchange and queue: %w", err)
	}

	c.conn = conn
	c.channel = channel
	return nil
}

func setup(channel *amqp091.Channel, exchangeName, queueName string) error {
	err := channel.ExchangeDeclare(
		exchangeName, // name
		"direct",     // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = channel.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// Routing key equals the queue name on the direct exchange.
	if err := channel.QueueBind(queueName, queueName, exchangeName, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}
	return nil
}

// PublishTransactionRecorded publishes a transaction.recorded event for t.
func (c *Client) PublishTransactionRecorded(ctx context.Context, t core.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.isCircuitOpen() {
		return fmt.Errorf("publish transaction %d: %w", t.ID, errCircuitOpen)
	}

	body, err := NewTransactionRecordedMessage(t).ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	if err := c.publish(ctx, body); err != nil {
		c.recordFailure()
		return fmt.Errorf("publish transaction %d: %w", t.ID, err)
	}
	c.recordSuccess()

	c.logger.DebugContext(ctx, "Published transaction event",
		log.FieldTransactionID, t.ID,
		"exchange", c.exchangeName,
		"queue", c.queueName)
	return nil
}

func (c *Client) publish(ctx context.Context, body []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.channel == nil || c.channel.IsClosed() {
		c.closeLocked()
		if err := c.connect(); err != nil {
			return err
		}
		c.logger.InfoContext(ctx, "Reconnected to AMQP broker")
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err := c.channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		c.queueName,    // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Type:         "transaction.recorded",
			Body:         body,
		},
	)
	if err != nil && isConnectionError(err) {
		c.closeLocked()
	}
	return err
}

// ConsumeTransactionRecorded delivers events to handler until ctx ends.
// Malformed messages are dropped; handler failures are requeued. When the
// broker connection drops, the consumer reconnects with exponential backoff.
func (c *Client) ConsumeTransactionRecorded(ctx context.Context, handler func(context.Context, *TransactionRecordedMessage) error) error {
	attempt := 0
	for {
		err := c.consumeOnce(ctx, handler)
		if ctx.Err() != nil {
			c.logger.InfoContext(ctx, "Stopping message consumption", "reason", ctx.Err())
			return ctx.Err()
		}
		if err != nil && !isConnectionError(err) {
			return err
		}

		wait := exponentialBackoff(attempt)
		c.logger.WarnContext(ctx, "AMQP consumer disconnected, reconnecting",
			log.FieldError, err,
			log.FieldAttempt, attempt+1,
			"backoff", wait)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}

		c.mu.Lock()
		c.closeLocked()
		if err := c.connect(); err != nil {
			c.mu.Unlock()
			attempt++
			continue
		}
		c.mu.Unlock()
		attempt = 0
	}
}

func (c *Client) consumeOnce(ctx context.Context, handler func(context.Context, *TransactionRecordedMessage) error) error {
	c.mu.Lock()
	channel := c.channel
	c.mu.Unlock()
	if channel == nil {
		return errors.New("connection closed")
	}

	// Prefetch one: a message held for its requeue delay blocks the next.
	if err := channel.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set prefetch: %w", err)
	}

	msgs, err := channel.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	c.logger.InfoContext(ctx, "Started consuming transaction events", "queue", c.queueName)

	failures := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case delivery, ok := <-msgs:
			if !ok {
				return errors.New("connection closed: delivery channel closed")
			}
			failures = c.dispatch(ctx, delivery.Body, delivery, handler, failures)
		}
	}
}

// dispatch hands one message to handler and settles it. failures is the
// number of consecutive handler errors so far; the updated count is returned.
func (c *Client) dispatch(ctx context.Context, body []byte, d acknowledger, handler func(context.Context, *TransactionRecordedMessage) error, failures int) int {
	msg, err := TransactionRecordedMessageFromJSON(body)
	if err != nil {
		log.LogError(ctx, "Failed to unmarshal message", err, log.ErrorTypeValidation, log.OpConsume, nil)
		d.Nack(false, false)
		return failures
	}

	if err := handler(ctx, msg); err != nil {
		failures++
		wait := c.requeueDelay(failures)
		log.LogError(ctx, "Failed to handle message", err, log.ErrorTypeInternal, log.OpConsume,
			log.NewFields().
				WithTransaction(msg.ID, msg.Type, msg.Transaction().CategoryLabel(), msg.Amount.Decimal.String()).
				WithAttempt(failures, wait))

		select {
		case <-ctx.Done():
		case <-time.After(wait):
		}
		d.Nack(false, true)
		return failures
	}

	d.Ack(false)
	return 0
}

func (c *Client) isCircuitOpen() bool {
	switch atomic.LoadInt32(&c.state) {
	case StateOpen:
		c.mu.Lock()
		last := c.lastFailure
		c.mu.Unlock()
		if time.Since(last) > openTimeout {
			atomic.StoreInt32(&c.state, StateHalfOpen)
			return false
		}
		return true
	default:
		return false
	}
}

func (c *Client) recordSuccess() {
	atomic.StoreInt64(&c.failureCount, 0)
	atomic.StoreInt32(&c.state, StateClosed)
}

func (c *Client) recordFailure() {
	c.mu.Lock()
	c.lastFailure = time.Now()
	c.mu.Unlock()

	if atomic.AddInt64(&c.failureCount, 1) >= maxFailures || atomic.LoadInt32(&c.state) == StateHalfOpen {
		if atomic.SwapInt32(&c.state, StateOpen) != StateOpen {
			c.logger.Warn("AMQP circuit breaker opened", "failures", atomic.LoadInt64(&c.failureCount))
		}
	}
}

// exponentialBackoff returns 1s doubled per attempt, capped at maxBackoff.
func exponentialBackoff(attempt int) time.Duration {
	if attempt >= 5 {
		return maxBackoff
	}
	d := time.Second << attempt
	if d > maxBackoff {
		return maxBackoff
	}
	return d
}

// requeueBackoff is 500ms doubled per consecutive failure, capped at maxRequeueDelay.
func requeueBackoff(n int) time.Duration {
	if n < 1 {
		n = 1
	}
	if n > 6 {
		return maxRequeueDelay
	}
	d := 500 * time.Millisecond << (n - 1)
	if d > maxRequeueDelay {
		return maxRequeueDelay
	}
	return d
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, amqp091.ErrClosed) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{"connection", "eof", "broken pipe", "closed network"} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}

func (c *Client) closeLocked() {
	if c.channel != nil {
		c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}

func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var err error
	if c.channel != nil {
		c.channel.Close()
		c.channel = nil
	}
	if c.conn != nil {
		err = c.conn.Close()
		c.conn = nil
	}
	return err
}
