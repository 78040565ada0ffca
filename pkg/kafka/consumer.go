package kafka

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// TopicPrefix is the prefix of every topic the storefront produces.
const TopicPrefix = "storefront"

// Topic builds a topic name such as "storefront.catalog.refreshed".
func Topic(domain, action string) string {
	return TopicPrefix + "." + domain + "." + action
}

// Handler is a function that processes a Kafka event.
type Handler func(ctx context.Context, event *Event) error

// messageReader is the subset of *kafka.Reader the consumer uses.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ConsumerConfig holds Kafka consumer configuration.
type ConsumerConfig struct {
	Brokers      []string
	GroupID      string
	Topic        string
	MaxRetries   int
	RetryBackoff time.Duration
}

// Consumer reads events from one topic and hands them to a Handler. A
// message whose handler keeps failing is dead-lettered (when configured)
// and committed so it cannot block the partition.
type Consumer struct {
	reader     messageReader
	topic      string
	group      string
	handler    Handler
	logger     *slog.Logger
	dlq        DeadLetterer
	maxRetries int
	backoff    time.Duration
	closeOnce  sync.Once
}

// ConsumerOption customizes a Consumer.
type ConsumerOption func(*Consumer)

// WithDeadLetter sends exhausted messages to d.
func WithDeadLetter(d DeadLetterer) ConsumerOption {
	return func(c *Consumer) { c.dlq = d }
}

// NewConsumer creates a consumer group reader for cfg.Topic.
func NewConsumer(cfg ConsumerConfig, handler Handler, logger *slog.Logger, opts ...ConsumerOption) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.GroupID,
		Topic:    cfg.Topic,
		MinBytes: 1,
		MaxBytes: 1 << 20,
	})
	return newConsumer(r, cfg, handler, logger, opts...)
}

func newConsumer(r messageReader, cfg ConsumerConfig, handler Handler, logger *slog.Logger, opts ...ConsumerOption) *Consumer {
	c := &Consumer{
		reader:     r,
		topic:      cfg.Topic,
		group:      cfg.GroupID,
		handler:    handler,
		logger:     logger,
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.RetryBackoff,
	}
	if c.maxRetries < 1 {
		c.maxRetries = 3
	}
	if c.backoff <= 0 {
		c.backoff = 100 * time.Millisecond
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start consumes until ctx is canceled.
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info("consumer started",
		slog.String("topic", c.topic),
		slog.String("group", c.group),
	)
	defer func() { _ = c.Close() }()

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				c.logger.Info("consumer stopping", slog.String("topic", c.topic))
				return nil
			}
			c.logger.Error("failed to fetch message", slog.String("error", err.Error()))
			continue
		}
		ConsumerMessagesReceived.WithLabelValues(c.topic, c.group).Inc()

		if !c.process(ctx, msg) {
			return nil
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil && ctx.Err() == nil {
			c.logger.Error("failed to commit message", slog.String("error", err.Error()))
		}
	}
}

// process runs the handler with retries. It returns false only when ctx was
// canceled mid-retry and the message must stay uncommitted.
func (c *Consumer) process(ctx context.Context, msg kafka.Message) bool {
	event, err := UnmarshalEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to unmarshal event",
			slog.String("error", err.Error()),
			slog.String("topic", msg.Topic),
			slog.Int64("offset", msg.Offset),
		)
		c.deadLetter(ctx, msg, err)
		return true
	}

	hctx := extractTraceContext(ctx, msg)
	start := time.Now()

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if lastErr = c.handler(hctx, event); lastErr == nil {
			break
		}
		c.logger.Warn("handler failed",
			slog.String("event_type", event.Type),
			slog.String("subject", event.Subject),
			slog.String("error", lastErr.Error()),
			slog.Int("attempt", attempt),
			slog.Int("max_retries", c.maxRetries),
		)
		if attempt < c.maxRetries {
			timer := time.NewTimer(time.Duration(attempt) * c.backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return false
			case <-timer.C:
			}
		}
	}
	ConsumerProcessingDuration.WithLabelValues(c.topic, c.group).Observe(time.Since(start).Seconds())

	if lastErr != nil {
		ConsumerMessagesFailed.WithLabelValues(c.topic, c.group).Inc()
		c.deadLetter(ctx, msg, lastErr)
		return true
	}

	ConsumerMessagesProcessed.WithLabelValues(c.topic, c.group).Inc()
	return true
}

func (c *Consumer) deadLetter(ctx context.Context, msg kafka.Message, cause error) {
	if c.dlq == nil {
		c.logger.Error("dropping message", slog.String("topic", msg.Topic), slog.Int64("offset", msg.Offset))
		return
	}
	if err := c.dlq.DeadLetter(ctx, msg, cause, c.group); err != nil {
		c.logger.Error("dead-letter failed", slog.String("error", err.Error()))
	}
}

// Topic returns the consumed topic.
func (c *Consumer) Topic() string {
	return c.topic
}

// Close closes the consumer. It is safe to call multiple times.
func (c *Consumer) Close() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.reader.Close()
	})
	return err
}
