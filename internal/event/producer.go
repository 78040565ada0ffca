package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/MaazSiddiqui25/Baqir-Sons/internal/domain"
	pkgkafka "github.com/MaazSiddiqui25/Baqir-Sons/pkg/kafka"
	"github.com/MaazSiddiqui25/Baqir-Sons/pkg/logger"
)

// Kafka topic constants for catalog lifecycle events.
var (
	TopicCatalogRefreshed = pkgkafka.Topic("catalog", "refreshed")
	TopicCatalogDegraded  = pkgkafka.Topic("catalog", "degraded")
)

// SubjectTypeCatalog is the subject type of catalog lifecycle events.
const SubjectTypeCatalog = "catalog"

// SourceStorefront identifies events originating from this service.
const SourceStorefront = "storefront-service"

// Publisher is the subset of *pkgkafka.Producer the event producer needs.
type Publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// CatalogRefreshedData is the payload for a catalog.refreshed event.
type CatalogRefreshedData struct {
	Generation   uint64    `json:"generation"`
	Strategy     string    `json:"strategy"`
	ProductCount int       `json:"product_count"`
	FetchedAt    time.Time `json:"fetched_at"`
}

// AttemptData describes one failed strategy call.
type AttemptData struct {
	Strategy   string `json:"strategy"`
	Cycle      int    `json:"cycle"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// CatalogDegradedData is the payload for a catalog.degraded event.
type CatalogDegradedData struct {
	Generation   uint64        `json:"generation"`
	Source       string        `json:"source"`
	Message      string        `json:"message"`
	ProductCount int           `json:"product_count"`
	Attempts     []AttemptData `json:"attempts"`
}

// Producer publishes catalog lifecycle events to Kafka.
type Producer struct {
	kafka  Publisher
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka Publisher, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishRefreshed publishes a catalog.refreshed event for a live load.
func (p *Producer) PublishRefreshed(ctx context.Context, res *domain.CatalogResult) error {
	data := CatalogRefreshedData{
		Generation:   res.Generation,
		Strategy:     string(res.Strategy),
		ProductCount: len(res.Products),
		FetchedAt:    res.FetchedAt,
	}
	return p.publish(ctx, TopicCatalogRefreshed, data)
}

// PublishDegraded publishes a catalog.degraded event carrying the failed
// attempts.
func (p *Producer) PublishDegraded(ctx context.Context, res *domain.CatalogResult) error {
	attempts := make([]AttemptData, len(res.Attempts))
	for i, a := range res.Attempts {
		attempts[i] = AttemptData{
			Strategy:   string(a.Strategy),
			Cycle:      a.Cycle,
			DurationMS: a.Duration.Milliseconds(),
		}
		if a.Err != nil {
			attempts[i].Error = a.Err.Error()
		}
	}

	data := CatalogDegradedData{
		Generation:   res.Generation,
		Source:       string(res.Source),
		Message:      res.Error,
		ProductCount: len(res.Products),
		Attempts:     attempts,
	}
	return p.publish(ctx, TopicCatalogDegraded, data)
}

func (p *Producer) publish(ctx context.Context, topic string, data any) error {
	event, err := pkgkafka.NewEvent(topic, SubjectTypeCatalog, SubjectTypeCatalog, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		event.WithCorrelationID(id)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published catalog event",
		slog.String("topic", topic),
		slog.String("event_id", event.ID),
	)
	return nil
}
