package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MaazSiddiqui25/Baqir-Sons/internal/domain"
	pkgkafka "github.com/MaazSiddiqui25/Baqir-Sons/pkg/kafka"
)

// TopicDocumentPublished carries CMS publish notifications relayed from the
// CMS webhook.
const TopicDocumentPublished = "cms.document.published"

// DocumentPublishedData is the payload of a cms.document.published event.
type DocumentPublishedData struct {
	DocumentID   string `json:"document_id"`
	DocumentType string `json:"document_type"`
}

// CatalogRefresher forces a catalog reload.
type CatalogRefresher interface {
	Load(ctx context.Context, forceFresh bool) *domain.CatalogResult
}

// PageInvalidator drops a cached page document.
type PageInvalidator interface {
	Invalidate(ctx context.Context, kind domain.PageKind) error
}

// CMS document types mapped to the page they invalidate.
var documentPages = map[string]domain.PageKind{
	"homePage":    domain.PageHome,
	"aboutPage":   domain.PageAbout,
	"contactPage": domain.PageContact,
}

// Consumer reacts to CMS publish notifications.
type Consumer struct {
	catalog CatalogRefresher
	pages   PageInvalidator
	logger  *slog.Logger
}

// NewConsumer creates a new event consumer.
func NewConsumer(catalog CatalogRefresher, pages PageInvalidator, logger *slog.Logger) *Consumer {
	return &Consumer{
		catalog: catalog,
		pages:   pages,
		logger:  logger,
	}
}

// Handle processes a Kafka event based on its type.
func (c *Consumer) Handle(ctx context.Context, event *pkgkafka.Event) error {
	switch event.Type {
	case TopicDocumentPublished:
		return c.handleDocumentPublished(ctx, event)
	default:
		c.logger.WarnContext(ctx, "unknown event type received",
			slog.String("event_type", event.Type),
			slog.String("event_id", event.ID),
		)
		return nil
	}
}

func (c *Consumer) handleDocumentPublished(ctx context.Context, event *pkgkafka.Event) error {
	var data DocumentPublishedData
	if err := event.UnmarshalData(&data); err != nil {
		return fmt.Errorf("unmarshal cms.document.published data: %w", err)
	}

	if kind, ok := documentPages[data.DocumentType]; ok {
		if err := c.pages.Invalidate(ctx, kind); err != nil {
			return fmt.Errorf("invalidate %s page: %w", kind, err)
		}
		c.logger.InfoContext(ctx, "page invalidated after publish",
			slog.String("page", string(kind)),
			slog.String("document_id", data.DocumentID),
		)
		return nil
	}

	if data.DocumentType != "product" && data.DocumentType != "" {
		c.logger.DebugContext(ctx, "ignoring published document",
			slog.String("document_type", data.DocumentType),
		)
		return nil
	}

	res := c.catalog.Load(ctx, true)
	c.logger.InfoContext(ctx, "catalog refreshed after publish",
		slog.String("document_id", data.DocumentID),
		slog.String("source", string(res.Source)),
		slog.Int("products", len(res.Products)),
	)
	return nil
}
