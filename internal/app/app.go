package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/MaazSiddiqui25/Baqir-Sons/internal/catalog"
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/catalog/fallback"
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/cms"
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/config"
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/contact"
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/domain"
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/event"
	handler "github.com/MaazSiddiqui25/Baqir-Sons/internal/handler/http"
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/image"
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/repository"
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/repository/memory"
	redisrepo "github.com/MaazSiddiqui25/Baqir-Sons/internal/repository/redis"
	"github.com/MaazSiddiqui25/Baqir-Sons/internal/service"
	"github.com/MaazSiddiqui25/Baqir-Sons/pkg/database"
	"github.com/MaazSiddiqui25/Baqir-Sons/pkg/health"
	"github.com/MaazSiddiqui25/Baqir-Sons/pkg/httpclient"
	pkgkafka "github.com/MaazSiddiqui25/Baqir-Sons/pkg/kafka"
	"github.com/MaazSiddiqui25/Baqir-Sons/pkg/middleware"
	"github.com/MaazSiddiqui25/Baqir-Sons/pkg/tracing"
)

// ServiceName identifies this service in logs, metrics and traces.
const ServiceName = "storefront-service"

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	rdb            *redis.Client
	producer       *pkgkafka.Producer
	dlq            *pkgkafka.DLQProducer
	consumer       *pkgkafka.Consumer
	loader         *catalog.Loader
	router         http.Handler
	httpServer     *http.Server
	shutdownTracer func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// The embedded fallback catalog must decode before anything else.
	if err := fallback.Validate(); err != nil {
		return nil, fmt.Errorf("validate fallback content: %w", err)
	}

	a := &App{cfg: cfg, logger: logger}

	// Tracing.
	tcfg := tracing.DefaultConfig(ServiceName)
	tcfg.ServiceVersion = cfg.ServiceVersion
	tcfg.Environment = cfg.Environment
	tcfg.OTLPEndpoint = cfg.OTELEndpoint
	tcfg.SampleRate = cfg.OTELSampleRate
	tcfg.Enabled = cfg.OTELEnabled
	shutdownTracer, err := tracing.InitTracer(ctx, tcfg)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}
	a.shutdownTracer = shutdownTracer

	// CMS client.
	httpCfg := httpclient.DefaultConfig()
	httpCfg.Timeout = cfg.CMSTimeout
	cmsClient, err := cms.NewClient(cms.Config{
		ProjectID:      cfg.CMSProjectID,
		Dataset:        cfg.CMSDataset,
		APIVersion:     cfg.CMSAPIVersion,
		Token:          cfg.CMSToken,
		Environment:    cfg.Environment,
		HTTP:           httpCfg,
		RequestsPerSec: cfg.CMSRequestsPerSec,
		Burst:          cfg.CMSBurst,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create cms client: %w", err)
	}

	// Stores.
	var (
		snapshots repository.SnapshotStore = memory.NewSnapshotStore()
		pages     repository.PageCache     = memory.NewPageCache()
		dedup     pkgkafka.IdempotencyStore
	)
	if cfg.RedisEnabled {
		rcfg := database.DefaultRedisConfig()
		rcfg.URL = cfg.RedisURL
		rcfg.Host = cfg.RedisHost
		rcfg.Port = cfg.RedisPort
		rcfg.Password = cfg.RedisPassword
		rcfg.DB = cfg.RedisDB
		rdb, err := database.NewRedisClient(ctx, rcfg)
		if err != nil {
			a.closeTracer()
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		logger.Info("connected to Redis",
			slog.String("addr", rcfg.Addr()),
			slog.Int("db", rcfg.DB),
		)
		a.rdb = rdb
		snapshots = redisrepo.NewSnapshotStore(rdb, cfg.SnapshotTTL)
		pages = redisrepo.NewPageCache(rdb)
		dedup = redisrepo.NewIdempotencyStore(rdb, cfg.EventDedupTTL)
	} else {
		dedup = pkgkafka.NewMemoryIdempotencyStore(cfg.EventDedupTTL)
	}

	// Catalog loader.
	loaderOpts := []catalog.Option{catalog.WithSnapshotStore(snapshots)}
	if cfg.KafkaEnabled {
		a.producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		loaderOpts = append(loaderOpts, catalog.WithEventPublisher(event.NewProducer(a.producer, logger)))
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}
	a.loader = catalog.NewLoader(cmsClient.Strategies(), catalog.Config{
		RetryDelay: cfg.CatalogRetryDelay,
		MaxRetries: cfg.CatalogMaxRetries,
		StaleAfter: cfg.CatalogStaleAfter,
	}, logger, loaderOpts...)

	// Services.
	images := image.New(cfg.CMSProjectID, cfg.CMSDataset, image.WithCDNBase(cfg.CMSImageCDN))
	linker, err := contact.NewLinker(cfg.WhatsAppNumber)
	if err != nil {
		a.closeAll()
		return nil, fmt.Errorf("whatsapp number: %w", err)
	}
	fetch := cmsClient.Strategies()[domain.StrategyCached]
	catalogService := service.NewCatalogService(a.loader, fetch, images, linker, logger)
	pageService := service.NewPageService(fetch, pages, cfg.PageCacheTTL, images, linker, logger)
	mediaService := service.NewMediaService(images)

	// Kafka consumer: CMS publish webhooks arrive as events.
	if cfg.KafkaEnabled {
		a.dlq = pkgkafka.NewDLQProducer(cfg.KafkaBrokers, logger)
		handle := event.NewConsumer(a.loader, pageService, logger).Handle
		a.consumer = pkgkafka.NewConsumer(pkgkafka.ConsumerConfig{
			Brokers:      cfg.KafkaBrokers,
			GroupID:      cfg.KafkaGroupID,
			Topic:        event.TopicDocumentPublished,
			MaxRetries:   3,
			RetryBackoff: time.Second,
		}, pkgkafka.IdempotentHandler(dedup, handle, logger), logger, pkgkafka.WithDeadLetter(a.dlq))
	}

	// Health checks. Nothing here is critical: the catalog degrades to
	// stale or built-in data.
	healthHandler := health.NewHandler()
	healthHandler.RegisterNonCritical("cms", cmsClient.Probe)
	if a.rdb != nil {
		rdb := a.rdb
		healthHandler.RegisterNonCritical("redis", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}
	if a.producer != nil {
		healthHandler.RegisterNonCritical("kafka", a.producer.Ping)
	}

	// HTTP router.
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.AllowedOrigins
	corsCfg.Environment = cfg.Environment
	cacheMaxAge, cacheSWR := cfg.CacheMaxAge, cfg.CacheSWR
	if cfg.IsDevelopment() {
		cacheMaxAge, cacheSWR = 0, 0
	}
	a.router = handler.NewRouter(handler.RouterConfig{
		ServiceName:      ServiceName,
		CORS:             corsCfg,
		TokenValidator:   middleware.HMACValidator(cfg.JWTSecret, cfg.JWTIssuer),
		RequestTimeout:   cfg.RequestTimeout,
		CacheMaxAge:      cacheMaxAge,
		CacheSWR:         cacheSWR,
		RefreshPerMinute: cfg.RefreshRatePerMinute,
		RefreshBurst:     cfg.RefreshBurst,
		TrustedProxies:   cfg.TrustedProxyCIDRs,
		PprofCIDRs:       cfg.PprofAllowedCIDRs,
	}, handler.Services{
		Catalog: catalogService,
		Pages:   pageService,
		Media:   mediaService,
	}, healthHandler, logger)

	a.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      a.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return a, nil
}

// Handler returns the HTTP handler.
func (a *App) Handler() http.Handler {
	return a.router
}

// Run starts the HTTP server, the event consumer and the catalog refresh
// loop, and blocks until the context is canceled or one of them fails.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	if a.consumer != nil {
		g.Go(func() error {
			if err := a.consumer.Start(gctx); err != nil {
				return fmt.Errorf("kafka consumer: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		refreshLoop(gctx, a.loader, a.cfg.CatalogRefreshInterval, a.logger)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		if ctx.Err() != nil {
			a.logger.Info("shutdown signal received")
		}
		return a.Shutdown()
	})

	return g.Wait()
}

// refresher is the part of catalog.Loader the refresh loop drives.
type refresher interface {
	Load(ctx context.Context, forceFresh bool) *domain.CatalogResult
	RefreshIfStale(ctx context.Context) bool
}

// refreshLoop warms the catalog, then reloads it whenever it goes stale.
func refreshLoop(ctx context.Context, l refresher, interval time.Duration, logger *slog.Logger) {
	res := l.Load(ctx, false)
	logger.Info("catalog warmed",
		slog.String("source", string(res.Source)),
		slog.Int("products", len(res.Products)),
	)
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if l.RefreshIfStale(ctx) {
				logger.Debug("stale catalog refreshed")
			}
		}
	}
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	errs = append(errs, a.closeAll()...)

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}

// closeAll releases the clients. Nil components are skipped.
func (a *App) closeAll() []error {
	var errs []error
	if a.consumer != nil {
		if err := a.consumer.Close(); err != nil {
			a.logger.Error("kafka consumer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}
	if a.dlq != nil {
		if err := a.dlq.Close(); err != nil {
			a.logger.Error("kafka dlq producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.logger.Error("redis close error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}
	if err := a.closeTracer(); err != nil {
		errs = append(errs, err)
	}
	return errs
}

func (a *App) closeTracer() error {
	if a.shutdownTracer == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := a.shutdownTracer(ctx)
	a.shutdownTracer = nil
	if err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}
	return err
}
