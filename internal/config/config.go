package config

import (
	"fmt"
	"net"
	"time"

	pkgconfig "github.com/MaazSiddiqui25/Baqir-Sons/pkg/config"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment    string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	ServiceVersion string `env:"SERVICE_VERSION" envDefault:"dev"`

	// HTTP server
	HTTPPort        int           `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`
	RequestTimeout  time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
	AllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`
	CacheMaxAge     int           `env:"HTTP_CACHE_MAX_AGE" envDefault:"60"`
	CacheSWR        int           `env:"HTTP_CACHE_SWR" envDefault:"300"`

	// CMS
	CMSProjectID      string        `env:"SANITY_PROJECT_ID"`
	CMSDataset        string        `env:"SANITY_DATASET" envDefault:"production"`
	CMSAPIVersion     string        `env:"SANITY_API_VERSION" envDefault:"2024-01-01"`
	CMSToken          string        `env:"SANITY_API_TOKEN"`
	CMSImageCDN       string        `env:"SANITY_IMAGE_CDN" envDefault:"https://cdn.sanity.io"`
	CMSTimeout        time.Duration `env:"SANITY_TIMEOUT" envDefault:"10s"`
	CMSRequestsPerSec float64       `env:"SANITY_REQUESTS_PER_SEC" envDefault:"10"`
	CMSBurst          int           `env:"SANITY_BURST" envDefault:"5"`

	// Catalog loading
	CatalogRetryDelay      time.Duration `env:"CATALOG_RETRY_DELAY" envDefault:"2s"`
	CatalogMaxRetries      int           `env:"CATALOG_MAX_RETRIES" envDefault:"3"`
	CatalogStaleAfter      time.Duration `env:"CATALOG_STALE_AFTER" envDefault:"30s"`
	CatalogRefreshInterval time.Duration `env:"CATALOG_REFRESH_INTERVAL" envDefault:"1m"`
	SnapshotTTL            time.Duration `env:"CATALOG_SNAPSHOT_TTL" envDefault:"168h"`
	PageCacheTTL           time.Duration `env:"PAGE_CACHE_TTL" envDefault:"5m"`

	// Redis (optional; in-memory stores when disabled)
	RedisEnabled  bool   `env:"REDIS_ENABLED" envDefault:"false"`
	RedisURL      string `env:"REDIS_URL"`
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Kafka (optional)
	KafkaEnabled  bool          `env:"KAFKA_ENABLED" envDefault:"false"`
	KafkaBrokers  []string      `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	KafkaGroupID  string        `env:"KAFKA_GROUP_ID" envDefault:"storefront-service"`
	EventDedupTTL time.Duration `env:"EVENT_DEDUP_TTL" envDefault:"24h"`

	// Admin API
	JWTSecret            string  `env:"JWT_SECRET"`
	JWTIssuer            string  `env:"JWT_ISSUER" envDefault:"baqir-sons"`
	RefreshRatePerMinute float64 `env:"REFRESH_RATE_PER_MINUTE" envDefault:"6"`
	RefreshBurst         int     `env:"REFRESH_BURST" envDefault:"2"`
	// Peers allowed to set X-Forwarded-For (CIDR notation); empty trusts none
	TrustedProxyCIDRs []string `env:"TRUSTED_PROXY_CIDRS" envSeparator:","`

	// Contact
	WhatsAppNumber string `env:"WHATSAPP_NUMBER" envDefault:"923458440115"`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// Pprof debug endpoints (IP allowlist in CIDR notation)
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"127.0.0.0/8,::1/128" envSeparator:","`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.CMSProjectID == "" {
		return fmt.Errorf("SANITY_PROJECT_ID is required")
	}
	if c.CMSDataset == "" {
		return fmt.Errorf("SANITY_DATASET is required")
	}
	if c.CatalogMaxRetries < 0 {
		return fmt.Errorf("CATALOG_MAX_RETRIES must not be negative, got %d", c.CatalogMaxRetries)
	}
	if c.CatalogRetryDelay < 0 {
		return fmt.Errorf("CATALOG_RETRY_DELAY must not be negative, got %s", c.CatalogRetryDelay)
	}
	if c.RedisEnabled && c.RedisURL == "" && c.RedisHost == "" {
		return fmt.Errorf("REDIS_HOST or REDIS_URL is required when REDIS_ENABLED is set")
	}
	if c.KafkaEnabled && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when KAFKA_ENABLED is set")
	}
	if !c.IsDevelopment() && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required outside development")
	}
	if c.RefreshRatePerMinute <= 0 || c.RefreshBurst < 1 {
		return fmt.Errorf("refresh rate limit must be positive")
	}
	for _, cidr := range c.TrustedProxyCIDRs {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			return fmt.Errorf("TRUSTED_PROXY_CIDRS: %w", err)
		}
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.OTELSampleRate)
	}
	return nil
}

// IsDevelopment reports whether the service runs in development mode, where
// the CMS CDN is bypassed.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}
