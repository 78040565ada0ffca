// Package cms is the transport to the headless CMS query API. It knows how
// to reach the API three different ways; deciding which to use is up to the
// caller.
package cms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/time/rate"

	"github.com/MaazSiddiqui25/Baqir-Sons/internal/domain"
	apperrors "github.com/MaazSiddiqui25/Baqir-Sons/pkg/errors"
	"github.com/MaazSiddiqui25/Baqir-Sons/pkg/httpclient"
	"github.com/MaazSiddiqui25/Baqir-Sons/pkg/middleware"
	"github.com/MaazSiddiqui25/Baqir-Sons/pkg/tracing"
)

const (
	serviceName     = "cms"
	tracerName      = "github.com/MaazSiddiqui25/Baqir-Sons/internal/cms"
	maxResponseSize = 16 << 20
)

// StrategyFunc runs a query one particular way and returns the raw "result"
// member of the response.
type StrategyFunc func(ctx context.Context, q Query) (json.RawMessage, error)

// Config locates the CMS dataset and tunes the transport.
type Config struct {
	ProjectID   string
	Dataset     string
	APIVersion  string
	Token       string
	Environment string

	// CDNBaseURL and APIBaseURL default to the project's apicdn/api hosts.
	CDNBaseURL string
	APIBaseURL string

	HTTP           httpclient.Config
	RequestsPerSec float64
	Burst          int
}

// Client issues GROQ queries. Cached and fresh requests each go through
// their own circuit breaker; raw requests bypass both.
type Client struct {
	cfg     Config
	cdnBase string
	apiBase string
	cached  *httpclient.CircuitBreakerClient
	fresh   *httpclient.CircuitBreakerClient
	raw     *httpclient.Client
	limiter *rate.Limiter
	logger  *slog.Logger
	now     func() time.Time
}

// NewClient builds a Client. It fails only on an incomplete Config.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if cfg.ProjectID == "" || cfg.Dataset == "" {
		return nil, apperrors.InvalidInput("cms project id and dataset are required")
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = "2024-01-01"
	}
	cfg.APIVersion = strings.TrimPrefix(cfg.APIVersion, "v")
	if cfg.HTTP.Timeout == 0 {
		cfg.HTTP = httpclient.DefaultConfig()
	}

	limit := rate.Inf
	if cfg.RequestsPerSec > 0 {
		limit = rate.Limit(cfg.RequestsPerSec)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	cdnBase := cfg.CDNBaseURL
	if cdnBase == "" {
		cdnBase = fmt.Sprintf("https://%s.apicdn.sanity.io", cfg.ProjectID)
	}
	apiBase := cfg.APIBaseURL
	if apiBase == "" {
		apiBase = fmt.Sprintf("https://%s.api.sanity.io", cfg.ProjectID)
	}

	base := httpclient.New(cfg.HTTP)
	return &Client{
		cfg:     cfg,
		cdnBase: strings.TrimRight(cdnBase, "/"),
		apiBase: strings.TrimRight(apiBase, "/"),
		cached:  httpclient.NewCircuitBreakerClient(base, httpclient.DefaultCircuitBreakerConfig("cms-cached"), logger),
		fresh:   httpclient.NewCircuitBreakerClient(base, httpclient.DefaultCircuitBreakerConfig("cms-fresh"), logger),
		raw:     base,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
		now:     time.Now,
	}, nil
}

// ProjectID returns the configured project.
func (c *Client) ProjectID() string { return c.cfg.ProjectID }

// Dataset returns the configured dataset.
func (c *Client) Dataset() string { return c.cfg.Dataset }

// Strategies returns every strategy keyed by name.
func (c *Client) Strategies() map[domain.Strategy]StrategyFunc {
	return map[domain.Strategy]StrategyFunc{
		domain.StrategyCached: c.Cached,
		domain.StrategyFresh:  c.Fresh,
		domain.StrategyRaw:    c.Raw,
	}
}

// Cached queries the CDN endpoint. Outside production-like environments the
// CDN is skipped in favour of the API host with a cache-busting parameter.
func (c *Client) Cached(ctx context.Context, q Query) (json.RawMessage, error) {
	base := c.cdnBase
	extra := url.Values{}
	if c.cfg.Environment == "development" {
		base = c.apiBase
		extra.Set("_t", c.timestamp())
	}
	return c.run(ctx, domain.StrategyCached, func(ctx context.Context) (*http.Response, error) {
		return c.cached.Get(ctx, c.queryURL(base, q, extra), c.authHeader())
	})
}

// Fresh queries the uncached API host for the published perspective, with a
// timestamp parameter so intermediaries cannot serve an old copy.
func (c *Client) Fresh(ctx context.Context, q Query) (json.RawMessage, error) {
	params := make(map[string]any, len(q.Params)+1)
	for k, v := range q.Params {
		params[k] = v
	}
	params["_timestamp"] = c.now().UnixMilli()
	q.Params = params

	extra := url.Values{}
	extra.Set("perspective", "published")
	return c.run(ctx, domain.StrategyFresh, func(ctx context.Context) (*http.Response, error) {
		return c.fresh.Get(ctx, c.queryURL(c.apiBase, q, extra), c.authHeader())
	})
}

// Raw is a plain unauthenticated GET on the public CDN endpoint with every
// no-cache header set. It bypasses the circuit breakers so it still works
// while they are open.
func (c *Client) Raw(ctx context.Context, q Query) (json.RawMessage, error) {
	extra := url.Values{}
	extra.Set("perspective", "published")
	extra.Set("_t", c.timestamp())

	header := http.Header{}
	header.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	header.Set("Pragma", "no-cache")
	header.Set("Expires", "0")

	return c.run(ctx, domain.StrategyRaw, func(ctx context.Context) (*http.Response, error) {
		return c.raw.Get(ctx, c.queryURL(c.cdnBase, q, extra), header)
	})
}

// Probe checks that the dataset answers a trivial query.
func (c *Client) Probe(ctx context.Context) error {
	_, err := c.Cached(ctx, Query{GROQ: ProbeQuery})
	return err
}

func (c *Client) run(ctx context.Context, strategy domain.Strategy, do func(context.Context) (*http.Response, error)) (result json.RawMessage, err error) {
	ctx, span := tracing.Start(ctx, tracerName, "cms."+string(strategy),
		attribute.String("cms.strategy", string(strategy)),
		attribute.String("cms.dataset", c.cfg.Dataset),
	)
	defer tracing.End(span, &err)

	timing := middleware.StartTiming(ctx, "cms-"+string(strategy), "CMS "+string(strategy)+" query")
	defer timing.Stop()

	start := time.Now()
	defer func() {
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		requestsTotal.WithLabelValues(string(strategy), outcome).Inc()
		requestDuration.WithLabelValues(string(strategy)).Observe(time.Since(start).Seconds())
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("cms %s: wait for rate limiter: %w", strategy, err)
	}

	resp, err := do(ctx)
	if err != nil {
		return nil, fmt.Errorf("cms %s: %w", strategy, err)
	}

	result, err = readResult(resp)
	if err != nil {
		return nil, fmt.Errorf("cms %s: %w", strategy, err)
	}
	return result, nil
}

// envelope is the query API response body.
type envelope struct {
	Result json.RawMessage `json:"result"`
	Error  *struct {
		Description string `json:"description"`
		Type        string `json:"type"`
	} `json:"error"`
}

func readResult(resp *http.Response) (json.RawMessage, error) {
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, httpclient.ParseResponseError(resp, serviceName)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if env.Error != nil {
		msg := env.Error.Description
		if env.Error.Type != "" {
			msg = env.Error.Type + ": " + msg
		}
		return nil, apperrors.Upstream(serviceName, resp.StatusCode, msg)
	}
	if len(env.Result) == 0 {
		return json.RawMessage("null"), nil
	}
	return env.Result, nil
}

// queryURL renders base/v<version>/data/query/<dataset>?query=...&$param=<json>.
func (c *Client) queryURL(base string, q Query, extra url.Values) string {
	values := url.Values{}
	values.Set("query", q.GROQ)
	for name, v := range q.Params {
		encoded, err := json.Marshal(v)
		if err != nil {
			c.logger.Warn("dropping unencodable query parameter",
				slog.String("param", name),
				slog.String("error", err.Error()),
			)
			continue
		}
		values.Set("$"+name, string(encoded))
	}
	for k, vs := range extra {
		for _, v := range vs {
			values.Add(k, v)
		}
	}
	return fmt.Sprintf("%s/v%s/data/query/%s?%s", base, c.cfg.APIVersion, url.PathEscape(c.cfg.Dataset), values.Encode())
}

func (c *Client) authHeader() http.Header {
	if c.cfg.Token == "" {
		return nil
	}
	h := http.Header{}
	h.Set("Authorization", "Bearer "+c.cfg.Token)
	return h
}

func (c *Client) timestamp() string {
	return strconv.FormatInt(c.now().UnixMilli(), 10)
}

// IsEmptyResult reports whether err came from a query that answered null.
func IsEmptyResult(err error) bool {
	return errors.Is(err, ErrEmptyResult)
}
