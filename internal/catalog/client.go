package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/angelmondragon/wishlist-backend/pkg/config"
	"github.com/angelmondragon/wishlist-backend/pkg/logger"
	"github.com/angelmondragon/wishlist-backend/pkg/metrics"
	"github.com/google/uuid"
	"github.com/sony/gobreaker/v2"
)

const (
	breakerName           = "catalog"
	defaultRequestTimeout = 5 * time.Second
)

const (
	responseBodyLimit  int64 = 1 << 20
	errorBodyReadLimit int64 = 1024
)

var (
	errNotFound  = errors.New("catalog: product not found")
	errMalformed = errors.New("catalog: malformed product payload")
)

// Product is a catalog entry normalized to local attribute names.
type Product struct {
	ID          uuid.UUID
	Price       float64
	Image       string
	Brand       string
	Title       string
	ReviewScore *float64
}

// payload mirrors the upstream JSON body. Required fields are pointers so absence is detectable.
type payload struct {
	Price       *float64 `json:"price"`
	Image       *string  `json:"image"`
	Brand       *string  `json:"brand"`
	Title       *string  `json:"title"`
	ReviewScore *float64 `json:"reviewScore"`
}

// Client fetches product descriptions from the upstream catalog. Every failure mode is
// reported as an absent product.
type Client struct {
	httpClient *http.Client
	baseURL    string
	breaker    *gobreaker.CircuitBreaker[*Product]
	metrics    *metrics.CatalogMetrics
	logg       *logger.Logger
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithMetrics attaches Prometheus collectors to the client.
func WithMetrics(m *metrics.CatalogMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithLogger attaches a logger for degraded lookups.
func WithLogger(logg *logger.Logger) Option {
	return func(c *Client) {
		c.logg = logg
	}
}

// NewClient builds a catalog client from configuration.
func NewClient(cfg config.CatalogConfig, opts ...Option) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("catalog base url is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	client := &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    base,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	client.breaker = gobreaker.NewCircuitBreaker[*Product](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: cfg.BreakerMaxRequests,
		Interval:    cfg.BreakerInterval,
		Timeout:     cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.BreakerMinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= cfg.BreakerFailureRatio
		},
		IsSuccessful: func(err error) bool {
			// a 404 or a bad body means the catalog answered
			return err == nil || errors.Is(err, errNotFound) || errors.Is(err, errMalformed)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			client.metrics.SetBreakerState(stateValue(to))
			if client.logg != nil {
				ctx := client.logg.WithFields(context.Background(), map[string]any{
					"breaker": name,
					"from":    from.String(),
					"to":      to.String(),
				})
				client.logg.Warn(ctx, "catalog circuit breaker state change")
			}
		},
	})
	client.metrics.SetBreakerState(stateValue(gobreaker.StateClosed))

	return client, nil
}

// Fetch looks up id upstream. The second return value is false whenever the product could
// not be obtained, whatever the reason.
func (c *Client) Fetch(ctx context.Context, id uuid.UUID) (*Product, bool) {
	if c == nil || id == uuid.Nil {
		return nil, false
	}

	start := time.Now()
	product, err := c.breaker.Execute(func() (*Product, error) {
		return c.get(ctx, id)
	})
	outcome := classify(err)
	c.metrics.ObserveLookup(outcome, time.Since(start))

	if err != nil {
		if c.logg != nil && outcome != metrics.OutcomeNotFound {
			logCtx := c.logg.WithFields(ctx, map[string]any{
				"product_id": id.String(),
				"outcome":    outcome,
				"error":      err.Error(),
			})
			c.logg.Warn(logCtx, "catalog lookup degraded to absent")
		}
		return nil, false
	}
	return product, true
}

func (c *Client) get(ctx context.Context, id uuid.UUID) (*Product, error) {
	endpoint := fmt.Sprintf("%s/%s/", c.baseURL, url.PathEscape(id.String()))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build catalog request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute catalog request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		return nil, errNotFound
	case resp.StatusCode >= http.StatusInternalServerError:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return nil, fmt.Errorf("catalog status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	default:
		return nil, fmt.Errorf("%w: status %d", errNotFound, resp.StatusCode)
	}

	var body payload
	if err := json.NewDecoder(io.LimitReader(resp.Body, responseBodyLimit)).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformed, err)
	}
	return body.normalize(id)
}

func (p payload) normalize(id uuid.UUID) (*Product, error) {
	if p.Price == nil || p.Image == nil || p.Brand == nil || p.Title == nil {
		return nil, fmt.Errorf("%w: missing required fields", errMalformed)
	}
	return &Product{
		ID:          id,
		Price:       *p.Price,
		Image:       *p.Image,
		Brand:       *p.Brand,
		Title:       *p.Title,
		ReviewScore: p.ReviewScore,
	}, nil
}

func classify(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeFound
	case errors.Is(err, errNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, errMalformed):
		return metrics.OutcomeMalformed
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return metrics.OutcomeBreakerOpen
	default:
		return metrics.OutcomeUpstreamErr
	}
}

func stateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
