// Package client talks to the products JSON API (json-server style).
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	perrors "github.com/abgdnv/productctl/internal/errors"
	"github.com/abgdnv/productctl/internal/product"
	"github.com/abgdnv/productctl/pkg/client/resilience"
	"github.com/abgdnv/productctl/pkg/config"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const defaultTimeout = 10 * time.Second

// Client performs one request per call against the products collection. It never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default traced HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithLogger sets the logger used for request level debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(cl *Client) {
		cl.logger = logger
	}
}

// New creates a client for the collection at baseURL, e.g. http://localhost:3000/products.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: NewHTTPClient(defaultTimeout, config.CircuitBreakerConfig{}),
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "api_client")
	return c
}

// NewHTTPClient builds an HTTP client whose requests are traced and, when cb is enabled,
// guarded by a circuit breaker.
func NewHTTPClient(timeout time.Duration, cb config.CircuitBreakerConfig) *http.Client {
	var transport http.RoundTripper = http.DefaultTransport
	if cb.Enabled {
		transport = resilience.NewTransport(transport, "products-api", cb)
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(transport),
	}
}

// ListProducts returns the whole collection.
func (c *Client) ListProducts(ctx context.Context) ([]product.Product, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, &perrors.FetchError{StatusFailure: perrors.StatusFailure{Err: err}}
	}
	defer closeBody(resp)

	if !isSuccess(resp.StatusCode) {
		return nil, &perrors.FetchError{StatusFailure: failureOf(resp)}
	}
	var products []product.Product
	if err := decode(resp, &products); err != nil {
		return nil, &perrors.FetchError{StatusFailure: perrors.StatusFailure{Err: err}}
	}
	if products == nil {
		products = []product.Product{}
	}
	return products, nil
}

// CreateProduct posts p and returns the record the server stored.
func (c *Client) CreateProduct(ctx context.Context, p product.Product) (*product.Product, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, c.baseURL, p)
	if err != nil {
		return nil, &perrors.CreateError{StatusFailure: perrors.StatusFailure{Err: err}}
	}
	defer closeBody(resp)

	if !isSuccess(resp.StatusCode) {
		return nil, &perrors.CreateError{StatusFailure: failureOf(resp)}
	}
	var created product.Product
	if err := decode(resp, &created); err != nil {
		return nil, &perrors.CreateError{StatusFailure: perrors.StatusFailure{Err: err}}
	}
	return &created, nil
}

// FetchProductByID returns one record. Any failure, not only 404, is a NotFoundError.
func (c *Client) FetchProductByID(ctx context.Context, id string) (*product.Product, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, c.itemURL(id), nil)
	if err != nil {
		return nil, &perrors.NotFoundError{ID: id, StatusFailure: perrors.StatusFailure{Err: err}}
	}
	defer closeBody(resp)

	if !isSuccess(resp.StatusCode) {
		return nil, &perrors.NotFoundError{ID: id, StatusFailure: failureOf(resp)}
	}
	var found product.Product
	if err := decode(resp, &found); err != nil {
		return nil, &perrors.NotFoundError{ID: id, StatusFailure: perrors.StatusFailure{Err: err}}
	}
	return &found, nil
}

// UpdateProduct replaces the record id with p (PUT semantics, not a partial patch).
func (c *Client) UpdateProduct(ctx context.Context, id string, p product.Product) (*product.Product, error) {
	resp, err := c.doRequest(ctx, http.MethodPut, c.itemURL(id), p)
	if err != nil {
		return nil, &perrors.UpdateError{StatusFailure: perrors.StatusFailure{Err: err}}
	}
	defer closeBody(resp)

	if !isSuccess(resp.StatusCode) {
		return nil, &perrors.UpdateError{StatusFailure: failureOf(resp)}
	}
	var updated product.Product
	if err := decode(resp, &updated); err != nil {
		return nil, &perrors.UpdateError{StatusFailure: perrors.StatusFailure{Err: err}}
	}
	return &updated, nil
}

// DeleteProduct removes the record id. A 404 answer is a NotFoundError, any other
// failure a DeleteError.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, c.itemURL(id), nil)
	if err != nil {
		return &perrors.DeleteError{StatusFailure: perrors.StatusFailure{Err: err}}
	}
	defer closeBody(resp)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return &perrors.NotFoundError{ID: id, StatusFailure: failureOf(resp)}
	case !isSuccess(resp.StatusCode):
		return &perrors.DeleteError{StatusFailure: failureOf(resp)}
	}
	return nil
}

func (c *Client) itemURL(id string) string {
	return c.baseURL + "/" + url.PathEscape(id)
}

func (c *Client) doRequest(ctx context.Context, method, target string, body any) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.DebugContext(ctx, "Sending request", "method", method, "url", target)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "Request failed", "method", method, "url", target, "error", err)
		return nil, fmt.Errorf("request %s %s: %w", method, target, err)
	}
	c.logger.DebugContext(ctx, "Received response", "method", method, "url", target, "status", resp.StatusCode)
	return resp, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// failureOf reads status and reason phrase of a non-2xx answer.
func failureOf(resp *http.Response) perrors.StatusFailure {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return perrors.StatusFailure{Status: resp.StatusCode, Reason: reason}
}

func decode(resp *http.Response, v any) error {
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func closeBody(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
