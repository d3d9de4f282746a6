// Package couchdb provides an HTTP client for CouchDB-compatible document stores.
//
// The client covers the operations the gateway needs: get-by-id, all-docs queries, design
// document list/view queries, conditional put-by-revision and delete-by-revision. Backend
// statuses are translated into the domain error taxonomy of internal/errors; transport
// failures, timeouts and an open circuit breaker all surface as ErrBackendUnavailable.
package couchdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"

	apperrors "github.com/dapnet/dbgateway/internal/errors"
	"github.com/dapnet/dbgateway/internal/metrics"
)

// Config configures a document store client.
type Config struct {
	BaseURL  string
	User     string
	Password string //nolint:gosec // service account password, never logged
	Timeout  time.Duration
	Breaker  *BreakerConfig
	Metrics  metrics.StoreMetrics
}

// Client talks to a CouchDB-compatible document store over HTTP.
// It is safe for concurrent use and keeps no per-request state.
type Client struct {
	http    *resty.Client
	breaker *gobreaker.CircuitBreaker
	metrics metrics.StoreMetrics
	logger  *slog.Logger
}

// Row is a single row of an all-docs or view response.
type Row struct {
	ID  string          `json:"id"`
	Key json.RawMessage `json:"key,omitempty"`
	Doc json.RawMessage `json:"doc,omitempty"`
}

// AllDocsResult is the response of an all-docs query.
type AllDocsResult struct {
	TotalRows int   `json:"total_rows"`
	Offset    int   `json:"offset"`
	Rows      []Row `json:"rows"`
}

// WriteResult is the response of a put or delete.
type WriteResult struct {
	OK  bool   `json:"ok"`
	ID  string `json:"id"`
	Rev string `json:"rev"`
}

// backendError is the error body returned by the document store.
type backendError struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
}

// NewClient creates a new document store client. Basic authentication is only
// configured when both user and password are set.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "dapnet-dbgateway/1.0")

	if cfg.Timeout > 0 {
		httpClient.SetTimeout(cfg.Timeout)
	}

	if cfg.User != "" && cfg.Password != "" {
		httpClient.SetBasicAuth(cfg.User, cfg.Password)
	}

	storeMetrics := cfg.Metrics
	if storeMetrics == nil {
		storeMetrics = metrics.NewNoOpStoreMetrics()
	}

	client := &Client{
		http:    httpClient,
		metrics: storeMetrics,
		logger:  logger,
	}

	if cfg.Breaker != nil && cfg.Breaker.Enabled {
		client.breaker = newBreaker(*cfg.Breaker, logger)
	}

	return client
}

// Get fetches a single document by id and returns its raw JSON body.
func (c *Client) Get(ctx context.Context, db, id string) (json.RawMessage, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrEmptyID
	}

	resp, err := c.execute(ctx, http.MethodGet, "/{db}/{id}", func(r *resty.Request) {
		r.SetPathParams(map[string]string{"db": db, "id": id})
	})
	if err != nil {
		return nil, err
	}
	return json.RawMessage(resp.Body()), nil
}

// AllDocs queries the all-docs index of a database with the given query parameters.
// The caller decides whether include_docs is set.
func (c *Client) AllDocs(ctx context.Context, db string, params url.Values) (*AllDocsResult, error) {
	resp, err := c.execute(ctx, http.MethodGet, "/{db}/_all_docs", func(r *resty.Request) {
		r.SetPathParam("db", db)
		r.SetQueryParamsFromValues(params)
	})
	if err != nil {
		return nil, err
	}

	var result AllDocsResult
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to decode all docs response: %w", err)
	}
	return &result, nil
}

// Query performs a GET against a path below the database, typically a design
// document view or list function, and returns the raw JSON body untouched.
func (c *Client) Query(ctx context.Context, db, path string, params url.Values) (json.RawMessage, error) {
	resp, err := c.execute(ctx, http.MethodGet, "/{db}/{path}", func(r *resty.Request) {
		r.SetPathParam("db", db)
		r.SetRawPathParam("path", strings.TrimLeft(path, "/"))
		r.SetQueryParamsFromValues(params)
	})
	if err != nil {
		return nil, err
	}
	return json.RawMessage(resp.Body()), nil
}

// Put stores a document under the given id. When the document carries a _rev the
// store treats it as a conditional update, otherwise as a create; both report
// revision mismatches and existing ids as ErrConflict.
func (c *Client) Put(ctx context.Context, db, id string, doc any) (*WriteResult, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrEmptyID
	}

	resp, err := c.execute(ctx, http.MethodPut, "/{db}/{id}", func(r *resty.Request) {
		r.SetPathParams(map[string]string{"db": db, "id": id})
		r.SetHeader("Content-Type", "application/json")
		r.SetBody(doc)
	})
	if err != nil {
		return nil, err
	}
	return decodeWriteResult(resp)
}

// Delete removes the given revision of a document.
func (c *Client) Delete(ctx context.Context, db, id, rev string) (*WriteResult, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrEmptyID
	}

	resp, err := c.execute(ctx, http.MethodDelete, "/{db}/{id}", func(r *resty.Request) {
		r.SetPathParams(map[string]string{"db": db, "id": id})
		r.SetQueryParam("rev", rev)
	})
	if err != nil {
		return nil, err
	}
	return decodeWriteResult(resp)
}

// Ping checks that the document store answers on its root endpoint.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.execute(ctx, http.MethodGet, "/", nil)
	return err
}

// execute runs a request through the circuit breaker (when enabled) and maps the
// response status into the domain error taxonomy.
func (c *Client) execute(
	ctx context.Context,
	method, path string,
	build func(*resty.Request),
) (*resty.Response, error) {
	start := time.Now()

	call := func() (*resty.Response, error) {
		req := c.http.R().SetContext(ctx)
		if build != nil {
			build(req)
		}

		resp, err := req.Execute(method, path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %s: %w", apperrors.ErrBackendUnavailable, method, path, err)
		}

		// Only server side failures count against the breaker.
		if resp.StatusCode() >= http.StatusInternalServerError {
			return resp, statusError(resp)
		}
		return resp, nil
	}

	var (
		resp *resty.Response
		err  error
	)
	if c.breaker == nil {
		resp, err = call()
	} else {
		var out interface{}
		out, err = c.breaker.Execute(func() (interface{}, error) {
			return call()
		})
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			err = fmt.Errorf("%w: circuit breaker %s", apperrors.ErrBackendUnavailable, err)
		}
		if out != nil {
			resp, _ = out.(*resty.Response)
		}
	}

	if err == nil && resp.IsError() {
		err = statusError(resp)
	}
	c.metrics.RecordRequest(ctx, method, outcome(err), time.Since(start))

	if err != nil {
		c.logger.Debug("document store request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.Duration("duration", time.Since(start)),
			slog.Any("error", err))
		return nil, err
	}

	c.logger.Debug("document store request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode()),
		slog.Duration("duration", time.Since(start)))

	return resp, nil
}

// outcome classifies a request result for store metrics.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case apperrors.Is(err, apperrors.ErrNotFound):
		return "not_found"
	case apperrors.Is(err, apperrors.ErrConflict):
		return "conflict"
	case apperrors.Is(err, apperrors.ErrBackendUnavailable):
		return "unavailable"
	default:
		return "error"
	}
}

// statusError maps a non-2xx response to a domain error. The backend reason is kept
// in the error chain for logging; handlers never echo it to callers.
func statusError(resp *resty.Response) error {
	var body backendError
	_ = json.Unmarshal(resp.Body(), &body)

	reason := body.Reason
	if reason == "" {
		reason = body.Error
	}

	switch resp.StatusCode() {
	case http.StatusNotFound:
		return apperrors.Wrapf(apperrors.ErrNotFound, "document store: %s", reason)
	case http.StatusConflict, http.StatusPreconditionFailed:
		return apperrors.Wrapf(apperrors.ErrConflict, "document store: %s", reason)
	case http.StatusBadRequest:
		return ErrRejected
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return apperrors.Wrapf(apperrors.ErrBackendUnavailable, "document store status %d", resp.StatusCode())
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: status %d: %s", ErrAccessDenied, resp.StatusCode(), reason)
	default:
		return fmt.Errorf("document store returned status %d: %s", resp.StatusCode(), reason)
	}
}

func decodeWriteResult(resp *resty.Response) (*WriteResult, error) {
	var result WriteResult
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to decode write response: %w", err)
	}
	return &result, nil
}
