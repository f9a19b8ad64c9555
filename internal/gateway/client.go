// Package gateway is the single outbound path to the CareerIQ backend. It
// attaches the session's bearer token, ends the session on 401 and turns
// every failure into a typed error.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/careeriq/internal/logger"
	"github.com/jonathan/careeriq/internal/observability"
	"github.com/jonathan/careeriq/internal/schemas"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName identifies the gateway's spans.
const TracerName = "github.com/jonathan/careeriq/internal/gateway"

// DefaultTimeout is the default per-request timeout.
const DefaultTimeout = 30 * time.Second

const (
	maxResponseBytes = 10 << 20
	maxErrorBytes    = 64 << 10
)

// Options configures a Client.
type Options struct {
	BaseURL   string // backend URL including the API prefix
	Timeout   time.Duration
	Session   SessionSource
	Transport http.RoundTripper
	Logger    logger.Logger
	Metrics   *observability.Metrics
}

// Client sends requests to the backend.
type Client struct {
	baseURL string
	http    *http.Client
	log     logger.Logger
	metrics *observability.Metrics
	tracer  trace.Tracer
}

// New creates a Client. A Session is required; requests without a token are
// sent without an Authorization header.
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, errors.New("gateway: base URL is required")
	}
	if opts.Session == nil {
		return nil, errors.New("gateway: session is required")
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	base, err := url.Parse(opts.BaseURL)
	if err != nil || base.Host == "" {
		return nil, fmt.Errorf("gateway: invalid base URL %q", opts.BaseURL)
	}
	next := opts.Transport
	if next == nil {
		next = http.DefaultTransport
	}

	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: &authTransport{next: next, session: opts.Session, host: base.Host},
		},
		log:     logger.OrNop(opts.Logger),
		metrics: opts.Metrics,
		tracer:  otel.Tracer(TracerName),
	}, nil
}

// BaseURL returns the URL all paths are resolved against.
func (c *Client) BaseURL() string { return c.baseURL }

// GetJSON fetches path and decodes the body into out after checking it
// against the named schema. An empty schema skips the check.
func (c *Client) GetJSON(ctx context.Context, path, schema string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, "", schema, out)
}

// PostJSON sends in as JSON and decodes the response into out.
func (c *Client) PostJSON(ctx context.Context, path string, in any, schema string, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s: failed to encode request: %w", path, err)
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(body), "application/json", schema, out)
}

// FilePart is one file field of a multipart form.
type FilePart struct {
	Field    string
	Filename string
	Content  io.Reader
}

// Form is a multipart/form-data body.
type Form struct {
	Fields map[string]string
	Files  []FilePart
}

// PostMultipart sends form as multipart/form-data and decodes the response.
func (c *Client) PostMultipart(ctx context.Context, path string, form Form, schema string, out any) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for name, value := range form.Fields {
		if err := w.WriteField(name, value); err != nil {
			return fmt.Errorf("%s: failed to encode field %s: %w", path, name, err)
		}
	}
	for _, f := range form.Files {
		part, err := w.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			return fmt.Errorf("%s: failed to create file part: %w", path, err)
		}
		if _, err := io.Copy(part, f.Content); err != nil {
			return fmt.Errorf("%s: failed to read %s: %w", path, f.Filename, err)
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("%s: failed to finish multipart body: %w", path, err)
	}

	return c.do(ctx, http.MethodPost, path, &buf, w.FormDataContentType(), schema, out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType, schema string, out any) (err error) {
	ctx, span := c.tracer.Start(ctx, method+" "+path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.route", path),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: failed to create request: %w", path, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	elapsed := time.Since(start)
	fields := map[string]interface{}{
		"method":      method,
		"path":        path,
		"request_id":  requestID,
		"duration_ms": elapsed.Milliseconds(),
	}
	if err != nil {
		c.metrics.ObserveRequest(path, 0, elapsed)
		fields["error"] = err.Error()
		c.log.Warn("backend unreachable", fields)
		return &NetworkError{Path: path, Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	c.metrics.ObserveRequest(path, resp.StatusCode, elapsed)
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	fields["status"] = resp.StatusCode

	if resp.StatusCode == http.StatusUnauthorized {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBytes))
		c.log.Info("backend rejected session", fields)
		return &AuthError{Path: path, Message: ServerMessage(raw)}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBytes))
		msg := ServerMessage(raw)
		c.log.Warn("backend returned error", fields)
		return &ServerError{
			Path:       path,
			StatusCode: resp.StatusCode,
			Message:    msg,
			FromServer: msg != "",
		}
	}

	c.log.Debug("backend request", fields)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return &NetworkError{Path: path, Cause: err}
	}
	if out == nil {
		return nil
	}

	if schema != "" {
		if err := schemas.Validate(schema, raw); err != nil {
			return &ContractError{Path: path, Cause: err}
		}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &ContractError{Path: path, Cause: err}
	}
	return nil
}
