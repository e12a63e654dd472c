// Package api implements the authenticated request envelope every service
// module shares: one base URL, bearer-token headers, omit-empty query
// filters, and total normalization of every outcome (success JSON, error
// JSON, error text, transport failure) into a typed result.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/campus-events/client-go/common/apperrors"
	"github.com/campus-events/client-go/common/config"
	"github.com/campus-events/client-go/common/logger"
)

// TokenSource supplies the current bearer token; an empty string means the
// call goes out unauthenticated. The session store implements this.
type TokenSource interface {
	Token() string
}

// StaticToken is a fixed-token TokenSource, mostly for tests
type StaticToken string

// Token implements TokenSource
func (s StaticToken) Token() string { return string(s) }

// Client talks to the single configured backend origin
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     *logger.Logger
}

// New creates a client from config. tokens may be nil for a client that
// only hits public endpoints.
func New(cfg *config.ClientConfig, tokens TokenSource, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.RequestTimeout},
		tokens:  tokens,
		log:     log,
	}
}

// Query holds optional query filters. A value that is empty or "all" is
// omitted rather than serialized; the backend treats absence as "no
// filter".
type Query map[string]string

func (q Query) encode() string {
	values := url.Values{}
	for k, v := range q {
		if v == "" || v == "all" {
			continue
		}
		values.Set(k, v)
	}
	return values.Encode()
}

type callOptions struct {
	query     Query
	body      interface{}
	adminRole bool
}

// Option tweaks a single call
type Option func(*callOptions)

// WithQuery attaches omit-empty query filters
func WithQuery(q Query) Option {
	return func(o *callOptions) { o.query = q }
}

// WithBody attaches a JSON request body
func WithBody(body interface{}) Option {
	return func(o *callOptions) { o.body = body }
}

// WithAdminRole adds the "Role: admin" header admin endpoints expect on
// top of the bearer token
func WithAdminRole() Option {
	return func(o *callOptions) { o.adminRole = true }
}

// Envelope is the discriminated outcome shape shared by every endpoint:
// {success: true, <payload keys>} or {success: false, error: "..."}.
// Response structs embed it so Do can check the flag after decoding.
type Envelope struct {
	Success  bool   `json:"success"`
	ErrorMsg string `json:"error,omitempty"`
	Message  string `json:"message,omitempty"`
}

// EnvelopeStatus exposes the discriminant to the transport
func (e Envelope) EnvelopeStatus() (bool, string) {
	msg := e.ErrorMsg
	if msg == "" {
		msg = e.Message
	}
	return e.Success, msg
}

type enveloped interface {
	EnvelopeStatus() (bool, string)
}

// Get issues an authorized GET and decodes the JSON envelope into out
func (c *Client) Get(ctx context.Context, path string, out interface{}, opts ...Option) error {
	return c.Do(ctx, http.MethodGet, path, out, opts...)
}

// Post issues an authorized POST with a JSON body
func (c *Client) Post(ctx context.Context, path string, body, out interface{}, opts ...Option) error {
	return c.Do(ctx, http.MethodPost, path, out, append(opts, WithBody(body))...)
}

// Put issues an authorized PUT with a JSON body
func (c *Client) Put(ctx context.Context, path string, body, out interface{}, opts ...Option) error {
	return c.Do(ctx, http.MethodPut, path, out, append(opts, WithBody(body))...)
}

// Delete issues an authorized DELETE
func (c *Client) Delete(ctx context.Context, path string, out interface{}, opts ...Option) error {
	return c.Do(ctx, http.MethodDelete, path, out, opts...)
}

// Do performs one API call. It never panics and every failure comes back
// as a *apperrors.AppError; callers can rely on that totality. out may be
// nil when the caller only cares about success.
func (c *Client) Do(ctx context.Context, method, path string, out interface{}, opts ...Option) error {
	options := callOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	status, body, isJSON, err := c.roundTrip(ctx, method, path, &options)
	if err != nil {
		return err
	}

	if status < 200 || status >= 300 {
		return apperrors.HTTPError(status, extractMessage(body, isJSON, status))
	}

	if out == nil {
		return nil
	}
	if !isJSON {
		return apperrors.DecodeError(fmt.Errorf("expected JSON, got %q", firstLine(body)))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return apperrors.DecodeError(err)
	}

	// A 2xx with success:false is a domain rejection carried inside the
	// envelope; surface the message exactly as the backend worded it
	if env, ok := out.(enveloped); ok {
		if success, msg := env.EnvelopeStatus(); !success {
			if msg == "" {
				msg = "the request was rejected"
			}
			return apperrors.DomainError(msg)
		}
	}
	return nil
}

// DoText performs a call whose success payload is plain text (CSV
// exports). Error responses still follow the JSON message-extraction
// policy.
func (c *Client) DoText(ctx context.Context, method, path string, opts ...Option) (string, error) {
	options := callOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	status, body, isJSON, err := c.roundTrip(ctx, method, path, &options)
	if err != nil {
		return "", err
	}
	if status < 200 || status >= 300 {
		return "", apperrors.HTTPError(status, extractMessage(body, isJSON, status))
	}
	return string(body), nil
}

// roundTrip builds, sends, and reads one request. Returned errors are
// already typed.
func (c *Client) roundTrip(ctx context.Context, method, path string, options *callOptions) (int, []byte, bool, error) {
	fullURL := c.baseURL + path
	if options.query != nil {
		if qs := options.query.encode(); qs != "" {
			fullURL += "?" + qs
		}
	}

	var bodyReader io.Reader
	if options.body != nil {
		data, err := json.Marshal(options.body)
		if err != nil {
			return 0, nil, false, apperrors.Internal("failed to encode request body").WithCause(err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return 0, nil, false, apperrors.Internal("failed to build request").WithCause(err)
	}

	if options.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	if options.adminRole {
		req.Header.Set("Role", "admin")
	}
	// Client-generated idempotency key lets the backend collapse the
	// double-submit races the UI cannot fully prevent
	if method != http.MethodGet {
		req.Header.Set("Idempotency-Key", uuid.NewString())
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.LogCall(logger.CallLog{
			Method: method, Path: path, Duration: time.Since(start), Error: err.Error(),
		})
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return 0, nil, false, apperrors.TimeoutError(err)
		}
		return 0, nil, false, apperrors.NetworkError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, false, apperrors.NetworkError(err)
	}

	c.log.LogCall(logger.CallLog{
		Method: method, Path: path, Status: resp.StatusCode, Duration: time.Since(start),
	})

	isJSON := strings.Contains(resp.Header.Get("Content-Type"), "application/json")
	return resp.StatusCode, body, isJSON, nil
}

// extractMessage pulls a human-readable message out of an error response
// body. Priority: detail, then error, then message, then the HTTP status
// text.
func extractMessage(body []byte, isJSON bool, status int) string {
	if isJSON {
		var fields map[string]interface{}
		if err := json.Unmarshal(body, &fields); err == nil {
			for _, key := range []string{"detail", "error", "message"} {
				if v, ok := fields[key].(string); ok && v != "" {
					return v
				}
			}
		}
	} else if text := strings.TrimSpace(string(body)); text != "" {
		return firstLine([]byte(text))
	}
	return http.StatusText(status)
}

func firstLine(body []byte) string {
	text := strings.TrimSpace(string(body))
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		text = text[:idx]
	}
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}
