// Package sora is a client for the Azure OpenAI Sora video generation API.
// It submits generation jobs, polls them to a terminal state, and retrieves
// the resulting media.
package sora

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
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rashedtalukder/gosora/types"
)

// basePath is the fixed API prefix for both job and content requests.
const basePath = "openai/v1/video/generations/"

// apiVersionParam is appended to every request. The service routes preview
// traffic on this literal, independent of the configured APIVersion.
const apiVersionParam = "preview"

// Client talks to one Sora deployment. A single Client is safe for
// concurrent use; it shares one lazily created HTTP session until Close.
type Client struct {
	cfg    Config
	logger *zap.Logger

	sessionOnce sync.Once
	session     *http.Client

	metrics *Metrics
}

// NewClient creates a Client. Endpoint, APIKey, and Deployment must be set
// in cfg; a missing value is a configuration error reported here, not on
// first call. A nil logger is replaced with a no-op logger.
func NewClient(cfg Config, logger *zap.Logger) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("sora: endpoint must be provided")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("sora: API key must be provided")
	}
	if cfg.Deployment == "" {
		return nil, errors.New("sora: deployment name must be provided")
	}
	if !strings.HasSuffix(cfg.Endpoint, "/") {
		cfg.Endpoint += "/"
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = DefaultAPIVersion
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{cfg: cfg, logger: logger}, nil
}

// WithMetrics attaches optional prometheus instrumentation. It must be
// called before the first request.
func (c *Client) WithMetrics(m *Metrics) *Client {
	c.metrics = m
	return c
}

// getSession returns the shared HTTP session, creating it on first use.
// sync.Once guarantees a concurrent first call creates exactly one session.
func (c *Client) getSession() *http.Client {
	c.sessionOnce.Do(func() {
		if c.cfg.HTTPClient != nil {
			c.session = c.cfg.HTTPClient
			return
		}
		c.session = &http.Client{Timeout: c.cfg.Timeout}
	})
	return c.session
}

// Close releases the client's network resources. The Client must not be
// used afterwards.
func (c *Client) Close() {
	if c.session != nil {
		c.session.CloseIdleConnections()
	}
}

// buildURL joins the endpoint, the fixed base path, and the request path,
// and appends the api-version query parameter.
func (c *Client) buildURL(path string, params url.Values) string {
	if params == nil {
		params = url.Values{}
	}
	params.Set("api-version", apiVersionParam)
	return c.cfg.Endpoint + basePath + path + "?" + params.Encode()
}

// headers returns the common request headers. The request body content type
// is set separately because content downloads must omit it.
func (c *Client) headers() http.Header {
	h := http.Header{}
	h.Set("api-key", c.cfg.APIKey)
	h.Set("x-ms-client-request-id", uuid.NewString())
	return h
}

// doJSON issues a JSON request and decodes a 2xx response body into out.
// Every failure mode is normalized into *types.Error.
func (c *Client) doJSON(ctx context.Context, operation, method, rawURL string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return types.NewError(fmt.Sprintf("encoding request: %v", err)).WithCause(err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
	if err != nil {
		return types.NewError(fmt.Sprintf("building request: %v", err)).WithCause(err)
	}
	req.Header = c.headers()
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.getSession().Do(req)
	if err != nil {
		c.observe(operation, 0)
		return types.NewError(fmt.Sprintf("%s: %v", operation, err)).WithCause(err)
	}
	defer resp.Body.Close()
	c.observe(operation, resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.NewError(fmt.Sprintf("%s: reading response: %v", operation, err)).
			WithStatusCode(resp.StatusCode).WithCause(err)
	}

	c.logger.Debug("api response",
		zap.String("operation", operation),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(data)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return normalizeError(resp, data)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return types.NewError(fmt.Sprintf("invalid JSON response: %s", string(data))).
			WithStatusCode(resp.StatusCode).WithCause(err)
	}
	return nil
}

// doBinary issues a GET for a binary payload. The Content-Type header is
// deliberately absent since the request carries no body.
func (c *Client) doBinary(ctx context.Context, operation, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, types.NewError(fmt.Sprintf("building request: %v", err)).WithCause(err)
	}
	req.Header = c.headers()

	resp, err := c.getSession().Do(req)
	if err != nil {
		c.observe(operation, 0)
		return nil, types.NewError(fmt.Sprintf("%s: %v", operation, err)).WithCause(err)
	}
	defer resp.Body.Close()
	c.observe(operation, resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, types.NewError(fmt.Sprintf("%s: reading response: %v", operation, err)).
			WithStatusCode(resp.StatusCode).WithCause(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, normalizeError(resp, data)
	}
	return data, nil
}

// normalizeError converts a non-2xx response into *types.Error. A JSON body
// becomes the structured detail payload; anything else is wrapped around the
// raw text.
func normalizeError(resp *http.Response, data []byte) *types.Error {
	var detail map[string]any
	if len(data) > 0 && json.Unmarshal(data, &detail) == nil {
		return types.NewError(errorMessage(resp, detail)).
			WithStatusCode(resp.StatusCode).
			WithDetails(detail)
	}
	if len(data) > 0 {
		return types.NewError(fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(data))).
			WithStatusCode(resp.StatusCode).
			WithDetails(map[string]any{"raw_response": string(data)})
	}
	return types.NewError(fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))).
		WithStatusCode(resp.StatusCode)
}

// errorMessage extracts a human-readable message from a parsed error body,
// preferring error.message, then message, then a string-valued error field.
func errorMessage(resp *http.Response, detail map[string]any) string {
	if errObj, ok := detail["error"].(map[string]any); ok {
		if msg, ok := errObj["message"].(string); ok && msg != "" {
			return msg
		}
	}
	if msg, ok := detail["message"].(string); ok && msg != "" {
		return msg
	}
	if msg, ok := detail["error"].(string); ok && msg != "" {
		return msg
	}
	return fmt.Sprintf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
}

func (c *Client) observe(operation string, status int) {
	if c.metrics != nil {
		c.metrics.observeRequest(operation, status)
	}
}
