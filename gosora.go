// Package gosora provides a top-level convenience entry point for creating a
// Sora video generation client with minimal boilerplate.
//
// Usage:
//
//	import "github.com/rashedtalukder/gosora"
//
//	client, err := gosora.New()                        // config from environment
//	client, err := gosora.New(gosora.WithEndpoint(u),  // explicit config
//	    gosora.WithAPIKey(key), gosora.WithDeployment("sora"))
//
// Options override values read from the AZURE_OPENAI_* environment variables.
package gosora

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/rashedtalukder/gosora/sora"
)

type settings struct {
	cfg        sora.Config
	logger     *zap.Logger
	registerer prometheus.Registerer
}

// Option configures the client created by [New].
type Option func(*settings)

// WithEndpoint sets the Azure OpenAI resource URL.
func WithEndpoint(endpoint string) Option {
	return func(s *settings) { s.cfg.Endpoint = endpoint }
}

// WithAPIKey sets the credential sent in the api-key header.
func WithAPIKey(key string) Option {
	return func(s *settings) { s.cfg.APIKey = key }
}

// WithDeployment sets the Sora deployment name.
func WithDeployment(name string) Option {
	return func(s *settings) { s.cfg.Deployment = name }
}

// WithAPIVersion overrides the protocol version.
func WithAPIVersion(version string) Option {
	return func(s *settings) { s.cfg.APIVersion = version }
}

// WithTimeout overrides the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(s *settings) { s.cfg.Timeout = timeout }
}

// WithHTTPClient supplies a pre-built HTTP client instead of the lazily
// created session.
func WithHTTPClient(client *http.Client) Option {
	return func(s *settings) { s.cfg.HTTPClient = client }
}

// WithLogger sets a custom zap logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *settings) { s.logger = logger }
}

// WithMetrics registers client metrics on the given prometheus registerer.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(s *settings) { s.registerer = reg }
}

// New creates a [sora.Client]. Configuration starts from the environment and
// is refined by options; endpoint, API key, and deployment name are required.
func New(opts ...Option) (*sora.Client, error) {
	s := settings{cfg: sora.ConfigFromEnv()}
	for _, opt := range opts {
		opt(&s)
	}

	client, err := sora.NewClient(s.cfg, s.logger)
	if err != nil {
		return nil, err
	}
	if s.registerer != nil {
		client.WithMetrics(sora.NewMetrics(s.registerer))
	}
	return client, nil
}
