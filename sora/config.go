package sora

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by ConfigFromEnv.
const (
	EnvEndpoint   = "AZURE_OPENAI_ENDPOINT"
	EnvAPIKey     = "AZURE_OPENAI_API_KEY"
	EnvDeployment = "AZURE_OPENAI_DEPLOYMENT_NAME"
	EnvAPIVersion = "AZURE_OPENAI_API_VERSION"
)

// Defaults applied by NewClient when the corresponding field is unset.
const (
	DefaultAPIVersion = "2025-04-01-preview"
	DefaultTimeout    = 30 * time.Second
)

// Config configures a Client. Endpoint, APIKey, and Deployment are required;
// NewClient rejects a Config missing any of them.
type Config struct {
	// Endpoint is the Azure OpenAI resource URL.
	Endpoint string `json:"endpoint" yaml:"endpoint"`
	// APIKey authenticates every request via the api-key header.
	APIKey string `json:"api_key" yaml:"api_key"`
	// Deployment is the Sora deployment name, sent as the model field.
	Deployment string `json:"deployment" yaml:"deployment"`
	// APIVersion identifies the protocol version. Defaults to DefaultAPIVersion.
	APIVersion string `json:"api_version,omitempty" yaml:"api_version,omitempty"`
	// Timeout bounds each HTTP request. Defaults to DefaultTimeout.
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`

	// HTTPClient overrides the lazily created session. Intended for tests.
	HTTPClient *http.Client `json:"-" yaml:"-"`
}

// DefaultConfig returns a Config with defaults filled and credentials empty.
func DefaultConfig() Config {
	return Config{
		APIVersion: DefaultAPIVersion,
		Timeout:    DefaultTimeout,
	}
}

// ConfigFromEnv builds a Config from the AZURE_OPENAI_* environment
// variables. A .env file in the working directory is loaded first when
// present. Missing values are left empty; NewClient reports them.
func ConfigFromEnv() Config {
	_ = godotenv.Overload()

	cfg := DefaultConfig()
	cfg.Endpoint = os.Getenv(EnvEndpoint)
	cfg.APIKey = os.Getenv(EnvAPIKey)
	cfg.Deployment = os.Getenv(EnvDeployment)
	if v := os.Getenv(EnvAPIVersion); v != "" {
		cfg.APIVersion = v
	}
	return cfg
}

// UnmarshalYAML decodes a Config, accepting timeout as a duration string
// ("45s") and leaving absent fields untouched.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Endpoint   string `yaml:"endpoint"`
		APIKey     string `yaml:"api_key"`
		Deployment string `yaml:"deployment"`
		APIVersion string `yaml:"api_version"`
		Timeout    string `yaml:"timeout"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.Endpoint != "" {
		c.Endpoint = raw.Endpoint
	}
	if raw.APIKey != "" {
		c.APIKey = raw.APIKey
	}
	if raw.Deployment != "" {
		c.Deployment = raw.Deployment
	}
	if raw.APIVersion != "" {
		c.APIVersion = raw.APIVersion
	}
	if raw.Timeout != "" {
		d, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return fmt.Errorf("sora: invalid timeout %q: %w", raw.Timeout, err)
		}
		c.Timeout = d
	}
	return nil
}

// LoadConfig reads a YAML config file. Fields absent from the file keep
// their defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("sora: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("sora: parse config: %w", err)
	}
	return cfg, nil
}
