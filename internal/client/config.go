package client

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/supplydesk/desk/internal/util"
	"github.com/supplydesk/desk/pkg/metrics"
	"github.com/supplydesk/desk/pkg/middleware"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/client-go/util/homedir"
	"sigs.k8s.io/yaml"
)

const (
	// ServerEnvKey overrides the server of the config file.
	ServerEnvKey = "DESK_SERVER"

	// APIPrefix is appended to the server URL for every call.
	APIPrefix = "/api/v1"

	DefaultServer  = "http://127.0.0.1:8000"
	DefaultTimeout = 30 * time.Second
)

// Config holds the information needed to connect to the procurement API server
type Config struct {
	Service Service `json:"service"`
}

// Service contains information how to connect to the procurement API server.
type Service struct {
	// Server is the URL of the API server (the part before /api/v1/...).
	Server string `json:"server"`
	// Timeout bounds every single call, including reading the body.
	Timeout util.Duration `json:"timeout,omitempty"`
}

func NewDefault() *Config {
	c := &Config{
		Service: Service{
			Server:  DefaultServer,
			Timeout: util.Duration{Duration: DefaultTimeout},
		},
	}

	if value := os.Getenv(ServerEnvKey); value != "" {
		c.Service.Server = value
	}

	return c
}

// BaseURL returns the server URL including the API prefix.
func (c *Config) BaseURL() string {
	return c.Service.Server + APIPrefix
}

// NewHTTPClientFromConfig returns a new HTTP Client from the given config.
// Every call goes through the request id, logging, metrics and connection tracking layers.
func NewHTTPClientFromConfig(config *Config, tracker *Interceptor) (*http.Client, error) {
	var transport http.RoundTripper = &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     false,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if tracker != nil {
		transport = tracker.Wrap(transport)
	}

	httpClient := &http.Client{
		Transport: middleware.RequestID(middleware.Logger(metrics.InstrumentTransport(transport))),
		Timeout:   config.Service.Timeout.Duration,
	}
	return httpClient, nil
}

// DefaultConfigPath returns the default path to the client config file.
func DefaultConfigPath() string {
	return filepath.Join(homedir.HomeDir(), ".desk", "client.yaml")
}

func ParseConfigFile(filename string) (*Config, error) {
	contents, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	config := NewDefault()
	if err := yaml.Unmarshal(contents, config); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadConfig reads filename when it exists and falls back to the defaults otherwise.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); err != nil {
		if os.IsNotExist(err) {
			return NewDefault(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return ParseConfigFile(filename)
}

// WriteConfig writes a client config file using the given parameters.
func WriteConfig(filename string, server string) error {
	config := NewDefault()
	config.Service.Server = server

	return config.Persist(filename)
}

func (c *Config) Persist(filename string) error {
	contents, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(filename), 0700); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	if err := os.WriteFile(filename, contents, 0600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	validationErrors := make([]error, 0)
	validationErrors = append(validationErrors, validateService(c.Service)...)
	if len(validationErrors) > 0 {
		return fmt.Errorf("invalid configuration: %v", utilerrors.NewAggregate(validationErrors).Error())
	}
	return nil
}

func validateService(service Service) []error {
	validationErrors := make([]error, 0)
	// Make sure the server is specified and well-formed
	if len(service.Server) == 0 {
		validationErrors = append(validationErrors, fmt.Errorf("no server found"))
	} else {
		u, err := url.Parse(service.Server)
		if err != nil {
			validationErrors = append(validationErrors, fmt.Errorf("invalid server format %q: %w", service.Server, err))
		}
		if err == nil && len(u.Hostname()) == 0 {
			validationErrors = append(validationErrors, fmt.Errorf("invalid server format %q: no hostname", service.Server))
		}
	}
	if service.Timeout.Duration < 0 {
		validationErrors = append(validationErrors, fmt.Errorf("timeout must not be negative"))
	}
	return validationErrors
}
