package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
)

var singleConfig *Config = nil

type Config struct {
	Polling      *pollConfig
	Notification *notificationConfig
	Service      *svcConfig
}

type pollConfig struct {
	RequestsInterval  time.Duration `envconfig:"DESK_REQUESTS_POLL_INTERVAL" default:"5s"`
	TasksInterval     time.Duration `envconfig:"DESK_TASKS_POLL_INTERVAL" default:"3s"`
	Jitter            time.Duration `envconfig:"DESK_POLL_JITTER" default:"30ms"`
	ParseRefreshDelay time.Duration `envconfig:"DESK_PARSE_REFRESH_DELAY" default:"2s"`
	StatusConcurrency int           `envconfig:"DESK_STATUS_CONCURRENCY" default:"4"`
}

type notificationConfig struct {
	TTL time.Duration `envconfig:"DESK_NOTIFICATION_TTL" default:"5s"`
}

type svcConfig struct {
	HTTPTimeout    time.Duration `envconfig:"DESK_HTTP_TIMEOUT" default:"30s"`
	LogLevel       string        `envconfig:"DESK_LOG_LEVEL" default:"info"`
	LogFormat      string        `envconfig:"DESK_LOG_FORMAT" default:"console"`
	MetricsAddress string        `envconfig:"DESK_METRICS_ADDRESS" default:""`
}

// New returns the process wide configuration, read from the environment on first use.
func New() (*Config, error) {
	if singleConfig == nil {
		cfg, err := Load()
		if err != nil {
			return nil, err
		}
		singleConfig = cfg
	}
	return singleConfig, nil
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := new(Config)
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	errs := []error{}
	if c.Polling.RequestsInterval <= 0 {
		errs = append(errs, fmt.Errorf("requests poll interval must be positive, got %s", c.Polling.RequestsInterval))
	}
	if c.Polling.TasksInterval <= 0 {
		errs = append(errs, fmt.Errorf("tasks poll interval must be positive, got %s", c.Polling.TasksInterval))
	}
	if c.Polling.Jitter < 0 {
		errs = append(errs, fmt.Errorf("poll jitter must not be negative, got %s", c.Polling.Jitter))
	}
	if c.Polling.ParseRefreshDelay < 0 {
		errs = append(errs, fmt.Errorf("parse refresh delay must not be negative, got %s", c.Polling.ParseRefreshDelay))
	}
	if c.Polling.StatusConcurrency <= 0 {
		errs = append(errs, fmt.Errorf("status concurrency must be positive, got %d", c.Polling.StatusConcurrency))
	}
	if c.Notification.TTL <= 0 {
		errs = append(errs, fmt.Errorf("notification ttl must be positive, got %s", c.Notification.TTL))
	}
	if c.Service.HTTPTimeout < 0 {
		errs = append(errs, fmt.Errorf("http timeout must not be negative, got %s", c.Service.HTTPTimeout))
	}
	if c.Service.LogFormat != "console" && c.Service.LogFormat != "json" {
		errs = append(errs, fmt.Errorf("log format must be console or json, got %q", c.Service.LogFormat))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", utilerrors.NewAggregate(errs))
	}
	return nil
}
