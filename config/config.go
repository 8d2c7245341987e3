// Package config loads the signupboard configuration.
//
// Values are read from a YAML file, then overridden by SIGNUPBOARD_*
// environment variables, then defaulted and validated.
package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/nomis52/signupboard/logging"
	"github.com/nomis52/signupboard/server/cron"
	"gopkg.in/yaml.v3"
)

const (
	defaultListenAddr    = ":8080"
	defaultUserAgent     = "signupboard"
	defaultHideAfter     = 5 * time.Second
	defaultMetricsPrefix = "signupboard"
	defaultJobName       = "signupboard"

	// csrfKeyLength is the key size gorilla/csrf requires.
	csrfKeyLength = 32

	redactedValue = "<redacted>"
)

// Config represents the complete application configuration.
type Config struct {
	Listener   ListenerConfig   `yaml:"listener"`
	Backend    BackendConfig    `yaml:"backend"`
	Board      BoardConfig      `yaml:"board"`
	Security   SecurityConfig   `yaml:"security"`
	Logging    logging.Config   `yaml:"logging"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
}

// ListenerConfig holds HTTP server listener settings.
type ListenerConfig struct {
	// The listen address, defaults to :8080
	Addr string `yaml:"addr" env:"SIGNUPBOARD_LISTEN_ADDR"`
	// TLSCert and TLSKey enable HTTPS when both are set. The files are
	// re-read when they change.
	TLSCert string `yaml:"tls_cert"`
	TLSKey  string `yaml:"tls_key"`
}

// TLSEnabled reports whether the listener serves HTTPS.
func (l *ListenerConfig) TLSEnabled() bool {
	return l.TLSCert != ""
}

// BackendConfig describes the activities API.
type BackendConfig struct {
	// BaseURL is the API root; requests go to BaseURL + "/activities".
	BaseURL string `yaml:"base_url" env:"SIGNUPBOARD_BACKEND_URL"`
	// Timeout bounds each request. Zero means no timeout.
	Timeout   time.Duration `yaml:"timeout" env:"SIGNUPBOARD_BACKEND_TIMEOUT"`
	UserAgent string        `yaml:"user_agent"`
}

// BoardConfig controls the board behavior.
type BoardConfig struct {
	// MessageHideAfter is how long a status message stays visible.
	MessageHideAfter time.Duration `yaml:"message_hide_after"`
	// RefreshSchedule is an optional list of cron expressions, separated by
	// semicolons, on which the activities are reloaded. Empty disables it.
	RefreshSchedule string `yaml:"refresh_schedule"`
	// PollInterval is how often browsers re-fetch the activity list. Zero
	// disables polling.
	PollInterval time.Duration `yaml:"poll_interval"`
}

// SecurityConfig holds form protection settings.
type SecurityConfig struct {
	// CSRFKey enables CSRF protection when set. Must be 32 bytes.
	CSRFKey string `yaml:"csrf_key" env:"SIGNUPBOARD_CSRF_KEY"`
	// CSRFSecure marks the CSRF cookie as HTTPS only. Defaults to true.
	CSRFSecure *bool `yaml:"csrf_secure"`
}

// MonitoringConfig holds metrics settings.
type MonitoringConfig struct {
	// VictoriaMetricsURL is the base URL of the remote write endpoint the CLI
	// pushes to.
	VictoriaMetricsURL string `yaml:"victoriametrics_url"`
	MetricsPrefix      string `yaml:"metrics_prefix"`
	JobName            string `yaml:"jobname"`
}

// CSRFEnabled reports whether form posts are CSRF protected.
func (c *Config) CSRFEnabled() bool {
	return c.Security.CSRFKey != ""
}

// SecureCookies reports whether the CSRF cookie is HTTPS only.
func (c *SecurityConfig) SecureCookies() bool {
	return c.CSRFSecure == nil || *c.CSRFSecure
}

// SetDefaults sets reasonable default values for optional fields.
func (c *Config) SetDefaults() {
	if c.Listener.Addr == "" {
		c.Listener.Addr = defaultListenAddr
	}
	if c.Backend.UserAgent == "" {
		c.Backend.UserAgent = defaultUserAgent
	}
	if c.Board.MessageHideAfter == 0 {
		c.Board.MessageHideAfter = defaultHideAfter
	}
	if c.Monitoring.MetricsPrefix == "" {
		c.Monitoring.MetricsPrefix = defaultMetricsPrefix
	}
	if c.Monitoring.JobName == "" {
		c.Monitoring.JobName = defaultJobName
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
}

// Validate checks the configuration and returns every problem found.
func (c *Config) Validate() error {
	var errs []error

	if c.Backend.BaseURL == "" {
		errs = append(errs, errors.New("backend base_url is required"))
	} else if u, err := url.Parse(c.Backend.BaseURL); err != nil {
		errs = append(errs, fmt.Errorf("backend base_url: %w", err))
	} else if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("backend base_url %q must be an absolute http(s) URL", c.Backend.BaseURL))
	}

	if (c.Listener.TLSCert == "") != (c.Listener.TLSKey == "") {
		errs = append(errs, errors.New("listener tls_cert and tls_key must be set together"))
	}
	if c.Backend.Timeout < 0 {
		errs = append(errs, errors.New("backend timeout must not be negative"))
	}
	if c.Board.MessageHideAfter <= 0 {
		errs = append(errs, errors.New("board message_hide_after must be positive"))
	}
	if c.Board.PollInterval < 0 {
		errs = append(errs, errors.New("board poll_interval must not be negative"))
	}
	if c.Board.RefreshSchedule != "" {
		if _, err := cron.ParseSchedules(c.Board.RefreshSchedule); err != nil {
			errs = append(errs, fmt.Errorf("board refresh_schedule: %w", err))
		}
	}
	if n := len(c.Security.CSRFKey); n != 0 && n != csrfKeyLength {
		errs = append(errs, fmt.Errorf("security csrf_key must be %d bytes, got %d", csrfKeyLength, n))
	}

	return errors.Join(errs...)
}

// Redacted returns a copy of the config with secrets replaced.
func (c *Config) Redacted() *Config {
	out := *c
	if out.Security.CSRFKey != "" {
		out.Security.CSRFKey = redactedValue
	}
	if u, err := url.Parse(out.Backend.BaseURL); err == nil {
		out.Backend.BaseURL = u.Redacted()
	}
	return &out
}

// LoadConfig reads the YAML config file at path, applies environment
// overrides, defaults and validation.
func LoadConfig(path string) (*Config, error) {
	return load(path, env.ToMap(os.Environ()))
}

func load(path string, environ map[string]string) (*Config, error) {
	var cfg Config
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file %s: %w", path, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	// An empty file leaves everything to the environment.
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode YAML config: %w", err)
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}
