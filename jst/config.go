package jst

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

const (
	defaultPrimaryURL  = "https://ntp-b1.nict.go.jp/cgi-bin/time"
	defaultFallbackURL = "https://ntp-a1.nict.go.jp/cgi-bin/time"
	defaultTimeout     = 10 * time.Second
	defaultUserAgent   = "jstclock/1.0"
)

// Endpoints is the ordered pair of time authorities. Primary is always
// tried first; Fallback only after Primary fails.
type Endpoints struct {
	Primary  string
	Fallback string
}

// DefaultEndpoints returns the NICT time servers.
func DefaultEndpoints() Endpoints {
	return Endpoints{Primary: defaultPrimaryURL, Fallback: defaultFallbackURL}
}

// Validate reports whether both endpoints are absolute HTTP(S) URLs.
func (e Endpoints) Validate() error {
	if err := validateURL(e.Primary); err != nil {
		return fmt.Errorf("jst: primary endpoint: %w", err)
	}
	if err := validateURL(e.Fallback); err != nil {
		return fmt.Errorf("jst: fallback endpoint: %w", err)
	}
	return nil
}

func validateURL(raw string) error {
	if raw == "" {
		return errors.New("url is empty")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host in %q", raw)
	}
	return nil
}

// Config holds resolver configuration.
type Config struct {
	PrimaryURL  string        `yaml:"primary_url"`
	FallbackURL string        `yaml:"fallback_url"`
	Timeout     time.Duration `yaml:"timeout"`
	UserAgent   string        `yaml:"user_agent"`
}

// Defaults applies default values to the config.
func (c *Config) Defaults() {
	if c.PrimaryURL == "" {
		c.PrimaryURL = defaultPrimaryURL
	}
	if c.FallbackURL == "" {
		c.FallbackURL = defaultFallbackURL
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}
}

// Endpoints returns the configured endpoint pair.
func (c Config) Endpoints() Endpoints {
	return Endpoints{Primary: c.PrimaryURL, Fallback: c.FallbackURL}
}
