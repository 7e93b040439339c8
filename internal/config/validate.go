package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/robfig/cron/v3"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if err := c.Dashboard.validate(); err != nil {
		return err
	}
	if err := c.Connection.validate(); err != nil {
		return err
	}

	if c.Refresh.Schedule != "" {
		if _, err := cron.ParseStandard(c.Refresh.Schedule); err != nil {
			return fmt.Errorf("refresh.schedule %q is invalid: %v", c.Refresh.Schedule, err)
		}
	}

	if c.Preview.AutoReload < 0 {
		return errors.New("preview.auto_reload must be >= 0")
	}
	if c.Preview.AutoReload > 0 && c.Preview.AutoReload < time.Second {
		return fmt.Errorf("preview.auto_reload must be at least 1s, got %s", c.Preview.AutoReload)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	return nil
}

func (d *DashboardConfig) validate() error {
	if d.Origin == "" {
		return errors.New("dashboard.origin is required")
	}
	u, err := url.Parse(d.Origin)
	if err != nil {
		return fmt.Errorf("dashboard.origin is invalid: %v", err)
	}
	switch u.Scheme {
	case "http", "https", "ws", "wss":
	default:
		return fmt.Errorf("dashboard.origin scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("dashboard.origin must include a host")
	}
	if d.WSPath == "" || d.WSPath[0] != '/' {
		return fmt.Errorf("dashboard.ws_path must start with /, got %q", d.WSPath)
	}
	if d.Timezone != "Local" {
		if _, err := time.LoadLocation(d.Timezone); err != nil {
			return fmt.Errorf("dashboard.timezone %q is unknown", d.Timezone)
		}
	}
	return nil
}

func (c *ConnectionConfig) validate() error {
	switch c.ReconnectPolicy {
	case PolicyFixed, PolicyExponential:
	default:
		return fmt.Errorf("connection.reconnect_policy must be fixed or exponential, got %q", c.ReconnectPolicy)
	}
	if c.ReconnectDelay <= 0 {
		return errors.New("connection.reconnect_delay must be > 0")
	}
	if c.ReconnectPolicy == PolicyExponential {
		if c.ReconnectMaxDelay < c.ReconnectDelay {
			return fmt.Errorf("connection.reconnect_max_delay (%s) cannot be less than reconnect_delay (%s)",
				c.ReconnectMaxDelay, c.ReconnectDelay)
		}
		if c.Jitter < 0 || c.Jitter >= 1 {
			return fmt.Errorf("connection.jitter must be in [0, 1), got %v", c.Jitter)
		}
	}
	if c.PingInterval <= 0 {
		return errors.New("connection.ping_interval must be > 0")
	}
	if c.PingInterval >= c.PingTimeout {
		return fmt.Errorf("connection.ping_interval (%s) must be less than ping_timeout (%s)",
			c.PingInterval, c.PingTimeout)
	}
	if c.BufferSize < 1 {
		return errors.New("connection.buffer_size must be >= 1")
	}
	return nil
}
