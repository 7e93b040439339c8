package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultWSPath            = "/ws"
	DefaultLocale            = "en"
	DefaultTimezone          = "Local"
	DefaultReconnectPolicy   = PolicyFixed
	DefaultReconnectDelay    = 5 * time.Second
	DefaultReconnectMaxDelay = 2 * time.Minute
	DefaultPingTimeout       = 60 * time.Second
	DefaultPingInterval      = 30 * time.Second
	DefaultWriteTimeout      = 5 * time.Second
	DefaultHandshakeTimeout  = 10 * time.Second
	DefaultBufferSize        = 64
	DefaultShutdownTimeout   = 5 * time.Second
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "text"
)

func (c *Config) applyDefaults() {
	// Dashboard defaults
	if c.Dashboard.WSPath == "" {
		c.Dashboard.WSPath = DefaultWSPath
	}
	if c.Dashboard.Locale == "" {
		c.Dashboard.Locale = DefaultLocale
	}
	if c.Dashboard.Timezone == "" {
		c.Dashboard.Timezone = DefaultTimezone
	}

	// Connection defaults
	if c.Connection.ReconnectPolicy == "" {
		c.Connection.ReconnectPolicy = DefaultReconnectPolicy
	}
	if c.Connection.ReconnectDelay == 0 {
		c.Connection.ReconnectDelay = DefaultReconnectDelay
	}
	if c.Connection.ReconnectMaxDelay == 0 {
		c.Connection.ReconnectMaxDelay = DefaultReconnectMaxDelay
	}
	if c.Connection.PingTimeout == 0 {
		c.Connection.PingTimeout = DefaultPingTimeout
	}
	if c.Connection.PingInterval == 0 {
		c.Connection.PingInterval = DefaultPingInterval
	}
	if c.Connection.WriteTimeout == 0 {
		c.Connection.WriteTimeout = DefaultWriteTimeout
	}
	if c.Connection.HandshakeTimeout == 0 {
		c.Connection.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if c.Connection.BufferSize == 0 {
		c.Connection.BufferSize = DefaultBufferSize
	}

	// Preview defaults
	if c.Preview.ShutdownTimeout == 0 {
		c.Preview.ShutdownTimeout = DefaultShutdownTimeout
	}

	// Log defaults
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}
