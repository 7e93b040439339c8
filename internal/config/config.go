package config

import "time"

// Config is the root configuration for a live view client.
type Config struct {
	Dashboard  DashboardConfig  `yaml:"dashboard"`
	Connection ConnectionConfig `yaml:"connection"`
	Refresh    RefreshConfig    `yaml:"refresh"`
	Output     OutputConfig     `yaml:"output"`
	Preview    PreviewConfig    `yaml:"preview"`
	Log        LogConfig        `yaml:"log"`
}

// DashboardConfig identifies the monitoring dashboard and how to display it.
type DashboardConfig struct {
	Origin   string `yaml:"origin"`   // page origin, e.g. https://certs.example.com
	WSPath   string `yaml:"ws_path"`  // websocket endpoint on the origin
	Locale   string `yaml:"locale"`   // Accept-Language style, e.g. "fr-FR,fr;q=0.9"
	Timezone string `yaml:"timezone"` // IANA name or "Local"
}

// Reconnect policies.
const (
	PolicyFixed       = "fixed"
	PolicyExponential = "exponential"
)

// ConnectionConfig holds websocket and reconnection settings.
type ConnectionConfig struct {
	ReconnectPolicy   string        `yaml:"reconnect_policy"`
	ReconnectDelay    time.Duration `yaml:"reconnect_delay"`
	ReconnectMaxDelay time.Duration `yaml:"reconnect_max_delay"` // exponential only
	Jitter            float64       `yaml:"jitter"`              // exponential only
	PingTimeout       time.Duration `yaml:"ping_timeout"`
	PingInterval      time.Duration `yaml:"ping_interval"`
	WriteTimeout      time.Duration `yaml:"write_timeout"`
	HandshakeTimeout  time.Duration `yaml:"handshake_timeout"`
	BufferSize        int           `yaml:"buffer_size"`
}

// RefreshConfig schedules periodic refresh requests. Empty schedule disables it.
type RefreshConfig struct {
	Schedule string `yaml:"schedule"`
}

// OutputConfig selects the sinks that display the table.
type OutputConfig struct {
	Terminal    *bool  `yaml:"terminal"`
	ClearScreen bool   `yaml:"clear_screen"`
	HTMLPath    string `yaml:"html_path"`
}

// TerminalEnabled reports whether the terminal sink is on. It defaults to true.
func (o OutputConfig) TerminalEnabled() bool {
	return o.Terminal == nil || *o.Terminal
}

// PreviewConfig holds the local preview server settings. Empty addr disables it.
type PreviewConfig struct {
	Addr            string        `yaml:"addr"`
	AutoReload      time.Duration `yaml:"auto_reload"` // page reload interval, 0 = off
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LogConfig controls the process logger.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text or json
}
