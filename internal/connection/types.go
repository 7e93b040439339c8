package connection

import (
	"errors"
	"time"
)

// Errors
var (
	ErrNotConnected       = errors.New("not connected")
	ErrStaleConnection    = errors.New("connection stale (no ping)")
	ErrAlreadyClosed      = errors.New("already closed")
	ErrAlreadyStarted     = errors.New("manager already started")
	ErrStopped            = errors.New("manager stopped")
	ErrUnsupportedScheme  = errors.New("unsupported origin scheme")
	ErrMissingOriginHost  = errors.New("origin has no host")
	ErrNonTextMessageType = errors.New("non-text websocket message")
)

// CommandRefresh asks the push service to re-run its checks and push a new batch.
const CommandRefresh = "refresh"

// DefaultPath is the websocket endpoint on the dashboard origin.
const DefaultPath = "/ws"

// DefaultReconnectDelay is the wait between a close and the next connect attempt.
const DefaultReconnectDelay = 5 * time.Second

// TimestampedMessage wraps raw message data with receive timestamp.
type TimestampedMessage struct {
	Data       []byte    // Raw message bytes from WebSocket
	ReceivedAt time.Time // Local timestamp when ReadMessage() returned
}

// State is the lifecycle state of the managed connection.
type State int

const (
	StateDisconnected State = iota // never connected
	StateConnecting                // dial in progress
	StateOpen                      // commands may be sent
	StateClosed                    // waiting for the reconnection timer
	StateStopped                   // Stop was called; terminal
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// ClientConfig configures a WebSocket client.
type ClientConfig struct {
	URL              string        // WebSocket URL (e.g., wss://checker.example.com/ws)
	UserAgent        string        // Sent on the handshake
	PingTimeout      time.Duration // Max time without ping/pong before considering connection stale
	PingInterval     time.Duration // How often the client pings the server
	WriteTimeout     time.Duration // Write deadline for sends
	HandshakeTimeout time.Duration // Dial handshake deadline
	BufferSize       int           // Message channel buffer size
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		PingTimeout:      60 * time.Second,
		PingInterval:     30 * time.Second,
		WriteTimeout:     5 * time.Second,
		HandshakeTimeout: 10 * time.Second,
		BufferSize:       64,
	}
}

// ManagerConfig configures the Connection Manager.
type ManagerConfig struct {
	Client ClientConfig // URL must be set
	Policy Policy       // Reconnection delay policy (nil = FixedDelay(DefaultReconnectDelay))
}

// DefaultManagerConfig returns sensible defaults.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		Client: DefaultClientConfig(),
		Policy: FixedDelay(DefaultReconnectDelay),
	}
}

// ManagerStats provides statistics about the connection manager.
type ManagerStats struct {
	State            State
	Connects         int64 // successful opens
	Disconnects      int64 // closes of an open connection
	FailedDials      int64
	MessagesReceived int64
	CommandsSent     int64
	CommandsDropped  int64 // SendCommand while not open
}
