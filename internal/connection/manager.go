package connection

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Manager owns the dashboard websocket and keeps it alive.
type Manager interface {
	// Start begins the connect/reconnect loop. It does not wait for the
	// connection to open. It returns ErrStopped after Stop.
	Start(ctx context.Context) error

	// Stop closes the connection and cancels any pending reconnection.
	Stop(ctx context.Context) error

	// SendCommand sends a text command if the connection is open.
	// Otherwise it returns ErrNotConnected and nothing is sent or queued.
	SendCommand(cmd string) error

	// State returns the current lifecycle state.
	State() State

	// Stats returns current connection statistics.
	Stats() ManagerStats
}

// MessageHandler receives inbound messages. It runs on the manager loop,
// one message at a time, in the order the transport delivered them.
type MessageHandler func(msg TimestampedMessage)

// ManagerOption configures a Manager.
type ManagerOption func(*manager)

// WithClientFactory replaces the websocket client constructor.
func WithClientFactory(f ClientFactory) ManagerOption {
	return func(m *manager) {
		m.newClient = f
	}
}

// WithStateHook registers a callback invoked on every state transition.
func WithStateHook(hook func(from, to State)) ManagerOption {
	return func(m *manager) {
		m.stateHook = hook
	}
}

// manager implements the Manager interface.
type manager struct {
	cfg     ManagerConfig
	handler MessageHandler
	logger  *slog.Logger

	newClient ClientFactory
	stateHook func(from, to State)
	after     func(time.Duration) <-chan time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.RWMutex
	state   State
	client  Client
	started bool

	connects        atomic.Int64
	disconnects     atomic.Int64
	failedDials     atomic.Int64
	received        atomic.Int64
	commandsSent    atomic.Int64
	commandsDropped atomic.Int64
}

// NewManager creates a new Connection Manager.
func NewManager(cfg ManagerConfig, handler MessageHandler, logger *slog.Logger, opts ...ManagerOption) Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Policy == nil {
		cfg.Policy = FixedDelay(DefaultReconnectDelay)
	}
	if handler == nil {
		handler = func(TimestampedMessage) {}
	}

	m := &manager{
		cfg:       cfg,
		handler:   handler,
		logger:    logger.With("component", "connection"),
		newClient: NewClient,
		after:     time.After,
		state:     StateDisconnected,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Start begins the connect/reconnect loop. A stopped manager cannot be
// restarted.
func (m *manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.state == StateStopped {
		m.mu.Unlock()
		return ErrStopped
	}
	if m.started {
		m.mu.Unlock()
		return ErrAlreadyStarted
	}
	m.started = true
	m.ctx, m.cancel = context.WithCancel(ctx)
	m.mu.Unlock()

	m.wg.Add(1)
	go m.run()

	m.logger.Info("connection manager started", "url", m.cfg.Client.URL)
	return nil
}

// Stop gracefully shuts down.
func (m *manager) Stop(ctx context.Context) error {
	m.mu.RLock()
	cancel := m.cancel
	m.mu.RUnlock()

	m.logger.Info("stopping connection manager")

	if cancel != nil {
		cancel()
	}

	// Wait for the loop with timeout
	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		m.logger.Warn("shutdown timeout, forcing close")
	}

	m.mu.Lock()
	c := m.client
	m.client = nil
	m.mu.Unlock()
	if c != nil {
		c.Close()
	}
	m.setState(StateStopped)

	m.logger.Info("connection manager stopped")
	return nil
}

// SendCommand sends cmd when the connection is open.
func (m *manager) SendCommand(cmd string) error {
	m.mu.RLock()
	state, c := m.state, m.client
	m.mu.RUnlock()

	if state != StateOpen || c == nil {
		m.commandsDropped.Add(1)
		m.logger.Info("not connected, command not sent", "command", cmd, "state", state)
		return ErrNotConnected
	}

	if err := c.Send([]byte(cmd)); err != nil {
		m.commandsDropped.Add(1)
		m.logger.Warn("failed to send command", "command", cmd, "error", err)
		return fmt.Errorf("send %s: %w", cmd, err)
	}

	m.commandsSent.Add(1)
	m.logger.Debug("command sent", "command", cmd)
	return nil
}

// State returns the current lifecycle state.
func (m *manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Stats returns current statistics.
func (m *manager) Stats() ManagerStats {
	return ManagerStats{
		State:            m.State(),
		Connects:         m.connects.Load(),
		Disconnects:      m.disconnects.Load(),
		FailedDials:      m.failedDials.Load(),
		MessagesReceived: m.received.Load(),
		CommandsSent:     m.commandsSent.Load(),
		CommandsDropped:  m.commandsDropped.Load(),
	}
}

// run is the manager loop: connect, pump until close, wait, repeat.
func (m *manager) run() {
	defer m.wg.Done()

	attempt := 0
	for {
		if m.ctx.Err() != nil {
			return
		}

		if m.connect() {
			attempt = 0
			m.pump()
			m.disconnect()
		}

		if m.ctx.Err() != nil {
			return
		}
		m.setState(StateClosed)

		attempt++
		delay := m.cfg.Policy.NextDelay(attempt)
		m.logger.Info("scheduling reconnection", "attempt", attempt, "delay", delay)

		select {
		case <-m.ctx.Done():
			return
		case <-m.after(delay):
		}
	}
}

// connect dials a fresh client. It reports whether the connection opened.
func (m *manager) connect() bool {
	m.setState(StateConnecting)

	c := m.newClient(m.cfg.Client, m.logger)
	if err := c.Connect(m.ctx); err != nil {
		m.failedDials.Add(1)
		m.logger.Warn("connection failed", "url", m.cfg.Client.URL, "error", err)
		c.Close()
		return false
	}

	m.mu.Lock()
	if m.ctx.Err() != nil {
		m.mu.Unlock()
		c.Close()
		return false
	}
	m.client = c
	m.mu.Unlock()

	m.connects.Add(1)
	m.setState(StateOpen)
	m.logger.Info("connection established", "url", m.cfg.Client.URL)
	return true
}

// pump delivers messages until the connection ends or the manager stops.
func (m *manager) pump() {
	m.mu.RLock()
	c := m.client
	m.mu.RUnlock()

	for {
		select {
		case <-m.ctx.Done():
			return

		case err := <-c.Errors():
			// Deliver what was already read before the failure
			m.drain(c)
			m.logger.Warn("connection closed", "error", err)
			return

		case msg, ok := <-c.Messages():
			if !ok {
				return
			}
			m.deliver(msg)
		}
	}
}

func (m *manager) drain(c Client) {
	for {
		select {
		case msg, ok := <-c.Messages():
			if !ok {
				return
			}
			m.deliver(msg)
		default:
			return
		}
	}
}

func (m *manager) deliver(msg TimestampedMessage) {
	m.received.Add(1)
	m.handler(msg)
}

// disconnect drops the current client.
func (m *manager) disconnect() {
	m.mu.Lock()
	c := m.client
	m.client = nil
	m.mu.Unlock()

	if c != nil {
		c.Close()
		m.disconnects.Add(1)
	}
}

func (m *manager) setState(to State) {
	m.mu.Lock()
	from := m.state
	if from == StateStopped {
		m.mu.Unlock()
		return
	}
	m.state = to
	m.mu.Unlock()

	if from == to {
		return
	}
	m.logger.Debug("connection state changed", "from", from, "to", to)
	if m.stateHook != nil {
		m.stateHook(from, to)
	}
}
