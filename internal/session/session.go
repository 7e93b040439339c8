package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/ogsc/liveview/internal/connection"
	"github.com/ogsc/liveview/internal/snapshot"
	"github.com/ogsc/liveview/internal/view"
)

// DefaultDecodeErrorBuffer is how many decode errors are kept for readers.
const DefaultDecodeErrorBuffer = 16

// Sink displays rendered documents.
type Sink interface {
	Publish(doc view.Document) error
}

// SinkFunc is a function adapter for Sink.
type SinkFunc func(view.Document) error

func (f SinkFunc) Publish(doc view.Document) error {
	return f(doc)
}

// Config holds session configuration.
type Config struct {
	Manager           connection.ManagerConfig
	RefreshSchedule   string // cron expression for automatic refresh ("" = disabled)
	DecodeErrorBuffer int
}

// Option configures a Session.
type Option func(*Session)

// WithSinks adds sinks notified after every render.
func WithSinks(sinks ...Sink) Option {
	return func(s *Session) {
		s.sinks = append(s.sinks, sinks...)
	}
}

// WithManagerOptions passes options through to the connection manager.
func WithManagerOptions(opts ...connection.ManagerOption) Option {
	return func(s *Session) {
		s.managerOpts = append(s.managerOpts, opts...)
	}
}

// Session is one live dashboard view.
type Session struct {
	id       uuid.UUID
	cfg      Config
	logger   *slog.Logger
	renderer *view.Renderer

	manager     connection.Manager
	managerOpts []connection.ManagerOption
	sinks       []Sink
	cronMu      sync.Mutex
	cron        *cron.Cron

	mu  sync.RWMutex
	doc *view.Document

	renders    atomic.Int64
	decodeErrs chan error
}

// New creates a Session. Nothing connects until Start.
func New(cfg Config, renderer *view.Renderer, logger *slog.Logger, opts ...Option) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	if renderer == nil {
		renderer = view.NewRenderer(view.WithLogger(logger))
	}
	if cfg.DecodeErrorBuffer <= 0 {
		cfg.DecodeErrorBuffer = DefaultDecodeErrorBuffer
	}

	id := uuid.New()
	s := &Session{
		id:         id,
		cfg:        cfg,
		logger:     logger.With("session", id.String()),
		renderer:   renderer,
		doc:        view.NewDocument(),
		decodeErrs: make(chan error, cfg.DecodeErrorBuffer),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.manager = connection.NewManager(cfg.Manager, s.handle, s.logger, s.managerOpts...)
	return s
}

// ID identifies the session in logs.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Start connects and, if configured, schedules automatic refreshes.
// It returns once the loop is running, not once the connection is open.
func (s *Session) Start(ctx context.Context) error {
	var c *cron.Cron
	if s.cfg.RefreshSchedule != "" {
		c = cron.New()
		if _, err := c.AddFunc(s.cfg.RefreshSchedule, s.scheduledRefresh); err != nil {
			return fmt.Errorf("parse refresh schedule %q: %w", s.cfg.RefreshSchedule, err)
		}
	}

	// The manager refuses a second start, so only the first call owns a schedule
	if err := s.manager.Start(ctx); err != nil {
		return fmt.Errorf("start connection manager: %w", err)
	}

	if c != nil {
		s.cronMu.Lock()
		s.cron = c
		s.cronMu.Unlock()
		c.Start()
		s.logger.Info("scheduled refresh enabled", "schedule", s.cfg.RefreshSchedule)
	}

	s.logger.Info("session started")
	return nil
}

// Stop cancels scheduled refreshes and any pending reconnection, then
// closes the connection.
func (s *Session) Stop(ctx context.Context) error {
	s.cronMu.Lock()
	c := s.cron
	s.cronMu.Unlock()
	if c != nil {
		select {
		case <-c.Stop().Done():
		case <-ctx.Done():
			s.logger.Warn("scheduled refresh still running at shutdown")
		}
	}

	if err := s.manager.Stop(ctx); err != nil {
		return fmt.Errorf("stop connection manager: %w", err)
	}

	s.logger.Info("session stopped", "renders", s.renders.Load())
	return nil
}

// Refresh asks the backend for a new batch. It fails with
// connection.ErrNotConnected when the connection is not open.
func (s *Session) Refresh() error {
	return s.manager.SendCommand(connection.CommandRefresh)
}

// Document returns a copy of the current document.
func (s *Session) Document() view.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

// DecodeErrors returns malformed-payload errors. When nobody reads them the
// oldest are discarded.
func (s *Session) DecodeErrors() <-chan error {
	return s.decodeErrs
}

// Renders returns how many batches have been rendered.
func (s *Session) Renders() int64 {
	return s.renders.Load()
}

// State returns the connection state.
func (s *Session) State() connection.State {
	return s.manager.State()
}

// Stats returns connection statistics.
func (s *Session) Stats() connection.ManagerStats {
	return s.manager.Stats()
}

// handle runs on the manager loop for every inbound message.
func (s *Session) handle(msg connection.TimestampedMessage) {
	res := snapshot.Decode(msg.Data)
	if !res.OK() {
		s.logger.Warn("dropping malformed message", "error", res.Err)
		s.reportDecodeError(res.Err)
		return
	}

	s.mu.Lock()
	s.renderer.Render(s.doc, res.Batch)
	doc := s.doc.Clone()
	s.mu.Unlock()

	n := s.renders.Add(1)
	s.logger.Debug("batch rendered",
		"projects", len(res.Batch),
		"render", n,
		"received_at", msg.ReceivedAt,
	)

	for _, sink := range s.sinks {
		if err := sink.Publish(doc); err != nil {
			s.logger.Warn("sink publish failed", "error", err)
		}
	}
}

func (s *Session) reportDecodeError(err error) {
	for {
		select {
		case s.decodeErrs <- err:
			return
		default:
		}
		// Full: drop the oldest and retry
		select {
		case <-s.decodeErrs:
		default:
		}
	}
}

func (s *Session) scheduledRefresh() {
	if err := s.Refresh(); err != nil {
		s.logger.Debug("scheduled refresh skipped", "error", err)
	}
}
