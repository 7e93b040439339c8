package preview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"github.com/ogsc/liveview/internal/connection"
	"github.com/ogsc/liveview/internal/output"
	"github.com/ogsc/liveview/internal/view"
)

// Source is the live session behind the server.
type Source interface {
	Document() view.Document
	Refresh() error
	State() connection.State
	Stats() connection.ManagerStats
	Renders() int64
}

// Status is the body of GET /status.
type Status struct {
	State            string `json:"state"`
	Renders          int64  `json:"renders"`
	Connects         int64  `json:"connects"`
	Disconnects      int64  `json:"disconnects"`
	FailedDials      int64  `json:"failed_dials"`
	MessagesReceived int64  `json:"messages_received"`
	CommandsSent     int64  `json:"commands_sent"`
	CommandsDropped  int64  `json:"commands_dropped"`
}

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
{{- with .AutoReload}}
<meta http-equiv="refresh" {{.}}>
{{- end}}
<title>{{.Title}}</title>
<style>
.no-data { color: #6b7280; }
.days-critical { color: #dc2626; font-weight: bold; }
.days-warning { color: #d97706; }
.days-ok { color: #16a34a; }
</style>
</head>
<body>
<p><button onclick="fetch('/refresh', {method: 'POST'}).then(() => setTimeout(() => location.reload(), 1000))">{{.Refresh}}</button> <small>{{.State}}</small></p>
{{.Table}}
</body>
</html>
`))

// Server serves the preview routes.
type Server struct {
	addr       string
	src        Source
	locale     view.Locale
	autoReload time.Duration
	logger     *slog.Logger
	router     *mux.Router
	srv        *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithAutoReload makes the page reload itself every d. Zero disables it.
func WithAutoReload(d time.Duration) Option {
	return func(s *Server) {
		s.autoReload = d
	}
}

// WithLocale sets the language of the column headers.
func WithLocale(l view.Locale) Option {
	return func(s *Server) {
		s.locale = l
	}
}

// New creates a preview server for src listening on addr.
func New(addr string, src Source, logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		addr:   addr,
		src:    src,
		locale: view.NewLocale(""),
		logger: logger.With("component", "preview"),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := mux.NewRouter()
	r.HandleFunc("/", s.handlePage).Methods(http.MethodGet)
	r.HandleFunc("/table", s.handleTable).Methods(http.MethodGet)
	r.HandleFunc("/refresh", s.handleRefresh).Methods(http.MethodPost)
	r.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	s.router = r

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

// Handler returns the routes, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down within shutdownTimeout.
func (s *Server) Run(ctx context.Context, shutdownTimeout time.Duration) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.addr, err)
	}
	s.logger.Info("preview server listening", "url", "http://"+ln.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("preview server stopped")
	return nil
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	var table bytes.Buffer
	if err := output.RenderHTML(&table, s.src.Document(), s.locale); err != nil {
		s.logger.Error("render table", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}

	base, _ := s.locale.Tag().Base()
	data := struct {
		Lang       string
		Title      string
		Refresh    string
		State      string
		AutoReload template.HTMLAttr
		Table      template.HTML
	}{
		Lang:       base.String(),
		Title:      s.locale.T(view.MsgPageTitle),
		Refresh:    s.locale.T(view.MsgRefresh),
		State:      s.src.State().String(),
		AutoReload: s.reloadAttr(),
		// RenderHTML output is already escaped
		Table: template.HTML(table.String()),
	}

	var buf bytes.Buffer
	if err := page.Execute(&buf, data); err != nil {
		s.logger.Error("render page", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// reloadAttr builds the meta refresh attribute. html/template rejects
// dynamic values in content attributes, so it is assembled here from an int.
func (s *Server) reloadAttr() template.HTMLAttr {
	secs := int(s.autoReload / time.Second)
	if secs <= 0 {
		return ""
	}
	return template.HTMLAttr(fmt.Sprintf(`content="%d"`, secs))
}

func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := output.RenderHTML(&buf, s.src.Document(), s.locale); err != nil {
		s.logger.Error("render table", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	err := s.src.Refresh()
	switch {
	case err == nil:
		writeJSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
	case errors.Is(err, connection.ErrNotConnected):
		writeJSON(w, http.StatusConflict, map[string]string{
			"status": "not_connected",
			"state":  s.src.State().String(),
		})
	default:
		s.logger.Warn("refresh failed", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"status": "failed", "error": err.Error()})
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.status())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	state := s.src.State()
	code := http.StatusOK
	if state != connection.StateOpen {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]string{"state": state.String()})
}

func (s *Server) status() Status {
	st := s.src.Stats()
	return Status{
		State:            st.State.String(),
		Renders:          s.src.Renders(),
		Connects:         st.Connects,
		Disconnects:      st.Disconnects,
		FailedDials:      st.FailedDials,
		MessagesReceived: st.MessagesReceived,
		CommandsSent:     st.CommandsSent,
		CommandsDropped:  st.CommandsDropped,
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
