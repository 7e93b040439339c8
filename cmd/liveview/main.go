package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ogsc/liveview/internal/config"
	"github.com/ogsc/liveview/internal/connection"
	"github.com/ogsc/liveview/internal/output"
	"github.com/ogsc/liveview/internal/preview"
	"github.com/ogsc/liveview/internal/session"
	"github.com/ogsc/liveview/internal/version"
	"github.com/ogsc/liveview/internal/view"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	origin := flag.String("origin", "", "dashboard origin, overrides dashboard.origin (e.g. https://certs.example.com)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := loadConfig(*configPath, *origin)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = newLogger(cfg.Log, os.Stderr)
	slog.SetDefault(logger)

	logger.Info("starting liveview",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	if err := run(cfg, logger); err != nil {
		logger.Error("liveview failed", "error", err)
		os.Exit(1)
	}

	logger.Info("liveview stopped")
}

func loadConfig(path, origin string) (*config.Config, error) {
	var cfg *config.Config
	if path == "" {
		cfg = config.Default(origin)
	} else {
		var err error
		cfg, err = config.LoadWithDefaults(path)
		if err != nil {
			return nil, err
		}
		if origin != "" {
			cfg.Dashboard.Origin = origin
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func run(cfg *config.Config, logger *slog.Logger) error {
	wsURL, err := connection.DeriveURL(cfg.Dashboard.Origin, cfg.Dashboard.WSPath)
	if err != nil {
		return fmt.Errorf("derive websocket url: %w", err)
	}

	loc, err := time.LoadLocation(cfg.Dashboard.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}
	locale := view.NewLocale(cfg.Dashboard.Locale)
	renderer := view.NewRenderer(
		view.WithLocation(loc),
		view.WithLocale(locale),
		view.WithLogger(logger),
	)

	logger.Info("configuration loaded",
		"url", wsURL,
		"locale", locale.Tag().String(),
		"timezone", loc.String(),
		"reconnect_policy", cfg.Connection.ReconnectPolicy,
	)

	var sinks []session.Sink
	if cfg.Output.TerminalEnabled() {
		sinks = append(sinks, output.NewTerminal(os.Stdout,
			output.WithTerminalLocale(locale),
			output.WithClearScreen(cfg.Output.ClearScreen),
		))
	}
	if cfg.Output.HTMLPath != "" {
		sinks = append(sinks, output.NewHTMLFile(cfg.Output.HTMLPath, locale))
	}

	sess := session.New(session.Config{
		Manager:         managerConfig(cfg, wsURL),
		RefreshSchedule: cfg.Refresh.Schedule,
	}, renderer, logger, session.WithSinks(sinks...))

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	if err := sess.Start(ctx); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return sess.Stop(shutdownCtx)
	})

	if cfg.Preview.Addr != "" {
		srv := newPreview(cfg.Preview, sess, locale, logger)
		g.Go(func() error {
			return srv.Run(gctx, cfg.Preview.ShutdownTimeout)
		})
	}

	lines := readLines(os.Stdin)
	g.Go(func() error {
		return commands(gctx, lines, sess, cancel, logger)
	})

	logger.Info("liveview running", "session", sess.ID().String())
	return g.Wait()
}

func newPreview(cfg config.PreviewConfig, src preview.Source, locale view.Locale, logger *slog.Logger) *preview.Server {
	return preview.New(cfg.Addr, src, logger,
		preview.WithLocale(locale),
		preview.WithAutoReload(cfg.AutoReload),
	)
}

func managerConfig(cfg *config.Config, wsURL string) connection.ManagerConfig {
	mc := connection.DefaultManagerConfig()
	mc.Client.URL = wsURL
	mc.Client.UserAgent = version.UserAgent()
	mc.Client.PingTimeout = cfg.Connection.PingTimeout
	mc.Client.PingInterval = cfg.Connection.PingInterval
	mc.Client.WriteTimeout = cfg.Connection.WriteTimeout
	mc.Client.HandshakeTimeout = cfg.Connection.HandshakeTimeout
	mc.Client.BufferSize = cfg.Connection.BufferSize

	switch cfg.Connection.ReconnectPolicy {
	case config.PolicyExponential:
		mc.Policy = connection.NewExponentialDelay(
			cfg.Connection.ReconnectDelay,
			cfg.Connection.ReconnectMaxDelay,
			cfg.Connection.Jitter,
		)
	default:
		mc.Policy = connection.FixedDelay(cfg.Connection.ReconnectDelay)
	}
	return mc
}

// readLines forwards stdin lines. The channel closes at EOF.
func readLines(r io.Reader) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			ch <- strings.TrimSpace(sc.Text())
		}
	}()
	return ch
}

// commands handles keyboard input: r refreshes, s prints counters, q quits.
func commands(ctx context.Context, lines <-chan string, sess *session.Session, quit context.CancelFunc, logger *slog.Logger) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				// stdin closed, keep running until a signal
				lines = nil
				continue
			}
			switch line {
			case "r", "refresh":
				err := sess.Refresh()
				if err != nil && !errors.Is(err, connection.ErrNotConnected) {
					logger.Warn("refresh failed", "error", err)
				}
			case "s", "status":
				st := sess.Stats()
				logger.Info("status",
					"state", st.State.String(),
					"renders", sess.Renders(),
					"connects", st.Connects,
					"disconnects", st.Disconnects,
					"failed_dials", st.FailedDials,
					"messages", st.MessagesReceived,
					"commands_sent", st.CommandsSent,
					"commands_dropped", st.CommandsDropped,
				)
			case "q", "quit":
				logger.Info("quit requested")
				quit()
				return nil
			case "":
			default:
				logger.Info("unknown command (r = refresh, s = status, q = quit)", "input", line)
			}
		}
	}
}
