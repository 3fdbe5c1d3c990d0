// Command ls-orrery is a terminal orrery that places the planets from JPL
// Horizons ephemerides.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/litescript/ls-orrery/internal/config"
	"github.com/litescript/ls-orrery/internal/ephem"
	"github.com/litescript/ls-orrery/internal/logging"
	"github.com/litescript/ls-orrery/internal/metrics"
	"github.com/litescript/ls-orrery/internal/observability"
	"github.com/litescript/ls-orrery/internal/orrery"
	"github.com/litescript/ls-orrery/internal/report"
	"github.com/litescript/ls-orrery/internal/server"
	"github.com/litescript/ls-orrery/internal/state"
	"github.com/litescript/ls-orrery/internal/ui"
	"github.com/litescript/ls-orrery/internal/version"
)

// CLI flags for headless mode
var (
	summaryMode   bool
	watchInterval time.Duration
	jsonPath      string
	diffMode      bool
	eventsMode    bool
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the program and returns the process exit code. Deferred
// cleanup always runs before the code is returned.
func run(args []string) int {
	fs := flag.NewFlagSet("ls-orrery", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML config file")
	ephemMode := fs.String("ephem", "", "Ephemeris source: proxy or horizons")
	baseURL := fs.String("base-url", "", "Override the ephemeris endpoint")
	dateStr := fs.String("date", "", "Ephemeris date (YYYY-MM-DD), default today")
	refresh := fs.Duration("refresh", config.DefaultRefresh, "Refresh interval (e.g., 6h, 24h)")
	rateLimit := fs.Float64("rate", 0, "Max ephemeris requests per second (0 keeps config)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	logFile := fs.String("log-file", "", "Write logs to file instead of stderr")
	serveAddr := fs.String("serve", "", "Serve the planet-data backend on addr (e.g., :3000)")
	metricsAddr := fs.String("metrics-addr", "", "Serve Prometheus metrics on addr (e.g., :9090)")
	traceExporter := fs.String("trace", "", "Trace exporter: none or stdout")
	showVersion := fs.Bool("version", false, "Print version and exit")
	fs.BoolVar(&summaryMode, "summary", false, "Print text summary instead of TUI")
	fs.DurationVar(&watchInterval, "watch", 0, "Repeat refresh at interval (e.g., 30m)")
	fs.StringVar(&jsonPath, "json", "", "Export JSON snapshot to file (use - for stdout)")
	fs.BoolVar(&diffMode, "diff", false, "Show only position changes between refreshes")
	fs.BoolVar(&eventsMode, "events", false, "Show event log")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *showVersion {
		fmt.Printf("ls-orrery v%s\n", version.Version)
		return 0
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 2
		}
		cfg = loaded
	}

	// Flags given on the command line win over the config file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "ephem":
			cfg.Ephemeris.Mode = *ephemMode
		case "base-url":
			cfg.Ephemeris.BaseURL = *baseURL
		case "refresh":
			cfg.Refresh = config.Duration(*refresh)
		case "rate":
			cfg.Ephemeris.Rate = *rateLimit
		case "log-level":
			cfg.Log.Level = *logLevel
		case "log-file":
			cfg.Log.File = *logFile
		case "serve":
			cfg.Server.Addr = *serveAddr
		case "metrics-addr":
			cfg.Server.MetricsAddr = *metricsAddr
		case "trace":
			cfg.Trace = *traceExporter
		}
	})

	interval, clamped := config.ClampRefresh(cfg.RefreshInterval())
	cfg.Refresh = config.Duration(interval)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration:\n%v\n", err)
		return 2
	}
	mode, _ := cfg.Mode()

	date := state.Today()
	if *dateStr != "" {
		d, err := time.Parse(ephem.DateLayout, *dateStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: -date must be YYYY-MM-DD: %v\n", err)
			return 2
		}
		date = d
	}

	headless := summaryMode || jsonPath != "" || diffMode || eventsMode
	daemon := !headless && cfg.Server.Addr != ""

	// Set up logging
	logger := logging.New(logging.ParseLevel(cfg.Log.Level))
	var logOut io.Writer = os.Stderr
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: open log file: %v\n", err)
			return 1
		}
		defer f.Close()
		logOut = f
	} else if !headless && !daemon {
		// Keep the alternate screen clean.
		logOut = io.Discard
	}
	logger.SetOutput(logOut)

	if clamped {
		logger.Warn("refresh interval clamped to %v", interval)
	}

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		cancel()
	}()

	tp, shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfig{
		Exporter:    cfg.Trace,
		ServiceName: "ls-orrery",
		Writer:      logOut,
	}, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	defer observability.ShutdownWithTimeout(context.Background(), shutdownTracing, logger)

	collector := metrics.New()
	if cfg.Server.MetricsAddr != "" {
		stop := serveMetrics(cfg.Server.MetricsAddr, collector, logger)
		defer stop()
	}

	// Initialize components
	opts := []ephem.Option{
		ephem.WithMode(mode),
		ephem.WithTimeout(time.Duration(cfg.Ephemeris.Timeout)),
		ephem.WithRateLimit(cfg.Ephemeris.Rate, cfg.Ephemeris.Burst),
	}
	if cfg.Ephemeris.BaseURL != "" {
		opts = append(opts, ephem.WithBaseURL(cfg.Ephemeris.BaseURL))
	}
	client := ephem.NewClient(opts...)
	logger.With("mode", client.Mode()).With("url", client.BaseURL()).Debug("ephemeris client ready")

	stateMgr := state.NewManager(state.Config{
		MaxEvents:       state.DefaultConfig().MaxEvents,
		RefreshInterval: interval,
	}, orrery.NewBodies(cfg.Bodies, cfg.DistanceScale))
	stateMgr.SetObjects(orrery.NewObjects(cfg.Objects))
	stateMgr.SetDate(date)

	refresher := orrery.NewRefresher(client, stateMgr,
		orrery.WithLogger(logger.With("component", "refresher")),
		orrery.WithMetrics(collector),
		orrery.WithTracerProvider(tp),
	)

	if cfg.Server.Addr != "" {
		upstream := ephem.NewClient(
			ephem.WithMode(ephem.ModeHorizons),
			ephem.WithTimeout(time.Duration(cfg.Ephemeris.Timeout)),
			ephem.WithRateLimit(cfg.Ephemeris.Rate, cfg.Ephemeris.Burst),
		)
		srv := server.New(upstream, stateMgr, collector, logger.With("component", "server"))
		go func() {
			if err := srv.Listen(cfg.Server.Addr); err != nil {
				logger.Error("http server: %v", err)
				cancel()
			}
		}()
		defer func() {
			if err := srv.Shutdown(); err != nil {
				logger.Warn("http server shutdown: %v", err)
			}
		}()
	}

	if headless {
		if err := runHeadless(ctx, refresher, stateMgr); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	if daemon {
		runRefreshLoop(ctx, refresher, stateMgr, logger)
		return 0
	}

	model := ui.New(stateMgr, refresher.Refresh).WithContext(ctx)
	p := tea.NewProgram(model, tea.WithAltScreen())

	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		return 1
	}
	return 0
}

// runRefreshLoop refreshes immediately and then on every interval until
// ctx is canceled.
func runRefreshLoop(ctx context.Context, refresher *orrery.Refresher, stateMgr *state.Manager, logger *logging.Logger) {
	cycle := refresher.Refresh(ctx, stateMgr.Date())
	logger.Info("initial refresh: %d updated, %d failed", cycle.Updated(), cycle.Failed())

	ticker := time.NewTicker(stateMgr.RefreshInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("refresh loop shutting down")
			return
		case <-ticker.C:
			refresher.Refresh(ctx, stateMgr.Date())
		}
	}
}

// runHeadless handles all headless modes without starting the TUI.
func runHeadless(ctx context.Context, refresher *orrery.Refresher, stateMgr *state.Manager) error {
	isTTY := term.IsTerminal(int(os.Stdout.Fd()))
	prev := stateMgr.Bodies()

	outputOnce := func() error {
		cycle := refresher.Refresh(ctx, stateMgr.Date())
		if cycle.Canceled {
			return ctx.Err()
		}
		snap := stateMgr.Snapshot()
		if cycle.Updated() == 0 && cycle.Failed() > 0 {
			return fmt.Errorf("no body could be positioned: %w", snap.LastError)
		}

		if diffMode {
			report.WriteDiff(os.Stdout, report.ComputeDiff(prev, snap.Bodies), snap.Date)
			prev = snap.Bodies
			return nil
		}
		prev = snap.Bodies

		if jsonPath != "" {
			if err := writeJSON(jsonPath, snap); err != nil {
				return err
			}
		}

		if summaryMode {
			report.WriteSummaryTable(os.Stdout, snap, isTTY)
		}

		if eventsMode {
			fmt.Println()
			report.WriteEvents(os.Stdout, snap.Events, 10)
		}
		return nil
	}

	// Single run
	if watchInterval == 0 {
		return outputOnce()
	}

	// Watch mode: repeat at interval
	if err := outputOnce(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	ticker := time.NewTicker(watchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if !diffMode {
				fmt.Println()
			}
			if err := outputOnce(); err != nil && !errors.Is(err, context.Canceled) {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		}
	}
}

func writeJSON(path string, snap state.Snapshot) error {
	export := report.ExportSnapshot(snap)
	if path == "-" {
		if err := export.WriteJSON(os.Stdout); err != nil {
			return fmt.Errorf("write JSON to stdout: %w", err)
		}
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}
	defer f.Close()
	if err := export.WriteJSON(f); err != nil {
		return fmt.Errorf("write JSON to file: %w", err)
	}
	return nil
}

// serveMetrics exposes the collector on addr and returns a stop function.
func serveMetrics(addr string, m *metrics.Collector, logger *logging.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.With("addr", addr).Info("metrics listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server: %v", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
