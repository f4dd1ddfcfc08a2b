package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rickgao/fx-ticks/internal/calendar"
	"github.com/rickgao/fx-ticks/internal/config"
	"github.com/rickgao/fx-ticks/internal/datafeed"
	"github.com/rickgao/fx-ticks/internal/logger"
	"github.com/rickgao/fx-ticks/internal/metrics"
	"github.com/rickgao/fx-ticks/internal/model"
	"github.com/rickgao/fx-ticks/internal/pipeline"
	"github.com/rickgao/fx-ticks/internal/runner"
	"github.com/rickgao/fx-ticks/internal/transform"
	"github.com/rickgao/fx-ticks/internal/version"
	"github.com/rickgao/fx-ticks/internal/writer"
)

// Exit codes.
const (
	exitOK      = 0
	exitSetup   = 1
	exitTimeout = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stderr io.Writer) int {
	opts, fs, err := parseFlags(args, stderr)
	if err != nil {
		return exitSetup
	}

	// Load configuration
	cfg, err := config.LoadWithDefaults(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "load config: %v\n", err)
		return exitSetup
	}
	opts.apply(fs, cfg)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stderr, "validate config: %v\n", err)
		return exitSetup
	}

	// Set up structured logging
	log, syncLog, err := logger.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(stderr, "create logger: %v\n", err)
		return exitSetup
	}
	defer syncLog()
	slog.SetDefault(log)

	log.Info("starting fxloader",
		"version", version.Version,
		"commit", version.Commit,
		"config", opts.configPath,
	)

	parsedPair, _ := model.ParsePair(cfg.Job.Pair)
	start, end, err := calendar.ParseDates(cfg.Job.Start, cfg.Job.End, time.Now())
	if err != nil {
		log.Error("invalid date range", "error", err)
		return exitSetup
	}

	kind, err := writer.ParseKind(cfg.Sink.Kind)
	if err != nil {
		log.Error("invalid sink", "error", err)
		return exitSetup
	}

	// Metrics
	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m = metrics.New(reg)

		srv := startMetricsServer(cfg.Metrics, reg, log)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	// Sink
	sink, closeSink, err := writer.Open(ctx, cfg.Sink, log)
	if err != nil {
		log.Error("failed to open sink", "sink", kind.String(), "error", err)
		return exitSetup
	}
	defer func() {
		if err := closeSink(); err != nil {
			log.Warn("failed to close sink", "error", err)
		}
	}()

	feed := datafeed.NewClient(
		cfg.Feed.BaseURL,
		datafeed.WithLogger(log),
		datafeed.WithTimeout(cfg.Feed.Timeout),
		datafeed.WithRetries(cfg.Feed.MaxRetries, cfg.Feed.RetryBackoff),
	)

	p := pipeline.New(feed, sink, pipeline.NewLogRecorder(log),
		pipeline.WithTransformer(transform.New(transform.WithPairTag(kind.NeedsPair()))),
		pipeline.WithMetrics(m),
		pipeline.WithLogger(log),
	)

	r := runner.New(runner.Config{
		Workers:       cfg.Runner.Workers,
		PollInterval:  cfg.Runner.PollInterval,
		ResultTimeout: cfg.Runner.ResultTimeout,
	}, p, log, runner.WithMetrics(m))

	log.Info(fmt.Sprintf("loading %s data from %s to %s", parsedPair, start, end),
		"pair", cfg.Job.Pair,
		"sink", kind.String(),
	)

	outcome, err := r.Run(ctx, calendar.Units(cfg.Job.Pair, start, end))
	if err != nil {
		log.Error("batch failed", "error", err)
		if errors.Is(err, runner.ErrWorkerTimeout) {
			return exitTimeout
		}
		return exitSetup
	}

	log.Info(fmt.Sprintf("positive flags emitted: %d / %d", outcome.Succeeded(), outcome.Total()))
	if failed := outcome.Failed(); len(failed) > 0 {
		hours := make([]string, len(failed))
		for i, u := range failed {
			hours[i] = u.Hour.Format(time.RFC3339)
		}
		log.Warn("units failed", "count", len(failed), "hours", hours)
	}
	log.Info(fmt.Sprintf("processed all data for %s from %s to %s", parsedPair, start, end))

	return exitOK
}

func startMetricsServer(cfg config.MetricsConfig, reg *prometheus.Registry, log *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle(cfg.Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("starting metrics server", "port", cfg.Port, "path", cfg.Path)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server error", "error", err)
		}
	}()
	return srv
}
