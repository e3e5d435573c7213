package main

import (
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vango-dev/safecontext/internal/config"
	"github.com/vango-dev/safecontext/internal/demo"
	"github.com/vango-dev/safecontext/internal/errors"
	"github.com/vango-dev/safecontext/pkg/instrument"
	"github.com/vango-dev/safecontext/pkg/safecontext"
)

// app is the wiring shared by the commands.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	metrics  *prometheus.Registry
	registry *demo.Registry
	missing  *missingLog
}

// missingLog records the contexts found missing since the last take.
type missingLog struct {
	safecontext.NopObserver

	mu       sync.Mutex
	contexts []string
}

func (l *missingLog) ContextMissing(context string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.contexts = append(l.contexts, context)
}

func (l *missingLog) take() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	contexts := l.contexts
	l.contexts = nil
	return contexts
}

func newApp(flags *globalFlags) (*app, error) {
	cfg, err := loadConfig(flags.configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := parseLevel(flags.logLevel)
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	a := &app{cfg: cfg, logger: logger, missing: &missingLog{}}

	observers := []safecontext.Observer{
		a.missing,
		instrument.NewTracing(instrument.WithTracerName(cfg.Tracing.TracerName)),
	}
	if cfg.Metrics.Enabled {
		a.metrics = prometheus.NewRegistry()
		observers = append(observers, instrument.NewMetrics(
			instrument.WithRegistry(a.metrics),
			instrument.WithNamespace(cfg.Metrics.Namespace),
		))
	}

	a.registry = demo.NewRegistry(
		demo.NewContexts(safecontext.Observers(observers...), logger),
		cfg.Scenarios,
	)
	return a, nil
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	return config.LoadFromWorkingDir()
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return level, errors.New(errors.CodeConfigInvalid).
			WithDetail("unknown log level " + s).
			WithExample("--log-level=debug")
	}
	return level, nil
}
