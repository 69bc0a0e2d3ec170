package main

import (
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/baxromumarov/parx/internal/errors"
	"github.com/baxromumarov/parx/metrics"
	"github.com/baxromumarov/parx/params"
	"github.com/baxromumarov/parx/pool"
	"github.com/baxromumarov/parx/runner"
)

// app holds what the subcommands share once the persistent flags have been
// resolved.
type app struct {
	flags      settings
	configPath string
	printStats bool

	settings settings
	params   params.Params
	logger   *zap.Logger
	registry *prometheus.Registry
	orch     *runner.Orchestrator
	closers  []func()
}

func newApp() *app {
	return &app{flags: settings{}}
}

func (a *app) root() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "parx",
		Short:         "Run adaptive data-parallel computations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if !a.printStats {
				return nil
			}
			return a.writeMetrics(cmd.OutOrStdout())
		},
	}

	f := cmd.PersistentFlags()
	f.StringVar(&a.flags.Threads, "threads", "", `worker threads: "auto" or N (env `+envThreads+`)`)
	f.StringVar(&a.flags.Chunk, "chunk", "", `chunk size: "auto", N, "exact:N" or "min:N" (env `+envChunk+`)`)
	f.StringVar(&a.flags.Order, "order", "", `iteration order: "ordered" or "arbitrary" (env `+envOrder+`)`)
	f.StringVar(&a.flags.Pool, "pool", "", `thread pool: native, fixed, group or sequential (env `+envPool+`)`)
	f.StringVar(&a.flags.LogLevel, "log-level", "", `log level: debug, info, warn or error (env `+envLogLevel+`)`)
	f.StringVar(&a.configPath, "config", "", "YAML file with default settings")
	f.BoolVar(&a.printStats, "metrics", false, "print Prometheus metrics after the command")

	cmd.AddCommand(a.sumCmd(), a.parseCmd(), a.takeWhileCmd(), a.benchCmd())
	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	s := defaultSettings()
	if a.configPath != "" {
		if err := s.loadFile(a.configPath); err != nil {
			return err
		}
	}
	s.loadEnv()
	s.overlay(a.flags)
	a.settings = s

	p, err := params.Parse(s.Threads, s.Chunk, s.Order)
	if err != nil {
		return err
	}
	a.params = p

	logger, err := newLogger(s.LogLevel, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.logger = logger
	a.closers = append(a.closers, func() { _ = logger.Sync() })

	tp, err := a.newPool(s.Pool)
	if err != nil {
		return err
	}

	a.registry = prometheus.NewRegistry()
	a.orch = runner.New(
		runner.WithPool(tp),
		runner.WithLogger(logger),
		runner.WithObserver(metrics.New(a.registry, "")),
	)

	logger.Debug("configured",
		zap.Stringer("params", p),
		zap.String("pool", s.Pool),
		zap.Int("pool_threads", tp.MaxThreads()),
	)
	return nil
}

func newLogger(level string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, errors.WithStackTraceAndPrefix(err, "invalid log level")
	}

	enc := zap.NewDevelopmentEncoderConfig()
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), lvl)
	return zap.New(core).Named("parx"), nil
}

func (a *app) newPool(name string) (pool.ThreadPool, error) {
	n := params.AvailableParallelism()
	switch strings.ToLower(name) {
	case "native":
		return pool.NewNative(n), nil
	case "fixed":
		p := pool.NewFixed(n)
		a.closers = append(a.closers, p.Close)
		return p, nil
	case "group":
		return pool.NewGroup(n), nil
	case "sequential":
		return pool.Sequential{}, nil
	default:
		return nil, errors.Errorf("unknown pool %q: expected native, fixed, group or sequential", name)
	}
}

func (a *app) writeMetrics(w io.Writer) error {
	families, err := a.registry.Gather()
	if err != nil {
		return errors.New(err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return errors.New(err)
		}
	}
	return nil
}

// close releases the pool and flushes the logger. Closers run in reverse
// order of registration.
func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
