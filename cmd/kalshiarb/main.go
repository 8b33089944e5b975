package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/alejandrodnm/kalshiarb/config"
	"github.com/alejandrodnm/kalshiarb/internal/adapters/anomaly"
	"github.com/alejandrodnm/kalshiarb/internal/adapters/kalshi"
	"github.com/alejandrodnm/kalshiarb/internal/adapters/notify"
	"github.com/alejandrodnm/kalshiarb/internal/adapters/paper"
	"github.com/alejandrodnm/kalshiarb/internal/adapters/storage"
	"github.com/alejandrodnm/kalshiarb/internal/arbitrage"
	"github.com/alejandrodnm/kalshiarb/internal/metrics"
	"github.com/alejandrodnm/kalshiarb/internal/monitor"
	"github.com/alejandrodnm/kalshiarb/internal/ports"
)

// options son los flags que no viven en la configuración.
type options struct {
	configPath string
	once       bool
	table      bool
	sweeps     time.Duration
}

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	once := flag.Bool("once", false, "run one pass over the events and exit")
	dryRun := flag.Bool("dry-run", false, "simulate orders against a paper account")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	table := flag.Bool("table", false, "print sums/triggers table and legs (default: compact 1-line)")
	events := flag.String("events", "", "comma separated event tickers (overrides config)")
	metricsAddr := flag.String("metrics-addr", "", "prometheus listen address, e.g. :9090 (overrides config)")
	sweeps := flag.Duration("sweeps", 0, "print journaled sweeps from the last duration (e.g. 24h) and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	if *events != "" {
		cfg.SetEvents(*events)
	}
	if *metricsAddr != "" {
		cfg.Metrics.Addr = *metricsAddr
	}
	if *dryRun {
		cfg.DryRun.Enabled = true
	}
	closeLog := setupLogger(cfg.Log)

	opts := options{configPath: *configPath, once: *once, table: *table, sweeps: *sweeps}
	if err := run(cfg, opts); err != nil {
		slog.Error("kalshiarb exited with error", "err", err)
		closeLog()
		os.Exit(1)
	}
	closeLog()
}

// run arma y ejecuta el bot. Todos los recursos abiertos aquí se cierran
// con defer antes de volver, también en los caminos de error.
func run(cfg *config.Config, opts options) error {
	if opts.sweeps > 0 {
		return printSweeps(os.Stdout, cfg.Storage.DSN, opts.sweeps)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	slog.Info("kalshiarb starting",
		"config", opts.configPath,
		"events", cfg.Events,
		"min_balance", cfg.Trade.MinBalanceCents,
		"margin", cfg.Trade.MarginCents,
		"dry_run", cfg.DryRun.Enabled,
		"once", opts.once,
	)

	client, err := newKalshiClient(cfg.API)
	if err != nil {
		return fmt.Errorf("load API key %q: %w", cfg.API.PrivateKeyPath, err)
	}

	var (
		balances ports.BalanceProvider = client
		orders   ports.OrderExecutor   = client
	)
	if cfg.DryRun.Enabled {
		acc := paper.NewAccount(cfg.DryRun.StartBalanceCents)
		balances, orders = acc, acc
		slog.Warn("[DRY RUN] orders will not be sent", "start_balance", cfg.DryRun.StartBalanceCents)
	}

	var journal ports.SweepJournal
	if cfg.Storage.DSN != "" {
		store, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
		if err != nil {
			return fmt.Errorf("open storage %q: %w", cfg.Storage.DSN, err)
		}
		defer store.Close()
		journal = store
	}

	anomalies := anomaly.NewFileLog(anomaly.Options{
		Path:       cfg.AnomalyLog.Path,
		MaxSizeMB:  cfg.AnomalyLog.MaxSizeMB,
		MaxBackups: cfg.AnomalyLog.MaxBackups,
		MaxAgeDays: cfg.AnomalyLog.MaxAgeDays,
		Compress:   cfg.AnomalyLog.Compress,
	})
	defer anomalies.Close()

	engine := arbitrage.NewEngine(
		arbitrage.TradeConfig{MinBalance: cfg.Trade.MinBalanceCents, Margin: cfg.Trade.MarginCents},
		arbitrage.NewGuard(balances),
		arbitrage.NewExecutor(orders),
	)

	m := metrics.New()
	mon := monitor.New(
		monitor.Config{Events: cfg.Events},
		client,
		engine,
		anomalies,
		journal,
		notify.NewConsole(opts.table),
		m,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if opts.once {
		reports := mon.RunOnce(ctx)
		slog.Info("single pass complete", "events_checked", len(reports), "events", len(cfg.Events))
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return metrics.Serve(gctx, cfg.Metrics.Addr, m.Registry())
	})
	g.Go(func() error {
		defer cancel() // el monitor terminó: parar también el servidor de métricas
		return mon.Run(gctx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("kalshiarb stopped cleanly")
	return nil
}

func newKalshiClient(cfg config.APIConfig) (*kalshi.Client, error) {
	opts := kalshi.Options{
		BaseURL:    cfg.BaseURL,
		KeyID:      cfg.KeyID,
		RatePerSec: cfg.RateLimitPerS,
		Burst:      cfg.Burst,
		MaxRetries: cfg.MaxRetries,
	}
	opts.Timeouts.MarketData, opts.Timeouts.Balance, opts.Timeouts.Order = cfg.Timeouts()

	if cfg.PrivateKeyPath != "" {
		key, err := kalshi.LoadPrivateKey(cfg.PrivateKeyPath)
		if err != nil {
			return nil, err
		}
		opts.PrivateKey = key
	}
	return kalshi.NewClient(opts), nil
}

var errJournalDisabled = errors.New("sweep journal disabled: storage.dsn is empty")

// printSweeps imprime los sweeps del journal de la última ventana.
func printSweeps(w io.Writer, dsn string, window time.Duration) error {
	if dsn == "" {
		return errJournalDisabled
	}

	store, err := storage.NewSQLiteStorage(dsn)
	if err != nil {
		return fmt.Errorf("open journal %q: %w", dsn, err)
	}
	defer store.Close()

	to := time.Now().UTC()
	sweeps, err := store.GetSweeps(context.Background(), to.Add(-window), to)
	if err != nil {
		return err
	}
	notify.PrintSweeps(w, sweeps)
	return nil
}

// setupLogger configura slog y, si cfg.File no está vacío, duplica la salida
// en un fichero rotado. Devuelve la función que lo cierra.
func setupLogger(cfg config.LogConfig) func() {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	var (
		out     io.Writer = os.Stdout
		closeFn           = func() {}
	)
	if cfg.File != "" {
		fileLogger := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     28, // días
		}
		out = io.MultiWriter(os.Stdout, fileLogger)
		closeFn = func() { fileLogger.Close() }
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	slog.SetDefault(slog.New(handler))
	return closeFn
}
