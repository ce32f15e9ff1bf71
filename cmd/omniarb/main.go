// Package main is the entry point for the arbitrage profitability engine.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/omniarb/engine/business/arbitrage"
	arbitrageApp "github.com/omniarb/engine/business/arbitrage/app"
	arbitrageDI "github.com/omniarb/engine/business/arbitrage/di"
	"github.com/omniarb/engine/business/arbitrage/infra"
	"github.com/omniarb/engine/business/pricing"
	"github.com/omniarb/engine/internal/apm"
	"github.com/omniarb/engine/internal/config"
	"github.com/omniarb/engine/internal/health"
	"github.com/omniarb/engine/internal/logger"
	"github.com/omniarb/engine/internal/metrics"
	"github.com/omniarb/engine/internal/monolith"
	"github.com/omniarb/engine/pkg/ui"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to configuration file")
	cliMode := flag.Bool("cli", false, "Run in CLI mode with logs (no TUI)")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("omniarb %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	tuiMode := !*cliMode

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		if !tuiMode {
			fmt.Fprintf(os.Stderr, "received shutdown signal: %v\n", sig)
		}
		cancel()
	}()

	if err := run(ctx, *configPath, tuiMode); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, tuiMode bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.Scanner.TUIMode = tuiMode

	// In TUI mode logs would corrupt the dashboard, so discard them.
	logOut := io.Writer(os.Stderr)
	if tuiMode {
		logOut = io.Discard
	}
	log := logger.New(logOut, logger.ParseLevel(cfg.App.LogLevel), cfg.App.Name, nil)
	log.Info(ctx, "starting arbitrage profitability engine",
		"version", version,
		"environment", cfg.App.Environment,
	)

	var traceProvider apm.TraceProvider
	if cfg.Telemetry.Enabled {
		if cfg.Telemetry.ServiceName != "" {
			os.Setenv("OTEL_SERVICE_NAME", cfg.Telemetry.ServiceName)
		}
		if cfg.Telemetry.OTLPEndpoint != "" {
			os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Telemetry.OTLPEndpoint)
		}

		traceProvider = apm.NewTraceProvider(log,
			apm.WithProvider(apm.Provider(cfg.Telemetry.TraceProvider), log))
		log.Info(ctx, "tracing initialized", "provider", cfg.Telemetry.TraceProvider)

		if _, err := metrics.NewMetricProvider(
			metrics.WithServiceName(cfg.Telemetry.ServiceName),
			metrics.WithProviderConfig(metrics.NewPrometheusConfig()),
		); err != nil {
			log.Warn(ctx, "failed to initialize metrics", "error", err)
		} else {
			go metrics.ServePrometheusMetrics(metrics.WithPort(strconv.Itoa(cfg.Telemetry.PrometheusPort)))
			log.Info(ctx, "prometheus metrics server started", "port", cfg.Telemetry.PrometheusPort)
		}
	}
	defer func() {
		if traceProvider != nil {
			traceProvider.Stop()
		}
	}()

	healthServer := health.NewServer(cfg.Telemetry.HealthPort, version)
	if err := healthServer.Start(); err != nil {
		log.Warn(ctx, "failed to start health server", "error", err)
	} else {
		log.Info(ctx, "health server started", "port", cfg.Telemetry.HealthPort)
	}
	defer healthServer.Stop(ctx)

	mono := monolith.New(cfg, log)

	modules := []monolith.Module{
		&pricing.Module{},
		&arbitrage.Module{}, // depends on pricing for snapshots
	}

	if err := mono.RegisterModules(modules...); err != nil {
		return fmt.Errorf("failed to register modules: %w", err)
	}
	if err := mono.StartModules(ctx, modules...); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}

	scanner := arbitrageDI.GetScanner(mono.Services())

	if tuiMode {
		reporter, _ := arbitrageDI.GetReporter(mono.Services()).(*infra.TUIReporter)
		return runTUI(ctx, scanner, reporter)
	}
	return runCLI(ctx, scanner, log)
}

func runCLI(ctx context.Context, scanner *arbitrageApp.Scanner, log *logger.Logger) error {
	log.Info(ctx, "all modules started, beginning scan loop")

	err := scanner.Run(ctx)
	if errors.Is(err, context.Canceled) {
		log.Info(ctx, "shutting down")
		return nil
	}
	return err
}

func runTUI(ctx context.Context, scanner *arbitrageApp.Scanner, reporter *infra.TUIReporter) error {
	p := tea.NewProgram(ui.New(), tea.WithAltScreen())
	if reporter != nil {
		reporter.Attach(p)
	}

	scanCtx, cancelScan := context.WithCancel(ctx)
	defer cancelScan()

	errCh := make(chan error, 1)
	go func() {
		err := scanner.Run(scanCtx)
		if err != nil && !errors.Is(err, context.Canceled) {
			p.Send(ui.ErrorMsg{Error: err})
			errCh <- err
			return
		}
		errCh <- nil
	}()

	// Quit the dashboard when the outer context is canceled (signal).
	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	cancelScan()

	return <-errCh
}
