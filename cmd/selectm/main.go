// Command selectm logs into the vendor ordering site, reports inventory
// availability for the configured brand and, depending on the configured
// action, adds it to the cart or runs the full checkout.
//
// It takes no arguments. The order file is read from Conf/configuration.ini
// unless SELECTM_CONFIG points elsewhere.
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

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aluiziolira/selectm/auth"
	"github.com/aluiziolira/selectm/cart"
	"github.com/aluiziolira/selectm/checkout"
	"github.com/aluiziolira/selectm/config"
	"github.com/aluiziolira/selectm/inventory"
	"github.com/aluiziolira/selectm/models"
	"github.com/aluiziolira/selectm/report"
	"github.com/aluiziolira/selectm/scraper"
	"github.com/aluiziolira/selectm/session"
)

func main() {
	cfg := config.DefaultConfig()
	if err := config.LoadRuntime(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "invalid environment: %v\n", err)
		os.Exit(1)
	}

	logger, _ := newLogger(cfg.Verbose)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metrics := session.NewMetrics()
	metricsServer := startMetricsServer(cfg.MetricsAddr, metrics)

	summary, err := run(ctx, cfg, os.Stdout, metrics)

	if metricsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("metrics server shutdown failed", slog.Any("error", err))
		}
		cancel()
	}

	if err != nil {
		slog.Error("run failed", slog.Any("error", err))
		os.Exit(1)
	}
	report.PrintSummary(os.Stdout, summary, cfg.ReportFile)
}

// run executes one complete pass: configuration, login, inventory and the
// configured action. The availability table is written to out.
func run(ctx context.Context, cfg *config.Config, out io.Writer, metrics *session.Metrics, opts ...session.Option) (*models.RunSummary, error) {
	if err := config.LoadFile(cfg, cfg.ConfigPath); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	summary := &models.RunSummary{
		StartTime: time.Now(),
		Action:    cfg.Action,
		Target:    cfg.BrandID,
	}
	defer func() {
		summary.EndTime = time.Now()
	}()

	slog.Info("starting run",
		slog.String("site_url", cfg.SiteURL),
		slog.String("action", cfg.Action),
		slog.String("brand_id", cfg.BrandID),
		slog.Int("barrels", cfg.Barrels),
	)

	sessionOpts := []session.Option{
		session.WithTimeout(cfg.Timeout),
		session.WithUserAgent(cfg.UserAgent),
		session.WithMetrics(metrics),
	}
	sess, err := session.New(cfg.SiteURL, append(sessionOpts, opts...)...)
	if err != nil {
		return summary, fmt.Errorf("create session: %w", err)
	}

	if err := auth.Login(ctx, sess, cfg.Credentials); err != nil {
		return summary, err
	}

	result, err := scraper.New(metrics).Fetch(ctx, sess)
	if err != nil {
		return summary, err
	}
	summary.Warnings = result.Warnings

	idx := inventory.NewIndex(result.Products)
	summary.ProductCount = idx.Len()
	report.PrintAvailability(out, idx.Products(), cfg.BrandID)
	if cfg.ReportFile != "" {
		if err := writeSnapshot(cfg.ReportFormat, cfg.ReportFile, idx.Products()); err != nil {
			return summary, err
		}
	}

	target, err := idx.MustFind(inventory.ByID(cfg.BrandID))
	summary.Found = err == nil
	summary.Available = idx.IsAvailable(cfg.BrandID)

	if cfg.Action == config.ActionReport {
		return summary, nil
	}
	if err != nil {
		return summary, fmt.Errorf("brand %s: %w", cfg.BrandID, err)
	}
	if !summary.Available {
		slog.Warn("target brand is not available, nothing ordered",
			slog.String("brand_id", target.ItemID),
			slog.String("name", target.DisplayName),
		)
		return summary, nil
	}

	switch cfg.Action {
	case config.ActionCart:
		err = cart.AddToCart(ctx, sess, target, cfg.Barrels)
	case config.ActionCheckout:
		err = checkout.New(checkout.OrderFor(target, cfg.Barrels), checkout.WithMetrics(metrics)).Run(ctx, sess)
	}
	if err != nil {
		return summary, err
	}
	summary.Ordered = true
	return summary, nil
}

func writeSnapshot(format, filename string, products []models.Product) error {
	writer, err := report.NewWriter(format, filename)
	if err != nil {
		return fmt.Errorf("create snapshot writer: %w", err)
	}
	if err := writer.Write(products); err != nil {
		writer.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := writer.Validate(); err != nil {
		return fmt.Errorf("snapshot validation failed: %w", err)
	}
	slog.Info("inventory snapshot written", slog.String("file", filename), slog.String("format", format))
	return nil
}

func startMetricsServer(addr string, metrics *session.Metrics) *http.Server {
	if addr == "" || metrics == nil {
		return nil
	}
	server := &http.Server{
		Addr:    addr,
		Handler: promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}),
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", slog.Any("error", err))
		}
	}()
	slog.Info("metrics server enabled", slog.String("addr", addr))
	return server
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stderr) {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
