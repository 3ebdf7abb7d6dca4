package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/cityhospital/carebot/internal/bot"
	"github.com/cityhospital/carebot/internal/config"
	"github.com/cityhospital/carebot/internal/logger"
	"github.com/cityhospital/carebot/internal/menu"
	"github.com/cityhospital/carebot/internal/metrics"
	"github.com/cityhospital/carebot/internal/sentry"
	"github.com/cityhospital/carebot/internal/store"
	"github.com/cityhospital/carebot/internal/whatsapp"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the webhook server (default)",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return err
	}
	slog.SetDefault(log)
	appLog := log.With("component", "cmd.serve")

	if err := sentry.Initialize(sentry.Config{
		DSN:         cfg.SentryDSN,
		Environment: cfg.SentryEnvironment,
		Release:     "carebot@" + version,
	}); err != nil {
		appLog.Warn("Sentry disabled, initialization failed", "error", err)
	}
	defer sentry.Flush(2 * time.Second)

	if cfg.VerifyTokenGenerated {
		appLog.Warn("WA_VERIFY_TOKEN not set, generated one for this process", "verify_token", cfg.WAVerifyToken)
	}
	if !cfg.OutboundEnabled() {
		appLog.Warn("WA_ACCESS_TOKEN or WA_PHONE_NUMBER_ID not set, replies will not be sent")
	}

	var registry *prometheus.Registry
	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		m = metrics.New(registry)
	}

	opts := []bot.Option{
		bot.WithLogger(log),
		bot.WithMetrics(m),
		bot.WithSendTimeout(cfg.SendTimeout),
	}
	if cfg.JournalEnabled {
		journal, err := store.NewBoltStore(cfg.JournalPath())
		if err != nil {
			return fmt.Errorf("journal: %w", err)
		}
		defer journal.Close()
		opts = append(opts, bot.WithJournal(journal))
	}

	style, err := menu.ParseStyle(cfg.MenuStyle)
	if err != nil {
		return err
	}
	catalog := menu.DefaultCatalog()
	wa := whatsapp.NewClient(cfg.WAPhoneNumberID, cfg.WAAccessToken, whatsapp.WithBaseURL(cfg.WAAPIBaseURL))
	handler := bot.NewHandler(menu.NewClassifier(catalog), menu.NewBuilder(catalog, style), wa, opts...)
	webhook := whatsapp.NewWebhookHandler(cfg.WAVerifyToken, handler.HandleMessage, log, m)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(webhook, registry, log),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// The webhook answers only after the reply has been sent.
		WriteTimeout: cfg.SendTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		appLog.Info("Listening", "addr", srv.Addr, "menu_style", string(style), "journal", cfg.JournalEnabled, "metrics", cfg.MetricsEnabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		appLog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		appLog.Error("Server stopped with error", "error", err)
		return err
	}
	appLog.Info("Stopped")
	return nil
}
