package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/abgdnv/bookstore/internal/app"
	"github.com/abgdnv/bookstore/internal/config"
	"github.com/abgdnv/bookstore/pkg/bootstrap"
	"github.com/abgdnv/bookstore/pkg/config/configloader"
	"github.com/abgdnv/bookstore/pkg/logger"
	"github.com/abgdnv/bookstore/pkg/messaging"
	natsclient "github.com/abgdnv/bookstore/pkg/nats"
	"golang.org/x/sync/errgroup"
)

const serviceName = "bookstore"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("application run failed: %v", err)
		os.Exit(1)
	}
	log.Println("application stopped gracefully")
}

// run initializes the application, sets up the database connection, and starts the HTTP and pprof servers.
func run(ctx context.Context) error {
	cfg, cfgErr := configloader.Load[*config.Config](serviceName)
	if cfgErr != nil {
		return fmt.Errorf("failed to load configuration: %w", cfgErr)
	}
	log.Printf("Configuration loaded: %v", cfg)

	baseLogger := bootstrap.NewLogger(cfg.Log.Level)
	appLogger := slog.New(logger.NewContextHandler(baseLogger.Handler()))
	slog.SetDefault(appLogger)

	dbPool, err := bootstrap.NewDbPool(ctx, cfg.Database.URL, cfg.Database.Timeout)
	if err != nil {
		return fmt.Errorf("failed to create database connection pool: %w", err)
	}
	defer dbPool.Close()
	appLogger.Info("Successfully connected to the database!")

	publisher, closeNats, err := setupPublisher(cfg, appLogger)
	if err != nil {
		return err
	}
	defer closeNats()

	deps := app.SetupDependencies(dbPool, publisher, appLogger)
	httpServer := app.SetupHttpServer(deps, cfg)
	pprofServer := &http.Server{
		Addr: cfg.PProf.Addr,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Start the HTTP server
	g.Go(func() error {
		appLogger.Info("HTTP server listening", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})
	// gracefully shutdown HTTP server on context cancellation
	g.Go(func() error {
		<-gCtx.Done()
		appLogger.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	// Start the pprof server if enabled
	if cfg.PProf.Enabled {
		g.Go(func() error {
			appLogger.Info("Pprof server listening", slog.String("addr", pprofServer.Addr))
			if err := pprofServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("pprof server failed: %w", err)
			}
			return nil
		})
		// gracefully shutdown pprof server on context cancellation
		g.Go(func() error {
			<-gCtx.Done()
			appLogger.Info("Shutting down pprof server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
			defer cancel()
			return pprofServer.Shutdown(shutdownCtx)
		})
	}
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("errgroup encountered an error: %w", err)
	}
	return nil
}

// setupPublisher connects to NATS when enabled, otherwise returns a no-op
// publisher so the core runs without a broker.
func setupPublisher(cfg *config.Config, appLogger *slog.Logger) (messaging.Publisher, func(), error) {
	if !cfg.Nats.Enabled {
		appLogger.Info("NATS is disabled, order events will not be published")
		return messaging.NoopPublisher{}, func() {}, nil
	}

	nc, err := natsclient.NewClient(cfg.Nats.Url, cfg.Nats.Timeout)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	js, err := natsclient.NewJetStreamContext(nc)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}
	appLogger.Info("Successfully connected to NATS", slog.String("url", cfg.Nats.Url))
	return natsclient.NewNatsPublisher(js), nc.Close, nil
}
