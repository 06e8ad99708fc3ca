package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pipeline-builder/infrastructure/config"
	"pipeline-builder/infrastructure/di"
	"pipeline-builder/interfaces/http/rest"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize dependency container
	container, cleanup, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer cleanup()

	router := rest.NewRouter(
		container.CommandBus,
		container.QueryBus,
		container.Metrics,
		rest.RouterConfig{
			CORSOrigins: cfg.CORSOrigins,
			Debug:       cfg.IsDevelopment(),
		},
		container.Logger,
	)

	srv := &http.Server{
		Addr:         cfg.ServerAddress,
		Handler:      router.Setup(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		container.Logger.Info("Starting server",
			zap.String("address", cfg.ServerAddress),
			zap.String("environment", cfg.Environment),
			zap.String("validation_endpoint", cfg.ValidationEndpoint),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if container.CatalogWatcher != nil {
		g.Go(func() error {
			return container.CatalogWatcher.Run(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		container.Logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		container.Logger.Error("Server stopped with error", zap.Error(err))
	}

	_ = container.Logger.Sync()
	log.Println("Server stopped")
}
