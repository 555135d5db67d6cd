package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"cadastro-prestador-be/internal/bootstrap"
	"cadastro-prestador-be/internal/config"
	"cadastro-prestador-be/internal/server"
	"cadastro-prestador-be/internal/tracer"
	"cadastro-prestador-be/pkg/database"

	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer(cfg.App.OtelEnabled)
	defer func() { _ = shutdownTracer(context.Background()) }()

	// 3. Initialize Database
	gormDB, err := database.Open(cfg.Database.Connection, database.Options{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogSQL:          cfg.Database.LogSQL,
	})
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 4. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Close()

	srv := server.New(cfg, container)

	// 5. Run server, hub and consumer until a signal arrives
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		container.WebSocketHub.Run(gctx)
		return nil
	})

	g.Go(func() error {
		log.Println("Background: Starting Consumer Service...")
		return container.ConsumerService.Consume(gctx)
	})

	g.Go(srv.Run)

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Println("Shutting down server...")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
