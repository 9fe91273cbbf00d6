package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/DoyleJ11/starkwolf-lobby/internal/config"
	"github.com/DoyleJ11/starkwolf-lobby/internal/httpapi"
	"github.com/DoyleJ11/starkwolf-lobby/internal/hub"
	"github.com/DoyleJ11/starkwolf-lobby/internal/launch"
	"github.com/DoyleJ11/starkwolf-lobby/internal/logging"
	"github.com/DoyleJ11/starkwolf-lobby/internal/telemetry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		config.Exitf("config: %v", err)
	}

	log, err := logging.New(cfg.Development())
	if err != nil {
		config.Exitf("logger: %v", err)
	}
	defer log.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, "starkwolf-lobby", cfg.OTLPEndpoint)
	if err != nil {
		log.Fatal("tracing setup", zap.Error(err))
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	launchers := launch.Multi{launch.LogLauncher{Logger: log}}
	if cfg.DatabaseURL != "" {
		gl, err := launch.OpenPostgres(cfg.DatabaseURL)
		if err != nil {
			log.Fatal("launch store", zap.Error(err))
		}
		defer gl.Close()
		launchers = append(launchers, gl)
	}

	h := hub.NewHub(ctx, hub.Options{
		TickInterval: cfg.TickInterval,
		Launcher:     launchers,
		Logger:       log,
	})

	// Build the router *with* the hub injected
	handler := httpapi.SetupRoutes(h, httpapi.Options{Logger: log, PublicBaseURL: cfg.PublicBaseURL})

	srv := &http.Server{Addr: cfg.Addr, Handler: handler, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done() // the hub shuts its lobbies down on the same signal
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()

	log.Info("listening", zap.String("addr", cfg.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server", zap.Error(err))
	}
}
