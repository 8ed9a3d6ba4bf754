// Package main runs the item-shop server: it serves the built front end,
// keeps the normalized catalog fresh and brokers buy/gift requests to the
// fulfillment backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	app "github.com/kiddarkness/itemshop/internal/app"
	"github.com/kiddarkness/itemshop/internal/app/httpapi"
	"github.com/kiddarkness/itemshop/internal/app/metrics"
	storageredis "github.com/kiddarkness/itemshop/internal/app/storage/redis"
	"github.com/kiddarkness/itemshop/internal/config"
	"github.com/kiddarkness/itemshop/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	flag.Parse()

	// .env is optional; environment wins either way.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewDefault("itemshop")
	log.SetLevel(cfg.LogLevel)

	stores := app.Stores{}
	if cfg.RedisAddr != "" {
		redisStore := storageredis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, time.Duration(cfg.SnapshotTTL))
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := redisStore.Ping(pingCtx)
		cancel()
		if err != nil {
			log.WithError(err).Error("redis unreachable")
			os.Exit(1)
		}
		defer redisStore.Close()
		stores.Snapshots = redisStore
		log.WithField("addr", cfg.RedisAddr).Info("catalog snapshots stored in redis")
	}

	application, err := app.New(cfg, stores, log)
	if err != nil {
		log.WithError(err).Error("build application")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := application.Start(ctx); err != nil {
		log.WithError(err).Error("start application")
		os.Exit(1)
	}

	handler := metrics.InstrumentHandler(httpapi.NewHandler(application, httpapi.Options{
		StaticDir:     cfg.StaticDir,
		DispatchRate:  cfg.DispatchRate,
		DispatchBurst: cfg.DispatchBurst,
	}))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("server listening")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.WithError(err).Error("server error")
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("server shutdown")
	}
	if err := application.Stop(shutdownCtx); err != nil {
		log.WithError(err).Warn("application stop")
	}

	log.Info("stopped")
}
