// Package main - Entry point for the glazeworks storefront API server
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"glazeworks/api"
	"glazeworks/core/diagnosis"
	"glazeworks/core/modification"
	"glazeworks/internal/config"
	"glazeworks/internal/logging"
)

const version = "0.1.0"

func main() {
	cfgPath := flag.String("config", "", "config file (yaml or json)")
	addr := flag.String("addr", "", "server address, overrides config")
	flag.Parse()

	if err := run(*cfgPath, *addr); err != nil {
		fmt.Fprintf(os.Stderr, "glazeworks: %v\n", err)
		os.Exit(1)
	}
}

func run(cfgPath, addr string) error {
	// An empty or missing path still picks up GLAZE_* overrides.
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	config.Set(cfg)

	if err := logging.Initialize(cfg.Logging); err != nil {
		return err
	}
	defer logging.Sync()

	catalog, err := cfg.Pricing.Catalog()
	if err != nil {
		return err
	}

	apiServer := api.NewServer(api.Options{
		Version:        version,
		Catalog:        catalog,
		Presets:        modification.DefaultCatalogue(),
		Analyzer:       diagnosis.Fallback{},
		StrictWetSize:  cfg.Pricing.StrictWetSize,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		RequestTimeout: time.Duration(cfg.Server.RequestTimeoutSeconds) * time.Second,
		Logger:         logging.Component("api"),
	})

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           apiServer,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logging.Info("glazeworks server listening",
			zap.String("addr", cfg.Server.Addr),
			zap.String("version", version),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logging.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
