// Package main runs the in-memory development server for the MedInventory
// API.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/medinventory/medinv/internal/devserver"
)

// Version is set at compile time via ldflags.
var Version = "dev"

func main() {
	const serviceName = "medinv-devserver"

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	port := os.Getenv("MEDINV_DEV_PORT")
	if port == "" {
		port = "3000"
	}

	signingKey := os.Getenv("MEDINV_DEV_SIGNING_KEY")
	if signingKey == "" {
		log.Warn().Msg("using default signing key - dev use only")
	}

	server := devserver.New(devserver.Config{
		SigningKey:   signingKey,
		SeedDemoData: os.Getenv("MEDINV_DEV_SEED") != "false",
		Logger:       log,
	})

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      server,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("dev server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down dev server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("dev server stopped")
}
