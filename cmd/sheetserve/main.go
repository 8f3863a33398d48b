// Command sheetserve serves window queries over files in a directory
// as a JSON API.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	sheethttp "github.com/meigma/sheet/http"
)

func main() {
	// Load .env if present; real environment variables win otherwise.
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	addr := envOr("SHEET_ADDR", ":8080")
	root := envOr("SHEET_ROOT", ".")

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	handler := sheethttp.NewHandler(root, sheethttp.WithLogger(logger))

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown failed", "error", err)
		}
		if err := handler.Close(); err != nil {
			logger.Error("session cleanup failed", "error", err)
		}
	}()

	logger.Info("serving", "addr", addr, "root", root)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
