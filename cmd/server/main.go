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

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"tabsplit/internal/config"
	"tabsplit/internal/recognition"
	"tabsplit/internal/server"
	"tabsplit/internal/service"
	"tabsplit/internal/storage/memory"
	"tabsplit/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	// Room state is in-memory for the process lifetime; each session owns
	// its own room.
	store := memory.New()
	defer store.Close()

	var recognizer recognition.Provider
	if cfg.RecognitionURL != "" {
		recognizer = recognition.NewClient(cfg.RecognitionURL, cfg.RecognitionTimeout)
		slog.Info("Using recognition service", "url", cfg.RecognitionURL)
	} else {
		recognizer = &recognition.Stub{
			Delay:   cfg.RecognitionStubDelay,
			Records: recognition.DefaultStubRecords,
		}
		slog.Info("No RECOGNITION_URL set, using stub recognizer", "delay", cfg.RecognitionStubDelay)
	}

	svc := service.NewRoomService(store, recognizer)
	handler := server.New(svc).Routes(cfg.CORSAllowedOrigins)

	// h2c allows HTTP/2 without TLS for local and proxied deployments.
	h2cHandler := h2c.NewHandler(handler, &http2.Server{})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           h2cHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "address", srv.Addr, "url", fmt.Sprintf("http://localhost%s", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Shutdown failed", "error", err)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}
}
