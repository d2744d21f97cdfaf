package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"caterhub/internal/adapters/in/http/middleware"
	dimall "caterhub/internal/platform/di/mall"
	"caterhub/internal/platform/di/shared"
)

func main() {
	ctx := context.Background()

	// ─────────────────────────────────────────────────────────────
	// Log output: file + stdout
	// ─────────────────────────────────────────────────────────────
	if f, err := os.OpenFile("caterhub-api.log", os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644); err == nil {
		log.SetOutput(io.MultiWriter(os.Stdout, f))
		log.Printf("[boot] log output = stdout + caterhub-api.log")
	} else {
		log.Printf("[boot] WARN: could not open caterhub-api.log: %v", err)
	}

	// ─────────────────────────────────────────────────────────────
	// Lightweight healthz first so PORT is LISTENed quickly
	// ─────────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// ─────────────────────────────────────────────────────────────
	// DI container & heavy deps; keep /healthz even on failure
	// ─────────────────────────────────────────────────────────────
	var (
		cont          *dimall.Container
		allowedOrigin string
	)
	if infra, err := shared.NewInfra(ctx); err != nil {
		log.Printf("[boot] WARN: infra init failed: %v (serving /healthz only)", err)
	} else if c, err := dimall.NewContainer(ctx, infra); err != nil {
		log.Printf("[boot] WARN: di init failed: %v (serving /healthz only)", err)
		_ = infra.Close()
	} else {
		cont = c
		defer cont.Close()
		allowedOrigin = infra.Config.AllowedOrigin

		dimall.Register(mux, cont)
	}

	// ─────────────────────────────────────────────────────────────
	// Port resolution: config → env:PORT → 8080
	// ─────────────────────────────────────────────────────────────
	port := ""
	if cont != nil && cont.Infra != nil && cont.Infra.Config != nil {
		port = cont.Infra.Config.Port
	}
	if port == "" {
		if p := os.Getenv("PORT"); p != "" {
			port = p
		} else {
			port = "8080"
		}
	}

	// ─────────────────────────────────────────────────────────────
	// Global CORS wrapper (covers /healthz and app routes)
	// ─────────────────────────────────────────────────────────────
	handler := middleware.CORS(allowedOrigin)(middleware.Recover(mux))

	srv := &http.Server{
		Addr:        ":" + port,
		Handler:     handler,
		ReadTimeout: 10 * time.Second,
		// no WriteTimeout: the cart badge stream is a long-lived SSE response
		IdleTimeout: 60 * time.Second,
	}

	// ─────────────────────────────────────────────────────────────
	// Graceful shutdown for Cloud Run
	// ─────────────────────────────────────────────────────────────
	idleConnsClosed := make(chan struct{})
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		sig := <-c
		log.Printf("[boot] received signal: %v; shutting down...", sig)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("[boot] server shutdown error: %v", err)
		}
		close(idleConnsClosed)
	}()

	log.Printf("[boot] listening on :%s", port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("[boot] server error: %v", err)
	}

	<-idleConnsClosed
	log.Printf("[boot] server stopped")
}
