package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/harrygamon/Socials/internal/config"
	"github.com/harrygamon/Socials/internal/logger"
	"github.com/harrygamon/Socials/internal/middleware"
)

// NewRouter builds the chi router with the global middleware chain and
// mounts every registrar's routes.
func NewRouter(cfg *config.Config, registrars ...Registrar) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	auth := middleware.Auth(cfg.Auth.JWTSecret)
	for _, reg := range registrars {
		reg.Register(r, auth)
	}

	return r
}

// StartHTTPServer boots the HTTP server and blocks until SIGINT/SIGTERM,
// then drains in-flight requests.
func StartHTTPServer(cfg *config.Config, registrars ...Registrar) error {
	addr := fmt.Sprintf("%s:%s", cfg.HTTP.Host, cfg.HTTP.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      NewRouter(cfg, registrars...),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case sig := <-quit:
		logger.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
