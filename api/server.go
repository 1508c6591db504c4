// Package api exposes the assistant session over HTTP.
package api

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	appx "github.com/tanpawarit/facebank-assistant/app"
)

// Server serves the single session of the process. Requests are handled one
// at a time so each user event runs to completion before the next.
type Server struct {
	app      *appx.App
	validate *validator.Validate

	mu sync.Mutex

	httpServer *http.Server
}

func NewServer(a *appx.App) *Server {
	s := &Server{
		app:      a,
		validate: validator.New(),
	}
	s.httpServer = &http.Server{
		Addr:         a.Config.HTTPAddr,
		Handler:      s.Routes(),
		ReadTimeout:  a.Config.HTTPTimeout,
		WriteTimeout: a.Config.HTTPTimeout,
		IdleTimeout:  a.Config.IdleTimeout,
	}
	return s
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(hlog.NewHandler(log.Logger))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", middleware.GetReqID(r.Context())).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("request handled")
	}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(s.requireLogin)
			r.Post("/chat", s.handleChat)
			r.Post("/transcribe", s.handleTranscribe)
			r.Post("/reset", s.handleReset)
			r.Get("/account", s.handleAccount)
			r.Get("/messages", s.handleMessages)
			r.Get("/export", s.handleExport)
			r.Get("/export/{id}", s.handleArchivedExport)
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

func (s *Server) requireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		ok := s.app.Session.Authenticated
		s.mu.Unlock()
		if !ok {
			writeJSON(w, r, http.StatusUnauthorized, Error("face verification required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("address", s.httpServer.Addr).Msg("HTTP server starting")
		err := s.httpServer.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		log.Info().Msg("shutting down HTTP server gracefully")
		return s.httpServer.Shutdown(timeoutCtx)
	}
}

func requestLogger(r *http.Request) *zerolog.Logger {
	return hlog.FromRequest(r)
}
