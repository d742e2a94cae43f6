package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/valentinpelus/feedbox/internal/handler"
	"github.com/valentinpelus/feedbox/internal/middleware"
)

// Server wraps the HTTP server
type Server struct {
	port            string
	feedbackHandler *handler.FeedbackHandler
	requestLogger   *middleware.RequestLogger
	log             *zap.SugaredLogger
}

// New creates a new HTTP server
func New(port string, feedbackHandler *handler.FeedbackHandler, log *zap.SugaredLogger) *Server {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Server{
		port:            port,
		feedbackHandler: feedbackHandler,
		requestLogger:   middleware.NewRequestLogger(log),
		log:             log,
	}
}

// Router configures HTTP routes
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestLogger.Handler)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/feedback", s.feedbackHandler.Submit).Methods(http.MethodPost)
	api.HandleFunc("/feedback", s.feedbackHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/feedback", s.feedbackHandler.Clear).Methods(http.MethodDelete)
	api.HandleFunc("/feedback/stats", s.feedbackHandler.Stats).Methods(http.MethodGet)
	api.HandleFunc("/feedback/export", s.feedbackHandler.Export).Methods(http.MethodGet)

	r.HandleFunc("/health", handler.HandleHealth).Methods(http.MethodGet)
	return r
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.port,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Infow("HTTP server listening", "port", s.port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.log.Infow("Shutting down HTTP server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
