package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/flashkick/flashkick-agent/internal/forms"
	"github.com/flashkick/flashkick-agent/internal/history"
)

type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

type ServerConfig struct {
	Port          int
	LinkForm      *forms.LinkForm
	UploadForm    *forms.UploadForm
	Notifications *forms.NotificationLog
	History       history.Repository
	// UploadsDir receives browser uploads before they are sent to the backend.
	UploadsDir     string
	MaxUploadBytes int64
	// SubmitContext bounds background uploads. It outlives the request that
	// started them.
	SubmitContext context.Context
	Logger        *slog.Logger
	StartTime     time.Time
	Version       string
}

func NewServer(cfg ServerConfig) (*Server, error) {
	router, err := NewRouter(cfg)
	if err != nil {
		return nil, err
	}

	return &Server{
		httpServer: &http.Server{
			Addr:        fmt.Sprintf("127.0.0.1:%d", cfg.Port),
			Handler:     router,
			ReadTimeout: 0,
			// Large uploads stream through the request body.
			ReadHeaderTimeout: 15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		logger: cfg.Logger,
	}, nil
}

func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", "addr", s.Addr())
	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}

func (s *Server) URL() string {
	return "http://" + s.Addr()
}
