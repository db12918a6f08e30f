package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/social-wizard/internal/agent/publisher"
	"github.com/social-wizard/internal/agent/trending"
	"github.com/social-wizard/internal/config"
	"github.com/social-wizard/internal/models"
	"github.com/social-wizard/internal/storage"
	"github.com/social-wizard/pkg/logger"
	"github.com/social-wizard/pkg/metrics"
)

// Scraper turns a URL into a content document
type Scraper interface {
	Fetch(ctx context.Context, url string) (*models.Document, error)
}

// Generator runs the post generation pipeline
type Generator interface {
	Generate(ctx context.Context, opts models.GenerationOptions) (*publisher.GenerateResult, error)
}

// Refresher rebuilds the trending topics blob
type Refresher interface {
	Refresh(ctx context.Context) (*trending.RefreshResult, error)
}

// Notifier posts text to the team chat
type Notifier interface {
	Post(ctx context.Context, text string) error
}

// Deps are the components behind the HTTP surface. Trending and Notifier may be nil.
type Deps struct {
	Repository storage.Repository
	Scraper    Scraper
	Generator  Generator
	Trending   Refresher
	Notifier   Notifier
}

// Server is the JSON HTTP API
type Server struct {
	engine *gin.Engine
	deps   Deps
	cfg    config.ServerConfig
	log    *logger.Logger
}

// New creates the server and registers every route
func New(cfg config.ServerConfig, deps Deps, log *logger.Logger) *Server {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	s := &Server{
		engine: gin.New(),
		deps:   deps,
		cfg:    cfg,
		log:    log.WithComponent("server"),
	}

	reg := prometheus.NewRegistry()
	metrics.RegisterCollectors(reg)

	s.engine.Use(gin.Recovery(), s.requestLogger(), s.countRequests())
	s.engine.GET("/health", s.health)
	s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	s.registerRoutes(s.engine.Group("/api"))

	return s
}

// Handler exposes the engine, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.cfg.Port),
		Handler:      s.engine,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Int("port", s.cfg.Port).Msg("HTTP API listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info().Msg("Shutting down HTTP API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
