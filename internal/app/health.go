package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/social-wizard/pkg/logger"
)

// HealthPort returns $PORT when it holds a port number, otherwise fallback
func HealthPort(fallback int) int {
	if p, err := strconv.Atoi(os.Getenv("PORT")); err == nil && p > 0 {
		return p
	}
	return fallback
}

// HealthHandler answers /health with a JSON status and / with the banner
func HealthHandler(banner string) http.Handler {
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC().Format(time.RFC3339)})
	})
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, banner)
	})
	return r
}

// RunHealthServer keeps hosting platforms that expect an open port satisfied.
// It serves until ctx is done.
func RunHealthServer(ctx context.Context, port int, banner string, log *logger.Logger) {
	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{Addr: fmt.Sprintf(":%d", port), Handler: HealthHandler(banner)}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	log.Info().Int("port", port).Msg("Health check server starting")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("Health server failed")
	}
}
