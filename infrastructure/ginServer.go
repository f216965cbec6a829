package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	apperrors "facegate.io/application/appErrors"
	"facegate.io/application/repository"
	"facegate.io/application/services/recognition"
	"facegate.io/infrastructure/env"
	"facegate.io/infrastructure/logger"
	middlewares "facegate.io/infrastructure/middleware"
	ratelimit "facegate.io/infrastructure/ratelimit"
	ginrouter "facegate.io/infrastructure/routes/ginRouter"
	server_response "facegate.io/infrastructure/serverResponse"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 10 * time.Second

type ginServer struct {
	cfg    *env.Config
	engine *gin.Engine
}

// NewRouter builds the gin engine serving the recognition API.
func NewRouter(cfg *env.Config, service *recognition.Service, repo repository.FeatureRepository) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	server := gin.New()
	server.Use(gin.Recovery())
	server.Use(middlewares.RequestLoggerMiddleware())
	server.Use(middlewares.RequestContextMiddleware())

	if len(cfg.CorsOrigins) > 0 {
		server.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CorsOrigins,
			AllowMethods:     []string{"GET", "POST"},
			AllowHeaders:     []string{"Origin", "Content-Type", "User-Agent", "X-Request-Id"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-Id"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	server.Use(ratelimit.TokenBucketPerIP(cfg.RateLimitRPS))
	server.MaxMultipartMemory = int64(cfg.MaxUploadMB) << 20

	ginrouter.FaceRouter(&server.RouterGroup, service, repo, cfg.MaxUploadMB)

	server.GET("/ping", func(ctx *gin.Context) {
		server_response.Responder.Respond(ctx, http.StatusOK, map[string]string{"message": "pong!"})
	})
	server.GET("/metrics", gin.WrapH(promhttp.Handler()))

	server.NoRoute(func(ctx *gin.Context) {
		apperrors.NotFoundError(ctx, fmt.Sprintf("%s %s does not exist", ctx.Request.Method, ctx.Request.URL))
	})
	return server
}

// Start serves until ctx is cancelled, then drains in-flight requests.
func (s *ginServer) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", s.cfg.Port),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Server starting on PORT %s", s.cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
