// Package api exposes the triage platform over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/sehha-plus/triage-server/internal/domain"
	"github.com/sehha-plus/triage-server/internal/feedback"
	"github.com/sehha-plus/triage-server/internal/middleware"
	"github.com/sehha-plus/triage-server/internal/report"
	"github.com/sehha-plus/triage-server/internal/service"
	"github.com/sehha-plus/triage-server/internal/triage"
)

// HealthChecker reports a dependency's health for the readiness probe.
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Server is the HTTP front of the triage platform.
type Server struct {
	cfg       domain.ServerConfig
	router    *gin.Engine
	server    *http.Server
	analysis  *service.AnalysisService
	chat      *service.ChatService
	matcher   *triage.Matcher
	reports   *report.Generator
	feedback  feedback.Store
	db        HealthChecker
	logger    *logrus.Logger
}

// NewServer wires the services into the router. reports, feedback and db
// may be nil; the corresponding endpoints then degrade or report the
// dependency as absent.
func NewServer(
	cfg domain.Config,
	analysis *service.AnalysisService,
	chat *service.ChatService,
	reports *report.Generator,
	fbStore feedback.Store,
	db HealthChecker,
	logger *logrus.Logger,
) *Server {
	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	if cfg.Server.WriteTimeout > 0 {
		router.Use(middleware.RequestTimeout(cfg.Server.WriteTimeout))
	}
	router.Use(corsMiddleware())
	router.Use(requestIDMiddleware())
	router.Use(requestLogger(logger))

	s := &Server{
		cfg:      cfg.Server,
		router:   router,
		analysis: analysis,
		chat:     chat,
		matcher:  triage.NewMatcher(),
		reports:  reports,
		feedback: fbStore,
		db:       db,
		logger:   logger,
	}
	s.setupRoutes()
	return s
}

// Router exposes the gin engine, used by the HTTP tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.WithField("addr", addr).Info("HTTP server listening")
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.logger.Info("Shutting down HTTP server")
	return s.server.Shutdown(shutdownCtx)
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	v1.Use(middleware.NewRateLimiter(10, 20).Middleware())
	{
		v1.POST("/analyze", s.handleAnalyze)
		v1.POST("/follow-up", s.handleFollowUp)
		v1.POST("/chat/support", s.handleSupportChat)
		v1.GET("/consultations", s.handleListConsultations)
		v1.GET("/consultations/:id", s.handleGetConsultation)
		v1.GET("/consultations/:id/report", s.handleConsultationReport)
		v1.POST("/feedback", s.handleSaveFeedback)
		v1.GET("/feedback/stats", s.handleFeedbackStats)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, X-API-Key")
		c.Header("Access-Control-Expose-Headers", "Content-Length")
		c.Header("Access-Control-Allow-Credentials", "true")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header("X-Request-ID", requestID)
		c.Set("request_id", requestID)
		c.Next()
	}
}

func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.WithFields(logrus.Fields{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"request_id":  c.GetString("request_id"),
		}).Info("Request handled")
	}
}
