// Package server wires the downstream HTTP surface: routing, auth,
// CORS, body limits and the chat completion handlers.
package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/NightBlaze752/openai-nim-proxy/internal/config"
	"github.com/NightBlaze752/openai-nim-proxy/internal/logger"
	"github.com/NightBlaze752/openai-nim-proxy/internal/metrics"
	"github.com/NightBlaze752/openai-nim-proxy/internal/models"
	"github.com/NightBlaze752/openai-nim-proxy/internal/upstream"
)

const maxBodyBytes = 1 << 20 // 1 MiB

// Server is the downstream-facing HTTP proxy.
type Server struct {
	cfg      *config.Config
	upstream upstream.Doer
	engine   *gin.Engine
	logger   *logger.Logger
}

// New constructs the proxy server around an upstream client.
func New(cfg *config.Config, up upstream.Doer) *Server {
	s := &Server{
		cfg:      cfg,
		upstream: up,
		logger:   logger.GetLogger().WithComponent("server"),
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())
	r.Use(bodyLimitMiddleware())

	r.GET("/health", s.handleHealth)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	v1 := r.Group("/v1")
	if cfg.Server.APIKey != "" {
		v1.Use(authMiddleware(cfg.Server.APIKey))
	}
	v1.POST("/chat/completions", s.handleChatCompletions)
	v1.GET("/models", s.handleModels)

	s.engine = r
	return s
}

// Handler exposes the underlying handler for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run starts serving on the configured port and blocks.
func (s *Server) Run() error {
	addr := fmt.Sprintf(":%d", s.cfg.Server.Port)
	s.logger.Info("Listening on %s", addr)
	return s.engine.Run(addr)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.Writer.Header()
		header.Set("Access-Control-Allow-Origin", "*")
		header.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		header.Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func bodyLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
		}
		c.Next()
	}
}

func authMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		supplied := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if supplied != apiKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				models.NewErrorResponse("invalid api key", http.StatusUnauthorized))
			return
		}
		c.Next()
	}
}
