package server

import (
	"embed"
	"errors"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"smart_email_generator/generator"
	"smart_email_generator/internal/logger"
)

//go:embed web
var embeddedStatic embed.FS

// Options tune the HTTP server. Zero values get defaults.
type Options struct {
	Store          SessionStore
	Logger         *logger.Logger
	RequestTimeout time.Duration
	CORSOrigins    []string
}

type Server struct {
	agent    *generator.Agent
	store    SessionStore
	log      *logger.Logger
	timeout  time.Duration
	origins  []string
	locks    sessionLocks
	staticFS http.Handler
}

func New(agent *generator.Agent, opts Options) (*Server, error) {
	if agent == nil {
		return nil, errors.New("generator agent required")
	}

	sub, err := fs.Sub(embeddedStatic, "web")
	if err != nil {
		return nil, err
	}

	s := &Server{
		agent:    agent,
		store:    opts.Store,
		log:      opts.Logger,
		timeout:  opts.RequestTimeout,
		origins:  opts.CORSOrigins,
		staticFS: http.FileServer(http.FS(sub)),
	}
	if s.store == nil {
		s.store = NewMemoryStore(24 * time.Hour)
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	if s.timeout <= 0 {
		// Chain mode makes two sequential model calls.
		s.timeout = 120 * time.Second
	}
	return s, nil
}

func (s *Server) Routes() http.Handler {
	router := gin.New()
	router.Use(gin.Recovery(), s.logMiddleware())
	if len(s.origins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins: s.origins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders: []string{"Content-Type"},
			MaxAge:       12 * time.Hour,
		}))
	}

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.GET("/samples", s.handleSamples)
		api.POST("/emails", s.handleGenerate)
		api.POST("/sessions", s.handleSessionCreate)
		api.GET("/sessions/:id", s.handleSessionGet)
		api.POST("/sessions/:id/regenerate", s.handleSessionRegenerate)
		api.POST("/sessions/:id/follow-up", s.handleSessionFollowUp)
		api.GET("/sessions/:id/download", s.handleSessionDownload)
	}

	router.NoRoute(s.staticHandler)
	return router
}

func (s *Server) staticHandler(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") || c.Request.Method != http.MethodGet {
		respondError(c, http.StatusNotFound, "not_found", errors.New("route not found"))
		return
	}
	// Single page: everything that is not a known asset gets index.html.
	if _, err := fs.Stat(embeddedStatic, "web"+c.Request.URL.Path); err != nil || c.Request.URL.Path == "/" {
		c.Request.URL.Path = "/"
	}
	s.staticFS.ServeHTTP(c.Writer, c.Request)
}

func (s *Server) logMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if path == "" {
			path = "/"
		}
		fields := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		}
		if len(c.Errors) > 0 {
			s.log.Warn("request failed", append(fields, "error", c.Errors.String())...)
			return
		}
		s.log.Info("request", fields...)
	}
}
