package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/semdoc/internal/logger"
	"github.com/custodia-labs/semdoc/internal/normalisers"
)

// Config holds HTTP API options.
type Config struct {
	// CORSOrigins lists origins allowed to call the API.
	CORSOrigins []string

	// MaxUploadBytes limits the extract-text request body. Zero disables the limit.
	MaxUploadBytes int64

	// SessionTTL is the lifetime of the issued session cookie.
	SessionTTL time.Duration
}

// Server serves the semdoc JSON API.
type Server struct {
	ports  *Ports
	cfg    Config
	engine *gin.Engine
}

// NewServer creates the API server and registers its routes.
func NewServer(ports *Ports, cfg Config) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}
	p := *ports
	if p.Extractor == nil {
		p.Extractor = normalisers.Default()
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = time.Hour
	}

	if !logger.IsVerbose() {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		ports:  &p,
		cfg:    cfg,
		engine: gin.New(),
	}
	s.engine.Use(gin.Recovery(), requestLog(), cors(cfg.CORSOrigins))
	s.routes()

	return s, nil
}

func (s *Server) routes() {
	s.engine.GET("/healthz", s.handleHealth)

	v1 := s.engine.Group("/api/v1")
	{
		v1.POST("/extract-text", s.handleExtractText)
		v1.GET("/get-text", s.handleGetText)
		v1.POST("/store-text", s.handleStoreText)
		v1.POST("/cancel", s.handleCancel)
		v1.POST("/search", s.handleSearch)
		v1.GET("/documents", s.handleListDocuments)
		v1.GET("/documents/:filename", s.handleGetDocument)
	}
}

// Handler returns the router as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("http: shutdown: %v", err)
		}
	}()

	logger.Info("http: listening on %s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
