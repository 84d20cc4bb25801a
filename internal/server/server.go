package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/ai-gateway/chat-relay/internal/config"
	"github.com/ai-gateway/chat-relay/internal/guardrails"
	"github.com/ai-gateway/chat-relay/internal/metrics"
	"github.com/ai-gateway/chat-relay/internal/middleware"
	"github.com/ai-gateway/chat-relay/internal/observability"
	"github.com/ai-gateway/chat-relay/internal/relay"
	"github.com/ai-gateway/chat-relay/internal/routing"
	"github.com/ai-gateway/chat-relay/internal/version"
)

type Server struct {
	cfg      *config.Config
	engine   *gin.Engine
	router   *routing.Router
	model    routing.Model
	relay    *relay.Relay
	guards   *guardrails.Guardrails
	requests *metrics.Requests
}

// New wires the relay for the configured model. The providers it uses must
// already be registered on rt.
func New(cfg *config.Config, rt *routing.Router) (*Server, error) {
	model, prov, err := rt.Resolve(cfg.Model)
	if err != nil {
		return nil, fmt.Errorf("resolve model: %w", err)
	}

	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(otelgin.Middleware(observability.ServiceName))
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS(cfg.AllowedOrigin))

	srv := &Server{
		cfg:      cfg,
		engine:   r,
		router:   rt,
		model:    model,
		relay:    relay.New(prov, model.Name, relay.WithTimeout(cfg.RequestTimeout)),
		guards:   guardrails.New(cfg.BannedTerms),
		requests: metrics.NewRequests(),
	}
	srv.registerRoutes()
	return srv, nil
}

func (s *Server) registerRoutes() {
	s.engine.POST("/ask", s.ask)
	s.engine.GET("/health", s.health)
	s.engine.GET("/models", s.listModels)
}

// Handler exposes the engine, mainly for tests.
func (s *Server) Handler() http.Handler { return s.engine }

// Start serves until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Address,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("relay %s listening on %s (provider=%s model=%s)", version.Get(), s.cfg.Address, s.model.Provider, s.model.Name)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Println("shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"version":  version.Get().String(),
		"provider": s.model.Provider,
		"model":    s.model.Name,
		"requests": s.requests.Snapshot(),
	})
}

func (s *Server) listModels(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"models": s.router.Models()})
}
