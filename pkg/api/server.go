// Package api provides the HTTP surface of respmask: the Responder used by
// handlers to mask their results, an ad-hoc masking endpoint and the policy
// administration endpoints.
package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/codeready-toolchain/respmask/pkg/config"
	"github.com/codeready-toolchain/respmask/pkg/database"
	"github.com/codeready-toolchain/respmask/pkg/events"
	"github.com/codeready-toolchain/respmask/pkg/masking"
)

// PolicyStore persists policy properties edited through the API.
// Implemented by database.PolicyStore.
type PolicyStore interface {
	config.PropertySource
	PutProperty(ctx context.Context, key, value string) error
	DeleteProperty(ctx context.Context, key string) error
}

// PolicyNotifier tells other replicas that the stored policy changed.
// Implemented by events.Publisher.
type PolicyNotifier interface {
	PublishPolicyChanged(ctx context.Context, payload events.PolicyChangedPayload) error
}

// Server is the HTTP API server.
type Server struct {
	cfg        *config.Config
	engine     *masking.Service
	responder  *Responder
	dbClient   *database.Client // nil when no database is configured
	store      PolicyStore      // nil when no database is configured
	notifier   PolicyNotifier   // optional
	router     *gin.Engine
	httpServer *http.Server
}

// NewServer creates a new API server with routes registered.
func NewServer(cfg *config.Config, engine *masking.Service) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(), securityHeaders())

	s := &Server{
		cfg:       cfg,
		engine:    engine,
		responder: NewResponder(engine, cfg.PolicyRegistry),
		router:    router,
	}
	s.httpServer = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.setupRoutes()
	return s
}

// SetDatabase enables the Postgres policy store and the database health check.
func (s *Server) SetDatabase(client *database.Client) {
	s.dbClient = client
	s.store = database.NewPolicyStore(client)
}

// SetPolicyStore overrides the policy store.
func (s *Server) SetPolicyStore(store PolicyStore) {
	s.store = store
}

// SetPolicyNotifier enables change notifications after policy writes.
func (s *Server) SetPolicyNotifier(notifier PolicyNotifier) {
	s.notifier = notifier
}

// Router exposes the gin engine so applications can register their own
// handlers next to the built-in ones and answer through Responder.
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Responder returns the responder bound to the server's policy.
func (s *Server) Responder() *Responder {
	return s.responder
}

// ReloadPolicy rebuilds the policy registry from respmask.yaml and, when
// configured, the policy store.
func (s *Server) ReloadPolicy(ctx context.Context) error {
	if s.store == nil {
		return s.cfg.Reload(ctx)
	}
	return s.cfg.Reload(ctx, s.store)
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthHandler)

	v1 := s.router.Group("/api/v1")
	v1.POST("/mask", s.maskHandler)
	v1.GET("/policy", s.getPolicyHandler)
	v1.PUT("/policy", s.putPolicyHandler)
	v1.DELETE("/policy", s.deletePolicyHandler)
}

// Start listens on addr and serves until Shutdown is called.
func (s *Server) Start(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
