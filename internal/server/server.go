// Package server exposes the risk classifier over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cardiorisk/cardiorisk/core"
	"github.com/cardiorisk/cardiorisk/internal/contract"
	"github.com/cardiorisk/cardiorisk/schema"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

// Server routes HTTP requests to one assessor.
type Server struct {
	assessor *core.Assessor
	metrics  *Metrics
	started  time.Time
}

// New creates a server. A nil assessor answers every assessment with 503.
func New(assessor *core.Assessor) *Server {
	return &Server{assessor: assessor, metrics: NewMetrics(), started: time.Now()}
}

// Router builds the gin engine with all routes.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	api := router.Group("/api/v1")
	{
		api.POST("/assess", s.handleAssess)
		api.GET("/schema", s.handleSchema)
		api.GET("/health", s.handleHealth)
	}
	router.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	return router
}

// Run serves on addr until ctx is canceled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	contract.LogInfo("🌐 Listening on %s", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// StartServer loads the configured model and serves until ctx is canceled.
func StartServer(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error {
	m, err := core.LoadModel(cfg, mgr)
	if err != nil {
		return err
	}
	var history contract.HistoryStore
	if mgr != nil {
		history = mgr.GetHistoryStore()
	}
	gin.SetMode(gin.ReleaseMode)
	s := New(core.NewAssessor(m, history, cfg.SourceOr(schema.HTTPSource)))
	return s.Run(ctx, cfg.ListenAddr)
}
