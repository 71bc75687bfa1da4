// Package api serves the REST surface: customer CRUD, the chat endpoint
// and bulk inventory import.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	contractx "github.com/tanpawarit/qbd-assistant/agent/contract"
	"github.com/tanpawarit/qbd-assistant/importer"
	conductorx "github.com/tanpawarit/qbd-assistant/pkg/conductor"
	logx "github.com/tanpawarit/qbd-assistant/pkg/logger"
)

// CustomerGateway is the part of the Conductor client the REST surface
// forwards to.
type CustomerGateway interface {
	HealthCheck(ctx context.Context) (*conductorx.HealthCheckResponse, error)
	ListCustomers(ctx context.Context, params conductorx.ListParams) (*conductorx.ListResponse[conductorx.Customer], error)
	RetrieveCustomer(ctx context.Context, id string) (*conductorx.Customer, error)
	CreateCustomer(ctx context.Context, params conductorx.CustomerCreateParams) (*conductorx.Customer, error)
	UpdateCustomer(ctx context.Context, id string, params conductorx.CustomerUpdateParams) (*conductorx.Customer, error)
}

var _ CustomerGateway = (*conductorx.Client)(nil)

type ChatResolver interface {
	HandleMessage(ctx context.Context, text string) (contractx.Reply, error)
}

type BatchProcessor interface {
	Process(ctx context.Context, parsed *importer.ParseResult) importer.BatchResult
}

type Server struct {
	cfg       Config
	customers CustomerGateway
	chat      ChatResolver
	batch     BatchProcessor
	metrics   *Metrics
	log       zerolog.Logger

	engine *gin.Engine
}

func New(
	customers CustomerGateway,
	chat ChatResolver,
	batch BatchProcessor,
	cfg Config,
) (*Server, error) {
	if customers == nil {
		return nil, errors.New("customer gateway is required")
	}
	if chat == nil {
		return nil, errors.New("chat resolver is required")
	}
	if batch == nil {
		return nil, errors.New("import processor is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	gin.SetMode(cfg.Mode)

	s := &Server{
		cfg:       cfg,
		customers: customers,
		chat:      chat,
		batch:     batch,
		metrics:   NewMetrics(),
		log:       logx.Component("api"),
	}
	s.engine = s.routes()
	return s, nil
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger(s.log), s.metrics.Middleware())

	r.GET("/health", s.health)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	r.POST("/chat", s.handleChat)
	r.POST("/inventory-items/import", s.importInventoryItems)

	customers := r.Group("/customers")
	{
		customers.GET("", s.listCustomers)
		customers.GET("/:id", s.getCustomer)
		customers.POST("", s.createCustomer)
		customers.PATCH("/:id", s.updateCustomer)
	}
	return r
}

func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then drains in-flight requests for
// at most ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.engine,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	s.log.Info().Msg("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}

func (s *Server) callContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if s.cfg.CallTimeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), s.cfg.CallTimeout)
}
