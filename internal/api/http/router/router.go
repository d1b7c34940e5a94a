package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dtroode/identity-server/internal/api/http/handler"
	"github.com/dtroode/identity-server/internal/api/http/middleware"
	"github.com/dtroode/identity-server/internal/logger"
	"github.com/dtroode/identity-server/internal/model"
)

// Router assembles the HTTP surface of one service. Each binary registers
// only the resources it owns.
type Router struct {
	engine         *gin.Engine
	authority      *middleware.Authority
	contextManager model.ContextManager
	logger         *logger.Logger
}

// New creates a Router with logging, metrics and the /metrics endpoint
// already installed.
func New(
	contextManager model.ContextManager,
	registry *prometheus.Registry,
	service string,
	logger *logger.Logger,
) *Router {
	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	engine.Use(
		gin.Recovery(),
		middleware.NewLogging(logger).Handle,
		middleware.NewMetrics(registry, service).Handle,
	)
	engine.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, handler.ErrorResponse{Error: "method not allowed"})
	})
	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, handler.ErrorResponse{Error: "no such resource"})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})))

	return &Router{
		engine:         engine,
		authority:      middleware.NewAuthority(contextManager, logger),
		contextManager: contextManager,
		logger:         logger,
	}
}

// RegisterAccounts mounts account CRUD under path.
func (r *Router) RegisterAccounts(path string, service handler.AccountService) {
	h := handler.NewAccount(service, r.contextManager, r.logger)

	g := r.engine.Group(path, r.authority.Handle)
	g.GET("", h.Read)
	g.POST("", h.Create)
	g.PUT("", h.Update)
	g.DELETE("", h.Delete)
}

func (r *Router) RegisterProfiles(service handler.ProfileService) {
	h := handler.NewProfile(service, r.contextManager, r.logger)

	g := r.engine.Group("/profiles", r.authority.Handle)
	g.GET("", h.Read)
	g.POST("", h.Create)
	g.PUT("", h.Update)
	g.DELETE("", h.Delete)
}

func (r *Router) RegisterSessions(service handler.SessionService) {
	h := handler.NewSession(service, r.contextManager, r.logger)

	g := r.engine.Group("/sessions", r.authority.Handle)
	g.POST("", h.Login)
	g.DELETE("", h.Logout)
	g.GET("/authority", h.Authority)
}

// Handler returns the assembled HTTP handler.
func (r *Router) Handler() http.Handler {
	return r.engine
}
