package router

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dtroode/identity-server/internal/api/grpc/bridge"
	"github.com/dtroode/identity-server/internal/api/grpc/handler"
	"github.com/dtroode/identity-server/internal/api/grpc/middleware"
	"github.com/dtroode/identity-server/internal/logger"
	"github.com/dtroode/identity-server/internal/model"
)

// Router represents the gRPC surface of the account service.
type Router struct {
	accounts       model.AccountChecker
	contextManager model.ContextManager
	logger         *logger.Logger
}

// New creates new gRPC Router instance.
func New(
	accounts model.AccountChecker,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		accounts:       accounts,
		contextManager: contextManager,
		logger:         logger,
	}
}

// healthSkip keeps health probes free of authority parsing.
func healthSkip(_ context.Context, c interceptors.CallMeta) bool {
	return c.Service != healthpb.Health_ServiceDesc.ServiceName
}

// Register builds the gRPC server with logging and authority interceptors and
// registers the AccountBridge and health services.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	authority := middleware.NewAuthority(r.contextManager, r.logger)

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logging.HandleGRPC,
			selector.UnaryServerInterceptor(
				auth.UnaryServerInterceptor(authority.AuthFunc),
				selector.MatchFunc(healthSkip),
			),
		),
	)

	bridge.RegisterAccountBridgeServer(s, handler.NewAccount(r.accounts, r.contextManager, r.logger))

	hs := health.NewServer()
	hs.SetServingStatus(bridge.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, hs)

	return s
}
