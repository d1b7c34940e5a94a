package middleware

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/identity-server/internal/logger"
)

// Logging is a unary interceptor that logs gRPC calls and their outcome.
type Logging struct {
	logger *logger.Logger
}

// NewLogging creates a new Logging middleware.
func NewLogging(logger *logger.Logger) *Logging {
	return &Logging{logger: logger}
}

// HandleGRPC logs method name, duration and status code of each unary call.
// Domain rejections are logged at info level, server faults as errors.
func (l *Logging) HandleGRPC(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()

	resp, err := handler(ctx, req)

	code := codes.OK
	if err != nil {
		code = codes.Internal
		if st, ok := status.FromError(err); ok {
			code = st.Code()
		}
	}

	args := []any{
		"method", info.FullMethod,
		"duration_ms", time.Since(start).Milliseconds(),
		"code", code.String(),
	}
	switch code {
	case codes.OK:
		l.logger.Info("gRPC call completed", args...)
	case codes.Internal, codes.Unknown, codes.Unavailable:
		l.logger.Error("gRPC call failed", append(args, "error", err.Error())...)
	default:
		l.logger.Info("gRPC call rejected", append(args, "error", err.Error())...)
	}

	return resp, err
}
