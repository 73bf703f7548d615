package middleware

import (
	"context"
	"time"

	"github.com/fekuna/hotel-stock-service/internal/auth"
	"github.com/fekuna/hotel-stock-service/internal/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// ContextInterceptor lifts x-user-id metadata into the context and logs each call.
func ContextInterceptor(log logger.ZapLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		ctx = auth.WithUserID(ctx, auth.GetUserID(ctx))

		resp, err := handler(ctx, req)

		log.Debug("grpc request",
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("latency", time.Since(start)),
		)
		return resp, err
	}
}
