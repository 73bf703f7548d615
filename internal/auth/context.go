package auth

import (
	"context"
	"strings"

	"github.com/fekuna/hotel-stock-service/internal/model"
	"google.golang.org/grpc/metadata"
)

type ctxKey struct{}

const (
	HeaderUserID   = "X-User-ID"
	MetadataUserID = "x-user-id"
)

// WithUserID stores the acting user on the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, strings.TrimSpace(userID))
}

// GetUserID returns the acting user for recorded_by. It checks the context
// value first, then incoming gRPC metadata, and falls back to "system".
func GetUserID(ctx context.Context) string {
	if val, ok := ctx.Value(ctxKey{}).(string); ok && val != "" {
		return val
	}

	md, ok := metadata.FromIncomingContext(ctx)
	if ok {
		if val := md.Get(MetadataUserID); len(val) > 0 && strings.TrimSpace(val[0]) != "" {
			return strings.TrimSpace(val[0])
		}
	}
	return model.DefaultRecordedBy
}
