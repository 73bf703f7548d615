package auth

import (
	"context"
	"testing"

	"google.golang.org/grpc/metadata"
)

func TestGetUserID(t *testing.T) {
	md := metadata.Pairs(MetadataUserID, "grpc-user")

	tests := []struct {
		name string
		ctx  context.Context
		want string
	}{
		{"absent", context.Background(), "system"},
		{"context value", WithUserID(context.Background(), " frontdesk-02 "), "frontdesk-02"},
		{"blank value", WithUserID(context.Background(), "  "), "system"},
		{"grpc metadata", metadata.NewIncomingContext(context.Background(), md), "grpc-user"},
		{"context wins", WithUserID(metadata.NewIncomingContext(context.Background(), md), "http-user"), "http-user"},
	}
	for _, tt := range tests {
		if got := GetUserID(tt.ctx); got != tt.want {
			t.Errorf("%s: GetUserID = %q, want %q", tt.name, got, tt.want)
		}
	}
}
