package grpcadapter

import (
	"context"

	"github.com/hijjiri/todo-api/internal/auth"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

const requestIDMetadataKey = "x-request-id"

// ----- request_id -----

// RequestIDFromContext は incoming metadata の x-request-id を返す（無ければ ""）。
func RequestIDFromContext(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if v := md.Get(requestIDMetadataKey); len(v) > 0 {
		return v[0]
	}
	return ""
}

// ----- user_id -----

func UserIDFromContext(ctx context.Context) (string, bool) {
	return auth.SubjectFromContext(ctx)
}

// wrappedStream は ctx を差し替えた ServerStream（timeout / auth 用）。
type wrappedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *wrappedStream) Context() context.Context {
	return s.ctx
}
