package grpcadapter

import (
	"context"
	"errors"
	"strings"

	"github.com/hijjiri/todo-api/internal/auth"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// health / reflection は認証対象外
func skipAuth(fullMethod string) bool {
	return !strings.HasPrefix(fullMethod, "/"+serviceName+"/")
}

func authenticate(ctx context.Context, logger *zap.Logger, authenticator auth.Authenticator) (context.Context, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing metadata")
	}

	values := md.Get("authorization")
	if len(values) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing authorization header")
	}

	raw, ok := auth.BearerToken(values[0])
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing authorization header")
	}

	newCtx, err := authenticator.Authenticate(ctx, raw)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			return nil, status.Error(codes.Unauthenticated, "invalid token")
		}
		logger.Error("authenticator error", zap.Error(err))
		return nil, status.Error(codes.Internal, "auth internal error")
	}
	return newCtx, nil
}

// Unary 用の認証インターセプタ
func NewAuthUnaryInterceptor(
	logger *zap.Logger,
	authenticator auth.Authenticator,
) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		if skipAuth(info.FullMethod) {
			return handler(ctx, req)
		}

		newCtx, err := authenticate(ctx, logger, authenticator)
		if err != nil {
			return nil, err
		}

		// 認証 OK → 次のハンドラへ
		return handler(newCtx, req)
	}
}

// Stream 用の認証インターセプタ（ListTodosStream も保護する）
func NewAuthStreamInterceptor(
	logger *zap.Logger,
	authenticator auth.Authenticator,
) grpc.StreamServerInterceptor {
	return func(
		srv interface{},
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		if skipAuth(info.FullMethod) {
			return handler(srv, ss)
		}

		newCtx, err := authenticate(ss.Context(), logger, authenticator)
		if err != nil {
			return err
		}
		return handler(srv, &wrappedStream{ServerStream: ss, ctx: newCtx})
	}
}
