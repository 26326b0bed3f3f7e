package grpcadapter

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// withTimeout は既に短い deadline があればそのまま、無ければ timeout を付ける。
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if dl, ok := ctx.Deadline(); ok && time.Until(dl) <= timeout {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// NewTimeoutUnaryInterceptor は、各 unary RPC にタイムアウトを付与する interceptor。
// - timeout <= 0 の場合は何もしない
// - 既に ctx に deadline がある場合は「より短い方」を優先
func NewTimeoutUnaryInterceptor(logger *zap.Logger, timeout time.Duration) grpc.UnaryServerInterceptor {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if timeout <= 0 {
			return handler(ctx, req)
		}

		ctx2, cancel := withTimeout(ctx, timeout)
		defer cancel()

		resp, err := handler(ctx2, req)

		// タイムアウト時は gRPC の DeadlineExceeded に寄せる
		if errors.Is(ctx2.Err(), context.DeadlineExceeded) && (err == nil || errors.Is(err, context.DeadlineExceeded)) {
			logger.Warn("request timeout",
				zap.String("method", info.FullMethod),
				zap.Duration("timeout", timeout),
			)
			return nil, status.Error(codes.DeadlineExceeded, "request timeout")
		}

		return resp, err
	}
}

// NewTimeoutStreamInterceptor は stream 全体にタイムアウトを付ける。
func NewTimeoutStreamInterceptor(logger *zap.Logger, timeout time.Duration) grpc.StreamServerInterceptor {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		if timeout <= 0 {
			return handler(srv, ss)
		}

		ctx, cancel := withTimeout(ss.Context(), timeout)
		defer cancel()

		err := handler(srv, &wrappedStream{ServerStream: ss, ctx: ctx})
		if err != nil && errors.Is(err, context.DeadlineExceeded) {
			logger.Warn("stream timeout",
				zap.String("method", info.FullMethod),
				zap.Duration("timeout", timeout),
			)
			return status.Error(codes.DeadlineExceeded, "request timeout")
		}
		return err
	}
}
