package grpcadapter

import (
	"context"
	"time"

	"github.com/hijjiri/todo-api/internal/observability"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

func requestFields(ctx context.Context, method string, duration time.Duration, err error) []zap.Field {
	fields := []zap.Field{
		zap.String("method", method),
		zap.Duration("duration", duration),
		zap.String("code", status.Code(err).String()),
	}
	if rid := RequestIDFromContext(ctx); rid != "" {
		fields = append(fields, zap.String("request_id", rid))
	}
	// auth interceptor は内側なので、ここで見えるのは ctx に既に積まれている場合だけ
	if userID, ok := UserIDFromContext(ctx); ok {
		fields = append(fields, zap.String("user_id", userID))
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	return fields
}

// NewLoggingUnaryInterceptor logs unary RPCs with method, duration, code and request_id(あれば).
// metrics が nil でなければ method / code 単位で件数も数える。
func NewLoggingUnaryInterceptor(logger *zap.Logger, metrics *observability.Metrics) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()

		resp, err := handler(ctx, req)

		fields := requestFields(ctx, info.FullMethod, time.Since(start), err)
		if err != nil {
			logger.Error("gRPC unary request", fields...)
		} else {
			logger.Info("gRPC unary request", fields...)
		}

		if metrics != nil {
			metrics.ObserveGRPC(info.FullMethod, status.Code(err).String())
		}
		return resp, err
	}
}

// NewLoggingStreamInterceptor logs stream RPCs with method, duration, code and request_id(あれば).
func NewLoggingStreamInterceptor(logger *zap.Logger, metrics *observability.Metrics) grpc.StreamServerInterceptor {
	return func(
		srv interface{},
		ss grpc.ServerStream,
		info *grpc.StreamServerInfo,
		handler grpc.StreamHandler,
	) error {
		start := time.Now()

		err := handler(srv, ss)

		fields := requestFields(ss.Context(), info.FullMethod, time.Since(start), err)
		if err != nil {
			logger.Error("gRPC stream request", fields...)
		} else {
			logger.Info("gRPC stream request", fields...)
		}

		if metrics != nil {
			metrics.ObserveGRPC(info.FullMethod, status.Code(err).String())
		}
		return err
	}
}
