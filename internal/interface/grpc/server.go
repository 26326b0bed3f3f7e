package grpcadapter

import (
	"time"

	"github.com/hijjiri/todo-api/internal/auth"
	"github.com/hijjiri/todo-api/internal/observability"
	todo_usecase "github.com/hijjiri/todo-api/internal/usecase/todo"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

type ServerOptions struct {
	Logger         *zap.Logger
	Metrics        *observability.Metrics
	Authenticator  auth.Authenticator
	RequestTimeout time.Duration
}

// NewServer は interceptor chain / health / reflection / TodoService を登録済みの
// grpc.Server を返す。health は shutdown 時に NOT_SERVING へ落とすために返す。
func NewServer(uc todo_usecase.Usecase, opts ServerOptions) (*grpc.Server, *health.Server) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// ---- Interceptor ----
	unaryInterceptors := []grpc.UnaryServerInterceptor{
		NewRecoveryUnaryInterceptor(logger),
		NewTimeoutUnaryInterceptor(logger, opts.RequestTimeout),
		NewLoggingUnaryInterceptor(logger, opts.Metrics),
	}
	streamInterceptors := []grpc.StreamServerInterceptor{
		NewRecoveryStreamInterceptor(logger),
		NewTimeoutStreamInterceptor(logger, opts.RequestTimeout),
		NewLoggingStreamInterceptor(logger, opts.Metrics),
	}
	if opts.Authenticator != nil {
		unaryInterceptors = append(unaryInterceptors, NewAuthUnaryInterceptor(logger, opts.Authenticator))
		streamInterceptors = append(streamInterceptors, NewAuthStreamInterceptor(logger, opts.Authenticator))
	}

	grpcServer := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(unaryInterceptors...),
		grpc.ChainStreamInterceptor(streamInterceptors...),
	)

	// ---- Health & Reflection ----
	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthSrv)
	healthSrv.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)
	reflection.Register(grpcServer)

	// ---- Todo Service ----
	RegisterTodoServiceServer(grpcServer, NewTodoHandler(uc, logger))

	return grpcServer, healthSrv
}
