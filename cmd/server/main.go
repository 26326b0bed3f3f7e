package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hijjiri/todo-api/internal/auth"
	"github.com/hijjiri/todo-api/internal/config"
	"github.com/hijjiri/todo-api/internal/infrastructure/memory"
	grpcadapter "github.com/hijjiri/todo-api/internal/interface/grpc"
	httpadapter "github.com/hijjiri/todo-api/internal/interface/http"
	"github.com/hijjiri/todo-api/internal/observability"
	todo_usecase "github.com/hijjiri/todo-api/internal/usecase/todo"

	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "todo server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// ---- Config 読み込み（logger 前なので warn は bootstrap logger へ）----
	bootstrap, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("init bootstrap logger: %w", err)
	}
	cfg, err := config.Load(bootstrap)
	_ = bootstrap.Sync()
	if err != nil {
		return err
	}

	// ---- Logger ----
	logger, err := observability.NewLogger(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info("loaded config",
		zap.String("http_addr", cfg.HTTPAddr),
		zap.String("grpc_addr", cfg.GRPCAddr),
		zap.String("metrics_addr", cfg.MetricsAddr),
		zap.Duration("request_timeout", cfg.RequestTimeout.Duration),
		zap.Bool("auth_enabled", cfg.AuthEnabled()),
		zap.Bool("tracing_enabled", cfg.Tracing.Enabled),
	)

	// ---- Tracing ----
	if cfg.Tracing.Enabled {
		shutdownTracing, err := observability.SetupTracing(cfg.Tracing.ServiceName, os.Stdout)
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := shutdownTracing(ctx); err != nil {
				logger.Warn("failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	// ---- Todo Store / Usecase ----
	store := memory.NewTodoStore(logger.Named("store"))
	uc := todo_usecase.New(store, logger.Named("usecase"))

	metrics := observability.NewMetrics()
	metrics.RegisterItemsGauge(store.Len)

	// ---- Auth（JWT, 任意）----
	var authn auth.Authenticator
	if cfg.AuthEnabled() {
		authn = auth.NewAuthenticator(logger.Named("auth"), cfg.AuthSecret)
	}

	// ---- HTTP サーバ ----
	httpSrv := &http.Server{
		Addr: cfg.HTTPAddr,
		Handler: httpadapter.NewServer(uc, httpadapter.Options{
			Logger:         logger.Named("http"),
			Metrics:        metrics,
			Authenticator:  authn,
			RequestTimeout: cfg.RequestTimeout.Duration,
		}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       30 * time.Second,
	}

	// ---- metrics HTTP サーバ (/metrics) ----
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", metrics.Handler())
	metricsSrv := &http.Server{
		Addr:              cfg.MetricsAddr,
		Handler:           metricsMux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// ---- gRPC サーバ ----
	grpcSrv, healthSrv := grpcadapter.NewServer(uc, grpcadapter.ServerOptions{
		Logger:         logger.Named("grpc"),
		Metrics:        metrics,
		Authenticator:  authn,
		RequestTimeout: cfg.RequestTimeout.Duration,
	})
	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.GRPCAddr, err)
	}

	errCh := make(chan error, 3)

	go func() {
		logger.Info("HTTP server is starting", zap.String("addr", cfg.HTTPAddr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()
	go func() {
		logger.Info("metrics server started", zap.String("addr", cfg.MetricsAddr))
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("metrics server: %w", err)
		}
	}()
	go func() {
		logger.Info("gRPC server is starting", zap.String("addr", cfg.GRPCAddr))
		if err := grpcSrv.Serve(lis); err != nil {
			errCh <- fmt.Errorf("grpc server: %w", err)
		}
	}()

	// ---- shutdown 待ち ----
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case runErr = <-errCh:
		logger.Error("server exited with error", zap.Error(runErr))
	}

	// 全サービスを NOT_SERVING にしてから止める
	healthSrv.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown error", zap.Error(err))
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("metrics shutdown error", zap.Error(err))
	}
	grpcSrv.GracefulStop()

	logger.Info("bye")
	return runErr
}
