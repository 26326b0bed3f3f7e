// Package httpadapter は Todo usecase を HTTP(JSON) で公開する薄いアダプタ。
package httpadapter

import (
	"net/http"
	"time"

	"github.com/hijjiri/todo-api/internal/auth"
	"github.com/hijjiri/todo-api/internal/observability"
	todo_usecase "github.com/hijjiri/todo-api/internal/usecase/todo"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Options は Server の任意依存。ゼロ値でも動く（ログ無し・metrics 無し・認証無し）。
type Options struct {
	Logger         *zap.Logger
	Metrics        *observability.Metrics
	Authenticator  auth.Authenticator
	RequestTimeout time.Duration
	// nil なら otel のグローバル provider
	TracerProvider trace.TracerProvider
}

type Server struct {
	uc      todo_usecase.Usecase
	logger  *zap.Logger
	metrics *observability.Metrics
	authn   auth.Authenticator

	mux     *http.ServeMux
	handler http.Handler
}

func NewServer(uc todo_usecase.Usecase, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		uc:      uc,
		logger:  logger,
		metrics: opts.Metrics,
		authn:   opts.Authenticator,
		mux:     http.NewServeMux(),
	}

	s.handle("GET /healthz", s.handleHealth, false)

	// /todos と /todos/ は同じものとして扱う
	s.handle("POST /todos", s.handleCreateTodo, true)
	s.handle("POST /todos/{$}", s.handleCreateTodo, true)
	s.handle("GET /todos", s.handleListTodos, true)
	s.handle("GET /todos/{$}", s.handleListTodos, true)

	s.handle("GET /todos/{id}", s.handleGetTodo, true)
	s.handle("PUT /todos/{id}", s.handleUpdateTodo, true)
	s.handle("DELETE /todos/{id}", s.handleDeleteTodo, true)

	// 外側から: recovery → request id → tracing → access log → timeout
	s.handler = chain(s.mux,
		recovery(logger),
		requestID(),
		tracing(opts.TracerProvider),
		accessLog(logger),
		timeout(opts.RequestTimeout),
	)

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

// handle はルート単位で metrics と（必要なら）認証を被せて登録する。
func (s *Server) handle(pattern string, h http.HandlerFunc, protected bool) {
	var next http.Handler = h
	if protected && s.authn != nil {
		next = requireAuth(s.authn, s.logger)(next)
	}
	if s.metrics != nil {
		next = instrument(s.metrics, pattern)(next)
	}
	next = routeSpan(pattern)(next)
	s.mux.Handle(pattern, next)
}
