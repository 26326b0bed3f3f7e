package grpcadapter

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/hijjiri/todo-api/internal/auth"
	domain_todo "github.com/hijjiri/todo-api/internal/domain/todo"
	"github.com/hijjiri/todo-api/internal/infrastructure/memory"
	todo_usecase "github.com/hijjiri/todo-api/internal/usecase/todo"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

func newTestClient(t *testing.T, opts ServerOptions) (*Client, *grpc.ClientConn) {
	t.Helper()

	lis := bufconn.Listen(1 << 20)

	uc := todo_usecase.New(memory.NewTodoStore(zap.NewNop()), zap.NewNop())
	srv, _ := NewServer(uc, opts)
	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("failed to dial bufnet: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	return NewClient(conn), conn
}

func testCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestCreateTodo_Success(t *testing.T) {
	t.Parallel()
	c, _ := newTestClient(t, ServerOptions{})
	ctx := testCtx(t)

	res, err := c.Create(ctx, domain_todo.Input{Title: "テストタスク", Description: "説明"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if res.ID == 0 {
		t.Errorf("expected non-zero id, got %d", res.ID)
	}
	if res.Title != "テストタスク" || res.Description != "説明" {
		t.Errorf("unexpected todo: %#v", res)
	}
	if res.Completed {
		t.Errorf("expected completed=false, got true")
	}

	got, err := c.Get(ctx, res.ID)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if *got != *res {
		t.Errorf("Get = %#v, want %#v", got, res)
	}
}

func TestCreateTodo_EmptyTitle(t *testing.T) {
	t.Parallel()
	c, _ := newTestClient(t, ServerOptions{})

	_, err := c.Create(testCtx(t), domain_todo.Input{})
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	st, ok := status.FromError(err)
	if !ok {
		t.Fatalf("expected gRPC status error, got %v", err)
	}
	if st.Code() != codes.InvalidArgument {
		t.Errorf("expected code=%v, got %v", codes.InvalidArgument, st.Code())
	}
}

func TestCreateTodo_WrongFieldType(t *testing.T) {
	t.Parallel()
	_, conn := newTestClient(t, ServerOptions{})

	req, _ := structpb.NewStruct(map[string]any{"title": 42})
	err := conn.Invoke(testCtx(t), methodCreateTodo, req, new(structpb.Struct))
	if status.Code(err) != codes.InvalidArgument {
		t.Errorf("expected InvalidArgument, got %v", err)
	}
}

func TestListTodos_UnaryAndStream(t *testing.T) {
	t.Parallel()
	c, _ := newTestClient(t, ServerOptions{})
	ctx := testCtx(t)

	for _, title := range []string{"A", "B", "C"} {
		if _, err := c.Create(ctx, domain_todo.Input{Title: title}); err != nil {
			t.Fatalf("Create(%q) returned error: %v", title, err)
		}
	}

	list, err := c.List(ctx)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	streamed, err := c.ListStream(ctx)
	if err != nil {
		t.Fatalf("ListStream returned error: %v", err)
	}

	if len(list) != 3 || len(streamed) != 3 {
		t.Fatalf("expected 3 todos, got list=%d stream=%d", len(list), len(streamed))
	}
	for i := range list {
		if *list[i] != *streamed[i] {
			t.Errorf("list[%d]=%#v stream[%d]=%#v", i, list[i], i, streamed[i])
		}
	}
	if list[0].Title != "A" || list[2].Title != "C" {
		t.Errorf("unexpected order: %#v", list)
	}
}

func TestUpdateTodo(t *testing.T) {
	t.Parallel()
	c, _ := newTestClient(t, ServerOptions{})
	ctx := testCtx(t)

	created, err := c.Create(ctx, domain_todo.Input{Title: "Old title", Description: "Old desc"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	updated, err := c.Update(ctx, created.ID, domain_todo.Input{Title: "New title", Description: "New description", Completed: true})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.ID != created.ID || updated.Title != "New title" || updated.Description != "New description" || !updated.Completed {
		t.Errorf("unexpected updated todo: %#v", updated)
	}

	if _, err := c.Update(ctx, 999, domain_todo.Input{Title: "x"}); status.Code(err) != codes.NotFound {
		t.Errorf("expected NotFound, got %v", err)
	}
	if _, err := c.Update(ctx, created.ID, domain_todo.Input{}); status.Code(err) != codes.InvalidArgument {
		t.Errorf("expected InvalidArgument, got %v", err)
	}
}

func TestDeleteTodo_NotFound(t *testing.T) {
	t.Parallel()
	c, _ := newTestClient(t, ServerOptions{})

	err := c.Delete(testCtx(t), 999)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	st, ok := status.FromError(err)
	if !ok {
		t.Fatalf("expected gRPC status error, got %v", err)
	}
	if st.Code() != codes.NotFound {
		t.Errorf("expected code=%v, got %v", codes.NotFound, st.Code())
	}
}

func TestDeleteTodo_Success(t *testing.T) {
	t.Parallel()
	c, _ := newTestClient(t, ServerOptions{})
	ctx := testCtx(t)

	// まず1件作る
	created, err := c.Create(ctx, domain_todo.Input{Title: "削除用タスク"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	// そのIDでDelete
	if err := c.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}

	if _, err := c.Get(ctx, created.ID); status.Code(err) != codes.NotFound {
		t.Errorf("expected NotFound after delete, got %v", err)
	}
}

func TestAuthInterceptor(t *testing.T) {
	t.Parallel()
	c, conn := newTestClient(t, ServerOptions{
		Authenticator: auth.NewAuthenticator(zap.NewNop(), "secret"),
	})
	ctx := testCtx(t)

	if _, err := c.List(ctx); status.Code(err) != codes.Unauthenticated {
		t.Errorf("expected Unauthenticated without token, got %v", err)
	}
	if _, err := c.ListStream(ctx); status.Code(err) != codes.Unauthenticated {
		t.Errorf("expected Unauthenticated on stream without token, got %v", err)
	}

	// health は認証不要
	hc := healthpb.NewHealthClient(conn)
	if _, err := hc.Check(ctx, &healthpb.HealthCheckRequest{Service: serviceName}); err != nil {
		t.Errorf("health check failed: %v", err)
	}

	token, err := auth.GenerateToken("secret", "user-123", time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	authed := metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)

	if _, err := c.Create(authed, domain_todo.Input{Title: "authed"}); err != nil {
		t.Errorf("Create with token returned error: %v", err)
	}
	if _, err := c.ListStream(authed); err != nil {
		t.Errorf("ListStream with token returned error: %v", err)
	}
}

func TestRecoveryUnaryInterceptor(t *testing.T) {
	t.Parallel()

	ic := NewRecoveryUnaryInterceptor(zap.NewNop())
	_, err := ic(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: methodGetTodo},
		func(ctx context.Context, req any) (any, error) {
			panic("boom")
		})

	if status.Code(err) != codes.Internal {
		t.Errorf("expected Internal, got %v", err)
	}
}

func TestTimeoutUnaryInterceptor(t *testing.T) {
	t.Parallel()

	ic := NewTimeoutUnaryInterceptor(zap.NewNop(), 10*time.Millisecond)
	_, err := ic(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: methodListTodos},
		func(ctx context.Context, req any) (any, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})

	if status.Code(err) != codes.DeadlineExceeded {
		t.Errorf("expected DeadlineExceeded, got %v", err)
	}
}

func TestIDField(t *testing.T) {
	t.Parallel()

	ok, _ := structpb.NewStruct(map[string]any{"id": 3})
	if id, err := idField(ok); err != nil || id != 3 {
		t.Errorf("expected id=3, got %d (%v)", id, err)
	}

	frac, _ := structpb.NewStruct(map[string]any{"id": 1.5})
	if _, err := idField(frac); err == nil {
		t.Errorf("expected error for fractional id")
	}

	missing, _ := structpb.NewStruct(map[string]any{})
	if _, err := idField(missing); err == nil {
		t.Errorf("expected error for missing id")
	}
}
