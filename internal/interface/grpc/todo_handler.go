package grpcadapter

import (
	"context"
	"errors"

	domain_todo "github.com/hijjiri/todo-api/internal/domain/todo"
	todo_usecase "github.com/hijjiri/todo-api/internal/usecase/todo"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type TodoHandler struct {
	uc     todo_usecase.Usecase
	logger *zap.Logger
}

var _ TodoServiceServer = (*TodoHandler)(nil)

func NewTodoHandler(uc todo_usecase.Usecase, logger *zap.Logger) *TodoHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TodoHandler{uc: uc, logger: logger}
}

// --- Create ---
func (h *TodoHandler) CreateTodo(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in, err := inputFromStruct(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	t, err := h.uc.Create(ctx, in)
	if err != nil {
		return nil, h.toGRPCError(err)
	}
	return h.encode(t)
}

// --- Get ---
func (h *TodoHandler) GetTodo(ctx context.Context, req *wrapperspb.Int64Value) (*structpb.Struct, error) {
	t, err := h.uc.Get(ctx, req.GetValue())
	if err != nil {
		return nil, h.toGRPCError(err)
	}
	return h.encode(t)
}

// --- List ---
func (h *TodoHandler) ListTodos(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	list, err := h.uc.List(ctx)
	if err != nil {
		return nil, h.toGRPCError(err)
	}

	items := make([]*structpb.Value, 0, len(list))
	for _, t := range list {
		s, err := h.encode(t)
		if err != nil {
			return nil, err
		}
		items = append(items, structpb.NewStructValue(s))
	}

	return &structpb.Struct{
		Fields: map[string]*structpb.Value{
			"todos": structpb.NewListValue(&structpb.ListValue{Values: items}),
		},
	}, nil
}

// ListTodos と同じ usecase を呼んで、1 件ずつ stream.Send する
func (h *TodoHandler) ListTodosStream(_ *emptypb.Empty, stream grpc.ServerStreamingServer[structpb.Struct]) error {
	ctx := stream.Context()

	list, err := h.uc.List(ctx)
	if err != nil {
		return h.toGRPCError(err)
	}

	for _, t := range list {
		s, err := h.encode(t)
		if err != nil {
			return err
		}
		if err := stream.Send(s); err != nil {
			// クライアント側が切断した場合など
			h.logger.Warn("failed to send todo (stream)", zap.Int64("id", t.ID), zap.Error(err))
			return err
		}
	}
	return nil
}

// --- Update ---
func (h *TodoHandler) UpdateTodo(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := idField(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	in, err := inputFromStruct(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	t, err := h.uc.Update(ctx, id, in)
	if err != nil {
		return nil, h.toGRPCError(err)
	}
	return h.encode(t)
}

// --- Delete ---
func (h *TodoHandler) DeleteTodo(ctx context.Context, req *wrapperspb.Int64Value) (*emptypb.Empty, error) {
	if err := h.uc.Delete(ctx, req.GetValue()); err != nil {
		return nil, h.toGRPCError(err)
	}
	return &emptypb.Empty{}, nil
}

func (h *TodoHandler) encode(t *domain_todo.Todo) (*structpb.Struct, error) {
	s, err := toProtoTodo(t)
	if err != nil {
		h.logger.Error("failed to encode todo", zap.Int64("id", t.ID), zap.Error(err))
		return nil, status.Error(codes.Internal, "internal error")
	}
	return s, nil
}

// --- error mapper ---
func (h *TodoHandler) toGRPCError(err error) error {
	switch {
	case errors.Is(err, domain_todo.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())

	case errors.Is(err, domain_todo.ErrNotFound):
		return status.Error(codes.NotFound, "todo not found")

	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "request timeout")

	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")

	default:
		// Internal詳細はログ側にだけ残す
		h.logger.Error("todo rpc failed", zap.Error(err))
		return status.Error(codes.Internal, "internal error")
	}
}
