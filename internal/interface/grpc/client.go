package grpcadapter

import (
	"context"
	"errors"
	"fmt"
	"io"

	domain_todo "github.com/hijjiri/todo-api/internal/domain/todo"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Client は TodoService の型付きクライアント（cmd/todo_client とテスト用）。
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) Create(ctx context.Context, in domain_todo.Input, opts ...grpc.CallOption) (*domain_todo.Todo, error) {
	req, err := inputToStruct(in)
	if err != nil {
		return nil, err
	}

	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodCreateTodo, req, out, opts...); err != nil {
		return nil, err
	}
	return fromProtoTodo(out)
}

func (c *Client) Get(ctx context.Context, id int64, opts ...grpc.CallOption) (*domain_todo.Todo, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodGetTodo, wrapperspb.Int64(id), out, opts...); err != nil {
		return nil, err
	}
	return fromProtoTodo(out)
}

func (c *Client) List(ctx context.Context, opts ...grpc.CallOption) ([]*domain_todo.Todo, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodListTodos, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}

	values := out.GetFields()["todos"].GetListValue().GetValues()
	todos := make([]*domain_todo.Todo, 0, len(values))
	for i, v := range values {
		t, err := fromProtoTodo(v.GetStructValue())
		if err != nil {
			return nil, fmt.Errorf("decode todos[%d]: %w", i, err)
		}
		todos = append(todos, t)
	}
	return todos, nil
}

// ListStream は server streaming 版。受け取った順に返す。
func (c *Client) ListStream(ctx context.Context, opts ...grpc.CallOption) ([]*domain_todo.Todo, error) {
	stream, err := c.cc.NewStream(ctx, &TodoServiceDesc.Streams[0], methodListTodosStream, opts...)
	if err != nil {
		return nil, err
	}
	// io.EOF のときは実際の status が RecvMsg 側で取れる
	if err := stream.SendMsg(&emptypb.Empty{}); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if err := stream.CloseSend(); err != nil {
		return nil, err
	}

	var todos []*domain_todo.Todo
	for {
		msg := new(structpb.Struct)
		if err := stream.RecvMsg(msg); err != nil {
			if errors.Is(err, io.EOF) {
				return todos, nil
			}
			return nil, err
		}
		t, err := fromProtoTodo(msg)
		if err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}
}

func (c *Client) Update(ctx context.Context, id int64, in domain_todo.Input, opts ...grpc.CallOption) (*domain_todo.Todo, error) {
	req, err := inputToStruct(in)
	if err != nil {
		return nil, err
	}
	req.Fields["id"] = structpb.NewNumberValue(float64(id))

	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, methodUpdateTodo, req, out, opts...); err != nil {
		return nil, err
	}
	return fromProtoTodo(out)
}

func (c *Client) Delete(ctx context.Context, id int64, opts ...grpc.CallOption) error {
	return c.cc.Invoke(ctx, methodDeleteTodo, wrapperspb.Int64(id), new(emptypb.Empty), opts...)
}
