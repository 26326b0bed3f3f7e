package grpcadapter

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// todo.v1.TodoService は protoc 生成コードを使わず、well-known type だけで組んだサービス定義。
// Todo は {"id", "title", "description", "completed"} を持つ structpb.Struct で表す。
const serviceName = "todo.v1.TodoService"

const (
	methodCreateTodo      = "/" + serviceName + "/CreateTodo"
	methodGetTodo         = "/" + serviceName + "/GetTodo"
	methodListTodos       = "/" + serviceName + "/ListTodos"
	methodListTodosStream = "/" + serviceName + "/ListTodosStream"
	methodUpdateTodo      = "/" + serviceName + "/UpdateTodo"
	methodDeleteTodo      = "/" + serviceName + "/DeleteTodo"
)

type TodoServiceServer interface {
	CreateTodo(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetTodo(context.Context, *wrapperspb.Int64Value) (*structpb.Struct, error)
	ListTodos(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	ListTodosStream(*emptypb.Empty, grpc.ServerStreamingServer[structpb.Struct]) error
	UpdateTodo(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteTodo(context.Context, *wrapperspb.Int64Value) (*emptypb.Empty, error)
}

// RegisterTodoServiceServer は生成コードの Register* と同じ役割。
func RegisterTodoServiceServer(s grpc.ServiceRegistrar, srv TodoServiceServer) {
	s.RegisterService(&TodoServiceDesc, srv)
}

var TodoServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*TodoServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "CreateTodo",
			Handler: unary(methodCreateTodo, func(s TodoServiceServer, ctx context.Context, in *structpb.Struct) (any, error) {
				return s.CreateTodo(ctx, in)
			}),
		},
		{
			MethodName: "GetTodo",
			Handler: unary(methodGetTodo, func(s TodoServiceServer, ctx context.Context, in *wrapperspb.Int64Value) (any, error) {
				return s.GetTodo(ctx, in)
			}),
		},
		{
			MethodName: "ListTodos",
			Handler: unary(methodListTodos, func(s TodoServiceServer, ctx context.Context, in *emptypb.Empty) (any, error) {
				return s.ListTodos(ctx, in)
			}),
		},
		{
			MethodName: "UpdateTodo",
			Handler: unary(methodUpdateTodo, func(s TodoServiceServer, ctx context.Context, in *structpb.Struct) (any, error) {
				return s.UpdateTodo(ctx, in)
			}),
		},
		{
			MethodName: "DeleteTodo",
			Handler: unary(methodDeleteTodo, func(s TodoServiceServer, ctx context.Context, in *wrapperspb.Int64Value) (any, error) {
				return s.DeleteTodo(ctx, in)
			}),
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "ListTodosStream",
			Handler:       listTodosStreamHandler,
			ServerStreams: true,
		},
	},
}

// unary は生成コードの _Xxx_Handler と同じ形の MethodHandler を作る。
func unary[Req any](fullMethod string, call func(TodoServiceServer, context.Context, *Req) (any, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}

		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(TodoServiceServer), ctx, req.(*Req))
		}
		if interceptor == nil {
			return handler(ctx, in)
		}

		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		return interceptor(ctx, in, info, handler)
	}
}

func listTodosStreamHandler(srv any, stream grpc.ServerStream) error {
	in := new(emptypb.Empty)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(TodoServiceServer).ListTodosStream(in, &grpc.GenericServerStream[emptypb.Empty, structpb.Struct]{ServerStream: stream})
}
