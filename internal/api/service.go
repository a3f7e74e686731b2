// Package api describes the todokeeper gRPC service. Requests and responses
// travel as google.protobuf.Struct values; the typed payloads in
// messages.go are encoded into them with Encode and read back with Decode.
package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "todokeeper.v1.TodoKeeper"

// Method names.
const (
	MethodSignIn          = "SignIn"
	MethodRefresh         = "Refresh"
	MethodPing            = "Ping"
	MethodProfile         = "Profile"
	MethodUpdateProfile   = "UpdateProfile"
	MethodDeleteAccount   = "DeleteAccount"
	MethodAvatarUploadURL = "AvatarUploadURL"
	MethodCreateCategory  = "CreateCategory"
	MethodUpdateCategory  = "UpdateCategory"
	MethodDeleteCategory  = "DeleteCategory"
	MethodListCategories  = "ListCategories"
	MethodGetCategory     = "GetCategory"
	MethodCreateTodo      = "CreateTodo"
	MethodUpdateTodo      = "UpdateTodo"
	MethodToggleTodo      = "ToggleTodo"
	MethodDeleteTodo      = "DeleteTodo"
	MethodListTodos       = "ListTodos"
)

// FullMethod returns the gRPC path of method, e.g. "/todokeeper.v1.TodoKeeper/Ping".
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// TodoKeeperServer is implemented by the server transport.
type TodoKeeperServer interface {
	SignIn(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Refresh(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Ping(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Profile(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateProfile(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteAccount(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AvatarUploadURL(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateCategory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateCategory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteCategory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListCategories(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetCategory(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateTodo(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateTodo(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ToggleTodo(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DeleteTodo(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListTodos(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(TodoKeeperServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unary(name string, call unaryCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(TodoKeeperServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(TodoKeeperServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc is the grpc.ServiceDesc for TodoKeeper.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TodoKeeperServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodSignIn, TodoKeeperServer.SignIn),
		unary(MethodRefresh, TodoKeeperServer.Refresh),
		unary(MethodPing, TodoKeeperServer.Ping),
		unary(MethodProfile, TodoKeeperServer.Profile),
		unary(MethodUpdateProfile, TodoKeeperServer.UpdateProfile),
		unary(MethodDeleteAccount, TodoKeeperServer.DeleteAccount),
		unary(MethodAvatarUploadURL, TodoKeeperServer.AvatarUploadURL),
		unary(MethodCreateCategory, TodoKeeperServer.CreateCategory),
		unary(MethodUpdateCategory, TodoKeeperServer.UpdateCategory),
		unary(MethodDeleteCategory, TodoKeeperServer.DeleteCategory),
		unary(MethodListCategories, TodoKeeperServer.ListCategories),
		unary(MethodGetCategory, TodoKeeperServer.GetCategory),
		unary(MethodCreateTodo, TodoKeeperServer.CreateTodo),
		unary(MethodUpdateTodo, TodoKeeperServer.UpdateTodo),
		unary(MethodToggleTodo, TodoKeeperServer.ToggleTodo),
		unary(MethodDeleteTodo, TodoKeeperServer.DeleteTodo),
		unary(MethodListTodos, TodoKeeperServer.ListTodos),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "todokeeper/v1/todokeeper.proto",
}

// RegisterTodoKeeperServer registers srv on s.
func RegisterTodoKeeperServer(s grpc.ServiceRegistrar, srv TodoKeeperServer) {
	s.RegisterService(&ServiceDesc, srv)
}
