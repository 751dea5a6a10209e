package intake

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "alarmblackout.v1.IntakeService"

// Method names.
const (
	methodReceive        = "Receive"
	methodBlackoutChange = "BlackoutChange"
	methodTakeAction     = "TakeAction"
	methodDelete         = "Delete"
)

// IntakeServer is the server API of the intake service.
type IntakeServer interface {
	Receive(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	BlackoutChange(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error)
	TakeAction(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error)
	Delete(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error)
}

// serviceDesc describes the intake service for grpc.Server.
//
//nolint:gochecknoglobals // Service descriptors are package-level by gRPC convention.
var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*IntakeServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: methodReceive,
			Handler:    unaryHandler(methodReceive, IntakeServer.Receive),
		},
		{
			MethodName: methodBlackoutChange,
			Handler:    unaryHandler(methodBlackoutChange, IntakeServer.BlackoutChange),
		},
		{
			MethodName: methodTakeAction,
			Handler:    unaryHandler(methodTakeAction, IntakeServer.TakeAction),
		},
		{
			MethodName: methodDelete,
			Handler:    unaryHandler(methodDelete, IntakeServer.Delete),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "alarmblackout/v1/intake.proto",
}

// RegisterIntakeServer registers srv on the gRPC service registrar.
func RegisterIntakeServer(s grpc.ServiceRegistrar, srv IntakeServer) {
	s.RegisterService(&serviceDesc, srv)
}

// fullMethod returns the full RPC name of method.
func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// unaryHandler adapts an IntakeServer method to a grpc.MethodHandler.
func unaryHandler[R any](
	method string,
	call func(IntakeServer, context.Context, *structpb.Struct) (R, error),
) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}

		impl, ok := srv.(IntakeServer)
		if !ok {
			return nil, status.Errorf(codes.Internal, "%s: server %T does not implement %s", method, srv, ServiceName)
		}

		if interceptor == nil {
			return call(impl, ctx, in)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod(method),
		}

		handler := func(ctx context.Context, req any) (any, error) {
			typed, ok := req.(*structpb.Struct)
			if !ok {
				return nil, status.Errorf(codes.InvalidArgument, "%s: unexpected request type %T", method, req)
			}

			return call(impl, ctx, typed)
		}

		return interceptor(ctx, in, info, handler)
	}
}
