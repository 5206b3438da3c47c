// Package redblockv1 contains the gRPC service description for
// redblock.v1.Redblock (see redblock.proto). Requests and responses are the
// protobuf well-known wrapper types.
package redblockv1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "redblock.v1.Redblock"
	// TestFullMethodName is the full RPC path of Test.
	TestFullMethodName = "/redblock.v1.Redblock/Test"
)

// RedblockServer is the server API for the Redblock service.
type RedblockServer interface {
	Test(context.Context, *wrapperspb.StringValue) (*wrapperspb.BoolValue, error)
}

// UnimplementedRedblockServer can be embedded to have forward compatible
// implementations.
type UnimplementedRedblockServer struct{}

func (UnimplementedRedblockServer) Test(context.Context, *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Test not implemented")
}

// RegisterRedblockServer registers srv with s.
func RegisterRedblockServer(s grpc.ServiceRegistrar, srv RedblockServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func testHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RedblockServer).Test(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: TestFullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(RedblockServer).Test(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// ServiceDesc is the grpc.ServiceDesc for the Redblock service.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RedblockServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Test",
			Handler:    testHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "redblock/v1/redblock.proto",
}

// RedblockClient is the client API for the Redblock service.
type RedblockClient interface {
	Test(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error)
}

type redblockClient struct {
	cc grpc.ClientConnInterface
}

// NewRedblockClient returns a client using cc.
func NewRedblockClient(cc grpc.ClientConnInterface) RedblockClient {
	return &redblockClient{cc: cc}
}

func (c *redblockClient) Test(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error) {
	out := new(wrapperspb.BoolValue)
	if err := c.cc.Invoke(ctx, TestFullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
