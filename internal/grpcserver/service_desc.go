package grpcserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "alignment.v1.AlignmentService"

// Method names of alignment.v1.AlignmentService. Every request and response
// is a google.protobuf.Struct carrying the same JSON shape as the HTTP API.
const (
	MethodUpdatePosition   = "UpdatePosition"
	MethodCheckPosition    = "CheckPosition"
	MethodConfirmAlignment = "ConfirmAlignment"
	MethodAutocomplete     = "Autocomplete"
)

// AlignmentServer is the server API of alignment.v1.AlignmentService.
type AlignmentServer interface {
	UpdatePosition(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CheckPosition(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ConfirmAlignment(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Autocomplete(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryCall func(AlignmentServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

// ServiceDesc describes alignment.v1.AlignmentService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AlignmentServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: MethodUpdatePosition, Handler: unaryHandler(MethodUpdatePosition, AlignmentServer.UpdatePosition)},
		{MethodName: MethodCheckPosition, Handler: unaryHandler(MethodCheckPosition, AlignmentServer.CheckPosition)},
		{MethodName: MethodConfirmAlignment, Handler: unaryHandler(MethodConfirmAlignment, AlignmentServer.ConfirmAlignment)},
		{MethodName: MethodAutocomplete, Handler: unaryHandler(MethodAutocomplete, AlignmentServer.Autocomplete)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "alignment/v1/alignment.proto",
}

func unaryHandler(method string, call unaryCall) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	fullMethod := "/" + ServiceName + "/" + method
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AlignmentServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AlignmentServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ─── Client ──────────────────────────────────────────────────────────────────

// Client calls alignment.v1.AlignmentService.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient returns a Client over cc.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) UpdatePosition(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodUpdatePosition, in, opts...)
}

func (c *Client) CheckPosition(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodCheckPosition, in, opts...)
}

func (c *Client) ConfirmAlignment(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodConfirmAlignment, in, opts...)
}

func (c *Client) Autocomplete(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodAutocomplete, in, opts...)
}

func (c *Client) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
