package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "forgeclip.v1.PageService"

// PageServer is the server API for PageService.
type PageServer interface {
	CopyText(context.Context, *CopyTextRequest) (*CopyResponse, error)
	CopyElement(context.Context, *CopyElementRequest) (*CopyResponse, error)
	ShowToast(context.Context, *ShowToastRequest) (*ShowToastResponse, error)
	DismissToast(context.Context, *DismissToastRequest) (*DismissToastResponse, error)
	BindButton(context.Context, *BindButtonRequest) (*BindButtonResponse, error)
	Click(context.Context, *ClickRequest) (*ClickResponse, error)
	Status(context.Context, *StatusRequest) (*StatusResponse, error)
}

// RegisterPageServer registers srv on s.
func RegisterPageServer(s grpc.ServiceRegistrar, srv PageServer) {
	s.RegisterService(&PageServiceDesc, srv)
}

// PageServiceDesc describes PageService for grpc.Server.
var PageServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PageServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("CopyText", PageServer.CopyText),
		unary("CopyElement", PageServer.CopyElement),
		unary("ShowToast", PageServer.ShowToast),
		unary("DismissToast", PageServer.DismissToast),
		unary("BindButton", PageServer.BindButton),
		unary("Click", PageServer.Click),
		unary("Status", PageServer.Status),
	},
	Metadata: "forgeclip/v1/page",
}

func unary[Req, Resp any](name string, call func(PageServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	full := "/" + ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(PageServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: full}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(PageServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
