package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// Client calls PageService over any gRPC connection.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps cc.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, req any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, "/"+ServiceName+"/"+method, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CopyText(ctx context.Context, req *CopyTextRequest, opts ...grpc.CallOption) (*CopyResponse, error) {
	return invoke[CopyResponse](ctx, c.cc, "CopyText", req, opts)
}

func (c *Client) CopyElement(ctx context.Context, req *CopyElementRequest, opts ...grpc.CallOption) (*CopyResponse, error) {
	return invoke[CopyResponse](ctx, c.cc, "CopyElement", req, opts)
}

func (c *Client) ShowToast(ctx context.Context, req *ShowToastRequest, opts ...grpc.CallOption) (*ShowToastResponse, error) {
	return invoke[ShowToastResponse](ctx, c.cc, "ShowToast", req, opts)
}

func (c *Client) DismissToast(ctx context.Context, req *DismissToastRequest, opts ...grpc.CallOption) (*DismissToastResponse, error) {
	return invoke[DismissToastResponse](ctx, c.cc, "DismissToast", req, opts)
}

func (c *Client) BindButton(ctx context.Context, req *BindButtonRequest, opts ...grpc.CallOption) (*BindButtonResponse, error) {
	return invoke[BindButtonResponse](ctx, c.cc, "BindButton", req, opts)
}

func (c *Client) Click(ctx context.Context, req *ClickRequest, opts ...grpc.CallOption) (*ClickResponse, error) {
	return invoke[ClickResponse](ctx, c.cc, "Click", req, opts)
}

func (c *Client) Status(ctx context.Context, req *StatusRequest, opts ...grpc.CallOption) (*StatusResponse, error) {
	return invoke[StatusResponse](ctx, c.cc, "Status", req, opts)
}
