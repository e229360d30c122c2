// Package rpc exposes a page over gRPC (JSON codec) and plain HTTP routes
// on the grpc-gateway mux.
package rpc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"go.klb.dev/forgeclip/internal/clip"
	"go.klb.dev/forgeclip/internal/loop"
	"go.klb.dev/forgeclip/internal/page"
	"go.klb.dev/forgeclip/internal/toast"
)

// Pager is the page surface the service drives. *page.Page implements it.
type Pager interface {
	CopyText(ctx context.Context, text string) clip.Result
	CopyElement(ctx context.Context, id string) clip.Result
	ShowToast(ctx context.Context, msg string, cat toast.Category) (string, error)
	DismissToast(ctx context.Context, id string) (bool, error)
	BindButton(ctx context.Context, buttonID, sourceID string) (bool, error)
	Click(ctx context.Context, buttonID string) (page.ClickResult, error)
	Snapshot(ctx context.Context) (page.Snapshot, error)
	HTML(ctx context.Context) (string, error)
}

// Service implements PageServer on top of a Pager.
type Service struct {
	p     Pager
	token string // empty = no auth
}

// New returns a Service backed by p. token may be empty to disable auth.
func New(p Pager, token string) *Service {
	return &Service{p: p, token: token}
}

// CopyText implements PageService.CopyText. A refused write is a response,
// not an error.
func (s *Service) CopyText(ctx context.Context, req *CopyTextRequest) (*CopyResponse, error) {
	if err := s.auth(ctx); err != nil {
		return nil, err
	}
	return copyResponse(s.p.CopyText(ctx, req.Text)), nil
}

// CopyElement implements PageService.CopyElement.
func (s *Service) CopyElement(ctx context.Context, req *CopyElementRequest) (*CopyResponse, error) {
	if err := s.auth(ctx); err != nil {
		return nil, err
	}
	if req.ID == "" {
		return nil, status.Error(codes.InvalidArgument, "element id is required")
	}
	return copyResponse(s.p.CopyElement(ctx, req.ID)), nil
}

// ShowToast implements PageService.ShowToast.
func (s *Service) ShowToast(ctx context.Context, req *ShowToastRequest) (*ShowToastResponse, error) {
	if err := s.auth(ctx); err != nil {
		return nil, err
	}
	id, err := s.p.ShowToast(ctx, req.Message, toast.ParseCategory(req.Category))
	if err != nil {
		return nil, toStatus(err)
	}
	return &ShowToastResponse{ID: id}, nil
}

// DismissToast implements PageService.DismissToast.
func (s *Service) DismissToast(ctx context.Context, req *DismissToastRequest) (*DismissToastResponse, error) {
	if err := s.auth(ctx); err != nil {
		return nil, err
	}
	found, err := s.p.DismissToast(ctx, req.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &DismissToastResponse{Found: found}, nil
}

// BindButton implements PageService.BindButton. A missing button is
// reported as Bound=false.
func (s *Service) BindButton(ctx context.Context, req *BindButtonRequest) (*BindButtonResponse, error) {
	if err := s.auth(ctx); err != nil {
		return nil, err
	}
	if req.Button == "" || req.Source == "" {
		return nil, status.Error(codes.InvalidArgument, "button and source are required")
	}
	ok, err := s.p.BindButton(ctx, req.Button, req.Source)
	if err != nil {
		return nil, toStatus(err)
	}
	return &BindButtonResponse{Bound: ok}, nil
}

// Click implements PageService.Click.
func (s *Service) Click(ctx context.Context, req *ClickRequest) (*ClickResponse, error) {
	if err := s.auth(ctx); err != nil {
		return nil, err
	}
	res, err := s.p.Click(ctx, req.Button)
	if err != nil {
		return nil, toStatus(err)
	}
	return &ClickResponse{
		Copy:  *copyResponse(res.Result),
		State: res.State.String(),
		Label: res.Label,
	}, nil
}

// Status implements PageService.Status.
func (s *Service) Status(ctx context.Context, _ *StatusRequest) (*StatusResponse, error) {
	if err := s.auth(ctx); err != nil {
		return nil, err
	}
	snap, err := s.p.Snapshot(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	resp := &StatusResponse{
		Clipboard: snap.Clipboard,
		Buttons:   make([]Button, 0, len(snap.Buttons)),
		Toasts:    make([]Toast, 0, len(snap.Toasts)),
	}
	for _, b := range snap.Buttons {
		resp.Buttons = append(resp.Buttons, Button(b))
	}
	for _, t := range snap.Toasts {
		resp.Toasts = append(resp.Toasts, Toast(t))
	}
	return resp, nil
}

// auth validates the bearer token in ctx metadata. Skipped when s.token is empty.
func (s *Service) auth(ctx context.Context) error {
	if s.token == "" {
		return nil
	}
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return status.Error(codes.Unauthenticated, "missing metadata")
	}
	vals := md.Get("authorization")
	if len(vals) == 0 || vals[0] == "" {
		return status.Error(codes.Unauthenticated, "missing authorization header")
	}
	const prefix = "Bearer "
	tok := vals[0]
	if len(tok) > len(prefix) && tok[:len(prefix)] == prefix {
		tok = tok[len(prefix):]
	}
	if tok != s.token {
		return status.Error(codes.Unauthenticated, "invalid token")
	}
	return nil
}

// toStatus maps page errors onto gRPC codes.
func toStatus(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, page.ErrNoButton):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, page.ErrNotLoaded), errors.Is(err, loop.ErrClosed):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	}
	return status.Error(codes.Internal, err.Error())
}

// NewServer returns a gRPC server with s registered and request logging
// installed.
func NewServer(s *Service, opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(logUnary))
	srv := grpc.NewServer(opts...)
	RegisterPageServer(srv, s)
	return srv
}

func logUnary(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	id := uuid.NewString()
	start := time.Now()
	resp, err := handler(ctx, req)
	slog.Debug("rpc",
		"id", id,
		"method", info.FullMethod,
		"peer", addrFromCtx(ctx),
		"code", status.Code(err).String(),
		"dur", time.Since(start),
	)
	return resp, err
}

func addrFromCtx(ctx context.Context) string {
	if p, ok := peer.FromContext(ctx); ok && p.Addr != nil {
		return p.Addr.String()
	}
	return "unknown"
}
