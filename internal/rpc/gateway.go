package rpc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	gwruntime "github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// maxBody bounds request bodies on the HTTP routes.
const maxBody = 4 << 20

// gateway serves the HTTP routes. Bodies and error envelopes go through
// the gateway mux's marshaler and error handler.
type gateway struct {
	s   *Service
	mux *gwruntime.ServeMux
}

// Handler returns the HTTP surface for s:
//
//	GET  /                         live page HTML
//	POST /v1/copy                  {"text": ...}
//	POST /v1/elements/{id}:copy
//	POST /v1/toasts                {"message": ..., "category": ...}
//	DELETE /v1/toasts/{id}
//	POST /v1/buttons/{button}:bind {"source": ...}
//	POST /v1/buttons/{button}:click
//	GET  /v1/status
//
// The Authorization header is checked the same way as gRPC metadata.
func Handler(s *Service) (http.Handler, error) {
	g := &gateway{
		s: s,
		mux: gwruntime.NewServeMux(
			gwruntime.WithMarshalerOption(gwruntime.MIMEWildcard, &gwruntime.JSONBuiltin{}),
		),
	}

	routes := []struct {
		method, pattern string
		h               gwruntime.HandlerFunc
	}{
		{"POST", "/v1/copy", g.copyText},
		{"POST", "/v1/elements/{id}:copy", g.copyElement},
		{"POST", "/v1/toasts", g.showToast},
		{"DELETE", "/v1/toasts/{id}", g.dismissToast},
		{"POST", "/v1/buttons/{button}:bind", g.bind},
		{"POST", "/v1/buttons/{button}:click", g.click},
		{"GET", "/v1/status", g.status},
	}
	for _, r := range routes {
		if err := g.mux.HandlePath(r.method, r.pattern, logHTTP(r.h)); err != nil {
			return nil, fmt.Errorf("route %s %s: %w", r.method, r.pattern, err)
		}
	}

	mux := http.NewServeMux()
	mux.Handle("/v1/", g.mux)
	mux.HandleFunc("GET /{$}", g.page)
	return mux, nil
}

func (g *gateway) page(w http.ResponseWriter, r *http.Request) {
	ctx := incoming(r)
	if err := g.s.auth(ctx); err != nil {
		g.fail(w, r, err)
		return
	}
	html, err := g.s.p.HTML(ctx)
	if err != nil {
		g.fail(w, r, toStatus(err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, html)
}

func (g *gateway) copyText(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var req CopyTextRequest
	if !g.decode(w, r, &req) {
		return
	}
	resp, err := g.s.CopyText(incoming(r), &req)
	reply(g, w, r, resp, err)
}

func (g *gateway) copyElement(w http.ResponseWriter, r *http.Request, params map[string]string) {
	resp, err := g.s.CopyElement(incoming(r), &CopyElementRequest{ID: params["id"]})
	reply(g, w, r, resp, err)
}

func (g *gateway) showToast(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	var req ShowToastRequest
	if !g.decode(w, r, &req) {
		return
	}
	resp, err := g.s.ShowToast(incoming(r), &req)
	reply(g, w, r, resp, err)
}

func (g *gateway) dismissToast(w http.ResponseWriter, r *http.Request, params map[string]string) {
	resp, err := g.s.DismissToast(incoming(r), &DismissToastRequest{ID: params["id"]})
	reply(g, w, r, resp, err)
}

func (g *gateway) bind(w http.ResponseWriter, r *http.Request, params map[string]string) {
	var req BindButtonRequest
	if !g.decode(w, r, &req) {
		return
	}
	req.Button = params["button"]
	resp, err := g.s.BindButton(incoming(r), &req)
	reply(g, w, r, resp, err)
}

func (g *gateway) click(w http.ResponseWriter, r *http.Request, params map[string]string) {
	resp, err := g.s.Click(incoming(r), &ClickRequest{Button: params["button"]})
	reply(g, w, r, resp, err)
}

func (g *gateway) status(w http.ResponseWriter, r *http.Request, _ map[string]string) {
	resp, err := g.s.Status(incoming(r), &StatusRequest{})
	reply(g, w, r, resp, err)
}

// incoming carries the Authorization header into gRPC metadata so the
// HTTP routes share Service.auth.
func incoming(r *http.Request) context.Context {
	md := metadata.MD{}
	if v := r.Header.Get("Authorization"); v != "" {
		md.Set("authorization", v)
	}
	return metadata.NewIncomingContext(r.Context(), md)
}

// decode reads the request body into v with the inbound marshaler. An empty
// body leaves v zero.
func (g *gateway) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	inbound, _ := gwruntime.MarshalerForRequest(g.mux, r)
	err := inbound.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	g.fail(w, r, status.Errorf(codes.InvalidArgument, "invalid request body: %v", err))
	return false
}

func reply[T any](g *gateway, w http.ResponseWriter, r *http.Request, v *T, err error) {
	if err != nil {
		g.fail(w, r, err)
		return
	}
	_, outbound := gwruntime.MarshalerForRequest(g.mux, r)
	buf, err := outbound.Marshal(v)
	if err != nil {
		g.fail(w, r, status.Errorf(codes.Internal, "marshal response: %v", err))
		return
	}
	w.Header().Set("Content-Type", outbound.ContentType(v))
	_, _ = w.Write(buf)
}

// fail writes err through the mux's error handler, which maps the gRPC
// code to an HTTP status.
func (g *gateway) fail(w http.ResponseWriter, r *http.Request, err error) {
	_, outbound := gwruntime.MarshalerForRequest(g.mux, r)
	gwruntime.HTTPError(r.Context(), g.mux, outbound, w, r, err)
}

func logHTTP(h gwruntime.HandlerFunc) gwruntime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, params map[string]string) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		slog.Debug("http", "id", id, "method", r.Method, "path", r.URL.Path, "remote", r.RemoteAddr)
		h(w, r, params)
	}
}
