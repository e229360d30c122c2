package main

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/soheilhy/cmux"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"go.klb.dev/forgeclip/internal/ipc"
	"go.klb.dev/forgeclip/internal/page"
	"go.klb.dev/forgeclip/internal/rpc"
	"go.klb.dev/forgeclip/internal/tlsconf"
)

func newServeCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Host a page and serve it over IPC, gRPC and HTTP",
		Long: `Loads a rendered prompt page, binds its copy button once the page has
loaded and keeps it live. CLI tools reach it over the local IPC socket;
remote callers use gRPC or the HTTP routes on --addr (one port, TLS derived
from --token unless --no-tls).

Config file search order:
  /etc/forgeclip/forgeclip.toml
  $HOME/.config/forgeclip/forgeclip.toml
  path supplied via --config

Precedence (lowest → highest): defaults → config file → FORGECLIP_* env vars → flags`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(cmd *cobra.Command, _ []string) error { return runServe(cmd.Context(), v) },
	}

	f := cmd.Flags()
	f.String("addr", defaultAddr, "TCP listen address for gRPC and HTTP (empty = IPC only)")
	f.String("token", "", "shared secret (empty = no auth; TLS uses the default passphrase)")
	f.Bool("no-tls", false, "serve plain gRPC and HTTP on --addr")
	addPageFlags(cmd)
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runServe(ctx context.Context, v *viper.Viper) error {
	setupLogging(v, true)

	p, err := openPage(v)
	if err != nil {
		return err
	}

	addr := v.GetString("addr")
	token := v.GetString("token")
	noTLS := v.GetBool("no-tls")

	slog.Info("forgeclip starting",
		"version", Version,
		"addr", addr,
		"page", v.GetString("page"),
		"clipboard", v.GetString("clipboard"),
		"tls", addr != "" && !noTLS,
		"auth", token != "",
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p.Run(ctx)
		return nil
	})

	if err := serveIPC(ctx, g, p); err != nil {
		slog.Warn("IPC socket unavailable", "err", err)
	}

	if addr != "" {
		if err := serveTCP(ctx, g, p, addr, token, noTLS); err != nil {
			stop()
			_ = g.Wait()
			return err
		}
	}

	err = g.Wait()
	slog.Info("forgeclip stopped")
	return err
}

// serveIPC serves the page service on the local IPC socket until ctx ends.
func serveIPC(ctx context.Context, g *errgroup.Group, p *page.Page) error {
	ln, err := ipc.Listen()
	if err != nil {
		return err
	}
	slog.Info("IPC socket listening", "path", ipc.SocketPath())

	srv := rpc.NewServer(rpc.New(p, ""))
	g.Go(func() error { return srv.Serve(ln) })
	g.Go(func() error {
		<-ctx.Done()
		srv.GracefulStop()
		return nil
	})
	return nil
}

// serveTCP multiplexes gRPC and HTTP/1.1 on one listener.
func serveTCP(ctx context.Context, g *errgroup.Group, p *page.Page, addr, token string, noTLS bool) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	if !noTLS {
		pair, err := tlsconf.Derive(token)
		if err != nil {
			_ = ln.Close()
			return err
		}
		ln = tls.NewListener(ln, pair.Server)
	}
	slog.Info("listening", "addr", ln.Addr())

	svc := rpc.New(p, token)
	handler, err := rpc.Handler(svc)
	if err != nil {
		_ = ln.Close()
		return err
	}
	grpcSrv := rpc.NewServer(svc)
	httpSrv := &http.Server{Handler: handler, ReadHeaderTimeout: 10 * time.Second}

	m := cmux.New(ln)
	grpcL := m.Match(cmux.HTTP2MatchHeaderFieldPrefixSendSettings("content-type", "application/grpc"))
	httpL := m.Match(cmux.Any())

	g.Go(func() error { return grpcSrv.Serve(grpcL) })
	g.Go(func() error {
		if err := httpSrv.Serve(httpL); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		if err := m.Serve(); err != nil && ctx.Err() == nil {
			return fmt.Errorf("serve %s: %w", addr, err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		grpcSrv.Stop()
		_ = httpSrv.Close()
		_ = ln.Close()
		return nil
	})
	return nil
}
