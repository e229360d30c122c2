package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"

	"go.klb.dev/forgeclip/internal/ipc"
	"go.klb.dev/forgeclip/internal/rpc"
	"go.klb.dev/forgeclip/internal/tlsconf"
)

// errNoDaemon means neither the IPC socket nor the default address answered.
var errNoDaemon = errors.New("no forgeclip daemon running")

const probeTimeout = 2 * time.Second

// daemon is a client connection to a running "forgeclip serve".
type daemon struct {
	*rpc.Client
	conn      *grpc.ClientConn
	transport string
}

func (d *daemon) Close() error { return d.conn.Close() }

// connect reaches a daemon. The IPC socket is tried first unless --server
// was given explicitly; then --server over TCP. When nothing was asked for
// explicitly and nothing answers it returns errNoDaemon so callers can fall
// back to a local page.
func connect(cmd *cobra.Command, v *viper.Viper) (*daemon, error) {
	explicit := cmd.Flags().Changed("server")

	if !explicit && ipc.IsRunning() {
		conn, err := dialIPC()
		if err == nil {
			return &daemon{Client: rpc.NewClient(conn), conn: conn, transport: "ipc (" + ipc.SocketPath() + ")"}, nil
		}
	}

	addr := v.GetString("server")
	conn, err := dialServer(addr, v.GetString("token"), v.GetBool("no-tls"))
	if err == nil {
		return &daemon{Client: rpc.NewClient(conn), conn: conn, transport: "tcp (" + addr + ")"}, nil
	}
	if explicit {
		return nil, err
	}
	return nil, errNoDaemon
}

// dialIPC returns a *grpc.ClientConn over the local IPC channel.
// No auth: the socket is local and owner-restricted by the OS.
func dialIPC() (*grpc.ClientConn, error) {
	return grpc.NewClient(
		"passthrough:///forgeclip",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return ipc.Dial(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
}

// dialServer connects to addr and checks it answers Status within
// probeTimeout. token is used for both TLS key derivation and per-RPC auth.
func dialServer(addr, token string, noTLS bool) (*grpc.ClientConn, error) {
	var creds credentials.TransportCredentials = insecure.NewCredentials()
	if !noTLS {
		var err error
		creds, err = tlsconf.ClientCredentials(token)
		if err != nil {
			return nil, fmt.Errorf("tls credentials: %w", err)
		}
	}
	opts := []grpc.DialOption{grpc.WithTransportCredentials(creds)}
	if token != "" {
		opts = append(opts, grpc.WithPerRPCCredentials(&clientCreds{token: token}))
	}

	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", addr, err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()
	if _, err := rpc.NewClient(conn).Status(ctx, &rpc.StatusRequest{}); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("%s: %w", addr, err)
	}
	return conn, nil
}

type clientCreds struct {
	token string
}

func (c *clientCreds) GetRequestMetadata(_ context.Context, _ ...string) (map[string]string, error) {
	return map[string]string{"authorization": "Bearer " + c.token}, nil
}

func (c *clientCreds) RequireTransportSecurity() bool { return false }
