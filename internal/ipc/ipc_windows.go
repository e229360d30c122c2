//go:build windows

package ipc

import (
	"context"
	"net"

	"github.com/microsoft/go-winio"
)

const pipeName = `\\.\pipe\forgeclip`

func socketPath() string { return pipeName }

func listenIPC(path string) (net.Listener, error) {
	return winio.ListenPipe(path, nil)
}

func dialIPC(ctx context.Context, path string) (net.Conn, error) {
	return winio.DialPipeContext(ctx, path)
}
