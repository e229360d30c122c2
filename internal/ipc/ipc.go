// Package ipc provides the local channel CLI tools (copy-element, toast,
// click, status) use to reach a running "forgeclip serve" daemon without
// going through its TCP port.
//
// The channel carries the same gRPC PageService as the TCP listener. On
// Unix it is a domain socket, on Windows a named pipe.
package ipc

import (
	"context"
	"net"
	"os"
)

// SocketPath returns the path of the IPC endpoint.
//
//   - $FORGECLIP_SOCKET when set
//   - Linux:   $XDG_RUNTIME_DIR/forgeclip.sock, else $TMPDIR/forgeclip.sock
//   - macOS:   $TMPDIR/forgeclip.sock
//   - Windows: \\.\pipe\forgeclip
func SocketPath() string {
	if s := os.Getenv("FORGECLIP_SOCKET"); s != "" {
		return s
	}
	return socketPath()
}

// IsRunning reports whether a daemon appears to be listening. It does a
// cheap dial-and-close; no data is exchanged.
func IsRunning() bool {
	c, err := Dial(context.Background())
	if err != nil {
		return false
	}
	_ = c.Close()
	return true
}

// Listen creates the IPC listener.
func Listen() (net.Listener, error) {
	return listenIPC(SocketPath())
}

// Dial connects to the IPC endpoint.
func Dial(ctx context.Context) (net.Conn, error) {
	return dialIPC(ctx, SocketPath())
}
