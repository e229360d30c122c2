//go:build !windows

package ipc

import (
	"os"
	"path/filepath"
	"testing"
)

func TestListenAndDial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "forgeclip.sock")
	t.Setenv("FORGECLIP_SOCKET", path)

	if SocketPath() != path {
		t.Fatalf("SocketPath = %q", SocketPath())
	}
	if IsRunning() {
		t.Fatal("reported running before Listen")
	}

	// A stale file from a crashed run must not block Listen.
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	ln, err := Listen()
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()

	go func() {
		for {
			c, err := ln.Accept()
			if err != nil {
				return
			}
			_ = c.Close()
		}
	}()

	if !IsRunning() {
		t.Fatal("IsRunning = false with a listener")
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("socket mode = %o", perm)
	}
}

func TestSocketPathDefaults(t *testing.T) {
	t.Setenv("FORGECLIP_SOCKET", "")
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	if got := SocketPath(); got != "/run/user/1000/forgeclip.sock" {
		t.Errorf("SocketPath = %q", got)
	}
}
