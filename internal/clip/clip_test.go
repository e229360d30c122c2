package clip

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

type panicWriter struct{}

func (panicWriter) Name() string                            { return "panic" }
func (panicWriter) WriteText(context.Context, string) error { panic("display gone") }

func TestCopyReportsSuccess(t *testing.T) {
	t.Parallel()

	for _, text := range []string{"", "Hello", strings.Repeat("x", 1<<20), "héllo 世界"} {
		m := NewMemory()
		res := Copy(context.Background(), m, text)
		if !res.OK() {
			t.Fatalf("Copy(%d bytes) failed: %v", len(text), res.Err)
		}
		if res.Reason() != "" {
			t.Errorf("Reason() = %q on success", res.Reason())
		}
		if res.Bytes != len(text) || res.Backend != "memory" {
			t.Errorf("Result = %+v", res)
		}
		if m.Text() != text {
			t.Errorf("clipboard holds %d bytes, want %d", len(m.Text()), len(text))
		}
	}
}

func TestCopyReportsRejection(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	m.Reject(ErrRejected)
	res := Copy(context.Background(), m, "secret")
	if res.OK() {
		t.Fatal("expected failure")
	}
	if !errors.Is(res.Err, ErrRejected) {
		t.Errorf("err = %v, want ErrRejected", res.Err)
	}
	if m.Text() != "" {
		t.Errorf("rejected write reached clipboard: %q", m.Text())
	}
}

func TestCopyRecoversFromPanic(t *testing.T) {
	t.Parallel()

	res := Copy(context.Background(), panicWriter{}, "x")
	if res.OK() || !errors.Is(res.Err, ErrRejected) {
		t.Fatalf("Result = %+v, want ErrRejected", res)
	}
}

func TestCopyNilWriter(t *testing.T) {
	t.Parallel()

	if res := Copy(context.Background(), nil, "x"); !errors.Is(res.Err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", res.Err)
	}
}

func TestCopyCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m := NewMemory()
	if res := Copy(ctx, m, "x"); res.OK() {
		t.Fatal("expected failure on cancelled context")
	}
	if m.Writes() != 0 {
		t.Errorf("writes = %d, want 0", m.Writes())
	}
}

func TestChainFallsThrough(t *testing.T) {
	t.Parallel()

	first, second := NewMemory(), NewMemory()
	first.Reject(ErrUnavailable)
	c := Chain{first, second}

	if err := c.WriteText(context.Background(), "hi"); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	if second.Text() != "hi" {
		t.Errorf("second backend holds %q", second.Text())
	}
	if c.Name() != "memory,memory" {
		t.Errorf("Name() = %q", c.Name())
	}
}

func TestChainJoinsErrors(t *testing.T) {
	t.Parallel()

	a, b := NewMemory(), NewMemory()
	a.Reject(ErrUnavailable)
	b.Reject(ErrRejected)
	err := Chain{a, b}.WriteText(context.Background(), "hi")
	if !errors.Is(err, ErrUnavailable) || !errors.Is(err, ErrRejected) {
		t.Fatalf("err = %v, want both causes", err)
	}
	if err := (Chain{}).WriteText(context.Background(), "hi"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("empty chain err = %v", err)
	}
}

func TestOSC52(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		tty    bool
		env    map[string]string
		wantOK bool
		prefix string
	}{
		{name: "not a terminal", tty: false},
		{name: "plain terminal", tty: true, wantOK: true, prefix: "\x1b]52;c;"},
		{name: "tmux", tty: true, env: map[string]string{"TMUX": "/tmp/tmux"}, wantOK: true, prefix: "\x1bPtmux;"},
		{name: "screen", tty: true, env: map[string]string{"STY": "1.pts"}, wantOK: true, prefix: "\x1bP"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			b := &osc52Backend{
				out:   &buf,
				env:   func(k string) string { return tt.env[k] },
				isTTY: func() bool { return tt.tty },
			}
			err := b.WriteText(context.Background(), "Hello")
			if !tt.wantOK {
				if !errors.Is(err, ErrUnavailable) {
					t.Fatalf("err = %v, want ErrUnavailable", err)
				}
				if buf.Len() != 0 {
					t.Errorf("wrote %q to a non-terminal", buf.String())
				}
				return
			}
			if err != nil {
				t.Fatalf("WriteText: %v", err)
			}
			out := buf.String()
			if !strings.HasPrefix(out, tt.prefix) {
				t.Errorf("output %q lacks prefix %q", out, tt.prefix)
			}
			if !strings.Contains(out, base64.StdEncoding.EncodeToString([]byte("Hello"))) {
				t.Errorf("output %q lacks payload", out)
			}
		})
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	for _, kind := range Kinds {
		w, err := New(kind)
		if err != nil || w == nil {
			t.Errorf("New(%q) = %v, %v", kind, w, err)
		}
	}
	if _, err := New("carrier-pigeon"); err == nil {
		t.Error("expected error for unknown backend")
	}
	w, _ := New("none")
	if res := Copy(context.Background(), w, "x"); !errors.Is(res.Err, ErrUnavailable) {
		t.Errorf("none backend err = %v", res.Err)
	}
}
