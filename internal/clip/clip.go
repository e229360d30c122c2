// Package clip writes text to a clipboard and turns the outcome into a
// Result. Backends are selected by name:
//
//	native   golang.design/x/clipboard (X11 / NSPasteboard / Win32)
//	system   github.com/atotto/clipboard (pbcopy, xclip, xsel, wl-copy, clip.exe)
//	osc52    OSC 52 escape sequence written to the controlling terminal
//	memory   in-process clipboard for headless hosts
//	none     rejects every write
//	auto     native, then system, then osc52
package clip

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

var (
	// ErrUnavailable is returned by a backend that cannot reach a clipboard
	// on this host (no display, no helper binary, no terminal).
	ErrUnavailable = errors.New("clipboard unavailable")

	// ErrRejected is returned when the platform refused the write.
	ErrRejected = errors.New("clipboard write rejected")
)

// Writer is the interface every clipboard backend satisfies.
type Writer interface {
	// Name returns a human-readable name for the backend.
	Name() string

	// WriteText places text on the clipboard. It blocks until the platform
	// accepted or refused the write.
	WriteText(ctx context.Context, text string) error
}

// Result is the outcome of a copy: success, or failure with a reason.
type Result struct {
	Backend string
	Bytes   int
	Err     error
}

// OK reports whether the text reached the clipboard.
func (r Result) OK() bool { return r.Err == nil }

// Reason describes why the copy failed, or "" on success.
func (r Result) Reason() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Failed returns a failure Result for err without touching any backend.
func Failed(err error) Result { return Result{Err: err} }

// Copy writes text through w. It never returns an error and never panics:
// a refused write is logged and reported through the Result.
func Copy(ctx context.Context, w Writer, text string) (res Result) {
	if w == nil {
		res = Failed(ErrUnavailable)
		slog.Error("failed to copy to clipboard", "err", res.Err)
		return res
	}
	res = Result{Backend: w.Name(), Bytes: len(text)}

	defer func() {
		if p := recover(); p != nil {
			res.Err = fmt.Errorf("%w: %v", ErrRejected, p)
		}
		if res.Err != nil {
			slog.Error("failed to copy to clipboard", "backend", res.Backend, "err", res.Err)
		}
	}()

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}
	res.Err = w.WriteText(ctx, text)
	return res
}
