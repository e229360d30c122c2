package clip

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Chain tries each backend in order and stops at the first that accepts
// the write.
type Chain []Writer

func (c Chain) Name() string {
	names := make([]string, len(c))
	for i, w := range c {
		names[i] = w.Name()
	}
	return strings.Join(names, ",")
}

func (c Chain) WriteText(ctx context.Context, text string) error {
	if len(c) == 0 {
		return ErrUnavailable
	}
	var errs []error
	for _, w := range c {
		err := w.WriteText(ctx, text)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		slog.Debug("clipboard backend failed, trying next", "backend", w.Name(), "err", err)
		errs = append(errs, fmt.Errorf("%s: %w", w.Name(), err))
	}
	return errors.Join(errs...)
}

type noneBackend struct{}

func (noneBackend) Name() string { return "none" }

func (noneBackend) WriteText(context.Context, string) error {
	return fmt.Errorf("%w: clipboard disabled", ErrUnavailable)
}

// Kinds lists the backend names accepted by New.
var Kinds = []string{"auto", "native", "system", "osc52", "memory", "none"}

// New returns the backend registered under kind.
func New(kind string) (Writer, error) {
	switch strings.ToLower(kind) {
	case "", "auto":
		return Chain{Native(), System(), OSC52(os.Stderr)}, nil
	case "native":
		return Native(), nil
	case "system":
		return System(), nil
	case "osc52":
		return OSC52(os.Stderr), nil
	case "memory":
		return NewMemory(), nil
	case "none":
		return noneBackend{}, nil
	default:
		return nil, fmt.Errorf("unknown clipboard backend %q (want one of %s)", kind, strings.Join(Kinds, "|"))
	}
}
