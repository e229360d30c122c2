//go:build !darwin && !windows && !linux

package clip

import (
	"context"
	"fmt"
	"runtime"
)

type nativeBackend struct{}

// Native returns a backend that always reports ErrUnavailable; there is no
// native clipboard binding for this platform.
func Native() Writer { return nativeBackend{} }

func (nativeBackend) Name() string { return "native" }

func (nativeBackend) WriteText(context.Context, string) error {
	return fmt.Errorf("%w: no native clipboard on %s", ErrUnavailable, runtime.GOOS)
}
