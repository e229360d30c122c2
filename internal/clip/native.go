//go:build darwin || windows || linux

package clip

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.design/x/clipboard"
)

type nativeBackend struct{}

var (
	nativeOnce sync.Once
	nativeErr  error
)

// Native returns the golang.design/x/clipboard backend.
// clipboard.Init is deferred to the first write so that commands which never
// copy don't log spurious warnings on headless systems.
func Native() Writer { return nativeBackend{} }

func (nativeBackend) Name() string { return "native" }

func (nativeBackend) WriteText(ctx context.Context, text string) error {
	nativeOnce.Do(func() {
		if err := clipboard.Init(); err != nil {
			slog.Debug("native clipboard unavailable", "err", err)
			nativeErr = fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	})
	if nativeErr != nil {
		return nativeErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	return nil
}
