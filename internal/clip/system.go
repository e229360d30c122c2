package clip

import (
	"context"
	"fmt"

	"github.com/atotto/clipboard"
)

type systemBackend struct{}

// System returns the backend that drives the platform clipboard helpers
// (pbcopy, xclip, xsel, wl-copy, the Win32 API) through atotto/clipboard.
func System() Writer { return systemBackend{} }

func (systemBackend) Name() string { return "system" }

func (systemBackend) WriteText(ctx context.Context, text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("%w: no clipboard helper found", ErrUnavailable)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("%w: %v", ErrRejected, err)
	}
	return nil
}
