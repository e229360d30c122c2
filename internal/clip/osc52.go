package clip

import (
	"context"
	"fmt"
	"io"
	"os"

	osc52 "github.com/aymanbagabas/go-osc52/v2"
	"github.com/mattn/go-isatty"
)

type osc52Backend struct {
	out   io.Writer
	env   func(string) string
	isTTY func() bool
}

// OSC52 returns a backend that asks the terminal emulator to set the
// clipboard via an OSC 52 escape sequence. It only writes when out is a
// terminal, so piping a command's output never leaks escape codes.
func OSC52(out io.Writer) Writer {
	return &osc52Backend{
		out:   out,
		env:   os.Getenv,
		isTTY: func() bool { return isTerminal(out) },
	}
}

func (b *osc52Backend) Name() string { return "osc52" }

func (b *osc52Backend) WriteText(ctx context.Context, text string) error {
	if !b.isTTY() {
		return fmt.Errorf("%w: output is not a terminal", ErrUnavailable)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	seq := osc52.New(text)
	switch {
	case b.env("TMUX") != "":
		seq = seq.Tmux()
	case b.env("STY") != "":
		seq = seq.Screen()
	}
	if _, err := seq.WriteTo(b.out); err != nil {
		return fmt.Errorf("%w: %v", ErrRejected, err)
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
