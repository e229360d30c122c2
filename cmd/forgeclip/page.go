package main

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/viper"

	"go.klb.dev/forgeclip/internal/page"
)

//go:embed blank.html
var blankPage string

// openPage loads the --page file, or the blank prompt page when unset.
// "-" reads the page from stdin.
func openPage(v *viper.Viper) (*page.Page, error) {
	opts, err := pageOptions(v)
	if err != nil {
		return nil, err
	}

	var r io.Reader = strings.NewReader(blankPage)
	switch path := v.GetString("page"); path {
	case "":
	case "-":
		r = os.Stdin
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("page: %w", err)
		}
		defer f.Close()
		r = f
	}

	p, err := page.Load(r, opts)
	if err != nil {
		return nil, fmt.Errorf("page: %w", err)
	}
	return p, nil
}

// withLocalPage runs fn against a one-shot page when no daemon is running.
func withLocalPage(ctx context.Context, v *viper.Viper, fn func(*page.Page) error) error {
	p, err := openPage(v)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go p.Run(ctx)

	select {
	case <-p.Loaded():
	case <-ctx.Done():
		return ctx.Err()
	}
	return fn(p)
}
