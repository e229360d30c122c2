package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/forgeclip/internal/clip"
	"go.klb.dev/forgeclip/internal/page"
	"go.klb.dev/forgeclip/internal/rpc"
)

func newCopyCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "copy [text...]",
		Short: "Copy text to the clipboard (like pbcopy)",
		Long: `Copies the arguments, joined by spaces, or stdin when none are given.

If a forgeclip daemon is running the copy goes through it, so the text lands
on the daemon's clipboard. Otherwise the --clipboard backend is used directly.`,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(cmd *cobra.Command, args []string) error { return runCopy(cmd, v, args) },
	}

	cmd.Flags().String("clipboard", "auto", "clipboard backend when no daemon is running")
	addClientFlags(cmd)
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runCopy(cmd *cobra.Command, v *viper.Viper, args []string) error {
	setupLogging(v, false)

	text := strings.Join(args, " ")
	if len(args) == 0 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		text = string(data)
	}

	ctx := cmd.Context()
	d, err := connect(cmd, v)
	switch {
	case errors.Is(err, errNoDaemon):
		w, err := clip.New(v.GetString("clipboard"))
		if err != nil {
			return err
		}
		return copyOutcome(clip.Copy(ctx, w, text))
	case err != nil:
		return err
	}
	defer d.Close()

	resp, err := d.CopyText(ctx, &rpc.CopyTextRequest{Text: text})
	if err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	return remoteOutcome(resp)
}

func newCopyElementCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "copy-element <id>",
		Short: "Copy the text of a page element",
		Long: `Copies the text content of the element with the given id.

With a running daemon the element is looked up in its live page. Otherwise
--page is loaded, the element copied and the page discarded.`,
		Args:    cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(cmd *cobra.Command, args []string) error { return runCopyElement(cmd, v, args[0]) },
	}

	addPageFlags(cmd)
	addClientFlags(cmd)
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runCopyElement(cmd *cobra.Command, v *viper.Viper, id string) error {
	setupLogging(v, false)
	ctx := cmd.Context()

	d, err := connect(cmd, v)
	switch {
	case errors.Is(err, errNoDaemon):
		return withLocalPage(ctx, v, func(p *page.Page) error {
			return copyOutcome(p.CopyElement(ctx, id))
		})
	case err != nil:
		return err
	}
	defer d.Close()

	resp, err := d.CopyElement(ctx, &rpc.CopyElementRequest{ID: id})
	if err != nil {
		return fmt.Errorf("copy-element: %w", err)
	}
	return remoteOutcome(resp)
}

// copyOutcome turns a failed Result into the command's error.
func copyOutcome(r clip.Result) error {
	if !r.OK() {
		return fmt.Errorf("copy failed: %w", r.Err)
	}
	return nil
}

func remoteOutcome(resp *rpc.CopyResponse) error {
	if !resp.OK {
		return fmt.Errorf("copy failed: %s", resp.Reason)
	}
	return nil
}
