package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/forgeclip/internal/page"
	"go.klb.dev/forgeclip/internal/rpc"
)

func newBindCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "bind <button> <source>",
		Short: "Wire a button in the daemon's page to copy an element",
		Long: `Binds a click handler on <button> that copies the text of <source>.
A page without <button> is left untouched and the command says so.`,
		Args:    cobra.ExactArgs(2),
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(cmd *cobra.Command, args []string) error { return runBind(cmd, v, args[0], args[1]) },
	}

	addClientFlags(cmd)
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runBind(cmd *cobra.Command, v *viper.Viper, button, source string) error {
	setupLogging(v, false)

	d, err := connect(cmd, v)
	if err != nil {
		return err
	}
	defer d.Close()

	resp, err := d.BindButton(cmd.Context(), &rpc.BindButtonRequest{Button: button, Source: source})
	if err != nil {
		return fmt.Errorf("bind: %w", err)
	}
	if !resp.Bound {
		fmt.Fprintf(cmd.OutOrStdout(), "no button %q on the page\n", button)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s → %s\n", button, source)
	return nil
}

func newClickCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "click [button]",
		Short: "Click a copy button and print its feedback",
		Long: `Dispatches a click on a bound copy button and waits for the feedback:
the copied indicator, or the failure toast. Defaults to the button bound on
page load. Without a daemon the click runs against a one-shot --page.`,
		Args:    cobra.MaximumNArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(cmd *cobra.Command, args []string) error { return runClick(cmd, v, args) },
	}

	addPageFlags(cmd)
	addClientFlags(cmd)
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runClick(cmd *cobra.Command, v *viper.Viper, args []string) error {
	setupLogging(v, false)
	ctx := cmd.Context()

	button := v.GetString("button")
	if len(args) == 1 {
		button = args[0]
	}

	var resp *rpc.ClickResponse
	d, err := connect(cmd, v)
	switch {
	case errors.Is(err, errNoDaemon):
		err = withLocalPage(ctx, v, func(p *page.Page) error {
			res, err := p.Click(ctx, button)
			if err != nil {
				return err
			}
			resp = &rpc.ClickResponse{
				Copy:  rpc.CopyResponse{OK: res.Result.OK(), Backend: res.Result.Backend, Bytes: res.Result.Bytes, Reason: res.Result.Reason()},
				State: res.State.String(),
				Label: res.Label,
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("click: %w", err)
		}
	case err != nil:
		return err
	default:
		defer d.Close()
		resp, err = d.Click(ctx, &rpc.ClickRequest{Button: button})
		if err != nil {
			return fmt.Errorf("click: %w", err)
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s %q\n", button, resp.State, resp.Label)
	return remoteOutcome(&resp.Copy)
}
