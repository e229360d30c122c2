package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/forgeclip/internal/rpc"
	"go.klb.dev/forgeclip/internal/toast"
)

func newToastCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "toast <message...>",
		Short: "Show a toast notification",
		Long: `Shows a toast in the daemon's page and prints its id. Without a daemon
the toast is drawn on the terminal instead.

Categories: success, error, warning, info. Anything else gets the neutral
style.`,
		Args:    cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(cmd *cobra.Command, args []string) error { return runToast(cmd, v, strings.Join(args, " ")) },
	}

	f := cmd.Flags()
	f.StringP("category", "c", string(toast.Info), "toast category")
	f.Bool("dismiss", false, "treat the argument as a toast id and dismiss it")
	addClientFlags(cmd)
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runToast(cmd *cobra.Command, v *viper.Viper, msg string) error {
	setupLogging(v, false)
	ctx := cmd.Context()
	cat := toast.ParseCategory(v.GetString("category"))

	d, err := connect(cmd, v)
	switch {
	case errors.Is(err, errNoDaemon):
		if v.GetBool("dismiss") {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), toast.Render(msg, cat))
		return nil
	case err != nil:
		return err
	}
	defer d.Close()

	if v.GetBool("dismiss") {
		resp, err := d.DismissToast(ctx, &rpc.DismissToastRequest{ID: msg})
		if err != nil {
			return fmt.Errorf("dismiss: %w", err)
		}
		if !resp.Found {
			return fmt.Errorf("no visible toast %q", msg)
		}
		return nil
	}

	resp, err := d.ShowToast(ctx, &rpc.ShowToastRequest{Message: msg, Category: string(cat)})
	if err != nil {
		return fmt.Errorf("toast: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), resp.ID)
	return nil
}
