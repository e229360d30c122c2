package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/forgeclip/internal/rpc"
)

func newStatusCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the daemon's buttons and visible toasts",
		Long: `Displays the copy buttons bound in the daemon's page with their feedback
state, and the toasts currently on screen.

If a local daemon is running, the request is sent via the IPC socket. Pass
--server to target a specific daemon directly over TCP.`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(cmd *cobra.Command, _ []string) error { return runStatus(cmd, v) },
	}

	cmd.Flags().Bool("json", false, "output raw JSON")
	addClientFlags(cmd)
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runStatus(cmd *cobra.Command, v *viper.Viper) error {
	setupLogging(v, false)

	d, err := connect(cmd, v)
	if err != nil {
		return err
	}
	defer d.Close()

	resp, err := d.Status(cmd.Context(), &rpc.StatusRequest{})
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}

	out := cmd.OutOrStdout()
	if v.GetBool("json") {
		enc, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Fprintln(out, string(enc))
		return nil
	}
	printStatus(out, resp, d.transport, time.Now())
	return nil
}

func printStatus(out io.Writer, resp *rpc.StatusResponse, transport string, now time.Time) {
	w := tabwriter.NewWriter(out, 1, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Transport:\t%s\n", transport)
	fmt.Fprintf(w, "Clipboard:\t%s\n", resp.Clipboard)
	fmt.Fprintln(w)
	_ = w.Flush()

	if len(resp.Buttons) == 0 {
		fmt.Fprintln(out, "No copy buttons bound.")
	} else {
		tw := tabwriter.NewWriter(out, 1, 0, 2, ' ', 0)
		_, _ = fmt.Fprintf(tw, "BUTTON\tSOURCE\tSTATE\tCLICKS\tLABEL\n")
		_, _ = fmt.Fprintf(tw, "------\t------\t-----\t------\t-----\n")
		for _, b := range resp.Buttons {
			_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", b.Button, b.Source, b.State, b.Clicks, b.Label)
		}
		_ = tw.Flush()
	}

	if len(resp.Toasts) == 0 {
		return
	}
	fmt.Fprintln(out)
	tw := tabwriter.NewWriter(out, 1, 0, 2, ' ', 0)
	_, _ = fmt.Fprintf(tw, "TOAST\tCATEGORY\tSHOWN\tMESSAGE\n")
	_, _ = fmt.Fprintf(tw, "-----\t--------\t-----\t-------\n")
	for _, t := range resp.Toasts {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", t.ID, t.Category, fmtAge(now, t.Shown), t.Message)
	}
	_ = tw.Flush()
}

func fmtAge(now, t time.Time) string {
	age := now.Sub(t).Round(time.Second)
	if age < time.Minute {
		return fmt.Sprintf("%ds ago", int(age.Seconds()))
	}
	if age < time.Hour {
		return fmt.Sprintf("%dm ago", int(age.Minutes()))
	}
	return t.Format("15:04:05")
}
