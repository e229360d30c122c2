// forgeclip: headless runtime for forge prompt pages.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"go.klb.dev/forgeclip/internal/logging"
)

// Version is set at build time via -ldflags "-X main.Version=x.y.z".
var Version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "forgeclip",
		Short: "Copy buttons and toasts for forge prompt pages",
		Long: `forgeclip hosts a rendered forge prompt page, wires its copy button to
the system clipboard and shows toast notifications, without a browser.

Run "forgeclip serve --page prompt.html" to keep a page live. The other
commands talk to that daemon over the local IPC socket, or over TCP with
--server, and fall back to a one-shot local page when no daemon is running.

Config file search order (first found wins):
  /etc/forgeclip/forgeclip.toml
  $HOME/.config/forgeclip/forgeclip.toml
  path supplied via --config

All flags can be set via FORGECLIP_<FLAG> env vars or config-file keys.`,
		SilenceUsage: true,
	}

	root.AddCommand(
		newServeCmd(),
		newCopyCmd(),
		newCopyElementCmd(),
		newToastCmd(),
		newBindCmd(),
		newClickCmd(),
		newStatusCmd(),
		newVersionCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("forgeclip %s\n", Version)
		},
	}
}

// resolveLogging sets up the global slog logger after flags are parsed.
// An empty level means debug when interactive and fallback otherwise.
func resolveLogging(interactive bool, formatStr, levelStr string, fallback slog.Level) {
	if interactive {
		fallback = slog.LevelDebug
	}
	logging.Setup(logging.ParseFormat(formatStr), logging.ParseLevel(levelStr, fallback))
}
