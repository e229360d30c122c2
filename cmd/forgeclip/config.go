package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/forgeclip/internal/binder"
	"go.klb.dev/forgeclip/internal/clip"
	"go.klb.dev/forgeclip/internal/logging"
	"go.klb.dev/forgeclip/internal/page"
	"go.klb.dev/forgeclip/internal/toast"
)

const defaultAddr = "localhost:8753"

var envReplacer = strings.NewReplacer("-", "_")

// bindViper wires a command's flags into a viper instance with the standard
// config file search order and FORGECLIP_* env var prefix.
//
// Precedence (lowest → highest): defaults → config file → FORGECLIP_* env vars → flags
func bindViper(cmd *cobra.Command, v *viper.Viper) error {
	configFlag, _ := cmd.Flags().GetString("config")
	if configFlag != "" {
		v.SetConfigFile(configFlag)
	} else {
		v.SetConfigName("forgeclip")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc/forgeclip/")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(fmt.Sprintf("%s/.config/forgeclip", home))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("config: %w", err)
		}
	}

	v.SetEnvPrefix("FORGECLIP")
	v.SetEnvKeyReplacer(envReplacer)
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}
	return nil
}

// addLoggingFlags adds the standard logging flags to a command.
func addLoggingFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("no-background", false, "run interactively: tinter logs + debug level")
	cmd.Flags().String("log-format", "auto", "log format: auto|text|json")
	cmd.Flags().String("log-level", "", "log level: debug|info|warn|error (default: info for serve, warn for tools, debug for interactive)")
}

// addConfigFlag adds the --config flag to a command.
func addConfigFlag(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "path to config file (overrides auto-discovery)")
}

// addClientFlags adds the flags for reaching a daemon.
func addClientFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("server", defaultAddr, "forgeclip daemon address (used when no local daemon is running)")
	f.String("token", "", "shared secret (bearer token and TLS passphrase)")
	f.Bool("no-tls", false, "talk plain gRPC to --server")
}

// addPageFlags adds the flags describing a page and its runtime.
func addPageFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("page", "", "rendered page to host (default: a blank prompt page)")
	f.String("clipboard", "auto", "clipboard backend: auto|native|system|osc52|memory|none")
	f.String("button", page.DefaultButton, "copy button bound when the page loads")
	f.String("source", page.DefaultSource, "element the copy button copies")
	f.Duration("revert-delay", binder.DefaultRevertDelay, "how long the copied indicator stays")
	f.Duration("toast-delay", toast.DefaultDelay, "how long a toast stays before it hides")
}

// setupLogging reads logging flags from viper and configures slog. The
// daemon logs at info (debug on a terminal); one-shot tools at warn.
func setupLogging(v *viper.Viper, service bool) {
	interactive := v.GetBool("no-background") || (service && logging.IsTTY(os.Stderr))
	fallback := slog.LevelWarn
	if service {
		fallback = slog.LevelInfo
	}
	resolveLogging(interactive, v.GetString("log-format"), v.GetString("log-level"), fallback)
}

// pageOptions builds page.Options from the page flags.
func pageOptions(v *viper.Viper) (page.Options, error) {
	w, err := clip.New(v.GetString("clipboard"))
	if err != nil {
		return page.Options{}, err
	}
	return page.Options{
		Clipboard:   w,
		RevertDelay: v.GetDuration("revert-delay"),
		ToastDelay:  v.GetDuration("toast-delay"),
		Button:      v.GetString("button"),
		Source:      v.GetString("source"),
	}, nil
}
