package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/forgeclip/internal/rpc"
)

func TestFmtAge(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{3 * time.Second, "3s ago"},
		{5 * time.Minute, "5m ago"},
		{2 * time.Hour, "13:04:05"},
	}
	for _, tt := range tests {
		if got := fmtAge(now, now.Add(-tt.ago)); got != tt.want {
			t.Errorf("fmtAge(%v) = %q, want %q", tt.ago, got, tt.want)
		}
	}
}

func TestPrintStatus(t *testing.T) {
	t.Parallel()
	now := time.Now()
	var buf bytes.Buffer
	printStatus(&buf, &rpc.StatusResponse{
		Clipboard: "memory",
		Buttons:   []rpc.Button{{Button: "copyBtn", Source: "promptContent", State: "copied", Label: "Copied!", Clicks: 2}},
		Toasts:    []rpc.Toast{{ID: "toast-1", Category: "error", Message: "Failed to copy to clipboard", Shown: now}},
	}, "ipc (/tmp/forgeclip.sock)", now)

	out := buf.String()
	for _, want := range []string{"ipc (/tmp/forgeclip.sock)", "memory", "copyBtn", "promptContent", "Copied!", "toast-1", "0s ago"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintStatusEmpty(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	printStatus(&buf, &rpc.StatusResponse{Clipboard: "none"}, "tcp (localhost:8753)", time.Now())
	if !strings.Contains(buf.String(), "No copy buttons bound.") || strings.Contains(buf.String(), "TOAST") {
		t.Errorf("output:\n%s", buf.String())
	}
}

func TestBindViperExplicitConfigMissing(t *testing.T) {
	t.Parallel()
	cmd := &cobra.Command{Use: "x"}
	addPageFlags(cmd)
	addConfigFlag(cmd)
	if err := cmd.Flags().Set("config", t.TempDir()+"/missing.toml"); err != nil {
		t.Fatal(err)
	}
	if err := bindViper(cmd, viper.New()); err == nil {
		t.Fatal("bindViper with a missing explicit config file should fail")
	}
}

func TestPageOptions(t *testing.T) {
	t.Setenv("FORGECLIP_REVERT_DELAY", "5s")
	t.Setenv("FORGECLIP_CLIPBOARD", "memory")

	cmd := &cobra.Command{Use: "x"}
	addPageFlags(cmd)
	addConfigFlag(cmd)
	v := viper.New()
	v.SetEnvPrefix("FORGECLIP")
	v.SetEnvKeyReplacer(envReplacer)
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		t.Fatal(err)
	}

	opts, err := pageOptions(v)
	if err != nil {
		t.Fatal(err)
	}
	if opts.RevertDelay != 5*time.Second || opts.Clipboard.Name() != "memory" || opts.Button != "copyBtn" {
		t.Errorf("opts = %+v", opts)
	}

	p, err := openPage(v)
	if err != nil {
		t.Fatal(err)
	}
	p.Close()
}
