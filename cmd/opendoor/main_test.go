package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/1broseidon/opendoor/internal/config"
	"github.com/1broseidon/opendoor/internal/daemon"
	"github.com/1broseidon/opendoor/internal/ipc"
	"github.com/1broseidon/opendoor/internal/session"
	"github.com/1broseidon/opendoor/internal/tiling"
	"github.com/1broseidon/opendoor/internal/viewport"
)

// execute runs the root command with args after resetting every flag, since
// the command tree is shared between tests.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var reset func(c *cobra.Command)
	reset = func(c *cobra.Command) {
		for _, fs := range []*pflag.FlagSet{c.Flags(), c.PersistentFlags()} {
			fs.VisitAll(func(f *pflag.Flag) {
				_ = f.Value.Set(f.DefValue)
				f.Changed = false
			})
		}
		for _, sub := range c.Commands() {
			reset(sub)
		}
	}
	reset(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	found := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		found[c.Name()] = true
	}
	for _, name := range []string{"desktop", "daemon", "ctl", "mcp", "config", "user"} {
		if !found[name] {
			t.Errorf("expected subcommand %q not found", name)
		}
	}
}

func TestCtlCommand_HasSubcommands(t *testing.T) {
	found := make(map[string]bool)
	for _, c := range ctlCmd.Commands() {
		found[c.Name()] = true
	}
	expected := []string{
		"status", "list", "apps", "launch", "close", "focus", "blur",
		"minimize", "restore", "maximize", "float", "move", "resize",
	}
	for _, name := range expected {
		if !found[name] {
			t.Errorf("expected ctl subcommand %q not found", name)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"nonsense", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFormatSource(t *testing.T) {
	tests := []struct {
		src  config.Source
		want string
	}{
		{config.Source{Kind: config.SourceFile, File: "/a.yaml", Line: 3, Column: 5}, "file:/a.yaml:3:5"},
		{config.Source{Kind: config.SourceFile, File: "/a.yaml"}, "file:/a.yaml"},
		{config.Source{Kind: config.SourceDefault, Name: "defaults"}, "default:defaults"},
		{config.Source{Kind: config.SourceDefault}, "default"},
	}
	for _, tt := range tests {
		if got := formatSource(tt.src); got != tt.want {
			t.Errorf("formatSource(%+v) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestConfigValidate(t *testing.T) {
	path := writeConfig(t, "layout:\n  gap: 4\n")
	out, err := execute(t, "config", "validate", "--config", path)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, "config: ok") {
		t.Fatalf("output = %q", out)
	}

	bad := writeConfig(t, "layout:\n  gapp: 4\n")
	if _, err := execute(t, "config", "validate", "--config", bad); err == nil {
		t.Fatalf("unknown key should fail validation")
	}
}

func TestConfigExplain(t *testing.T) {
	path := writeConfig(t, "layout:\n  gap: 4\n")
	out, err := execute(t, "config", "explain", "--config", path, "layout.gap")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if !strings.Contains(out, "source: file:") || !strings.Contains(out, "config.yaml:2:") {
		t.Fatalf("output missing file source:\n%s", out)
	}
	if !strings.Contains(out, "value:\n4") {
		t.Fatalf("output missing value:\n%s", out)
	}
}

func TestConfigPrintDefaults(t *testing.T) {
	out, err := execute(t, "config", "print", "--defaults")
	if err != nil {
		t.Fatalf("print: %v", err)
	}
	if !strings.Contains(out, "mode: master-stack") {
		t.Fatalf("defaults missing layout mode:\n%s", out)
	}
}

func TestUserReset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user.yaml")
	if _, err := session.NewStore(path).Create("ada", "pw"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	out, err := execute(t, "user", "reset", "--yes", "--file", path)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if !strings.Contains(out, "account removed") {
		t.Fatalf("output = %q", out)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("account file still present: %v", err)
	}
}

func startDaemon(t *testing.T) string {
	t.Helper()
	socket := filepath.Join(t.TempDir(), "od.sock")
	d, err := daemon.New(daemon.Options{
		Config:     config.DefaultConfig(),
		SocketPath: socket,
		Source:     viewport.Fixed{Size: tiling.Viewport{Width: 1000, Height: 800}},
	})
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	client := ipc.NewClientWithSocket(socket)
	deadline := time.Now().Add(3 * time.Second)
	for {
		status, err := client.Status()
		if err == nil && status.Viewport.Width == 1000 {
			return socket
		}
		if time.Now().After(deadline) {
			t.Fatalf("daemon not ready: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestCtl_AgainstDaemon(t *testing.T) {
	socket := startDaemon(t)

	out, err := execute(t, "ctl", "--socket", socket, "launch", "terminal")
	if err != nil {
		t.Fatalf("launch: %v", err)
	}
	id := strings.TrimSpace(out)
	if id == "" {
		t.Fatalf("launch printed no id")
	}

	out, err = execute(t, "ctl", "--socket", socket, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, id) || !strings.Contains(out, "980x742+10+48") || !strings.Contains(out, "focused") {
		t.Fatalf("list output:\n%s", out)
	}

	out, err = execute(t, "ctl", "--socket", socket, "minimize", id)
	if err != nil || !strings.Contains(out, "changed: true") {
		t.Fatalf("minimize: %q, %v", out, err)
	}
	out, err = execute(t, "ctl", "--socket", socket, "close", "no-such-window")
	if err != nil || !strings.Contains(out, "changed: false") {
		t.Fatalf("close unknown id should be a no-op: %q, %v", out, err)
	}

	out, err = execute(t, "ctl", "--socket", socket, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	for _, want := range []string{"host:           daemon", "windows:        1", "viewport:       1000x800"} {
		if !strings.Contains(out, want) {
			t.Fatalf("status output missing %q:\n%s", want, out)
		}
	}

	if _, err := execute(t, "ctl", "--socket", socket, "launch", "spreadsheet"); err == nil {
		t.Fatalf("unknown kind should fail")
	}
	if _, err := execute(t, "ctl", "--socket", socket, "move", id, "x", "1"); err == nil {
		t.Fatalf("non-numeric coordinate should fail")
	}
}
