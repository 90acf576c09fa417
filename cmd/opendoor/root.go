package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/1broseidon/opendoor/internal/config"
	"github.com/1broseidon/opendoor/internal/runtimepath"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "opendoor",
	Short: "Tiling and floating desktop in the terminal",
	Long: "opendoor runs a master/stack tiling window manager with floating windows,\n" +
		"either as a terminal desktop or headless behind a control socket.",
	SilenceUsage: true,
}

func init() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().String("config", "", "Config file path (default: ~/.config/opendoor/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Override log_level (debug, info, warn, error)")
}

// loadConfig reads the file named by --config, or the default location.
func loadConfig(cmd *cobra.Command) (*config.LoadResult, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newLogger builds the text logger used by every command. --log-level wins
// over the config file.
func newLogger(cmd *cobra.Command, cfg *config.Config, w io.Writer) *slog.Logger {
	level := cfg.LogLevel
	if flag, _ := cmd.Flags().GetString("log-level"); flag != "" {
		level = flag
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLevel(level)}))
}

// openLogFile opens log_file, or the default under the state directory,
// for appending.
func openLogFile(cfg *config.Config) (*os.File, error) {
	path := cfg.LogFile
	if path == "" {
		p, err := runtimepath.LogPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return f, nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
