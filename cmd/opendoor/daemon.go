package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/1broseidon/opendoor/internal/daemon"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run the window manager headless (foreground)",
	Long: "Run the window manager without a screen. Windows are driven through\n" +
		"'opendoor ctl' or 'opendoor mcp serve'; the viewport follows the config\n" +
		"(fixed size or the X11 root window).",
	Args: cobra.NoArgs,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(daemonCmd)
	daemonCmd.Flags().String("socket", "", "Control socket path (default: $XDG_RUNTIME_DIR/opendoor/opendoor.sock)")
	daemonCmd.Flags().Bool("hotkeys", false, "Grab the configured keys on the X display")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	res, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cmd, res.Config, os.Stderr)
	socket, _ := cmd.Flags().GetString("socket")
	grab, _ := cmd.Flags().GetBool("hotkeys")

	d, err := daemon.New(daemon.Options{
		Config:     res.Config,
		Logger:     logger,
		SocketPath: socket,
		Hotkeys:    grab,
	})
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd)
	defer stop()
	logger.Info("opendoor daemon starting", "files", res.Files)
	return d.Run(ctx)
}
