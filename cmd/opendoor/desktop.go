package main

import (
	"github.com/spf13/cobra"

	"github.com/1broseidon/opendoor/internal/apps"
	"github.com/1broseidon/opendoor/internal/tui"
)

var desktopCmd = &cobra.Command{
	Use:   "desktop",
	Short: "Open the terminal desktop",
	Long: "Open the terminal desktop. The first run asks for a username and\n" +
		"password; later runs ask for the password.\n\n" +
		"Keybindings (defaults, see 'opendoor config print'):\n" +
		"  alt+p        Open or close the launcher\n" +
		"  alt+h/j/k/l  Focus left/down/up/right\n" +
		"  alt+tab      Focus next window\n" +
		"  alt+m        Maximize or restore\n" +
		"  alt+f        Float or tile\n" +
		"  alt+n        Minimize\n" +
		"  alt+r        Restore the last minimized window\n" +
		"  alt+q        Close\n" +
		"  ctrl+c       Quit",
	Args: cobra.NoArgs,
	RunE: runDesktop,
}

func init() {
	rootCmd.AddCommand(desktopCmd)
	desktopCmd.Flags().Bool("no-login", false, "Skip setup and login and enter as guest")
	desktopCmd.Flags().Bool("no-ipc", false, "Do not serve the control socket")
	desktopCmd.Flags().String("socket", "", "Control socket path (default: $XDG_RUNTIME_DIR/opendoor/opendoor.sock)")
}

func runDesktop(cmd *cobra.Command, args []string) error {
	res, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logFile, err := openLogFile(res.Config)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := newLogger(cmd, res.Config, logFile)

	noLogin, _ := cmd.Flags().GetBool("no-login")
	noIPC, _ := cmd.Flags().GetBool("no-ipc")
	socket, _ := cmd.Flags().GetString("socket")

	ctx, stop := signalContext(cmd)
	defer stop()
	return tui.Run(ctx, tui.Options{
		Config:     res.Config,
		Logger:     logger,
		Responder:  apps.OfflineResponder{},
		SkipLogin:  noLogin,
		Listen:     !noIPC,
		SocketPath: socket,
	})
}
