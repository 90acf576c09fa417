package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/1broseidon/opendoor/internal/ipc"
	"github.com/1broseidon/opendoor/internal/window"
)

var ctlCmd = &cobra.Command{
	Use:   "ctl",
	Short: "Control a running desktop or daemon",
	Long:  "Send one request over the control socket and print the result.",
}

func init() {
	rootCmd.AddCommand(ctlCmd)
	ctlCmd.PersistentFlags().String("socket", "", "Control socket path (default: $XDG_RUNTIME_DIR/opendoor/opendoor.sock)")
	ctlCmd.PersistentFlags().Bool("json", false, "Print the response data as JSON")

	ctlCmd.AddCommand(
		&cobra.Command{
			Use:   "status",
			Short: "Show host, window count, focus and viewport",
			Args:  cobra.NoArgs,
			RunE:  runCtlStatus,
		},
		&cobra.Command{
			Use:   "list",
			Short: "List windows in store order",
			Args:  cobra.NoArgs,
			RunE:  runCtlList,
		},
		&cobra.Command{
			Use:   "apps",
			Short: "List launchable applications",
			Args:  cobra.NoArgs,
			RunE:  runCtlApps,
		},
		launchCmd(),
		&cobra.Command{
			Use:   "blur",
			Short: "Clear focus",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return newClient(cmd).Blur()
			},
		},
		windowCmd("close", "Close a window", (*ipc.Client).Close),
		windowCmd("focus", "Focus and raise a window", (*ipc.Client).Focus),
		windowCmd("minimize", "Minimize a window", (*ipc.Client).Minimize),
		windowCmd("restore", "Restore a minimized window", (*ipc.Client).Restore),
		windowCmd("maximize", "Toggle maximize on a window", (*ipc.Client).ToggleMaximize),
		windowCmd("float", "Toggle floating on a window", (*ipc.Client).ToggleFloat),
		&cobra.Command{
			Use:   "move <id> <x> <y>",
			Short: "Move a floating window",
			Args:  cobra.ExactArgs(3),
			RunE:  runCtlMove,
		},
		&cobra.Command{
			Use:   "resize <width> <height>",
			Short: "Set the viewport size in pixels",
			Args:  cobra.ExactArgs(2),
			RunE:  runCtlResize,
		},
	)
}

func newClient(cmd *cobra.Command) *ipc.Client {
	if socket, _ := cmd.Flags().GetString("socket"); socket != "" {
		return ipc.NewClientWithSocket(socket)
	}
	return ipc.NewClient()
}

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runCtlStatus(cmd *cobra.Command, args []string) error {
	status, err := newClient(cmd).Status()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if jsonOutput(cmd) {
		return printJSON(out, status)
	}
	fmt.Fprintf(out, "host:           %s\n", status.Host)
	fmt.Fprintf(out, "windows:        %d\n", status.Windows)
	fmt.Fprintf(out, "focused:        %s\n", orNone(string(status.Focused)))
	fmt.Fprintf(out, "viewport:       %dx%d\n", status.Viewport.Width, status.Viewport.Height)
	fmt.Fprintf(out, "layout_mode:    %s\n", status.LayoutMode)
	fmt.Fprintf(out, "uptime_seconds: %d\n", status.UptimeSeconds)
	return nil
}

func runCtlList(cmd *cobra.Command, args []string) error {
	data, err := newClient(cmd).ListWindows()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if jsonOutput(cmd) {
		return printJSON(out, data)
	}
	if len(data.Windows) == 0 {
		fmt.Fprintln(out, "no windows")
		return nil
	}
	for _, w := range data.Windows {
		fmt.Fprintf(out, "%s  %-8s  %-20q  %s  z=%d%s\n",
			w.ID, w.Kind, w.Title, w.Geometry, w.ZOrder, windowFlags(w))
	}
	return nil
}

func windowFlags(w ipc.WindowInfo) string {
	var s string
	if w.Focused {
		s += " focused"
	}
	if w.Minimized {
		s += " minimized"
	}
	if w.Maximized {
		s += " maximized"
	}
	if w.Floating {
		s += " floating"
	}
	return s
}

func runCtlApps(cmd *cobra.Command, args []string) error {
	entries, err := newClient(cmd).ListApps()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if jsonOutput(cmd) {
		return printJSON(out, entries)
	}
	for _, s := range entries {
		fmt.Fprintf(out, "%-9s %-14s %dx%d\n", s.Kind, s.Title, s.Width, s.Height)
	}
	return nil
}

func launchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "launch <kind>",
		Short: "Open an application window",
		Long: "Open an application window and print its id.\n\n" +
			"Example:\n" +
			"  opendoor ctl launch notepad --args '{\"name\":\"todo.md\",\"content\":\"- milk\"}'",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, _ := cmd.Flags().GetString("args")
			var launchArgs any
			if raw != "" {
				if err := json.Unmarshal([]byte(raw), &launchArgs); err != nil {
					return fmt.Errorf("invalid --args JSON: %w", err)
				}
			}
			id, err := newClient(cmd).Launch(args[0], launchArgs)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	cmd.Flags().String("args", "", "Launch arguments as JSON")
	return cmd
}

// windowCmd builds a subcommand taking one window id. Unknown ids are not
// an error; the output says whether anything changed.
func windowCmd(use, short string, op func(*ipc.Client, window.ID) (bool, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			changed, err := op(newClient(cmd), window.ID(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "changed: %v\n", changed)
			return nil
		},
	}
}

func runCtlMove(cmd *cobra.Command, args []string) error {
	x, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid x %q: %w", args[1], err)
	}
	y, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("invalid y %q: %w", args[2], err)
	}
	changed, err := newClient(cmd).Move(window.ID(args[0]), x, y)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "changed: %v\n", changed)
	return nil
}

func runCtlResize(cmd *cobra.Command, args []string) error {
	w, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid width %q: %w", args[0], err)
	}
	h, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid height %q: %w", args[1], err)
	}
	vp, err := newClient(cmd).ResizeViewport(w, h)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "viewport: %dx%d\n", vp.Width, vp.Height)
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
