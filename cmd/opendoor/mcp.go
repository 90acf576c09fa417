package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/1broseidon/opendoor/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Model Context Protocol server",
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server (stdio transport)",
	Long: "Start the MCP server on stdio. Tools are forwarded to the running\n" +
		"desktop or daemon over the control socket.\n\n" +
		"Example:\n" +
		"  claude mcp add opendoor -- opendoor mcp serve",
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.AddCommand(mcpServeCmd)
	mcpServeCmd.Flags().String("socket", "", "Control socket path (default: $XDG_RUNTIME_DIR/opendoor/opendoor.sock)")
}

func runMCPServe(cmd *cobra.Command, args []string) error {
	res, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// stdout carries the protocol.
	logger := newLogger(cmd, res.Config, os.Stderr)

	ctx, stop := signalContext(cmd)
	defer stop()
	return mcp.NewServer(newClient(cmd), logger).Run(ctx)
}
