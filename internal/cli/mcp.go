package cli

import (
	"github.com/spf13/cobra"

	"github.com/rcliao/wight/internal/mcpserver"
)

func init() {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Run as an MCP server over stdio",
		Long:  "Expose chat and memory tools to MCP clients over stdin/stdout. Logs go to stderr.",
		Run:   runMCP,
	}

	RootCmd.AddCommand(cmd)
}

func runMCP(cmd *cobra.Command, args []string) {
	s := mustSession(cmd)
	defer s.Close()

	s.engine.Start(cmd.Context())

	if err := mcpserver.Serve(mcpserver.New(s.engine, Version)); err != nil {
		exitErr("mcp", err)
	}
}
