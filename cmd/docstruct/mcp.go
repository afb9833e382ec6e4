package main

import (
	"github.com/spf13/cobra"

	mcpserver "github.com/tsawler/docstruct/internal/mcp"
)

func mcpCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start the MCP server",
		Long: `Start a Model Context Protocol server over stdio. It offers two tools:
reconstruct, which renders an extraction result, and outline, which lists
its headings.

Claude Desktop configuration (claude_desktop_config.json):
  {
    "mcpServers": {
      "docstruct": {
        "command": "/path/to/docstruct",
        "args": ["mcp"]
      }
    }
  }`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return mcpserver.NewServer(a.cfg, a.logger).Run(cmd.Context())
		},
	}
}
