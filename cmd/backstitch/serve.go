// Package main provides the entry point for the backstitch CLI.
package main

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/gorewood/backstitch/internal/gitrepo"
	backstitchmcp "github.com/gorewood/backstitch/internal/mcp"
)

// newServeCmd creates the serve command for running as an MCP server.
func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run as MCP server (stdio transport)",
		Long: `Run backstitch as a Model Context Protocol (MCP) server over stdio.

This exposes backstitch operations as MCP tools that any MCP-capable agent
environment can use (Claude Code, Cursor, Windsurf, Gemini CLI, etc).

Configure in your agent's MCP settings:
  {
    "mcpServers": {
      "backstitch": {
        "command": "backstitch",
        "args": ["serve"]
      }
    }
  }

Available tools: resolve, status, apply`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			driver := gitrepo.NewCLIDriver(gitrepo.NewExecRunner(""), "")
			server := backstitchmcp.NewServer(buildVersion(), driver, "")
			return server.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}
