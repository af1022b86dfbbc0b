// Package mcp provides a Model Context Protocol server for backstitch.
// It exposes schedule resolution and commit sequencing as MCP tools that
// any MCP-capable agent can use.
package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/backstitch/internal/gitrepo"
)

// NewServer creates an MCP server with all backstitch tools registered.
// The driver and dir identify the repository the tools inspect and mutate.
func NewServer(version string, driver gitrepo.Driver, dir string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "backstitch",
		Version: version,
	}, nil)
	registerTools(server, driver, dir)
	return server
}

// boolPtr returns a pointer to a bool value.
func boolPtr(b bool) *bool {
	return &b
}

// readOnlyAnnotations returns annotations for read-only tools.
func readOnlyAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  boolPtr(false),
	}
}

// writeAnnotations returns annotations for the apply tool, which rewrites
// history when reset is set.
func writeAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		DestructiveHint: boolPtr(true),
		OpenWorldHint:   boolPtr(false),
	}
}

// registerTools adds all backstitch tools to the server.
func registerTools(server *mcp.Server, driver gitrepo.Driver, dir string) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "resolve",
		Description: "Resolve schedule tokens into commit instants without touching any repository. Takes the same token list as backstitch apply.",
		Annotations: readOnlyAnnotations(),
	}, handleResolve())

	mcp.AddTool(server, &mcp.Tool{
		Name:        "status",
		Description: "Show repository state: git availability, commit count, work tree cleanliness, and the activity file.",
		Annotations: readOnlyAnnotations(),
	}, handleStatus(driver, dir))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "apply",
		Description: "Resolve schedule tokens and write one backdated commit per instant. Set dry_run=true to preview the instants without mutating the repository.",
		Annotations: writeAnnotations(),
	}, handleApply(driver))
}
