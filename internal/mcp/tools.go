package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/backstitch/internal/gitrepo"
	"github.com/gorewood/backstitch/internal/schedule"
)

// --- Resolve tool ---

// ResolveInput is the input for the resolve tool.
type ResolveInput struct {
	Tokens    []string `json:"tokens"              jsonschema:"schedule tokens: calendar dates (2024-03-01) and day-count offsets (7)"`
	Direction string   `json:"direction,omitempty" jsonschema:"offset direction, + (forward, default) or - (backward)"`
}

// ResolveOutput is the output for the resolve tool.
type ResolveOutput struct {
	Count    int      `json:"count"              jsonschema:"number of resolved instants"`
	Instants []string `json:"instants,omitempty" jsonschema:"resolved commit instants in RFC 3339 UTC"`
}

func handleResolve() mcp.ToolHandlerFor[ResolveInput, ResolveOutput] {
	return func(_ context.Context, _ *mcp.CallToolRequest, input ResolveInput) (*mcp.CallToolResult, ResolveOutput, error) {
		instants, err := resolveTokens(input.Tokens, input.Direction)
		if err != nil {
			return nil, ResolveOutput{}, err
		}
		return nil, ResolveOutput{
			Count:    len(instants),
			Instants: formatInstants(instants),
		}, nil
	}
}

// resolveTokens parses and resolves a raw token list. An empty direction
// defaults to forward.
func resolveTokens(raw []string, direction string) ([]time.Time, error) {
	if direction == "" {
		direction = "+"
	}
	dir, err := schedule.ParseDirection(direction)
	if err != nil {
		return nil, err
	}
	tokens, err := schedule.ParseTokens(raw)
	if err != nil {
		return nil, err
	}
	return schedule.Resolve(tokens, dir)
}

// formatInstants renders instants as RFC 3339 strings.
func formatInstants(instants []time.Time) []string {
	if len(instants) == 0 {
		return nil
	}
	out := make([]string, len(instants))
	for i, t := range instants {
		out[i] = t.Format(time.RFC3339)
	}
	return out
}

// --- Status tool ---

// StatusInput is the input for the status tool (no parameters needed).
type StatusInput struct{}

// StatusOutput is the output for the status tool.
type StatusOutput struct {
	GitAvailable   bool   `json:"git_available"   jsonschema:"whether the git binary is on PATH"`
	Repository     bool   `json:"repository"      jsonschema:"whether the directory is inside a git repository"`
	Head           string `json:"head,omitempty"  jsonschema:"HEAD commit SHA"`
	Commits        int    `json:"commits"         jsonschema:"number of commits on the current branch"`
	Clean          bool   `json:"clean"           jsonschema:"whether the work tree has no uncommitted changes"`
	ActivityFile   string `json:"activity_file"   jsonschema:"path of the activity file commits touch"`
	ActivityExists bool   `json:"activity_exists" jsonschema:"whether the activity file exists"`
}

func handleStatus(driver gitrepo.Driver, dir string) mcp.ToolHandlerFor[StatusInput, StatusOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ StatusInput) (*mcp.CallToolResult, StatusOutput, error) {
		activityPath := filepath.Join(dir, gitrepo.DefaultActivityFile)
		out := StatusOutput{ActivityFile: activityPath}

		info, statErr := os.Stat(activityPath)
		out.ActivityExists = statErr == nil && !info.IsDir()

		if !driver.IsAvailable(ctx) {
			return nil, out, nil
		}
		out.GitAvailable = true

		if !driver.IsRepository(ctx) {
			return nil, out, nil
		}
		out.Repository = true

		count, err := driver.CommitCount(ctx)
		if err != nil {
			return nil, StatusOutput{}, fmt.Errorf("counting commits: %w", err)
		}
		out.Commits = count

		clean, err := driver.IsClean(ctx)
		if err != nil {
			return nil, StatusOutput{}, fmt.Errorf("checking work tree: %w", err)
		}
		out.Clean = clean

		if count > 0 {
			head, err := driver.Head(ctx)
			if err != nil {
				return nil, StatusOutput{}, fmt.Errorf("reading HEAD: %w", err)
			}
			out.Head = head
		}

		return nil, out, nil
	}
}
