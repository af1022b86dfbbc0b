// Package main provides the entry point for the backstitch CLI.
package main

import (
	"context"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/gorewood/backstitch/internal/gitrepo"
	"github.com/gorewood/backstitch/internal/output"
)

// statusResult holds the data for status output.
type statusResult struct {
	Repository     bool   `json:"repository"`
	Head           string `json:"head,omitempty"`
	Commits        int    `json:"commits"`
	Clean          bool   `json:"clean"`
	ActivityFile   string `json:"activity_file"`
	ActivityExists bool   `json:"activity_exists"`
}

// newStatusCmd creates the status command.
func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the repository state apply would start from",
		Long: `Show the state apply's pre-flight would see.

Displays whether a repository exists here, its head and commit count,
work tree cleanliness, and the activity file synthesized commits touch.
A missing repository is reported, not an error; apply initializes one.

Examples:
  backstitch status         # Human-readable status
  backstitch status --json  # Structured output for scripting`,
		RunE: runStatus,
	}
}

// runStatus executes the status command.
func runStatus(cmd *cobra.Command, _ []string) error {
	printer := newCmdPrinter(cmd)
	ctx := cmd.Context()

	driver := gitrepo.NewCLIDriver(gitrepo.NewExecRunner(""), "")
	if !driver.IsAvailable(ctx) {
		err := output.NewSystemErrorWithCause(gitrepo.ErrGitNotFound.Error(), gitrepo.ErrGitNotFound)
		printer.Error(err)
		return err
	}

	result, err := gatherStatus(ctx, driver)
	if err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		return printer.Success(map[string]any{
			"repository":      result.Repository,
			"head":            result.Head,
			"commits":         result.Commits,
			"clean":           result.Clean,
			"activity_file":   result.ActivityFile,
			"activity_exists": result.ActivityExists,
		})
	}

	printHumanStatus(printer, result)
	return nil
}

// gatherStatus collects repository state through the driver.
func gatherStatus(ctx context.Context, driver gitrepo.Driver) (*statusResult, error) {
	result := &statusResult{ActivityFile: gitrepo.DefaultActivityFile}

	info, statErr := os.Stat(result.ActivityFile)
	result.ActivityExists = statErr == nil && !info.IsDir()

	if !driver.IsRepository(ctx) {
		return result, nil
	}
	result.Repository = true

	count, err := driver.CommitCount(ctx)
	if err != nil {
		return nil, err
	}
	result.Commits = count

	clean, err := driver.IsClean(ctx)
	if err != nil {
		return nil, err
	}
	result.Clean = clean

	if count > 0 {
		head, err := driver.Head(ctx)
		if err != nil {
			return nil, err
		}
		result.Head = head
	}

	return result, nil
}

// printHumanStatus outputs status in human-readable format.
func printHumanStatus(printer *output.Printer, status *statusResult) {
	printer.Section("Repository")
	printer.KeyValue("Present", formatBool(status.Repository))
	if status.Repository {
		if status.Head != "" {
			printer.KeyValue("HEAD", status.Head[:min(12, len(status.Head))])
		}
		printer.KeyValue("Commits", strconv.Itoa(status.Commits))
		printer.KeyValue("Clean", formatBool(status.Clean))
	}

	printer.Section("Activity File")
	printer.KeyValue("Path", status.ActivityFile)
	printer.KeyValue("Present", formatBool(status.ActivityExists))
}

// formatBool returns a human-readable boolean string.
func formatBool(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
