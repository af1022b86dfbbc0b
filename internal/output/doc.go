// Package output provides structured output handling for the backstitch CLI.
//
// This package handles both human-readable and JSON output formats, supporting
// the agent-friendly design principle that all commands should work well for
// both human users and automated agents.
//
// # Printer
//
// The Printer is the primary interface for command output. It automatically
// handles format switching based on the --json flag and TTY detection:
//
//	printer := output.NewPrinter(cmd.OutOrStdout(), jsonFlag, output.IsTTY(cmd.OutOrStdout()))
//
//	// For success output
//	printer.Success(map[string]any{"message": "Applied 12 commits", "head": head})
//
//	// For error output
//	printer.Error(err)
//
//	// For raw output
//	printer.Println("Some text")
//	printer.Print("Formatted: %s\n", value)
//
// Long-running commands report interim state through Progress, which the
// --silent flag suppresses without touching results or errors:
//
//	printer.Progress("commit %d/%d, about %s left", i, n, eta)
//
// # JSON Mode
//
// When JSON mode is enabled (via --json flag), all output is structured:
//
//	// Success: {"message": "...", "head": "...", ...}
//	// Error: {"error": "message", "code": N}
//
// # Styling
//
// For human-readable output, the package provides lipgloss-based styling
// that automatically disables when output is piped:
//
//	printer.styles.Error   // Red, bold
//	printer.styles.Success // Green
//	printer.styles.Warning // Yellow
//	printer.styles.Bold    // Bold
//	printer.styles.Dim     // Gray
//
// # Exit Codes
//
// The package defines standard exit codes and error types:
//
//	output.ExitSuccess        // 0: Success
//	output.ExitUserError      // 1: User error (bad token, bad flags, out-of-range date)
//	output.ExitSystemError    // 2: System error (git missing, pre-flight failure, I/O error)
//	output.ExitConflict       // 3: Conflict (dirty work tree without a cleanse policy)
//	output.ExitAborted        // 4: Apply failed, repository rolled back to its snapshot
//	output.ExitRollbackFailed // 5: Apply failed and the rollback failed too
//
// # Error Types
//
// Use the error constructors to create properly-coded errors:
//
//	output.NewUserError("unparseable token: \"foo\"")
//	output.NewSystemError("git command failed")
//	output.NewConflictError("work tree has uncommitted changes")
//	output.NewAbortedError("apply failed at commit 3, restored abc1234", err)
//	output.NewRollbackFailedError("restore to abc1234 failed", err)
//
// These errors carry exit codes that are used for both JSON error output
// and process exit codes.
package output
