// Package main provides the entry point for the backstitch CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gorewood/backstitch/internal/gitrepo"
)

// gatherDoctorChecks runs all health checks and returns results.
// Identity checks need a working git binary; they are skipped without one.
func gatherDoctorChecks(ctx context.Context, driver gitrepo.Driver, runner gitrepo.Runner) *doctorResult {
	available := driver.IsAvailable(ctx)

	result := &doctorResult{
		Version:   version,
		Core:      runCoreChecks(ctx, available, driver, runner),
		Workspace: runWorkspaceChecks(ctx, available, driver),
		Summary:   &doctorSummary{},
	}
	if available {
		result.Identity = runIdentityChecks(ctx, runner)
	}

	allChecks := append(append(result.Core, result.Identity...), result.Workspace...)
	for _, check := range allChecks {
		switch check.Status {
		case checkPass:
			result.Summary.Passed++
		case checkWarn:
			result.Summary.Warnings++
		case checkFail:
			result.Summary.Failed++
		}
	}

	return result
}

// runCoreChecks verifies the git binary and repository presence.
func runCoreChecks(ctx context.Context, available bool, driver gitrepo.Driver, runner gitrepo.Runner) []checkResult {
	var checks []checkResult

	if !available {
		checks = append(checks, checkResult{
			Name:    "git binary",
			Status:  checkFail,
			Message: "not found on PATH",
			Hint:    "install git and re-run",
		})
		return checks
	}

	message := "available"
	if ver, err := runner.Run(ctx, "--version"); err == nil {
		message = strings.TrimSpace(ver)
	}
	checks = append(checks, checkResult{Name: "git binary", Status: checkPass, Message: message})

	if driver.IsRepository(ctx) {
		checks = append(checks, checkResult{Name: "repository", Status: checkPass, Message: "detected"})
	} else {
		checks = append(checks, checkResult{
			Name:    "repository",
			Status:  checkWarn,
			Message: "none here",
			Hint:    "backstitch apply initializes one on first run",
		})
	}

	return checks
}

// runIdentityChecks verifies the commit identity git would record.
func runIdentityChecks(ctx context.Context, runner gitrepo.Runner) []checkResult {
	return []checkResult{
		identityCheck(ctx, runner, "user.name"),
		identityCheck(ctx, runner, "user.email"),
	}
}

// identityCheck reads one git config key and reports whether it is set.
func identityCheck(ctx context.Context, runner gitrepo.Runner, key string) checkResult {
	val, err := runner.Run(ctx, "config", "--get", key)
	val = strings.TrimSpace(val)
	if err != nil || val == "" {
		return checkResult{
			Name:    key,
			Status:  checkFail,
			Message: "not set",
			Hint:    fmt.Sprintf("git config --global %s ...", key),
		}
	}
	return checkResult{Name: key, Status: checkPass, Message: val}
}

// runWorkspaceChecks verifies the tree apply would mutate.
func runWorkspaceChecks(ctx context.Context, available bool, driver gitrepo.Driver) []checkResult {
	var checks []checkResult

	switch {
	case !available:
		// Without git there is no tree state to inspect.
	case driver.IsRepository(ctx):
		clean, err := driver.IsClean(ctx)
		switch {
		case err != nil:
			checks = append(checks, checkResult{Name: "work tree", Status: checkFail, Message: err.Error()})
		case clean:
			checks = append(checks, checkResult{Name: "work tree", Status: checkPass, Message: "clean"})
		default:
			checks = append(checks, checkResult{
				Name:    "work tree",
				Status:  checkWarn,
				Message: "uncommitted changes",
				Hint:    "commit or stash them, or pass --cleanse to apply",
			})
		}
	default:
		checks = append(checks, checkResult{Name: "work tree", Status: checkWarn, Message: "no repository to inspect"})
	}

	if _, err := os.Stat(gitrepo.DefaultActivityFile); err == nil {
		checks = append(checks, checkResult{
			Name:    "activity file",
			Status:  checkPass,
			Message: gitrepo.DefaultActivityFile + " present",
		})
	} else {
		checks = append(checks, checkResult{
			Name:    "activity file",
			Status:  checkWarn,
			Message: "absent",
			Hint:    "created on first apply",
		})
	}

	return checks
}
