// Package main provides the entry point for the backstitch CLI.
package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/gorewood/backstitch/internal/planfile"
	"github.com/gorewood/backstitch/internal/sequence"
)

// newPlanCmd creates the plan command.
func newPlanCmd() *cobra.Command {
	flags := &applyFlags{}
	cmd := &cobra.Command{
		Use:   "plan <file>",
		Short: "Apply a schedule described by a YAML plan file",
		Long: `Load a YAML plan document and run it through the apply pipeline.

A plan carries the schedule under a dates list plus any of the apply
options; flags given here override the plan, and the plan overrides
on-disk defaults.

  # pattern.yaml
  direction: "+"
  message: routine work
  throttle: 100ms
  cleanse: true        # or a custom commit subject
  dates:
    - 1990-12-23
    - 3
    - 0

Examples:
  backstitch plan pattern.yaml
  backstitch plan pattern.yaml --dry-run
  backstitch plan pattern.yaml --direction - --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, args[0], flags)
		},
	}
	registerApplyFlags(cmd, flags)
	return cmd
}

// runPlan executes the plan command.
func runPlan(cmd *cobra.Command, path string, flags *applyFlags) error {
	printer := newCmdPrinter(cmd)

	plan, err := planfile.Load(path)
	if err != nil {
		printer.Error(err)
		return err
	}

	opts, err := mergeApplyDefaults(cmd, flags)
	if err != nil {
		printer.Error(err)
		return err
	}
	mergePlanOptions(cmd, opts, plan)
	printer.WithQuiet(opts.silent)

	return executeApply(cmd, printer, plan.Dates, opts)
}

// mergePlanOptions layers plan values between on-disk defaults and explicit
// flags: flags win, then the plan, then config.
func mergePlanOptions(cmd *cobra.Command, opts *applyOptions, plan *planfile.Plan) {
	if !flagChanged(cmd, "direction") && plan.Direction != "" {
		opts.direction = plan.Direction
	}
	if !flagChanged(cmd, "lenient") && plan.Lenient {
		opts.lenient = true
	}
	if !flagChanged(cmd, "throttle") && plan.Throttle != 0 {
		opts.throttle = time.Duration(plan.Throttle)
	}
	if !flagChanged(cmd, "message") && plan.Message != "" {
		opts.message = plan.Message
	}
	if !flagChanged(cmd, "cleanse") && plan.Cleanse.Enabled {
		opts.cleanse = plan.Cleanse.Message
		if opts.cleanse == "" {
			opts.cleanse = sequence.DefaultCleanseMessage
		}
	}
	if !flagChanged(cmd, "reset") && plan.Reset.Enabled {
		opts.reset = plan.Reset.Message
		if opts.reset == "" {
			opts.reset = sequence.DefaultResetMessage
		}
	}
}
