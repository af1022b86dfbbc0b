// Package main provides the entry point for the backstitch CLI.
package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/gorewood/backstitch/internal/config"
	"github.com/gorewood/backstitch/internal/gitrepo"
	"github.com/gorewood/backstitch/internal/output"
	"github.com/gorewood/backstitch/internal/sequence"
	"github.com/gorewood/backstitch/internal/timeutil"
)

// applyFlags holds the command-line flags shared by apply and plan.
type applyFlags struct {
	direction string
	lenient   bool
	dryRun    bool
	cleanse   string
	reset     string
	throttle  time.Duration
	message   string
	yes       bool
}

// applyOptions are the effective run options after merging on-disk defaults
// with explicit flags.
type applyOptions struct {
	direction string
	lenient   bool
	dryRun    bool
	cleanse   string
	reset     string
	throttle  time.Duration
	message   string
	yes       bool
	silent    bool
}

// newApplyCmd creates the apply command.
func newApplyCmd() *cobra.Command {
	flags := &applyFlags{}
	cmd := &cobra.Command{
		Use:   "apply [tokens...]",
		Short: "Create one backdated commit per resolved schedule instant",
		Long: `Resolve a schedule of calendar dates and day offsets, then create one
commit per resolved instant, authored and committed at that instant.

Tokens are calendar dates (2024-03-01) or day-count offsets (7) measured
from the last calendar date. Repeated dates and zero offsets shift by one
minute so every commit lands on a unique instant. An empty schedule is a
success and touches nothing.

Before committing, apply snapshots the current head; if any commit fails,
the repository is rolled back to the snapshot. A dirty work tree stops the
run unless --cleanse commits the outstanding changes first. --reset
squashes all existing history into a single far-future commit before the
new pattern is applied.

Examples:
  backstitch apply 1990-12-23 3 3           # a date and two 3-day hops
  backstitch apply --direction - 2024-06-01 7 7
  backstitch apply --dry-run 2024-03-01 0 0 # preview, no commits
  backstitch apply --reset --yes 2020-01-01 1 1 1
  backstitch apply --cleanse 2024-03-01     # commit stray changes first`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd, args, flags)
		},
	}
	registerApplyFlags(cmd, flags)
	return cmd
}

// registerApplyFlags wires the run-policy flags used by apply and plan.
func registerApplyFlags(cmd *cobra.Command, flags *applyFlags) {
	cmd.Flags().StringVarP(&flags.direction, "direction", "d", "+", "Offset direction: + (forward) or - (backward)")
	cmd.Flags().BoolVar(&flags.lenient, "lenient", false, "Record failing dates as skips instead of aborting")
	cmd.Flags().BoolVarP(&flags.dryRun, "dry-run", "n", false, "Resolve and print the plan without touching the repository")
	cmd.Flags().StringVar(&flags.cleanse, "cleanse", "", "Commit outstanding changes first (optional commit subject)")
	cmd.Flags().Lookup("cleanse").NoOptDefVal = sequence.DefaultCleanseMessage
	cmd.Flags().StringVar(&flags.reset, "reset", "", "Squash existing history into one commit first (optional commit subject)")
	cmd.Flags().Lookup("reset").NoOptDefVal = sequence.DefaultResetMessage
	cmd.Flags().DurationVar(&flags.throttle, "throttle", sequence.DefaultThrottle, "Pause between commits (0 disables pacing)")
	cmd.Flags().StringVarP(&flags.message, "message", "m", "", "Commit subject for synthesized commits")
	cmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, "Skip the confirmation prompt before squashing history")
}

// runApply executes the apply command.
func runApply(cmd *cobra.Command, args []string, flags *applyFlags) error {
	printer := newCmdPrinter(cmd)

	opts, err := mergeApplyDefaults(cmd, flags)
	if err != nil {
		printer.Error(err)
		return err
	}
	printer.WithQuiet(opts.silent)

	return executeApply(cmd, printer, args, opts)
}

// mergeApplyDefaults overlays on-disk defaults onto flags the caller left
// alone. Explicit flags always win.
func mergeApplyDefaults(cmd *cobra.Command, flags *applyFlags) (*applyOptions, error) {
	st, err := config.Load(".")
	if err != nil {
		return nil, err
	}

	opts := &applyOptions{
		direction: flags.direction,
		lenient:   flags.lenient,
		dryRun:    flags.dryRun,
		cleanse:   flags.cleanse,
		reset:     flags.reset,
		throttle:  flags.throttle,
		message:   flags.message,
		yes:       flags.yes,
		silent:    isSilent(cmd),
	}

	if !flagChanged(cmd, "direction") && st.Direction != "" {
		opts.direction = st.Direction
	}
	if !flagChanged(cmd, "lenient") && st.Lenient != nil {
		opts.lenient = *st.Lenient
	}
	if !flagChanged(cmd, "silent") && st.Silent != nil {
		opts.silent = *st.Silent
	}
	if !flagChanged(cmd, "throttle") && st.Throttle != "" {
		d, perr := time.ParseDuration(st.Throttle)
		if perr != nil {
			return nil, output.NewUserErrorWithCause(fmt.Sprintf("invalid throttle %q in config", st.Throttle), perr)
		}
		opts.throttle = d
	}
	if !flagChanged(cmd, "message") && st.Message != "" {
		opts.message = st.Message
	}
	return opts, nil
}

// executeApply runs a resolved schedule through the sequencer and reports
// the outcome. Shared by apply and plan.
func executeApply(cmd *cobra.Command, printer *output.Printer, tokens []string, opts *applyOptions) error {
	instants, err := resolveSchedule(tokens, opts.direction)
	if err != nil {
		printer.Error(err)
		return err
	}

	// An empty schedule is a voluntary success; the repository is not
	// touched, not even by pre-flight.
	if len(instants) == 0 {
		if printer.IsJSON() {
			return printer.Success(map[string]any{
				"outcome":   sequence.OutcomeSuccess.String(),
				"planned":   0,
				"committed": 0,
			})
		}
		printer.Println("empty schedule, nothing to apply")
		return nil
	}

	if opts.dryRun {
		return printDryRun(printer, instants)
	}

	if opts.reset != "" {
		if err := confirmSquash(cmd, opts.yes); err != nil {
			printer.Error(err)
			return err
		}
	}

	driver := gitrepo.NewCLIDriver(gitrepo.NewExecRunner(""), "")
	seq := sequence.New(driver).WithProgress(printer.Progress)

	res, err := seq.Apply(cmd.Context(), instants, sequence.Policy{
		Lenient:        opts.lenient,
		CleanseMessage: opts.cleanse,
		ResetMessage:   opts.reset,
		CommitMessage:  opts.message,
		Throttle:       opts.throttle,
	})
	if err != nil {
		printer.Error(err)
		return err
	}

	return reportApply(printer, res)
}

// printDryRun reports the resolved plan without running it.
func printDryRun(printer *output.Printer, instants []time.Time) error {
	if printer.IsJSON() {
		return printer.Success(map[string]any{
			"outcome":  sequence.OutcomeSuccess.String(),
			"dry_run":  true,
			"planned":  len(instants),
			"instants": formatInstantStrings(instants),
		})
	}
	printInstantTable(printer, instants)
	printer.Println()
	printer.Println("dry run, nothing applied")
	return nil
}

// confirmSquash gates the history-squashing reset policy behind an explicit
// confirmation. Non-interactive callers must pass --yes.
func confirmSquash(cmd *cobra.Command, yes bool) error {
	if yes {
		return nil
	}
	if isJSONMode(cmd) || !stdinIsTTY(cmd) {
		return output.NewUserError("refusing to squash existing history without confirmation; pass --yes")
	}

	var proceed bool
	confirm := huh.NewConfirm().
		Title("Squash all existing history into one commit?").
		Description("Every existing commit is collapsed; only the new pattern remains.").
		Affirmative("Squash").
		Negative("Cancel").
		Value(&proceed)
	if err := confirm.Run(); err != nil {
		return output.NewUserErrorWithCause("confirmation aborted", err)
	}
	if !proceed {
		return output.NewUserError("history squash declined")
	}
	return nil
}

// reportApply renders the terminal result of a run.
func reportApply(printer *output.Printer, res *sequence.Result) error {
	if printer.IsJSON() {
		data := map[string]any{
			"outcome":   res.Outcome.String(),
			"planned":   res.Planned,
			"committed": res.Committed,
			"head":      res.Head,
			"elapsed":   res.Elapsed.Round(time.Millisecond).String(),
		}
		if len(res.Skipped) > 0 {
			skips := make([]map[string]any, len(res.Skipped))
			for i, s := range res.Skipped {
				skips[i] = map[string]any{
					"index":   s.Index,
					"instant": s.Instant.Format(time.RFC3339),
					"reason":  s.Reason,
				}
			}
			data["skipped"] = skips
		}
		if len(res.Dropped) > 0 {
			data["dropped"] = formatInstantStrings(res.Dropped)
		}
		return printer.Success(data)
	}

	for _, s := range res.Skipped {
		printer.Warn("skipped %s: %s", s.Instant.Format(time.RFC3339), s.Reason)
	}
	for _, d := range res.Dropped {
		printer.Warn("dropped out-of-range %s", d.Format(timeutil.CalendarDateLayout))
	}
	return printer.Success(map[string]any{
		"message": fmt.Sprintf("created %d of %d commits in %s, head %s",
			res.Committed, res.Planned,
			timeutil.FormatDuration(res.Elapsed.Milliseconds()), shortSHA(res.Head)),
	})
}

// shortSHA truncates a full commit SHA for display.
func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}
