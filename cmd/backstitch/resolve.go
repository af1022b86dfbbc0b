// Package main provides the entry point for the backstitch CLI.
package main

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/gorewood/backstitch/internal/config"
	"github.com/gorewood/backstitch/internal/output"
	"github.com/gorewood/backstitch/internal/schedule"
)

// newResolveCmd creates the resolve command.
func newResolveCmd() *cobra.Command {
	var direction string
	cmd := &cobra.Command{
		Use:   "resolve [tokens...]",
		Short: "Resolve schedule tokens into instants without touching a repository",
		Long: `Resolve a schedule into the exact instants apply would commit at.

Tokens are calendar dates (2024-03-01) or day-count offsets (7) measured
from the last calendar date. Nothing is written anywhere; this is the
calculator behind apply.

Examples:
  backstitch resolve 1990-12-23 3 3        # a date and two 3-day hops
  backstitch resolve --direction - 2024-06-01 7
  backstitch resolve --json 2024-03-01 0 0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, args, direction)
		},
	}
	cmd.Flags().StringVarP(&direction, "direction", "d", "+", "Offset direction: + (forward) or - (backward)")
	return cmd
}

// runResolve executes the resolve command.
func runResolve(cmd *cobra.Command, args []string, direction string) error {
	printer := newCmdPrinter(cmd)

	if !flagChanged(cmd, "direction") {
		st, err := config.Load(".")
		if err != nil {
			printer.Error(err)
			return err
		}
		if st.Direction != "" {
			direction = st.Direction
		}
	}

	instants, err := resolveSchedule(args, direction)
	if err != nil {
		printer.Error(err)
		return err
	}

	if printer.IsJSON() {
		return printer.Success(map[string]any{
			"count":    len(instants),
			"instants": formatInstantStrings(instants),
		})
	}

	if len(instants) == 0 {
		printer.Println("empty schedule")
		return nil
	}
	printInstantTable(printer, instants)
	return nil
}

// resolveSchedule parses a direction and raw tokens, then resolves the
// schedule. Everything wrong with the input is a user error.
func resolveSchedule(args []string, direction string) ([]time.Time, error) {
	dir, err := schedule.ParseDirection(direction)
	if err != nil {
		return nil, output.NewUserErrorWithCause(err.Error(), err)
	}
	tokens, err := schedule.ParseTokens(args)
	if err != nil {
		return nil, output.NewUserErrorWithCause(err.Error(), err)
	}
	instants, err := schedule.Resolve(tokens, dir)
	if err != nil {
		return nil, output.NewUserErrorWithCause(err.Error(), err)
	}
	return instants, nil
}

// formatInstantStrings renders instants as RFC 3339 strings.
func formatInstantStrings(instants []time.Time) []string {
	out := make([]string, len(instants))
	for i, t := range instants {
		out[i] = t.Format(time.RFC3339)
	}
	return out
}

// printInstantTable renders the resolved schedule as a table.
func printInstantTable(printer *output.Printer, instants []time.Time) {
	rows := make([][]string, len(instants))
	for i, t := range instants {
		rows[i] = []string{strconv.Itoa(i + 1), t.Format(time.RFC3339)}
	}
	printer.Table([]string{"#", "Instant"}, rows)
}
