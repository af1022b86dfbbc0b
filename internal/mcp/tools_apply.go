package mcp

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/backstitch/internal/gitrepo"
	"github.com/gorewood/backstitch/internal/sequence"
)

// --- Apply tool ---

// ApplyInput is the input for the apply tool.
type ApplyInput struct {
	Tokens         []string `json:"tokens"                    jsonschema:"schedule tokens: calendar dates (2024-03-01) and day-count offsets (7)"`
	Direction      string   `json:"direction,omitempty"       jsonschema:"offset direction, + (forward, default) or - (backward)"`
	Message        string   `json:"message,omitempty"         jsonschema:"commit subject for synthesized commits"`
	Lenient        bool     `json:"lenient,omitempty"         jsonschema:"record failing instants as skips instead of aborting"`
	DryRun         bool     `json:"dry_run,omitempty"         jsonschema:"resolve and report instants without mutating the repository"`
	Cleanse        bool     `json:"cleanse,omitempty"         jsonschema:"commit outstanding changes before applying instead of refusing"`
	CleanseMessage string   `json:"cleanse_message,omitempty" jsonschema:"commit subject for the cleanse commit, implies cleanse"`
	Reset          bool     `json:"reset,omitempty"           jsonschema:"squash all existing history into one commit before applying"`
	ResetMessage   string   `json:"reset_message,omitempty"   jsonschema:"commit subject for the squashed commit, implies reset"`
	ThrottleMS     int      `json:"throttle_ms,omitempty"     jsonschema:"milliseconds between commits, 0 disables pacing"`
}

// SkipDetail reports one instant a lenient run skipped.
type SkipDetail struct {
	Index   int    `json:"index"   jsonschema:"1-based position in the resolved sequence"`
	Instant string `json:"instant" jsonschema:"the skipped instant in RFC 3339 UTC"`
	Reason  string `json:"reason"  jsonschema:"why the commit failed"`
}

// ApplyOutput is the output for the apply tool.
type ApplyOutput struct {
	Outcome   string       `json:"outcome"            jsonschema:"terminal state: success, aborted-rolled-back, or rollback-failed"`
	DryRun    bool         `json:"dry_run,omitempty"  jsonschema:"whether this was a dry run"`
	Planned   int          `json:"planned"            jsonschema:"instants that survived range validation"`
	Committed int          `json:"committed"          jsonschema:"commits created"`
	Skipped   []SkipDetail `json:"skipped,omitempty"  jsonschema:"instants skipped under the lenient policy"`
	Dropped   []string     `json:"dropped,omitempty"  jsonschema:"instants dropped by lenient range validation"`
	Head      string       `json:"head,omitempty"     jsonschema:"repository head after the run"`
	Instants  []string     `json:"instants,omitempty" jsonschema:"resolved instants, dry run only"`
	Elapsed   string       `json:"elapsed,omitempty"  jsonschema:"wall-clock apply time"`
}

func handleApply(driver gitrepo.Driver) mcp.ToolHandlerFor[ApplyInput, ApplyOutput] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ApplyInput) (*mcp.CallToolResult, ApplyOutput, error) {
		instants, err := resolveTokens(input.Tokens, input.Direction)
		if err != nil {
			return nil, ApplyOutput{}, err
		}

		if input.DryRun {
			return nil, ApplyOutput{
				Outcome:  sequence.OutcomeSuccess.String(),
				DryRun:   true,
				Planned:  len(instants),
				Instants: formatInstants(instants),
			}, nil
		}

		// An empty schedule succeeds without touching the repository.
		if len(instants) == 0 {
			return nil, ApplyOutput{Outcome: sequence.OutcomeSuccess.String()}, nil
		}

		res, err := sequence.New(driver).Apply(ctx, instants, buildPolicy(input))
		if err != nil {
			return nil, ApplyOutput{}, err
		}

		return nil, ApplyOutput{
			Outcome:   res.Outcome.String(),
			Planned:   res.Planned,
			Committed: res.Committed,
			Skipped:   toSkipDetails(res.Skipped),
			Dropped:   formatInstants(res.Dropped),
			Head:      res.Head,
			Elapsed:   res.Elapsed.Round(time.Millisecond).String(),
		}, nil
	}
}

// buildPolicy translates tool input into a run policy. Boolean toggles
// select the default subjects; explicit subjects imply their toggle.
func buildPolicy(input ApplyInput) sequence.Policy {
	pol := sequence.Policy{
		Lenient:        input.Lenient,
		CommitMessage:  input.Message,
		CleanseMessage: input.CleanseMessage,
		ResetMessage:   input.ResetMessage,
		Throttle:       time.Duration(input.ThrottleMS) * time.Millisecond,
	}
	if input.Cleanse && pol.CleanseMessage == "" {
		pol.CleanseMessage = sequence.DefaultCleanseMessage
	}
	if input.Reset && pol.ResetMessage == "" {
		pol.ResetMessage = sequence.DefaultResetMessage
	}
	return pol
}

// toSkipDetails converts sequencer skips for output.
func toSkipDetails(skips []sequence.Skip) []SkipDetail {
	if len(skips) == 0 {
		return nil
	}
	out := make([]SkipDetail, len(skips))
	for i, s := range skips {
		out[i] = SkipDetail{
			Index:   s.Index,
			Instant: s.Instant.Format(time.RFC3339),
			Reason:  s.Reason,
		}
	}
	return out
}
