// Package planfile loads YAML plan documents: a date/offset list plus the
// run options that would otherwise arrive as flags. Flags still win when
// both are set; merging happens at the command layer.
package planfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gorewood/backstitch/internal/output"
)

// Plan is one decoded plan document.
//
//	direction: "+"
//	lenient: true
//	throttle: 250ms
//	message: stitch activity
//	cleanse: true          # or a custom subject string
//	reset: fresh start
//	dates:
//	  - 1990-12-23
//	  - 3
//	  - 0
type Plan struct {
	Direction string    `yaml:"direction"`
	Lenient   bool      `yaml:"lenient"`
	Throttle  Duration  `yaml:"throttle"`
	Message   string    `yaml:"message"`
	Cleanse   Toggle    `yaml:"cleanse"`
	Reset     Toggle    `yaml:"reset"`
	Dates     TokenList `yaml:"dates"`
}

// TokenList preserves the raw scalar text of each dates entry. YAML types
// bare day counts as integers and calendar dates as strings; keeping the
// source text hands both to the token classifier unchanged.
type TokenList []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (l *TokenList) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: dates must be a list", value.Line)
	}
	out := make([]string, 0, len(value.Content))
	for _, n := range value.Content {
		if n.Kind != yaml.ScalarNode {
			return fmt.Errorf("line %d: dates entries must be scalars", n.Line)
		}
		out = append(out, n.Value)
	}
	*l = out
	return nil
}

// Toggle is a plan field accepting either a boolean or a subject string.
// A bare `true` enables the policy with its default subject; a string
// enables it with that subject.
type Toggle struct {
	Enabled bool
	Message string
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *Toggle) UnmarshalYAML(value *yaml.Node) error {
	var b bool
	if err := value.Decode(&b); err == nil {
		t.Enabled = b
		return nil
	}
	var s string
	if err := value.Decode(&s); err == nil {
		t.Enabled = true
		t.Message = s
		return nil
	}
	return fmt.Errorf("line %d: want a boolean or a subject string", value.Line)
}

// Duration decodes Go duration strings ("250ms", "2s").
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return fmt.Errorf("line %d: throttle must be a duration string like 250ms", value.Line)
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: invalid duration %q", value.Line, s)
	}
	*d = Duration(parsed)
	return nil
}

// Load reads and decodes a plan document. Unknown keys are rejected so a
// typoed option fails loudly instead of being ignored.
func Load(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, output.NewUserErrorWithCause("cannot read plan file "+path, err)
	}
	return parse(path, data)
}

func parse(path string, data []byte) (*Plan, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var p Plan
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			// An empty document is a valid, empty plan.
			return &Plan{}, nil
		}
		return nil, output.NewUserErrorWithCause(fmt.Sprintf("invalid plan file %s: %v", path, err), err)
	}
	return &p, nil
}
