package calf

import (
	"fmt"
	"io"
	"strings"
)

// ArgSpec is the declarative shape of one command-line argument, as
// handed by a loader to the flag engine.
type ArgSpec struct {
	Name       string
	Positional bool
	Short      string // short option form including the dash, like "-v"
	Help       string
	Required   bool
	HasDefault bool
	Default    string // display form, help only
	Bool       bool   // presence flag, takes no value
	Multi      bool   // collects the remaining positional values
	Choices    []string
	Metavar    string
}

// Engine is the flag-parsing capability: it accepts declarative
// argument specifications and returns the parsed table, or an error on
// validation failure. When collectLeftover is set, tokens the engine
// cannot claim are returned for broker distribution instead of being
// treated as errors.
//
// Engines are single-use: one engine serves one invocation.
type Engine interface {
	AddArg(spec ArgSpec) error
	Parse(args []string, collectLeftover bool) (*ArgTable, []string, error)
}

// EngineFactory builds a fresh engine per invocation. Help output goes
// to out.
type EngineFactory func(prog, usage string, out io.Writer) Engine

// ArgTable is the engine's parsed result: a mapping from declared
// argument name to its raw values. Loaders read it; only the broker's
// merge step mutates it.
type ArgTable struct {
	values map[string][]string
	seen   map[string]bool
}

// NewArgTable returns an empty table.
func NewArgTable() *ArgTable {
	return &ArgTable{
		values: make(map[string][]string),
		seen:   make(map[string]bool),
	}
}

// Set records a single value for name, replacing earlier ones.
func (t *ArgTable) Set(name, value string) {
	t.values[name] = []string{value}
	t.seen[name] = true
}

// Append adds a value to name's list.
func (t *ArgTable) Append(name, value string) {
	t.values[name] = append(t.values[name], value)
	t.seen[name] = true
}

// Seen reports whether the engine recorded any value for name.
func (t *ArgTable) Seen(name string) bool {
	return t.seen[name]
}

// Value returns the first recorded value for name.
func (t *ArgTable) Value(name string) (string, bool) {
	vs := t.values[name]
	if len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// List returns all recorded values for name, in input order.
func (t *ArgTable) List(name string) []string {
	return t.values[name]
}

// Clear drops the values recorded for name. Used by the broker when it
// re-partitions the greedily collected catch-all values.
func (t *ArgTable) Clear(name string) {
	delete(t.values, name)
	delete(t.seen, name)
}

// validateRequired reports the first declared-required argument with no
// recorded value.
func validateRequired(specs []ArgSpec, tbl *ArgTable) error {
	for _, s := range specs {
		if !s.Required || tbl.Seen(s.Name) {
			continue
		}
		if s.Positional {
			return Errorf(ErrorTypeMissingRequired, "missing required argument %s", s.Name)
		}
		return Errorf(ErrorTypeMissingRequired, "missing required option --%s", s.Name)
	}
	return nil
}

// validateChoices checks every recorded value of choice-restricted
// arguments against the allowed list.
func validateChoices(specs []ArgSpec, tbl *ArgTable) error {
	for _, s := range specs {
		if len(s.Choices) == 0 {
			continue
		}
		for _, v := range tbl.List(s.Name) {
			ok := false
			for _, c := range s.Choices {
				if v == c {
					ok = true
					break
				}
			}
			if !ok {
				display := s.Name
				if !s.Positional {
					display = "--" + s.Name
				}
				return Errorf(ErrorTypeInvalidChoice, "invalid choice %q for %s (choose from %s)",
					v, display, strings.Join(s.Choices, ", "))
			}
		}
	}
	return nil
}

func duplicateSpecError(name string) error {
	return fmt.Errorf("calf: argument %s declared twice", name)
}
