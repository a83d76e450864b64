package calf

import (
	"io"
	"strings"

	"github.com/spf13/pflag"
)

// PFlagEngine delegates flag parsing to spf13/pflag. Positional
// distribution, required-ness and choice validation stay in the
// adapter; pflag only sees the flag surface.
type PFlagEngine struct {
	prog  string
	usage string
	out   io.Writer

	fs          *pflag.FlagSet
	specs       []ArgSpec
	positionals []ArgSpec // single-valued, in declaration order
	multi       *ArgSpec
}

// NewPFlagEngine returns an engine backed by spf13/pflag. It satisfies
// EngineFactory and can be installed with Runner.Engine.
func NewPFlagEngine(prog, usage string, out io.Writer) Engine {
	fs := pflag.NewFlagSet(prog, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return &PFlagEngine{
		prog:  prog,
		usage: usage,
		out:   out,
		fs:    fs,
	}
}

func (e *PFlagEngine) AddArg(spec ArgSpec) error {
	if spec.Positional {
		if spec.Multi {
			if e.multi == nil {
				s := spec
				e.multi = &s
			}
		} else {
			e.positionals = append(e.positionals, spec)
		}
		e.specs = append(e.specs, spec)
		return nil
	}
	if e.fs.Lookup(spec.Name) != nil {
		return duplicateSpecError(spec.Name)
	}
	short := strings.TrimPrefix(spec.Short, "-")
	if spec.Bool {
		e.fs.BoolP(spec.Name, short, false, spec.Help)
	} else {
		e.fs.StringP(spec.Name, short, "", spec.Help)
	}
	e.specs = append(e.specs, spec)
	return nil
}

func (e *PFlagEngine) Parse(args []string, collectLeftover bool) (*ArgTable, []string, error) {
	// pflag's own help handling is bypassed so all engines render the
	// same screen.
	for _, tok := range args {
		if tok == "--" {
			break
		}
		if tok == "-h" || tok == "--help" {
			renderHelp(e.out, e.prog, e.usage, e.specs)
			return nil, nil, ErrHelpShown
		}
	}

	var leftover []string
	if collectLeftover {
		// pflag's unknown-flag whitelist discards the tokens it skips,
		// which would starve the overflow broker. Pull the unrecognized
		// flag tokens out up front so they survive as leftovers, the
		// same way the builtin engine hands them over.
		args, leftover = e.splitUnknownFlags(args)
		e.fs.ParseErrorsWhitelist = pflag.ParseErrorsWhitelist{UnknownFlags: true}
	}
	if err := e.fs.Parse(args); err != nil {
		msg := err.Error()
		switch {
		case strings.Contains(msg, "unknown"):
			return nil, nil, Errorf(ErrorTypeUnknownFlag, "%s", msg)
		case strings.Contains(msg, "needs an argument"):
			return nil, nil, Errorf(ErrorTypeMissingValue, "%s", msg)
		default:
			return nil, nil, Errorf(ErrorTypeInvalidValue, "%s", msg)
		}
	}

	tbl := NewArgTable()
	for _, spec := range e.specs {
		if spec.Positional {
			continue
		}
		if f := e.fs.Lookup(spec.Name); f != nil && f.Changed {
			tbl.Set(spec.Name, f.Value.String())
		}
	}

	rest := e.fs.Args()
	for i, tok := range rest {
		if i < len(e.positionals) {
			tbl.Set(e.positionals[i].Name, tok)
			continue
		}
		if e.multi != nil {
			tbl.Append(e.multi.Name, tok)
			continue
		}
		if collectLeftover {
			leftover = append(leftover, tok)
			continue
		}
		return nil, nil, Errorf(ErrorTypeUnexpectedArgument, "unexpected argument %q", tok)
	}

	if err := validateRequired(e.specs, tbl); err != nil {
		return nil, nil, err
	}
	if err := validateChoices(e.specs, tbl); err != nil {
		return nil, nil, err
	}
	return tbl, leftover, nil
}

// splitUnknownFlags separates the flag-shaped tokens this flag set has
// no definition for from the rest of the argument list. Tokens after a
// bare "--" are never inspected; negative numbers do not count as
// flags.
func (e *PFlagEngine) splitUnknownFlags(args []string) (kept, unknown []string) {
	for i, tok := range args {
		if tok == "--" {
			kept = append(kept, args[i:]...)
			break
		}
		if strings.HasPrefix(tok, "--") {
			name, _, _ := strings.Cut(tok[2:], "=")
			if e.fs.Lookup(name) == nil {
				unknown = append(unknown, tok)
				continue
			}
		} else if isShortFlag(tok) {
			short, _, _ := strings.Cut(tok[1:], "=")
			if len(short) != 1 || e.fs.ShorthandLookup(short) == nil {
				unknown = append(unknown, tok)
				continue
			}
		}
		kept = append(kept, tok)
	}
	return kept, unknown
}
