package calf

import (
	"fmt"
	"io"
	"strings"

	"github.com/dzonerzy/go-calf/internal/fuzzy"
)

// parserEngine is the built-in flag engine: a single-pass,
// left-to-right scanner over the declared argument specs. It supports
// --name, --name=value, short aliases, presence-only boolean flags, a
// "--" terminator and greedy collection of remaining positionals into
// the first multi-valued spec.
type parserEngine struct {
	prog  string
	usage string
	out   io.Writer

	specs       []*ArgSpec
	flags       map[string]*ArgSpec
	shorts      map[string]*ArgSpec
	positionals []*ArgSpec // single-valued, in declaration order
	multi       *ArgSpec   // first multi-valued positional, if any
}

// NewParserEngine returns the built-in engine. It satisfies
// EngineFactory and is the Runner default.
func NewParserEngine(prog, usage string, out io.Writer) Engine {
	return &parserEngine{
		prog:   prog,
		usage:  usage,
		out:    out,
		flags:  make(map[string]*ArgSpec),
		shorts: make(map[string]*ArgSpec),
	}
}

func (e *parserEngine) AddArg(spec ArgSpec) error {
	s := &spec
	if spec.Positional {
		if spec.Multi {
			if e.multi == nil {
				e.multi = s
			}
		} else {
			e.positionals = append(e.positionals, s)
		}
	} else {
		if _, dup := e.flags[spec.Name]; dup {
			return duplicateSpecError(spec.Name)
		}
		e.flags[spec.Name] = s
		if spec.Short != "" {
			if _, dup := e.shorts[spec.Short]; dup {
				return duplicateSpecError(spec.Short)
			}
			e.shorts[spec.Short] = s
		}
	}
	e.specs = append(e.specs, s)
	return nil
}

func (e *parserEngine) Parse(args []string, collectLeftover bool) (*ArgTable, []string, error) {
	tbl := NewArgTable()
	var leftover []string
	posIdx := 0
	onlyPos := false

	for i := 0; i < len(args); i++ {
		tok := args[i]
		switch {
		case !onlyPos && tok == "--":
			onlyPos = true

		case !onlyPos && (tok == "-h" || tok == "--help"):
			e.renderHelp()
			return nil, nil, ErrHelpShown

		case !onlyPos && strings.HasPrefix(tok, "--"):
			name, val, hasVal := strings.Cut(tok[2:], "=")
			spec, ok := e.flags[name]
			if !ok {
				if collectLeftover {
					leftover = append(leftover, tok)
					continue
				}
				return nil, nil, e.unknownFlag(name)
			}
			if spec.Bool {
				if hasVal {
					tbl.Set(spec.Name, val)
				} else {
					tbl.Set(spec.Name, "true")
				}
				continue
			}
			if !hasVal {
				i++
				if i >= len(args) {
					return nil, nil, Errorf(ErrorTypeMissingValue, "option --%s requires a value", spec.Name)
				}
				val = args[i]
			}
			tbl.Set(spec.Name, val)

		case !onlyPos && isShortFlag(tok):
			name, val, hasVal := strings.Cut(tok, "=")
			spec, ok := e.shorts[name]
			if !ok {
				if collectLeftover {
					leftover = append(leftover, tok)
					continue
				}
				return nil, nil, e.unknownFlag(strings.TrimPrefix(name, "-"))
			}
			if spec.Bool {
				if hasVal {
					tbl.Set(spec.Name, val)
				} else {
					tbl.Set(spec.Name, "true")
				}
				continue
			}
			if !hasVal {
				i++
				if i >= len(args) {
					return nil, nil, Errorf(ErrorTypeMissingValue, "option %s requires a value", name)
				}
				val = args[i]
			}
			tbl.Set(spec.Name, val)

		default:
			if posIdx < len(e.positionals) {
				tbl.Set(e.positionals[posIdx].Name, tok)
				posIdx++
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
	}

	specs := make([]ArgSpec, len(e.specs))
	for i, s := range e.specs {
		specs[i] = *s
	}
	if err := validateRequired(specs, tbl); err != nil {
		return nil, nil, err
	}
	if err := validateChoices(specs, tbl); err != nil {
		return nil, nil, err
	}
	return tbl, leftover, nil
}

// isShortFlag reports whether tok looks like a short option. A leading
// dash followed by a digit is a negative number, not a flag.
func isShortFlag(tok string) bool {
	if len(tok) < 2 || tok[0] != '-' || tok[1] == '-' {
		return false
	}
	return tok[1] < '0' || tok[1] > '9'
}

func (e *parserEngine) unknownFlag(name string) error {
	err := Errorf(ErrorTypeUnknownFlag, "unknown option --%s", name).WithContext("flag", name)
	candidates := make([]string, 0, len(e.flags))
	for n := range e.flags {
		candidates = append(candidates, n)
	}
	if best := fuzzy.FindBestFlag(name, candidates, 2); best != "" {
		err = err.WithSuggestion(fmt.Sprintf("Did you mean '--%s'?", best))
	}
	return err
}

func (e *parserEngine) renderHelp() {
	specs := make([]ArgSpec, len(e.specs))
	for i, s := range e.specs {
		specs[i] = *s
	}
	renderHelp(e.out, e.prog, e.usage, specs)
}
