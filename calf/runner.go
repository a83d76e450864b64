package calf

import (
	"fmt"
	"io"
	"os"
	"reflect"
)

// Invocation is the per-call assembly handed to the loaders: the flag
// engine being populated, the broker for catch-all registration and the
// converter set in effect. It lives for one Call.
type Invocation struct {
	usage      string
	engine     Engine
	broker     *VarArgBroker
	converters *ConverterSet
}

// AddArg declares an argument with the invocation's flag engine.
func (inv *Invocation) AddArg(spec ArgSpec) error {
	return inv.engine.AddArg(spec)
}

// Broker returns the catch-all broker for matcher registration.
func (inv *Invocation) Broker() *VarArgBroker {
	return inv.broker
}

// Convert coerces a raw token using the invocation's converter set.
func (inv *Invocation) Convert(t reflect.Type, raw string) (any, error) {
	return inv.converters.Convert(t, raw)
}

// Runner drives the pipeline: documentation parsing, loader selection,
// argument declaration, parsing, brokering, loading and finally the
// function call. A zero-configured Runner uses the Google doc parser,
// the basic info refiner, the built-in flag engine and the default
// converters. Configure with the fluent setters before calling.
type Runner struct {
	selectors   []LoaderSelector
	docParser   DocParser
	paramParser ParamInfoParser
	converters  *ConverterSet
	newEngine   EngineFactory
	prog        string
	stdout      io.Writer
	stderr      io.Writer
	exitCodes   *ExitCodeManager
	setupErr    error
}

// NewRunner returns a runner with the default configuration.
func NewRunner() *Runner {
	return &Runner{
		docParser:   GoogleDocParser,
		paramParser: BasicParamParser,
		converters:  DefaultConverters,
		newEngine:   NewParserEngine,
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		exitCodes:   newExitCodeManager(),
	}
}

// Selectors installs custom loader selectors, consulted in order before
// the default kind mapping.
func (r *Runner) Selectors(s ...LoaderSelector) *Runner {
	r.selectors = append(r.selectors, s...)
	return r
}

// DocParser replaces the documentation parser.
func (r *Runner) DocParser(p DocParser) *Runner {
	r.docParser = p
	return r
}

// DocParserNamed selects a registered documentation parser by name.
// An unknown name surfaces as an error from Call.
func (r *Runner) DocParserNamed(name string) *Runner {
	p, err := DocParserByName(name)
	if err != nil {
		r.setupErr = err
		return r
	}
	r.docParser = p
	return r
}

// ParamParser replaces the per-parameter info refiner. Pass nil to skip
// refinement.
func (r *Runner) ParamParser(p ParamInfoParser) *Runner {
	r.paramParser = p
	return r
}

// Converters replaces the converter set.
func (r *Runner) Converters(cs *ConverterSet) *Runner {
	r.converters = cs
	return r
}

// Engine replaces the flag engine factory.
func (r *Runner) Engine(f EngineFactory) *Runner {
	r.newEngine = f
	return r
}

// Prog overrides the program name shown in help. The default is the
// function's declared name.
func (r *Runner) Prog(name string) *Runner {
	r.prog = name
	return r
}

// Output redirects help and result output.
func (r *Runner) Output(w io.Writer) *Runner {
	r.stdout = w
	return r
}

// ErrOutput redirects error output.
func (r *Runner) ErrOutput(w io.Writer) *Runner {
	r.stderr = w
	return r
}

// ExitCodes returns the exit code manager for customization.
func (r *Runner) ExitCodes() *ExitCodeManager {
	return r.exitCodes
}

// prepare binds the function, recovers the parameter descriptions from
// its documentation, selects a loader per parameter and declares every
// argument with a fresh engine. The returned loaders are in load order.
func (r *Runner) prepare(f *Func) (*Invocation, []ArgLoader, error) {
	if r.setupErr != nil {
		return nil, nil, r.setupErr
	}
	params, err := f.bind()
	if err != nil {
		return nil, nil, err
	}

	usage, infos := r.docParser(f.doc)
	for _, p := range params {
		if info, ok := infos[p.Name]; ok {
			if r.paramParser != nil {
				r.paramParser(info)
			}
			p.Info = info
		}
	}

	// The engine feeds every leftover positional to its first
	// multi-valued slot, so the key=value catch-all must both declare
	// and register with the broker ahead of the accept-all one. Plain
	// parameters keep their signature order.
	ordered := make([]*Param, 0, len(params))
	for _, p := range params {
		if p.Kind == KindPositional || p.Kind == KindOption {
			ordered = append(ordered, p)
		}
	}
	for _, p := range params {
		if p.Kind == KindVarKwargs {
			ordered = append(ordered, p)
		}
	}
	for _, p := range params {
		if p.Kind == KindVarArgs {
			ordered = append(ordered, p)
		}
	}

	prog := r.prog
	if prog == "" {
		prog = f.name
	}
	inv := &Invocation{
		usage:      usage,
		engine:     r.newEngine(prog, usage, r.stdout),
		broker:     &VarArgBroker{},
		converters: r.converters,
	}

	selectors := append(append([]LoaderSelector(nil), r.selectors...), DefaultSelector{})
	loaders := make([]ArgLoader, 0, len(ordered))
	for _, p := range ordered {
		l, err := selectLoader(selectors, p)
		if err != nil {
			return nil, nil, err
		}
		if err := l.Declare(inv); err != nil {
			return nil, nil, err
		}
		loaders = append(loaders, l)
	}
	return inv, loaders, nil
}

// Call runs f against the given argument tokens and returns whatever
// the function returned. ErrHelpShown comes back when help was
// requested; user-input failures come back as *CLIError.
func (r *Runner) Call(f *Func, args []string) (any, error) {
	inv, loaders, err := r.prepare(f)
	if err != nil {
		return nil, err
	}

	tbl, leftover, err := inv.engine.Parse(args, inv.broker.WantVarArgs())
	if err != nil {
		return nil, err
	}
	if err := inv.broker.Distribute(tbl, leftover); err != nil {
		return nil, err
	}

	callArgs := NewCallArgs()
	for _, l := range loaders {
		if err := l.Load(inv, tbl, callArgs); err != nil {
			return nil, err
		}
	}
	return f.call(callArgs)
}

// Seam for tests.
var osExit = os.Exit

// Run executes f with the process arguments and exits with the resolved
// code. A non-nil result is printed to the configured output.
func (r *Runner) Run(f *Func) {
	result, err := r.Call(f, os.Args[1:])
	if err != nil {
		r.printError(err)
		osExit(r.exitCodes.Resolve(err))
		return
	}
	if result != nil {
		fmt.Fprintln(r.stdout, result)
	}
	osExit(r.exitCodes.Resolve(nil))
}

func (r *Runner) printError(err error) {
	if err == ErrHelpShown {
		return
	}
	fmt.Fprintf(r.stderr, "Error: %v\n", err)
	if cli, ok := err.(*CLIError); ok {
		for _, s := range cli.Suggestions {
			fmt.Fprintln(r.stderr, s)
		}
	}
}

// Call runs f with the default runner configuration.
func Call(f *Func, args []string) (any, error) {
	return NewRunner().Call(f, args)
}

// Run executes f with the default runner configuration and exits.
func Run(f *Func) {
	NewRunner().Run(f)
}
