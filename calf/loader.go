package calf

import (
	"fmt"
	"os"
	"reflect"
	"strings"
)

// NoDefault marks a parameter without a declared default when
// constructing loaders directly.
var NoDefault any = noDefault{}

type noDefault struct{}

func (noDefault) String() string { return "calf.NoDefault" }

// ArgLoader is the per-parameter acquisition strategy: Declare
// registers the argument's shape with the flag engine (and, for the
// catch-all kinds, with the broker); Load converts the parsed raw
// value back into a typed call argument. One loader exists per
// parameter and lives for one invocation.
type ArgLoader interface {
	Declare(inv *Invocation) error
	Load(inv *Invocation, tbl *ArgTable, args *CallArgs) error
}

// LoaderBase carries the fields shared by all loaders. Embedders must
// implement Declare and Load themselves: the base methods panic with
// ErrLoaderContract so an incomplete loader fails loudly at first use.
type LoaderBase struct {
	Name       string
	Type       reflect.Type
	Info       *ParamInfo
	Default    any
	HasDefault bool
	EnvVars    []string
}

func newLoaderBase(name string, typ reflect.Type, info *ParamInfo, def any) LoaderBase {
	b := LoaderBase{Name: name, Type: typ, Info: info}
	if def != NoDefault {
		b.Default = def
		b.HasDefault = true
	}
	return b
}

// Declare panics: embedders must provide their own implementation.
func (b *LoaderBase) Declare(*Invocation) error {
	panic(ErrLoaderContract)
}

// Load panics: embedders must provide their own implementation.
func (b *LoaderBase) Load(*Invocation, *ArgTable, *CallArgs) error {
	panic(ErrLoaderContract)
}

// baseSpec assembles the parts of the engine declaration shared by all
// loaders: description, choices and the converted-to type name when it
// is not plain text.
func (b *LoaderBase) baseSpec() ArgSpec {
	spec := ArgSpec{Name: b.Name}
	if b.Info != nil {
		spec.Help = b.Info.Desc
		spec.Choices = b.Info.Choices
	}
	if b.Type != nil && b.Type.Kind() != reflect.String {
		spec.Help = strings.TrimSpace(spec.Help + " [" + typeName(b.Type) + "]")
	}
	if b.HasDefault {
		spec.HasDefault = true
		if b.Default != nil {
			spec.Default = fmt.Sprint(b.Default)
		}
	}
	return spec
}

// convert coerces a raw token through the invocation's converter set.
func (b *LoaderBase) convert(inv *Invocation, raw string) (any, error) {
	return inv.Convert(b.Type, raw)
}

// PosLoader handles a plain positional parameter.
type PosLoader struct {
	LoaderBase
}

// NewPosLoader returns a loader for a positional parameter. Pass
// NoDefault for def to make the argument required.
func NewPosLoader(name string, typ reflect.Type, info *ParamInfo, def any) *PosLoader {
	return &PosLoader{newLoaderBase(name, typ, info, def)}
}

func (l *PosLoader) Declare(inv *Invocation) error {
	spec := l.baseSpec()
	spec.Positional = true
	spec.Required = !l.HasDefault
	return inv.AddArg(spec)
}

func (l *PosLoader) Load(inv *Invocation, tbl *ArgTable, args *CallArgs) error {
	raw, ok := tbl.Value(l.Name)
	if !ok {
		args.Pos = append(args.Pos, l.Default)
		return nil
	}
	v, err := l.convert(inv, raw)
	if err != nil {
		return err
	}
	args.Pos = append(args.Pos, v)
	return nil
}

// OptLoader handles a keyword-only parameter, or a boolean parameter of
// any kind, as a --flag with an optional short alias.
type OptLoader struct {
	LoaderBase
}

// NewOptLoader returns a loader declaring --name. Pass NoDefault for
// def to make the option required (booleans simply default to false).
func NewOptLoader(name string, typ reflect.Type, info *ParamInfo, def any) *OptLoader {
	return &OptLoader{newLoaderBase(name, typ, info, def)}
}

func (l *OptLoader) isBool() bool {
	return l.Type != nil && l.Type.Kind() == reflect.Bool
}

func (l *OptLoader) Declare(inv *Invocation) error {
	spec := l.baseSpec()
	if l.Info != nil {
		spec.Short = l.Info.Short
	}
	if l.isBool() {
		// Presence flag: no value, no type suffix, never required.
		spec.Bool = true
		spec.Required = false
		spec.HasDefault = false
		spec.Help = ""
		if l.Info != nil {
			spec.Help = l.Info.Desc
		}
	} else if !l.HasDefault && len(l.EnvVars) == 0 {
		// Options with an env fallback stay optional at the engine so
		// the environment gets a chance to supply the value; Load
		// reports the miss when nothing does.
		spec.Required = true
	}
	return inv.AddArg(spec)
}

func (l *OptLoader) Load(inv *Invocation, tbl *ArgTable, args *CallArgs) error {
	raw, ok := tbl.Value(l.Name)
	if !ok {
		for _, ev := range l.EnvVars {
			if v, found := os.LookupEnv(ev); found {
				raw, ok = v, true
				break
			}
		}
	}
	if !ok {
		if l.isBool() && !l.HasDefault {
			args.Kwd[l.Name] = false
			return nil
		}
		if !l.HasDefault {
			return Errorf(ErrorTypeMissingRequired, "missing required option --%s", l.Name)
		}
		args.Kwd[l.Name] = l.Default
		return nil
	}
	v, err := l.convert(inv, raw)
	if err != nil {
		return err
	}
	args.Kwd[l.Name] = v
	return nil
}

// VarLoader feeds the catch-all positional parameter. It declares a
// greedy multi-valued positional and registers the accept-all matcher
// with the broker.
type VarLoader struct {
	LoaderBase
}

// NewVarLoader returns a loader collecting leftover positional values.
// typ is the element type of the bound slice.
func NewVarLoader(name string, typ reflect.Type, info *ParamInfo) *VarLoader {
	return &VarLoader{newLoaderBase(name, typ, info, NoDefault)}
}

func (l *VarLoader) Declare(inv *Invocation) error {
	spec := ArgSpec{Name: l.Name, Positional: true, Multi: true}
	if l.Info != nil {
		spec.Help = l.Info.Desc
	}
	inv.Broker().Register(SubstringMatcher(""), l.Name)
	return inv.AddArg(spec)
}

func (l *VarLoader) Load(inv *Invocation, tbl *ArgTable, args *CallArgs) error {
	for _, raw := range tbl.List(l.Name) {
		v, err := l.convert(inv, raw)
		if err != nil {
			return err
		}
		args.Pos = append(args.Pos, v)
	}
	return nil
}

// MapLoader feeds the catch-all keyword parameter from key=value
// tokens. The key is everything before the first '='; the value goes
// through the same conversion as any other token.
type MapLoader struct {
	LoaderBase
}

// NewMapLoader returns a loader collecting key=value pairs. typ is the
// element type of the bound map.
func NewMapLoader(name string, typ reflect.Type, info *ParamInfo) *MapLoader {
	return &MapLoader{newLoaderBase(name, typ, info, NoDefault)}
}

func (l *MapLoader) Declare(inv *Invocation) error {
	spec := ArgSpec{Name: l.Name, Positional: true, Multi: true, Metavar: "key=val"}
	if l.Info != nil {
		spec.Help = l.Info.Desc
	}
	inv.Broker().Register(NewPatternMatcher(keyValueRe), l.Name)
	return inv.AddArg(spec)
}

func (l *MapLoader) Load(inv *Invocation, tbl *ArgTable, args *CallArgs) error {
	for _, raw := range tbl.List(l.Name) {
		key, val, _ := strings.Cut(raw, "=")
		v, err := l.convert(inv, val)
		if err != nil {
			return err
		}
		args.Kwd[key] = v
	}
	return nil
}

// CompositeLoader reconstructs one positional argument from several
// flags: it declares its sub-loaders, collects their results and feeds
// them to a constructor function.
type CompositeLoader struct {
	LoaderBase
	ctor func(*CallArgs) (any, error)
	subs []ArgLoader
}

// NewCompositeLoader returns a loader that builds the parameter's value
// by running ctor over everything the sub-loaders produced.
func NewCompositeLoader(name string, typ reflect.Type, info *ParamInfo, def any,
	ctor func(*CallArgs) (any, error), subs []ArgLoader) *CompositeLoader {
	return &CompositeLoader{
		LoaderBase: newLoaderBase(name, typ, info, def),
		ctor:       ctor,
		subs:       subs,
	}
}

func (l *CompositeLoader) Declare(inv *Invocation) error {
	for _, sub := range l.subs {
		if err := sub.Declare(inv); err != nil {
			return err
		}
	}
	return nil
}

func (l *CompositeLoader) Load(inv *Invocation, tbl *ArgTable, args *CallArgs) error {
	sub := NewCallArgs()
	for _, s := range l.subs {
		if err := s.Load(inv, tbl, sub); err != nil {
			return err
		}
	}
	v, err := l.ctor(sub)
	if err != nil {
		return err
	}
	args.Pos = append(args.Pos, v)
	return nil
}
