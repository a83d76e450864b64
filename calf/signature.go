package calf

import (
	"fmt"
	"reflect"
)

// ParamKind classifies how a function parameter acquires its command
// line argument.
type ParamKind string

const (
	// KindPositional parameters are filled from positional tokens.
	KindPositional ParamKind = "positional"
	// KindOption parameters are keyword-only and become --flags.
	KindOption ParamKind = "option"
	// KindVarArgs is the catch-all for leftover positional values.
	KindVarArgs ParamKind = "varargs"
	// KindVarKwargs is the catch-all for key=value pairs.
	KindVarKwargs ParamKind = "varkwargs"
)

// Param describes one function parameter: name, reflected type,
// acquisition kind and declared default. For the catch-all kinds, Type
// is the element type of the bound slice or map. A Param is derived
// once per Func and immutable afterwards.
type Param struct {
	Name       string
	Type       reflect.Type
	Kind       ParamKind
	Default    any
	HasDefault bool
	EnvVars    []string
	Info       *ParamInfo

	index int
}

// Func couples a callable with the parameter table mapping command-line
// arguments onto its signature. Go reflection cannot recover parameter
// names or defaults, so the caller declares them with the fluent
// builder; types come from the live signature.
type Func struct {
	name    string
	doc     string
	fn      reflect.Value
	params  []*Param
	bindErr error
	bound   bool
}

// NewFunc starts a parameter table for fn, which must be a function.
// name is used as the default program name in help and diagnostics.
func NewFunc(name string, fn any) *Func {
	v := reflect.ValueOf(fn)
	f := &Func{name: name, fn: v}
	if !v.IsValid() || v.Kind() != reflect.Func {
		f.bindErr = fmt.Errorf("calf: NewFunc %s: not a function: %T", name, fn)
	}
	return f
}

// Doc attaches the documentation text describing the function and its
// parameters.
func (f *Func) Doc(doc string) *Func {
	f.doc = doc
	return f
}

func (f *Func) addParam(name string, kind ParamKind) *ParamBuilder {
	p := &Param{Name: name, Kind: kind, index: len(f.params)}
	f.params = append(f.params, p)
	return &ParamBuilder{param: p, fn: f}
}

// Pos declares the next function parameter as a positional argument.
func (f *Func) Pos(name string) *ParamBuilder {
	return f.addParam(name, KindPositional)
}

// Opt declares the next function parameter as a keyword-only option.
func (f *Func) Opt(name string) *ParamBuilder {
	return f.addParam(name, KindOption)
}

// VarArgs declares the next function parameter as the catch-all for
// leftover positional values. It must bind to a slice parameter
// (a trailing variadic parameter also qualifies).
func (f *Func) VarArgs(name string) *ParamBuilder {
	return f.addParam(name, KindVarArgs)
}

// VarKwargs declares the next function parameter as the catch-all for
// key=value pairs. It must bind to a map[string]T parameter.
func (f *Func) VarKwargs(name string) *ParamBuilder {
	return f.addParam(name, KindVarKwargs)
}

// ParamBuilder configures a declared parameter.
type ParamBuilder struct {
	param *Param
	fn    *Func
}

// Default sets the default value, making the parameter optional. The
// value is used as-is, without conversion, when the argument is absent.
func (b *ParamBuilder) Default(v any) *ParamBuilder {
	b.param.Default = v
	b.param.HasDefault = true
	return b
}

// Env adds environment variables consulted in order when an option is
// not given on the command line. Values found there go through the same
// conversion as command-line tokens.
func (b *ParamBuilder) Env(vars ...string) *ParamBuilder {
	b.param.EnvVars = append(b.param.EnvVars, vars...)
	return b
}

// Back returns to the Func builder.
func (b *ParamBuilder) Back() *Func {
	return b.fn
}

// bind checks the declared table against the reflected signature and
// fills in the parameter types. Binding errors are programming defects.
func (f *Func) bind() ([]*Param, error) {
	if f.bindErr != nil {
		return nil, f.bindErr
	}
	if f.bound {
		return f.params, nil
	}
	t := f.fn.Type()
	if len(f.params) != t.NumIn() {
		return nil, fmt.Errorf("calf: %s declares %d parameters but the function takes %d",
			f.name, len(f.params), t.NumIn())
	}
	for i, p := range f.params {
		in := t.In(i)
		switch p.Kind {
		case KindVarArgs:
			if in.Kind() != reflect.Slice {
				return nil, fmt.Errorf("calf: %s: varargs parameter %s must bind to a slice, got %s",
					f.name, p.Name, in)
			}
			p.Type = in.Elem()
		case KindVarKwargs:
			if in.Kind() != reflect.Map || in.Key().Kind() != reflect.String {
				return nil, fmt.Errorf("calf: %s: varkwargs parameter %s must bind to a map[string]T, got %s",
					f.name, p.Name, in)
			}
			p.Type = in.Elem()
		default:
			if in.Kind() == reflect.Ptr {
				// Optional-of-T: convert to the element type; an absent
				// value becomes a nil default instead of an error.
				p.Type = in.Elem()
				if !p.HasDefault {
					p.HasDefault = true
					p.Default = nil
				}
			} else {
				p.Type = in
			}
		}
	}
	f.bound = true
	return f.params, nil
}

// CallArgs accumulates the converted positional and keyword arguments
// produced by the loaders for the eventual invocation.
type CallArgs struct {
	Pos []any
	Kwd map[string]any
}

// NewCallArgs returns an empty argument set.
func NewCallArgs() *CallArgs {
	return &CallArgs{Kwd: make(map[string]any)}
}

var errType = reflect.TypeOf((*error)(nil)).Elem()

// call maps the accumulated arguments onto the function signature and
// invokes it. Named parameters may arrive through either the
// positional list or the keyword map (a boolean positional is acquired
// as a flag and lands in the keyword map); catch-alls take whatever
// remains.
func (f *Func) call(args *CallArgs) (any, error) {
	t := f.fn.Type()
	pos := args.Pos
	kwd := make(map[string]any, len(args.Kwd))
	for k, v := range args.Kwd {
		kwd[k] = v
	}
	named := make(map[string]any)
	for _, p := range f.params {
		if p.Kind != KindPositional && p.Kind != KindOption {
			continue
		}
		if v, ok := kwd[p.Name]; ok {
			named[p.Name] = v
			delete(kwd, p.Name)
		}
	}

	in := make([]reflect.Value, 0, t.NumIn())
	for i, p := range f.params {
		pt := t.In(i)
		switch p.Kind {
		case KindPositional, KindOption:
			v, ok := named[p.Name]
			if !ok {
				if p.Kind == KindOption || len(pos) == 0 {
					return nil, Errorf(ErrorTypeInternal, "no value loaded for parameter %s", p.Name)
				}
				v = pos[0]
				pos = pos[1:]
			}
			rv, err := coerce(v, pt)
			if err != nil {
				return nil, err
			}
			in = append(in, rv)
		case KindVarArgs:
			if t.IsVariadic() && i == t.NumIn()-1 {
				for _, v := range pos {
					rv, err := coerce(v, pt.Elem())
					if err != nil {
						return nil, err
					}
					in = append(in, rv)
				}
				pos = nil
				continue
			}
			sv := reflect.MakeSlice(pt, 0, len(pos))
			for _, v := range pos {
				rv, err := coerce(v, pt.Elem())
				if err != nil {
					return nil, err
				}
				sv = reflect.Append(sv, rv)
			}
			pos = nil
			in = append(in, sv)
		case KindVarKwargs:
			mv := reflect.MakeMapWithSize(pt, len(kwd))
			for k, v := range kwd {
				rv, err := coerce(v, pt.Elem())
				if err != nil {
					return nil, err
				}
				mv.SetMapIndex(reflect.ValueOf(k).Convert(pt.Key()), rv)
			}
			kwd = nil
			in = append(in, mv)
		}
	}

	out := f.fn.Call(in)
	return splitResults(t, out)
}

// coerce adapts a loaded value to the parameter's static type. A value
// of type T fills a *T parameter by allocation; nil fills any type with
// its zero value.
func coerce(v any, t reflect.Type) (reflect.Value, error) {
	if v == nil {
		return reflect.Zero(t), nil
	}
	rv := reflect.ValueOf(v)
	if rv.Type() == t {
		return rv, nil
	}
	if t.Kind() == reflect.Ptr && rv.Type() == t.Elem() {
		pv := reflect.New(t.Elem())
		pv.Elem().Set(rv)
		return pv, nil
	}
	if rv.Type().ConvertibleTo(t) {
		return rv.Convert(t), nil
	}
	return reflect.Value{}, Errorf(ErrorTypeInternal, "cannot use value of type %T as %s", v, t)
}

// splitResults propagates the function's return value unchanged. A
// trailing error result is split off and returned as the call error.
func splitResults(t reflect.Type, out []reflect.Value) (any, error) {
	var err error
	if n := len(out); n > 0 && t.Out(n-1) == errType {
		if e := out[n-1]; !e.IsNil() {
			err = e.Interface().(error)
		}
		out = out[:n-1]
	}
	switch len(out) {
	case 0:
		return nil, err
	case 1:
		return out[0].Interface(), err
	}
	vals := make([]any, len(out))
	for i, v := range out {
		vals[i] = v.Interface()
	}
	return vals, err
}
