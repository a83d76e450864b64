package calf

import (
	"fmt"
	"reflect"
)

// LoaderSelector picks the acquisition strategy for a parameter. The
// runner asks its selectors in order and uses the first that matches;
// the default selector matches everything, so custom selectors placed
// before it only need to claim the parameters they care about.
type LoaderSelector interface {
	Match(p *Param) bool
	MakeLoader(p *Param) (ArgLoader, error)
}

// DefaultSelector implements the standard kind-to-loader mapping.
// Boolean positionals become presence flags: there is no useful way to
// spell "false" as a bare positional token.
type DefaultSelector struct{}

func (DefaultSelector) Match(*Param) bool { return true }

func (DefaultSelector) MakeLoader(p *Param) (ArgLoader, error) {
	def := NoDefault
	if p.HasDefault {
		def = p.Default
	}
	switch {
	case p.Kind == KindOption,
		p.Kind == KindPositional && p.Type != nil && p.Type.Kind() == reflect.Bool:
		l := NewOptLoader(p.Name, p.Type, p.Info, def)
		l.EnvVars = p.EnvVars
		return l, nil
	case p.Kind == KindVarArgs:
		return NewVarLoader(p.Name, p.Type, p.Info), nil
	case p.Kind == KindVarKwargs:
		return NewMapLoader(p.Name, p.Type, p.Info), nil
	case p.Kind == KindPositional:
		return NewPosLoader(p.Name, p.Type, p.Info, def), nil
	}
	return nil, fmt.Errorf("calf: unknown parameter kind %q for %s", p.Kind, p.Name)
}

// selectLoader walks the selector chain for p.
func selectLoader(selectors []LoaderSelector, p *Param) (ArgLoader, error) {
	for _, s := range selectors {
		if s.Match(p) {
			return s.MakeLoader(p)
		}
	}
	return nil, fmt.Errorf("calf: no selector matched parameter %s", p.Name)
}
