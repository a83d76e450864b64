package calf

import (
	"errors"
	"fmt"
	"testing"
)

func TestExitCodeResolve(t *testing.T) {
	m := newExitCodeManager()
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil is success", nil, 0},
		{"exit error wins", &ExitError{Code: 42, Err: NewError(ErrorTypeInvalidValue, "x")}, 42},
		{"help is misusage", ErrHelpShown, 2},
		{"wrapped help", fmt.Errorf("wrap: %w", ErrHelpShown), 2},
		{"invalid value is general", NewError(ErrorTypeInvalidValue, "x"), 1},
		{"unclassified is misusage", NewError(ErrorTypeUnclassifiedArg, "x"), 2},
		{"unknown flag is misusage", NewError(ErrorTypeUnknownFlag, "x"), 2},
		{"missing required is misusage", NewError(ErrorTypeMissingRequired, "x"), 2},
		{"invalid choice is misusage", NewError(ErrorTypeInvalidChoice, "x"), 2},
		{"unmapped category is general", NewError(ErrorType("other"), "x"), 1},
		{"plain error is general", errors.New("boom"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Resolve(tt.err); got != tt.want {
				t.Errorf("Resolve = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestExitCodeDefine(t *testing.T) {
	m := newExitCodeManager().Define(ErrorTypeInvalidValue, 64)
	if got := m.Resolve(NewError(ErrorTypeInvalidValue, "x")); got != 64 {
		t.Errorf("Resolve = %d, want 64", got)
	}
}

func TestExitCodeDefaultOverride(t *testing.T) {
	m := newExitCodeManager().Default(ExitCodeDefaults{Success: 0, GeneralError: 10, MisusageError: 20})
	if got := m.Resolve(errors.New("boom")); got != 10 {
		t.Errorf("general = %d, want 10", got)
	}
	if got := m.Resolve(ErrHelpShown); got != 20 {
		t.Errorf("help = %d, want 20", got)
	}
}
