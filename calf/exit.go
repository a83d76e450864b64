package calf

import "errors"

// ExitError is a sentinel used to request a specific exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return "exit"
}

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCodeDefaults holds common default codes.
type ExitCodeDefaults struct {
	Success       int // default: 0
	GeneralError  int // default: 1
	MisusageError int // default: 2
}

func defaultExitDefaults() ExitCodeDefaults {
	return ExitCodeDefaults{Success: 0, GeneralError: 1, MisusageError: 2}
}

// ExitCodeManager maps error categories to process exit codes.
type ExitCodeManager struct {
	codesByType map[ErrorType]int
	defaults    ExitCodeDefaults
}

func newExitCodeManager() *ExitCodeManager {
	m := &ExitCodeManager{
		codesByType: make(map[ErrorType]int),
		defaults:    defaultExitDefaults(),
	}
	// Prewire the CLI categories. Conversion failures follow the
	// conventional general-error code; everything usage-shaped is a
	// misusage.
	m.codesByType[ErrorTypeInvalidValue] = m.defaults.GeneralError
	m.codesByType[ErrorTypeUnclassifiedArg] = m.defaults.MisusageError
	m.codesByType[ErrorTypeUnknownFlag] = m.defaults.MisusageError
	m.codesByType[ErrorTypeMissingValue] = m.defaults.MisusageError
	m.codesByType[ErrorTypeMissingRequired] = m.defaults.MisusageError
	m.codesByType[ErrorTypeInvalidChoice] = m.defaults.MisusageError
	m.codesByType[ErrorTypeUnexpectedArgument] = m.defaults.MisusageError
	return m
}

// Define overrides the exit code used for a specific error category.
func (e *ExitCodeManager) Define(typ ErrorType, code int) *ExitCodeManager {
	e.codesByType[typ] = code
	return e
}

// Default replaces the manager's default codes.
func (e *ExitCodeManager) Default(d ExitCodeDefaults) *ExitCodeManager {
	e.defaults = d
	return e
}

// Resolve converts an error to an exit code according to registered
// mappings. Precedence:
//  1. ExitError (requested code)
//  2. Help shown (misusage code; the help screen is a terminated
//     invocation, not a result)
//  3. CLIError category mapping
//  4. Default codes
func (e *ExitCodeManager) Resolve(err error) int {
	if err == nil {
		return e.defaults.Success
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	if errors.Is(err, ErrHelpShown) {
		return e.defaults.MisusageError
	}

	var cli *CLIError
	if errors.As(err, &cli) {
		if code, ok := e.codesByType[cli.Type]; ok {
			return code
		}
		return e.defaults.GeneralError
	}

	return e.defaults.GeneralError
}
