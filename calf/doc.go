// Package calf turns ordinary functions into command-line interfaces.
//
// The caller declares a parameter table for a function with the fluent
// Func builder; calf parses the function's documentation text for
// per-parameter descriptions, short option forms and choice lists,
// derives a flag/positional surface from the table, parses the command
// line and invokes the function with typed arguments.
//
// Functions are written naturally and documented naturally; the CLI
// falls out. See the examples directory for complete programs.
package calf
