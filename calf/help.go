package calf

import (
	"fmt"
	"io"
	"strings"
)

// renderHelp writes the generated help screen: a usage line, the doc
// summary, then the positional arguments and options. Per-argument help
// comes from the loaders' ArgSpecs, already augmented with the
// converted-to type name.
func renderHelp(w io.Writer, prog, usage string, specs []ArgSpec) {
	var pos, opts []ArgSpec
	for _, s := range specs {
		if s.Positional {
			pos = append(pos, s)
		} else {
			opts = append(opts, s)
		}
	}

	var b strings.Builder
	b.WriteString("Usage: ")
	b.WriteString(prog)
	b.WriteString(" [options]")
	for _, s := range pos {
		mv := s.Metavar
		if mv == "" {
			mv = s.Name
		}
		switch {
		case s.Multi:
			b.WriteString(" [" + mv + " ...]")
		case s.HasDefault:
			b.WriteString(" [" + mv + "]")
		default:
			b.WriteString(" " + mv)
		}
	}
	fmt.Fprintln(w, b.String())
	if usage != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, usage)
	}

	type row struct{ left, help string }
	var argRows, optRows []row
	for _, s := range pos {
		left := s.Metavar
		if left == "" {
			left = s.Name
		}
		argRows = append(argRows, row{left, helpText(s)})
	}
	optRows = append(optRows, row{"-h, --help", "Show this help and exit"})
	for _, s := range opts {
		left := "    --" + s.Name
		if s.Short != "" {
			left = s.Short + ", --" + s.Name
		}
		if !s.Bool {
			left += " " + strings.ToUpper(s.Name)
		}
		optRows = append(optRows, row{left, helpText(s)})
	}

	width := 0
	for _, r := range argRows {
		if len(r.left) > width {
			width = len(r.left)
		}
	}
	for _, r := range optRows {
		if len(r.left) > width {
			width = len(r.left)
		}
	}

	if len(argRows) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Arguments:")
		for _, r := range argRows {
			fmt.Fprintf(w, "  %-*s  %s\n", width, r.left, r.help)
		}
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	for _, r := range optRows {
		fmt.Fprintf(w, "  %-*s  %s\n", width, r.left, strings.TrimRight(r.help, " "))
	}
}

// helpText renders one argument's help line: description, choice list,
// default and required marker.
func helpText(s ArgSpec) string {
	h := s.Help
	if len(s.Choices) > 0 {
		h = strings.TrimSpace(h + " {" + strings.Join(s.Choices, ", ") + "}")
	}
	if s.HasDefault && s.Default != "" && !s.Bool {
		h = strings.TrimSpace(h + " (default: " + s.Default + ")")
	}
	if s.Required && !s.Positional {
		h = strings.TrimSpace(h + " (required)")
	}
	return h
}
