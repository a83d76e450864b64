package calf

import "strings"

// expandTabs replaces tab characters with spaces up to the next
// 8-column tab stop.
func expandTabs(line string) string {
	if !strings.ContainsRune(line, '\t') {
		return line
	}
	var b strings.Builder
	col := 0
	for _, r := range line {
		if r == '\t' {
			n := 8 - col%8
			for i := 0; i < n; i++ {
				b.WriteByte(' ')
			}
			col += n
			continue
		}
		b.WriteRune(r)
		col++
	}
	return b.String()
}

// indentWidth returns the number of leading spaces.
func indentWidth(line string) int {
	for i := 0; i < len(line); i++ {
		if line[i] != ' ' {
			return i
		}
	}
	return len(line)
}

// IndentedGroups splits text into contiguous runs of lines grouped by
// indentation.
//
// Blank lines are discarded and tabs expanded. The indentation of the
// first remaining line sets the baseline; scanning stops at the first
// line indented less than the baseline, which bounds the result to one
// section. Within that run, a line indented exactly at the baseline
// starts a new group and deeper lines continue the current one. Empty
// or all-blank input yields no groups.
func IndentedGroups(text string) [][]string {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, expandTabs(l))
	}
	if len(lines) == 0 {
		return nil
	}
	baseline := indentWidth(lines[0])
	var groups [][]string
	var cur []string
	for _, l := range lines {
		w := indentWidth(l)
		if w < baseline {
			break
		}
		if w == baseline {
			if cur != nil {
				groups = append(groups, cur)
			}
			cur = []string{l}
			continue
		}
		cur = append(cur, l)
	}
	if cur != nil {
		groups = append(groups, cur)
	}
	return groups
}
