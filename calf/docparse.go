package calf

import (
	"fmt"
	"regexp"
	"strings"
)

// DocParser extracts a usage summary and per-parameter descriptions
// from a function's documentation text. Parsers never fail: when no
// recognizable section structure is found they return the cleaned full
// text as summary and an empty parameter map.
type DocParser func(doc string) (string, map[string]*ParamInfo)

var docParsers = make(map[string]DocParser)

// RegisterDocParser registers a doc parser under a name so runners can
// select it per invocation.
func RegisterDocParser(name string, p DocParser) {
	docParsers[name] = p
}

// DocParserByName returns the doc parser registered under name.
func DocParserByName(name string) (DocParser, error) {
	if p, ok := docParsers[name]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("calf: doc parser %s not found", name)
}

func init() {
	RegisterDocParser("plain", PlainDocParser)
	RegisterDocParser("google", GoogleDocParser)
	RegisterDocParser("sphinx", SphinxDocParser)
	RegisterDocParser("numpy", NumpyDocParser)
}

// cleanDoc normalizes documentation text: tabs are expanded, the common
// leading whitespace of the lines after the first is removed, and
// leading and trailing blank lines are dropped.
func cleanDoc(doc string) string {
	lines := strings.Split(doc, "\n")
	for i := range lines {
		lines[i] = expandTabs(lines[i])
	}
	margin := -1
	for _, l := range lines[1:] {
		if strings.TrimSpace(l) == "" {
			continue
		}
		if w := indentWidth(l); margin < 0 || w < margin {
			margin = w
		}
	}
	lines[0] = strings.TrimLeft(lines[0], " ")
	if margin > 0 {
		for i, l := range lines[1:] {
			if len(l) >= margin {
				lines[i+1] = l[margin:]
			} else {
				lines[i+1] = strings.TrimLeft(l, " ")
			}
		}
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	return strings.Join(lines, "\n")
}

// joinTrimmed flattens a group into one line, dropping the indentation
// of continuation lines.
func joinTrimmed(group []string) string {
	parts := make([]string, len(group))
	for i, l := range group {
		parts[i] = strings.TrimSpace(l)
	}
	return strings.Join(parts, " ")
}

// PlainDocParser cleans the documentation text and recognizes no
// parameter section.
func PlainDocParser(doc string) (string, map[string]*ParamInfo) {
	return cleanDoc(doc), make(map[string]*ParamInfo)
}

var (
	sectionHeaderRe = regexp.MustCompile(`(?m)^(?:Args?|Returns?|Raises?|Yields?|Examples?|Attributes?):[ \t]*$`)
	argsHeaderRe    = regexp.MustCompile(`(?m)^Args?:[ \t]*$`)
)

// GoogleDocParser handles Google-style documentation: the text is split
// at the first section header, everything before it is the summary, and
// the indented block under "Args:" holds one group per parameter. Each
// group splits at the first colon into a name (type annotations after a
// space or open parenthesis are stripped) and a description.
func GoogleDocParser(doc string) (string, map[string]*ParamInfo) {
	summary, infos := PlainDocParser(doc)
	loc := sectionHeaderRe.FindStringIndex(summary)
	if loc == nil {
		return summary, infos
	}
	remain := summary[loc[0]:]
	summary = summary[:loc[0]]
	loc = argsHeaderRe.FindStringIndex(remain)
	if loc == nil {
		return summary, infos
	}
	for _, group := range IndentedGroups(remain[loc[1]:]) {
		name, desc, _ := strings.Cut(joinTrimmed(group), ":")
		name = strings.TrimSpace(name)
		if i := strings.IndexAny(name, " ("); i >= 0 {
			name = name[:i]
		}
		if name == "" {
			continue
		}
		infos[name] = &ParamInfo{Desc: strings.TrimSpace(desc)}
	}
	return summary, infos
}

var (
	fieldListRe   = regexp.MustCompile(`(?m)^[:@].*:`)
	sphinxParamRe = regexp.MustCompile(`(?i)^[:@]param\s+([^:]+):\s*(.*)$`)
)

// SphinxDocParser handles Sphinx-style and epydoc-style field lists:
// the text is split at the first line starting with a ':' or '@'
// marker, and each indented group matching ":param name: description"
// contributes a parameter. Other field types are silently skipped.
func SphinxDocParser(doc string) (string, map[string]*ParamInfo) {
	summary, infos := PlainDocParser(doc)
	loc := fieldListRe.FindStringIndex(summary)
	if loc == nil {
		return summary, infos
	}
	remain := summary[loc[0]:]
	summary = summary[:loc[0]]
	for _, group := range IndentedGroups(remain) {
		m := sphinxParamRe.FindStringSubmatch(joinTrimmed(group))
		if m == nil {
			continue
		}
		name := strings.TrimSpace(m[1])
		name = strings.TrimLeft(strings.Trim(name, "`"), "*")
		if name == "" {
			continue
		}
		infos[name] = &ParamInfo{Desc: strings.TrimSpace(m[2])}
	}
	return summary, infos
}

var (
	numpyHeaderRe = regexp.MustCompile(`(?m)^[ \t]*(\S[^\n]*)\n[ \t]*-+[ \t]*$\n?`)
	numpyParamsRe = regexp.MustCompile(`(?i)^parameters?$`)
)

// NumpyDocParser handles Numpy-style documentation: sections are
// introduced by a header line followed by a dashed underline. Only
// sections whose header reads "Parameters" are parsed; within them each
// group's first line up to the first colon names the parameter and the
// remaining lines, trimmed and space-joined, form the description.
func NumpyDocParser(doc string) (string, map[string]*ParamInfo) {
	summary, infos := PlainDocParser(doc)
	matches := numpyHeaderRe.FindAllStringSubmatchIndex(summary, -1)
	if len(matches) == 0 {
		return summary, infos
	}
	full := summary
	summary = strings.TrimRight(full[:matches[0][0]], " \t\n")
	for i, m := range matches {
		header := strings.TrimSpace(full[m[2]:m[3]])
		if !numpyParamsRe.MatchString(header) {
			continue
		}
		end := len(full)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		for _, group := range IndentedGroups(full[m[1]:end]) {
			name, _, _ := strings.Cut(group[0], ":")
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			parts := make([]string, 0, len(group)-1)
			for _, l := range group[1:] {
				parts = append(parts, strings.TrimSpace(l))
			}
			infos[name] = &ParamInfo{Desc: strings.Join(parts, " ")}
		}
	}
	return summary, infos
}
