package calf

import (
	"regexp"
	"strings"
)

// ParamInfo is the per-parameter metadata recovered from documentation
// text. It is produced by a DocParser, refined in place by a
// ParamInfoParser and consumed read-only by the loaders.
type ParamInfo struct {
	// Desc is the description of the parameter.
	Desc string
	// Short is the short option form, like "-i".
	Short string
	// Choices is the ordered list of allowed values, when the
	// description enumerates them.
	Choices []string
}

// ParamInfoParser post-processes a raw ParamInfo in place.
type ParamInfoParser func(*ParamInfo)

var (
	shortOptRe    = regexp.MustCompile(`(?s)^\((-[A-Za-z0-9])\)\s*(.*)$`)
	choiceListRe  = regexp.MustCompile(`(?s)^(.*?) *\{([^{}]*)\}([.,;]?)$`)
	choiceSplitRe = regexp.MustCompile(`,\s*`)
)

// BasicParamParser extracts a leading "(-x)" as the short option and a
// trailing "{a, b, c}" (comma required) as the choice list, then trims
// the description. The short option is removed from the description
// since the generated help already shows it. Reapplying to an already
// refined ParamInfo is a no-op.
func BasicParamParser(info *ParamInfo) {
	if m := shortOptRe.FindStringSubmatch(info.Desc); m != nil {
		info.Short = m[1]
		info.Desc = m[2]
	}
	if m := choiceListRe.FindStringSubmatch(info.Desc); m != nil && strings.Contains(m[2], ",") {
		choices := make([]string, 0, 4)
		for _, c := range choiceSplitRe.Split(m[2], -1) {
			choices = append(choices, strings.TrimSpace(c))
		}
		info.Choices = choices
		info.Desc = m[1] + m[3]
	}
	info.Desc = strings.TrimSpace(info.Desc)
}
