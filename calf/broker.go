package calf

import (
	"regexp"
	"strings"
)

// keyValueRe recognizes key=value tokens. The key must be non-empty and
// must not start with '=', so a bare "=x" stays a positional value.
var keyValueRe = regexp.MustCompile(`^[^=].*=`)

// VarMatcher decides whether a leftover token belongs to a catch-all
// parameter.
type VarMatcher interface {
	Match(tok string) bool
}

// SubstringMatcher matches any token containing it. The empty string
// matches everything, which is how the catch-all positional claims
// whatever earlier matchers declined.
type SubstringMatcher string

func (m SubstringMatcher) Match(tok string) bool {
	return strings.Contains(tok, string(m))
}

// PatternMatcher matches tokens against a regular expression.
type PatternMatcher struct {
	re *regexp.Regexp
}

// NewPatternMatcher returns a matcher claiming tokens that re matches.
func NewPatternMatcher(re *regexp.Regexp) PatternMatcher {
	return PatternMatcher{re: re}
}

func (m PatternMatcher) Match(tok string) bool {
	return m.re.MatchString(tok)
}

type brokerEntry struct {
	matcher VarMatcher
	param   string
}

// VarArgBroker re-partitions the leftover tokens among the catch-all
// parameters. The flag engine can only feed one greedy positional slot,
// so with two catch-alls present every remaining token first lands in
// the same bucket; Distribute empties that bucket and reassigns each
// token to the first registered matcher that claims it.
type VarArgBroker struct {
	entries []brokerEntry
}

// Register adds a matcher for a catch-all parameter. Registration order
// is match order: earlier matchers win ties.
func (b *VarArgBroker) Register(m VarMatcher, param string) {
	b.entries = append(b.entries, brokerEntry{matcher: m, param: param})
}

// WantVarArgs reports whether any catch-all parameter is registered, in
// which case the engine is asked to collect leftover tokens rather than
// reject them.
func (b *VarArgBroker) WantVarArgs() bool {
	return len(b.entries) > 0
}

// Distribute reassigns the engine-collected catch-all values plus any
// leftover tokens. Tokens no matcher claims are fatal.
func (b *VarArgBroker) Distribute(tbl *ArgTable, leftover []string) error {
	if len(b.entries) == 0 {
		if len(leftover) > 0 {
			return Errorf(ErrorTypeUnexpectedArgument, "unexpected argument %q", leftover[0])
		}
		return nil
	}
	first := b.entries[0].param
	pending := append(append([]string(nil), tbl.List(first)...), leftover...)
	tbl.Clear(first)

	for _, tok := range pending {
		claimed := false
		for _, e := range b.entries {
			if e.matcher.Match(tok) {
				tbl.Append(e.param, tok)
				claimed = true
				break
			}
		}
		if !claimed {
			return Errorf(ErrorTypeUnclassifiedArg, "remaining argument %q not recognized", tok).
				WithContext("argument", tok)
		}
	}
	return nil
}
