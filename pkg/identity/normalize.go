package identity

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/podiumstats/rostermatch/pkg/rules"
)

// Canonical runs a raw name through the full pipeline with the toggles
// enabled in rs. It is pure and total: with every toggle off the result is
// the trimmed, whitespace-collapsed input. Running it on its own output
// yields the same string for a fixed rule set.
//
// Stage order is fixed here, independent of how the rule document happens to
// list its groups: whitespace, unicode folding, punctuation, surname
// prefixes, case.
func Canonical(raw string, rs *rules.RuleSet) string {
	return pipeline(raw, rs, true)
}

// pipeline applies stages 1-4 and, when lower is true, the final lowercase
// stage. The case-preserving path feeds the "case-preserved" variant.
func pipeline(raw string, rs *rules.RuleSet, lower bool) string {
	// NFC first so composed and decomposed spellings of the same accented
	// character hit the same fold-map key. Whitespace collapse is not
	// toggleable: every later stage tokenizes on single spaces.
	s := collapseSpace(norm.NFC.String(raw))
	if s == "" {
		return ""
	}

	if rs.Enabled(rules.ToggleFoldUnicode) {
		// Characters absent from the fold map pass through unchanged.
		s = rs.FoldReplacer().Replace(s)
	}

	if rs.Enabled(rules.TogglePunctuation) {
		s = rs.PunctReplacer().Replace(s)
		// A replacement may map punctuation to a space; re-collapse.
		s = collapseSpace(s)
	}

	if rs.Enabled(rules.TogglePrefixes) {
		s = collapsePrefixes(s, rs.Prefixes())
	}

	if lower && rs.Enabled(rules.ToggleLowercase) {
		s = strings.ToLower(s)
	}
	return s
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// collapsePrefixes rewrites configured surname prefixes ("de la", "van der",
// "mac") to their short forms wherever they appear as a token run followed by
// at least one more token. Matching is case-insensitive and the longest
// configured prefix wins at each position.
func collapsePrefixes(s string, prefixes []rules.PrefixRule) string {
	if len(prefixes) == 0 {
		return s
	}
	tokens := strings.Fields(s)
	out := make([]string, 0, len(tokens))

	for i := 0; i < len(tokens); {
		matched := false
		for _, p := range prefixes {
			n := len(p.Tokens)
			// The prefix must leave a surname token after it.
			if i+n >= len(tokens) {
				continue
			}
			if !tokensEqualFold(tokens[i:i+n], p.Tokens) {
				continue
			}
			out = append(out, p.Short)
			i += n
			matched = true
			break
		}
		if !matched {
			out = append(out, tokens[i])
			i++
		}
	}
	return strings.Join(out, " ")
}

func tokensEqualFold(a, b []string) bool {
	for i := range b {
		if !strings.EqualFold(a[i], b[i]) {
			return false
		}
	}
	return true
}
