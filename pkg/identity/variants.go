package identity

import (
	"strings"

	"github.com/podiumstats/rostermatch/pkg/rules"
)

// Specificity distinguishes variants likely to uniquely identify a person
// from variants likely to collide across different people.
type Specificity int

const (
	// SpecificityLow marks collision-prone variants such as initials.
	SpecificityLow Specificity = iota
	// SpecificityHigh marks variants that carry the whole name.
	SpecificityHigh
)

// Variant tags, one per generated form.
const (
	TagFull          = "full"
	TagCompact       = "compact"
	TagInitials      = "initials"
	TagCasePreserved = "case-preserved"
)

// Variant is one derived matching key for a name.
type Variant struct {
	Value       string
	Tag         string
	Specificity Specificity
}

// Variants derives the matching key set for a raw name: the canonical form
// ("full"), a space-removed form ("compact"), a form that skips the lowercase
// stage ("case-preserved"), and a first-initials form ("initials"). Each kind
// is gated by its toggle and produced at most once; duplicate values keep the
// first, most specific, tag. Empty and whitespace-only names produce no
// variants at all and so can never link to anything.
func Variants(raw string, rs *rules.RuleSet) []Variant {
	canon := Canonical(raw, rs)
	if canon == "" {
		return nil
	}

	out := make([]Variant, 0, 4)
	seen := make(map[string]bool, 4)
	add := func(value, tag string, spec Specificity) {
		if value == "" || seen[value] {
			return
		}
		seen[value] = true
		out = append(out, Variant{Value: value, Tag: tag, Specificity: spec})
	}

	if rs.Enabled(rules.ToggleVariantFull) {
		add(canon, TagFull, SpecificityHigh)
	}
	if rs.Enabled(rules.ToggleVariantCompact) {
		add(strings.ReplaceAll(canon, " ", ""), TagCompact, SpecificityHigh)
	}
	if rs.Enabled(rules.ToggleVariantCasePres) {
		add(pipeline(raw, rs, false), TagCasePreserved, SpecificityHigh)
	}
	if rs.Enabled(rules.ToggleVariantInitials) {
		add(initialsForm(canon), TagInitials, SpecificityLow)
	}
	return out
}

// initialsForm keeps the first rune of every token except the last, plus the
// final token in full: "maria dela cruz" -> "m d cruz". Single-token names
// have no initials form.
func initialsForm(canon string) string {
	tokens := strings.Fields(canon)
	if len(tokens) < 2 {
		return ""
	}
	parts := make([]string, 0, len(tokens))
	for _, tok := range tokens[:len(tokens)-1] {
		r := []rune(tok)
		parts = append(parts, string(r[0]))
	}
	parts = append(parts, tokens[len(tokens)-1])
	return strings.Join(parts, " ")
}
