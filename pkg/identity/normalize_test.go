package identity

import (
	"strings"
	"testing"

	"github.com/podiumstats/rostermatch/pkg/rules"
)

const testDoc = `
version: "1"
surname_prefixes:
  de la: dela
  van der: vander
  mac: mc
punctuation_replacements:
  "'": ""
  "’": ""
  "-": ""
  ".": ""
unicode_replacements:
  "á": a
  "é": e
  "í": i
  "ó": o
  "ú": u
  "ñ": n
  "ç": c
  "É": E
  "Ñ": N
transformation_settings:
  fold_unicode: true
  strip_punctuation: true
  collapse_prefixes: true
  lowercase: true
  variant_full: true
  variant_compact: true
  variant_initials: true
  variant_case_preserved: true
`

func testRules(t *testing.T) *rules.RuleSet {
	t.Helper()
	rs, err := rules.Parse([]byte(testDoc))
	if err != nil {
		t.Fatalf("parse test rules: %v", err)
	}
	return rs
}

func TestCanonical(t *testing.T) {
	rs := testRules(t)
	tests := []struct {
		input, want string
	}{
		{"Maria de la Cruz", "maria dela cruz"},
		{"Dela Cruz", "dela cruz"},
		{"De La Cruz", "dela cruz"},
		{"DeLaCruz", "delacruz"},
		{"O'Brien", "obrien"},
		{"Van Der Berg", "vander berg"},
		{"Mac Arthur", "mc arthur"},
		{"  Maria   de la   Cruz  ", "maria dela cruz"},
		{"José Ángel", "jose ángel"}, // Á not in the fold map: retained, then lowercased
		{"Muñoz", "munoz"},
		{"Jean-Luc Picard", "jeanluc picard"},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := Canonical(tt.input, rs); got != tt.want {
			t.Errorf("Canonical(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCanonical_Idempotent(t *testing.T) {
	rs := testRules(t)
	inputs := []string{
		"Maria de la Cruz",
		"O'Brien",
		"Van Der Berg",
		"José  Muñoz",
		"Mac Arthur",
		"plain name",
		"",
	}
	for _, in := range inputs {
		once := Canonical(in, rs)
		twice := Canonical(once, rs)
		if once != twice {
			t.Errorf("Canonical(%q): not idempotent, %q -> %q", in, once, twice)
		}
	}
}

func TestCanonical_AllTogglesOff(t *testing.T) {
	rs, err := rules.Parse([]byte(`
surname_prefixes:
  de la: dela
punctuation_replacements:
  "-": ""
unicode_replacements:
  "é": e
transformation_settings: {}
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	tests := []struct {
		input, want string
	}{
		{"  Maria   DE LA Cruz ", "Maria DE LA Cruz"},
		{"O'Brien-Smith", "O'Brien-Smith"},
		{"Élodie", "Élodie"},
	}
	for _, tt := range tests {
		if got := Canonical(tt.input, rs); got != tt.want {
			t.Errorf("Canonical(%q) = %q, want whitespace-only change %q", tt.input, got, tt.want)
		}
	}
}

func TestCanonical_FoldMapCoverage(t *testing.T) {
	rs := testRules(t)
	for char, repl := range rs.UnicodeFolds {
		got := Canonical("X"+char, rs)
		if strings.Contains(got, char) {
			t.Errorf("Canonical(%q): folded char %q survived in %q", "X"+char, char, got)
		}
		if !strings.Contains(got, strings.ToLower(repl)) {
			t.Errorf("Canonical(%q) = %q, want replacement %q present", "X"+char, got, repl)
		}
	}
}

func TestCanonical_PrefixEquivalence(t *testing.T) {
	rs := testRules(t)
	if a, b := Canonical("de la Cruz", rs), Canonical("Dela Cruz", rs); a != b {
		t.Errorf("prefix forms differ: %q vs %q", a, b)
	}
	if a, b := Canonical("Maria de la Cruz", rs), Canonical("maria dela cruz", rs); a != b {
		t.Errorf("prefix forms differ: %q vs %q", a, b)
	}
}

func TestCollapsePrefixes_LongestWins(t *testing.T) {
	rs, err := rules.Parse([]byte(`
surname_prefixes:
  de: d
  de la: dela
transformation_settings:
  collapse_prefixes: true
  lowercase: true
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	// "de la" must win over "de" at the same position.
	if got := Canonical("Ana de la Vega", rs); got != "ana dela vega" {
		t.Errorf("Canonical = %q, want %q", got, "ana dela vega")
	}
	// Bare "de" still collapses when "de la" cannot match.
	if got := Canonical("Ana de Vega", rs); got != "ana d vega" {
		t.Errorf("Canonical = %q, want %q", got, "ana d vega")
	}
}

func TestCollapsePrefixes_NeedsFollowingToken(t *testing.T) {
	rs := testRules(t)
	// A trailing prefix has no surname token to attach to; leave it alone.
	if got := Canonical("Cruz de la", rs); got != "cruz de la" {
		t.Errorf("Canonical = %q, want %q", got, "cruz de la")
	}
}
