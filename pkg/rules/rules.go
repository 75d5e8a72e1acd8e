// Package rules loads the name-normalization rule document: replacement
// groups for surname prefixes, punctuation and accented characters, plus
// boolean settings gating each pipeline stage and variant kind.
package rules

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrConfig marks a structurally invalid rule document. It is the only fatal
// error class: a run aborts before any records are processed.
var ErrConfig = errors.New("invalid rules document")

// Toggle names understood by the pipeline and the variant generator.
// A name absent from transformation_settings defaults to disabled.
const (
	ToggleFoldUnicode     = "fold_unicode"
	TogglePunctuation     = "strip_punctuation"
	TogglePrefixes        = "collapse_prefixes"
	ToggleLowercase       = "lowercase"
	ToggleVariantFull     = "variant_full"
	ToggleVariantCompact  = "variant_compact"
	ToggleVariantInitials = "variant_initials"
	ToggleVariantCasePres = "variant_case_preserved"
)

var knownToggles = []string{
	ToggleFoldUnicode,
	TogglePunctuation,
	TogglePrefixes,
	ToggleLowercase,
	ToggleVariantFull,
	ToggleVariantCompact,
	ToggleVariantInitials,
	ToggleVariantCasePres,
}

// RuleSet is the immutable, precompiled form of a rule document. It is built
// once per run and passed explicitly to every pipeline function.
type RuleSet struct {
	Version string
	// Fingerprint is the hex SHA-256 of the document bytes. Resolution
	// snapshots carry it so a serving process can tell when its rules no
	// longer match the ones the snapshot was resolved under.
	Fingerprint string

	settings map[string]bool

	foldReplacer  *strings.Replacer
	punctReplacer *strings.Replacer
	prefixes      []prefixRule

	// Raw groups kept for introspection and tests.
	SurnamePrefixes map[string]string
	Punctuation     map[string]string
	UnicodeFolds    map[string]string
}

// prefixRule is one surname-prefix collapse, pre-split into lowercase tokens.
type prefixRule struct {
	tokens []string
	short  string
}

// document mirrors the YAML layout. Unknown top-level groups are ignored by
// the decoder; missing groups leave the zero value, which disables the stage.
type document struct {
	Version         string            `yaml:"version"`
	SurnamePrefixes map[string]string `yaml:"surname_prefixes"`
	Punctuation     map[string]string `yaml:"punctuation_replacements"`
	UnicodeFolds    map[string]string `yaml:"unicode_replacements"`
	Settings        map[string]bool   `yaml:"transformation_settings"`
}

// Load reads and compiles a rule document from path.
func Load(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules %s: %w", path, err)
	}
	rs, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("rules %s: %w", path, err)
	}
	return rs, nil
}

// Parse decodes and compiles a rule document. Structural problems (document
// not a mapping, a rule mapping a key to a non-string, a setting mapping to a
// non-boolean) wrap ErrConfig. Empty rule keys are rejected for the same
// reason: a replacement with nothing to match can only be a typo.
func Parse(data []byte) (*RuleSet, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}

	for group, m := range map[string]map[string]string{
		"surname_prefixes":         doc.SurnamePrefixes,
		"punctuation_replacements": doc.Punctuation,
		"unicode_replacements":     doc.UnicodeFolds,
	} {
		for k := range m {
			if strings.TrimSpace(k) == "" {
				return nil, fmt.Errorf("%w: group %s has an empty source key", ErrConfig, group)
			}
		}
	}

	rs := &RuleSet{
		Version:         doc.Version,
		Fingerprint:     fmt.Sprintf("%x", sha256.Sum256(data)),
		settings:        doc.Settings,
		SurnamePrefixes: doc.SurnamePrefixes,
		Punctuation:     doc.Punctuation,
		UnicodeFolds:    doc.UnicodeFolds,
	}
	if rs.settings == nil {
		rs.settings = map[string]bool{}
	}

	rs.foldReplacer = buildReplacer(doc.UnicodeFolds)
	rs.punctReplacer = buildReplacer(doc.Punctuation)
	rs.prefixes = buildPrefixes(doc.SurnamePrefixes)

	for _, name := range knownToggles {
		if _, ok := rs.settings[name]; !ok {
			slog.Warn("toggle missing from transformation_settings, disabled", "toggle", name)
		}
	}

	return rs, nil
}

// Enabled reports whether a named toggle is on. Unknown names are disabled,
// never an error, so older rule documents keep working.
func (rs *RuleSet) Enabled(name string) bool {
	return rs.settings[name]
}

// FoldReplacer returns the compiled unicode fold replacer.
func (rs *RuleSet) FoldReplacer() *strings.Replacer { return rs.foldReplacer }

// PunctReplacer returns the compiled punctuation replacer.
func (rs *RuleSet) PunctReplacer() *strings.Replacer { return rs.punctReplacer }

// Prefixes returns the surname-prefix rules, longest first.
func (rs *RuleSet) Prefixes() []PrefixRule {
	out := make([]PrefixRule, len(rs.prefixes))
	for i, p := range rs.prefixes {
		out[i] = PrefixRule{Tokens: p.tokens, Short: p.short}
	}
	return out
}

// PrefixRule is the public view of one surname-prefix collapse.
type PrefixRule struct {
	Tokens []string
	Short  string
}

// buildReplacer compiles a source→replacement map into a strings.Replacer.
// Pairs are added in sorted key order so compilation is deterministic
// regardless of map iteration.
func buildReplacer(m map[string]string) *strings.Replacer {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, k, m[k])
	}
	return strings.NewReplacer(pairs...)
}

// buildPrefixes splits prefix keys into token sequences and orders them so
// the longest match wins: more tokens first, then longer total text.
func buildPrefixes(m map[string]string) []prefixRule {
	out := make([]prefixRule, 0, len(m))
	for k, v := range m {
		tokens := strings.Fields(strings.ToLower(k))
		if len(tokens) == 0 {
			continue
		}
		out = append(out, prefixRule{tokens: tokens, short: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i].tokens) != len(out[j].tokens) {
			return len(out[i].tokens) > len(out[j].tokens)
		}
		a, b := strings.Join(out[i].tokens, " "), strings.Join(out[j].tokens, " ")
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})
	return out
}
