// Package identity resolves differently-spelled debater names scraped across
// tournaments and seasons into canonical identities. A rule-driven pipeline
// normalizes each raw name, a bounded variant generator derives its matching
// keys, and a union-find over shared keys merges co-referent occurrences into
// clusters, with a specificity guard against false merges through initials.
package identity

import "fmt"

// Record is one observed raw name with its provenance. Records are created
// once per scraped occurrence and never mutated; many records may describe
// the same real person.
type Record struct {
	Raw        string `json:"raw"`
	Year       int    `json:"year"`
	Tournament string `json:"tournament,omitempty"`
	EntryID    string `json:"entry_id,omitempty"`

	// Partner and Club are corroboration signals for low-specificity links.
	Partner string `json:"partner,omitempty"`
	Club    string `json:"club,omitempty"`
}

// Key returns a stable occurrence key for the record, used to derive
// order-independent cluster IDs.
func (r Record) Key() string {
	return fmt.Sprintf("%d|%s|%s|%s", r.Year, r.Tournament, r.EntryID, r.Raw)
}
