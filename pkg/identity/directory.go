package identity

import (
	"sort"
	"sync"

	"github.com/podiumstats/rostermatch/pkg/rules"
)

// Directory serves lookup queries over a finished Resolution. It is the only
// mutable holder in the package: Replace swaps in a freshly resolved corpus
// (hot reload) while readers keep going.
type Directory struct {
	mu     sync.RWMutex
	rules  *rules.RuleSet
	res    *Resolution
	lookup map[string]int // high-specificity variant value -> cluster index
}

// ClusterInfo is the public view of one resolved identity.
type ClusterInfo struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name"`
	Size        int      `json:"size"`
	RawForms    []string `json:"raw_forms"`
	Years       []int    `json:"years"`
}

// NewDirectory creates an empty directory that normalizes queries with rs.
func NewDirectory(rs *rules.RuleSet) *Directory {
	return &Directory{rules: rs, lookup: map[string]int{}}
}

// Replace installs a resolution and rebuilds the query lookup from every
// member's high-specificity variants. Two clusters can never share such a
// variant (they would have been merged), so the mapping is unambiguous.
func (d *Directory) Replace(res *Resolution) {
	lookup := make(map[string]int)
	for ci, c := range res.Clusters {
		for _, ri := range c.Members {
			for _, v := range Variants(res.Records[ri].Raw, d.rules) {
				if v.Specificity == SpecificityHigh {
					lookup[v.Value] = ci
				}
			}
		}
	}

	d.mu.Lock()
	d.res = res
	d.lookup = lookup
	d.mu.Unlock()
}

// RulesMatch reports whether res was resolved under the same rule document
// this directory normalizes queries with. On a mismatch, lookup keys are
// rebuilt from rules the stored clusters were never resolved under, so
// queries may miss. A resolution with no recorded fingerprint cannot be
// checked and passes.
func (d *Directory) RulesMatch(res *Resolution) bool {
	if res.RulesFingerprint == "" {
		return true
	}
	return res.RulesFingerprint == d.rules.Fingerprint
}

// Lookup resolves a queried name to its cluster. The query runs through the
// same variant generator as the corpus; only high-specificity variants are
// consulted, so an initials-like query never returns a guess.
func (d *Directory) Lookup(name string) (ClusterInfo, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.res == nil {
		return ClusterInfo{}, false
	}
	for _, v := range Variants(name, d.rules) {
		if v.Specificity != SpecificityHigh {
			continue
		}
		if ci, ok := d.lookup[v.Value]; ok {
			return d.info(ci), true
		}
	}
	return ClusterInfo{}, false
}

// ListClusters returns all clusters sorted by display name then ID.
func (d *Directory) ListClusters() []ClusterInfo {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.res == nil {
		return nil
	}
	out := make([]ClusterInfo, len(d.res.Clusters))
	for i := range d.res.Clusters {
		out[i] = d.info(i)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayName != out[j].DisplayName {
			return out[i].DisplayName < out[j].DisplayName
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// ClusterCount returns the number of resolved identities.
func (d *Directory) ClusterCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.res == nil {
		return 0
	}
	return len(d.res.Clusters)
}

// RecordCount returns the number of raw occurrences in the corpus.
func (d *Directory) RecordCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.res == nil {
		return 0
	}
	return len(d.res.Records)
}

func (d *Directory) info(ci int) ClusterInfo {
	c := d.res.Clusters[ci]
	return ClusterInfo{
		ID:          c.ID,
		DisplayName: c.DisplayName,
		Size:        len(c.Members),
		RawForms:    c.RawForms,
		Years:       c.Years,
	}
}
