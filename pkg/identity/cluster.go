package identity

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// clusterNamespace seeds content-derived cluster IDs. Never change it:
// downstream year files reference the UUIDs it produces.
var clusterNamespace = uuid.MustParse("b1f7a9d2-4c63-4a0e-9f5a-2d8e6c1b7e40")

// Cluster is one resolved identity: the set of record occurrences judged to
// denote the same person, with a display name and a stable ID.
type Cluster struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"display_name"`
	Members     []int    `json:"members"`
	RawForms    []string `json:"raw_forms"`
	Years       []int    `json:"years"`
}

// Assignment maps one input record to its resolved cluster. The slice of
// assignments is the engine's externally consumed output.
type Assignment struct {
	Record      int    `json:"record"`
	Raw         string `json:"raw"`
	ClusterID   string `json:"cluster_id"`
	DisplayName string `json:"display_name"`
}

// Resolution is the outcome of one batch run. Immutable once returned.
type Resolution struct {
	Records  []Record  `json:"records"`
	Clusters []Cluster `json:"clusters"`
	// ByRecord holds the cluster index for each record.
	ByRecord []int `json:"by_record"`
	// RulesVersion and RulesFingerprint identify the rule document the
	// batch ran under, so loaders can detect a rules edit since the
	// snapshot was written.
	RulesVersion     string `json:"rules_version"`
	RulesFingerprint string `json:"rules_fingerprint"`
}

// Corroborator reports whether two records carry an independent signal that
// they describe the same person (same recorded partner, same club). It gates
// merges whose only shared variants are low-specificity.
type Corroborator func(a, b Record) bool

// SharedContext corroborates on an equal non-empty recorded partner or an
// equal non-empty club, compared case-insensitively after trimming. Partner
// strings are themselves raw scrapes, so this is a coarse signal; it only
// ever tightens an initials collision, never creates a link on its own.
func SharedContext(a, b Record) bool {
	if p := strings.TrimSpace(a.Partner); p != "" && strings.EqualFold(p, strings.TrimSpace(b.Partner)) {
		return true
	}
	if c := strings.TrimSpace(a.Club); c != "" && strings.EqualFold(c, strings.TrimSpace(b.Club)) {
		return true
	}
	return false
}

// ResolveOption configures a Resolve call.
type ResolveOption func(*resolveConfig)

type resolveConfig struct {
	corroborate Corroborator
}

// WithCorroborator enables merging of records that share only initials-grade
// variants. Without this option such links are ignored.
func WithCorroborator(fn Corroborator) ResolveOption {
	return func(c *resolveConfig) { c.corroborate = fn }
}

// Resolve merges linked records into clusters. Records sharing any
// high-specificity variant merge unconditionally; links where either side
// contributed only an initials variant merge only when the corroborator
// agrees. Records with no variants (empty names) end up as singletons.
//
// Output is deterministic for a given record set regardless of input order:
// buckets are walked in sorted key order, display names break ties by
// earliest year then lexicographically, and cluster IDs hash the sorted
// member occurrence keys.
func Resolve(idx *Index, opts ...ResolveOption) *Resolution {
	var cfg resolveConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	uf := newUnionFind(len(idx.Records))

	values := make([]string, 0, len(idx.buckets))
	for v := range idx.buckets {
		values = append(values, v)
	}
	sort.Strings(values)

	for _, v := range values {
		bucket := idx.buckets[v]
		if len(bucket) < 2 {
			continue
		}

		var high, low []int
		for _, e := range bucket {
			if e.variant.Specificity == SpecificityHigh {
				high = append(high, e.rec)
			} else {
				low = append(low, e.rec)
			}
		}

		for i := 1; i < len(high); i++ {
			uf.union(high[0], high[i])
		}

		if cfg.corroborate == nil || len(low) == 0 {
			continue
		}
		others := append(high, low...)
		for _, a := range low {
			for _, b := range others {
				if a == b || uf.find(a) == uf.find(b) {
					continue
				}
				if cfg.corroborate(idx.Records[a], idx.Records[b]) {
					uf.union(a, b)
				}
			}
		}
	}

	res := assemble(idx.Records, uf)
	if idx.rules != nil {
		res.RulesVersion = idx.rules.Version
		res.RulesFingerprint = idx.rules.Fingerprint
	}
	return res
}

// assemble turns settled union-find components into clusters.
func assemble(records []Record, uf *unionFind) *Resolution {
	members := make(map[int][]int)
	for i := range records {
		root := uf.find(i)
		members[root] = append(members[root], i)
	}

	clusters := make([]Cluster, 0, len(members))
	for _, recs := range members {
		sort.Ints(recs)
		clusters = append(clusters, buildCluster(records, recs))
	}
	sort.Slice(clusters, func(i, j int) bool {
		if clusters[i].DisplayName != clusters[j].DisplayName {
			return clusters[i].DisplayName < clusters[j].DisplayName
		}
		return clusters[i].ID < clusters[j].ID
	})

	byRecord := make([]int, len(records))
	for ci, c := range clusters {
		for _, r := range c.Members {
			byRecord[r] = ci
		}
	}
	return &Resolution{Records: records, Clusters: clusters, ByRecord: byRecord}
}

func buildCluster(records []Record, recs []int) Cluster {
	type tally struct {
		count   int
		minYear int
	}
	counts := make(map[string]*tally)
	yearSet := make(map[int]bool)
	keys := make([]string, 0, len(recs))

	for _, r := range recs {
		rec := records[r]
		t := counts[rec.Raw]
		if t == nil {
			t = &tally{minYear: rec.Year}
			counts[rec.Raw] = t
		}
		t.count++
		if rec.Year < t.minYear {
			t.minYear = rec.Year
		}
		yearSet[rec.Year] = true
		keys = append(keys, rec.Key())
	}

	// Most frequent raw form wins; ties go to the earliest source year, then
	// the lexicographically smaller string.
	var display string
	var best *tally
	for raw, t := range counts {
		switch {
		case best == nil,
			t.count > best.count,
			t.count == best.count && t.minYear < best.minYear,
			t.count == best.count && t.minYear == best.minYear && raw < display:
			display, best = raw, t
		}
	}

	rawForms := make([]string, 0, len(counts))
	for raw := range counts {
		rawForms = append(rawForms, raw)
	}
	sort.Strings(rawForms)

	years := make([]int, 0, len(yearSet))
	for y := range yearSet {
		years = append(years, y)
	}
	sort.Ints(years)

	sort.Strings(keys)
	id := uuid.NewSHA1(clusterNamespace, []byte(strings.Join(keys, "\x00"))).String()

	return Cluster{
		ID:          id,
		DisplayName: display,
		Members:     recs,
		RawForms:    rawForms,
		Years:       years,
	}
}

// Assignments returns the per-record output mapping.
func (r *Resolution) Assignments() []Assignment {
	out := make([]Assignment, len(r.Records))
	for i, rec := range r.Records {
		c := r.Clusters[r.ByRecord[i]]
		out[i] = Assignment{
			Record:      i,
			Raw:         rec.Raw,
			ClusterID:   c.ID,
			DisplayName: c.DisplayName,
		}
	}
	return out
}

// unionFind is a disjoint-set forest with path compression and union by size.
type unionFind struct {
	parent []int
	size   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), size: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
		uf.size[i] = 1
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) {
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	if uf.size[ra] < uf.size[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	uf.size[ra] += uf.size[rb]
}
