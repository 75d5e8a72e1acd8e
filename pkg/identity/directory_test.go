package identity

import (
	"testing"

	"github.com/podiumstats/rostermatch/pkg/rules"
)

func testDirectory(t *testing.T) *Directory {
	t.Helper()
	rs := testRules(t)
	res := resolveRecords(t, rs, []Record{
		{Raw: "Maria de la Cruz", Year: 2023},
		{Raw: "maria dela cruz", Year: 2024},
		{Raw: "Alice Banks", Year: 2023},
		{Raw: "Amanda Banks", Year: 2023},
	})
	d := NewDirectory(rs)
	d.Replace(res)
	return d
}

func TestDirectoryLookup(t *testing.T) {
	d := testDirectory(t)

	tests := []struct {
		query string
		found bool
	}{
		{"Maria de la Cruz", true},
		{"MARIA DELA CRUZ", true},
		{"mariadelacruz", true},
		{"De La Cruz, Maria", false}, // reordered tokens are a different key
		{"Alice Banks", true},
		{"Nobody Here", false},
		{"", false},
	}
	for _, tt := range tests {
		info, ok := d.Lookup(tt.query)
		if ok != tt.found {
			t.Errorf("Lookup(%q) found = %v, want %v", tt.query, ok, tt.found)
			continue
		}
		if ok && info.Size == 0 {
			t.Errorf("Lookup(%q) returned empty cluster info", tt.query)
		}
	}
}

func TestDirectoryLookup_VariantSpellingsAgree(t *testing.T) {
	d := testDirectory(t)
	a, ok := d.Lookup("Maria de la Cruz")
	if !ok {
		t.Fatal("lookup failed")
	}
	b, ok := d.Lookup("maria dela cruz")
	if !ok {
		t.Fatal("lookup failed")
	}
	if a.ID != b.ID {
		t.Errorf("spellings resolved to different clusters: %q vs %q", a.ID, b.ID)
	}
	if a.Size != 2 {
		t.Errorf("cluster size = %d, want 2", a.Size)
	}
}

func TestDirectoryListClusters(t *testing.T) {
	d := testDirectory(t)
	clusters := d.ListClusters()
	if len(clusters) != 3 {
		t.Fatalf("ListClusters = %d, want 3", len(clusters))
	}
	for i := 1; i < len(clusters); i++ {
		if clusters[i-1].DisplayName > clusters[i].DisplayName {
			t.Errorf("clusters not sorted: %q before %q",
				clusters[i-1].DisplayName, clusters[i].DisplayName)
		}
	}
}

// A resolution carries the fingerprint of the rules it ran under; a
// directory built from an edited rule document must flag the mismatch,
// since its lookup keys would come from rules the clusters never saw.
func TestDirectoryRulesMatch(t *testing.T) {
	rs := testRules(t)
	res := resolveRecords(t, rs, []Record{
		{Raw: "Maria de la Cruz", Year: 2023},
		{Raw: "Bob Tanner", Year: 2023},
	})
	if res.RulesFingerprint != rs.Fingerprint {
		t.Fatalf("resolution fingerprint = %q, want %q", res.RulesFingerprint, rs.Fingerprint)
	}

	if !NewDirectory(rs).RulesMatch(res) {
		t.Error("same rules reported as mismatch")
	}

	edited, err := rules.Parse([]byte(testDoc + "\n# edited\n"))
	if err != nil {
		t.Fatalf("parse edited rules: %v", err)
	}
	if NewDirectory(edited).RulesMatch(res) {
		t.Error("edited rules reported as match")
	}

	// Snapshots written before fingerprints existed cannot be checked.
	old := &Resolution{}
	if !NewDirectory(edited).RulesMatch(old) {
		t.Error("unfingerprinted resolution reported as mismatch")
	}
}

func TestDirectoryCounts(t *testing.T) {
	d := testDirectory(t)
	if d.ClusterCount() != 3 {
		t.Errorf("ClusterCount = %d, want 3", d.ClusterCount())
	}
	if d.RecordCount() != 4 {
		t.Errorf("RecordCount = %d, want 4", d.RecordCount())
	}

	empty := NewDirectory(testRules(t))
	if empty.ClusterCount() != 0 || empty.RecordCount() != 0 {
		t.Error("empty directory reported nonzero counts")
	}
	if _, ok := empty.Lookup("anyone"); ok {
		t.Error("empty directory resolved a lookup")
	}
}
