package identity

import (
	"path/filepath"
	"testing"
)

func TestSnapshotRoundTrip(t *testing.T) {
	rs := testRules(t)
	res := resolveRecords(t, rs, []Record{
		{Raw: "Maria de la Cruz", Year: 2023, Tournament: "regionals"},
		{Raw: "maria dela cruz", Year: 2024},
		{Raw: "Bob Tanner", Year: 2023},
	})

	path := filepath.Join(t.TempDir(), "resolution.gob")
	if err := SaveSnapshot(res, path); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	got, err := LoadSnapshot(path)
	if err != nil {
		t.Fatalf("LoadSnapshot: %v", err)
	}
	if len(got.Records) != len(res.Records) {
		t.Errorf("records = %d, want %d", len(got.Records), len(res.Records))
	}
	if len(got.Clusters) != len(res.Clusters) {
		t.Fatalf("clusters = %d, want %d", len(got.Clusters), len(res.Clusters))
	}
	for i := range res.Clusters {
		if got.Clusters[i].ID != res.Clusters[i].ID {
			t.Errorf("cluster %d ID = %q, want %q", i, got.Clusters[i].ID, res.Clusters[i].ID)
		}
	}
	if got.RulesFingerprint == "" || got.RulesFingerprint != rs.Fingerprint {
		t.Errorf("snapshot fingerprint = %q, want %q", got.RulesFingerprint, rs.Fingerprint)
	}

	// A loaded snapshot must serve lookups like the original resolution.
	d := NewDirectory(rs)
	d.Replace(got)
	if _, ok := d.Lookup("maria dela cruz"); !ok {
		t.Error("lookup failed against reloaded snapshot")
	}
}

func TestLoadSnapshot_Missing(t *testing.T) {
	if _, err := LoadSnapshot(filepath.Join(t.TempDir(), "absent.gob")); err == nil {
		t.Error("expected error for missing snapshot")
	}
}
