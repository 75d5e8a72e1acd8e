package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/encoding/charmap"
)

const roundsCSV = `Year,Tournament,Team1_Code,Team1_Member1_Name,Team1_Member2_Name,Team2_Code,Team2_Member1_Name,Team2_Member2_Name
2024,NITOC,AB1,Maria de la Cruz,Bob Tanner,CD2,Alice Banks,Carol Ng
2024,NITOC,EF3,Sean O'Brien,,GH4,Dana Wu,Erik Stone
`

func writeRoundsFile(t *testing.T, content []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rounds_extracted.csv")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRoundsSource_Load(t *testing.T) {
	path := writeRoundsFile(t, []byte(roundsCSV))

	src := &RoundsSource{}
	records, err := src.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	// 2 rows x 2 teams x 2 members.
	if len(records) != 8 {
		t.Fatalf("records = %d, want 8", len(records))
	}

	r := records[0]
	if r.Raw != "Maria de la Cruz" || r.Year != 2024 || r.Tournament != "NITOC" || r.EntryID != "AB1" {
		t.Errorf("record 0 = %+v", r)
	}
	if r.Partner != "Bob Tanner" {
		t.Errorf("record 0 partner = %q", r.Partner)
	}

	// A missing member stays an empty record; the engine treats empty names
	// as singletons rather than dropping the row.
	if records[5].Raw != "" || records[5].Partner != "Sean O'Brien" {
		t.Errorf("record 5 = %+v", records[5])
	}
}

func TestRoundsSource_DelimiterAndEncoding(t *testing.T) {
	latin1 := "Year;Team1_Code;Team1_Member1_Name;Team1_Member2_Name\n2023;XY9;José Muñoz;Ana Vega\n"
	encoded, err := charmap.ISO8859_1.NewEncoder().String(latin1)
	if err != nil {
		t.Fatal(err)
	}
	path := writeRoundsFile(t, []byte(encoded))

	src := &RoundsSource{Delimiter: ";", Encoding: "iso-8859-1"}
	records, err := src.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0].Raw != "José Muñoz" {
		t.Errorf("record 0 raw = %q, want transcoded UTF-8", records[0].Raw)
	}
}

func TestRoundsSource_MissingYearColumn(t *testing.T) {
	path := writeRoundsFile(t, []byte("Team1_Code,Team1_Member1_Name\nAB1,Someone\n"))
	src := &RoundsSource{}
	if _, err := src.Load(context.Background(), path); err == nil {
		t.Error("expected error for missing Year column")
	}
}

func TestRoundsSource_UnknownEncoding(t *testing.T) {
	path := writeRoundsFile(t, []byte(roundsCSV))
	src := &RoundsSource{Encoding: "no-such-charset"}
	if _, err := src.Load(context.Background(), path); err == nil {
		t.Error("expected error for unknown encoding")
	}
}
