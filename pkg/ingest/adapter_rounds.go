package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	"github.com/podiumstats/rostermatch/pkg/identity"
)

func init() {
	Register(&RoundsSource{})
}

// RoundsSource reads the rounds_extracted.csv produced by the cumulative-PDF
// extractor: one row per round, with both teams' codes and member names.
// Delimiter and text encoding are configurable because cumulative exports
// come from assorted tab software.
type RoundsSource struct {
	Delimiter string
	Encoding  string
}

func (s *RoundsSource) ID() string { return "rounds-csv" }

func (s *RoundsSource) Description() string {
	return "rounds_extracted.csv from tournament cumulative sheets"
}

func (s *RoundsSource) Load(_ context.Context, path string) ([]identity.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rounds file: %w", err)
	}
	defer f.Close()

	// Transcode non-UTF-8 encodings before parsing.
	var reader io.Reader = f
	if enc := s.Encoding; enc != "" && !isUTF8(enc) {
		e, err := htmlindex.Get(enc)
		if err != nil {
			return nil, fmt.Errorf("unsupported encoding %q: %w", enc, err)
		}
		reader = transform.NewReader(f, e.NewDecoder())
	}

	r := csv.NewReader(reader)
	if s.Delimiter != "" {
		r.Comma = []rune(s.Delimiter)[0]
	}
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read rounds header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}

	yearIdx, ok := cols["Year"]
	if !ok {
		return nil, fmt.Errorf("rounds file %s: missing Year column", path)
	}
	tournamentIdx, hasTournament := cols["Tournament"]

	var records []identity.Record
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read rounds row: %w", err)
		}

		year := 0
		if yearIdx < len(row) {
			year, _ = strconv.Atoi(strings.TrimSpace(row[yearIdx]))
		}
		tournament := ""
		if hasTournament && tournamentIdx < len(row) {
			tournament = strings.TrimSpace(row[tournamentIdx])
		}

		for _, team := range []string{"Team1", "Team2"} {
			code := field(row, cols, team+"_Code")
			m1 := field(row, cols, team+"_Member1_Name")
			m2 := field(row, cols, team+"_Member2_Name")
			if m1 == "" && m2 == "" {
				continue
			}
			records = append(records,
				identity.Record{
					Raw:        m1,
					Year:       year,
					Tournament: tournament,
					EntryID:    code,
					Partner:    m2,
				},
				identity.Record{
					Raw:        m2,
					Year:       year,
					Tournament: tournament,
					EntryID:    code,
					Partner:    m1,
				},
			)
		}
	}
	return records, nil
}

func field(row []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isUTF8(enc string) bool {
	e := strings.ToLower(strings.ReplaceAll(enc, "-", ""))
	return e == "utf8" || e == ""
}
