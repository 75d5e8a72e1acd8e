package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/podiumstats/rostermatch/pkg/identity"
)

func init() {
	Register(&teamsSource{})
}

// yearFilePattern matches the per-season files the scraper writes,
// e.g. debate_teams_2024.json.
var yearFilePattern = regexp.MustCompile(`^debate_teams_(\d{4})\.json$`)

// teamsSource reads a per-season team file. Every team entry yields one
// record per debater, carrying the teammate and club as corroboration
// signals for the clustering step.
type teamsSource struct{}

// teamEntry mirrors the slice of the scraper's JSON this engine needs.
// Unknown fields (records, ranks, tournament history) are ignored. The
// scraper writes the profile entry number under team_id; entry_id is kept
// for files produced by older scrape runs.
type teamEntry struct {
	TeamID   json.Number `json:"team_id"`
	EntryID  json.Number `json:"entry_id"`
	Year     string      `json:"year"`
	Debater1 debater     `json:"debater1"`
	Debater2 debater     `json:"debater2"`
}

type debater struct {
	Name       string `json:"name"`
	DebateClub string `json:"debate_club"`
}

func (s *teamsSource) ID() string { return "team-files" }

func (s *teamsSource) Description() string {
	return "per-season debate_teams_YYYY.json files from the profile scraper"
}

func (s *teamsSource) Load(_ context.Context, path string) ([]identity.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read team file: %w", err)
	}

	var teams []teamEntry
	if err := json.Unmarshal(data, &teams); err != nil {
		return nil, fmt.Errorf("parse team file %s: %w", path, err)
	}

	fileYear := yearFromFilename(path)

	records := make([]identity.Record, 0, 2*len(teams))
	for _, team := range teams {
		year := fileYear
		if y, err := strconv.Atoi(team.Year); err == nil {
			year = y
		}
		entryID := team.TeamID.String()
		if entryID == "" {
			entryID = team.EntryID.String()
		}

		records = append(records,
			identity.Record{
				Raw:     team.Debater1.Name,
				Year:    year,
				EntryID: entryID,
				Partner: team.Debater2.Name,
				Club:    team.Debater1.DebateClub,
			},
			identity.Record{
				Raw:     team.Debater2.Name,
				Year:    year,
				EntryID: entryID,
				Partner: team.Debater1.Name,
				Club:    team.Debater2.DebateClub,
			},
		)
	}
	return records, nil
}

func yearFromFilename(path string) int {
	m := yearFilePattern.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return 0
	}
	y, _ := strconv.Atoi(m[1])
	return y
}
