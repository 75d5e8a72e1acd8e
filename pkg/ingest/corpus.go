package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/podiumstats/rostermatch/pkg/identity"
)

// LoadCorpus loads every recognized scrape file under dir into one record
// slice: per-season team files plus, when present, the rounds CSV. Files are
// visited in sorted name order so the corpus order, and with it record
// numbering, is reproducible. Outcomes are written to the state DB when one
// is supplied; any load failure aborts the batch.
func LoadCorpus(ctx context.Context, dir string, sdb *StateDB, logger *slog.Logger) ([]identity.Record, error) {
	if logger == nil {
		logger = slog.Default()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read data dir %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var records []identity.Record
	for _, name := range names {
		var sourceID string
		switch {
		case yearFilePattern.MatchString(name):
			sourceID = "team-files"
		case name == "rounds_extracted.csv":
			sourceID = "rounds-csv"
		default:
			continue
		}

		src, err := Get(sourceID)
		if err != nil {
			return nil, err
		}

		path := filepath.Join(dir, name)
		recs, err := src.Load(ctx, path)
		if sdb != nil {
			if dbErr := sdb.RecordRun(sourceID, path, len(recs), err); dbErr != nil {
				logger.Warn("state db update failed", "source", sourceID, "path", path, "error", dbErr)
			}
		}
		if err != nil {
			return nil, fmt.Errorf("load %s via %s: %w", path, sourceID, err)
		}

		logger.Info("source loaded", "source", sourceID, "file", name, "records", len(recs))
		records = append(records, recs...)
	}
	return records, nil
}
