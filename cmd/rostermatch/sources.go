package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/podiumstats/rostermatch/pkg/ingest"
)

// cmdSources lists the ingest runs recorded by past resolve batches.
func cmdSources(args []string) {
	fs := flag.NewFlagSet("sources", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	logger := newLogger()
	cfg := loadConfig(*cfgPath, logger)

	sdb, err := ingest.OpenStateDB(cfg.StateDB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open state db: %v\n", err)
		os.Exit(1)
	}
	defer sdb.Close()

	runs, err := sdb.ListRuns()
	if err != nil {
		fmt.Fprintf(os.Stderr, "list runs: %v\n", err)
		os.Exit(1)
	}
	if len(runs) == 0 {
		fmt.Println("No ingest runs recorded. Run `rostermatch resolve` first.")
		fmt.Println()
		fmt.Println("Available sources:")
		for _, s := range ingest.All() {
			fmt.Printf("  %-12s  %s\n", s.ID(), s.Description())
		}
		return
	}

	for _, r := range runs {
		status := r.LastStatus
		if r.LastError != nil {
			status = fmt.Sprintf("%s (%s)", status, *r.LastError)
		}
		fmt.Printf("  %-12s  %-40s  %6d records  %s  %s\n",
			r.SourceID, r.Path, r.RecordCount,
			time.Unix(r.LastRun, 0).Format("2006-01-02 15:04:05"), status)
	}
}
