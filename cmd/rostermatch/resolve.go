package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"os"

	"github.com/podiumstats/rostermatch/pkg/identity"
	"github.com/podiumstats/rostermatch/pkg/ingest"
	"github.com/podiumstats/rostermatch/pkg/rules"
)

// cmdResolve runs one full batch: load rules, ingest every scrape file,
// build the matching index, cluster, and write the assignment output plus a
// snapshot for the serving commands. A bad rule document aborts before any
// records are read; nothing partial is ever written.
func cmdResolve(args []string) {
	fs := flag.NewFlagSet("resolve", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	corroborate := fs.Bool("corroborate", false,
		"merge initials-only matches when partner or club agree")
	fs.Parse(args)

	logger := newLogger()
	cfg := loadConfig(*cfgPath, logger)

	rs, err := rules.Load(cfg.Rules)
	if err != nil {
		logger.Error("failed to load rules", "error", err)
		if errors.Is(err, rules.ErrConfig) {
			logger.Error("rule document is structurally invalid, fix it before resolving")
		}
		os.Exit(1)
	}
	logger.Info("rules loaded", "version", rs.Version)

	sdb, err := ingest.OpenStateDB(cfg.StateDB)
	if err != nil {
		logger.Error("failed to open state db", "error", err)
		os.Exit(1)
	}
	defer sdb.Close()

	ctx := context.Background()
	records, err := ingest.LoadCorpus(ctx, cfg.DataDir, sdb, logger)
	if err != nil {
		logger.Error("ingest failed", "error", err)
		os.Exit(1)
	}
	logger.Info("corpus loaded", "records", len(records))

	idx, err := identity.BuildIndex(ctx, records, rs)
	if err != nil {
		logger.Error("index build failed", "error", err)
		os.Exit(1)
	}

	var opts []identity.ResolveOption
	if *corroborate {
		opts = append(opts, identity.WithCorroborator(identity.SharedContext))
	}
	res := identity.Resolve(idx, opts...)
	logger.Info("resolution complete",
		"records", len(res.Records),
		"clusters", len(res.Clusters),
		"variants", idx.BucketCount())

	if err := writeAssignments(res, cfg.Output); err != nil {
		logger.Error("failed to write assignments", "error", err)
		os.Exit(1)
	}
	if err := identity.SaveSnapshot(res, cfg.Snapshot); err != nil {
		logger.Error("failed to write snapshot", "error", err)
		os.Exit(1)
	}
	logger.Info("output written", "assignments", cfg.Output, "snapshot", cfg.Snapshot)
}

// writeAssignments emits the record-to-cluster mapping consumed by the
// year-file assembly step.
func writeAssignments(res *identity.Resolution, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(res.Assignments())
}
