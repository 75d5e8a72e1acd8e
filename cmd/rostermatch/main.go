package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/yaml.v3"

	"github.com/podiumstats/rostermatch/pkg/api"
	"github.com/podiumstats/rostermatch/pkg/identity"
	"github.com/podiumstats/rostermatch/pkg/rules"
)

type config struct {
	Addr     string `yaml:"addr"`
	DataDir  string `yaml:"data_dir"`
	Rules    string `yaml:"rules"`
	Snapshot string `yaml:"snapshot"`
	StateDB  string `yaml:"state_db"`
	Output   string `yaml:"output"`
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "resolve":
		cmdResolve(os.Args[2:])
	case "serve":
		cmdServe(os.Args[2:])
	case "mcp":
		cmdMCP(os.Args[2:])
	case "sources":
		cmdSources(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: rostermatch <command>

Commands:
  resolve   Run the batch identity resolution and write assignments
  serve     Serve the resolved corpus over HTTP
  mcp       Serve the resolved corpus over stdio MCP
  sources   List ingest runs recorded in the state DB
`)
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

func cmdServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	logger := newLogger()
	cfg := loadConfig(*cfgPath, logger)

	dir, err := loadDirectory(cfg, logger)
	if err != nil {
		logger.Error("failed to load resolved corpus", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: api.NewRouter(dir, logger),
	}

	// SIGHUP: reload the snapshot (a fresh resolve run may have replaced it).
	// SIGINT/SIGTERM: graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sighup := make(chan os.Signal, 1)
	signal.Notify(sighup, syscall.SIGHUP)
	go func() {
		for range sighup {
			logger.Info("SIGHUP received, reloading snapshot")
			res, err := identity.LoadSnapshot(cfg.Snapshot)
			if err != nil {
				logger.Error("reload failed", "error", err)
				continue
			}
			if !dir.RulesMatch(res) {
				logger.Warn("snapshot was resolved under different rules, re-run resolve",
					"snapshot_rules_version", res.RulesVersion)
			}
			dir.Replace(res)
			logger.Info("snapshot reloaded", "clusters", dir.ClusterCount(), "records", dir.RecordCount())
		}
	}()

	go func() {
		logger.Info("rostermatch listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	srv.Shutdown(context.Background())
}

// loadDirectory builds a query directory from the configured rules and the
// snapshot written by the last resolve run.
func loadDirectory(cfg config, logger *slog.Logger) (*identity.Directory, error) {
	rs, err := rules.Load(cfg.Rules)
	if err != nil {
		return nil, err
	}
	res, err := identity.LoadSnapshot(cfg.Snapshot)
	if err != nil {
		return nil, err
	}

	dir := identity.NewDirectory(rs)
	if !dir.RulesMatch(res) {
		logger.Warn("snapshot was resolved under different rules, re-run resolve",
			"rules_version", rs.Version, "snapshot_rules_version", res.RulesVersion)
	}
	dir.Replace(res)
	logger.Info("resolved corpus loaded",
		"clusters", dir.ClusterCount(), "records", dir.RecordCount())
	return dir, nil
}

func loadConfig(path string, logger *slog.Logger) config {
	cfg := config{
		Addr:     ":8430",
		DataDir:  "data",
		Rules:    "rules.yaml",
		Snapshot: "data/resolution.gob",
		StateDB:  "data/ingest.db",
		Output:   "data/assignments.json",
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("no config file, using defaults", "path", path)
			return cfg
		}
		logger.Error("read config", "error", err)
		os.Exit(1)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		logger.Error("parse config", "error", err)
		os.Exit(1)
	}
	return cfg
}
