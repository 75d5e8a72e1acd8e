package main

import (
	"flag"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/podiumstats/rostermatch/pkg/api"
)

// cmdMCP serves the resolved corpus to MCP clients over stdio.
func cmdMCP(args []string) {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	cfgPath := fs.String("config", "config.yaml", "path to config file")
	fs.Parse(args)

	logger := newLogger()
	cfg := loadConfig(*cfgPath, logger)

	dir, err := loadDirectory(cfg, logger)
	if err != nil {
		logger.Error("failed to load resolved corpus", "error", err)
		os.Exit(1)
	}

	srv := server.NewMCPServer("rostermatch", "1.0.0")
	api.RegisterMCPTools(srv, dir)

	logger.Info("mcp server ready on stdio")
	if err := server.ServeStdio(srv); err != nil {
		logger.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
