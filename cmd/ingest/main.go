package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/willowlytics/cricketstats/internal/app"
	"github.com/willowlytics/cricketstats/internal/config"
	"github.com/willowlytics/cricketstats/internal/platform/logging"
)

// cricketstats-ingest loads cricsheet source files into the store from
// the command line, outside the HTTP API.
//
//	cricketstats-ingest -dir ./data/odis
//	cricketstats-ingest match1.json match2.json deliveries.csv
func main() {
	dir := flag.String("dir", "", "ingest every .json and .csv file in this directory")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() {
		_ = logger.Sync()
	}()

	paths, err := collectPaths(*dir, flag.Args())
	if err != nil {
		logger.Error("collect source files", "error", err)
		os.Exit(2)
	}
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "usage: cricketstats-ingest [-dir DIR] [FILE ...]")
		os.Exit(2)
	}

	repos, closeRepos, err := app.NewRepositories(cfg, logger)
	if err != nil {
		logger.Error("build storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = closeRepos()
	}()

	services := app.NewServices(cfg, repos, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stats, err := services.Coordinator.IngestFiles(ctx, paths)
	if err != nil {
		logger.Error("ingestion failed", "error", err)
		os.Exit(1)
	}

	logger.Info("ingestion finished",
		"matches_ingested", stats.MatchesIngested,
		"matches_skipped", stats.MatchesSkipped,
		"files_skipped", stats.FilesSkipped,
		"teams", stats.Teams,
		"venues", stats.Venues,
		"players", stats.Players,
		"performances", stats.Performances,
		"deliveries_skipped", stats.DeliveriesSkipped,
	)
}

func collectPaths(dir string, args []string) ([]string, error) {
	paths := append([]string(nil), args...)
	if dir == "" {
		return paths, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".json", ".csv":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}

	return paths, nil
}
