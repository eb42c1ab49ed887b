package main

import (
	"fmt"
	"os"

	"github.com/dclough/roledash/internal/api"
	"github.com/dclough/roledash/internal/config"
	"github.com/dclough/roledash/internal/ingest"
	"github.com/dclough/roledash/internal/roles"
	"github.com/dclough/roledash/internal/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.Init(telemetry.ParseLogLevel(cfg.LogLevel))
	telemetry.Infof("Starting role dashboard backend")

	src, err := datasetSource(cfg)
	if err != nil {
		telemetry.Errorf("Bad dataset config: %v", err)
		os.Exit(1)
	}

	ids, err := config.LoadIdentities(cfg.IdentityPath)
	if err != nil {
		telemetry.Errorf("Failed to load cluster identities: %v", err)
		os.Exit(1)
	}

	snap, err := ingest.LoadSnapshot(src)
	if err != nil {
		telemetry.Errorf("Failed to load dataset: %v", err)
		os.Exit(1)
	}

	engine := roles.NewEngine(snap, ids)
	server := api.NewServer(engine, ids, func() (*roles.Snapshot, error) {
		return ingest.LoadSnapshot(src)
	}, cfg.WSQueryRate, cfg.WSQueryBurst)

	if err := server.ListenAndServe(cfg.Host, cfg.Port); err != nil {
		telemetry.Errorf("api server: %v", err)
		os.Exit(1)
	}
}

func datasetSource(cfg *config.Config) (ingest.Source, error) {
	switch cfg.DataBackend {
	case "csv":
		return ingest.CSVSource{PlayersPath: cfg.PlayersCSV, CentroidsPath: cfg.CentroidsCSV}, nil
	case "sqlite":
		return ingest.SQLiteSource{Path: cfg.DatasetDB}, nil
	default:
		return nil, fmt.Errorf("unknown DATA_BACKEND %q (use csv or sqlite)", cfg.DataBackend)
	}
}
