package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	// HTTP / WebSocket API
	Host string
	Port int

	// Dataset source: "csv" or "sqlite"
	DataBackend  string
	PlayersCSV   string
	CentroidsCSV string
	DatasetDB    string
	IdentityPath string

	// Type-ahead flood control (queries per second per WS client)
	WSQueryRate  float64
	WSQueryBurst int

	// Telemetry
	LogLevel string
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Host: envStr("ROLEDASH_HOST", "0.0.0.0"),
		Port: envInt("ROLEDASH_PORT", 8742),

		DataBackend:  envStr("DATA_BACKEND", "csv"),
		PlayersCSV:   envStr("PLAYERS_CSV", "data/players_with_role_clusters.csv"),
		CentroidsCSV: envStr("CENTROIDS_CSV", "data/cluster_centroids.csv"),
		DatasetDB:    envStr("DATASET_DB", "data/roles.db"),
		IdentityPath: envStr("CLUSTER_IDENTITY_PATH", "internal/config/clusters.yaml"),

		// A human types a handful of characters per second; anything past
		// this on a single connection is a runaway client.
		WSQueryRate:  envFloat("WS_QUERY_RATE", 10),
		WSQueryBurst: envInt("WS_QUERY_BURST", 20),

		LogLevel: envStr("LOG_LEVEL", "info"),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
