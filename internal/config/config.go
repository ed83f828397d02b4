package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	ProjectID        string
	StagingDataset   string
	WarehouseDataset string

	SourceURI       string
	FactBatchSize   int
	LoadConcurrency int
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		ProjectID:        getEnv("GCP_PROJECT", ""),
		StagingDataset:   getEnv("BQ_STAGING_DATASET", "staging"),
		WarehouseDataset: getEnv("BQ_WAREHOUSE_DATASET", "dwh"),

		SourceURI:       getEnv("SOURCE_URI", "data/data.csv"),
		FactBatchSize:   getEnvInt("FACT_BATCH_SIZE", 50000),
		LoadConcurrency: getEnvInt("LOAD_CONCURRENCY", 1),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
