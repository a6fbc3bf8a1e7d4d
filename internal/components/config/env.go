package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotenv loads a .env file from the working directory into the process
// environment if one exists, variables that are already set are not overwritten.
func LoadDotenv() {
	err := godotenv.Load()
	if err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env", "err", err)
	}
}

// Secret returns the environment variable `key` if it is set and non-empty,
// otherwise it returns fallback (usually the value read from a config file).
func Secret(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
