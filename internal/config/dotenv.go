package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// DefaultEnvFile is the .env file read from the config directory on startup.
func DefaultEnvFile() string {
	return filepath.Join(Dir(), ".env")
}

// LoadEnvFiles loads KEY=VALUE files into the process environment.
// Variables already set are never overwritten. Missing optional files are
// skipped; a missing explicit file is an error.
func LoadEnvFiles(optional []string, explicit string) error {
	for _, path := range optional {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("read env file %s: %w", path, err)
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load env file %s: %w", path, err)
		}
	}
	if explicit != "" {
		if err := godotenv.Load(explicit); err != nil {
			return fmt.Errorf("load env file %s: %w", explicit, err)
		}
	}
	return nil
}
