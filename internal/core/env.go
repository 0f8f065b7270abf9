package core

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Environment returns the HOA_ENV value, dev when unset.
func Environment() string {
	if e := os.Getenv(EnvPrefix + "ENV"); e != "" {
		return e
	}
	return EnvDev
}

// LoadEnvFiles loads .env.<environment> and then .env from dir. Variables
// already present in the process are never overwritten, so the more specific
// file wins over .env. Missing files are skipped.
func LoadEnvFiles(dir, environment string) error {
	files := []string{
		filepath.Join(dir, ".env."+environment),
		filepath.Join(dir, ".env"),
	}
	for _, file := range files {
		if _, err := os.Stat(file); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", file, err)
		}
	}
	return nil
}

// ConfigPath resolves the YAML file to load: CONFIG_PATH when set, then
// config/<environment>.yaml, then config.yaml, all relative to dir.
func ConfigPath(dir, environment string) string {
	// First check if config path is provided via environment variable
	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		return configPath
	}
	perEnv := filepath.Join(dir, "config", environment+".yaml")
	if _, err := os.Stat(perEnv); err == nil {
		return perEnv
	}
	return filepath.Join(dir, "config.yaml")
}
