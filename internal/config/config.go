// Package config reads application settings from the environment.
package config

import (
	"os"
	"path/filepath"
	"strconv"
)

type Config struct {
	DBPath     string
	SharePort  int
	APIKey     string
	Model      string
	AutosaveMS int
}

// Load reads settings from the environment, falling back to defaults. The
// database default lives next to the user's other app data.
func Load() *Config {
	return &Config{
		DBPath:     getEnv("INKNOTE_DB", defaultDBPath()),
		SharePort:  getEnvAsInt("INKNOTE_SHARE_PORT", 8787),
		APIKey:     getEnv("ANTHROPIC_API_KEY", ""),
		Model:      getEnv("INKNOTE_MODEL", ""),
		AutosaveMS: getEnvAsInt("INKNOTE_AUTOSAVE_MS", 800),
	}
}

func defaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "inknote.db"
	}
	return filepath.Join(dir, "inknote", "inknote.db")
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}
