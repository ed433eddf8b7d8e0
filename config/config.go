// Package config provides configuration for the keymaze server and CLI.
package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds server and solver configuration.
type Config struct {
	// Listen is the address to listen on (e.g., ":8080").
	Listen string `yaml:"listen"`
	// CachePath is the SQLite file for solved mazes. Empty disables caching.
	CachePath string `yaml:"cache"`
	// Workers caps parallel floods while building a maze graph.
	Workers int `yaml:"workers"`
	// Agents is the expected number of agents, 0 accepts any.
	Agents int `yaml:"agents"`
	// Timeout bounds channel handoffs between connections and the server loop.
	Timeout time.Duration `yaml:"timeout"`
	// MaxCells rejects grids with more cells than this.
	MaxCells int `yaml:"max_cells"`
	// Debug enables debug logging.
	Debug bool `yaml:"debug"`
	// Version is the server version string.
	Version string `yaml:"version"`
}

// FromEnv creates a Config from environment variables.
func FromEnv() *Config {
	return &Config{
		Listen:    getEnv("KEYMAZE_LISTEN", ":"+getEnv("PORT", "8080")),
		CachePath: getEnv("KEYMAZE_CACHE", ""),
		Workers:   getEnvInt("KEYMAZE_WORKERS", runtime.NumCPU()),
		Agents:    getEnvInt("KEYMAZE_AGENTS", 0),
		Timeout:   getEnvDuration("KEYMAZE_TIMEOUT", 200*time.Millisecond),
		MaxCells:  getEnvInt("KEYMAZE_MAX_CELLS", 1<<20),
		Debug:     getEnvBool("KEYMAZE_DEBUG", false),
		Version:   getEnv("KEYMAZE_VERSION", "0.1.0"),
	}
}

// FromFile reads a YAML file over the environment defaults. Keys missing
// from the file keep their env value.
func FromFile(path string) (*Config, error) {
	cfg := FromEnv()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
