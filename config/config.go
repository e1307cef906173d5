package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the agent settings
type Config struct {
	MalformedPolicy    string `yaml:"malformed_policy"`
	ResolveWorkers     int    `yaml:"resolve_workers"`
	OutputFormat       string `yaml:"output_format"`
	AnnotateContainers bool   `yaml:"annotate_containers"`
	APIURL             string `yaml:"api_url"`
	APIKey             string `yaml:"api_key"`
}

// Load reads config from the environment, optionally seeded from .env, then
// applies CONFIG_FILE on top when set.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	workers, err := strconv.Atoi(os.Getenv("RESOLVE_WORKERS"))
	if err != nil || workers < 1 {
		workers = 1
	}

	cfg := &Config{
		MalformedPolicy:    getEnv("MALFORMED_POLICY", "skip"),
		ResolveWorkers:     workers,
		OutputFormat:       strings.ToLower(getEnv("OUTPUT_FORMAT", "table")),
		AnnotateContainers: getBool("ANNOTATE_CONTAINERS", true),
		APIURL:             getEnv("API_URL", ""),
		APIKey:             getEnv("API_KEY", ""),
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := LoadFile(path, cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadFile overlays the YAML file at path onto cfg. Keys absent from the
// file keep their current value.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config YAML: %w", err)
	}
	if cfg.ResolveWorkers < 1 {
		cfg.ResolveWorkers = 1
	}
	cfg.OutputFormat = strings.ToLower(cfg.OutputFormat)
	return nil
}

// getEnv ambil env dengan fallback
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}
