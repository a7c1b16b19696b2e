package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const localDBPath = ".archmerge/archmerge.db"

// Config represents the application configuration
type Config struct {
	DBPath         string `yaml:"db_path"`
	LogLevel       string `yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat      string `yaml:"log_format" validate:"oneof=console json"`
	Output         string `yaml:"output" validate:"oneof=table json yaml tsv"`
	SourceProperty string `yaml:"source_property"`
	Jobs           int    `yaml:"jobs" validate:"min=0"`
}

// Load loads configuration from multiple sources with precedence:
// 1. Environment variables
// 2. ./.env.local (dotenv) - walks up parent directories to find it
// 3. ~/.config/archmerge/config.yaml (YAML)
func Load() (*Config, error) {
	cfg := &Config{
		LogLevel:       "info",
		LogFormat:      "console",
		Output:         "table",
		SourceProperty: "workspace-name",
	}

	// Load .env.local if it exists (walking up parent directories)
	if envPath := findEnvLocal(); envPath != "" {
		_ = godotenv.Load(envPath)
	}

	if err := loadYAMLConfig(cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Override with environment variables
	if dbPath := getEnvOrFile("ARCHMERGE_DB_PATH", "ARCHMERGE_DB_PATH_FILE"); dbPath != "" {
		cfg.DBPath = dbPath
	}
	if logLevel := os.Getenv("ARCHMERGE_LOG_LEVEL"); logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if logFormat := os.Getenv("ARCHMERGE_LOG_FORMAT"); logFormat != "" {
		cfg.LogFormat = logFormat
	}
	if output := os.Getenv("ARCHMERGE_OUTPUT"); output != "" {
		cfg.Output = output
	}
	if prop, ok := os.LookupEnv("ARCHMERGE_SOURCE_PROPERTY"); ok {
		// Set but empty disables the stamp
		cfg.SourceProperty = prop
	}
	if jobs := os.Getenv("ARCHMERGE_JOBS"); jobs != "" {
		n, err := strconv.Atoi(jobs)
		if err != nil {
			return nil, fmt.Errorf("invalid ARCHMERGE_JOBS %q: %w", jobs, err)
		}
		cfg.Jobs = n
	}

	if cfg.DBPath == "" {
		// Check for project-local database first
		if _, err := os.Stat(localDBPath); err == nil {
			cfg.DBPath = localDBPath
		} else {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("failed to get home directory: %w", err)
			}
			cfg.DBPath = filepath.Join(homeDir, ".local", "share", "archmerge", "archmerge.db")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the enumerated settings
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s (got %q)", fe.Field(), fe.Param(), fe.Value()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// loadYAMLConfig loads configuration from ~/.config/archmerge/config.yaml
func loadYAMLConfig(cfg *Config) error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(homeDir, ".config", "archmerge", "config.yaml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

// getEnvOrFile gets an environment variable value, or reads it from a file
// if the _FILE variant is set
func getEnvOrFile(envVar, fileVar string) string {
	if val := os.Getenv(envVar); val != "" {
		return val
	}

	if filePath := os.Getenv(fileVar); filePath != "" {
		data, err := os.ReadFile(filePath)
		if err == nil {
			return strings.TrimSpace(string(data))
		}
	}

	return ""
}

// findEnvLocal searches for .env.local starting from cwd and walking up
// parent directories. Stops at the user's home directory.
// Returns the path to .env.local if found, empty string otherwise.
func findEnvLocal() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		if _, err := os.Stat(".env.local"); err == nil {
			return ".env.local"
		}
		return ""
	}

	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	homeDir = filepath.Clean(homeDir)
	dir := filepath.Clean(cwd)

	for {
		envPath := filepath.Join(dir, ".env.local")
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}

		if dir == homeDir {
			break
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
