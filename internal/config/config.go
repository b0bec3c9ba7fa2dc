package config

import (
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	// SocketPath is the Unix domain socket the collaboration daemon listens on
	SocketPath string `yaml:"socket_path"`

	// DatabasePath is the SQLite board database location
	DatabasePath string `yaml:"database_path"`

	// MetricsAddr is the address of the Prometheus metrics listener;
	// empty disables metrics
	MetricsAddr string `yaml:"metrics_addr"`

	// ConflictTTLSeconds is how long an unresolved conflict case is kept
	// before it is considered abandoned
	ConflictTTLSeconds int `yaml:"conflict_ttl_seconds"`

	// EventFlushMS is the event client's socket flush interval
	EventFlushMS int `yaml:"event_flush_ms"`
}

// Load loads config from the user's config directory
// Returns default config if file doesn't exist
func Load() (*Config, error) {
	configPath, err := getConfigPath()
	if err != nil {
		// Return default config if we can't determine config path
		config := defaultConfig()
		applyEnvOverrides(config)
		return config, nil
	}

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config := defaultConfig()
		applyEnvOverrides(config)
		return config, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	// Parse YAML
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	// Fill in any missing values with defaults
	config.applyDefaults()
	applyEnvOverrides(&config)

	return &config, nil
}

// Save saves the config to the user's config directory
func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	// Create config directory if it doesn't exist
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return err
	}

	// Marshal to YAML
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	// Write to file
	return os.WriteFile(configPath, data, 0o644)
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	// Try XDG_CONFIG_HOME first
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "tablero", "config.yaml"), nil
	}

	// Fall back to ~/.config
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".config", "tablero", "config.yaml"), nil
}

func defaultConfig() *Config {
	config := &Config{}
	config.applyDefaults()
	return config
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	if c.SocketPath == "" {
		c.SocketPath = filepath.Join(home, ".tablero", "tablero.sock")
	}
	if c.DatabasePath == "" {
		c.DatabasePath = filepath.Join(home, ".tablero", "board.db")
	}
	if c.ConflictTTLSeconds <= 0 {
		c.ConflictTTLSeconds = 600
	}
	if c.EventFlushMS <= 0 {
		c.EventFlushMS = 50
	}
}

// applyEnvOverrides lets the environment win over file values, which keeps
// systemd units and test harnesses free of config files
func applyEnvOverrides(c *Config) {
	if v := os.Getenv("TABLERO_SOCKET"); v != "" {
		c.SocketPath = v
	}
	if v := os.Getenv("TABLERO_DB"); v != "" {
		c.DatabasePath = v
	}
	if v := os.Getenv("TABLERO_METRICS_ADDR"); v != "" {
		c.MetricsAddr = v
	}
	if v := os.Getenv("TABLERO_CONFLICT_TTL_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.ConflictTTLSeconds = parsed
		}
	}
}
