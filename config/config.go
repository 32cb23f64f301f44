package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Load loads the configuration from file. Settings can also come from the
// environment with a DIFYBRIDGE_ prefix (e.g. DIFYBRIDGE_DIFY_PASSWORD).
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	v.SetEnvPrefix("difybridge")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")

		// Check current directory first
		v.AddConfigPath(".")

		// Check home directory
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".difybridge"))
		}

		// Check /etc
		v.AddConfigPath("/etc/difybridge/")
	}

	// Read config file; a missing file is fine when the environment
	// provides the required settings.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Validate configuration
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Dify defaults
	v.SetDefault("dify.url", "http://localhost:5001")
	v.SetDefault("dify.timeout_seconds", 30)

	// Registered so DIFYBRIDGE_DIFY_EMAIL / _PASSWORD are picked up from
	// the environment without a config file.
	v.SetDefault("dify.email", "")
	v.SetDefault("dify.password", "")

	// Server defaults
	v.SetDefault("server.listen_addr", ":5000")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.color", true)
}

// validate checks if the configuration is valid
func validate(cfg *Config) error {
	if cfg.Dify.URL == "" {
		return fmt.Errorf("dify.url is required")
	}

	if cfg.Dify.TimeoutSeconds <= 0 {
		return fmt.Errorf("dify.timeout_seconds must be positive")
	}

	// Credentials are paired: either both or neither
	if (cfg.Dify.Email == "") != (cfg.Dify.Password == "") {
		return fmt.Errorf("dify.email and dify.password must be set together")
	}

	if cfg.Server.ListenAddr == "" {
		return fmt.Errorf("server.listen_addr is required")
	}

	// Validate logging level
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[cfg.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s", cfg.Logging.Level)
	}

	// Validate logging format
	validFormats := map[string]bool{
		"console": true,
		"json":    true,
	}
	if !validFormats[cfg.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s", cfg.Logging.Format)
	}

	return nil
}
