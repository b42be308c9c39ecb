package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load configuration from environment variables and optionally a config file.
// Environment variables (VOX_ prefix) take precedence over values from the
// config file, which takes precedence over defaults.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("VOX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// A missing config file is fine; everything has a default or an
	// environment override.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults applies the defaults the original single-node deployment ran
// with: 30-minute retention for disposable jobs, 24 hours for final ones,
// a 10-minute sweep cadence, and a 500 MB upload cap.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 14612)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.upload_dir", "uploads")
	v.SetDefault("server.max_upload_bytes", int64(500*1024*1024))

	v.SetDefault("store.backend", "file")
	v.SetDefault("store.credential_file", "api_keys.json")
	v.SetDefault("store.database_url", "")

	v.SetDefault("jobs.inference_url", "http://localhost:9000")
	v.SetDefault("jobs.disposable_retention", 30*time.Minute)
	v.SetDefault("jobs.final_retention", 24*time.Hour)
	v.SetDefault("jobs.sweep_interval", 10*time.Minute)

	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.model_name", "gemini-2.0-flash")
}
