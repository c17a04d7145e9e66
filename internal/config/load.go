package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// envPrefix is the prefix for all environment variables read by Load.
// For example, server.port maps to CONTACTS_SERVER_PORT.
const envPrefix = "CONTACTS"

// Load reads configuration from environment variables and an optional
// config.yaml in the working directory. Environment variables take
// precedence over values from the config file.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// Optional config file; absence is not an error.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables: CONTACTS_ prefix, dots become underscores,
	// e.g. database.url -> CONTACTS_DATABASE_URL.
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv does not register keys for Unmarshal, so bind each
	// known key explicitly.
	for _, key := range configKeys() {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers default values for settings that have sensible
// defaults. Secrets and connection strings have no defaults on purpose.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("job.worker_count", 2)
	v.SetDefault("job.queue_size", 100)
	v.SetDefault("job.max_attempts", 3)
	v.SetDefault("job.retry_base_delay_ms", 500)
	v.SetDefault("job.max_job_age_minutes", 60)
	v.SetDefault("job.stuck_job_age_minutes", 30)
}

// configKeys lists every configuration key so Load can bind the
// corresponding environment variables.
func configKeys() []string {
	return []string{
		"server.port",
		"server.log_level",
		"database.url",
		"auth.jwt_secret",
		"auth.token_lifetime_minutes",
		"job.worker_count",
		"job.queue_size",
		"job.max_attempts",
		"job.retry_base_delay_ms",
		"job.max_job_age_minutes",
		"job.stuck_job_age_minutes",
	}
}
