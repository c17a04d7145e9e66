package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Job      JobConfig      `mapstructure:"job"      validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// JobConfig contains settings for the background job pipeline.
type JobConfig struct {
	// WorkerCount is the number of concurrent job executor workers.
	WorkerCount int `mapstructure:"worker_count" validate:"required,gt=0"`

	// QueueSize is the buffer size of the in-memory job channel.
	QueueSize int `mapstructure:"queue_size" validate:"required,gt=0"`

	// MaxAttempts is the retry ceiling for transient job failures.
	// Permanent failures are never retried regardless of this value.
	MaxAttempts int `mapstructure:"max_attempts" validate:"required,gt=0"`

	// RetryBaseDelayMs is the initial backoff delay between retries,
	// doubled after each failed attempt.
	RetryBaseDelayMs int `mapstructure:"retry_base_delay_ms" validate:"required,gt=0"`

	// MaxJobAgeMinutes is the maximum time a job may spend enqueued before
	// it is considered stale and dead-lettered without execution.
	MaxJobAgeMinutes int `mapstructure:"max_job_age_minutes" validate:"required,gt=0"`

	// StuckJobAgeMinutes defines how long a job can sit in the processing
	// state before it is considered stuck and reset to pending.
	StuckJobAgeMinutes int `mapstructure:"stuck_job_age_minutes" validate:"required,gt=0"`
}
