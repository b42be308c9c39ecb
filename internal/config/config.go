package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server Server `mapstructure:"server" validate:"required"`
	Store  Store  `mapstructure:"store"  validate:"required"`
	Jobs   Jobs   `mapstructure:"jobs"   validate:"required"`
	LLM    LLM    `mapstructure:"llm"`
}

// Server contains all HTTP server related configuration settings.
type Server struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// UploadDir is where submitted audio payloads are spooled until a
	// worker consumes them.
	UploadDir string `mapstructure:"upload_dir" validate:"required"`

	// MaxUploadBytes caps the size of a single submission.
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes" validate:"required,gt=0"`
}

// Store configures credential snapshot persistence.
type Store struct {
	// Backend selects where the credential snapshot lives. The file
	// backend matches the original single-node deployment; postgres
	// keeps the same read-all/write-all contract behind a table.
	Backend string `mapstructure:"backend" validate:"required,oneof=file postgres"`

	// CredentialFile is the snapshot path for the file backend.
	CredentialFile string `mapstructure:"credential_file" validate:"required_if=Backend file"`

	// DatabaseURL is the pgx connection string for the postgres backend.
	DatabaseURL string `mapstructure:"database_url" validate:"required_if=Backend postgres"`
}

// Jobs configures the task registry, worker, and retention sweeper.
type Jobs struct {
	// InferenceURL is the speech-recognition collaborator endpoint.
	InferenceURL string `mapstructure:"inference_url" validate:"required,url"`

	// DisposableRetention and FinalRetention are how long terminal job
	// records survive before the sweeper deletes them.
	DisposableRetention time.Duration `mapstructure:"disposable_retention" validate:"required"`
	FinalRetention      time.Duration `mapstructure:"final_retention"      validate:"required"`

	// SweepInterval is the sweeper daemon's wakeup period.
	SweepInterval time.Duration `mapstructure:"sweep_interval" validate:"required"`
}

// LLM contains streaming text-generation settings for transcript summaries.
type LLM struct {
	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	ModelName    string `mapstructure:"model_name"`
}
