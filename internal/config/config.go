package config

import "time"

// Backend variant names accepted in backend.name.
const (
	BackendLocal   = "local"
	BackendHostedA = "hosted-a"
	BackendHostedB = "hosted-b"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
// It is resolved once per process and treated as immutable afterwards.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Backend  BackendConfig  `mapstructure:"backend"  validate:"required"`
	Summary  SummaryConfig  `mapstructure:"summary"  validate:"required"`
	Jobs     JobsConfig     `mapstructure:"jobs"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
// Driver selects the database/sql driver: "pgx" for Postgres or "sqlite"
// for a single-node file database.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=pgx sqlite"`
	URL    string `mapstructure:"url"    validate:"required"`
}

// BackendConfig contains the generation backend selection and the
// per-variant settings. Only the block matching Name is consulted.
type BackendConfig struct {
	Name   string       `mapstructure:"name" validate:"required,oneof=local hosted-a hosted-b"`
	Ollama OllamaConfig `mapstructure:"ollama"`
	OpenAI OpenAIConfig `mapstructure:"openai"`
	Gemini GeminiConfig `mapstructure:"gemini"`
}

// OllamaConfig configures the "local" backend variant. It carries the
// full sampling surface the Ollama API exposes.
type OllamaConfig struct {
	URL            string  `mapstructure:"url"             validate:"required"`
	Model          string  `mapstructure:"model"           validate:"required"`
	Temperature    float32 `mapstructure:"temperature"     validate:"gte=0,lte=2"`
	TopP           float32 `mapstructure:"top_p"           validate:"gte=0,lte=1"`
	TopK           int     `mapstructure:"top_k"           validate:"gte=0"`
	NumCtx         int     `mapstructure:"num_ctx"         validate:"gte=0"`
	NumPredict     int     `mapstructure:"num_predict"     validate:"gte=0"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"gt=0"`
}

// OpenAIConfig configures the "hosted-a" backend variant. Only temperature
// and top_p are tunable; the token budget is derived from the request.
type OpenAIConfig struct {
	APIKey         string  `mapstructure:"api_key"`
	BaseURL        string  `mapstructure:"base_url"`
	Model          string  `mapstructure:"model"           validate:"required"`
	Temperature    float32 `mapstructure:"temperature"     validate:"gte=0,lte=2"`
	TopP           float32 `mapstructure:"top_p"           validate:"gte=0,lte=1"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"gt=0"`
}

// GeminiConfig configures the "hosted-b" backend variant. Only temperature
// and top_p are tunable; the token budget is derived from the request.
type GeminiConfig struct {
	APIKey         string  `mapstructure:"api_key"`
	Model          string  `mapstructure:"model"           validate:"required"`
	Temperature    float32 `mapstructure:"temperature"     validate:"gte=0,lte=2"`
	TopP           float32 `mapstructure:"top_p"           validate:"gte=0,lte=1"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"gt=0"`
}

// SummaryConfig contains the orchestrator's retry and timeout policy.
type SummaryConfig struct {
	// MaxRetries is the number of additional attempts after the first
	// backend call fails with a retryable kind.
	MaxRetries int `mapstructure:"max_retries" validate:"gte=0,lte=10"`

	// RetryDelaySeconds is the base delay between attempts.
	RetryDelaySeconds int `mapstructure:"retry_delay_seconds" validate:"gte=0"`

	// CeilingSeconds bounds one whole generation attempt independently of
	// the backend's own timeout.
	CeilingSeconds int `mapstructure:"ceiling_seconds" validate:"gt=0"`
}

// JobsConfig contains the async job lifecycle settings.
type JobsConfig struct {
	// TTLSeconds is how long a job record remains retrievable, in any
	// status, before it becomes evictable.
	TTLSeconds int `mapstructure:"ttl_seconds" validate:"gt=0"`

	// WorkerCount determines how many concurrent workers claim jobs.
	WorkerCount int `mapstructure:"worker_count" validate:"gt=0"`

	// PollIntervalMillis is how long an idle worker sleeps between
	// claim attempts.
	PollIntervalMillis int `mapstructure:"poll_interval_millis" validate:"gt=0"`

	// SweepIntervalSeconds is how often expired jobs are evicted.
	SweepIntervalSeconds int `mapstructure:"sweep_interval_seconds" validate:"gt=0"`

	// RunWorkers embeds the worker pool in the API server process.
	// Disable it when running dedicated cmd/worker processes.
	RunWorkers bool `mapstructure:"run_workers"`
}

// Timeout returns the per-request timeout as a duration.
func (c OllamaConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Timeout returns the per-request timeout as a duration.
func (c OpenAIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Timeout returns the per-request timeout as a duration.
func (c GeminiConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Ceiling returns the orchestrator safety ceiling as a duration.
func (c SummaryConfig) Ceiling() time.Duration {
	return time.Duration(c.CeilingSeconds) * time.Second
}

// RetryDelay returns the base retry delay as a duration.
func (c SummaryConfig) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelaySeconds) * time.Second
}

// TTL returns the job time-to-live as a duration.
func (c JobsConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// PollInterval returns the idle worker poll interval as a duration.
func (c JobsConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMillis) * time.Millisecond
}

// SweepInterval returns the eviction sweep interval as a duration.
func (c JobsConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSeconds) * time.Second
}
