package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load configuration from environment variables.
// Environment variables use the SUMMARY_ prefix with underscores separating
// nested keys (e.g. SUMMARY_SERVER_PORT, SUMMARY_BACKEND_OLLAMA_URL).
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("SUMMARY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers a default for every key so AutomaticEnv picks up
// overrides without explicit BindEnv calls.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("database.driver", "pgx")
	v.SetDefault("database.url", "")

	v.SetDefault("backend.name", BackendLocal)

	v.SetDefault("backend.ollama.url", "http://localhost:11434")
	v.SetDefault("backend.ollama.model", "llama3.2")
	v.SetDefault("backend.ollama.temperature", 0.3)
	v.SetDefault("backend.ollama.top_p", 0.9)
	v.SetDefault("backend.ollama.top_k", 40)
	v.SetDefault("backend.ollama.num_ctx", 4096)
	v.SetDefault("backend.ollama.num_predict", 0)
	v.SetDefault("backend.ollama.timeout_seconds", 60)

	v.SetDefault("backend.openai.api_key", "")
	v.SetDefault("backend.openai.base_url", "")
	v.SetDefault("backend.openai.model", "gpt-4o-mini")
	v.SetDefault("backend.openai.temperature", 0.3)
	v.SetDefault("backend.openai.top_p", 1.0)
	v.SetDefault("backend.openai.timeout_seconds", 60)

	v.SetDefault("backend.gemini.api_key", "")
	v.SetDefault("backend.gemini.model", "gemini-2.0-flash")
	v.SetDefault("backend.gemini.temperature", 0.3)
	v.SetDefault("backend.gemini.top_p", 1.0)
	v.SetDefault("backend.gemini.timeout_seconds", 60)

	v.SetDefault("summary.max_retries", 2)
	v.SetDefault("summary.retry_delay_seconds", 1)
	v.SetDefault("summary.ceiling_seconds", 90)

	v.SetDefault("jobs.ttl_seconds", 3600)
	v.SetDefault("jobs.worker_count", 2)
	v.SetDefault("jobs.poll_interval_millis", 500)
	v.SetDefault("jobs.sweep_interval_seconds", 60)
	v.SetDefault("jobs.run_workers", true)
}
