package config

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in one pass.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, v := range e {
		msgs = append(msgs, v.Error())
	}
	return strings.Join(msgs, "\n")
}

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors

	if _, err := strconv.Atoi(cfg.ServerPort); err != nil {
		errs = append(errs, ValidationError{"SERVER_PORT", "must be a number"})
	}

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DBHost == "" || cfg.DBName == "" {
			errs = append(errs, ValidationError{"DB_HOST", "host and database name are required for postgres"})
		}
	case "sqlite":
		if cfg.SQLitePath == "" {
			errs = append(errs, ValidationError{"SQLITE_PATH", "is required for sqlite"})
		}
	default:
		errs = append(errs, ValidationError{"DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver)})
	}

	switch cfg.LLMProvider {
	case "groq", "openai", "gollm":
	default:
		errs = append(errs, ValidationError{"LLM_PROVIDER", fmt.Sprintf("unsupported provider %q", cfg.LLMProvider)})
	}

	if cfg.LLMMaxTokens <= 0 {
		errs = append(errs, ValidationError{"LLM_MAX_TOKENS", "must be positive"})
	}
	if cfg.LLMTemperature < 0 || cfg.LLMTemperature > 2 {
		errs = append(errs, ValidationError{"LLM_TEMPERATURE", "must be between 0 and 2"})
	}

	switch cfg.Environment {
	case Production:
		if cfg.JWTSecret == "" {
			errs = append(errs, ValidationError{"JWT_SECRET", "jwt_secret secret is required"})
		}
		if cfg.DBDriver == "postgres" && cfg.DBPassword == "" {
			errs = append(errs, ValidationError{"DB_PASSWORD", "db_password secret is required"})
		}
		if cfg.LLMAPIKey == "" {
			errs = append(errs, ValidationError{"GROQ_API_KEY", "groq_api_key secret is required"})
		}
	case CI:
		// CI uses environment variables, not Docker secrets
		if cfg.JWTSecret == "" {
			errs = append(errs, ValidationError{"JWT_SECRET", "environment variable is required in CI environment"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
