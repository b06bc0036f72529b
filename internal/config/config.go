// Package config defines the application configuration and its loader.
// Configuration is read from environment variables (prefix PITCH_) with
// an optional config.yaml, and validated before use.
package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Provider ProviderConfig `mapstructure:"provider"`
	Poll     PollConfig     `mapstructure:"poll"`
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

// AuthConfig contains the settings for validating bearer tokens issued by
// the external identity service.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
}

// ProviderConfig contains the settings for the external generation
// provider. WebhookURL points at the hosted workflow that performs the
// generation and later calls back; when it is empty the server falls back
// to the built-in OpenAI provider, which requires OpenAIAPIKey.
type ProviderConfig struct {
	WebhookURL      string `mapstructure:"webhook_url"       validate:"omitempty,url"`
	AuthToken       string `mapstructure:"auth_token"        validate:"-"`
	CallbackBaseURL string `mapstructure:"callback_base_url" validate:"required,url"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds"   validate:"required,gt=0,lte=300"`
	OpenAIAPIKey    string `mapstructure:"openai_api_key"    validate:"-"`
	OpenAIModel     string `mapstructure:"openai_model"      validate:"-"`
}

// Timeout returns the dispatch deadline as a duration.
func (c ProviderConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// PollConfig bounds the pull completion path: how often the result is
// re-read and how many attempts are made before surfacing a timeout.
type PollConfig struct {
	IntervalSeconds int `mapstructure:"interval_seconds" validate:"required,gt=0,lte=60"`
	MaxAttempts     int `mapstructure:"max_attempts"     validate:"required,gt=0,lte=1000"`
}

// Interval returns the poll delay as a duration.
func (c PollConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}
