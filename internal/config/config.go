package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Provider names understood by the server.
const (
	ProviderOpenAI = "openai"
	ProviderEcho   = "echo"
)

type Config struct {
	Address         string        `mapstructure:"address"`
	OpenAIAPIKey    string        `mapstructure:"openai_api_key"`
	OpenAIBaseURL   string        `mapstructure:"openai_base_url"`
	AllowedOrigin   string        `mapstructure:"allowed_origin"`
	Provider        string        `mapstructure:"provider"`
	Model           string        `mapstructure:"model"`
	Stream          bool          `mapstructure:"stream"`
	ModelsPath      string        `mapstructure:"models_path"`
	TelemetryURL    string        `mapstructure:"telemetry_url"`
	BannedTerms     []string      `mapstructure:"banned_terms"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

var defaults = map[string]any{
	"address":          "0.0.0.0:8000",
	"openai_api_key":   "",
	"openai_base_url":  "",
	"allowed_origin":   "",
	"provider":         ProviderOpenAI,
	"model":            "gpt-4o-mini",
	"stream":           true,
	"models_path":      "",
	"telemetry_url":    "",
	"banned_terms":     []string{},
	"request_timeout":  "0s",
	"shutdown_timeout": "5s",
}

// Load reads configuration from an optional file, a .env file in the working
// directory, and the environment. An empty path searches ./config.yaml and
// ./config/config.yaml.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// RELAY_ADDRESS, RELAY_MODEL, ...; credentials keep their conventional names.
	v.SetEnvPrefix("RELAY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("openai_api_key", "OPENAI_API_KEY")
	_ = v.BindEnv("openai_base_url", "OPENAI_BASE_URL")
	_ = v.BindEnv("allowed_origin", "ALLOWED_ORIGIN")

	if err := v.ReadInConfig(); err != nil {
		// don't fail if config file is missing, allow env-only config
		var nf viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &nf) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	if c.Address == "" {
		return errors.New("config: address is required")
	}
	if c.Model == "" {
		return errors.New("config: model is required")
	}
	switch c.Provider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return errors.New("config: OPENAI_API_KEY is required for the openai provider")
		}
	case ProviderEcho:
	default:
		return fmt.Errorf("config: unknown provider %q", c.Provider)
	}
	if c.RequestTimeout < 0 || c.ShutdownTimeout < 0 {
		return errors.New("config: timeouts must not be negative")
	}
	return nil
}
