// Package config loads the labeler configuration from defaults, an optional YAML file, the
// environment and the OS keychain.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file read when no path is given and the file exists.
const DefaultPath = "inboxlabeler.yaml"

// Label scopes.
const (
	ScopeThread  = "thread"
	ScopeMessage = "message"
)

// Config is the complete runtime configuration, constructed once and passed explicitly.
type Config struct {
	// Account selects the cached Google OAuth token.
	Account string `yaml:"account" validate:"required,max=64"`

	Oracle OracleConfig `yaml:"oracle"`

	// LookbackDays limits the search to messages newer than now minus this many days.
	LookbackDays int `yaml:"lookback_days" validate:"min=1,max=3650"`

	// Budget is the wall-clock limit after which a run stops starting new work.
	Budget time.Duration `yaml:"budget" validate:"min=1s"`

	// LabelScope is "message" to classify and label each message, or "thread" to label
	// a whole thread from its newest unlabeled message.
	LabelScope string `yaml:"label_scope" validate:"oneof=thread message"`

	// MaxSearchPages caps the search result pages (100 threads each) fetched per run.
	MaxSearchPages int `yaml:"max_search_pages" validate:"min=1,max=100"`

	// PushgatewayURL, when set, receives the run metrics at the end of each run.
	PushgatewayURL string `yaml:"pushgateway_url" validate:"omitempty,url"`
}

// OracleConfig configures the classification oracle.
type OracleConfig struct {
	Provider          string        `yaml:"provider" validate:"oneof=openai gemini"`
	APIKey            string        `yaml:"api_key"`
	Model             string        `yaml:"model" validate:"required"`
	Endpoint          string        `yaml:"endpoint" validate:"omitempty,url"`
	MaxTokens         int           `yaml:"max_tokens" validate:"min=1,max=4096"`
	Temperature       float64       `yaml:"temperature" validate:"min=0,max=2"`
	Timeout           time.Duration `yaml:"timeout" validate:"min=0"`
	RequestsPerSecond float64       `yaml:"requests_per_second" validate:"min=0"`
}

// Default returns the configuration matching the labeler's built-in constants.
func Default() *Config {
	return &Config{
		Account: "default",
		Oracle: OracleConfig{
			Provider:    "openai",
			Model:       "gpt-4o-mini",
			Endpoint:    "https://api.openai.com/v1/chat/completions",
			MaxTokens:   50,
			Temperature: 0.1,
			Timeout:     30 * time.Second,
		},
		LookbackDays:   60,
		Budget:         5 * time.Minute,
		LabelScope:     ScopeMessage,
		MaxSearchPages: 5,
	}
}

// Load builds the configuration. path may be empty, in which case DefaultPath is used if it
// exists. Environment variables override file values.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		// no config file; defaults and environment only
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := overrideFromEnv(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func overrideFromEnv(cfg *Config) error {
	if v := os.Getenv("INBOXLABELER_ACCOUNT"); v != "" {
		cfg.Account = v
	}
	if v := os.Getenv("INBOXLABELER_PROVIDER"); v != "" {
		cfg.Oracle.Provider = strings.ToLower(v)
	}
	if v := os.Getenv("INBOXLABELER_MODEL"); v != "" {
		cfg.Oracle.Model = v
	}
	if v := os.Getenv("INBOXLABELER_ENDPOINT"); v != "" {
		cfg.Oracle.Endpoint = v
	}
	if v := os.Getenv("INBOXLABELER_LABEL_SCOPE"); v != "" {
		cfg.LabelScope = strings.ToLower(v)
	}
	if v := os.Getenv("INBOXLABELER_PUSHGATEWAY_URL"); v != "" {
		cfg.PushgatewayURL = v
	}

	if v := os.Getenv("INBOXLABELER_LOOKBACK_DAYS"); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid INBOXLABELER_LOOKBACK_DAYS %q: %w", v, err)
		}
		cfg.LookbackDays = days
	}
	if v := os.Getenv("INBOXLABELER_BUDGET"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid INBOXLABELER_BUDGET %q: %w", v, err)
		}
		cfg.Budget = d
	}
	if v := os.Getenv("INBOXLABELER_REQUESTS_PER_SECOND"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid INBOXLABELER_REQUESTS_PER_SECOND %q: %w", v, err)
		}
		cfg.Oracle.RequestsPerSecond = rps
	}

	if v := os.Getenv("INBOXLABELER_API_KEY"); v != "" {
		cfg.Oracle.APIKey = v
	} else if v := os.Getenv(providerKeyEnv(cfg.Oracle.Provider)); v != "" {
		cfg.Oracle.APIKey = v
	}

	return nil
}

func providerKeyEnv(provider string) string {
	if provider == "gemini" {
		return "GEMINI_API_KEY"
	}
	return "OPENAI_API_KEY"
}

var validate = validator.New()

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("'%s' failed '%s' (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("config error: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("config error: %w", err)
	}
	return nil
}
