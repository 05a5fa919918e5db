package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

// clearEnv blanks every variable Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"INBOXLABELER_ACCOUNT", "INBOXLABELER_PROVIDER", "INBOXLABELER_MODEL",
		"INBOXLABELER_ENDPOINT", "INBOXLABELER_LABEL_SCOPE", "INBOXLABELER_PUSHGATEWAY_URL",
		"INBOXLABELER_LOOKBACK_DAYS", "INBOXLABELER_BUDGET", "INBOXLABELER_REQUESTS_PER_SECOND",
		"INBOXLABELER_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY",
	} {
		t.Setenv(k, "")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "default", cfg.Account)
	assert.Equal(t, "openai", cfg.Oracle.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.Oracle.Model)
	assert.Equal(t, 50, cfg.Oracle.MaxTokens)
	assert.InDelta(t, 0.1, cfg.Oracle.Temperature, 1e-9)
	assert.Equal(t, 60, cfg.LookbackDays)
	assert.Equal(t, 5*time.Minute, cfg.Budget)
	assert.Equal(t, ScopeMessage, cfg.LabelScope)
	assert.Equal(t, 5, cfg.MaxSearchPages)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)
	content := `
account: work
lookback_days: 7
budget: 90s
label_scope: thread
max_search_pages: 2
oracle:
  provider: gemini
  model: gemini-2.5-flash-lite
  api_key: from-file
  requests_per_second: 2
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "work", cfg.Account)
	assert.Equal(t, 7, cfg.LookbackDays)
	assert.Equal(t, 90*time.Second, cfg.Budget)
	assert.Equal(t, ScopeThread, cfg.LabelScope)
	assert.Equal(t, 2, cfg.MaxSearchPages)
	assert.Equal(t, "gemini", cfg.Oracle.Provider)
	assert.Equal(t, "gemini-2.5-flash-lite", cfg.Oracle.Model)
	assert.Equal(t, "from-file", cfg.Oracle.APIKey)
	assert.InDelta(t, 2.0, cfg.Oracle.RequestsPerSecond, 1e-9)
	// untouched fields keep their defaults
	assert.Equal(t, 50, cfg.Oracle.MaxTokens)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("account: work\noracle:\n  api_key: from-file\n"), 0600))

	t.Setenv("INBOXLABELER_ACCOUNT", "personal")
	t.Setenv("INBOXLABELER_BUDGET", "2m")
	t.Setenv("INBOXLABELER_LOOKBACK_DAYS", "3")
	t.Setenv("OPENAI_API_KEY", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "personal", cfg.Account)
	assert.Equal(t, 2*time.Minute, cfg.Budget)
	assert.Equal(t, 3, cfg.LookbackDays)
	assert.Equal(t, "from-env", cfg.Oracle.APIKey)
}

func TestLoad_ProviderSpecificKey(t *testing.T) {
	clearEnv(t)
	t.Setenv("INBOXLABELER_PROVIDER", "Gemini")
	t.Setenv("GEMINI_API_KEY", "gem-key")
	t.Setenv("OPENAI_API_KEY", "oa-key")

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err, "explicit paths must exist")

	t.Chdir(t.TempDir())
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.Oracle.Provider)
	assert.Equal(t, "gem-key", cfg.Oracle.APIKey)
}

func TestLoad_Errors(t *testing.T) {
	clearEnv(t)

	_, err := Load("/nonexistent/path/config.yaml")
	assert.ErrorContains(t, err, "failed to read config file")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("account: [unclosed"), 0600))
	_, err = Load(path)
	assert.ErrorContains(t, err, "failed to parse config file")

	t.Chdir(t.TempDir())
	t.Setenv("INBOXLABELER_BUDGET", "five minutes")
	_, err = Load("")
	assert.ErrorContains(t, err, "invalid INBOXLABELER_BUDGET")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid defaults", func(*Config) {}, ""},
		{"empty account", func(c *Config) { c.Account = "" }, "Account"},
		{"zero lookback", func(c *Config) { c.LookbackDays = 0 }, "LookbackDays"},
		{"budget too small", func(c *Config) { c.Budget = 10 * time.Millisecond }, "Budget"},
		{"unknown scope", func(c *Config) { c.LabelScope = "folder" }, "LabelScope"},
		{"no search pages", func(c *Config) { c.MaxSearchPages = 0 }, "MaxSearchPages"},
		{"unknown provider", func(c *Config) { c.Oracle.Provider = "claude" }, "Provider"},
		{"missing model", func(c *Config) { c.Oracle.Model = "" }, "Model"},
		{"temperature out of range", func(c *Config) { c.Oracle.Temperature = 3 }, "Temperature"},
		{"bad pushgateway", func(c *Config) { c.PushgatewayURL = "not a url" }, "PushgatewayURL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), "config error:")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestResolveAPIKey(t *testing.T) {
	keyring.MockInit()

	cfg := Default()
	err := cfg.ResolveAPIKey()
	assert.ErrorContains(t, err, "no API key for provider openai")

	require.NoError(t, SetAPIKey("openai", "  sk-stored  "))
	require.NoError(t, cfg.ResolveAPIKey())
	assert.Equal(t, "sk-stored", cfg.Oracle.APIKey)

	// an explicit key is never replaced
	cfg.Oracle.APIKey = "explicit"
	require.NoError(t, cfg.ResolveAPIKey())
	assert.Equal(t, "explicit", cfg.Oracle.APIKey)

	require.NoError(t, DeleteAPIKey("openai"))
	_, err = GetAPIKey("openai")
	assert.Error(t, err)
}

func TestSetAPIKey_Validation(t *testing.T) {
	keyring.MockInit()

	assert.Error(t, SetAPIKey("", "key"))
	assert.Error(t, SetAPIKey("openai", " "))
	_, err := GetAPIKey("")
	assert.Error(t, err)
	assert.Error(t, DeleteAPIKey(""))
}
