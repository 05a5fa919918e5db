package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/teemow/inboxlabeler/internal/config"
	"github.com/teemow/inboxlabeler/internal/labeler"
	"github.com/teemow/inboxlabeler/internal/llm"
	"github.com/teemow/inboxlabeler/internal/logging"
	"github.com/teemow/inboxlabeler/internal/prompt"
)

// loadConfig reads and validates the configuration and resolves the API key.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.ResolveAPIKey(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// oracleConfig maps the oracle section onto the language model client settings.
func oracleConfig(cfg *config.Config) *llm.Config {
	o := cfg.Oracle
	return &llm.Config{
		Provider:          llm.Provider(o.Provider),
		APIKey:            o.APIKey,
		Model:             o.Model,
		Endpoint:          o.Endpoint,
		MaxTokens:         o.MaxTokens,
		Temperature:       o.Temperature,
		Timeout:           o.Timeout,
		RequestsPerSecond: o.RequestsPerSecond,
		SystemInstruction: prompt.SystemInstruction,
	}
}

// labelerConfig maps the run settings onto the batch runner settings.
func labelerConfig(cfg *config.Config) labeler.Config {
	return labeler.Config{
		Account:      cfg.Account,
		LookbackDays: cfg.LookbackDays,
		Budget:       cfg.Budget,
		Scope:        labeler.Scope(cfg.LabelScope),
	}
}

// newOracle creates the language model client for the configuration.
func newOracle(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	client, err := llm.NewClient(ctx, oracleConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.Oracle.Provider, err)
	}
	slog.Debug("oracle configured",
		"provider", client.Provider(),
		"model", client.Model(),
		"api_key", logging.SanitizeToken(cfg.Oracle.APIKey),
	)
	return client, nil
}
