package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

// KeyringService groups the labeler's secrets in the OS keychain.
const KeyringService = "inboxlabeler"

// ResolveAPIKey fills in the oracle API key from the keychain when neither the file nor the
// environment provided one.
func (c *Config) ResolveAPIKey() error {
	if strings.TrimSpace(c.Oracle.APIKey) != "" {
		return nil
	}

	key, err := GetAPIKey(c.Oracle.Provider)
	if err != nil {
		return fmt.Errorf("no API key for provider %s: set %s or run 'inboxlabeler apikey set': %w",
			c.Oracle.Provider, providerKeyEnv(c.Oracle.Provider), err)
	}
	c.Oracle.APIKey = key
	return nil
}

// GetAPIKey reads the stored API key for provider from the keychain.
func GetAPIKey(provider string) (string, error) {
	if strings.TrimSpace(provider) == "" {
		return "", errors.New("provider name is empty")
	}
	key, err := keyring.Get(KeyringService, provider)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(key) == "" {
		return "", errors.New("stored API key is empty")
	}
	return key, nil
}

// SetAPIKey stores the API key for provider in the keychain.
func SetAPIKey(provider, key string) error {
	if strings.TrimSpace(provider) == "" {
		return errors.New("provider name is empty")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("API key is empty")
	}
	return keyring.Set(KeyringService, provider, strings.TrimSpace(key))
}

// DeleteAPIKey removes the stored API key for provider.
func DeleteAPIKey(provider string) error {
	if strings.TrimSpace(provider) == "" {
		return errors.New("provider name is empty")
	}
	return keyring.Delete(KeyringService, provider)
}
