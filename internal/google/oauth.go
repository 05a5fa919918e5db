package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"runtime"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	// appDirName is the directory under the user cache dir holding tokens.
	appDirName = "inboxlabeler"

	// authState is the opaque state value sent with the authorization request.
	authState = "inboxlabeler"

	// defaultRedirectURL is the loopback redirect for installed-app clients. The
	// operator copies the code parameter from the browser address bar.
	defaultRedirectURL = "http://localhost"
)

// Environment variables holding the OAuth client registration.
const (
	EnvClientID        = "GOOGLE_CLIENT_ID"
	EnvClientSecret    = "GOOGLE_CLIENT_SECRET"
	EnvCredentialsFile = "GOOGLE_CREDENTIALS_FILE"
)

var accountNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ErrNoCredentials is returned when no OAuth client registration is configured.
var ErrNoCredentials = errors.New("no Google OAuth client configured")

// validateAccountName ensures an account name is safe to use in a file name.
func validateAccountName(account string) error {
	if account == "" {
		return fmt.Errorf("account name cannot be empty")
	}
	if !accountNamePattern.MatchString(account) {
		return fmt.Errorf("invalid account name %q: only letters, digits, hyphens and underscores are allowed", account)
	}
	return nil
}

// getTokenFilePath returns the token file path for an account.
func getTokenFilePath(account string) string {
	return filepath.Join(userCacheDir(), appDirName, "google-"+account+".token")
}

// HasTokenForAccount checks if a token file exists for the specified account
func HasTokenForAccount(account string) bool {
	if err := validateAccountName(account); err != nil {
		return false
	}
	_, err := os.Stat(getTokenFilePath(account))
	return err == nil
}

// GetAuthURL returns the OAuth URL for user authorization
func GetAuthURL() (string, error) {
	conf, err := getOAuthConfig()
	if err != nil {
		return "", err
	}
	return conf.AuthCodeURL(authState, oauth2.AccessTypeOffline, oauth2.ApprovalForce), nil
}

// SaveToken exchanges an authorization code for tokens and saves them for the account
func SaveToken(ctx context.Context, account, authCode string) error {
	if err := validateAccountName(account); err != nil {
		return err
	}

	conf, err := getOAuthConfig()
	if err != nil {
		return err
	}

	t, err := conf.Exchange(ctx, authCode)
	if err != nil {
		return fmt.Errorf("failed to exchange auth code: %w", err)
	}

	return writeToken(account, t)
}

// writeToken persists a token with owner-only permissions.
func writeToken(account string, t *oauth2.Token) error {
	tokenFile := getTokenFilePath(account)
	if err := os.MkdirAll(filepath.Dir(tokenFile), 0700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}
	if err := os.WriteFile(tokenFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// readToken loads the stored token for an account.
func readToken(account string) (*oauth2.Token, error) {
	data, err := os.ReadFile(getTokenFilePath(account))
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s", account)
	}

	var t oauth2.Token
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("invalid token format: %w", err)
	}
	if t.RefreshToken == "" && t.AccessToken == "" {
		return nil, fmt.Errorf("invalid token format: token is empty")
	}
	return &t, nil
}

// getOAuthConfig returns the OAuth2 configuration for the Gmail scopes.
func getOAuthConfig() (*oauth2.Config, error) {
	if path := os.Getenv(EnvCredentialsFile); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read credentials file: %w", err)
		}
		conf, err := google.ConfigFromJSON(data, DefaultOAuthScopes...)
		if err != nil {
			return nil, fmt.Errorf("failed to parse credentials file: %w", err)
		}
		if conf.RedirectURL == "" {
			conf.RedirectURL = defaultRedirectURL
		}
		return conf, nil
	}

	clientID := os.Getenv(EnvClientID)
	clientSecret := os.Getenv(EnvClientSecret)
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("%w: set %s and %s, or %s", ErrNoCredentials, EnvClientID, EnvClientSecret, EnvCredentialsFile)
	}

	return &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  defaultRedirectURL,
		Scopes:       DefaultOAuthScopes,
	}, nil
}

// GetTokenSourceForAccount returns an OAuth2 token source for the stored token of an account
func GetTokenSourceForAccount(ctx context.Context, account string) (oauth2.TokenSource, error) {
	if err := validateAccountName(account); err != nil {
		return nil, err
	}

	t, err := readToken(account)
	if err != nil {
		return nil, err
	}

	conf, err := getOAuthConfig()
	if err != nil {
		return nil, err
	}

	ts := conf.TokenSource(ctx, t)

	// Validate the token
	fresh, err := ts.Token()
	if err != nil {
		slog.Warn("cached token invalid", "account", account, "error", err)
		return nil, fmt.Errorf("cached token is invalid: %w", err)
	}
	if fresh.AccessToken != t.AccessToken {
		if err := writeToken(account, fresh); err != nil {
			slog.Warn("failed to persist refreshed token", "account", account, "error", err)
		}
	}

	return ts, nil
}

// GetHTTPClientForAccount returns an HTTP client configured with OAuth2 authentication
// The client is configured to use HTTP/1.1 to avoid HTTP/2 protocol errors
func GetHTTPClientForAccount(ctx context.Context, account string) (*http.Client, error) {
	ts, err := GetTokenSourceForAccount(ctx, account)
	if err != nil {
		return nil, err
	}

	client := oauth2.NewClient(ctx, ts)

	// Force HTTP/1.1 by disabling HTTP/2
	if transport, ok := client.Transport.(*oauth2.Transport); ok {
		transport.Base = &http.Transport{
			Proxy:             http.ProxyFromEnvironment,
			ForceAttemptHTTP2: false,
		}
	}

	return client, nil
}

// GetAuthenticationErrorMessage returns the operator-facing hint for a missing token.
func GetAuthenticationErrorMessage(account string) string {
	return fmt.Sprintf("Google OAuth token not found for account %q. Run 'inboxlabeler auth --account %s' to authorize Gmail access.", account, account)
}

func userCacheDir() string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir(), "Library", "Caches")
	case "windows":
		for _, ev := range []string{"TEMP", "TMP"} {
			if v := os.Getenv(ev); v != "" {
				return v
			}
		}
		panic("No Windows TEMP or TMP environment variables found")
	}
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return xdg
	}
	return filepath.Join(homeDir(), ".cache")
}

func homeDir() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("HOMEDRIVE") + os.Getenv("HOMEPATH")
	}
	return os.Getenv("HOME")
}
