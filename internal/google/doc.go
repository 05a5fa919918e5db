// Package google provides OAuth2 authentication and token management for Google APIs.
//
// Tokens are stored per account under the user cache directory
// (for example ~/.cache/inboxlabeler/google-<account>.token) and refreshed
// transparently by the returned HTTP client. The OAuth client ID and secret come
// from GOOGLE_CLIENT_ID / GOOGLE_CLIENT_SECRET or from a downloaded client
// credentials file named by GOOGLE_CREDENTIALS_FILE.
package google
