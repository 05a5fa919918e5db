package google

import gmail "google.golang.org/api/gmail/v1"

// DefaultOAuthScopes are the Google OAuth scopes the labeler requests.
//
// The scopes provide access to:
//   - Gmail: read messages and modify their labels
//   - Gmail labels: create and list user labels
var DefaultOAuthScopes = []string{
	gmail.GmailModifyScope,
	gmail.GmailLabelsScope,
}
