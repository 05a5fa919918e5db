// Package gmail adapts the Gmail API to the mailbox operations the labeler needs.
//
// The client covers four concerns:
//   - Thread search with Gmail query syntax (in:inbox, after:, -label:)
//   - Fetching the messages of a thread and projecting them into mail.Message values
//   - Label lookup and creation by display name
//   - Applying a label to a whole thread or to a single message
//
// Authentication uses the per-account OAuth token cached by the google package.
// Every API call takes a context, is traced as google.gmail.<operation> and is
// counted in the google_api_operations_total metric when a recorder is attached.
//
// Example usage:
//
//	client, err := gmail.NewClientForAccount(ctx, "default")
//	if err != nil {
//	    return err
//	}
//
//	ids, err := client.Search(ctx, `in:inbox after:2024-01-01 -label:"[LBot]: Applied"`)
//	if err != nil {
//	    return err
//	}
//	for _, id := range ids {
//	    msgs, err := client.ThreadMessages(ctx, id)
//	    ...
//	}
package gmail
