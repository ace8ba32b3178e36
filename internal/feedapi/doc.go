// Package feedapi provides a thin HTTP client for the feedd REST API.
//
// The client covers the handful of resources feedform touches: reading a
// feed (to seed the injections form), PATCHing a feed with a partial update
// (the form's submit path), and PATCHing the current user's preferences.
//
// # Response Envelope
//
// Every mutation response is wrapped in a "result" field carrying the full
// updated resource:
//
//	{"result": {"id": "f-12", "title": "...", "articleInjections": [...]}}
//
// The client validates the decoded result against the expected schema; a
// missing envelope or blank identity fails the call with a schema error,
// which callers treat exactly like a transport error.
//
// # Errors
//
// All failures are *APIError values with a Type (network, auth, HTTP,
// schema, ...) and a Retryable flag. ShortMessage converts any error into a
// one-line notification string for the TUI.
//
// # Retries
//
// Retryable failures (timeouts, refused connections, 5xx) are retried with
// exponential backoff up to MaxRetries. The injections form sets MaxRetries
// to 0: a failed submit is reported once and the user decides whether to
// resubmit.
package feedapi
