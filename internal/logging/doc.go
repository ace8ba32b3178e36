// Package logging provides structured logging for feedform.
//
// This package wraps a global zap logger with convenience functions used
// throughout the tool. Because feedform is primarily an interactive TUI,
// logging is silent unless explicitly enabled: set FEEDFORM_LOG_LEVEL to
// "debug", "info", "warn" or "error" to get console output on stderr.
//
// # Structured Logging
//
// All log functions use structured fields:
//
//	logging.Info("feed updated",
//	    zap.String("feed_id", feed.ID),
//	    zap.Int("injections", len(feed.ArticleInjections)),
//	)
//
// # API Request Logging
//
// The client layer logs each request outcome through a single helper:
//
//	logging.LogRequest(http.MethodPatch, url, resp.StatusCode, err)
//
// # Configuration
//
// Initialize logging once at command startup:
//
//	if err := logging.InitializeFromEnv(); err != nil {
//	    return err
//	}
//	defer logging.Sync()
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap
// logger handles synchronization automatically.
package logging
