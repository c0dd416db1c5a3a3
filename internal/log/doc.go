// Package log provides secure logging functionality with automatic sanitization
// of sensitive information, built on top of the standard slog package.
//
// # Security Features
//
// The SecureHandler automatically sanitizes sensitive information in log output:
//   - HTTP headers configured for the audited site (Authorization, Cookie, X-Api-Key)
//   - Secret values detected by pattern matching (bearer tokens, JWTs, keys)
//   - Passwords embedded in URLs, such as proxy URLs with user info
//   - Query parameters named like credentials (?token=..., ?session_id=...)
//
// Even in verbose mode, sensitive values are masked so that crawl logs can be
// shared with the site owner.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, true) // verbose=true
//	logger.Info("fetching page",
//	    "url", "https://example.com/account?token=abc", // token value is redacted
//	    "cookie", "session=abc123",                      // fully masked
//	)
//	slog.SetDefault(logger)
package log
