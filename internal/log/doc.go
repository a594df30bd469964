// Package log provides secure logging functionality with automatic
// redaction of sensitive information, built on top of the standard slog
// package.
//
// This package extends slog to provide:
//   - Automatic redaction of credentials (cookies, tokens, secrets)
//   - Masking of personal email addresses appearing in log values
//   - Stripping of userinfo credentials embedded in URLs
//   - Configurable log levels with verbose mode support
//
// # Privacy Features
//
// The scanner extracts personal data (names, emails, profile links) as
// its core function, so log output is an easy place to leak that data
// into files that outlive the scan. The RedactHandler masks the local
// part of any email address in string attributes and removes embedded
// credentials from URLs. Even in verbose mode, masked values stay masked.
//
// # Usage
//
//	// Create a redacting logger
//	logger := log.NewRedactLogger(os.Stderr, true) // verbose=true
//
//	// Use as a standard slog.Logger
//	logger.Info("record extracted",
//	    "email", "jane.doe@example.com", // logged as "***@example.com"
//	    "page", "https://example.com/team",
//	)
//
//	// Set as default logger
//	slog.SetDefault(logger)
package log
