package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration. Callers can
// use errors.Is() for programmatic handling.
var (
	// ErrNoTarget is returned when no website or input file is specified.
	ErrNoTarget = errors.New("no target specified: provide a website or use --input-file")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	// A timeout of zero or negative would cause immediate request failures.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxPages is returned when the page limit is not positive.
	// At least the site root must be scannable.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be positive")

	// ErrInvalidDecisionLimit is returned when the decision maker limit
	// is not positive.
	ErrInvalidDecisionLimit = errors.New("invalid decision limit: must be positive")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	// A batch size of zero would mean no concurrent scans, effectively
	// stopping the scanning process.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrInvalidRequestInterval is returned when the request interval is
	// negative. Use 0 for no delay between requests.
	ErrInvalidRequestInterval = errors.New("invalid request interval: must be non-negative")

	// ErrInvalidMaxPageBytes is returned when the max page size is negative.
	// Use 0 to use the default limit.
	ErrInvalidMaxPageBytes = errors.New("invalid max page bytes: must be non-negative")
)
