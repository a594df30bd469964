package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// The network defaults mimic a desktop browser because many company sites
// serve reduced or blocked content to obvious bot user agents.
const (
	// DefaultUserAgent is sent with every request. It matches a common
	// desktop Chrome build so team pages render their full markup.
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 12_6) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0 Safari/537.36"

	// DefaultTimeout is the read timeout for each HTTP request.
	// Company sites behind slow CMS stacks can take several seconds to
	// render a team page, so this is generous.
	DefaultTimeout = 18 * time.Second

	// DefaultMaxPages is the maximum number of candidate pages to scan
	// per site. This prevents runaway scanning on sites with huge
	// navigation menus. Users can override this via the --max-pages flag.
	DefaultMaxPages = 25

	// DefaultDecisionLimit is the maximum number of decision makers
	// selected per site.
	DefaultDecisionLimit = 5

	// DefaultBatchSize of 4 concurrent site scans balances throughput
	// with politeness. Pages within one site are always fetched
	// sequentially regardless of this value.
	DefaultBatchSize = 4

	// DefaultRequestInterval is the minimum delay between requests to
	// the same host. This is a politeness setting to avoid tripping
	// rate limits on small company sites.
	DefaultRequestInterval = 350 * time.Millisecond

	// DefaultMaxPageBytes limits the HTML read per page. Pages larger
	// than this are truncated to prevent memory exhaustion.
	DefaultMaxPageBytes = 1_800_000

	// DefaultMaxScriptBytes limits the bytes read per external script
	// when looking for embedded people data.
	DefaultMaxScriptBytes = 1_500_000

	// AppName is the application name used for XDG directory paths.
	AppName = "peoplescan"
)

// Config holds all configuration options for PeopleScan.
// This struct is populated from CLI flags and passed through the
// application via dependency injection rather than global state.
type Config struct {
	// Targets is the list of websites to scan.
	// Must contain at least one entry after CLI parsing.
	Targets []string

	// Timeout is the read timeout for each HTTP request.
	Timeout time.Duration

	// MaxPages is the maximum number of candidate pages to scan per site.
	// A value of 0 means use the default (DefaultMaxPages).
	MaxPages int

	// DecisionLimit is the maximum number of decision makers selected
	// per site. A value of 0 means use the default.
	DecisionLimit int

	// BatchSize is the number of concurrent site scans when processing
	// multiple targets.
	BatchSize int

	// RequestInterval is the minimum delay between requests to the same host.
	RequestInterval time.Duration

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// MaxPageBytes is the maximum HTML size in bytes to read per page.
	// Set to 0 to use the default.
	MaxPageBytes int64

	// IncludeAllPeople keeps the full extracted people list in reports
	// instead of only the selected decision makers.
	IncludeAllPeople bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// JSONReport enables JSON report output instead of human-readable format.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of
	// human-readable format. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	// Directories are created automatically if they don't exist.
	ReportFile string

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .peoplescan in the current
	// directory and then in the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds site-specific configurations loaded from the
	// config file. Populated by LoadConfigFile and used during scanning.
	SiteConfigs *File

	// DBDir is the directory path for storing the SQLite database.
	// When set, scan results are saved for historical comparison.
	// Defaults to the XDG data directory.
	DBDir string

	// SaveToDB indicates whether to save scan results to the database.
	SaveToDB bool

	// CacheDir is the directory for the persistent script resource cache.
	// When empty, fetched resources are only cached in memory.
	CacheDir string
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults that work for most use
// cases. Users can override specific values after creation.
func NewConfig() *Config {
	return &Config{
		Timeout:         DefaultTimeout,
		MaxPages:        DefaultMaxPages,
		DecisionLimit:   DefaultDecisionLimit,
		BatchSize:       DefaultBatchSize,
		RequestInterval: DefaultRequestInterval,
		UserAgent:       DefaultUserAgent,
		MaxPageBytes:    DefaultMaxPageBytes,
	}
}

// XDGDataDir returns the XDG data directory for PeopleScan.
// On Linux: ~/.local/share/peoplescan
// On macOS: ~/Library/Application Support/peoplescan
// On Windows: %LOCALAPPDATA%\peoplescan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for PeopleScan.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// XDGCacheDir returns the XDG cache directory for PeopleScan.
func XDGCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
// Validation happens once after CLI parsing, before any scanning begins,
// and returns the first error found.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.MaxPages <= 0 {
		return ErrInvalidMaxPages
	}

	if c.DecisionLimit <= 0 {
		return ErrInvalidDecisionLimit
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.RequestInterval < 0 {
		return ErrInvalidRequestInterval
	}

	if c.MaxPageBytes < 0 {
		return ErrInvalidMaxPageBytes
	}

	return nil
}
