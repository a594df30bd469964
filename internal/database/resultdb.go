package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/leadsift/peoplescan/internal/model"
)

// ResultDB provides SQLite-based storage for scan results.
// It manages connection pooling and provides methods for saving and
// querying scans and the people extracted from them.
type ResultDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures ResultDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a ResultDB at the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*ResultDB, error) {
	dbPath := filepath.Join(dbDir, "peoplescan.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// modernc.org/sqlite uses mode=rw to prevent creating new files and
	// mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	rdb := &ResultDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := rdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return rdb, nil
}

// Close closes the database connection.
func (rdb *ResultDB) Close() error {
	return rdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (rdb *ResultDB) createTables() error {
	schema := `
	-- Scans store complete scan results as JSON plus summary columns
	CREATE TABLE IF NOT EXISTS scans (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		website TEXT NOT NULL,
		normalized_url TEXT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		pages_scanned INTEGER DEFAULT 0,
		people_examined INTEGER DEFAULT 0,
		decision_makers INTEGER DEFAULT 0,
		error_tags TEXT,
		result_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_scans_website ON scans(website);
	CREATE INDEX IF NOT EXISTS idx_scans_timestamp ON scans(timestamp);

	-- People rows mirror the extracted records for cross-scan queries
	CREATE TABLE IF NOT EXISTS people (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		scan_id INTEGER NOT NULL REFERENCES scans(id) ON DELETE CASCADE,
		name TEXT,
		title TEXT,
		profile_link TEXT,
		email TEXT,
		source_page TEXT,
		score REAL DEFAULT 0,
		rank_reason TEXT,
		decision_maker INTEGER DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_people_scan ON people(scan_id);
	CREATE INDEX IF NOT EXISTS idx_people_name ON people(name);
	CREATE INDEX IF NOT EXISTS idx_people_email ON people(email);
	`

	_, err := rdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveScanResult persists a complete scan result.
// The full result is stored as JSON; extracted people (and which of them
// were selected as decision makers) are additionally stored as rows.
// Returns the new scan's database ID.
func (rdb *ResultDB) SaveScanResult(ctx context.Context, result *model.SiteScanResult) (int64, error) {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize result: %w", err)
	}

	tagsJSON, _ := json.Marshal(result.Errors) //nolint:errcheck,errchkjson // string slice; Marshal won't fail

	tx, err := rdb.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	res, err := tx.ExecContext(ctx, `
	INSERT INTO scans (website, normalized_url, pages_scanned, people_examined, decision_makers, error_tags, result_json)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		result.Website,
		result.NormalizedURL,
		result.Meta.PagesScanned,
		result.Meta.PeopleExamined,
		len(result.DecisionMakers),
		string(tagsJSON),
		string(resultJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert scan: %w", err)
	}

	scanID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get scan id: %w", err)
	}

	selected := make(map[model.IdentityKey]bool, len(result.DecisionMakers))
	for _, p := range result.DecisionMakers {
		selected[p.Key()] = true
	}

	people := result.People
	if len(people) == 0 {
		people = result.DecisionMakers
	}

	for _, p := range people {
		_, err := tx.ExecContext(ctx, `
		INSERT INTO people (scan_id, name, title, profile_link, email, source_page, score, rank_reason, decision_maker)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			scanID,
			p.Name,
			p.Title,
			p.ProfileLink,
			p.Email,
			p.SourcePage,
			p.Score,
			p.RankReason,
			boolToInt(selected[p.Key()]),
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert person: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit scan: %w", err)
	}

	return scanID, nil
}

// GetLatestScanResult retrieves the most recent scan result for a website.
// Returns nil when the website has never been scanned.
func (rdb *ResultDB) GetLatestScanResult(ctx context.Context, website string) (*model.SiteScanResult, error) {
	query := `
	SELECT result_json FROM scans
	WHERE website = ?
	ORDER BY timestamp DESC, id DESC
	LIMIT 1
	`

	var resultJSON string
	err := rdb.db.QueryRowContext(ctx, query, website).Scan(&resultJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scan result: %w", err)
	}

	var result model.SiteScanResult
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to parse result: %w", err)
	}

	return &result, nil
}

// GetScanResultByID retrieves a scan result by its database ID.
func (rdb *ResultDB) GetScanResultByID(ctx context.Context, id int64) (*model.SiteScanResult, error) {
	var resultJSON string
	err := rdb.db.QueryRowContext(ctx, `SELECT result_json FROM scans WHERE id = ?`, id).Scan(&resultJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scan result: %w", err)
	}

	var result model.SiteScanResult
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to parse result: %w", err)
	}

	return &result, nil
}

// ListScannedWebsites returns all websites that have at least one scan.
func (rdb *ResultDB) ListScannedWebsites(ctx context.Context) ([]string, error) {
	rows, err := rdb.db.QueryContext(ctx, `
	SELECT DISTINCT website FROM scans
	ORDER BY website
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list websites: %w", err)
	}
	defer rows.Close()

	var websites []string
	for rows.Next() {
		var website string
		if err := rows.Scan(&website); err != nil {
			return nil, fmt.Errorf("failed to scan website: %w", err)
		}
		websites = append(websites, website)
	}

	return websites, rows.Err()
}

// ScanMetadata contains summary information about a stored scan.
// This is used for displaying scan history without loading full results.
type ScanMetadata struct {
	// ID is the unique identifier of the scan in the database.
	ID int64

	// Website is the scanned input string.
	Website string

	// Timestamp is when the scan was stored.
	Timestamp time.Time

	// PagesScanned is the number of candidate pages attempted during the scan.
	PagesScanned int

	// PeopleExamined is the number of distinct people found.
	PeopleExamined int

	// DecisionMakers is the number of selected decision makers.
	DecisionMakers int

	// ErrorTags lists the degradation tags recorded on the scan.
	ErrorTags []string
}

// GetScanHistory retrieves scan metadata for a website, newest first.
// This is more efficient than loading full results when only summary
// information is needed.
func (rdb *ResultDB) GetScanHistory(ctx context.Context, website string, limit int) ([]ScanMetadata, error) {
	query := `
	SELECT id, website, timestamp, pages_scanned, people_examined, decision_makers, error_tags
	FROM scans
	WHERE website = ?
	ORDER BY timestamp DESC, id DESC
	`
	args := []any{website}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := rdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get scan history: %w", err)
	}
	defer rows.Close()

	var results []ScanMetadata
	for rows.Next() {
		var meta ScanMetadata
		var timestamp string
		var tagsJSON sql.NullString

		if err := rows.Scan(
			&meta.ID,
			&meta.Website,
			&timestamp,
			&meta.PagesScanned,
			&meta.PeopleExamined,
			&meta.DecisionMakers,
			&tagsJSON,
		); err != nil {
			return nil, fmt.Errorf("failed to scan metadata: %w", err)
		}

		meta.Timestamp = parseTimestamp(timestamp)

		if tagsJSON.Valid && tagsJSON.String != "" {
			if err := json.Unmarshal([]byte(tagsJSON.String), &meta.ErrorTags); err != nil {
				meta.ErrorTags = nil
			}
		}

		results = append(results, meta)
	}

	return results, rows.Err()
}

// FindPeopleByEmailDomain returns stored people whose email ends with the
// given domain, across all scans. The domain match is case-insensitive.
func (rdb *ResultDB) FindPeopleByEmailDomain(ctx context.Context, domain string) ([]model.PersonRecord, error) {
	rows, err := rdb.db.QueryContext(ctx, `
	SELECT name, title, profile_link, email, source_page, score, rank_reason
	FROM people
	WHERE email != '' AND LOWER(email) LIKE '%@' || LOWER(?)
	ORDER BY score DESC, id
	`, domain)
	if err != nil {
		return nil, fmt.Errorf("failed to query people: %w", err)
	}
	defer rows.Close()

	var people []model.PersonRecord
	for rows.Next() {
		var p model.PersonRecord
		if err := rows.Scan(&p.Name, &p.Title, &p.ProfileLink, &p.Email, &p.SourcePage, &p.Score, &p.RankReason); err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		people = append(people, p)
	}

	return people, rows.Err()
}

// GetDecisionMakers returns the stored decision makers for a scan.
func (rdb *ResultDB) GetDecisionMakers(ctx context.Context, scanID int64) ([]model.PersonRecord, error) {
	rows, err := rdb.db.QueryContext(ctx, `
	SELECT name, title, profile_link, email, source_page, score, rank_reason
	FROM people
	WHERE scan_id = ? AND decision_maker = 1
	ORDER BY score DESC, id
	`, scanID)
	if err != nil {
		return nil, fmt.Errorf("failed to query decision makers: %w", err)
	}
	defer rows.Close()

	var people []model.PersonRecord
	for rows.Next() {
		var p model.PersonRecord
		if err := rows.Scan(&p.Name, &p.Title, &p.ProfileLink, &p.Email, &p.SourcePage, &p.Score, &p.RankReason); err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		people = append(people, p)
	}

	return people, rows.Err()
}

// boolToInt converts a bool to the 0/1 form SQLite stores.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
