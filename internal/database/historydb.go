package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/pagerank/internal/model"
)

// FileName is the name of the SQLite database file inside the data directory.
const FileName = "pagerank.db"

// ErrRunNotFound is returned when no stored run has the requested ID.
var ErrRunNotFound = errors.New("run not found")

// HistoryDB provides SQLite-based storage for rank reports.
type HistoryDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a HistoryDB in the specified directory.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error
// wrapping os.ErrNotExist is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); err != nil {
			return nil, fmt.Errorf("failed to open database at %s: %w", dbPath, err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file, mode=rwc allows it.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

// Path returns the path of the database file.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// createTables creates the database schema if it doesn't exist.
func (hdb *HistoryDB) createTables() error {
	schema := `
	-- One row per saved run; report_json holds both rank sets
	CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		corpus TEXT NOT NULL,
		digest TEXT NOT NULL,
		pages INTEGER NOT NULL,
		damping REAL NOT NULL,
		samples INTEGER NOT NULL,
		seed TEXT NOT NULL,
		passes INTEGER NOT NULL,
		converged INTEGER NOT NULL,
		timestamp TEXT NOT NULL,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_corpus ON runs(corpus);
	CREATE INDEX IF NOT EXISTS idx_runs_digest ON runs(digest);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// SaveRun stores a report and returns its new ID. The ID is also set on
// the report.
func (hdb *HistoryDB) SaveRun(ctx context.Context, report *model.RankReport) (int64, error) {
	if report == nil {
		return 0, errors.New("report is nil")
	}

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("failed to serialize report: %w", err)
	}

	generatedAt := report.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now()
	}

	query := `
	INSERT INTO runs (corpus, digest, pages, damping, samples, seed, passes, converged, timestamp, report_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := hdb.db.ExecContext(ctx, query,
		report.Corpus,
		report.Digest,
		report.Pages,
		report.Parameters.Damping,
		report.Parameters.Samples,
		strconv.FormatUint(report.Parameters.Seed, 10),
		report.Passes,
		report.Converged,
		generatedAt.UTC().Format(time.RFC3339Nano),
		string(reportJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}
	report.ID = id

	return id, nil
}

// ListRuns returns the metadata of stored runs, newest first. An empty
// corpus lists the runs of every corpus.
func (hdb *HistoryDB) ListRuns(ctx context.Context, corpus string) ([]model.RunSummary, error) {
	query := `
	SELECT id, corpus, digest, pages, damping, samples, seed, passes, converged, timestamp
	FROM runs
	WHERE ? = '' OR corpus = ?
	ORDER BY id DESC
	`

	rows, err := hdb.db.QueryContext(ctx, query, corpus, corpus)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := make([]model.RunSummary, 0)
	for rows.Next() {
		var run model.RunSummary
		var seed, timestamp string

		if err := rows.Scan(
			&run.ID,
			&run.Corpus,
			&run.Digest,
			&run.Pages,
			&run.Damping,
			&run.Samples,
			&seed,
			&run.Passes,
			&run.Converged,
			&timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		run.Seed, _ = strconv.ParseUint(seed, 10, 64) //nolint:errcheck // seed is written by SaveRun
		run.GeneratedAt = parseTimestamp(timestamp)
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// GetRun retrieves a stored report by its ID.
// It returns ErrRunNotFound when no run has that ID.
func (hdb *HistoryDB) GetRun(ctx context.Context, id int64) (*model.RankReport, error) {
	query := `SELECT report_json FROM runs WHERE id = ?`

	var reportJSON string
	err := hdb.db.QueryRowContext(ctx, query, id).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: id %d", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	return decodeReport(id, reportJSON)
}

// LatestRun retrieves the most recent report stored for a corpus.
// It returns ErrRunNotFound when the corpus has no stored runs.
func (hdb *HistoryDB) LatestRun(ctx context.Context, corpus string) (*model.RankReport, error) {
	query := `
	SELECT id, report_json FROM runs
	WHERE corpus = ?
	ORDER BY id DESC
	LIMIT 1
	`

	var id int64
	var reportJSON string
	err := hdb.db.QueryRowContext(ctx, query, corpus).Scan(&id, &reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: corpus %s", ErrRunNotFound, corpus)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest run: %w", err)
	}

	return decodeReport(id, reportJSON)
}

// decodeReport parses a stored report and restores its ID.
func decodeReport(id int64, reportJSON string) (*model.RankReport, error) {
	var report model.RankReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	report.ID = id
	return &report, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,          // Written by SaveRun
	time.RFC3339,              // Full RFC3339 format
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
