/*
Package sqlite persists uploaded statements and reconciliation runs.

PURPOSE:
  Two tables back the service:

  statements: Normalized statements as uploaded, including the optional
              opening/closing balance scalars and how many source rows the
              normalizer dropped.
  runs:       One row per reconciliation run. Each run stores its full
              configuration and report as JSON and is keyed by the
              deterministic input fingerprint, which makes the table double
              as a result cache: an identical statement + configuration pair
              hits the stored report instead of recomputing.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging): multiple readers don't
  block, single writer at a time, better crash recovery.

CONCURRENCY:
  A sync.RWMutex serializes writers. With a server-grade database the
  database's own concurrency control would take over; the SQL here is
  dialect-portable.

USAGE:
  store, err := sqlite.New("./data/arrears.db")   // ":memory:" for tests
  defer store.Close()
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/crestline/arrears/recon"
)

// =============================================================================
// RECORDS
// =============================================================================

// StatementRecord is a stored normalized statement.
type StatementRecord struct {
	ID          string
	Name        string
	Statement   recon.Statement
	RowsDropped int
	UploadedAt  time.Time
}

// RunRecord is a stored reconciliation run.
type RunRecord struct {
	ID          string
	StatementID string
	Fingerprint string
	Config      recon.Config
	Report      recon.Report
	CreatedAt   time.Time
}

// ErrNotFound is returned by Get* methods when no row matches.
var ErrNotFound = sql.ErrNoRows

// =============================================================================
// STORE
// =============================================================================

// Store persists statements and runs in SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (and migrates) a SQLite store at the given path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS statements (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		transactions_json TEXT NOT NULL,
		opening_balance TEXT,
		closing_balance TEXT,
		rows_dropped INTEGER NOT NULL DEFAULT 0,
		uploaded_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		statement_id TEXT NOT NULL REFERENCES statements(id),
		fingerprint TEXT NOT NULL UNIQUE,
		config_json TEXT NOT NULL,
		report_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_statement ON runs(statement_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// STATEMENTS
// =============================================================================

// SaveStatement stores a normalized statement.
func (s *Store) SaveStatement(ctx context.Context, rec StatementRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	txJSON, err := json.Marshal(rec.Statement.Transactions)
	if err != nil {
		return fmt.Errorf("failed to encode transactions: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO statements (id, name, transactions_json, opening_balance, closing_balance, rows_dropped, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.Name,
		string(txJSON),
		decimalString(rec.Statement.OpeningBalance),
		decimalString(rec.Statement.ClosingBalance),
		rec.RowsDropped,
		rec.UploadedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save statement: %w", err)
	}
	return nil
}

// GetStatement loads one statement by id. Returns ErrNotFound when absent.
func (s *Store) GetStatement(ctx context.Context, id string) (*StatementRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, transactions_json, opening_balance, closing_balance, rows_dropped, uploaded_at
		FROM statements WHERE id = ?`, id)
	return scanStatement(row)
}

// ListStatements returns all statements, newest first.
func (s *Store) ListStatements(ctx context.Context) ([]StatementRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, transactions_json, opening_balance, closing_balance, rows_dropped, uploaded_at
		FROM statements ORDER BY uploaded_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list statements: %w", err)
	}
	defer rows.Close()

	var records []StatementRecord
	for rows.Next() {
		rec, err := scanStatement(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// =============================================================================
// RUNS
// =============================================================================

// SaveRun stores a reconciliation run. A fingerprint collision means an
// identical run already exists; callers should check GetRunByFingerprint
// first and reuse the stored row.
func (s *Store) SaveRun(ctx context.Context, rec RunRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	configJSON, err := json.Marshal(rec.Config)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	reportJSON, err := json.Marshal(rec.Report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, statement_id, fingerprint, config_json, report_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.StatementID,
		rec.Fingerprint,
		string(configJSON),
		string(reportJSON),
		rec.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("run with identical fingerprint exists: %w", err)
		}
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// GetRun loads one run by id. Returns ErrNotFound when absent.
func (s *Store) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, statement_id, fingerprint, config_json, report_json, created_at
		FROM runs WHERE id = ?`, id)
	return scanRun(row)
}

// GetRunByFingerprint is the cache lookup: the stored run for an identical
// (statement, configuration) pair, or ErrNotFound.
func (s *Store) GetRunByFingerprint(ctx context.Context, fingerprint string) (*RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, statement_id, fingerprint, config_json, report_json, created_at
		FROM runs WHERE fingerprint = ?`, fingerprint)
	return scanRun(row)
}

// ListRuns returns runs for one statement, or all runs when statementID is
// empty. Newest first.
func (s *Store) ListRuns(ctx context.Context, statementID string) ([]RunRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, statement_id, fingerprint, config_json, report_json, created_at
		FROM runs`
	var args []any
	if statementID != "" {
		query += ` WHERE statement_id = ?`
		args = append(args, statementID)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// =============================================================================
// SCANNING
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStatement(row rowScanner) (*StatementRecord, error) {
	var (
		rec        StatementRecord
		txJSON     string
		opening    sql.NullString
		closing    sql.NullString
		uploadedAt string
	)

	err := row.Scan(&rec.ID, &rec.Name, &txJSON, &opening, &closing, &rec.RowsDropped, &uploadedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(txJSON), &rec.Statement.Transactions); err != nil {
		return nil, fmt.Errorf("failed to decode transactions: %w", err)
	}
	rec.Statement.OpeningBalance = parseDecimal(opening)
	rec.Statement.ClosingBalance = parseDecimal(closing)
	rec.UploadedAt, _ = time.Parse(time.RFC3339, uploadedAt)
	return &rec, nil
}

func scanRun(row rowScanner) (*RunRecord, error) {
	var (
		rec        RunRecord
		configJSON string
		reportJSON string
		createdAt  string
	)

	err := row.Scan(&rec.ID, &rec.StatementID, &rec.Fingerprint, &configJSON, &reportJSON, &createdAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(configJSON), &rec.Config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := json.Unmarshal([]byte(reportJSON), &rec.Report); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &rec, nil
}

func decimalString(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func parseDecimal(s sql.NullString) *decimal.Decimal {
	if !s.Valid || s.String == "" {
		return nil
	}
	d, err := decimal.NewFromString(s.String)
	if err != nil {
		return nil
	}
	return &d
}
