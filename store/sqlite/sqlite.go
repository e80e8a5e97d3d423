/*
Package sqlite provides a SQLite-backed implementation of contract.Persistence.

PURPOSE:
  Durable storage for the contract list. The core store hands over the
  whole list on every mutation; this package rewrites the contracts table
  in a single transaction so readers never see a half-written list.

WHOLE-COLLECTION OVERWRITE:
  Save() deletes every row and inserts the given list, recording each
  contract's position. Load() returns rows ordered by position, which
  restores the store's natural order (newest first).

KEY TABLES:
  contracts: One row per contract. Money is stored as decimal TEXT,
             dates as YYYY-MM-DD TEXT (NULL when absent).

CONCURRENCY:
  Uses sync.RWMutex for thread-safety and a single connection, so an
  ":memory:" database is shared by every query.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Readers don't block the writer
  - Better crash recovery

USAGE:
  db, err := sqlite.New("./data/leases.db", logger)
  if err != nil {
      log.Fatal(err)
  }
  defer db.Close()

  contracts := contract.Open(ctx, db, logger)

SEE ALSO:
  - contract/store.go: Persistence interface and the in-memory Store
  - contract/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/warp/lease-tracker/contract"
)

// Store implements contract.Persistence using SQLite.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	logger *zap.Logger
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db, logger: logger.With(zap.String("db", dbPath))}
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

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS contracts (
		id TEXT PRIMARY KEY,
		position INTEGER NOT NULL,
		contract_name TEXT NOT NULL DEFAULT '',
		signature_date TEXT,
		duration_months INTEGER NOT NULL,
		aviso_date TEXT,
		end_date TEXT,
		monthly_amount TEXT NOT NULL,
		escalation_fixed_increment TEXT NOT NULL,
		escalation_max_months INTEGER NOT NULL,
		regime_amount TEXT NOT NULL,
		file_name TEXT,
		file_size INTEGER,
		file_url TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_contracts_position
		ON contracts(position);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// PERSISTENCE (contract.Persistence interface)
// =============================================================================

// Load returns all contracts in stored order.
func (s *Store) Load(ctx context.Context) ([]contract.Contract, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, contract_name, signature_date, duration_months, aviso_date, end_date,
		       monthly_amount, escalation_fixed_increment, escalation_max_months, regime_amount,
		       file_name, file_size, file_url, created_at
		FROM contracts
		ORDER BY position ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query contracts: %w", err)
	}
	defer rows.Close()

	var contracts []contract.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		contracts = append(contracts, c)
	}
	return contracts, rows.Err()
}

// Save replaces the stored list atomically.
func (s *Store) Save(ctx context.Context, contracts []contract.Contract) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if _, err := sqlTx.ExecContext(ctx, "DELETE FROM contracts"); err != nil {
		return fmt.Errorf("failed to clear contracts: %w", err)
	}

	stmt, err := sqlTx.PrepareContext(ctx, `
		INSERT INTO contracts
		(id, position, contract_name, signature_date, duration_months, aviso_date, end_date,
		 monthly_amount, escalation_fixed_increment, escalation_max_months, regime_amount,
		 file_name, file_size, file_url, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, c := range contracts {
		var fileName, fileURL sql.NullString
		var fileSize sql.NullInt64
		if c.File != nil {
			fileName = sql.NullString{String: c.File.Name, Valid: true}
			fileURL = sql.NullString{String: c.File.URL, Valid: true}
			fileSize = sql.NullInt64{Int64: c.File.Size, Valid: true}
		}

		_, err := stmt.ExecContext(ctx,
			c.ID,
			i,
			c.ContractName,
			nullDate(c.SignatureDate),
			c.DurationMonths,
			nullDate(c.AvisoDate),
			nullDate(c.EndDate),
			c.MonthlyAmount.String(),
			c.EscalationFixedIncrement.String(),
			c.EscalationMaxMonths,
			c.RegimeAmount.String(),
			fileName,
			fileSize,
			fileURL,
			c.CreatedAt.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			if isUniqueConstraintError(err) {
				return fmt.Errorf("duplicate contract id %q: %w", c.ID, err)
			}
			return fmt.Errorf("failed to insert contract %s: %w", c.ID, err)
		}
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit contracts: %w", err)
	}
	s.logger.Debug("contracts saved", zap.Int("contracts", len(contracts)))
	return nil
}

func scanContract(rows *sql.Rows) (contract.Contract, error) {
	var (
		c                          contract.Contract
		signature, aviso, end      sql.NullString
		monthly, increment, regime string
		fileName, fileURL          sql.NullString
		fileSize                   sql.NullInt64
		createdAt                  string
	)

	err := rows.Scan(&c.ID, &c.ContractName, &signature, &c.DurationMonths, &aviso, &end,
		&monthly, &increment, &c.EscalationMaxMonths, &regime,
		&fileName, &fileSize, &fileURL, &createdAt)
	if err != nil {
		return c, fmt.Errorf("failed to scan contract: %w", err)
	}

	if c.SignatureDate, err = parseNullDate(signature); err != nil {
		return c, fmt.Errorf("contract %s signature_date: %w", c.ID, err)
	}
	if c.AvisoDate, err = parseNullDate(aviso); err != nil {
		return c, fmt.Errorf("contract %s aviso_date: %w", c.ID, err)
	}
	if c.EndDate, err = parseNullDate(end); err != nil {
		return c, fmt.Errorf("contract %s end_date: %w", c.ID, err)
	}
	if c.MonthlyAmount, err = decimal.NewFromString(monthly); err != nil {
		return c, fmt.Errorf("contract %s monthly_amount: %w", c.ID, err)
	}
	if c.EscalationFixedIncrement, err = decimal.NewFromString(increment); err != nil {
		return c, fmt.Errorf("contract %s escalation_fixed_increment: %w", c.ID, err)
	}
	if c.RegimeAmount, err = decimal.NewFromString(regime); err != nil {
		return c, fmt.Errorf("contract %s regime_amount: %w", c.ID, err)
	}
	if c.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return c, fmt.Errorf("contract %s created_at: %w", c.ID, err)
	}
	if fileName.Valid {
		c.File = &contract.FileRef{Name: fileName.String, Size: fileSize.Int64, URL: fileURL.String}
	}
	return c, nil
}

// =============================================================================
// UTILITIES
// =============================================================================

// Count returns the number of stored contracts.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM contracts").Scan(&count)
	return count, err
}

// Helper functions

func nullDate(d contract.Date) sql.NullString {
	if d.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func parseNullDate(s sql.NullString) (contract.Date, error) {
	if !s.Valid {
		return contract.Date{}, nil
	}
	return contract.ParseDate(s.String)
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

var _ contract.Persistence = (*Store)(nil)
