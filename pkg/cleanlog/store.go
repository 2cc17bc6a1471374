// pkg/cleanlog/store.go
package cleanlog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/WillBetts22/MCM-Stage1/pkg/model"
)

// Store persists cleaning operations to an embedded sqlite database so
// a run's cleaning decisions can be audited after the fact
type Store struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// Open opens (creating if needed) the audit database at path and ensures
// the tracking table exists. Use ":memory:" for an ephemeral store.
func Open(path string, logger *zap.Logger) (*Store, error) {
	if path == "" {
		return nil, errors.New("audit database path cannot be empty")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}

	store := &Store{db: db, logger: logger}
	if err := store.setupTrackingTable(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to setup tracking table: %w", err)
	}

	return store, nil
}

// Close closes the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

// setupTrackingTable ensures the cleaning_operations tracking table exists
func (s *Store) setupTrackingTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	createTableSQL := `
		CREATE TABLE IF NOT EXISTS cleaning_operations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			table_role TEXT NOT NULL,
			column_name TEXT NOT NULL,
			original_value TEXT,
			new_value TEXT,
			operation TEXT NOT NULL,
			reason TEXT NOT NULL,
			rows_affected INTEGER NOT NULL,
			cleaned_at TIMESTAMP NOT NULL
		)
	`
	if _, err := s.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create tracking table: %w", err)
	}

	s.logger.Info("Ensured cleaning_operations table exists")
	return nil
}

// Record batch inserts cleaning operations into the tracking table
func (s *Store) Record(ctx context.Context, operations []model.CleaningOperation) error {
	if len(operations) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Error("Failed to rollback transaction",
					zap.Error(rbErr),
					zap.Error(err))
			}
		}
	}()

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO cleaning_operations
		(run_id, table_role, column_name, original_value, new_value,
		 operation, reason, rows_affected, cleaned_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, op := range operations {
		cleanedAt := op.CleanedAt
		if cleanedAt.IsZero() {
			cleanedAt = time.Now()
		}

		_, err = stmt.ExecContext(ctx,
			op.RunID,
			op.TableRole,
			op.ColumnName,
			op.OriginalValue,
			op.NewValue,
			op.Operation,
			op.Reason,
			op.RowsAffected,
			cleanedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert cleaning operation: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info("Recorded cleaning operations", zap.Int("count", len(operations)))
	return nil
}

// operationRow maps the tracking table for sqlx scanning
type operationRow struct {
	RunID         string    `db:"run_id"`
	TableRole     string    `db:"table_role"`
	ColumnName    string    `db:"column_name"`
	OriginalValue string    `db:"original_value"`
	NewValue      string    `db:"new_value"`
	Operation     string    `db:"operation"`
	Reason        string    `db:"reason"`
	RowsAffected  int       `db:"rows_affected"`
	CleanedAt     time.Time `db:"cleaned_at"`
}

// OperationsForRun returns every operation recorded under a run ID, in
// insertion order
func (s *Store) OperationsForRun(ctx context.Context, runID string) ([]model.CleaningOperation, error) {
	var rows []operationRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT run_id, table_role, column_name, original_value, new_value,
		       operation, reason, rows_affected, cleaned_at
		FROM cleaning_operations
		WHERE run_id = ?
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cleaning operations: %w", err)
	}

	operations := make([]model.CleaningOperation, 0, len(rows))
	for _, r := range rows {
		operations = append(operations, model.CleaningOperation{
			RunID:         r.RunID,
			TableRole:     r.TableRole,
			ColumnName:    r.ColumnName,
			OriginalValue: r.OriginalValue,
			NewValue:      r.NewValue,
			Operation:     r.Operation,
			Reason:        r.Reason,
			RowsAffected:  r.RowsAffected,
			CleanedAt:     r.CleanedAt,
		})
	}

	return operations, nil
}
