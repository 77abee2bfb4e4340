package identifier

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garyjia/offer-letters/pkg/database"
	"github.com/garyjia/offer-letters/pkg/utils"
	"go.uber.org/zap"
)

// Issued is one identifier handed to a recipient
type Issued struct {
	UniqueID  string
	Recipient string
	BatchID   string
}

// Registry remembers identifiers across batches
type Registry interface {
	Exists(ctx context.Context, uniqueID string) (bool, error)
	Record(ctx context.Context, issued []Issued) error
}

// NopRegistry remembers nothing
type NopRegistry struct{}

// Exists always reports false
func (NopRegistry) Exists(context.Context, string) (bool, error) { return false, nil }

// Record discards the identifiers
func (NopRegistry) Record(context.Context, []Issued) error { return nil }

// SQLiteRegistry stores issued identifiers in the issued_identifiers table
type SQLiteRegistry struct {
	db     *database.DB
	logger *zap.Logger
}

// NewSQLiteRegistry creates a registry on a migrated database
func NewSQLiteRegistry(db *database.DB, logger *zap.Logger) *SQLiteRegistry {
	return &SQLiteRegistry{db: db, logger: logger}
}

// Exists reports whether uniqueID was recorded by an earlier batch
func (r *SQLiteRegistry) Exists(ctx context.Context, uniqueID string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		"SELECT 1 FROM issued_identifiers WHERE unique_id = ?", uniqueID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query identifier: %w", err)
	}
	return true, nil
}

// Record stores all identifiers of a batch in one transaction
func (r *SQLiteRegistry) Record(ctx context.Context, issued []Issued) error {
	if len(issued) == 0 {
		return nil
	}

	err := r.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			"INSERT INTO issued_identifiers (unique_id, recipient, batch_id) VALUES (?, ?, ?)")
		if err != nil {
			return fmt.Errorf("failed to prepare insert: %w", err)
		}
		defer stmt.Close()

		for _, item := range issued {
			if err := utils.ValidateUniqueID(item.UniqueID); err != nil {
				return err
			}
			if _, err := stmt.ExecContext(ctx, item.UniqueID, item.Recipient, item.BatchID); err != nil {
				return fmt.Errorf("failed to record identifier %s: %w", item.UniqueID, err)
			}
		}
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to record issued identifiers", zap.Int("count", len(issued)), zap.Error(err))
		return err
	}

	r.logger.Debug("Recorded issued identifiers", zap.Int("count", len(issued)))
	return nil
}
