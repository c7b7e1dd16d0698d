package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/pawtally/pawtally/internal/domain"
	"github.com/pawtally/pawtally/pkg/logger"
)

type tallyRepository struct {
	db *sqlx.DB
}

var (
	_ domain.TallyRepository = (*tallyRepository)(nil)
	_ domain.TallyReader     = (*tallyRepository)(nil)
)

// NewTallyRepository creates a new tally repository
func NewTallyRepository(db *sqlx.DB) *tallyRepository {
	return &tallyRepository{db: db}
}

const createTableQuery = `
	CREATE TABLE IF NOT EXISTS votes (
		option TEXT PRIMARY KEY,
		count  INTEGER NOT NULL DEFAULT 0
	)
`

// EnsureSchema creates the tally table when absent. Safe to call on every
// startup; a no-op once the table exists.
func (r *tallyRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, createTableQuery)
	if err != nil {
		logger.Error("Failed to ensure tally schema", logger.ErrorField(err))
		return fmt.Errorf("failed to ensure tally schema: %w", err)
	}

	logger.Info("Tally schema ready")
	return nil
}

const incrementQuery = `
	INSERT INTO votes (option, count) VALUES ($1, 1)
	ON CONFLICT (option) DO UPDATE SET count = votes.count + 1
`

// Increment applies a single atomic insert-or-increment for the option.
// The conflict resolution runs server-side in one statement, so concurrent
// workers never lose updates.
func (r *tallyRepository) Increment(ctx context.Context, option domain.Option) error {
	_, err := r.db.ExecContext(ctx, incrementQuery, option.String())
	if err != nil {
		logger.Error("Failed to increment tally",
			logger.String("option", option.String()),
			logger.ErrorField(err),
		)
		return fmt.Errorf("failed to increment tally: %w", err)
	}

	return nil
}

const countsQuery = `SELECT option, count FROM votes ORDER BY option`

// Counts returns every persisted tally row. Options that have never been
// voted for have no row; the caller treats absence as zero.
func (r *tallyRepository) Counts(ctx context.Context) ([]domain.Tally, error) {
	var tallies []domain.Tally
	err := r.db.SelectContext(ctx, &tallies, countsQuery)
	if err != nil {
		logger.Error("Failed to get tally counts", logger.ErrorField(err))
		return nil, fmt.Errorf("failed to get tally counts: %w", err)
	}

	return tallies, nil
}

// Ping probes persisted store connectivity.
func (r *tallyRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
