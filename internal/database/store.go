package database

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
)

// Store defines the interface for exchange-log operations. Methods accept
// context.Context for cancellation and timeouts.
type Store interface {
	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// SaveExchange inserts a new exchange record.
	SaveExchange(ctx context.Context, exchange *Exchange) error

	// RecentExchanges retrieves the most recent 'limit' exchanges for a user.
	RecentExchanges(ctx context.Context, userID string, limit int) ([]Exchange, error)

	// PruneExchanges deletes exchanges older than the cutoff and returns
	// how many rows were removed.
	PruneExchanges(ctx context.Context, before time.Time) (int64, error)

	// RunMaintenance performs database maintenance tasks like VACUUM.
	RunMaintenance(ctx context.Context) error
}

type sqlxStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewStore creates a new Store backed by sqlx. It requires a connected
// sqlx.DB instance and a logger.
func NewStore(db *sqlx.DB, logger *slog.Logger) Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &sqlxStore{
		db:     db,
		logger: logger.With("component", "store"),
	}
}

func (s *sqlxStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *sqlxStore) SaveExchange(ctx context.Context, exchange *Exchange) error {
	if exchange == nil {
		return fmt.Errorf("cannot save nil exchange")
	}
	if exchange.Platform == "" || exchange.ChannelID == "" || exchange.UserID == "" {
		return fmt.Errorf("exchange must have platform, channel_id, and user_id")
	}
	if exchange.ReplyKind == "" {
		return fmt.Errorf("exchange must have a reply_kind")
	}

	if exchange.CreatedAt.IsZero() {
		exchange.CreatedAt = time.Now().UTC()
	}

	query := `
        INSERT INTO exchanges (created_at, platform, channel_id, user_id, prompt, reply_kind, image_count)
        VALUES (:created_at, :platform, :channel_id, :user_id, :prompt, :reply_kind, :image_count)`

	result, err := s.db.NamedExecContext(ctx, query, exchange)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to save exchange",
			"platform", exchange.Platform, "user_id", exchange.UserID, "error", err)
		return fmt.Errorf("failed to save exchange: %w", err)
	}

	if id, err := result.LastInsertId(); err == nil {
		exchange.ID = uint(id)
	}
	return nil
}

func (s *sqlxStore) RecentExchanges(ctx context.Context, userID string, limit int) ([]Exchange, error) {
	if limit <= 0 {
		limit = 20
	}

	var exchanges []Exchange
	query := `
        SELECT id, created_at, platform, channel_id, user_id, prompt, reply_kind, image_count
        FROM exchanges
        WHERE user_id = ?
        ORDER BY created_at DESC
        LIMIT ?`

	if err := s.db.SelectContext(ctx, &exchanges, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to query recent exchanges: %w", err)
	}
	return exchanges, nil
}

func (s *sqlxStore) PruneExchanges(ctx context.Context, before time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM exchanges WHERE created_at < ?`, before.UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune exchanges: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned exchanges: %w", err)
	}

	s.logger.InfoContext(ctx, "Pruned old exchanges", "removed", removed, "before", before)
	return removed, nil
}

func (s *sqlxStore) RunMaintenance(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("failed to vacuum database: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, "ANALYZE"); err != nil {
		return fmt.Errorf("failed to analyze database: %w", err)
	}
	return nil
}
