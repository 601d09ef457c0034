package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/okian/arena/internal/domain/types"
	"github.com/okian/arena/pkg/metrics"
)

const (
	defaultHistoryTable   = "rating_history"
	defaultConnectTimeout = 5 * time.Second
)

// PostgresHistory stores one row per model per refresh.
type PostgresHistory struct {
	db             *sql.DB
	table          string
	connectTimeout time.Duration
}

var _ History = (*PostgresHistory)(nil)

// NewPostgresHistory connects to dsn, verifies the connection and creates the
// history table if needed.
func NewPostgresHistory(ctx context.Context, dsn string, opts ...HistoryOption) (*PostgresHistory, error) {
	if dsn == "" {
		return nil, fmt.Errorf("%w: postgres DSN is required", ErrHistory)
	}
	h := &PostgresHistory{table: defaultHistoryTable, connectTimeout: defaultConnectTimeout}
	for _, opt := range opts {
		opt(h)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open: %w", ErrHistory, err)
	}
	h.db = db

	cctx, cancel := context.WithTimeout(ctx, h.connectTimeout)
	defer cancel()
	if err := db.PingContext(cctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping: %w", ErrHistory, err)
	}
	if err := h.initSchema(cctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: schema: %w", ErrHistory, err)
	}
	return h, nil
}

func (h *PostgresHistory) initSchema(ctx context.Context) error {
	table := pq.QuoteIdentifier(h.table)
	query := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %[1]s (
		id BIGSERIAL PRIMARY KEY,
		run_id VARCHAR(64) NOT NULL,
		model VARCHAR(500) NOT NULL,
		rating DOUBLE PRECISION NOT NULL,
		lower_bound DOUBLE PRECISION NOT NULL,
		upper_bound DOUBLE PRECISION NOT NULL,
		total_games INTEGER NOT NULL,
		recorded_at TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS %[2]s ON %[1]s(model, recorded_at DESC);
	`, table, pq.QuoteIdentifier("idx_"+h.table+"_model_time"))
	_, err := h.db.ExecContext(ctx, query)
	return err
}

// Append bulk-inserts all entries of snap in one transaction.
func (h *PostgresHistory) Append(ctx context.Context, snap *Snapshot) (err error) {
	start := time.Now()
	defer func() {
		if err != nil {
			metrics.RecordHistoryError()
			return
		}
		metrics.RecordHistoryAppend(float64(time.Since(start).Milliseconds()))
	}()

	if snap == nil || len(snap.Entries) == 0 {
		return nil
	}

	tx, err := h.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", ErrHistory, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(h.table,
		"run_id", "model", "rating", "lower_bound", "upper_bound", "total_games", "recorded_at"))
	if err != nil {
		return fmt.Errorf("%w: prepare: %w", ErrHistory, err)
	}
	for _, e := range snap.Entries {
		if _, err = stmt.ExecContext(ctx, snap.RunID, e.Model, e.Rating, e.Lower, e.Upper, e.TotalGames, snap.PublishedAt); err != nil {
			_ = stmt.Close()
			return fmt.Errorf("%w: copy %s: %w", ErrHistory, e.Model, err)
		}
	}
	if _, err = stmt.ExecContext(ctx); err != nil {
		_ = stmt.Close()
		return fmt.Errorf("%w: flush: %w", ErrHistory, err)
	}
	if err = stmt.Close(); err != nil {
		return fmt.Errorf("%w: close statement: %w", ErrHistory, err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", ErrHistory, err)
	}
	return nil
}

// Recent returns up to limit points for model, newest first.
func (h *PostgresHistory) Recent(ctx context.Context, model string, limit int) ([]types.HistoryPoint, error) {
	if limit < 1 {
		return nil, ErrInvalidLimit
	}
	query := fmt.Sprintf(`
	SELECT run_id, model, rating, lower_bound, upper_bound, total_games, recorded_at
	FROM %s
	WHERE model = $1
	ORDER BY recorded_at DESC
	LIMIT $2
	`, pq.QuoteIdentifier(h.table))

	rows, err := h.db.QueryContext(ctx, query, model, limit)
	if err != nil {
		metrics.RecordHistoryError()
		return nil, fmt.Errorf("%w: query: %w", ErrHistory, err)
	}
	defer func() { _ = rows.Close() }()

	var out []types.HistoryPoint
	for rows.Next() {
		var p types.HistoryPoint
		if err := rows.Scan(&p.RunID, &p.Model, &p.Rating, &p.Lower, &p.Upper, &p.TotalGames, &p.RecordedAt); err != nil {
			return nil, fmt.Errorf("%w: scan: %w", ErrHistory, err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows: %w", ErrHistory, err)
	}
	return out, nil
}

// Close closes the database connection.
func (h *PostgresHistory) Close() error {
	return h.db.Close()
}
