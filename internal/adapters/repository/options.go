package repository

import "time"

// Option applies a configuration option to the SnapshotStore.
type Option func(*SnapshotStore)

// WithClock overrides the time source used to stamp snapshots.
func WithClock(now func() time.Time) Option {
	return func(s *SnapshotStore) {
		if now != nil {
			s.now = now
		}
	}
}

// HistoryOption applies a configuration option to the PostgresHistory.
type HistoryOption func(*PostgresHistory)

// WithConnectTimeout bounds the initial ping and schema creation.
func WithConnectTimeout(d time.Duration) HistoryOption {
	return func(h *PostgresHistory) {
		if d > 0 {
			h.connectTimeout = d
		}
	}
}

// WithTable overrides the history table name.
func WithTable(name string) HistoryOption {
	return func(h *PostgresHistory) {
		if name != "" {
			h.table = name
		}
	}
}
