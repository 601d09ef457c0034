// Package repository holds the published leaderboard and its history.
package repository

import (
	"context"
	"time"

	"github.com/okian/arena/internal/domain/types"
)

// Snapshot is an immutable, fully ranked leaderboard produced by one refresh.
type Snapshot struct {
	RunID       string
	PublishedAt time.Time
	FetchedAt   time.Time

	// Entries are sorted by rank.
	Entries  []types.Entry
	Matchups map[string][]types.MatchupRow

	Records         int
	Rejected        int
	Rounds          int
	ConvergedRounds int
	Converged       bool

	byModel map[string]int
}

// Store provides access to the published leaderboard.
type Store interface {
	// Publish replaces the current snapshot.
	Publish(ctx context.Context, snap *Snapshot) error

	// Current returns the latest snapshot or ErrNoSnapshot.
	Current(ctx context.Context) (*Snapshot, error)

	// TopN returns the first n entries.
	TopN(ctx context.Context, n int) ([]types.Entry, error)

	// Rank returns a single model's entry. Returns ErrNotFound if unknown.
	Rank(ctx context.Context, model string) (types.Entry, error)

	// Matchups returns a model's head-to-head rows. Returns ErrNotFound if unknown.
	Matchups(ctx context.Context, model string) ([]types.MatchupRow, error)

	// Count returns the number of ranked models.
	Count(ctx context.Context) int
}

// History records ratings across refreshes.
type History interface {
	// Append stores every entry of snap.
	Append(ctx context.Context, snap *Snapshot) error

	// Recent returns up to limit points for model, newest first.
	Recent(ctx context.Context, model string, limit int) ([]types.HistoryPoint, error)

	Close() error
}
