package repository

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/okian/arena/internal/domain/types"
	"github.com/okian/arena/pkg/metrics"
)

// SnapshotStore serves the last published leaderboard. Readers never block
// writers: each publish swaps an immutable snapshot pointer.
type SnapshotStore struct {
	snapshot atomic.Pointer[Snapshot]
	now      func() time.Time
}

var _ Store = (*SnapshotStore)(nil)

// NewSnapshotStore constructs an empty store.
func NewSnapshotStore(opts ...Option) *SnapshotStore {
	s := &SnapshotStore{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Publish indexes snap and makes it current. The caller must not modify
// snap afterwards.
func (s *SnapshotStore) Publish(_ context.Context, snap *Snapshot) error {
	if snap == nil {
		return fmt.Errorf("%w: nil snapshot", ErrInvalidSnapshot)
	}
	byModel := make(map[string]int, len(snap.Entries))
	for i, e := range snap.Entries {
		if _, dup := byModel[e.Model]; dup {
			return fmt.Errorf("%w: duplicate model %q", ErrInvalidSnapshot, e.Model)
		}
		byModel[e.Model] = i
	}
	snap.byModel = byModel
	if snap.PublishedAt.IsZero() {
		snap.PublishedAt = s.now()
	}
	s.snapshot.Store(snap)

	metrics.RecordSnapshotPublished(snap.PublishedAt.Unix())
	return nil
}

// Current returns the latest snapshot.
func (s *SnapshotStore) Current(_ context.Context) (*Snapshot, error) {
	snap := s.snapshot.Load()
	if snap == nil {
		return nil, ErrNoSnapshot
	}
	return snap, nil
}

// TopN returns a copy of the first n entries.
func (s *SnapshotStore) TopN(ctx context.Context, n int) ([]types.Entry, error) {
	if n < 1 {
		metrics.RecordErrorByComponent("repository", "invalid_limit")
		return nil, ErrInvalidLimit
	}
	snap, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	n = min(n, len(snap.Entries))
	out := make([]types.Entry, n)
	copy(out, snap.Entries[:n])
	return out, nil
}

// Rank returns the entry for model.
func (s *SnapshotStore) Rank(ctx context.Context, model string) (types.Entry, error) {
	snap, err := s.Current(ctx)
	if err != nil {
		return types.Entry{}, err
	}
	i, ok := snap.byModel[model]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return types.Entry{}, ErrNotFound
	}
	return snap.Entries[i], nil
}

// Matchups returns model's head-to-head rows.
func (s *SnapshotStore) Matchups(ctx context.Context, model string) ([]types.MatchupRow, error) {
	snap, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	rows, ok := snap.Matchups[model]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return nil, ErrNotFound
	}
	out := make([]types.MatchupRow, len(rows))
	copy(out, rows)
	return out, nil
}

// Count returns the number of ranked models, zero before the first publish.
func (s *SnapshotStore) Count(_ context.Context) int {
	snap := s.snapshot.Load()
	if snap == nil {
		return 0
	}
	return len(snap.Entries)
}
