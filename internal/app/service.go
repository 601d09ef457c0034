// Package service provides the refresh loop that turns the vote feed into a
// published leaderboard, and the read side used by the HTTP API.
package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/arena/internal/adapters/feed"
	"github.com/okian/arena/internal/adapters/repository"
	"github.com/okian/arena/internal/domain/headtohead"
	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/internal/domain/rating"
	"github.com/okian/arena/internal/domain/standings"
	"github.com/okian/arena/internal/domain/types"
	"github.com/okian/arena/pkg/logger"
	"github.com/okian/arena/pkg/metrics"
)

const (
	defaultPollInterval = 5 * time.Minute
	// maxLoggedRejections bounds per-record warnings emitted per refresh.
	maxLoggedRejections = 20
)

// Fetcher downloads one feed document.
type Fetcher interface {
	Fetch(ctx context.Context) (feed.Batch, error)
}

// Rater fits ratings for aggregated stats.
type Rater interface {
	Rate(ctx context.Context, stats map[string]*model.CompetitorStats) (rating.Result, error)
}

// Service implements the API dependencies for the arena leaderboard.
type Service struct {
	mu sync.RWMutex

	// Core components
	fetcher Fetcher
	rater   Rater
	store   repository.Store
	history repository.History

	// Configuration
	pollInterval time.Duration
	now          func() time.Time
	newRunID     func() string

	// State
	refreshing atomic.Bool
	status     types.Status
	started    bool
	cancel     context.CancelFunc
	done       chan struct{}

	// Logging
	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		rater:        rating.NewEngine(),
		store:        repository.NewSnapshotStore(),
		pollInterval: defaultPollInterval,
		now:          time.Now,
		newRunID:     func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) log() logger.Logger {
	s.mu.RLock()
	l := s.logger
	s.mu.RUnlock()
	if l == nil {
		return logger.Named("refresh")
	}
	return l
}

// Start launches the refresh loop. The first refresh runs immediately, then
// one per poll interval. Refreshes run inside the loop so scheduled ones
// never overlap.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.fetcher == nil {
		return ErrNoFetcher
	}
	if s.logger == nil {
		s.logger = logger.Named("refresh")
	}

	s.logger.Info(ctx, "starting arena rating service...",
		logger.Duration("poll_interval", s.pollInterval),
	)

	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.started = true

	go s.loop(loopCtx, s.done)
	return nil
}

func (s *Service) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	s.refreshScheduled(ctx)

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refreshScheduled(ctx)
		}
	}
}

func (s *Service) refreshScheduled(ctx context.Context) {
	// Failures are logged and kept in the status; the next tick retries.
	_, _ = s.Refresh(ctx)
}

// Stop cancels the refresh loop, waits for it and closes the history.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	cancel, done := s.cancel, s.done
	s.started = false
	s.mu.Unlock()

	ctx := context.Background()
	s.log().Info(ctx, "stopping arena rating service...")
	cancel()
	<-done

	if s.history != nil {
		if err := s.history.Close(); err != nil {
			s.log().Warn(ctx, "failed to close rating history", logger.Error(err))
		}
	}
	s.log().Info(ctx, "arena rating service stopped")
}

// Refresh runs one fetch, aggregate, rate and publish cycle. It returns
// ErrRefreshInFlight without doing anything when another refresh is running.
// On failure the previously published leaderboard stays current.
func (s *Service) Refresh(ctx context.Context) (types.RefreshReport, error) {
	if s.fetcher == nil {
		return types.RefreshReport{}, ErrNoFetcher
	}
	if !s.refreshing.CompareAndSwap(false, true) {
		metrics.RecordRefreshSkipped()
		return types.RefreshReport{}, ErrRefreshInFlight
	}
	defer s.refreshing.Store(false)

	start := s.now()
	runID := s.newRunID()
	log := s.log()
	s.markAttempt(start)

	batch, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return types.RefreshReport{}, s.fail(ctx, runID, "fetch", err)
	}
	metrics.RecordFetch(float64(s.now().Sub(start).Milliseconds()), batch.Bytes, len(batch.Records))

	agg := headtohead.Aggregate(batch.Records)
	rejected := make([]headtohead.RecordError, 0, len(batch.Undecodable)+len(agg.Rejected))
	rejected = append(rejected, batch.Undecodable...)
	rejected = append(rejected, agg.Rejected...)
	for i, r := range rejected {
		metrics.RecordRejectedRecord(r.Reason())
		if i < maxLoggedRejections {
			log.Warn(ctx, "rejected match record",
				logger.String("run_id", runID),
				logger.String("record_id", r.ID),
				logger.String("reason", r.Reason()),
				logger.Error(r.Err),
			)
		}
	}

	fitStart := s.now()
	res, err := s.rater.Rate(ctx, agg.Stats)
	if err != nil {
		return types.RefreshReport{}, s.fail(ctx, runID, "rate", err)
	}
	metrics.RecordFit(float64(s.now().Sub(fitStart).Milliseconds()), res.MaxIterations, res.Rounds, res.ConvergedRounds)
	metrics.UpdateCompetitors(len(agg.Stats), res.Pairings)
	if !res.Converged {
		log.Warn(ctx, "rating fit did not converge in every bootstrap round",
			logger.String("run_id", runID),
			logger.Int("rounds", res.Rounds),
			logger.Int("converged_rounds", res.ConvergedRounds),
		)
	}

	snap := buildSnapshot(runID, batch, agg.Stats, res, len(rejected))
	if err := s.store.Publish(ctx, snap); err != nil {
		return types.RefreshReport{}, s.fail(ctx, runID, "publish", err)
	}

	if s.history != nil {
		if err := s.history.Append(ctx, snap); err != nil {
			metrics.RecordErrorByComponent("history", "append")
			log.Warn(ctx, "failed to append rating history",
				logger.String("run_id", runID),
				logger.Error(err),
			)
		}
	}

	end := s.now()
	report := types.RefreshReport{
		RunID:           runID,
		Records:         len(batch.Records) + len(batch.Undecodable),
		Rejected:        len(rejected),
		Competitors:     len(agg.Stats),
		Pairings:        res.Pairings,
		Rounds:          res.Rounds,
		ConvergedRounds: res.ConvergedRounds,
		Converged:       res.Converged,
		FetchedAt:       batch.FetchedAt,
		Duration:        end.Sub(start),
	}
	s.markSuccess(report, end)
	metrics.RecordRefreshSuccess(float64(report.Duration.Milliseconds()), end.Unix())

	log.Info(ctx, "refresh completed",
		logger.String("run_id", runID),
		logger.Int("records", report.Records),
		logger.Int("rejected", report.Rejected),
		logger.Int("competitors", report.Competitors),
		logger.Bool("converged", report.Converged),
		logger.Duration("took", report.Duration),
	)
	return report, nil
}

func buildSnapshot(runID string, batch feed.Batch, stats map[string]*model.CompetitorStats, res rating.Result, rejected int) *repository.Snapshot {
	standings.Apply(stats, res)
	matchups := make(map[string][]types.MatchupRow, len(stats))
	for name := range stats {
		rows, _ := standings.Matchups(stats, name)
		matchups[name] = rows
	}
	return &repository.Snapshot{
		RunID:           runID,
		FetchedAt:       batch.FetchedAt,
		Entries:         standings.Build(stats, res),
		Matchups:        matchups,
		Records:         len(batch.Records) + len(batch.Undecodable),
		Rejected:        rejected,
		Rounds:          res.Rounds,
		ConvergedRounds: res.ConvergedRounds,
		Converged:       res.Converged,
	}
}

func (s *Service) markAttempt(at time.Time) {
	s.mu.Lock()
	s.status.LastAttempt = &at
	s.mu.Unlock()
}

func (s *Service) markSuccess(r types.RefreshReport, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.RunID = r.RunID
	s.status.LastSuccess = &at
	s.status.ConsecutiveFailures = 0
	s.status.LastError = ""
	s.status.LastErrorAt = nil
	s.status.Records = r.Records
	s.status.Rejected = r.Rejected
	s.status.Competitors = r.Competitors
	s.status.Rounds = r.Rounds
	s.status.ConvergedRounds = r.ConvergedRounds
	s.status.Converged = r.Converged
}

func (s *Service) fail(ctx context.Context, runID, stage string, err error) error {
	at := s.now()
	s.mu.Lock()
	s.status.LastError = err.Error()
	s.status.LastErrorAt = &at
	s.status.ConsecutiveFailures++
	failures := s.status.ConsecutiveFailures
	s.mu.Unlock()

	metrics.RecordRefreshFailure(stage)
	metrics.RecordErrorByComponent("refresh", stage)
	s.log().Error(ctx, "refresh failed, keeping last published leaderboard",
		logger.String("run_id", runID),
		logger.String("stage", stage),
		logger.Int("consecutive_failures", failures),
		logger.Error(err),
	)
	return fmt.Errorf("%w: %s: %w", ErrRefreshFailed, stage, err)
}

// TopN returns the top N leaderboard entries.
func (s *Service) TopN(ctx context.Context, n int) ([]types.Entry, error) {
	return s.store.TopN(ctx, n)
}

// Rank returns the leaderboard entry of a model.
func (s *Service) Rank(ctx context.Context, model string) (types.Entry, error) {
	return s.store.Rank(ctx, model)
}

// Matchups returns a model's head-to-head rows.
func (s *Service) Matchups(ctx context.Context, model string) ([]types.MatchupRow, error) {
	return s.store.Matchups(ctx, model)
}

// History returns past ratings of a model, newest first.
func (s *Service) History(ctx context.Context, model string, limit int) ([]types.HistoryPoint, error) {
	if s.history == nil {
		return nil, ErrHistoryDisabled
	}
	return s.history.Recent(ctx, model, limit)
}

// Status returns a copy of the refresh status.
func (s *Service) Status(_ context.Context) types.Status {
	s.mu.RLock()
	st := s.status
	s.mu.RUnlock()
	st.Refreshing = s.refreshing.Load()
	return st
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":              s.started,
		"pollInterval":         s.pollInterval.String(),
		"historyEnabled":       s.history != nil,
		"refreshing":           s.refreshing.Load(),
		"consecutiveFailures":  s.status.ConsecutiveFailures,
		"totalModels":          s.store.Count(context.Background()),
		"lastRunID":            s.status.RunID,
		"lastRefreshConverged": s.status.Converged,
	}
	if s.status.LastSuccess != nil {
		stats["lastSuccess"] = s.status.LastSuccess.UTC().Format(time.RFC3339)
	}
	return stats
}
