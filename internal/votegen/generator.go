package votegen

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/pkg/logger"
)

// Validate checks the config.
func (c Config) Validate() error {
	if len(c.Competitors) < 2 {
		return ErrTooFewCompetitors
	}
	seen := make(map[string]struct{}, len(c.Competitors))
	for _, comp := range c.Competitors {
		if comp.Name == "" {
			return fmt.Errorf("%w: empty competitor name", ErrInvalidConfig)
		}
		if _, dup := seen[comp.Name]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateName, comp.Name)
		}
		seen[comp.Name] = struct{}{}
	}
	switch {
	case c.Votes < 0:
		return fmt.Errorf("%w: votes must not be negative", ErrInvalidConfig)
	case c.TieRate < 0 || c.TieRate > 1:
		return fmt.Errorf("%w: tie rate must be within [0, 1]", ErrInvalidConfig)
	case c.LatencyRate < 0 || c.LatencyRate > 1:
		return fmt.Errorf("%w: latency rate must be within [0, 1]", ErrInvalidConfig)
	case c.Base <= 1:
		return fmt.Errorf("%w: base must be greater than 1", ErrInvalidConfig)
	case c.Scale <= 0:
		return fmt.Errorf("%w: scale must be positive", ErrInvalidConfig)
	}
	return nil
}

// WinProbability returns the chance that a beats b, ignoring ties.
func (c Config) WinProbability(a, b Competitor) float64 {
	return 1 / (1 + math.Pow(c.Base, (b.Rating-a.Rating)/c.Scale))
}

// rngReader feeds uuid generation from the seeded generator so that record
// IDs are reproducible.
type rngReader struct {
	rng *rand.Rand
}

func (r rngReader) Read(p []byte) (int, error) {
	var buf [8]byte
	for i := 0; i < len(p); i += len(buf) {
		binary.LittleEndian.PutUint64(buf[:], r.rng.Uint64())
		copy(p[i:], buf[:])
	}
	return len(p), nil
}

// Generate samples cfg.Votes records. The same config always yields the
// same records.
func Generate(ctx context.Context, cfg Config) ([]model.MatchRecord, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewPCG(cfg.Seed, uint64(len(cfg.Competitors))))
	ids := rngReader{rng: rng}
	n := len(cfg.Competitors)

	records := make([]model.MatchRecord, 0, cfg.Votes)
	for i := 0; i < cfg.Votes; i++ {
		if i%1024 == 0 && ctx.Err() != nil {
			return nil, fmt.Errorf("vote generation canceled: %w", ctx.Err())
		}
		ai := rng.IntN(n)
		bi := rng.IntN(n - 1)
		if bi >= ai {
			bi++
		}
		a, b := cfg.Competitors[ai], cfg.Competitors[bi]

		id, err := uuid.NewRandomFromReader(ids)
		if err != nil {
			return nil, fmt.Errorf("record id: %w", err)
		}
		rec := model.MatchRecord{
			ID:      id.String(),
			ModelA:  a.Name,
			ModelB:  b.Name,
			Outcome: sampleOutcome(rng, cfg, a, b),
		}
		if rng.Float64() < cfg.LatencyRate {
			rec.ModelALatency = sampleLatency(rng, a)
			rec.ModelBLatency = sampleLatency(rng, b)
		}
		records = append(records, rec)
	}

	logger.Get().Debug(ctx, "generated synthetic votes",
		logger.Int("votes", len(records)),
		logger.Int("competitors", n),
	)
	return records, nil
}

func sampleOutcome(rng *rand.Rand, cfg Config, a, b Competitor) model.Outcome {
	if rng.Float64() < cfg.TieRate {
		return model.ValueTie
	}
	if rng.Float64() < cfg.WinProbability(a, b) {
		return model.ValueAWins
	}
	return model.ValueBWins
}

// sampleLatency jitters the competitor's means by up to +/-50%.
func sampleLatency(rng *rand.Rand, c Competitor) *model.Latency {
	jitter := func(mean float64) float64 { return mean * (0.5 + rng.Float64()) }
	return &model.Latency{
		TimeToFirstToken: jitter(c.FirstToken),
		TotalTime:        jitter(c.TotalTime),
		ResponseLength:   math.Round(jitter(c.ResponseLength)),
	}
}
