// Package headtohead folds flat match records into per-competitor tallies.
package headtohead

import (
	"fmt"
	"sort"
	"strings"

	"github.com/okian/arena/internal/domain/model"
)

// Result is the output of Aggregate.
type Result struct {
	Stats    map[string]*model.CompetitorStats
	Rejected []RecordError
}

// Pairing is one unordered competitor pair oriented so Subject < Opponent.
// Outcome is the subject's win fraction and Weight the number of games.
type Pairing struct {
	Subject  string
	Opponent string
	Outcome  float64
	Weight   float64
}

// Aggregate builds competitor stats from records. Records are processed in
// ascending ID order. Competitor names are compared after trimming surrounding
// whitespace. Malformed records are rejected and contribute nothing.
func Aggregate(records []model.MatchRecord) Result {
	res := Result{Stats: make(map[string]*model.CompetitorStats)}
	if len(records) == 0 {
		return res
	}

	ordered := make([]model.MatchRecord, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })

	for i := range ordered {
		rec := &ordered[i]
		rec.ModelA, rec.ModelB = strings.TrimSpace(rec.ModelA), strings.TrimSpace(rec.ModelB)
		if err := validate(rec); err != nil {
			res.Rejected = append(res.Rejected, RecordError{ID: rec.ID, Err: err})
			continue
		}
		apply(res.Stats, rec)
	}
	return res
}

func validate(rec *model.MatchRecord) error {
	switch {
	case rec.ModelA == "" || rec.ModelB == "":
		return fmt.Errorf("%w: model_a=%q model_b=%q", ErrMissingCompetitor, rec.ModelA, rec.ModelB)
	case rec.ModelA == rec.ModelB:
		return fmt.Errorf("%w: %s", ErrSelfMatch, rec.ModelA)
	case rec.Outcome.Kind() == model.OutcomeInvalid:
		return fmt.Errorf("%w: %v", ErrInvalidOutcome, float64(rec.Outcome))
	}
	return nil
}

func competitor(stats map[string]*model.CompetitorStats, name string) *model.CompetitorStats {
	c, ok := stats[name]
	if !ok {
		c = model.NewCompetitorStats(name)
		stats[name] = c
	}
	return c
}

func apply(stats map[string]*model.CompetitorStats, rec *model.MatchRecord) {
	a := competitor(stats, rec.ModelA)
	b := competitor(stats, rec.ModelB)
	ab := a.Opponent(rec.ModelB)
	ba := b.Opponent(rec.ModelA)

	switch rec.Outcome.Kind() {
	case model.OutcomeAWins:
		a.Wins++
		b.Losses++
		ab.Wins++
		ba.Losses++
	case model.OutcomeBWins:
		b.Wins++
		a.Losses++
		ba.Wins++
		ab.Losses++
	case model.OutcomeTie:
		a.Ties++
		b.Ties++
		ab.Ties++
		ba.Ties++
	case model.OutcomeInvalid:
		return
	}

	ab.Total++
	ba.Total++
	a.TotalGames++
	b.TotalGames++

	a.AddLatency(rec.ModelALatency)
	b.AddLatency(rec.ModelBLatency)
}

// Names returns the competitor names in ascending order.
func Names(stats map[string]*model.CompetitorStats) []string {
	names := make([]string, 0, len(stats))
	for name := range stats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Pairings returns one pairing per unordered pair with at least one game,
// sorted by (Subject, Opponent).
func Pairings(stats map[string]*model.CompetitorStats) []Pairing {
	var out []Pairing
	for _, subject := range Names(stats) {
		opponents := stats[subject].Opponents
		keys := make([]string, 0, len(opponents))
		for name := range opponents {
			if subject < name {
				keys = append(keys, name)
			}
		}
		sort.Strings(keys)
		for _, opp := range keys {
			h := opponents[opp]
			if h.Total <= 0 {
				continue
			}
			out = append(out, Pairing{
				Subject:  subject,
				Opponent: opp,
				Outcome:  h.WinFraction(),
				Weight:   float64(h.Total),
			})
		}
	}
	return out
}
