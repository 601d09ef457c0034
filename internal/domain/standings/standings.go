// Package standings turns rated competitor stats into leaderboard rows.
package standings

import (
	"sort"

	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/internal/domain/rating"
	"github.com/okian/arena/internal/domain/types"
)

// Build produces rows sorted by rating descending, then name ascending.
// Equal ratings share a rank and the next distinct rating takes the next
// consecutive rank. Derived ratios are nil when undefined.
func Build(stats map[string]*model.CompetitorStats, res rating.Result) []types.Entry {
	entries := make([]types.Entry, 0, len(stats))
	for name, c := range stats {
		est := res.Ratings[name]
		e := types.Entry{
			Model:      name,
			Rating:     est.Rating,
			Lower:      est.Lower,
			Upper:      est.Upper,
			Wins:       c.Wins,
			Losses:     c.Losses,
			Ties:       c.Ties,
			TotalGames: c.TotalGames,
		}
		if rate, ok := c.WinRate(); ok {
			e.WinRate = &rate
		} else {
			e.InsufficientData = true
		}
		if n := float64(c.LatencySamples); n > 0 {
			e.AvgFirstToken = ptr(c.FirstTokenTotal / n)
			e.AvgTotalTime = ptr(c.TotalTimeTotal / n)
			e.AvgResponseLength = ptr(c.ResponseLengthTotal / n)
		}
		entries = append(entries, e)
	}
	Sort(entries)
	AssignRanks(entries)
	return entries
}

// Apply copies estimates onto the stats in place.
func Apply(stats map[string]*model.CompetitorStats, res rating.Result) {
	for name, c := range stats {
		est := res.Ratings[name]
		c.Rating, c.Lower, c.Upper = est.Rating, est.Lower, est.Upper
	}
}

// Sort orders entries by rating DESC then model ASC.
func Sort(entries []types.Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Rating != entries[j].Rating {
			return entries[i].Rating > entries[j].Rating
		}
		return entries[i].Model < entries[j].Model
	})
}

// AssignRanks assigns dense ranks to sorted entries.
func AssignRanks(entries []types.Entry) {
	if len(entries) == 0 {
		return
	}
	rank := 1
	entries[0].Rank = rank
	for i := 1; i < len(entries); i++ {
		if entries[i].Rating != entries[i-1].Rating {
			rank++
		}
		entries[i].Rank = rank
	}
}

// Matchups returns the head-to-head rows of model sorted by opponent.
// The second return value is false when the model is unknown.
func Matchups(stats map[string]*model.CompetitorStats, name string) ([]types.MatchupRow, bool) {
	c, ok := stats[name]
	if !ok {
		return nil, false
	}
	rows := make([]types.MatchupRow, 0, len(c.Opponents))
	for opp, h := range c.Opponents {
		rows = append(rows, types.MatchupRow{
			Opponent:    opp,
			Wins:        h.Wins,
			Losses:      h.Losses,
			Ties:        h.Ties,
			Total:       h.Total,
			WinFraction: h.WinFraction(),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Opponent < rows[j].Opponent })
	return rows, true
}

func ptr(v float64) *float64 { return &v }
