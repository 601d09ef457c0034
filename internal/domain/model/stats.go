package model

// HeadToHeadRecord tallies results against one opponent from the subject's
// perspective.
type HeadToHeadRecord struct {
	Wins   int
	Losses int
	Ties   int
	Total  int
}

// WinFraction returns (wins + ties/2) / total, or 0 when no games were played.
func (h HeadToHeadRecord) WinFraction() float64 {
	if h.Total == 0 {
		return 0
	}
	return (float64(h.Wins) + 0.5*float64(h.Ties)) / float64(h.Total)
}

// CompetitorStats aggregates everything known about one competitor.
// Rating, Lower and Upper are zero until a rating fit has run.
type CompetitorStats struct {
	Model      string
	Wins       int
	Losses     int
	Ties       int
	TotalGames int

	FirstTokenTotal     float64
	TotalTimeTotal      float64
	ResponseLengthTotal float64
	LatencySamples      int

	Opponents map[string]*HeadToHeadRecord

	Rating float64
	Lower  float64
	Upper  float64
}

// NewCompetitorStats returns empty stats for a competitor.
func NewCompetitorStats(name string) *CompetitorStats {
	return &CompetitorStats{Model: name, Opponents: make(map[string]*HeadToHeadRecord)}
}

// Opponent returns the head-to-head record against name, creating it if needed.
func (c *CompetitorStats) Opponent(name string) *HeadToHeadRecord {
	h, ok := c.Opponents[name]
	if !ok {
		h = &HeadToHeadRecord{}
		c.Opponents[name] = h
	}
	return h
}

// AddLatency folds one latency sample into the sums.
func (c *CompetitorStats) AddLatency(l *Latency) {
	if l == nil {
		return
	}
	c.FirstTokenTotal += l.TimeToFirstToken
	c.TotalTimeTotal += l.TotalTime
	c.ResponseLengthTotal += l.ResponseLength
	c.LatencySamples++
}

// WinRate returns the percentage (wins + ties/2) / total * 100 and false when
// no games were played.
func (c *CompetitorStats) WinRate() (float64, bool) {
	if c.TotalGames == 0 {
		return 0, false
	}
	return (float64(c.Wins) + 0.5*float64(c.Ties)) / float64(c.TotalGames) * 100, true
}
