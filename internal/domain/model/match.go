// Package model contains domain models passed between layers.
package model

import "math"

// Outcome is the numeric vote result: 0 = A wins, 1 = B wins, 0.5 = tie.
type Outcome float64

// OutcomeKind classifies an Outcome value.
type OutcomeKind int

const (
	OutcomeInvalid OutcomeKind = iota
	OutcomeAWins
	OutcomeBWins
	OutcomeTie
)

// Numeric encodings used by the vote feed.
const (
	ValueAWins Outcome = 0
	ValueBWins Outcome = 1
	ValueTie   Outcome = 0.5
)

// Kind classifies the outcome. Anything other than 0, 0.5 or 1 is invalid.
func (o Outcome) Kind() OutcomeKind {
	v := float64(o)
	switch {
	case math.IsNaN(v):
		return OutcomeInvalid
	case v == float64(ValueAWins):
		return OutcomeAWins
	case v == float64(ValueBWins):
		return OutcomeBWins
	case v == float64(ValueTie):
		return OutcomeTie
	default:
		return OutcomeInvalid
	}
}

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeAWins:
		return "a_wins"
	case OutcomeBWins:
		return "b_wins"
	case OutcomeTie:
		return "tie"
	default:
		return "invalid"
	}
}

// Latency holds one side's optional response timings.
type Latency struct {
	TimeToFirstToken float64 // seconds
	TotalTime        float64 // seconds
	ResponseLength   float64
}

// MatchRecord is one observed pairwise comparison.
type MatchRecord struct {
	ID            string
	ModelA        string
	ModelB        string
	Outcome       Outcome
	ModelALatency *Latency
	ModelBLatency *Latency
}
