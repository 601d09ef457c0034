// Package types contains common types used across the application
package types

import "time"

// Entry represents a leaderboard row.
type Entry struct {
	Rank              int      `json:"rank" yaml:"rank"`
	Model             string   `json:"model" yaml:"model"`
	Rating            float64  `json:"rating" yaml:"rating"`
	Lower             float64  `json:"lower" yaml:"lower"`
	Upper             float64  `json:"upper" yaml:"upper"`
	WinRate           *float64 `json:"win_rate" yaml:"win_rate"`
	AvgFirstToken     *float64 `json:"avg_time_to_first_token,omitempty" yaml:"avg_time_to_first_token,omitempty"`
	AvgTotalTime      *float64 `json:"avg_total_time,omitempty" yaml:"avg_total_time,omitempty"`
	AvgResponseLength *float64 `json:"avg_response_length,omitempty" yaml:"avg_response_length,omitempty"`
	Wins              int      `json:"wins" yaml:"wins"`
	Losses            int      `json:"losses" yaml:"losses"`
	Ties              int      `json:"ties" yaml:"ties"`
	TotalGames        int      `json:"total_games" yaml:"total_games"`
	InsufficientData  bool     `json:"insufficient_data,omitempty" yaml:"insufficient_data,omitempty"`
}

// MatchupRow is one opponent line of a competitor's head-to-head view.
type MatchupRow struct {
	Opponent    string  `json:"opponent" yaml:"opponent"`
	Wins        int     `json:"wins" yaml:"wins"`
	Losses      int     `json:"losses" yaml:"losses"`
	Ties        int     `json:"ties" yaml:"ties"`
	Total       int     `json:"total" yaml:"total"`
	WinFraction float64 `json:"win_fraction" yaml:"win_fraction"`
}

// HistoryPoint is a past rating of a competitor.
type HistoryPoint struct {
	RunID      string    `json:"run_id"`
	Model      string    `json:"model"`
	Rating     float64   `json:"rating"`
	Lower      float64   `json:"lower"`
	Upper      float64   `json:"upper"`
	TotalGames int       `json:"total_games"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Status describes the refresh loop.
type Status struct {
	RunID               string     `json:"run_id,omitempty"`
	LastSuccess         *time.Time `json:"last_success,omitempty"`
	LastAttempt         *time.Time `json:"last_attempt,omitempty"`
	LastError           string     `json:"last_error,omitempty"`
	LastErrorAt         *time.Time `json:"last_error_at,omitempty"`
	ConsecutiveFailures int        `json:"consecutive_failures"`
	Records             int        `json:"records"`
	Rejected            int        `json:"rejected"`
	Competitors         int        `json:"competitors"`
	Rounds              int        `json:"rounds"`
	ConvergedRounds     int        `json:"converged_rounds"`
	Converged           bool       `json:"converged"`
	Refreshing          bool       `json:"refreshing"`
}

// RefreshReport summarizes one successful refresh.
type RefreshReport struct {
	RunID           string        `json:"run_id" yaml:"run_id"`
	Records         int           `json:"records" yaml:"records"`
	Rejected        int           `json:"rejected" yaml:"rejected"`
	Competitors     int           `json:"competitors" yaml:"competitors"`
	Pairings        int           `json:"pairings" yaml:"pairings"`
	Rounds          int           `json:"rounds" yaml:"rounds"`
	ConvergedRounds int           `json:"converged_rounds" yaml:"converged_rounds"`
	Converged       bool          `json:"converged" yaml:"converged"`
	FetchedAt       time.Time     `json:"fetched_at" yaml:"fetched_at"`
	Duration        time.Duration `json:"duration_ns" yaml:"duration_ns"`
}
