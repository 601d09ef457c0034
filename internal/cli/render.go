package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/okian/arena/internal/domain/headtohead"
	"github.com/okian/arena/internal/domain/rating"
	"github.com/okian/arena/internal/domain/types"
)

// Output formats.
const (
	OutputTable = "table"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// maxListedRejections bounds the per-record lines printed for rejections.
const maxListedRejections = 10

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	topStyle    = cellStyle.Foreground(lipgloss.Color("46"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func validOutput(format string) error {
	switch format {
	case OutputTable, OutputJSON, OutputYAML:
		return nil
	default:
		return fmt.Errorf("%w: unknown output %q (table, json, yaml)", ErrUsage, format)
	}
}

// render writes v as JSON or YAML, or calls table for the table format.
func render(w io.Writer, format string, v any, tbl func() string) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		_, err := fmt.Fprintln(w, tbl())
		return err
	}
}

func optional(v *float64, prec int) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', prec, 64)
}

func leaderboardTable(entries []types.Entry) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("RANK", "MODEL", "RATING", "95% CI", "WIN %", "W", "L", "T", "GAMES", "TTFT", "TOTAL", "LENGTH").
		StyleFunc(func(row, _ int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row < len(entries) && entries[row].Rank == 1:
				return topStyle
			default:
				return cellStyle
			}
		})
	for _, e := range entries {
		winRate := "n/a"
		if !e.InsufficientData {
			winRate = optional(e.WinRate, 1)
		}
		t.Row(
			strconv.Itoa(e.Rank),
			e.Model,
			strconv.FormatFloat(e.Rating, 'f', 0, 64),
			fmt.Sprintf("%.0f to %.0f", e.Lower, e.Upper),
			winRate,
			strconv.Itoa(e.Wins),
			strconv.Itoa(e.Losses),
			strconv.Itoa(e.Ties),
			strconv.Itoa(e.TotalGames),
			optional(e.AvgFirstToken, 2),
			optional(e.AvgTotalTime, 2),
			optional(e.AvgResponseLength, 0),
		)
	}
	return t.Render()
}

func matchupsTable(rows []types.MatchupRow) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("OPPONENT", "W", "L", "T", "TOTAL", "WIN FRACTION").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, r := range rows {
		t.Row(
			r.Opponent,
			strconv.Itoa(r.Wins),
			strconv.Itoa(r.Losses),
			strconv.Itoa(r.Ties),
			strconv.Itoa(r.Total),
			strconv.FormatFloat(r.WinFraction, 'f', 3, 64),
		)
	}
	return t.Render()
}

// warnRejected reports excluded records on w.
func warnRejected(w io.Writer, rejected []headtohead.RecordError) {
	if len(rejected) == 0 {
		return
	}
	warn := color.New(color.FgYellow)
	_, _ = warn.Fprintf(w, "warning: %d record(s) rejected\n", len(rejected))
	for i, r := range rejected {
		if i == maxListedRejections {
			_, _ = fmt.Fprintf(w, "  ... and %d more\n", len(rejected)-maxListedRejections)
			break
		}
		_, _ = fmt.Fprintf(w, "  %s: %s\n", r.Reason(), r.Error())
	}
}

// warnConvergence reports rounds that hit the iteration cap.
func warnConvergence(w io.Writer, res rating.Result) {
	if res.Converged {
		return
	}
	_, _ = color.New(color.FgYellow).Fprintf(w,
		"warning: %d of %d bootstrap round(s) stopped at the iteration cap; ratings of undefeated or winless models are lower bounds\n",
		res.Rounds-res.ConvergedRounds, res.Rounds)
}

func printError(w io.Writer, err error) {
	_, _ = color.New(color.FgRed, color.Bold).Fprint(w, "error: ")
	_, _ = fmt.Fprintln(w, err)
}
