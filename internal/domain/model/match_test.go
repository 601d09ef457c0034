package model

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestOutcomeKind(t *testing.T) {
	Convey("Given numeric vote outcomes", t, func() {
		So(Outcome(0).Kind(), ShouldEqual, OutcomeAWins)
		So(Outcome(1).Kind(), ShouldEqual, OutcomeBWins)
		So(Outcome(0.5).Kind(), ShouldEqual, OutcomeTie)

		Convey("Values outside the encoding are invalid", func() {
			for _, v := range []float64{-1, 0.25, 0.7, 2, math.NaN(), math.Inf(1)} {
				So(Outcome(v).Kind(), ShouldEqual, OutcomeInvalid)
			}
			So(OutcomeInvalid.String(), ShouldEqual, "invalid")
		})
	})
}

func TestHeadToHeadWinFraction(t *testing.T) {
	Convey("Given head-to-head tallies", t, func() {
		So(HeadToHeadRecord{}.WinFraction(), ShouldEqual, 0)
		So(HeadToHeadRecord{Wins: 3, Losses: 1, Ties: 1, Total: 5}.WinFraction(), ShouldAlmostEqual, 0.7)
		So(HeadToHeadRecord{Ties: 2, Total: 2}.WinFraction(), ShouldEqual, 0.5)
	})
}

func TestCompetitorStats(t *testing.T) {
	Convey("Given competitor stats", t, func() {
		c := NewCompetitorStats("a")

		Convey("Win rate is undefined without games", func() {
			_, ok := c.WinRate()
			So(ok, ShouldBeFalse)
		})

		Convey("Win rate counts ties as half", func() {
			c.Wins, c.Losses, c.Ties, c.TotalGames = 3, 1, 1, 5
			rate, ok := c.WinRate()
			So(ok, ShouldBeTrue)
			So(rate, ShouldAlmostEqual, 70)
		})

		Convey("Opponent creates records lazily", func() {
			h := c.Opponent("b")
			h.Wins++
			So(c.Opponent("b").Wins, ShouldEqual, 1)
			So(len(c.Opponents), ShouldEqual, 1)
		})

		Convey("Nil latency is ignored", func() {
			c.AddLatency(nil)
			c.AddLatency(&Latency{TimeToFirstToken: 0.2, TotalTime: 1.5, ResponseLength: 30})
			So(c.LatencySamples, ShouldEqual, 1)
			So(c.TotalTimeTotal, ShouldEqual, 1.5)
		})
	})
}
