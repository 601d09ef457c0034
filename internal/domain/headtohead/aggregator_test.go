package headtohead

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/internal/votegen"
	"github.com/okian/arena/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func rec(id, a, b string, outcome float64) model.MatchRecord {
	return model.MatchRecord{ID: id, ModelA: a, ModelB: b, Outcome: model.Outcome(outcome)}
}

func TestAggregate(t *testing.T) {
	Convey("Given no records", t, func() {
		res := Aggregate(nil)
		So(res.Stats, ShouldBeEmpty)
		So(res.Rejected, ShouldBeEmpty)
	})

	Convey("Given A beats B three times, ties once and loses once", t, func() {
		records := []model.MatchRecord{
			rec("1", "A", "B", 0),
			rec("2", "B", "A", 1),
			rec("3", "A", "B", 0),
			rec("4", "A", "B", 0.5),
			rec("5", "A", "B", 1),
		}
		res := Aggregate(records)

		Convey("Then A's head-to-head record matches", func() {
			ab := res.Stats["A"].Opponents["B"]
			So(ab.Wins, ShouldEqual, 3)
			So(ab.Losses, ShouldEqual, 1)
			So(ab.Ties, ShouldEqual, 1)
			So(ab.Total, ShouldEqual, 5)
			So(ab.WinFraction(), ShouldAlmostEqual, 0.7)
		})

		Convey("Then the records are symmetric", func() {
			ab := res.Stats["A"].Opponents["B"]
			ba := res.Stats["B"].Opponents["A"]
			So(ab.Wins, ShouldEqual, ba.Losses)
			So(ab.Losses, ShouldEqual, ba.Wins)
			So(ab.Ties, ShouldEqual, ba.Ties)
			So(ab.Total, ShouldEqual, ba.Total)
		})

		Convey("Then totals are conserved", func() {
			for _, c := range res.Stats {
				So(c.Wins+c.Losses+c.Ties, ShouldEqual, c.TotalGames)
			}
			So(res.Stats["A"].TotalGames+res.Stats["B"].TotalGames, ShouldEqual, 2*len(records))
		})
	})

	Convey("Given malformed records mixed with valid ones", t, func() {
		records := []model.MatchRecord{
			rec("a", "A", "B", 0),
			rec("b", "A", "A", 0),
			rec("c", "A", "B", 0.3),
			rec("d", "", "B", 1),
			rec("e", "B", "C", 0.5),
		}
		res := Aggregate(records)

		Convey("Then each malformed record is rejected with its kind", func() {
			So(len(res.Rejected), ShouldEqual, 3)
			So(res.Rejected[0].ID, ShouldEqual, "b")
			So(errors.Is(res.Rejected[0], ErrSelfMatch), ShouldBeTrue)
			So(errors.Is(res.Rejected[1], ErrInvalidOutcome), ShouldBeTrue)
			So(errors.Is(res.Rejected[2], ErrMissingCompetitor), ShouldBeTrue)
			So(res.Rejected[2].Reason(), ShouldEqual, "missing_competitor")
		})

		Convey("Then rejected records contribute nothing", func() {
			So(res.Stats["A"].TotalGames, ShouldEqual, 1)
			So(res.Stats["B"].TotalGames, ShouldEqual, 2)
			So(res.Stats["C"].TotalGames, ShouldEqual, 1)
			So(len(res.Stats), ShouldEqual, 3)
		})
	})

	Convey("Given names that differ only by surrounding whitespace", t, func() {
		res := Aggregate([]model.MatchRecord{
			rec("1", "A", "A ", 0),
			rec("2", " A", "B", 0),
			rec("3", "B\t", "A", 0.5),
		})

		Convey("Then they name the same competitor", func() {
			So(len(res.Rejected), ShouldEqual, 1)
			So(res.Rejected[0].ID, ShouldEqual, "1")
			So(errors.Is(res.Rejected[0], ErrSelfMatch), ShouldBeTrue)
			So(len(res.Stats), ShouldEqual, 2)
			So(res.Stats["A"].Opponents["B"].Total, ShouldEqual, 2)
			So(res.Stats["B"].Ties, ShouldEqual, 1)
		})
	})

	Convey("Given records with latency", t, func() {
		r := rec("1", "A", "B", 0)
		r.ModelALatency = &model.Latency{TimeToFirstToken: 0.5, TotalTime: 2, ResponseLength: 100}
		res := Aggregate([]model.MatchRecord{r, rec("2", "A", "B", 1)})

		So(res.Stats["A"].LatencySamples, ShouldEqual, 1)
		So(res.Stats["A"].TotalTimeTotal, ShouldEqual, 2)
		So(res.Stats["B"].LatencySamples, ShouldEqual, 0)
	})
}

func TestPairings(t *testing.T) {
	Convey("Given a three-way round robin", t, func() {
		res := Aggregate([]model.MatchRecord{
			rec("1", "C", "A", 1),
			rec("2", "B", "A", 0.5),
			rec("3", "B", "C", 0),
			rec("4", "A", "B", 0),
		})
		pairs := Pairings(res.Stats)

		Convey("Then there is one pairing per unordered pair, sorted", func() {
			So(len(pairs), ShouldEqual, 3)
			So(pairs[0].Subject, ShouldEqual, "A")
			So(pairs[0].Opponent, ShouldEqual, "B")
			So(pairs[1].Subject, ShouldEqual, "A")
			So(pairs[1].Opponent, ShouldEqual, "C")
			So(pairs[2].Subject, ShouldEqual, "B")
			So(pairs[2].Opponent, ShouldEqual, "C")
		})

		Convey("Then outcomes are from the subject's perspective", func() {
			So(pairs[0].Outcome, ShouldAlmostEqual, 0.75) // one tie, one win
			So(pairs[0].Weight, ShouldEqual, 2)
			So(pairs[1].Outcome, ShouldEqual, 1)
			So(pairs[2].Outcome, ShouldEqual, 1)
		})
	})
}

func TestAggregateInvariants(t *testing.T) {
	cases := []struct {
		votes int
		seed  uint64
		ties  float64
	}{
		{votes: 1, seed: 1, ties: 0},
		{votes: 50, seed: 2, ties: 0.2},
		{votes: 300, seed: 3, ties: 0.5},
		{votes: 3000, seed: 4, ties: 0.1},
		{votes: 500, seed: 5, ties: 1},
	}

	for _, tc := range cases {
		Convey(fmt.Sprintf("Given %d generated votes (seed %d, tie rate %.1f)", tc.votes, tc.seed, tc.ties), t, func() {
			records, err := votegen.Generate(context.Background(), votegen.NewConfig(
				votegen.WithVotes(tc.votes),
				votegen.WithSeed(tc.seed),
				votegen.WithTieRate(tc.ties),
			))
			So(err, ShouldBeNil)
			// Malformed records must not disturb any tally.
			records = append(records,
				rec("zz-self", "gpt4o", "gpt4o", 0),
				rec("zz-outcome", "gpt4o", "qwen", 0.7),
				rec("zz-empty", "", "qwen", 1),
			)
			res := Aggregate(records)
			accepted := len(records) - len(res.Rejected)
			So(len(res.Rejected), ShouldEqual, 3)

			Convey("Then every pair is symmetric and conserved", func() {
				pairGames := 0
				for x, cx := range res.Stats {
					for y, xy := range cx.Opponents {
						yx := res.Stats[y].Opponents[x]
						So(yx, ShouldNotBeNil)
						So(xy.Wins, ShouldEqual, yx.Losses)
						So(xy.Losses, ShouldEqual, yx.Wins)
						So(xy.Ties, ShouldEqual, yx.Ties)
						So(xy.Total, ShouldEqual, yx.Total)
						So(xy.Wins+xy.Losses+xy.Ties, ShouldEqual, xy.Total)
						So(xy.WinFraction(), ShouldBeBetweenOrEqual, 0, 1)
						So(xy.WinFraction()+yx.WinFraction(), ShouldAlmostEqual, 1, 1e-12)
						pairGames += xy.Total
					}
				}
				So(pairGames, ShouldEqual, 2*accepted)
			})

			Convey("Then every competitor's totals add up", func() {
				games := 0
				for _, c := range res.Stats {
					opponentGames := 0
					for _, h := range c.Opponents {
						opponentGames += h.Total
					}
					So(c.TotalGames, ShouldEqual, opponentGames)
					So(c.Wins+c.Losses+c.Ties, ShouldEqual, c.TotalGames)
					So(c.TotalGames, ShouldBeGreaterThan, 0)
					rate := (float64(c.Wins) + 0.5*float64(c.Ties)) / float64(c.TotalGames)
					So(rate, ShouldBeBetweenOrEqual, 0, 1)
					games += c.TotalGames
				}
				So(games, ShouldEqual, 2*accepted)
			})
		})
	}
}
