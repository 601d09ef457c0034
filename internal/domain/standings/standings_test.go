package standings

import (
	"testing"

	"github.com/okian/arena/internal/domain/headtohead"
	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/internal/domain/rating"
	"github.com/okian/arena/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestBuild(t *testing.T) {
	Convey("Given rated competitors", t, func() {
		records := []model.MatchRecord{
			{ID: "1", ModelA: "A", ModelB: "B", Outcome: 0,
				ModelALatency: &model.Latency{TimeToFirstToken: 1, TotalTime: 4, ResponseLength: 10},
				ModelBLatency: &model.Latency{TimeToFirstToken: 2, TotalTime: 6, ResponseLength: 20}},
			{ID: "2", ModelA: "A", ModelB: "B", Outcome: 0.5,
				ModelALatency: &model.Latency{TimeToFirstToken: 3, TotalTime: 8, ResponseLength: 30}},
			{ID: "3", ModelA: "C", ModelB: "B", Outcome: 0},
		}
		stats := headtohead.Aggregate(records).Stats
		res := rating.Result{Ratings: map[string]rating.Estimate{
			"A": {Rating: 1100, Lower: 1050, Upper: 1150},
			"B": {Rating: 900, Lower: 850, Upper: 950},
			"C": {Rating: 1100, Lower: 1000, Upper: 1200},
		}}

		entries := Build(stats, res)

		Convey("Then rows are sorted with dense ranks", func() {
			So(len(entries), ShouldEqual, 3)
			So(entries[0].Model, ShouldEqual, "A")
			So(entries[1].Model, ShouldEqual, "C")
			So(entries[2].Model, ShouldEqual, "B")
			So(entries[0].Rank, ShouldEqual, 1)
			So(entries[1].Rank, ShouldEqual, 1)
			So(entries[2].Rank, ShouldEqual, 2)
		})

		Convey("Then win rates count ties as half", func() {
			So(*entries[0].WinRate, ShouldAlmostEqual, 75)
			So(*entries[2].WinRate, ShouldAlmostEqual, 100.0/6)
			for _, e := range entries {
				So(*e.WinRate, ShouldBeBetweenOrEqual, 0, 100)
			}
		})

		Convey("Then latency averages use the number of samples", func() {
			So(*entries[0].AvgFirstToken, ShouldAlmostEqual, 2)
			So(*entries[0].AvgTotalTime, ShouldAlmostEqual, 6)
			So(*entries[0].AvgResponseLength, ShouldAlmostEqual, 20)
			So(entries[1].AvgTotalTime, ShouldBeNil)
		})
	})

	Convey("Given a competitor without games", t, func() {
		stats := map[string]*model.CompetitorStats{"Z": model.NewCompetitorStats("Z")}
		entries := Build(stats, rating.Result{})

		Convey("Then it is flagged instead of producing NaN", func() {
			So(entries[0].WinRate, ShouldBeNil)
			So(entries[0].InsufficientData, ShouldBeTrue)
		})
	})
}

func TestApply(t *testing.T) {
	Convey("Given stats and a result", t, func() {
		stats := map[string]*model.CompetitorStats{"A": model.NewCompetitorStats("A")}
		Apply(stats, rating.Result{Ratings: map[string]rating.Estimate{"A": {Rating: 1, Lower: 0, Upper: 2}}})
		So(stats["A"].Rating, ShouldEqual, 1)
		So(stats["A"].Upper, ShouldEqual, 2)
	})
}

func TestAssignRanks(t *testing.T) {
	Convey("Given no entries", t, func() {
		So(func() { AssignRanks(nil) }, ShouldNotPanic)
	})

	Convey("Given tied ratings", t, func() {
		entries := []types.Entry{{Model: "a", Rating: 5}, {Model: "b", Rating: 5}, {Model: "c", Rating: 3}, {Model: "d", Rating: 1}}
		AssignRanks(entries)
		So([]int{entries[0].Rank, entries[1].Rank, entries[2].Rank, entries[3].Rank}, ShouldResemble, []int{1, 1, 2, 3})
	})
}

func TestMatchups(t *testing.T) {
	Convey("Given head-to-head data", t, func() {
		stats := headtohead.Aggregate([]model.MatchRecord{
			{ID: "1", ModelA: "A", ModelB: "C", Outcome: 0},
			{ID: "2", ModelA: "B", ModelB: "A", Outcome: 0.5},
		}).Stats

		Convey("Then rows are sorted by opponent", func() {
			rows, ok := Matchups(stats, "A")
			So(ok, ShouldBeTrue)
			So(len(rows), ShouldEqual, 2)
			So(rows[0].Opponent, ShouldEqual, "B")
			So(rows[0].Ties, ShouldEqual, 1)
			So(rows[0].WinFraction, ShouldEqual, 0.5)
			So(rows[1].Opponent, ShouldEqual, "C")
			So(rows[1].WinFraction, ShouldEqual, 1)
		})

		Convey("Then unknown models are reported", func() {
			_, ok := Matchups(stats, "nope")
			So(ok, ShouldBeFalse)
		})
	})
}
