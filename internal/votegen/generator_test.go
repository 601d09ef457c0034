package votegen

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/arena/internal/domain/headtohead"
	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/internal/domain/rating"
	"github.com/okian/arena/internal/domain/standings"
	"github.com/okian/arena/internal/domain/types"
	"github.com/okian/arena/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()

	Convey("Given the default config", t, func() {
		cfg := NewConfig(WithVotes(2000), WithSeed(42))

		Convey("When generating twice with the same seed", func() {
			first, err := Generate(ctx, cfg)
			So(err, ShouldBeNil)
			second, err := Generate(ctx, cfg)
			So(err, ShouldBeNil)

			Convey("Then the records are identical", func() {
				So(len(first), ShouldEqual, 2000)
				So(second, ShouldResemble, first)
			})

			Convey("Then every record is a valid vote between distinct competitors", func() {
				ids := map[string]bool{}
				for _, r := range first {
					So(r.ModelA, ShouldNotEqual, r.ModelB)
					So(r.Outcome.Kind(), ShouldNotEqual, model.OutcomeInvalid)
					So(ids[r.ID], ShouldBeFalse)
					ids[r.ID] = true
				}
			})

			Convey("Then ties appear near the configured rate", func() {
				ties := 0
				for _, r := range first {
					if r.Outcome.Kind() == model.OutcomeTie {
						ties++
					}
				}
				So(float64(ties)/2000, ShouldAlmostEqual, DefaultTieRate, 0.03)
			})
		})

		Convey("When the seed changes", func() {
			a, _ := Generate(ctx, cfg)
			b, _ := Generate(ctx, NewConfig(WithVotes(2000), WithSeed(43)))

			Convey("Then the records differ", func() {
				So(b, ShouldNotResemble, a)
			})
		})
	})

	Convey("Given latency disabled", t, func() {
		records, err := Generate(ctx, NewConfig(WithVotes(100), WithLatencyRate(0)))
		So(err, ShouldBeNil)
		for _, r := range records {
			So(r.ModelALatency, ShouldBeNil)
			So(r.ModelBLatency, ShouldBeNil)
		}
	})

	Convey("Given invalid configs", t, func() {
		_, err := Generate(ctx, NewConfig(WithCompetitors(Competitor{Name: "solo"})))
		So(errors.Is(err, ErrTooFewCompetitors), ShouldBeTrue)

		_, err = Generate(ctx, NewConfig(WithCompetitors(Competitor{Name: "a"}, Competitor{Name: "a"})))
		So(errors.Is(err, ErrDuplicateName), ShouldBeTrue)

		_, err = Generate(ctx, NewConfig(WithTieRate(1.5)))
		So(errors.Is(err, ErrInvalidConfig), ShouldBeTrue)

		_, err = Generate(ctx, NewConfig(WithScale(1, 400)))
		So(errors.Is(err, ErrInvalidConfig), ShouldBeTrue)
	})

	Convey("Given a canceled context", t, func() {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := Generate(cctx, NewConfig())
		So(errors.Is(err, context.Canceled), ShouldBeTrue)
	})
}

func TestWinProbability(t *testing.T) {
	Convey("Given the default scale", t, func() {
		cfg := NewConfig()
		a := Competitor{Name: "a", Rating: 1400}
		b := Competitor{Name: "b", Rating: 1000}

		So(cfg.WinProbability(a, a), ShouldAlmostEqual, 0.5, 1e-12)
		So(cfg.WinProbability(a, b), ShouldAlmostEqual, 10.0/11.0, 1e-12)
		So(cfg.WinProbability(a, b)+cfg.WinProbability(b, a), ShouldAlmostEqual, 1, 1e-12)
	})
}

func TestRecoversTrueOrder(t *testing.T) {
	Convey("Given votes sampled from well separated ratings", t, func() {
		roster := []Competitor{
			{Name: "w", Rating: 1300},
			{Name: "x", Rating: 1200},
			{Name: "y", Rating: 1100},
			{Name: "z", Rating: 1000},
		}
		records, err := Generate(context.Background(), NewConfig(
			WithCompetitors(roster...),
			WithVotes(4000),
			WithSeed(7),
		))
		So(err, ShouldBeNil)

		Convey("When rating them", func() {
			agg := headtohead.Aggregate(records)
			So(agg.Rejected, ShouldBeEmpty)
			res, err := rating.NewEngine(rating.WithBootstrap(20, 1)).Rate(context.Background(), agg.Stats)
			So(err, ShouldBeNil)
			entries := standings.Build(agg.Stats, res)

			Convey("Then the fitted order matches the true order", func() {
				So(Concordance(roster, entries), ShouldEqual, 1)
				So(entries[0].Model, ShouldEqual, "w")
				So(entries[3].Model, ShouldEqual, "z")
			})
		})
	})
}

func TestConcordance(t *testing.T) {
	Convey("Given true ratings", t, func() {
		truth := []Competitor{{Name: "a", Rating: 3}, {Name: "b", Rating: 2}, {Name: "c", Rating: 1}}

		Convey("Then a matching order scores 1", func() {
			entries := []types.Entry{{Model: "a", Rating: 30}, {Model: "b", Rating: 20}, {Model: "c", Rating: 10}}
			So(Concordance(truth, entries), ShouldEqual, 1)
		})

		Convey("Then one swapped pair scores 2/3", func() {
			entries := []types.Entry{{Model: "a", Rating: 30}, {Model: "b", Rating: 5}, {Model: "c", Rating: 10}}
			So(Concordance(truth, entries), ShouldAlmostEqual, 2.0/3.0, 1e-12)
		})

		Convey("Then missing competitors are skipped", func() {
			So(Concordance(truth, nil), ShouldEqual, 1)
		})
	})
}
