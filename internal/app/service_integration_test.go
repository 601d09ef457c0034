package service_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/arena/internal/adapters/feed"
	service "github.com/okian/arena/internal/app"
	"github.com/okian/arena/internal/domain/rating"
	. "github.com/smartystreets/goconvey/convey"
)

const integrationFeed = `{
  "_default": {
    "1": {"model_a": "gpt4o", "model_b": "qwen", "outcome": 0,
          "model_a_latency": {"time_to_first_token": 0.5, "total_time": 4, "response_length": 300},
          "model_b_latency": {"time_to_first_token": 0.3, "total_time": 2, "response_length": 200}},
    "2": {"model_a": "gpt4o", "model_b": "qwen", "outcome": 0},
    "3": {"model_a": "qwen", "model_b": "gpt4o", "outcome": 1},
    "4": {"model_a": "qwen", "model_b": "gemini", "outcome": 0.5},
    "5": {"model_a": "gemini", "model_b": "qwen", "outcome": 1},
    "6": {"model_a": "gpt4o", "model_b": "gemini", "outcome": 1},
    "7": {"model_a": "gemini", "model_b": "gpt4o", "outcome": 1},
    "8": {"model_a": "gemini", "model_b": "gemini", "outcome": 0},
    "9": {"model_a": "gpt4o", "model_b": "qwen", "outcome": "tie"}
  }
}`

func TestServiceIntegration(t *testing.T) {
	Convey("Given a service polling an HTTP vote feed", t, func() {
		var healthy atomic.Bool
		healthy.Store(true)
		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			hits.Add(1)
			if !healthy.Load() {
				http.Error(w, "unavailable", http.StatusServiceUnavailable)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(integrationFeed))
		}))
		defer srv.Close()

		client := feed.NewClient(srv.URL, feed.WithTimeout(5*time.Second))
		svc := service.New(
			service.WithFetcher(client),
			service.WithRater(rating.NewEngine(rating.WithBootstrap(30, 11), rating.WithParallelism(4))),
			service.WithPollInterval(time.Hour),
		)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		Convey("When refreshing end-to-end", func() {
			report, err := svc.Refresh(ctx)
			So(err, ShouldBeNil)
			So(hits.Load(), ShouldEqual, 1)

			Convey("Then malformed records are rejected and the rest ranked", func() {
				So(report.Records, ShouldEqual, 9)
				So(report.Rejected, ShouldEqual, 2)
				So(report.Competitors, ShouldEqual, 3)
				So(report.RunID, ShouldNotBeEmpty)

				entries, err := svc.TopN(ctx, 10)
				So(err, ShouldBeNil)
				So(len(entries), ShouldEqual, 3)
				So(entries[0].Rank, ShouldEqual, 1)
			})

			Convey("Then latency averages are reported", func() {
				entry, err := svc.Rank(ctx, "qwen")
				So(err, ShouldBeNil)
				So(entry.AvgTotalTime, ShouldNotBeNil)
				So(*entry.AvgTotalTime, ShouldEqual, 2)
			})

			Convey("And the feed starts failing", func() {
				healthy.Store(false)
				_, err := svc.Refresh(ctx)

				Convey("Then the HTTP status is reported and the leaderboard kept", func() {
					So(errors.Is(err, service.ErrRefreshFailed), ShouldBeTrue)
					So(errors.Is(err, feed.ErrHTTPStatus), ShouldBeTrue)
					So(svc.GetStats()["totalModels"], ShouldEqual, 3)
					So(svc.Status(ctx).ConsecutiveFailures, ShouldEqual, 1)
				})
			})
		})
	})
}
