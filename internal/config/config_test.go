package config_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/okian/arena/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New(context.Background())

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
			convey.So(cfg.PollInterval, convey.ShouldEqual, 5*time.Minute)
			convey.So(cfg.FetchTimeout, convey.ShouldEqual, 30*time.Second)
			convey.So(cfg.MaxFeedBytes, convey.ShouldEqual, 64<<20)
			convey.So(cfg.BootstrapRounds, convey.ShouldEqual, 100)
			convey.So(cfg.MaxIterations, convey.ShouldEqual, 1000)
			convey.So(cfg.Tolerance, convey.ShouldEqual, 1e-6)
			convey.So(cfg.LearningRate, convey.ShouldEqual, 0.5)
			convey.So(cfg.Base, convey.ShouldEqual, 10)
			convey.So(cfg.Scale, convey.ShouldEqual, 400)
			convey.So(cfg.InitRating, convey.ShouldEqual, 1000)
			convey.So(cfg.Parallelism, convey.ShouldBeGreaterThanOrEqualTo, 1)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with out-of-range values", t, func() {
		cases := map[string]func(*config.Config){
			"feed url":      func(c *config.Config) { c.FeedURL = " " },
			"poll interval": func(c *config.Config) { c.PollInterval = 0 },
			"tolerance":     func(c *config.Config) { c.Tolerance = 0 },
			"zero rate":     func(c *config.Config) { c.LearningRate = 0 },
			"large rate":    func(c *config.Config) { c.LearningRate = 1.5 },
			"base":          func(c *config.Config) { c.Base = 1 },
			"scale":         func(c *config.Config) { c.Scale = -1 },
			"parallelism":   func(c *config.Config) { c.Parallelism = 0 },
			"log format":    func(c *config.Config) { c.LogFormat = "xml" },
			"limit":         func(c *config.Config) { c.MaxLeaderboardLimit = 0 },
		}
		for name, mutate := range cases {
			cfg := config.New(context.Background())
			mutate(cfg)
			err := cfg.Validate()
			convey.So(err, convey.ShouldNotBeNil)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			_ = name
		}
	})

	convey.Convey("Given a learning rate of exactly 1", t, func() {
		cfg := config.New(context.Background())
		cfg.LearningRate = 1
		convey.So(cfg.Validate(), convey.ShouldBeNil)
	})
}
