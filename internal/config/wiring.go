package config

import (
	"github.com/okian/arena/internal/adapters/feed"
	"github.com/okian/arena/internal/domain/rating"
)

// RatingOptions maps the engine keys onto rating options.
func (c *Config) RatingOptions() []rating.Option {
	opts := []rating.Option{
		rating.WithBase(c.Base),
		rating.WithScale(c.Scale, c.InitRating),
		rating.WithConvergence(c.Tolerance, c.MaxIterations),
		rating.WithLearningRate(c.LearningRate),
		rating.WithBootstrap(c.BootstrapRounds, c.Seed),
		rating.WithParallelism(c.Parallelism),
	}
	if c.Anchor != "" {
		opts = append(opts, rating.WithAnchor(c.Anchor, c.AnchorRating))
	}
	return opts
}

// FeedOptions maps the feed keys onto client options.
func (c *Config) FeedOptions() []feed.Option {
	return []feed.Option{
		feed.WithProxy(c.ProxyURL),
		feed.WithTimeout(c.FetchTimeout),
		feed.WithMaxBytes(c.MaxFeedBytes),
		feed.WithSchemaValidation(c.ValidateSchema),
	}
}
