package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/arena/internal/adapters/feed"
	"github.com/okian/arena/internal/domain/headtohead"
	"github.com/okian/arena/internal/domain/rating"
	"github.com/okian/arena/internal/domain/standings"
	"github.com/okian/arena/pkg/logger"
)

type rankOptions struct {
	file     string
	url      string
	output   string
	seed     uint64
	rounds   int
	limit    int
	anchor   string
	matchups string
}

func newRankCommand(g *globals) *cobra.Command {
	o := &rankOptions{}
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rate every model in a vote log and print the leaderboard",
		Long: `Reads a vote log from --file or --url (the configured feed URL when neither
is given), fits Bradley-Terry ratings with bootstrap confidence intervals and
prints the leaderboard. Rejected records and non-converged rounds are reported
on stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRank(cmd, g, o)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.file, "file", "", "read the vote log from a local JSON file")
	f.StringVar(&o.url, "url", "", "fetch the vote log from this URL")
	f.StringVarP(&o.output, "output", "o", OutputTable, "output format: table, json or yaml")
	f.Uint64Var(&o.seed, "seed", 0, "bootstrap seed (default from config)")
	f.IntVar(&o.rounds, "rounds", 0, "bootstrap rounds (default from config)")
	f.IntVar(&o.limit, "limit", 0, "print only the top N models")
	f.StringVar(&o.anchor, "anchor", "", "pin this model's rating to the configured anchor rating")
	f.StringVar(&o.matchups, "matchups", "", "print this model's head-to-head record instead of the leaderboard")
	cmd.MarkFlagsMutuallyExclusive("file", "url")
	return cmd
}

func runRank(cmd *cobra.Command, g *globals, o *rankOptions) error {
	ctx := cmd.Context()
	if err := validOutput(o.output); err != nil {
		return err
	}
	if o.limit < 0 {
		return fmt.Errorf("%w: --limit must not be negative", ErrUsage)
	}

	cfg := *g.cfg
	if cmd.Flags().Changed("seed") {
		cfg.Seed = o.seed
	}
	if cmd.Flags().Changed("rounds") {
		if o.rounds < 1 {
			return fmt.Errorf("%w: --rounds must be at least 1", ErrUsage)
		}
		cfg.BootstrapRounds = o.rounds
	}
	if o.anchor != "" {
		cfg.Anchor = o.anchor
	}

	batch, err := loadBatch(ctx, cfg.FeedOptions(), cfg.FeedURL, o)
	if err != nil {
		return err
	}

	agg := headtohead.Aggregate(batch.Records)
	rejected := append(batch.Undecodable, agg.Rejected...)
	warnRejected(g.errOut, rejected)

	if o.matchups != "" {
		rows, ok := standings.Matchups(agg.Stats, o.matchups)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownModel, o.matchups)
		}
		return render(g.out, o.output, rows, func() string { return matchupsTable(rows) })
	}

	res, err := rating.NewEngine(cfg.RatingOptions()...).Rate(ctx, agg.Stats)
	if err != nil {
		return err
	}
	warnConvergence(g.errOut, res)
	logger.Get().Info(ctx, "rated vote log",
		logger.Int("records", len(batch.Records)),
		logger.Int("rejected", len(rejected)),
		logger.Int("competitors", len(agg.Stats)),
		logger.Int("rounds", res.Rounds),
	)

	entries := standings.Build(agg.Stats, res)
	if o.limit > 0 && o.limit < len(entries) {
		entries = entries[:o.limit]
	}
	return render(g.out, o.output, entries, func() string { return leaderboardTable(entries) })
}

func loadBatch(ctx context.Context, opts []feed.Option, feedURL string, o *rankOptions) (feed.Batch, error) {
	if o.file != "" {
		return feed.LoadFile(o.file, opts...)
	}
	target := feedURL
	if o.url != "" {
		target = o.url
		// An explicit URL is fetched directly.
		opts = append(opts, feed.WithProxy(""))
	}
	return feed.NewClient(target, opts...).Fetch(ctx)
}
