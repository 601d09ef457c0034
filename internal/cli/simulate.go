package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/arena/internal/adapters/feed"
	"github.com/okian/arena/internal/domain/headtohead"
	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/internal/domain/rating"
	"github.com/okian/arena/internal/domain/standings"
	"github.com/okian/arena/internal/votegen"
	"github.com/okian/arena/pkg/logger"
)

const (
	simulateFilePerm  = 0o600
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

type simulateOptions struct {
	votes       int
	seed        uint64
	tieRate     float64
	latencyRate float64
	out         string
	serve       string
	check       bool
}

func newSimulateCommand(g *globals) *cobra.Command {
	o := &simulateOptions{}
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Generate a synthetic vote log from known ratings",
		Long: `Samples votes between a built-in roster of models from the Bradley-Terry
win probability of their true ratings. The log is written to stdout, to --out,
or served over HTTP with --serve so a server can poll it as its feed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSimulate(cmd.Context(), g, o)
		},
	}
	f := cmd.Flags()
	f.IntVar(&o.votes, "votes", votegen.DefaultVotes, "number of votes")
	f.Uint64Var(&o.seed, "seed", 1, "random seed")
	f.Float64Var(&o.tieRate, "tie-rate", votegen.DefaultTieRate, "probability of a tie")
	f.Float64Var(&o.latencyRate, "latency-rate", votegen.DefaultLatencyRate, "probability that a vote carries latencies")
	f.StringVar(&o.out, "out", "", "write the vote log to this file")
	f.StringVar(&o.serve, "serve", "", "serve the vote log at this address until interrupted")
	f.BoolVar(&o.check, "check", false, "rate the generated votes and report how well the true order is recovered")
	cmd.MarkFlagsMutuallyExclusive("out", "serve")
	return cmd
}

func runSimulate(ctx context.Context, g *globals, o *simulateOptions) error {
	cfg := votegen.NewConfig(
		votegen.WithVotes(o.votes),
		votegen.WithSeed(o.seed),
		votegen.WithTieRate(o.tieRate),
		votegen.WithLatencyRate(o.latencyRate),
		votegen.WithScale(g.cfg.Base, g.cfg.Scale),
	)
	records, err := votegen.Generate(ctx, cfg)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	var doc bytes.Buffer
	if err := feed.Encode(&doc, records); err != nil {
		return err
	}

	if o.check {
		if err := checkRecovery(ctx, g, cfg, records); err != nil {
			return err
		}
	}

	switch {
	case o.out != "":
		if err := os.WriteFile(o.out, doc.Bytes(), simulateFilePerm); err != nil {
			return fmt.Errorf("write vote log: %w", err)
		}
		_, _ = fmt.Fprintf(g.errOut, "wrote %d votes to %s\n", len(records), o.out)
		return nil
	case o.serve != "":
		return serveDocument(ctx, g, o.serve, doc.Bytes(), len(records))
	default:
		_, err := g.out.Write(doc.Bytes())
		return err
	}
}

func checkRecovery(ctx context.Context, g *globals, cfg votegen.Config, records []model.MatchRecord) error {
	agg := headtohead.Aggregate(records)
	res, err := rating.NewEngine(g.cfg.RatingOptions()...).Rate(ctx, agg.Stats)
	if err != nil {
		return err
	}
	entries := standings.Build(agg.Stats, res)
	_, _ = fmt.Fprintf(g.errOut, "pairwise order recovered: %.1f%%\n", 100*votegen.Concordance(cfg.Competitors, entries))
	return nil
}

// serveDocument answers every GET with doc until ctx is done.
func serveDocument(ctx context.Context, g *globals, addr string, doc []byte, votes int) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(doc)
	})
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: readHeaderTimeout}

	errCh := make(chan error, 1)
	go func() {
		logger.Get().Info(ctx, "serving synthetic vote log", logger.String("addr", addr), logger.Int("votes", votes))
		errCh <- srv.ListenAndServe()
	}()
	_, _ = fmt.Fprintf(g.errOut, "serving %d votes on %s\n", votes, addr)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve vote log: %w", err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
