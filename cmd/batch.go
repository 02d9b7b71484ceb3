package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ntkit/ntsolve/internal/engine"
	"github.com/ntkit/ntsolve/internal/model"
	"github.com/ntkit/ntsolve/internal/store"
)

var (
	batchFile        string
	batchConcurrency int
	batchSave        bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Resolve every scenario in a YAML fixture file",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		fixtures, err := model.LoadFixtures(batchFile)
		if err != nil {
			return err
		}

		var st store.Store
		if batchSave {
			st, err = initStore(cmd)
			if err != nil {
				return eris.Wrap(err, "open history store")
			}
			if st == nil {
				return eris.New("--save requires store.path to be configured")
			}
			defer st.Close() //nolint:errcheck
		}

		results, err := runBatch(ctx, newEngine(), fixtures, batchConcurrency)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, r := range results {
			fmt.Fprintf(out, "--- %s\n", r.Name)
			formatScenario(out, r.Resolved)

			if st != nil {
				if _, err := st.Save(ctx, r.Input, r.Resolved, "batch"); err != nil {
					zap.L().Warn("batch: failed to record history",
						zap.String("scenario", r.Name),
						zap.Error(err),
					)
				}
			}
		}

		zap.L().Info("batch complete", zap.Int("scenarios", len(results)))
		return nil
	},
}

// batchResult pairs a fixture with its resolution.
type batchResult struct {
	Name     string
	Input    model.Scenario
	Resolved model.Scenario
}

// runBatch resolves all fixtures with bounded concurrency. Results come back
// in input order regardless of completion order. Resolution itself cannot
// fail; only cancellation aborts the run.
func runBatch(ctx context.Context, eng *engine.Engine, fixtures []model.NamedScenario, concurrency int) ([]batchResult, error) {
	if concurrency <= 0 {
		concurrency = 4
	}

	results := make([]batchResult, len(fixtures))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, f := range fixtures {
		i, f := i, f
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = batchResult{
				Name:     f.Name,
				Input:    f.Scenario,
				Resolved: eng.Resolve(f.Scenario),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "batch interrupted")
	}
	return results, nil
}

func init() {
	batchCmd.Flags().StringVar(&batchFile, "file", "", "YAML fixture file of named scenarios")
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 4, "max scenarios resolved in parallel")
	batchCmd.Flags().BoolVar(&batchSave, "save", false, "record each solve in the history store")
	batchCmd.MarkFlagRequired("file") //nolint:errcheck
	rootCmd.AddCommand(batchCmd)
}
