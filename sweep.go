package main

import (
	"fmt"
	"runtime"
	"sync"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"wigglybands/internal/sim"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run many seeds headless in parallel and summarise their outcomes",
	Long: `Runs one world per seed on a bounded worker pool using the loaded
configuration, then prints per-seed lifecycle counters and their totals.
Useful for tuning the harmonize and merge chances.`,
	Args: cobra.NoArgs,
	RunE: runSweep,
}

func init() {
	f := sweepCmd.Flags()
	f.IntVar(&sweepSeeds, "seeds", 16, "number of seeds to run")
	f.IntVar(&sweepTicks, "ticks", sweepTickDefault, "fixed steps per seed")
	f.IntVar(&sweepWorkers, "workers", runtime.NumCPU(), "concurrent worlds")
}

// sweepResult is the outcome of one seed.
type sweepResult struct {
	seed  int64
	bands int
	stats sim.Stats
}

// runSweep fans the seeds out over a worker pool. Each worker owns its
// world; only the result slot is shared.
func runSweep(cmd *cobra.Command, args []string) error {
	if sweepSeeds <= 0 {
		return fmt.Errorf("seeds %d must be positive", sweepSeeds)
	}
	settings, err := cfg.Settings()
	if err != nil {
		return err
	}
	base := cfg.Simulation.Seed
	if base == 0 {
		base = 1
	}

	results := make([]sweepResult, sweepSeeds)
	var mu sync.Mutex
	done := 0

	eg, ctx := errgroup.WithContext(cmd.Context())
	eg.SetLimit(max(sweepWorkers, 1))
	for i := range results {
		seed := base + int64(i)
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := runSeed(settings, seed)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			results[i] = r

			mu.Lock()
			done++
			logger.Debug("seed finished", zap.Int64("seed", seed), zap.Int("done", done))
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	return printSweep(cmd, results)
}

func runSeed(settings sim.Settings, seed int64) (sweepResult, error) {
	w, err := sim.NewWorld(settings, seed)
	if err != nil {
		return sweepResult{}, err
	}
	defer w.Close()
	for i := 0; i < cfg.Simulation.InitialBands; i++ {
		w.AddRandomBand()
	}
	runTicks(w, sweepTicks)
	return sweepResult{seed: seed, bands: w.Len(), stats: w.Stats()}, nil
}

func printSweep(cmd *cobra.Command, results []sweepResult) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "SEED\tBANDS\tMERGES\tRINGS\tTETHERS\tOSCILLATORS\tRELEASED\t")
	var total sim.Stats
	bands := 0
	for _, r := range results {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%d\t%d\t%d\t\n", r.seed, r.bands,
			r.stats.Merges, r.stats.Rings, r.stats.Tethers, r.stats.Oscillations, r.stats.Released)
		bands += r.bands
		total.Merges += r.stats.Merges
		total.Rings += r.stats.Rings
		total.Tethers += r.stats.Tethers
		total.Oscillations += r.stats.Oscillations
		total.Released += r.stats.Released
	}
	fmt.Fprintf(tw, "total\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
		humanize.Comma(int64(bands)), humanize.Comma(int64(total.Merges)),
		humanize.Comma(int64(total.Rings)), humanize.Comma(int64(total.Tethers)),
		humanize.Comma(int64(total.Oscillations)), humanize.Comma(int64(total.Released)))
	return tw.Flush()
}
