package main

import (
	"fmt"
	"slices"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/baxromumarov/parx"
	"github.com/baxromumarov/parx/internal/errors"
	"github.com/baxromumarov/parx/params"
)

// spin is a deterministic CPU-bound step used to give elements some weight.
func spin(x, rounds int) int {
	h := x
	for range rounds {
		h = h*31 + 7
	}
	return h
}

func (a *app) sumCmd() *cobra.Command {
	var (
		n      int
		rounds int
	)
	cmd := &cobra.Command{
		Use:   "sum",
		Short: "Sum the integers in [0, n), optionally after a CPU-bound step",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := parx.FromRange(0, n).WithOrchestrator(a.orch).WithParams(a.params).WithContext(cmd.Context())
			if rounds > 0 {
				p = parx.Map(p, func(x int) int { return spin(x, rounds) })
			}
			sum, err := parx.Sum(p)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), sum)
			return nil
		},
	}
	cmd.Flags().IntVarP(&n, "n", "n", 1000, "number of elements")
	cmd.Flags().IntVar(&rounds, "rounds", 0, "CPU-bound rounds per element")
	return cmd
}

func (a *app) parseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse NUMBER...",
		Short: "Parse every argument as an unsigned integer, failing on the first invalid one",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := parx.FromSlice(args).WithOrchestrator(a.orch).WithParams(a.params).WithContext(cmd.Context())
			out, err := parx.TryMap(p, func(s string) (uint64, error) {
				return strconv.ParseUint(s, 10, 64)
			}).Collect()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func (a *app) takeWhileCmd() *cobra.Command {
	var n, below int
	cmd := &cobra.Command{
		Use:   "take-while",
		Short: "Collect the integers in [0, n) up to the first one not below a bound",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := parx.FromRange(0, n).WithOrchestrator(a.orch).WithParams(a.params).WithContext(cmd.Context()).
				TakeWhile(func(x int) bool { return x < below }).
				Collect()
			if err != nil {
				return err
			}
			if a.params.Order == params.Arbitrary {
				slices.Sort(out)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().IntVarP(&n, "n", "n", 100, "number of elements")
	cmd.Flags().IntVar(&below, "below", 50, "stop at the first element not below this bound")
	return cmd
}

func (a *app) benchCmd() *cobra.Command {
	var n, rounds, runs int
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time a CPU-bound sum sequentially and with the configured parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if runs < 1 {
				return errors.Errorf("--runs must be at least 1, got %d", runs)
			}

			cases := []struct {
				name string
				run  func() (int, error)
			}{
				{"sequential", func() (int, error) {
					return parx.Sum(parx.Map(parx.FromRange(0, n).WithOrchestrator(a.orch).NumThreads(1),
						func(x int) int { return spin(x, rounds) }))
				}},
				{"parallel", func() (int, error) {
					return parx.Sum(parx.Map(parx.FromRange(0, n).WithOrchestrator(a.orch).WithParams(a.params),
						func(x int) int { return spin(x, rounds) }))
				}},
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "MODE\tBEST\tMEAN\tRESULT")
			for _, c := range cases {
				best, total, result, err := timeRuns(runs, c.run)
				if err != nil {
					return err
				}
				a.logger.Info("bench", zap.String("mode", c.name), zap.Duration("best", best))
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", c.name, best, total/time.Duration(runs), result)
			}
			stats := a.orch.Stats()
			fmt.Fprintf(w, "\nthreads spawned: %d, chunks: %d\n", stats.Spawned, stats.Chunks)
			return w.Flush()
		},
	}
	cmd.Flags().IntVarP(&n, "n", "n", 1_000_000, "number of elements")
	cmd.Flags().IntVar(&rounds, "rounds", 64, "CPU-bound rounds per element")
	cmd.Flags().IntVar(&runs, "runs", 5, "repetitions per mode")
	return cmd
}

func timeRuns(runs int, run func() (int, error)) (best, total time.Duration, result int, err error) {
	for i := range runs {
		start := time.Now()
		result, err = run()
		if err != nil {
			return 0, 0, 0, err
		}
		d := time.Since(start)
		total += d
		if i == 0 || d < best {
			best = d
		}
	}
	return best, total, result, nil
}
