package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/go-drift/vdom/cmd/vdom/internal/bench"
)

func init() {
	RegisterCommand(newBenchCommand())
}

func newBenchCommand() *cobra.Command {
	cfg := bench.Config{Size: 1000, Iters: 100}
	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure reconciliation of large child lists",
		Long: `Bench renders three workloads repeatedly into an in-memory document:

  keyed reorder        a keyed list rotated by one position per render
  unkeyed shrink/grow  a positional list alternating between N and N/2 items
  attribute churn      N elements each changing one attribute per render

Every scenario is checked against a fresh mount of its final descriptor.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBench(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}
	cmd.Flags().IntVar(&cfg.Size, "size", cfg.Size, "children per list")
	cmd.Flags().IntVar(&cfg.Iters, "iters", cfg.Iters, "timed renders per scenario")
	return cmd
}

func runBench(ctx context.Context, w io.Writer, cfg bench.Config) error {
	results, err := bench.Run(ctx, cfg)
	if err != nil {
		return err
	}

	tbl := table.NewWriter()
	tbl.SetTitle(fmt.Sprintf("vdom reconcile, %s children", humanize.Comma(int64(cfg.Size))))
	tbl.SetOutputMirror(w)
	tbl.AppendHeader(table.Row{"scenario", "renders", "avg", "min", "p75", "p99", "max", "host ops", "ops/render", "converged"})
	for _, r := range results {
		calc := r.Timing
		tbl.AppendRow(table.Row{
			r.Name,
			humanize.Comma(int64(r.Iters)),
			calc.Time.Avg,
			calc.Time.Min,
			calc.Time.P75,
			calc.Time.P99,
			calc.Time.Max,
			humanize.Comma(r.HostOps),
			humanize.Comma(r.HostOps / int64(r.Iters)),
			r.Converged,
		})
	}
	tbl.Render()

	for _, r := range results {
		if !r.Converged {
			return fmt.Errorf("bench: %s diverged from a fresh mount", r.Name)
		}
	}
	return nil
}
