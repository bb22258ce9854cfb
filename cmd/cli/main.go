package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"stratcheck/adapters/excel"
	"stratcheck/adapters/fsregistry"
	"stratcheck/domain/contract"
	"stratcheck/domain/core"
	"stratcheck/domain/pareto"
	"stratcheck/internal/analysis"
	"stratcheck/internal/config"
	"stratcheck/internal/report"
	"stratcheck/ports"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "stratcheck",
		Short: "Statistical validation of backtest results",
	}

	rootCmd.AddCommand(
		newListCmd(),
		newShowCmd(),
		newDeleteCmd(),
		newCountCmd(),
		newParetoCmd(),
		newCompareCmd(),
		newImportStatsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func setup() (*config.Config, *fsregistry.Registry, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	registry, err := fsregistry.New(cfg.Storage.Dir, log)
	if err != nil {
		return nil, nil, err
	}
	return cfg, registry, nil
}

func newListCmd() *cobra.Command {
	var strategy string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, registry, err := setup()
			if err != nil {
				return err
			}
			summaries, err := registry.ListRuns(cmd.Context(), ports.ListFilter{Strategy: strategy, Limit: limit})
			if err != nil {
				return err
			}
			for _, s := range summaries {
				fmt.Printf("%s  %-24s %-16s %s\n", s.CreatedAt, s.StrategyName, s.EngineName, s.RunID)
			}
			fmt.Printf("%d run(s)\n", len(summaries))
			return nil
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", "", "Filter by strategy name (case-insensitive)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of runs to list")
	return cmd
}

func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [run-id]",
		Short: "Print one run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, registry, err := setup()
			if err != nil {
				return err
			}
			runID, err := core.ParseRunID(args[0])
			if err != nil {
				return err
			}
			result, err := registry.Load(cmd.Context(), runID)
			if err != nil {
				return err
			}
			raw, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(raw))
			return nil
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [run-id]",
		Short: "Delete one run from the registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, registry, err := setup()
			if err != nil {
				return err
			}
			runID, err := core.ParseRunID(args[0])
			if err != nil {
				return err
			}
			return registry.Delete(cmd.Context(), runID)
		},
	}
}

func newCountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Count stored runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, registry, err := setup()
			if err != nil {
				return err
			}
			n, err := registry.Count(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Println(n)
			return nil
		},
	}
}

func newParetoCmd() *cobra.Command {
	var objectiveA, objectiveB string
	var minimizeA, maximizeB, asHTML bool

	cmd := &cobra.Command{
		Use:   "pareto",
		Short: "Classify stored runs into a Pareto front over two objectives",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, registry, err := setup()
			if err != nil {
				return err
			}
			results, err := loadAll(cmd.Context(), registry)
			if err != nil {
				return err
			}
			front, err := pareto.ComputeFront(pareto.CandidatesFromRuns(results), objectiveA, objectiveB, !minimizeA, maximizeB)
			if err != nil {
				return err
			}
			md := report.ParetoMarkdown(front)
			if asHTML {
				os.Stdout.Write(report.RenderHTML(md))
				return nil
			}
			fmt.Print(md)
			return nil
		},
	}

	cmd.Flags().StringVar(&objectiveA, "objective-a", contract.MetricCAGR, "First objective metric")
	cmd.Flags().StringVar(&objectiveB, "objective-b", contract.MetricMaxDrawdown, "Second objective metric")
	cmd.Flags().BoolVar(&minimizeA, "minimize-a", false, "Minimize the first objective instead of maximizing")
	cmd.Flags().BoolVar(&maximizeB, "maximize-b", false, "Maximize the second objective instead of minimizing")
	cmd.Flags().BoolVar(&asHTML, "html", false, "Render the report as HTML")
	return cmd
}

func newCompareCmd() *cobra.Command {
	var metric string
	var alpha float64
	var asHTML bool

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Pairwise paired t-tests across stored strategies on one metric",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, registry, err := setup()
			if err != nil {
				return err
			}
			if alpha == 0 {
				alpha = cfg.Analysis.Alpha
			}

			results, err := loadAll(cmd.Context(), registry)
			if err != nil {
				return err
			}
			byStrategy := map[string][]*contract.RunResult{}
			for _, r := range results {
				name := strings.ToLower(r.Metadata.StrategyName)
				byStrategy[name] = append(byStrategy[name], r)
			}

			table, err := analysis.CompareStrategies(byStrategy, metric, alpha)
			if err != nil {
				return err
			}
			md := report.ComparisonMarkdown(table)
			if asHTML {
				os.Stdout.Write(report.RenderHTML(md))
				return nil
			}
			fmt.Print(md)
			return nil
		},
	}

	cmd.Flags().StringVar(&metric, "metric", contract.MetricCAGR, "Metric to compare")
	cmd.Flags().Float64Var(&alpha, "alpha", 0, "Significance threshold (defaults to configured alpha)")
	cmd.Flags().BoolVar(&asHTML, "html", false, "Render the report as HTML")
	return cmd
}

func newImportStatsCmd() *cobra.Command {
	var strategy, engine, engineVersion, sheet string

	cmd := &cobra.Command{
		Use:   "import-stats [stats.xlsx]",
		Short: "Import an engine-exported stats workbook as a run result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, registry, err := setup()
			if err != nil {
				return err
			}

			reader := excel.NewStatsReaderForSheet(args[0], sheet)
			metrics, err := reader.ReadMetrics()
			if err != nil {
				return err
			}

			meta := contract.RunMetadata{
				RunID:         core.NewRunID(),
				EngineName:    engine,
				EngineVersion: engineVersion,
				StrategyName:  strategy,
				CreatedAt:     core.Now(),
				ConfigHash:    core.ComputeConfigHash(strategy, nil),
			}
			result, err := contract.NewRunResult(meta, metrics)
			if err != nil {
				return err
			}
			if err := registry.Save(cmd.Context(), result); err != nil {
				return err
			}
			fmt.Println(result.Metadata.RunID)
			return nil
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", "imported", "Strategy name for the imported run")
	cmd.Flags().StringVar(&engine, "engine", "external", "Engine name for the imported run")
	cmd.Flags().StringVar(&engineVersion, "engine-version", "unknown", "Engine version for the imported run")
	cmd.Flags().StringVar(&sheet, "sheet", "Sheet1", "Worksheet holding the stats table")
	return cmd
}

func loadAll(ctx context.Context, registry *fsregistry.Registry) ([]*contract.RunResult, error) {
	summaries, err := registry.ListRuns(ctx, ports.ListFilter{})
	if err != nil {
		return nil, err
	}
	results := make([]*contract.RunResult, 0, len(summaries))
	for _, s := range summaries {
		result, err := registry.Load(ctx, s.RunID)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}
