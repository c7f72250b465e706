package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/tourism-intel/internal/app"
	"github.com/couchcryptid/tourism-intel/internal/config"
	"github.com/couchcryptid/tourism-intel/internal/domain"
	"github.com/couchcryptid/tourism-intel/internal/observability"
	"github.com/couchcryptid/tourism-intel/internal/pipeline"
	"github.com/couchcryptid/tourism-intel/internal/report"
)

// cli is the state every subcommand shares, built once per invocation.
type cli struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
	clock   clockwork.Clock
}

func newRootCmd() *cobra.Command {
	rt := &cli{clock: clockwork.NewRealClock()}

	root := &cobra.Command{
		Use:           "tourism",
		Short:         "Synthetic tourism dataset tooling",
		Long:          "Seed, report on, generate and export the synthetic monthly tourism series for each city.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			rt.cfg = cfg
			rt.logger = observability.NewLogger(cfg)
			rt.metrics = observability.NewMetricsWithRegistry(prometheus.NewRegistry())
			return nil
		},
	}

	root.AddCommand(
		newSeedCmd(rt),
		newReportCmd(rt),
		newGenerateCmd(rt),
		newExportCmd(rt),
		newChartsCmd(rt),
	)
	return root
}

// withStore opens the configured store and the generator and runs fn,
// closing the store afterwards.
func (rt *cli) withStore(ctx context.Context, fn func(store domain.Store, gen *domain.Generator) error) error {
	gen, err := app.NewGenerator(rt.cfg)
	if err != nil {
		return err
	}
	store, closeStore, err := app.OpenStore(ctx, rt.cfg, rt.cfg.MongoDatabase, rt.logger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), rt.cfg.ShutdownTimeout)
		defer cancel()
		if err := closeStore(closeCtx); err != nil {
			rt.logger.Error("store close error", "error", err)
		}
	}()
	return fn(store, gen)
}

// seed runs the tourism seed; with force false it only fills an empty store.
func (rt *cli) seed(ctx context.Context, store domain.Store, gen *domain.Generator, force bool) (pipeline.Result, error) {
	seeder, closePublisher := app.NewSeeder(rt.cfg, gen, store, rt.logger, rt.metrics, force)
	defer func() {
		if err := closePublisher(); err != nil {
			rt.logger.Error("kafka writer close error", "error", err)
		}
	}()
	return seeder.SeedTourism(ctx)
}

func newSeedCmd(rt *cli) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate the dataset and write it to the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.withStore(cmd.Context(), func(store domain.Store, gen *domain.Generator) error {
				res, err := rt.seed(cmd.Context(), store, gen, force)
				if err != nil {
					return err
				}
				printSeedResult(cmd.OutOrStdout(), res)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "replace existing data")
	return cmd
}

func printSeedResult(w io.Writer, res pipeline.Result) {
	if res.Skipped {
		fmt.Fprintln(w, "Data already present; use --force to replace it.")
		return
	}
	fmt.Fprintf(w, "Seeded %d destinations, %d month points from %s, %d hotels, %d bookings.\n",
		res.Destinations, res.Points, res.StartDate.Format("Jan 2006"), res.Hotels, res.Bookings)
	if res.Published > 0 {
		fmt.Fprintf(w, "Published %d month points to Kafka.\n", res.Published)
	}
}

func newReportCmd(rt *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Interactive console report over the stored dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.withStore(cmd.Context(), func(store domain.Store, gen *domain.Generator) error {
				if _, err := rt.seed(cmd.Context(), store, gen, false); err != nil {
					return err
				}
				console := report.NewConsole(store, report.NewCharts(), rt.cfg.ChartDir,
					cmd.InOrStdin(), cmd.OutOrStdout(), rt.logger)
				return console.Run(cmd.Context(), gen.Cities())
			})
		},
	}
}

func newGenerateCmd(rt *cli) *cobra.Command {
	var (
		city   string
		seed   int64
		months int
		start  string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print one city's generated series as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			gen, err := app.NewGenerator(rt.cfg)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if !flags.Changed("seed") {
				seed = rt.cfg.Seed
			}
			if !flags.Changed("months") {
				months = rt.cfg.MonthCount
			}
			startDate, err := rt.startDate(start)
			if err != nil {
				return err
			}

			points, err := gen.Generate(city, seed, months, startDate)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), out, func(w io.Writer) error {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(points)
			})
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&city, "city", "", "city to generate (required)")
	flags.Int64Var(&seed, "seed", 0, "random seed (default SEED)")
	flags.IntVar(&months, "months", 0, "number of months (default MONTH_COUNT)")
	flags.StringVar(&start, "start", "", "start date YYYY-MM-DD (default START_DATE, else 330 days ago)")
	flags.StringVar(&out, "out", "", "write to this file instead of stdout")
	_ = cmd.MarkFlagRequired("city")
	return cmd
}

// startDate resolves the --start flag, then START_DATE, then the clock.
func (rt *cli) startDate(flag string) (time.Time, error) {
	if flag != "" {
		t, err := time.Parse(time.DateOnly, flag)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --start %q: expected YYYY-MM-DD", flag)
		}
		return t, nil
	}
	if !rt.cfg.StartDate.IsZero() {
		return rt.cfg.StartDate, nil
	}
	return pipeline.DefaultStartDate(rt.clock.Now()), nil
}

func newExportCmd(rt *cli) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the stored dataset to an Excel workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			return rt.withStore(ctx, func(store domain.Store, gen *domain.Generator) error {
				if _, err := rt.seed(ctx, store, gen, false); err != nil {
					return err
				}
				ds, err := loadDataset(ctx, store)
				if err != nil {
					return err
				}
				if err := writeOutput(nil, out, func(w io.Writer) error { return report.WriteWorkbook(w, ds) }); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Workbook written to %s\n", out)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&out, "out", "tourism.xlsx", "workbook path")
	return cmd
}

func newChartsCmd(rt *cli) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "charts",
		Short: "Render trend and revenue charts as PNG files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if dir == "" {
				dir = rt.cfg.ChartDir
			}
			return rt.withStore(ctx, func(store domain.Store, gen *domain.Generator) error {
				if _, err := rt.seed(ctx, store, gen, false); err != nil {
					return err
				}
				points, err := store.Points(ctx, domain.PointFilter{})
				if err != nil {
					return err
				}
				charts := report.NewCharts()
				outputs := []struct {
					name string
					save func(path string) error
				}{
					{"arrivals_trend.png", func(p string) error { return charts.SaveArrivalsTrend(points, p) }},
					{"revenue_trend.png", func(p string) error { return charts.SaveRevenueTrend(points, p) }},
					{"revenue_by_destination.png", func(p string) error {
						return charts.SaveRevenueByDestination(report.RevenueByDestination(points), p)
					}},
				}
				for _, o := range outputs {
					path := filepath.Join(dir, o.name)
					if err := o.save(path); err != nil {
						return fmt.Errorf("%s: %w", o.name, err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Chart saved to %s\n", path)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "output directory (default CHART_DIR)")
	return cmd
}

func loadDataset(ctx context.Context, store domain.Store) (report.Dataset, error) {
	points, err := store.Points(ctx, domain.PointFilter{})
	if err != nil {
		return report.Dataset{}, err
	}
	hotels, err := store.Hotels(ctx, "")
	if err != nil {
		return report.Dataset{}, err
	}
	bookings, err := store.Bookings(ctx)
	if err != nil {
		return report.Dataset{}, err
	}
	return report.Dataset{Points: points, Hotels: hotels, Bookings: bookings}, nil
}

// writeOutput sends write's output to path, or to stdout when path is empty.
func writeOutput(stdout io.Writer, path string, write func(io.Writer) error) (err error) {
	if path == "" {
		if stdout == nil {
			return errors.New("no output path given")
		}
		return write(stdout)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return write(f)
}
