package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"stock_screener/internal/platform/cron"
	"stock_screener/internal/platform/seed"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "ingest",
		Short:        "Maintain the screener's companies, attributes and values",
		SilenceUsage: true,
	}
	root.AddCommand(
		newImportAllCmd(),
		newImportOneCmd(),
		newUpdateSymbolsCmd(),
		newSeedAttributesCmd(),
		newScheduleCmd(),
	)
	return root
}

// withApp builds the shared components, runs fn and releases them.
func withApp(fn func(ctx context.Context, a *app, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()
		return fn(ctx, a, args)
	}
}

// parseLimit parses the optional company limit of import-all. No argument means all.
func parseLimit(args []string) (int, error) {
	if len(args) == 0 {
		return 0, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		return 0, fmt.Errorf("limit must be a non-negative integer, got %q", args[0])
	}
	return n, nil
}

func newImportAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-all [n]",
		Short: "Extract every attribute for the first n companies (all when omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, err := parseLimit(args)
			if err != nil {
				return err
			}
			return withApp(func(ctx context.Context, a *app, _ []string) error {
				return importAll(ctx, a, limit)
			})(cmd, args)
		},
	}
}

func importAll(ctx context.Context, a *app, limit int) error {
	report, err := a.imports.ImportAll(ctx, limit)
	if err != nil {
		return err
	}
	log.Printf("import ok: extracted=%d missed=%d failed=%d", report.Extracted, report.Missed, report.Failed)
	return nil
}

func newImportOneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import-one SYMBOL",
		Short: "Extract every attribute for the companies listed under SYMBOL",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string) error {
			report, err := a.imports.ImportOne(ctx, args[0])
			if err != nil {
				return err
			}
			log.Printf("import ok: symbol=%s extracted=%d missed=%d failed=%d",
				args[0], report.Extracted, report.Missed, report.Failed)
			return nil
		}),
	}
}

func newUpdateSymbolsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update-symbols",
		Short: "Import the company directory feed",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, _ []string) error {
			return updateSymbols(ctx, a)
		}),
	}
}

func updateSymbols(ctx context.Context, a *app) error {
	report, err := a.symbols.ImportDirectory(ctx)
	if err != nil {
		return err
	}
	log.Printf("symbols ok: imported=%d skipped=%d failed=%d", report.Imported, report.Skipped, report.Failed)
	return nil
}

func newSeedAttributesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-attributes FILE",
		Short: "Create or update attribute definitions from a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			attrs, err := seed.LoadAttributesFile(args[0])
			if err != nil {
				return err
			}
			return withApp(func(ctx context.Context, a *app, _ []string) error {
				n, err := a.seeder.SeedAttributes(ctx, attrs)
				if err != nil {
					return err
				}
				log.Printf("seed ok: %d attributes", n)
				return nil
			})(cmd, args)
		},
	}
}

func newScheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule",
		Short: "Run update-symbols then import-all on IMPORT_CRON until interrupted",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, _ []string) error {
			loc, err := a.schedule.Location()
			if err != nil {
				return err
			}
			runner := cron.New(slog.Default(), ctx, loc)
			id, err := runner.Add(a.schedule.Spec, "nightly-import", func(ctx context.Context) error {
				if err := updateSymbols(ctx, a); err != nil {
					// ディレクトリ取得に失敗しても既存の会社で取り込みを続ける
					slog.Error("directory import failed", "error", err)
				}
				return importAll(ctx, a, 0)
			})
			if err != nil {
				return fmt.Errorf("invalid IMPORT_CRON %q: %w", a.schedule.Spec, err)
			}

			runner.Start()
			slog.Info("schedule running", "spec", a.schedule.Spec, "next", runner.Next(id))
			<-ctx.Done()
			runner.Stop()
			return nil
		}),
	}
}
