package cmd

import (
	"context"
	"fmt"

	"price-sync/core/config"
	"price-sync/core/logger"
	"price-sync/feature/pricesync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var dryRun bool

// runCmd executes one full reconciliation run and exits.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a full price reconciliation once",
	Long: `Run a full price reconciliation: fetch every catalog variant, resolve
supplier prices, derive target prices through the configured formulas and
apply the changed ones.

Examples:
  # Full run
  price-sync run

  # Evaluate and report without writing anything
  price-sync run --dry-run`,
	RunE: runFullSync,
}

func init() {
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Evaluate and diff without writing any prices")
	RootCmd.AddCommand(runCmd)
}

func runFullSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	svc, _, _, err := buildService(cfg, l)
	if err != nil {
		return fmt.Errorf("failed to assemble reconciliation service: %w", err)
	}

	l.Info("Starting reconciliation run", zap.Bool("dry_run", dryRun))
	summary, err := svc.Run(ctx, pricesync.RunOptions{DryRun: dryRun})
	if err != nil {
		return fmt.Errorf("reconciliation run failed: %w", err)
	}

	printRunSummary(l, summary)
	return nil
}

// printRunSummary prints a formatted run summary using logger.
func printRunSummary(l *zap.Logger, summary *pricesync.RunSummary) {
	l.Info("Run summary",
		zap.String("run_id", summary.RunID),
		zap.Bool("dry_run", summary.DryRun),
		zap.Int("total", summary.Total),
		zap.Int("updated", summary.Updated),
		zap.Int("skipped", summary.Skipped),
		zap.Int("errors", summary.Errors),
		zap.Duration("duration", summary.FinishedAt.Sub(summary.StartedAt)),
	)
}
