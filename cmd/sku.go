package cmd

import (
	"context"
	"errors"
	"fmt"

	"price-sync/core/config"
	"price-sync/core/logger"
	"price-sync/feature/pricesync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// skuCmd reconciles a single store SKU and exits.
var skuCmd = &cobra.Command{
	Use:   "sku <store-sku>",
	Short: "Reconcile the price of a single SKU",
	Long: `Reconcile one store SKU: look up its supplier price, derive the target
price through the configured formulas and write it when it changed.

Examples:
  price-sync sku AB-1234`,
	Args: cobra.ExactArgs(1),
	RunE: runSingleSKU,
}

func init() {
	RootCmd.AddCommand(skuCmd)
}

func runSingleSKU(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	storeSKU := args[0]

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

	res, err := svc.RunOne(ctx, storeSKU)
	if err != nil {
		var nfe *pricesync.NotFoundError
		if errors.As(err, &nfe) {
			return fmt.Errorf("nothing to reconcile: %w", nfe)
		}
		return err
	}

	l.Info("SKU reconciled",
		zap.String("sku", res.SKU),
		zap.String("supplier_key", res.SupplierKey),
		zap.String("status", string(res.Status)),
		zap.String("old_price", res.OldPrice.StringFixed(2)),
		zap.String("new_price", res.NewPrice.StringFixed(2)),
		zap.String("reason", res.Reason),
	)
	if res.Status == pricesync.StatusError {
		return fmt.Errorf("reconciliation failed for %s: %s", res.SKU, res.Reason)
	}
	return nil
}
