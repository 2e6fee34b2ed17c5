package pricesync

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"price-sync/core/catalog"
	"price-sync/core/formula"
	"price-sync/core/logger"
	"price-sync/core/metrics"
	"price-sync/core/runner"
	"price-sync/core/sku"
	"price-sync/core/supplier"
)

// VariantSource reads variants from the catalog.
type VariantSource interface {
	ListVariants(ctx context.Context) ([]catalog.Variant, error)
	FindVariantBySKU(ctx context.Context, storeSKU string) (*catalog.Variant, error)
}

// PriceLookup resolves supplier prices for normalized SKUs in bulk.
type PriceLookup interface {
	Lookup(ctx context.Context, keys []sku.Key) (map[sku.Key]supplier.PriceRecord, error)
}

// PriceWriter applies a price update to a single catalog variant.
type PriceWriter interface {
	UpdatePrice(ctx context.Context, productID, variantID string, newPrice decimal.Decimal) error
}

// EngineLoader produces a fresh formula engine at the start of every run.
type EngineLoader interface {
	Load() (*formula.Engine, error)
}

// ChangeRecorder persists applied price changes. Optional.
type ChangeRecorder interface {
	RecordChange(ctx context.Context, runID string, variant catalog.Variant, newPrice decimal.Decimal) error
}

// ReportArchiver stores the full report of a finished run. Optional.
type ReportArchiver interface {
	ArchiveRun(ctx context.Context, report RunReport) error
}

// RunOptions adjusts how a full reconciliation run behaves.
type RunOptions struct {
	// DryRun evaluates and diffs every item but writes nothing.
	DryRun bool
}

// Service runs the reconciliation pipeline.
type Service struct {
	variants VariantSource
	prices   PriceLookup
	writer   PriceWriter
	formulas EngineLoader
	coord    *runner.Coordinator
	logger   *zap.Logger

	recorder   ChangeRecorder
	archiver   ReportArchiver
	writeDelay time.Duration
}

// NewService creates the reconciliation service.
func NewService(
	variants VariantSource,
	prices PriceLookup,
	writer PriceWriter,
	formulas EngineLoader,
	coord *runner.Coordinator,
	writeDelay time.Duration,
	log *zap.Logger,
) *Service {
	return &Service{
		variants:   variants,
		prices:     prices,
		writer:     writer,
		formulas:   formulas,
		coord:      coord,
		writeDelay: writeDelay,
		logger:     log,
	}
}

// SetChangeRecorder wires in price change history persistence.
func (s *Service) SetChangeRecorder(r ChangeRecorder) {
	s.recorder = r
}

// SetReportArchiver wires in run report archival.
func (s *Service) SetReportArchiver(a ReportArchiver) {
	s.archiver = a
}

// Run executes a full reconciliation run.
//
// It acquires the single-run slot (returning runner.ErrBusy when another run
// is active), loads the formulas, fetches the full catalog, resolves supplier
// prices in one bulk lookup, then reconciles items sequentially. Fetch and
// lookup failures abort the run with zero items attempted; everything after
// that point is isolated per item. The returned summary is non-nil even for
// aborted runs, so callers can report what happened.
func (s *Service) Run(ctx context.Context, opts RunOptions) (*RunSummary, error) {
	release, err := s.coord.TryAcquire()
	if err != nil {
		metrics.RunsRejectedBusy.Inc()
		return nil, err
	}
	return s.run(ctx, release, opts)
}

// TriggerRun starts a full run in the background. It claims the run slot
// synchronously so callers get runner.ErrBusy immediately, then executes the
// run detached from the caller's lifetime.
func (s *Service) TriggerRun(opts RunOptions) error {
	release, err := s.coord.TryAcquire()
	if err != nil {
		metrics.RunsRejectedBusy.Inc()
		return err
	}
	go func() {
		if _, err := s.run(context.Background(), release, opts); err != nil {
			s.logger.Error("Background run failed", zap.Error(err))
		}
	}()
	return nil
}

// Busy reports whether a run is currently in progress.
func (s *Service) Busy() bool {
	return s.coord.Active()
}

func (s *Service) run(ctx context.Context, release func(), opts RunOptions) (*RunSummary, error) {
	defer release()

	metrics.RunsStarted.Inc()
	runID := uuid.NewString()
	log := logger.WithRun(s.logger, runID)

	summary := RunSummary{
		RunID:     runID,
		StartedAt: time.Now().UTC(),
		DryRun:    opts.DryRun,
	}

	fatal := func(cause error) (*RunSummary, error) {
		summary.Aborted = true
		summary.FatalCause = cause.Error()
		summary.FinishedAt = time.Now().UTC()
		metrics.RunsAborted.Inc()
		log.Error("Run aborted", zap.String("state", StateAborted), zap.Error(cause))
		s.archive(log, RunReport{Summary: summary})
		return &summary, cause
	}

	engine, err := s.formulas.Load()
	if err != nil {
		return fatal(fmt.Errorf("failed to load formulas: %w", err))
	}

	log.Info("Fetching catalog variants", zap.String("state", StateFetching), zap.Bool("dry_run", opts.DryRun))
	variants, err := s.variants.ListVariants(ctx)
	if err != nil {
		return fatal(err)
	}

	storeSKUs := make([]string, len(variants))
	for i, v := range variants {
		storeSKUs[i] = v.SKU
	}
	keyMap := sku.NewKeyMap(storeSKUs)
	for key, losers := range keyMap.Collisions() {
		owner, _ := keyMap.Original(key)
		log.Warn("SKU normalization collision, keeping first",
			zap.String("supplier_key", string(key)),
			zap.String("kept", owner),
			zap.Strings("dropped", losers),
		)
	}

	log.Info("Resolving supplier prices",
		zap.String("state", StateLookup),
		zap.Int("variants", len(variants)),
		zap.Int("keys", len(keyMap.Keys())),
	)
	prices, err := s.prices.Lookup(ctx, keyMap.Keys())
	if err != nil {
		return fatal(err)
	}

	log.Info("Reconciling items", zap.String("state", StateReconciling))
	results := make([]ItemResult, 0, len(variants))
	for _, v := range variants {
		if ctx.Err() != nil {
			return fatal(fmt.Errorf("run cancelled: %w", ctx.Err()))
		}

		res, wrote := s.reconcileVariant(ctx, log, engine, keyMap, prices, v, opts.DryRun)
		results = append(results, res)
		metrics.ItemsProcessed.WithLabelValues(string(res.Status)).Inc()

		switch res.Status {
		case StatusUpdated:
			summary.Updated++
			if s.recorder != nil && !opts.DryRun {
				if err := s.recorder.RecordChange(ctx, runID, v, res.NewPrice); err != nil {
					log.Warn("Failed to record price change", zap.String("sku", v.SKU), zap.Error(err))
				}
			}
		case StatusSkipped:
			summary.Skipped++
		case StatusError:
			summary.Errors++
		}

		if wrote {
			s.pause(ctx)
		}
	}

	summary.Total = len(results)
	summary.FinishedAt = time.Now().UTC()
	metrics.LastRunCompleted.SetToCurrentTime()
	log.Info("Run completed",
		zap.String("state", StateCompleted),
		zap.Int("total", summary.Total),
		zap.Int("updated", summary.Updated),
		zap.Int("skipped", summary.Skipped),
		zap.Int("errors", summary.Errors),
	)

	s.archive(log, RunReport{Summary: summary, Results: results})
	return &summary, nil
}

// RunOne reconciles a single catalog variant by store SKU.
// It shares the single-run guard with full runs. A SKU absent from the
// catalog or without a supplier price yields a NotFoundError.
func (s *Service) RunOne(ctx context.Context, storeSKU string) (*ItemResult, error) {
	release, err := s.coord.TryAcquire()
	if err != nil {
		metrics.RunsRejectedBusy.Inc()
		return nil, err
	}
	defer release()

	engine, err := s.formulas.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load formulas: %w", err)
	}

	log := s.logger.With(zap.String("sku", storeSKU))

	variant, err := s.variants.FindVariantBySKU(ctx, storeSKU)
	if err != nil {
		return nil, err
	}
	if variant == nil {
		return nil, &NotFoundError{SKU: storeSKU, Reason: "no catalog variant with this SKU"}
	}

	key := sku.Normalize(variant.SKU)
	prices, err := s.prices.Lookup(ctx, []sku.Key{key})
	if err != nil {
		return nil, err
	}
	if rec, ok := prices[key]; !ok || rec.ThresholdPrice == nil {
		return nil, &NotFoundError{SKU: storeSKU, Reason: "no supplier price for key " + string(key)}
	}

	keyMap := sku.NewKeyMap([]string{variant.SKU})
	res, _ := s.reconcileVariant(ctx, log, engine, keyMap, prices, *variant, false)
	metrics.ItemsProcessed.WithLabelValues(string(res.Status)).Inc()

	if res.Status == StatusUpdated && s.recorder != nil {
		if err := s.recorder.RecordChange(ctx, "", *variant, res.NewPrice); err != nil {
			log.Warn("Failed to record price change", zap.Error(err))
		}
	}
	return &res, nil
}

// reconcileVariant decides and applies the outcome for one variant. The
// second return value reports whether a write was attempted, so the caller
// can pace writes.
func (s *Service) reconcileVariant(
	ctx context.Context,
	log *zap.Logger,
	engine *formula.Engine,
	keyMap *sku.KeyMap,
	prices map[sku.Key]supplier.PriceRecord,
	v catalog.Variant,
	dryRun bool,
) (ItemResult, bool) {
	key := sku.Normalize(v.SKU)
	res := ItemResult{
		SKU:         v.SKU,
		SupplierKey: string(key),
		OldPrice:    v.Price,
	}

	if !keyMap.Owns(v.SKU) {
		res.Status = StatusSkipped
		res.Reason = "supplier key owned by another SKU"
		return res, false
	}

	record, ok := prices[key]
	if !ok {
		res.Status = StatusSkipped
		res.Reason = "no supplier price"
		return res, false
	}
	if record.ThresholdPrice == nil {
		res.Status = StatusSkipped
		res.Reason = "supplier record has no price"
		return res, false
	}

	newPrice, err := engine.Evaluate(*record.ThresholdPrice)
	if err != nil {
		res.Status = StatusError
		res.Reason = err.Error()
		log.Warn("Formula evaluation failed", zap.String("sku", v.SKU), zap.Error(err))
		return res, false
	}
	res.NewPrice = newPrice

	if newPrice.Equal(v.Price) {
		res.Status = StatusSkipped
		res.Reason = "price up to date"
		return res, false
	}

	if v.ID == "" || v.ProductID == "" {
		res.Status = StatusSkipped
		res.Reason = "variant identity missing"
		return res, false
	}

	if dryRun {
		res.Status = StatusUpdated
		res.Reason = "dry run, no write"
		return res, false
	}

	if err := s.writer.UpdatePrice(ctx, v.ProductID, v.ID, newPrice); err != nil {
		res.Status = StatusError
		res.Reason = err.Error()
		log.Warn("Price update failed", zap.String("sku", v.SKU), zap.Error(err))
		return res, true
	}

	res.Status = StatusUpdated
	log.Info("Price updated",
		zap.String("sku", v.SKU),
		zap.String("old_price", v.Price.StringFixed(2)),
		zap.String("new_price", newPrice.StringFixed(2)),
	)
	return res, true
}

// pause waits out the configured write delay, returning early on cancellation.
func (s *Service) pause(ctx context.Context) {
	if s.writeDelay <= 0 {
		return
	}
	t := time.NewTimer(s.writeDelay)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

// archive stores the run report when an archiver is configured. Archive
// failures are logged, never fatal.
func (s *Service) archive(log *zap.Logger, report RunReport) {
	if s.archiver == nil {
		return
	}
	// Detached from the run context so a cancelled run still leaves a report.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.archiver.ArchiveRun(ctx, report); err != nil {
		log.Warn("Failed to archive run report", zap.Error(err))
	}
}
