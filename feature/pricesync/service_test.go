package pricesync

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"price-sync/core/catalog"
	"price-sync/core/formula"
	"price-sync/core/runner"
	"price-sync/core/sku"
	"price-sync/core/supplier"
)

type mockVariantSource struct {
	mock.Mock
}

func (m *mockVariantSource) ListVariants(ctx context.Context) ([]catalog.Variant, error) {
	args := m.Called(ctx)
	var vs []catalog.Variant
	if v := args.Get(0); v != nil {
		vs = v.([]catalog.Variant)
	}
	return vs, args.Error(1)
}

func (m *mockVariantSource) FindVariantBySKU(ctx context.Context, storeSKU string) (*catalog.Variant, error) {
	args := m.Called(ctx, storeSKU)
	var v *catalog.Variant
	if x := args.Get(0); x != nil {
		v = x.(*catalog.Variant)
	}
	return v, args.Error(1)
}

type mockPriceLookup struct {
	mock.Mock
}

func (m *mockPriceLookup) Lookup(ctx context.Context, keys []sku.Key) (map[sku.Key]supplier.PriceRecord, error) {
	args := m.Called(ctx, keys)
	var res map[sku.Key]supplier.PriceRecord
	if x := args.Get(0); x != nil {
		res = x.(map[sku.Key]supplier.PriceRecord)
	}
	return res, args.Error(1)
}

type mockPriceWriter struct {
	mock.Mock
}

func (m *mockPriceWriter) UpdatePrice(ctx context.Context, productID, variantID string, newPrice decimal.Decimal) error {
	args := m.Called(ctx, productID, variantID, newPrice)
	return args.Error(0)
}

type stubEngineLoader struct {
	engine *formula.Engine
	err    error
}

func (s stubEngineLoader) Load() (*formula.Engine, error) {
	return s.engine, s.err
}

type capturingArchiver struct {
	reports []RunReport
	err     error
}

func (a *capturingArchiver) ArchiveRun(_ context.Context, report RunReport) error {
	a.reports = append(a.reports, report)
	return a.err
}

type capturingRecorder struct {
	skus []string
}

func (r *capturingRecorder) RecordChange(_ context.Context, _ string, v catalog.Variant, _ decimal.Decimal) error {
	r.skus = append(r.skus, v.SKU)
	return nil
}

func newTestService(variants VariantSource, prices PriceLookup, writer PriceWriter, loader EngineLoader) *Service {
	return NewService(variants, prices, writer, loader, &runner.Coordinator{}, 0, zap.NewNop())
}

func doubleLoader() stubEngineLoader {
	return stubEngineLoader{engine: formula.NewEngine("x * 2", "")}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func variant(id, productID, storeSKU, price string) catalog.Variant {
	return catalog.Variant{ID: id, ProductID: productID, SKU: storeSKU, Price: dec(price)}
}

func priceArg(want string) interface{} {
	return mock.MatchedBy(func(d decimal.Decimal) bool {
		return d.Equal(dec(want))
	})
}

func TestService_Run(t *testing.T) {
	t.Run("updates changed prices and skips current ones", func(t *testing.T) {
		variants := new(mockVariantSource)
		prices := new(mockPriceLookup)
		writer := new(mockPriceWriter)

		variants.On("ListVariants", mock.Anything).Return([]catalog.Variant{
			variant("v1", "p1", "AB-10", "10.00"),
			variant("v2", "p2", "AB-11", "14.00"),
		}, nil)
		prices.On("Lookup", mock.Anything, mock.Anything).Return(map[sku.Key]supplier.PriceRecord{
			"10": {SKU: "10", ThresholdPrice: decPtr("6.00")},
			"11": {SKU: "11", ThresholdPrice: decPtr("7.00")},
		}, nil)
		writer.On("UpdatePrice", mock.Anything, "p1", "v1", priceArg("12.00")).Return(nil)

		svc := newTestService(variants, prices, writer, doubleLoader())
		summary, err := svc.Run(context.Background(), RunOptions{})
		require.NoError(t, err)

		assert.Equal(t, 2, summary.Total)
		assert.Equal(t, 1, summary.Updated)
		assert.Equal(t, 1, summary.Skipped)
		assert.Equal(t, 0, summary.Errors)
		assert.False(t, summary.Aborted)
		writer.AssertExpectations(t)
		writer.AssertNumberOfCalls(t, "UpdatePrice", 1)
	})

	t.Run("rejects when another run is active", func(t *testing.T) {
		svc := newTestService(new(mockVariantSource), new(mockPriceLookup), new(mockPriceWriter), doubleLoader())

		release, err := svc.coord.TryAcquire()
		require.NoError(t, err)
		defer release()

		_, err = svc.Run(context.Background(), RunOptions{})
		assert.ErrorIs(t, err, runner.ErrBusy)
	})

	t.Run("catalog fetch failure aborts before any writes", func(t *testing.T) {
		variants := new(mockVariantSource)
		prices := new(mockPriceLookup)
		writer := new(mockPriceWriter)

		variants.On("ListVariants", mock.Anything).Return(nil, errors.New("boom"))

		svc := newTestService(variants, prices, writer, doubleLoader())
		summary, err := svc.Run(context.Background(), RunOptions{})
		require.Error(t, err)

		assert.True(t, summary.Aborted)
		assert.Equal(t, 0, summary.Total)
		assert.NotEmpty(t, summary.FatalCause)
		prices.AssertNotCalled(t, "Lookup", mock.Anything, mock.Anything)
		writer.AssertNotCalled(t, "UpdatePrice", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("supplier lookup failure aborts before any writes", func(t *testing.T) {
		variants := new(mockVariantSource)
		prices := new(mockPriceLookup)
		writer := new(mockPriceWriter)

		variants.On("ListVariants", mock.Anything).Return([]catalog.Variant{
			variant("v1", "p1", "AB-10", "10.00"),
		}, nil)
		prices.On("Lookup", mock.Anything, mock.Anything).Return(nil, &supplier.APIError{StatusCode: 502})

		svc := newTestService(variants, prices, writer, doubleLoader())
		summary, err := svc.Run(context.Background(), RunOptions{})
		require.Error(t, err)

		assert.True(t, summary.Aborted)
		writer.AssertNotCalled(t, "UpdatePrice", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("formula load failure aborts the run", func(t *testing.T) {
		svc := newTestService(new(mockVariantSource), new(mockPriceLookup), new(mockPriceWriter),
			stubEngineLoader{err: errors.New("missing formula file")})

		summary, err := svc.Run(context.Background(), RunOptions{})
		require.Error(t, err)
		assert.True(t, summary.Aborted)
	})

	t.Run("write failure is isolated to its item", func(t *testing.T) {
		variants := new(mockVariantSource)
		prices := new(mockPriceLookup)
		writer := new(mockPriceWriter)

		variants.On("ListVariants", mock.Anything).Return([]catalog.Variant{
			variant("v1", "p1", "AB-10", "10.00"),
			variant("v2", "p2", "AB-11", "10.00"),
			variant("v3", "p3", "AB-12", "10.00"),
		}, nil)
		prices.On("Lookup", mock.Anything, mock.Anything).Return(map[sku.Key]supplier.PriceRecord{
			"10": {SKU: "10", ThresholdPrice: decPtr("6.00")},
			"11": {SKU: "11", ThresholdPrice: decPtr("6.50")},
			"12": {SKU: "12", ThresholdPrice: decPtr("7.00")},
		}, nil)
		writer.On("UpdatePrice", mock.Anything, "p1", "v1", mock.Anything).Return(nil)
		writer.On("UpdatePrice", mock.Anything, "p2", "v2", mock.Anything).
			Return(&catalog.WriteError{VariantID: "v2", Err: errors.New("rate limited")})
		writer.On("UpdatePrice", mock.Anything, "p3", "v3", mock.Anything).Return(nil)

		svc := newTestService(variants, prices, writer, doubleLoader())
		summary, err := svc.Run(context.Background(), RunOptions{})
		require.NoError(t, err)

		assert.Equal(t, 2, summary.Updated)
		assert.Equal(t, 1, summary.Errors)
		assert.False(t, summary.Aborted)
		writer.AssertNumberOfCalls(t, "UpdatePrice", 3)
	})

	t.Run("lookup misses and priceless records are skipped", func(t *testing.T) {
		variants := new(mockVariantSource)
		prices := new(mockPriceLookup)
		writer := new(mockPriceWriter)

		variants.On("ListVariants", mock.Anything).Return([]catalog.Variant{
			variant("v1", "p1", "AB-10", "10.00"),
			variant("v2", "p2", "AB-11", "10.00"),
		}, nil)
		prices.On("Lookup", mock.Anything, mock.Anything).Return(map[sku.Key]supplier.PriceRecord{
			"11": {SKU: "11"},
		}, nil)

		svc := newTestService(variants, prices, writer, doubleLoader())
		summary, err := svc.Run(context.Background(), RunOptions{})
		require.NoError(t, err)

		assert.Equal(t, 2, summary.Skipped)
		assert.Equal(t, 0, summary.Updated)
		writer.AssertNotCalled(t, "UpdatePrice", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("collision loser is skipped, winner reconciles", func(t *testing.T) {
		variants := new(mockVariantSource)
		prices := new(mockPriceLookup)
		writer := new(mockPriceWriter)

		variants.On("ListVariants", mock.Anything).Return([]catalog.Variant{
			variant("v1", "p1", "A-9", "10.00"),
			variant("v2", "p2", "B-9", "10.00"),
		}, nil)
		prices.On("Lookup", mock.Anything, mock.Anything).Return(map[sku.Key]supplier.PriceRecord{
			"9": {SKU: "9", ThresholdPrice: decPtr("6.00")},
		}, nil)
		writer.On("UpdatePrice", mock.Anything, "p1", "v1", priceArg("12.00")).Return(nil)

		svc := newTestService(variants, prices, writer, doubleLoader())
		summary, err := svc.Run(context.Background(), RunOptions{})
		require.NoError(t, err)

		assert.Equal(t, 1, summary.Updated)
		assert.Equal(t, 1, summary.Skipped)
		writer.AssertNumberOfCalls(t, "UpdatePrice", 1)
	})

	t.Run("formula evaluation failure is a per-item error", func(t *testing.T) {
		variants := new(mockVariantSource)
		prices := new(mockPriceLookup)
		writer := new(mockPriceWriter)

		variants.On("ListVariants", mock.Anything).Return([]catalog.Variant{
			variant("v1", "p1", "AB-10", "10.00"),
		}, nil)
		prices.On("Lookup", mock.Anything, mock.Anything).Return(map[sku.Key]supplier.PriceRecord{
			"10": {SKU: "10", ThresholdPrice: decPtr("6.00")},
		}, nil)

		svc := newTestService(variants, prices, writer, stubEngineLoader{engine: formula.NewEngine("x *", "")})
		summary, err := svc.Run(context.Background(), RunOptions{})
		require.NoError(t, err)

		assert.Equal(t, 1, summary.Errors)
		assert.False(t, summary.Aborted)
		writer.AssertNotCalled(t, "UpdatePrice", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("dry run evaluates but never writes", func(t *testing.T) {
		variants := new(mockVariantSource)
		prices := new(mockPriceLookup)
		writer := new(mockPriceWriter)
		recorder := new(capturingRecorder)

		variants.On("ListVariants", mock.Anything).Return([]catalog.Variant{
			variant("v1", "p1", "AB-10", "10.00"),
		}, nil)
		prices.On("Lookup", mock.Anything, mock.Anything).Return(map[sku.Key]supplier.PriceRecord{
			"10": {SKU: "10", ThresholdPrice: decPtr("6.00")},
		}, nil)

		svc := newTestService(variants, prices, writer, doubleLoader())
		svc.SetChangeRecorder(recorder)
		summary, err := svc.Run(context.Background(), RunOptions{DryRun: true})
		require.NoError(t, err)

		assert.Equal(t, 1, summary.Updated)
		assert.True(t, summary.DryRun)
		assert.Empty(t, recorder.skus)
		writer.AssertNotCalled(t, "UpdatePrice", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("archives the report and records changes", func(t *testing.T) {
		variants := new(mockVariantSource)
		prices := new(mockPriceLookup)
		writer := new(mockPriceWriter)
		archiver := new(capturingArchiver)
		recorder := new(capturingRecorder)

		variants.On("ListVariants", mock.Anything).Return([]catalog.Variant{
			variant("v1", "p1", "AB-10", "10.00"),
		}, nil)
		prices.On("Lookup", mock.Anything, mock.Anything).Return(map[sku.Key]supplier.PriceRecord{
			"10": {SKU: "10", ThresholdPrice: decPtr("6.00")},
		}, nil)
		writer.On("UpdatePrice", mock.Anything, "p1", "v1", mock.Anything).Return(nil)

		svc := newTestService(variants, prices, writer, doubleLoader())
		svc.SetReportArchiver(archiver)
		svc.SetChangeRecorder(recorder)
		summary, err := svc.Run(context.Background(), RunOptions{})
		require.NoError(t, err)

		assert.Equal(t, []string{"AB-10"}, recorder.skus)
		require.Len(t, archiver.reports, 1)
		assert.Equal(t, summary.RunID, archiver.reports[0].Summary.RunID)
		assert.Len(t, archiver.reports[0].Results, 1)
	})
}

func TestService_RunOne(t *testing.T) {
	t.Run("updates a single sku", func(t *testing.T) {
		variants := new(mockVariantSource)
		prices := new(mockPriceLookup)
		writer := new(mockPriceWriter)

		v := variant("v1", "p1", "AB-10", "10.00")
		variants.On("FindVariantBySKU", mock.Anything, "AB-10").Return(&v, nil)
		prices.On("Lookup", mock.Anything, []sku.Key{"10"}).Return(map[sku.Key]supplier.PriceRecord{
			"10": {SKU: "10", ThresholdPrice: decPtr("6.00")},
		}, nil)
		writer.On("UpdatePrice", mock.Anything, "p1", "v1", priceArg("12.00")).Return(nil)

		svc := newTestService(variants, prices, writer, doubleLoader())
		res, err := svc.RunOne(context.Background(), "AB-10")
		require.NoError(t, err)

		assert.Equal(t, StatusUpdated, res.Status)
		assert.True(t, res.NewPrice.Equal(dec("12.00")))
		writer.AssertExpectations(t)
	})

	t.Run("unknown sku yields NotFoundError", func(t *testing.T) {
		variants := new(mockVariantSource)
		variants.On("FindVariantBySKU", mock.Anything, "NOPE").Return(nil, nil)

		svc := newTestService(variants, new(mockPriceLookup), new(mockPriceWriter), doubleLoader())
		_, err := svc.RunOne(context.Background(), "NOPE")

		var nfe *NotFoundError
		require.ErrorAs(t, err, &nfe)
		assert.Equal(t, "NOPE", nfe.SKU)
	})

	t.Run("missing supplier price yields NotFoundError", func(t *testing.T) {
		variants := new(mockVariantSource)
		prices := new(mockPriceLookup)

		v := variant("v1", "p1", "AB-10", "10.00")
		variants.On("FindVariantBySKU", mock.Anything, "AB-10").Return(&v, nil)
		prices.On("Lookup", mock.Anything, []sku.Key{"10"}).Return(map[sku.Key]supplier.PriceRecord{}, nil)

		svc := newTestService(variants, prices, new(mockPriceWriter), doubleLoader())
		_, err := svc.RunOne(context.Background(), "AB-10")

		var nfe *NotFoundError
		require.ErrorAs(t, err, &nfe)
	})

	t.Run("rejected while a run is active", func(t *testing.T) {
		svc := newTestService(new(mockVariantSource), new(mockPriceLookup), new(mockPriceWriter), doubleLoader())

		release, err := svc.coord.TryAcquire()
		require.NoError(t, err)
		defer release()

		_, err = svc.RunOne(context.Background(), "AB-10")
		assert.ErrorIs(t, err, runner.ErrBusy)
	})

	t.Run("current price is reported as skipped", func(t *testing.T) {
		variants := new(mockVariantSource)
		prices := new(mockPriceLookup)
		writer := new(mockPriceWriter)

		v := variant("v1", "p1", "AB-10", "12.00")
		variants.On("FindVariantBySKU", mock.Anything, "AB-10").Return(&v, nil)
		prices.On("Lookup", mock.Anything, []sku.Key{"10"}).Return(map[sku.Key]supplier.PriceRecord{
			"10": {SKU: "10", ThresholdPrice: decPtr("6.00")},
		}, nil)

		svc := newTestService(variants, prices, writer, doubleLoader())
		res, err := svc.RunOne(context.Background(), "AB-10")
		require.NoError(t, err)

		assert.Equal(t, StatusSkipped, res.Status)
		writer.AssertNotCalled(t, "UpdatePrice", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
