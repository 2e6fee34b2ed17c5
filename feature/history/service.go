package history

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"price-sync/core/catalog"
	"price-sync/core/sku"
)

// Service records and queries price changes.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new history service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Migrate creates or updates the price_changes table.
func (s *Service) Migrate() error {
	if err := s.db.AutoMigrate(&PriceChange{}); err != nil {
		return fmt.Errorf("failed to migrate price history schema: %w", err)
	}
	return nil
}

// RecordChange stores one applied price update.
func (s *Service) RecordChange(ctx context.Context, runID string, variant catalog.Variant, newPrice decimal.Decimal) error {
	change := PriceChange{
		RunID:       runID,
		SKU:         variant.SKU,
		SupplierKey: string(sku.Normalize(variant.SKU)),
		VariantID:   variant.ID,
		OldPrice:    variant.Price,
		NewPrice:    newPrice,
	}
	if err := s.db.WithContext(ctx).Create(&change).Error; err != nil {
		return fmt.Errorf("failed to record price change for %s: %w", variant.SKU, err)
	}
	return nil
}

// RecentChanges returns the latest changes for a store SKU, newest first.
func (s *Service) RecentChanges(ctx context.Context, storeSKU string, limit int) ([]PriceChange, error) {
	if limit <= 0 {
		limit = 50
	}
	var changes []PriceChange
	err := s.db.WithContext(ctx).
		Where("sku = ?", storeSKU).
		Order("created_at DESC").
		Limit(limit).
		Find(&changes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query price history for %s: %w", storeSKU, err)
	}
	return changes, nil
}
