package history

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceChange is one applied price update.
type PriceChange struct {
	ID          uint            `gorm:"primaryKey;column:id" json:"id"`
	RunID       string          `gorm:"column:run_id;type:varchar(64);index" json:"run_id,omitempty"`
	SKU         string          `gorm:"column:sku;type:varchar(255);index" json:"sku"`
	SupplierKey string          `gorm:"column:supplier_key;type:varchar(255)" json:"supplier_key"`
	VariantID   string          `gorm:"column:variant_id;type:varchar(255)" json:"variant_id"`
	OldPrice    decimal.Decimal `gorm:"column:old_price;type:decimal(12,2)" json:"old_price"`
	NewPrice    decimal.Decimal `gorm:"column:new_price;type:decimal(12,2)" json:"new_price"`
	CreatedAt   time.Time       `gorm:"column:created_at" json:"created_at"`
}

// TableName overrides the default table name.
func (PriceChange) TableName() string {
	return "price_changes"
}
