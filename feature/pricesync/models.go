package pricesync

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ItemStatus classifies the outcome of reconciling one catalog variant.
type ItemStatus string

const (
	// StatusUpdated means a new price was written (or would be, on a dry run).
	StatusUpdated ItemStatus = "updated"
	// StatusSkipped means no write was needed or possible for a benign reason.
	StatusSkipped ItemStatus = "skipped"
	// StatusError means the item failed without affecting the rest of the run.
	StatusError ItemStatus = "error"
)

// Run states, logged as a run progresses through the pipeline.
const (
	StateFetching    = "fetching"
	StateLookup      = "price_lookup"
	StateReconciling = "reconciling"
	StateCompleted   = "completed"
	StateAborted     = "aborted"
)

// ItemResult is the outcome of reconciling a single catalog variant.
type ItemResult struct {
	SKU         string          `json:"sku"`
	SupplierKey string          `json:"supplier_key,omitempty"`
	OldPrice    decimal.Decimal `json:"old_price"`
	NewPrice    decimal.Decimal `json:"new_price"`
	Status      ItemStatus      `json:"status"`
	Reason      string          `json:"reason,omitempty"`
}

// RunSummary aggregates the outcome of a reconciliation run.
type RunSummary struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	DryRun     bool      `json:"dry_run,omitempty"`
	Total      int       `json:"total"`
	Updated    int       `json:"updated"`
	Skipped    int       `json:"skipped"`
	Errors     int       `json:"errors"`
	Aborted    bool      `json:"aborted"`
	FatalCause string    `json:"fatal_cause,omitempty"`
}

// RunReport is the archived record of a run: the summary plus every item.
type RunReport struct {
	Summary RunSummary   `json:"summary"`
	Results []ItemResult `json:"results"`
}

// NotFoundError reports that a single-SKU reconciliation could not locate
// the SKU in the catalog or a price for it at the supplier.
type NotFoundError struct {
	SKU    string
	Reason string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("sku %s: %s", e.SKU, e.Reason)
}
