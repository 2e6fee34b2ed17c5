// Package history persists applied price changes.
//
// Every successful write from a reconciliation run is recorded as a
// PriceChange row, giving an audit trail of what the sync did to the
// catalog over time. The feature is optional and only loaded when the
// database is enabled; reconciliation runs fine without it.
package history
