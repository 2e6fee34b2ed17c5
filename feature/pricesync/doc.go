// Package pricesync implements the price reconciliation feature.
//
// A reconciliation run enumerates every catalog variant, resolves supplier
// prices for their normalized SKUs in one bulk lookup, derives target prices
// through the configured formula tiers, diffs against current catalog prices,
// and applies updates one at a time with a fixed courtesy delay between
// writes. Per-item failures (formula errors, write rejections) are isolated;
// only a failed catalog fetch or a failed bulk lookup aborts a run.
//
// The feature exposes the trigger surface: a webhook starting a full run in
// the background, a synchronous single-SKU endpoint, a health endpoint, and
// the archived run reports. At most one run is active at a time; concurrent
// triggers are rejected as busy.
package pricesync
