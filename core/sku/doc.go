// Package sku provides SKU normalization for supplier price lookups.
//
// Store SKUs carry a store-specific prefix separated by hyphens (e.g. "ABC-123"),
// while the supplier feed is keyed by the bare part after the last hyphen ("123").
// Normalize derives that supplier key, and KeyMap projects bulk lookup results
// back onto the original store SKUs.
//
// # Collisions
//
// Normalization is lossy: two store SKUs may map to the same supplier key.
// KeyMap resolves this with a keep-first policy — the first SKU to claim a key
// owns it, later claimants are recorded as collisions and resolve to a lookup
// miss instead of silently borrowing another variant's price.
package sku
