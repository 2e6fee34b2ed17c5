// Package catalog provides read and write access to the storefront catalog
// through its GraphQL admin API.
//
// The reader enumerates every variant (id, product id, SKU, current price)
// with cursor pagination, stopping strictly when the API reports no next
// page. The writer applies a single price mutation per variant and surfaces
// API-level validation errors (userErrors) and transport errors alike as a
// structured *WriteError, which the reconciler treats as a per-item failure.
// Read failures are *FetchError and abort the run.
package catalog
