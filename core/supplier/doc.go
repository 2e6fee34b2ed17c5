// Package supplier provides the client for the third-party supplier pricing feed.
//
// The feed exposes a single bulk endpoint: POST {token, skus: [...]} returning an
// array of price records keyed by supplier SKU. Records for unknown SKUs are
// simply omitted from the response; an omission means "no price available" and
// is never an error. Transport failures, timeouts, and non-success responses
// surface as *APIError, which is fatal for the run.
package supplier
