// Package runner coordinates reconciliation runs.
//
// At most one run may be active per process. Triggers arriving while a run is
// in progress are rejected with ErrBusy rather than queued — concurrent runs
// against the same catalog risk duplicate writes and rate-limit violations.
// The guard is independent of how the run was triggered: the HTTP webhook and
// the CLI share one Coordinator.
package runner
