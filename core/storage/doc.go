// Package storage provides an abstraction layer for the run-report archive.
//
// It wraps the MinIO Go client to provide a simplified interface for the
// operations the archive needs: checking bucket existence, uploading run
// reports, and listing/retrieving archived reports. This abstraction supports
// both AWS S3 and self-hosted MinIO instances.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (as seen in core/storage/mocks).
//
// # Operations
//
//   - BucketExists: Verifies access to the target bucket.
//   - MakeBucket: Creates the archive bucket if needed.
//   - PutObject: Uploads a run report (with size and options).
//   - GetObject: Retrieves a report as a stream.
//   - ListObjects: Lists archived reports (supports prefix/recursive).
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	exists, err := client.BucketExists(ctx, "price-sync-runs")
package storage
