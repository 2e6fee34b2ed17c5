package pricesync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"

	"price-sync/core/storage"
)

// reportPrefix groups run reports under one object key prefix so listing
// does not touch unrelated objects in the bucket.
const reportPrefix = "runs/"

// RunListEntry is one archived run report in a listing.
type RunListEntry struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}

// Archive persists run reports as JSON objects in the storage bucket.
type Archive struct {
	client storage.Client
	bucket string
	logger *zap.Logger
}

// NewArchive creates a run report archive on the given bucket.
func NewArchive(client storage.Client, bucket string, log *zap.Logger) *Archive {
	return &Archive{
		client: client,
		bucket: bucket,
		logger: log,
	}
}

// EnsureBucket creates the archive bucket if it does not exist yet.
func (a *Archive) EnsureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", a.bucket, err)
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", a.bucket, err)
	}
	a.logger.Info("Created run report bucket", zap.String("bucket", a.bucket))
	return nil
}

// ArchiveRun stores the report under a timestamped key. Keys sort
// lexicographically in chronological order.
func (a *Archive) ArchiveRun(ctx context.Context, report RunReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode run report: %w", err)
	}

	key := fmt.Sprintf("%s%s-%s.json",
		reportPrefix,
		report.Summary.StartedAt.UTC().Format("2006-01-02T15-04-05"),
		report.Summary.RunID,
	)
	_, err = a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to store run report %s: %w", key, err)
	}

	a.logger.Info("Archived run report",
		zap.String("key", key),
		zap.String("run_id", report.Summary.RunID),
	)
	return nil
}

// ListRuns returns the most recent archived runs, newest first.
func (a *Archive) ListRuns(ctx context.Context, limit int) ([]RunListEntry, error) {
	entries := make([]RunListEntry, 0)
	for obj := range a.client.ListObjects(ctx, a.bucket, minio.ListObjectsOptions{Prefix: reportPrefix}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list run reports: %w", obj.Err)
		}
		entries = append(entries, RunListEntry{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key > entries[j].Key
	})
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// GetRun fetches and decodes one archived run report by object key.
func (a *Archive) GetRun(ctx context.Context, key string) (*RunReport, error) {
	if !strings.HasPrefix(key, reportPrefix) {
		key = reportPrefix + key
	}
	obj, err := a.client.GetObject(ctx, a.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch run report %s: %w", key, err)
	}
	defer obj.Close()

	var report RunReport
	if err := json.NewDecoder(obj).Decode(&report); err != nil {
		return nil, fmt.Errorf("failed to decode run report %s: %w", key, err)
	}
	return &report, nil
}
