package exports

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	models "theater/src/modules/movies/models"
	"theater/src/utils"

	"github.com/minio/minio-go/v7"
	"github.com/sirupsen/logrus"
)

const (
	snapshotPrefix = "catalog/"
	batchSize      = 200
)

// MovieWalker streams the catalog in id order.
type MovieWalker interface {
	Walk(ctx context.Context, size int, fn func([]models.Movie) error) error
}

// SnapshotStore persists snapshot documents by key.
type SnapshotStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	Open(ctx context.Context, key string) (io.ReadCloser, int64, string, error)
}

// Snapshot is the document written by CatalogExporter.
type Snapshot struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Count       int            `json:"count"`
	Movies      []models.Movie `json:"movies"`
}

type CatalogExporter struct {
	movies MovieWalker
	store  SnapshotStore
	log    logrus.FieldLogger
	now    func() time.Time
}

func NewCatalogExporter(movies MovieWalker, store SnapshotStore, log logrus.FieldLogger) *CatalogExporter {
	return &CatalogExporter{movies: movies, store: store, log: log, now: time.Now}
}

// Export writes the full hydrated catalog under catalog/<timestamp>.json and
// returns the object key.
func (e *CatalogExporter) Export(ctx context.Context) (string, error) {
	snap := Snapshot{GeneratedAt: e.now().UTC(), Movies: []models.Movie{}}
	err := e.movies.Walk(ctx, batchSize, func(batch []models.Movie) error {
		snap.Movies = append(snap.Movies, batch...)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to read catalog: %w", err)
	}
	snap.Count = len(snap.Movies)

	body, err := json.Marshal(snap)
	if err != nil {
		return "", fmt.Errorf("failed to encode catalog snapshot: %w", err)
	}

	key := snapshotPrefix + snap.GeneratedAt.Format("20060102T150405Z") + ".json"
	if err := e.store.Put(ctx, key, body, "application/json"); err != nil {
		return "", fmt.Errorf("failed to store catalog snapshot %s: %w", key, err)
	}

	e.log.WithFields(logrus.Fields{"key": key, "movies": snap.Count}).Info("catalog snapshot exported")
	return key, nil
}

// Open returns a stored snapshot. filePath is the raw wildcard route value.
func (e *CatalogExporter) Open(ctx context.Context, filePath string) (io.ReadCloser, int64, string, error) {
	key := strings.TrimPrefix(path.Clean("/"+filePath), "/")
	if key == "" || !strings.HasPrefix(key, snapshotPrefix) {
		return nil, 0, "", utils.NewNotFound("Snapshot not found.")
	}
	return e.store.Open(ctx, key)
}

// MinioStore keeps snapshots in one MinIO bucket.
type MinioStore struct {
	client *minio.Client
	bucket string
}

func NewMinioStore(client *minio.Client, bucket string) *MinioStore {
	return &MinioStore{client: client, bucket: bucket}
}

func (s *MinioStore) Put(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(body), int64(len(body)),
		minio.PutObjectOptions{ContentType: contentType})
	return err
}

func (s *MinioStore) Open(ctx context.Context, key string) (io.ReadCloser, int64, string, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, "", fmt.Errorf("failed to get object %s: %w", key, err)
	}
	stat, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		if minio.ToErrorResponse(err).StatusCode == http.StatusNotFound {
			return nil, 0, "", utils.NewNotFound("Snapshot not found.")
		}
		return nil, 0, "", fmt.Errorf("failed to stat object %s: %w", key, err)
	}
	return obj, stat.Size, stat.ContentType, nil
}
