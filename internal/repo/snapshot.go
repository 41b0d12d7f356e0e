package repo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"

	"find-usce-backend/internal/models"
)

// SnapshotStore reads and replaces the whole program collection
type SnapshotStore interface {
	Load(ctx context.Context) ([]models.Program, error)
	Save(ctx context.Context, programs []models.Program) error
}

const gcsScheme = "gs://"

// OpenSnapshot picks a store for source: gs://bucket/object for Cloud
// Storage, anything else is a local path. newGCS is only called for gs://
// sources.
func OpenSnapshot(ctx context.Context, source string, newGCS func(ctx context.Context) (*storage.Client, error)) (SnapshotStore, error) {
	if !strings.HasPrefix(source, gcsScheme) {
		return NewFileSnapshot(source), nil
	}

	bucket, object, err := ParseGCSURI(source)
	if err != nil {
		return nil, err
	}
	client, err := newGCS(ctx)
	if err != nil {
		return nil, err
	}
	return NewGCSSnapshot(client, bucket, object), nil
}

// ParseGCSURI splits gs://bucket/path/to/object
func ParseGCSURI(uri string) (bucket, object string, err error) {
	rest, ok := strings.CutPrefix(uri, gcsScheme)
	if !ok {
		return "", "", fmt.Errorf("not a gcs uri: %q", uri)
	}
	bucket, object, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || object == "" {
		return "", "", fmt.Errorf("gcs uri needs a bucket and an object: %q", uri)
	}
	return bucket, object, nil
}

func decodePrograms(r io.Reader) ([]models.Program, error) {
	var programs []models.Program
	if err := json.NewDecoder(r).Decode(&programs); err != nil {
		return nil, fmt.Errorf("decode programs: %w", err)
	}
	if err := checkUniqueIDs(programs); err != nil {
		return nil, err
	}
	return programs, nil
}

func encodePrograms(programs []models.Program) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(programs); err != nil {
		return nil, fmt.Errorf("encode programs: %w", err)
	}
	return buf.Bytes(), nil
}

func checkUniqueIDs(programs []models.Program) error {
	seen := make(map[string]struct{}, len(programs))
	for _, p := range programs {
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateID, p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

// FileSnapshot keeps the collection in a local JSON file
type FileSnapshot struct {
	path string
}

func NewFileSnapshot(path string) *FileSnapshot {
	return &FileSnapshot{path: path}
}

func (s *FileSnapshot) Load(ctx context.Context) ([]models.Program, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot: %w", err)
	}
	defer f.Close()

	return decodePrograms(f)
}

// Save writes to a temp file in the same directory and renames it over the
// snapshot so readers never see a partial file.
func (s *FileSnapshot) Save(ctx context.Context, programs []models.Program) error {
	data, err := encodePrograms(programs)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".programs-*.json")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// GCSSnapshot keeps the collection in one Cloud Storage object
type GCSSnapshot struct {
	client *storage.Client
	bucket string
	object string
}

func NewGCSSnapshot(client *storage.Client, bucket, object string) *GCSSnapshot {
	return &GCSSnapshot{client: client, bucket: bucket, object: object}
}

func (s *GCSSnapshot) Load(ctx context.Context) ([]models.Program, error) {
	r, err := s.client.Bucket(s.bucket).Object(s.object).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, fmt.Errorf("snapshot gs://%s/%s does not exist: %w", s.bucket, s.object, err)
		}
		return nil, fmt.Errorf("open snapshot object: %w", err)
	}
	defer r.Close()

	return decodePrograms(r)
}

// Save uploads a new object generation; GCS replaces objects atomically.
func (s *GCSSnapshot) Save(ctx context.Context, programs []models.Program) error {
	data, err := encodePrograms(programs)
	if err != nil {
		return err
	}

	w := s.client.Bucket(s.bucket).Object(s.object).NewWriter(ctx)
	w.ContentType = "application/json"
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("upload snapshot: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize snapshot upload: %w", err)
	}
	return nil
}

// Close releases the storage client
func (s *GCSSnapshot) Close() error {
	return s.client.Close()
}
