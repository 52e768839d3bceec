package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/opendq/opendq/internal/errdefs"
	"github.com/opendq/opendq/pkg/report"
)

// LocalStore archives reports as JSON files in a directory.
type LocalStore struct {
	dir string
}

// NewLocalStore creates the directory if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errdefs.Wrap(err, errdefs.CodeStore, "cannot create report directory")
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Save writes the report JSON.
func (s *LocalStore) Save(ctx context.Context, rep *report.Report) error {
	data, err := rep.ToJSON()
	if err != nil {
		return errdefs.Wrap(err, errdefs.CodeStore, "cannot serialize report")
	}
	if err := os.WriteFile(s.path(rep.ID), data, 0o644); err != nil {
		return errdefs.Wrap(err, errdefs.CodeStore, "cannot write report file")
	}
	return nil
}

// Get reads a stored report by ID.
func (s *LocalStore) Get(ctx context.Context, id string) ([]byte, error) {
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		return nil, errdefs.Wrap(err, errdefs.CodeStore, "report not found")
	}
	return data, nil
}

// List returns the stored report IDs.
func (s *LocalStore) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errdefs.Wrap(err, errdefs.CodeStore, "cannot list report directory")
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(e.Name(), ".json"))
	}
	return ids, nil
}

// Close is a no-op for the local backend.
func (s *LocalStore) Close() error { return nil }
