package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/aretw0/delta/pkg/domain"
	"gopkg.in/yaml.v3"
)

const ext = ".yaml"

// Store implements ports.AlgorithmStore using the local filesystem.
// Each algorithm is a YAML document named after its local ID.
type Store struct {
	BasePath string
}

// New creates a new Store with the given base path.
// If basePath is empty, it defaults to ".delta/algorithms".
func New(basePath string) *Store {
	if basePath == "" {
		basePath = filepath.Join(".delta", "algorithms")
	}
	return &Store{BasePath: basePath}
}

func (s *Store) path(id int64) string {
	return filepath.Join(s.BasePath, strconv.FormatInt(id, 10)+ext)
}

// Save writes the record atomically: temp file, fsync, then rename.
func (s *Store) Save(ctx context.Context, rec *domain.Record) error {
	if rec == nil || rec.LocalID == 0 {
		return domain.ErrInvalidID
	}

	if err := os.MkdirAll(s.BasePath, 0755); err != nil {
		return fmt.Errorf("failed to ensure algorithm directory: %w", err)
	}

	data, err := yaml.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal algorithm: %w", err)
	}

	// Same directory so the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(s.BasePath, "tmp-*"+ext+".part")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	dest := s.path(rec.LocalID)
	if _, err := os.Stat(dest); err == nil {
		// os.Rename fails on Windows when dest exists.
		if err := os.Remove(dest); err != nil {
			return fmt.Errorf("failed to remove existing algorithm file for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Load reads the YAML document for id.
func (s *Store) Load(ctx context.Context, id int64) (*domain.Record, error) {
	if id == 0 {
		return nil, domain.ErrInvalidID
	}

	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrAlgorithmNotFound
		}
		return nil, fmt.Errorf("failed to read algorithm file: %w", err)
	}

	var rec domain.Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal algorithm %d: %w", id, err)
	}
	rec.LocalID = id
	return &rec, nil
}

// Delete removes the algorithm file.
func (s *Store) Delete(ctx context.Context, id int64) error {
	err := os.Remove(s.path(id))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete algorithm file: %w", err)
	}
	return nil
}

// List returns the IDs of all algorithm files, ignoring anything that is not
// named <id>.yaml.
func (s *Store) List(ctx context.Context) ([]int64, error) {
	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return []int64{}, nil
		}
		return nil, fmt.Errorf("failed to list algorithms: %w", err)
	}

	ids := []int64{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ext) {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimSuffix(name, ext), 10, 64)
		if err != nil || id == 0 {
			continue
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}
