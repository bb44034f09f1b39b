package loam

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/aretw0/delta/pkg/domain"
	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
)

const ext = ".md"

// Store adapts a Loam repository to ports.AlgorithmStore.
// Every algorithm is a Markdown document whose frontmatter carries the
// metadata and whose body is the program text.
type Store struct {
	root  string
	repo  core.Repository
	typed *loam.TypedRepository[AlgorithmMetadata]
}

// Open initializes (or reuses) a Loam repository at path without versioning.
func Open(path string, opts ...loam.Option) (*Store, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve loam path: %w", err)
	}
	opts = append([]loam.Option{loam.WithVersioning(false)}, opts...)
	repo, err := loam.Init(abs, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to init loam repository: %w", err)
	}
	return New(abs, repo), nil
}

// New wraps an already initialized repository rooted at root.
func New(root string, repo core.Repository) *Store {
	return &Store{
		root:  root,
		repo:  repo,
		typed: loam.NewTypedRepository[AlgorithmMetadata](repo),
	}
}

func docID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// Save writes the algorithm document.
func (s *Store) Save(ctx context.Context, rec *domain.Record) error {
	if rec == nil || rec.LocalID == 0 {
		return domain.ErrInvalidID
	}
	err := s.repo.Save(ctx, core.Document{
		ID:       docID(rec.LocalID) + ext,
		Content:  rec.Lines,
		Metadata: metadataFor(rec),
	})
	if err != nil {
		return fmt.Errorf("loam save failed for %d: %w", rec.LocalID, err)
	}
	return nil
}

// Load reads the algorithm document for id.
func (s *Store) Load(ctx context.Context, id int64) (*domain.Record, error) {
	if id == 0 {
		return nil, domain.ErrInvalidID
	}
	if !s.exists(id) {
		return nil, domain.ErrAlgorithmNotFound
	}

	doc, err := s.typed.Get(ctx, docID(id))
	if err != nil {
		return nil, fmt.Errorf("loam get failed for %d: %w", id, err)
	}
	rec, err := doc.Data.record(id, strings.TrimSpace(doc.Content))
	if err != nil {
		return nil, fmt.Errorf("invalid metadata in algorithm %d: %w", id, err)
	}
	return rec, nil
}

// Delete removes the algorithm document.
func (s *Store) Delete(ctx context.Context, id int64) error {
	if !s.exists(id) {
		return nil
	}
	if err := s.repo.Delete(ctx, docID(id)+ext); err != nil {
		return fmt.Errorf("loam delete failed for %d: %w", id, err)
	}
	return nil
}

// List returns the IDs of every document whose name is numeric.
func (s *Store) List(ctx context.Context) ([]int64, error) {
	docs, err := s.typed.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	ids := make([]int64, 0, len(docs))
	for _, doc := range docs {
		name := filepath.Base(filepath.ToSlash(doc.ID))
		id, err := strconv.ParseInt(strings.TrimSuffix(name, filepath.Ext(name)), 10, 64)
		if err != nil || id == 0 {
			continue
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return slices.Compact(ids), nil
}

func (s *Store) exists(id int64) bool {
	_, err := os.Stat(filepath.Join(s.root, docID(id)+ext))
	return err == nil
}
