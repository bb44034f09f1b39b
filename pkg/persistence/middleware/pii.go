package middleware

import (
	"context"
	"regexp"

	"github.com/aretw0/delta/pkg/domain"
	"github.com/aretw0/delta/pkg/ports"
)

// Mask replaces every redacted match.
const Mask = "***"

type piiMiddleware struct {
	next     ports.AlgorithmStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks matches of patterns in the
// notes of saved records. Program lines are never touched.
func NewPIIMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.AlgorithmStore) ports.AlgorithmStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}
}

func (m *piiMiddleware) Save(ctx context.Context, rec *domain.Record) error {
	// Copy so the caller's record keeps its notes.
	cloned := *rec
	for _, p := range m.patterns {
		cloned.Notes = p.ReplaceAllString(cloned.Notes, Mask)
	}
	return m.next.Save(ctx, &cloned)
}

func (m *piiMiddleware) Load(ctx context.Context, id int64) (*domain.Record, error) {
	return m.next.Load(ctx, id)
}

func (m *piiMiddleware) Delete(ctx context.Context, id int64) error {
	return m.next.Delete(ctx, id)
}

func (m *piiMiddleware) List(ctx context.Context) ([]int64, error) {
	return m.next.List(ctx)
}
