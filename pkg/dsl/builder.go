package dsl

import (
	"fmt"
	"time"

	"github.com/aretw0/delta/internal/validator"
	"github.com/aretw0/delta/pkg/action"
	"github.com/aretw0/delta/pkg/algorithm"
)

// Builder manages the algorithm construction.
type Builder struct {
	*Block

	name   string
	icon   string
	notes  string
	root   *action.Root
	remote int64
	owner  bool
}

// New creates a new algorithm builder. Built algorithms are owned by default.
func New(name string) *Builder {
	root := action.NewRoot()
	return &Builder{
		Block: &Block{target: root},
		name:  name,
		root:  root,
		owner: true,
	}
}

// Icon sets the algorithm icon.
func (b *Builder) Icon(icon string) *Builder {
	b.icon = icon
	return b
}

// Notes sets the free text shared with the algorithm.
func (b *Builder) Notes(notes string) *Builder {
	b.notes = notes
	return b
}

// Remote marks the algorithm as a copy of the remote algorithm id.
func (b *Builder) Remote(id int64, owner bool) *Builder {
	b.remote = id
	b.owner = owner
	return b
}

// Root returns the tree built so far.
func (b *Builder) Root() *action.Root {
	return b.root
}

// Build validates the tree and wraps it into an Algorithm.
func (b *Builder) Build() (*algorithm.Algorithm, error) {
	if b.name == "" {
		return nil, fmt.Errorf("algorithm name is required")
	}
	if err := validator.Validate(b.root); err != nil {
		return nil, fmt.Errorf("invalid algorithm %q: %w", b.name, err)
	}
	alg := algorithm.New(0, b.remote, b.owner, b.name, time.Now(), b.icon, b.root)
	alg.Notes = b.notes
	return alg, nil
}
