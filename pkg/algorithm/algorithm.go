package algorithm

import (
	"sort"
	"time"

	"github.com/aretw0/delta/pkg/action"
	"github.com/aretw0/delta/pkg/domain"
	"github.com/aretw0/delta/pkg/token"
)

// DefaultIcon is used when an algorithm has no icon.
const DefaultIcon = "default"

// Algorithm is a named action tree.
type Algorithm struct {
	LocalID    int64
	RemoteID   int64 // 0 when never uploaded
	Owner      bool
	Name       string
	Icon       string
	LastUpdate time.Time
	Notes      string
	Public     bool

	Inputs []domain.Input
	Root   *action.Root
	Status domain.SyncStatus
}

// New creates an algorithm and extracts its inputs. The status is synchro when
// remoteID is set and local otherwise.
func New(localID, remoteID int64, owner bool, name string, lastUpdate time.Time, icon string, root *action.Root) *Algorithm {
	if root == nil {
		root = action.NewRoot()
	}
	if icon == "" {
		icon = DefaultIcon
	}
	a := &Algorithm{
		LocalID:    localID,
		RemoteID:   remoteID,
		Owner:      owner,
		Name:       name,
		Icon:       icon,
		LastUpdate: lastUpdate,
		Root:       root,
		Status:     domain.SyncLocal,
	}
	if remoteID != 0 {
		a.Status = domain.SyncSynchro
	}
	a.ExtractInputs()
	return a
}

// ExtractInputs recomputes Inputs from the tree.
func (a *Algorithm) ExtractInputs() {
	a.Inputs = a.Root.ExtractInputs()
}

// Execute runs the algorithm with its default inputs. See Run.
func (a *Algorithm) Execute(completion func()) *domain.Process {
	return a.Run(nil, completion)
}

// Run seeds a new process with values, then with the default of every input
// values does not provide, and executes the tree on its own goroutine.
// completion is called when the tree finishes, unless the process was
// cancelled. The process Done channel is closed after completion returns.
func (a *Algorithm) Run(values map[string]string, completion func(), opts ...domain.ProcessOption) *domain.Process {
	p := domain.NewProcess(opts...)

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		p.Set(name, token.Parse(values[name]).Compute(p, token.ModeSimplify))
	}
	for _, in := range a.Inputs {
		if _, ok := values[in.Name]; ok {
			continue
		}
		if _, ok := p.Get(in.Name); ok {
			continue
		}
		p.Set(in.Name, token.Parse(in.Default).Compute(p, token.ModeSimplify))
	}

	root := a.Root
	go func() {
		defer p.Finish()
		root.Execute(p)
		if !p.Cancelled() && completion != nil {
			completion()
		}
	}()
	return p
}

// String renders the program text.
func (a *Algorithm) String() string {
	return a.Root.String()
}

// Clone returns an editable copy. An owned algorithm keeps its identity; a
// downloaded one becomes a new local algorithm named after the original.
func (a *Algorithm) Clone() *Algorithm {
	root := action.Clone(a.Root).(*action.Root)
	if a.Owner {
		c := New(a.LocalID, a.RemoteID, true, a.Name, a.LastUpdate, a.Icon, root)
		c.Notes, c.Public, c.Status = a.Notes, a.Public, a.Status
		return c
	}
	c := New(0, 0, true, CopyName(a.Name), a.LastUpdate, a.Icon, root)
	c.Notes = a.Notes
	return c
}

// CopyName is the name given to the local copy of a foreign algorithm.
func CopyName(name string) string {
	return "Copy of " + name
}
