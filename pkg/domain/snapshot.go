package domain

import "sort"

// Snapshot is a serializable view of a Process at a point in time.
// Variables are rendered with token String, so a snapshot can be diffed and
// sent over the wire without the token tree.
type Snapshot struct {
	RunID     string            `json:"run_id" yaml:"run_id"`
	Variables map[string]string `json:"variables" yaml:"variables"`
	Output    []string          `json:"output,omitempty" yaml:"output,omitempty"`
	Cancelled bool              `json:"cancelled,omitempty" yaml:"cancelled,omitempty"`
	Finished  bool              `json:"finished" yaml:"finished"`
}

// Names returns the bound variable names in lexical order.
func (s *Snapshot) Names() []string {
	names := make([]string, 0, len(s.Variables))
	for k := range s.Variables {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
