package domain

// SnapshotDiff represents the changes between two snapshots of the same run.
// It is designed to be serialized to JSON for incremental progress updates.
type SnapshotDiff struct {
	// RunID is always present to identify the target.
	RunID string `json:"run_id"`

	// Variables contains only changed, added or deleted bindings.
	// For deletions, the key is present with a nil value.
	Variables map[string]*string `json:"variables,omitempty"`

	// Appended holds the output lines printed since the old snapshot.
	Appended []string `json:"appended,omitempty"`

	Cancelled *bool `json:"cancelled,omitempty"`
	Finished  *bool `json:"finished,omitempty"`
}

// Diff calculates the difference between oldSnap and newSnap.
// If oldSnap is nil, it returns a diff representing the entire newSnap.
// It returns nil when nothing changed.
func Diff(oldSnap, newSnap *Snapshot) *SnapshotDiff {
	if newSnap == nil {
		return nil
	}

	diff := &SnapshotDiff{
		RunID:     newSnap.RunID,
		Variables: diffVariables(oldSnap, newSnap),
		Appended:  diffOutput(oldSnap, newSnap),
	}

	if oldSnap == nil {
		if newSnap.Cancelled {
			diff.Cancelled = &newSnap.Cancelled
		}
		if newSnap.Finished {
			diff.Finished = &newSnap.Finished
		}
	} else {
		if oldSnap.Cancelled != newSnap.Cancelled {
			diff.Cancelled = &newSnap.Cancelled
		}
		if oldSnap.Finished != newSnap.Finished {
			diff.Finished = &newSnap.Finished
		}
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func diffVariables(old, new *Snapshot) map[string]*string {
	delta := make(map[string]*string)

	for k, v := range new.Variables {
		if old != nil {
			if prev, ok := old.Variables[k]; ok && prev == v {
				continue
			}
		}
		v := v
		delta[k] = &v
	}

	if old != nil {
		for k := range old.Variables {
			if _, ok := new.Variables[k]; !ok {
				delta[k] = nil
			}
		}
	}

	if len(delta) == 0 {
		return nil
	}
	return delta
}

// diffOutput assumes output is append-only.
func diffOutput(old, new *Snapshot) []string {
	start := 0
	if old != nil {
		start = len(old.Output)
	}
	if len(new.Output) <= start {
		return nil
	}
	return append([]string(nil), new.Output[start:]...)
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *SnapshotDiff) IsEmpty() bool {
	return len(d.Variables) == 0 &&
		len(d.Appended) == 0 &&
		d.Cancelled == nil &&
		d.Finished == nil
}
