package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestDiff(t *testing.T) {
	tests := []struct {
		name     string
		old      *Snapshot
		new      *Snapshot
		wantDiff *SnapshotDiff
	}{
		{
			name: "Initial Snapshot (Old is Nil)",
			old:  nil,
			new: &Snapshot{
				RunID:     "run-1",
				Variables: map[string]string{"x": "1"},
				Output:    []string{"hello"},
			},
			wantDiff: &SnapshotDiff{
				RunID:     "run-1",
				Variables: map[string]*string{"x": strPtr("1")},
				Appended:  []string{"hello"},
			},
		},
		{
			name: "No Changes",
			old: &Snapshot{
				RunID:     "run-1",
				Variables: map[string]string{"x": "1"},
				Output:    []string{"hello"},
			},
			new: &Snapshot{
				RunID:     "run-1",
				Variables: map[string]string{"x": "1"},
				Output:    []string{"hello"},
			},
			wantDiff: nil,
		},
		{
			name: "Variables Added, Modified and Deleted",
			old: &Snapshot{
				RunID:     "run-1",
				Variables: map[string]string{"x": "1", "gone": "2"},
			},
			new: &Snapshot{
				RunID:     "run-1",
				Variables: map[string]string{"x": "5", "y": "x + 1"},
			},
			wantDiff: &SnapshotDiff{
				RunID: "run-1",
				Variables: map[string]*string{
					"x":    strPtr("5"),
					"y":    strPtr("x + 1"),
					"gone": nil,
				},
			},
		},
		{
			name: "Output Appended and Finished",
			old: &Snapshot{
				RunID:  "run-1",
				Output: []string{"a"},
			},
			new: &Snapshot{
				RunID:    "run-1",
				Output:   []string{"a", "b", "c"},
				Finished: true,
			},
			wantDiff: &SnapshotDiff{
				RunID:    "run-1",
				Appended: []string{"b", "c"},
				Finished: &[]bool{true}[0],
			},
		},
		{
			name: "Cancelled",
			old:  &Snapshot{RunID: "run-1"},
			new:  &Snapshot{RunID: "run-1", Cancelled: true},
			wantDiff: &SnapshotDiff{
				RunID:     "run-1",
				Cancelled: &[]bool{true}[0],
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.old, tt.new)
			assert.Equal(t, tt.wantDiff, got)
		})
	}
}

func TestDiff_NilNew(t *testing.T) {
	assert.Nil(t, Diff(&Snapshot{RunID: "a"}, nil))
}

func TestDiff_JSONSerialization(t *testing.T) {
	diff := Diff(
		&Snapshot{RunID: "run-1", Variables: map[string]string{"gone": "1"}},
		&Snapshot{RunID: "run-1", Variables: map[string]string{"x": "2"}},
	)
	require.NotNil(t, diff)

	data, err := json.Marshal(diff)
	require.NoError(t, err)
	s := string(data)

	assert.True(t, strings.Contains(s, `"run_id":"run-1"`), s)
	assert.True(t, strings.Contains(s, `"gone":null`), s)
	assert.True(t, strings.Contains(s, `"x":"2"`), s)
	assert.False(t, strings.Contains(s, `"appended"`), s)
}
