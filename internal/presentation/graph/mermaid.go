package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/delta/pkg/action"
	"github.com/aretw0/delta/pkg/algorithm"
)

// Overlay contains run state to visualize on the graph. Lines are editor line
// indexes of the action tree, settings lines excluded.
type Overlay struct {
	Visited []int
	Current int // -1 when nothing is running
}

const (
	startID = "start"
	endID   = "finish"
)

// exit is a dangling edge leaving a node, connected to whatever comes next.
type exit struct {
	from  string
	label string
}

type builder struct {
	sb    strings.Builder
	nodes map[int]bool
}

// GenerateMermaid produces a Mermaid flowchart of the algorithm's action tree.
// Node IDs are derived from editor line indexes, so an overlay can address
// them. Shapes:
// - Start and end: ((Circle))
// - If / While: {Rhombus}
// - For: {{Hexagon}}
// - Input: [/Parallelogram/]
// - Print: >Flag]
// - Set: [Rectangle]
func GenerateMermaid(alg *algorithm.Algorithm, overlay *Overlay) string {
	b := &builder{nodes: make(map[int]bool)}
	b.sb.WriteString("graph TD\n")
	b.sb.WriteString(fmt.Sprintf("    %s((\"%s\"))\n", startID, escape(alg.Name)))

	exits := b.sequence([]exit{{from: startID}}, alg.Root.Actions, 0)

	b.sb.WriteString(fmt.Sprintf("    %s((\"end\"))\n", endID))
	b.connect(exits, endID)

	if overlay != nil {
		b.sb.WriteString("\n    %% Overlay Styles\n")
		b.sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		b.sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[int]bool)
		for _, line := range overlay.Visited {
			if !b.nodes[line] || seen[line] {
				continue
			}
			seen[line] = true
			b.sb.WriteString(fmt.Sprintf("    class %s visited;\n", nodeID(line)))
		}
		if b.nodes[overlay.Current] {
			b.sb.WriteString(fmt.Sprintf("    class %s current;\n", nodeID(overlay.Current)))
		}
	}

	return b.sb.String()
}

// sequence chains actions starting at editor line `line` and returns the exits
// of the last one. An empty sequence passes its incoming exits through.
func (b *builder) sequence(in []exit, actions []action.Action, line int) []exit {
	for _, a := range actions {
		in = b.action(in, a, line)
		line += a.EditorLinesCount()
	}
	return in
}

func (b *builder) action(in []exit, a action.Action, line int) []exit {
	id := nodeID(line)
	b.nodes[line] = true

	switch v := a.(type) {
	case *action.If:
		b.node(id, "{", "}", "if "+v.Condition)
		b.connect(in, id)

		out := b.sequence([]exit{{from: id, label: "yes"}}, v.Actions, line+1)
		if v.Else == nil {
			return append(out, exit{from: id, label: "no"})
		}
		elseLine := line + 1 + linesCount(v.Actions) + 1
		return append(out, b.sequence([]exit{{from: id, label: "no"}}, v.Else.Actions, elseLine+1)...)

	case *action.While:
		b.node(id, "{", "}", "while "+v.Condition)
		b.connect(in, id)
		body := b.sequence([]exit{{from: id, label: "yes"}}, v.Actions, line+1)
		b.connect(body, id)
		return []exit{{from: id, label: "no"}}

	case *action.For:
		b.node(id, "{{", "}}", "for "+v.Variable+" in "+v.List)
		b.connect(in, id)
		body := b.sequence([]exit{{from: id, label: "next"}}, v.Actions, line+1)
		b.connect(body, id)
		return []exit{{from: id, label: "done"}}

	case *action.Input:
		b.node(id, "[/", "/]", "input "+v.Name+" = "+v.Default)
	case *action.Print:
		b.node(id, ">", "]", "print "+v.Text)
	case *action.Set:
		b.node(id, "[", "]", "set "+v.Name+" = "+v.Value)
	default:
		b.node(id, "[", "]", a.String())
	}
	b.connect(in, id)
	return []exit{{from: id}}
}

func (b *builder) node(id, opener, closer, label string) {
	b.sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", id, opener, escape(label), closer))
}

func (b *builder) connect(exits []exit, to string) {
	for _, e := range exits {
		if e.label == "" {
			b.sb.WriteString(fmt.Sprintf("    %s --> %s\n", e.from, to))
			continue
		}
		b.sb.WriteString(fmt.Sprintf("    %s -- \"%s\" --> %s\n", e.from, e.label, to))
	}
}

func linesCount(actions []action.Action) int {
	n := 0
	for _, a := range actions {
		n += a.EditorLinesCount()
	}
	return n
}

func nodeID(line int) string {
	return fmt.Sprintf("L%d", line)
}

// escape makes a label safe inside a quoted Mermaid string.
func escape(label string) string {
	return strings.ReplaceAll(label, "\"", "#quot;")
}
