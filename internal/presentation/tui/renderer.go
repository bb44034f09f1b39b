package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/delta/pkg/algorithm"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// The style follows the terminal background.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// Markdown describes an algorithm as a markdown document: header, inputs,
// program text and notes.
func Markdown(alg *algorithm.Algorithm) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", alg.Name)
	fmt.Fprintf(&sb, "_icon_ `%s` · _status_ `%s`", alg.Icon, alg.Status)
	if alg.RemoteID != 0 {
		fmt.Fprintf(&sb, " · _remote_ `%d`", alg.RemoteID)
	}
	if !alg.LastUpdate.IsZero() {
		fmt.Fprintf(&sb, " · _updated_ %s", alg.LastUpdate.Format("2006-01-02 15:04"))
	}
	sb.WriteString("\n\n")

	if len(alg.Inputs) > 0 {
		sb.WriteString("## Inputs\n\n| Name | Default |\n|------|---------|\n")
		for _, in := range alg.Inputs {
			fmt.Fprintf(&sb, "| %s | `%s` |\n", cell(in.Name), cell(in.Default))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Program\n\n```\n")
	if program := alg.String(); program != "" {
		sb.WriteString(program)
		sb.WriteString("\n")
	}
	sb.WriteString("```\n")

	if notes := strings.TrimSpace(alg.Notes); notes != "" {
		sb.WriteString("\n## Notes\n\n")
		sb.WriteString(notes)
		sb.WriteString("\n")
	}
	return sb.String()
}

func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
