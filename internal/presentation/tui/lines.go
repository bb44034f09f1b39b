package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/delta/pkg/action"
	"github.com/aretw0/delta/pkg/algorithm"
	"github.com/aretw0/delta/pkg/domain"
	"github.com/muesli/termenv"
)

var lineTemplates = map[string]string{
	algorithm.FormatSettingsName:  "name %s",
	algorithm.FormatSettingsIcon:  "icon %s",
	algorithm.FormatSettingsCloud: "cloud %s",
	action.FormatIf:               "if %s",
	action.FormatElse:             "else",
	action.FormatWhile:            "while %s",
	action.FormatFor:              "for %s in %s",
	action.FormatSet:              "set %s to %s",
	action.FormatInput:            "input %s default %s",
	action.FormatPrint:            "print %s",
	action.FormatAdd:              "+",
	action.FormatEnd:              "end",
}

var categoryColors = map[domain.LineCategory]string{
	domain.CategorySettings:  "#a78bfa",
	domain.CategoryStructure: "#60a5fa",
	domain.CategoryValue:     "#34d399",
	domain.CategoryAdd:       "#6b7280",
}

// LineText renders one editor line the way a flat editor would display it.
func LineText(line domain.EditorLine) string {
	tmpl, ok := lineTemplates[line.Format]
	if !ok {
		return line.Format + " " + strings.Join(line.Values, " ")
	}
	args := make([]any, len(line.Values))
	for i, v := range line.Values {
		args[i] = v
	}
	if n := strings.Count(tmpl, "%s"); n != len(args) {
		return strings.TrimSpace(strings.ReplaceAll(tmpl, "%s", "")) + " " + strings.Join(line.Values, " ")
	}
	return fmt.Sprintf(tmpl, args...)
}

// WriteLines prints the settings lines followed by the editor lines of alg,
// one per row with their flat index, colored by category for the profile of w.
// Settings indexes are prefixed with "s".
func WriteLines(w io.Writer, alg *algorithm.Algorithm) {
	p := termenv.NewOutput(w).Profile
	for i, line := range alg.Settings() {
		writeLine(w, p, fmt.Sprintf("s%d", i), line)
	}
	for i, line := range alg.EditorLines() {
		writeLine(w, p, fmt.Sprintf("%d", i), line)
	}
}

func writeLine(w io.Writer, p termenv.Profile, index string, line domain.EditorLine) {
	text := strings.Repeat("    ", line.Indentation) + LineText(line)
	styled := p.String(text).Foreground(p.Color(categoryColors[line.Category]))
	if line.Category == domain.CategoryStructure {
		styled = styled.Bold()
	}
	fmt.Fprintf(w, "%4s  %s\n", index, styled)
}
