package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []string{
	"      _      _ _",
	"   __| | ___| | |_ __ _",
	"  / _` |/ _ \\ | __/ _` |",
	" | (_| |  __/ | || (_| |",
	"  \\__,_|\\___|_|\\__\\__,_|",
}

var bannerColors = []string{"#34d399", "#2dd4bf", "#22d3ee", "#38bdf8", "#60a5fa"}

// PrintBanner writes the delta ASCII art banner to w, colored when the
// terminal supports it.
func PrintBanner(w io.Writer) {
	p := termenv.NewOutput(w).Profile
	fmt.Fprintln(w)
	for i, line := range bannerLines {
		fmt.Fprintln(w, p.String(line).Foreground(p.Color(bannerColors[i])))
	}
	fmt.Fprintln(w)
}
