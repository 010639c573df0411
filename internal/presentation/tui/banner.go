package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{"                    _   ", "#34d399"},
	{"  _ __   ___   ___| |_ ", "#2dd4bf"},
	{" | '_ \\ / _ \\ / _ \\ __|", "#22d3ee"},
	{" | |_) | (_) |  __/ |_ ", "#38bdf8"},
	{" | .__/ \\___/ \\___|\\__|", "#60a5fa"},
	{" |_|                    ", "#818cf8"},
}

// PrintBanner writes the poet banner to w, colored for the terminal's profile.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String(" "+version).Faint())
	fmt.Fprintln(w)
}
