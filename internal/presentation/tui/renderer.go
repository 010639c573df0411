// Package tui renders screen output for a terminal.
package tui

import (
	"fmt"
	"strings"

	"github.com/asgeY/poet/pkg/screen"
	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"
)

// Renderer turns markdown into terminal output.
type Renderer func(markdown string) (string, error)

// NewRenderer returns a glamour renderer that adapts to a light or dark
// background. If glamour cannot be initialized, markdown is returned as is.
func NewRenderer() Renderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)
	if err != nil {
		return PlainRenderer
	}
	return r.Render
}

// PlainRenderer returns markdown unchanged.
func PlainRenderer(markdown string) (string, error) {
	return markdown, nil
}

// AlertMarkdown formats an alert as a markdown section.
func AlertMarkdown(a screen.Alert) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n", a.Title)
	if a.Message != "" {
		fmt.Fprintf(&b, "\n%s\n", a.Message)
	}
	return b.String()
}

// RenderAlert renders a through r, falling back to the raw markdown on error.
func RenderAlert(r Renderer, a screen.Alert) string {
	md := AlertMarkdown(a)
	out, err := r(md)
	if err != nil {
		return md
	}
	return out
}

// Bezel formats a bezel as a short highlighted line.
func Bezel(b screen.Bezel) string {
	text := b.Text
	if b.Glyph != "" {
		text = b.Glyph + " " + text
	}
	p := termenv.ColorProfile()
	return termenv.String(" " + text + " ").Reverse().Foreground(p.Color("#34d399")).String()
}

// ActionLine formats an action as a numbered menu entry. Disabled actions are dimmed.
func ActionLine[I screen.Intent](key string, a screen.Action[I]) string {
	line := fmt.Sprintf("[%s] %s", key, a.Title)
	if !a.Enabled {
		return termenv.String(line).Faint().String()
	}
	return line
}
