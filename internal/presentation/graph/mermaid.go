package graph

import (
	"fmt"
	"strings"

	"github.com/asgeY/poet/pkg/step"
)

// Overlay contains session data to highlight on the diagram.
type Overlay struct {
	Visited []string
	Current string
}

// GenerateMermaid produces a Mermaid flowchart of a screen's transition table.
// initial is drawn as a circle and steps without outgoing moves as terminal
// stadiums. Overlay styles are applied if provided.
func GenerateMermaid(initial string, table *step.Table, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	moves := table.Moves()
	outgoing := make(map[string]bool)
	var order []string
	seen := make(map[string]bool)
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			order = append(order, name)
		}
	}
	add(initial)
	for _, m := range moves {
		outgoing[m.From] = true
		add(m.From)
		add(m.To)
	}

	for _, name := range order {
		opener, closer := "[", "]"
		switch {
		case name == initial:
			opener, closer = "((", "))"
		case !outgoing[name]:
			opener, closer = "([", "])"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", sanitizeMermaidID(name), opener, name, closer)
	}
	for _, m := range moves {
		fmt.Fprintf(&sb, "    %s --> %s\n", sanitizeMermaidID(m.From), sanitizeMermaidID(m.To))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visited := make(map[string]bool)
		for _, name := range overlay.Visited {
			id := sanitizeMermaidID(name)
			if id != "" && !visited[id] {
				visited[id] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", id)
			}
		}
		if overlay.Current != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.Current))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	r := strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_")
	return r.Replace(id)
}
