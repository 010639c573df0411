package graph_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/asgeY/poet/internal/presentation/graph"
	"github.com/asgeY/poet/pkg/step"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		initial  string
		table    *step.Table
		contains []string
	}{
		{
			name:    "Initial Shape",
			initial: "loading",
			table:   step.NewTable().Allow("loading", "browsing"),
			contains: []string{
				"loading((\"loading\"))",
				"loading --> browsing",
			},
		},
		{
			name:    "Terminal Shape",
			initial: "waiting",
			table:   step.NewTable().Allow("waiting", "counting").Allow("counting", "finished"),
			contains: []string{
				"counting[\"counting\"]",
				"finished([\"finished\"])",
			},
		},
		{
			name:    "ID Sanitization",
			initial: "path/to/file.md",
			table:   step.NewTable().Allow("path/to/file.md", "hyphen-ated"),
			contains: []string{
				"path_to_file_md((\"path/to/file.md\"))",
				"path_to_file_md --> hyphen_ated",
			},
		},
		{
			name:     "Empty Table",
			initial:  "login",
			table:    step.NewTable(),
			contains: []string{"graph TD", "login((\"login\"))"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.initial, tt.table, nil)
			for _, want := range tt.contains {
				assert.Contains(t, got, want)
			}
			assert.NotContains(t, got, "classDef")
		})
	}
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	table := step.NewTable().
		Allow("loading", "browsing").
		Allow("browsing", "reviewing").
		Allow("reviewing", "browsing", "complete")

	got := graph.GenerateMermaid("loading", table, &graph.Overlay{
		Visited: []string{"loading", "browsing", "browsing"},
		Current: "reviewing",
	})

	assert.Contains(t, got, "classDef visited")
	assert.Contains(t, got, "classDef current")
	assert.Equal(t, 1, strings.Count(got, "class browsing visited;"))
	assert.Contains(t, got, "class loading visited;")
	assert.Contains(t, got, "class reviewing current;")
	assert.Contains(t, got, "reviewing --> complete")
}
