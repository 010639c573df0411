package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/asgeY/poet/internal/presentation/graph"
	"github.com/asgeY/poet/pkg/screens"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <screen>",
	Short: "Export a screen's step flow",
	Long: `Outputs a Mermaid diagram (graph TD) of the transitions a screen allows.
Use --visited and --current to highlight a path taken by a session.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flows := screens.Flows()
		flow, ok := flows[args[0]]
		if !ok {
			kinds := make([]string, 0, len(flows))
			for k := range flows {
				kinds = append(kinds, k)
			}
			slices.Sort(kinds)
			return fmt.Errorf("unknown screen %q, expected one of %s", args[0], strings.Join(kinds, ", "))
		}

		visited, _ := cmd.Flags().GetStringSlice("visited")
		current, _ := cmd.Flags().GetString("current")
		var overlay *graph.Overlay
		if len(visited) > 0 || current != "" {
			overlay = &graph.Overlay{Visited: visited, Current: current}
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(flow.Initial, flow.Table, overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringSlice("visited", nil, "Steps to mark as visited")
	graphCmd.Flags().String("current", "", "Step to mark as current")
}
