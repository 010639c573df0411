package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/asgeY/poet"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of poet",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "poet version %s\n", strings.TrimSpace(poet.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
