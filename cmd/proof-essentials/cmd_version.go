package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/proof-essentials/proof-essentials-go/pkg/essentials"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/curve"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "proof-essentials %s (commit %s)\n", essentials.LibraryVersion(), essentials.Commit)
		fmt.Fprintf(out, "curve: %s\n", curve.Name)
		fmt.Fprintf(out, "license: %s\n", essentials.License)
	},
}
