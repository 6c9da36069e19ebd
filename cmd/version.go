/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tschaefer/flowconsole/internal/version"
)

var versionShort bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		// plain release for scripts checking console compatibility
		if versionShort {
			fmt.Fprintln(cmd.OutOrStdout(), version.Release())
			return
		}
		version.Print()
	},
}

func init() {
	versionCmd.CompletionOptions.SetDefaultShellCompDirective(cobra.ShellCompDirectiveNoFileComp)
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print only the release")
}
