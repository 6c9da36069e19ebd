/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/tschaefer/flowconsole/internal/api"
	"github.com/tschaefer/flowconsole/internal/view"
)

type setOptions struct {
	name     string
	disabled bool
	enabled  bool
}

var setFlags = setOptions{}

var setsCmd = &cobra.Command{
	Use:   "sets",
	Short: "Manage configuration sets on the backend",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		l, _ := newLogger()
		slog.SetDefault(l.Logger)
	},
}

var setsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configuration sets in evaluation order",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		sets, err := newClient().Sets(commandContext(cmd))
		exitOnAPIError(err)

		table, err := view.Sets(sets)
		cobra.CheckErr(err)
		fmt.Println(table)
	},
}

var setsCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a configuration set",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := commandContext(cmd)
		client := newClient()

		set, err := client.CreateSet(ctx, args[0])
		exitOnAPIError(err)
		if setFlags.disabled {
			set.Enabled = false
			set, err = client.UpdateSet(ctx, set)
			exitOnAPIError(err)
		}
		pterm.Success.Printfln("Created set %s (%s).", set.Name, set.ID)
	},
}

var setsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Rename, enable or disable a configuration set",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := commandContext(cmd)
		client := newClient()

		sets, err := client.Sets(ctx)
		exitOnAPIError(err)
		i := slices.IndexFunc(sets, func(s api.Set) bool { return s.ID == args[0] })
		if i < 0 {
			cobra.CheckErr(fmt.Sprintf("unknown set: %q", args[0]))
		}

		set := sets[i]
		if cmd.Flags().Changed("name") {
			set.Name = setFlags.name
		}
		if cmd.Flags().Changed("enabled") {
			set.Enabled = setFlags.enabled
		}

		set, err = client.UpdateSet(ctx, set)
		exitOnAPIError(err)
		pterm.Success.Printfln("Updated set %s (%s).", set.Name, set.ID)
	},
}

var setsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a configuration set",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		exitOnAPIError(newClient().DeleteSet(commandContext(cmd), args[0]))
		pterm.Success.Printfln("Deleted set %s.", args[0])
	},
}

var setsReorderCmd = &cobra.Command{
	Use:   "reorder <id>...",
	Short: "Set the evaluation order of all configuration sets",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		exitOnAPIError(newClient().ReorderSets(commandContext(cmd), args))
		pterm.Success.Println("Reordered sets.")
	},
}

func init() {
	setsCmd.AddCommand(setsListCmd)
	setsCmd.AddCommand(setsCreateCmd)
	setsCmd.AddCommand(setsUpdateCmd)
	setsCmd.AddCommand(setsDeleteCmd)
	setsCmd.AddCommand(setsReorderCmd)

	for _, c := range setsCmd.Commands() {
		c.CompletionOptions.SetDefaultShellCompDirective(cobra.ShellCompDirectiveNoFileComp)
	}

	setsCreateCmd.Flags().BoolVar(&setFlags.disabled, "disabled", false, "Create the set disabled")
	setsUpdateCmd.Flags().StringVar(&setFlags.name, "name", "", "New set name")
	setsUpdateCmd.Flags().BoolVar(&setFlags.enabled, "enabled", true, "Enable or disable the set")
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// exitOnAPIError reports the backend message of err and exits.
func exitOnAPIError(err error) {
	if err == nil {
		return
	}
	pterm.Error.Println(api.Message(err))
	os.Exit(1)
}
