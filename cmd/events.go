/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package cmd

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/tschaefer/flowconsole/internal/sorter"
	"github.com/tschaefer/flowconsole/internal/view"
)

type eventsListOptions struct {
	filter string
	sort   string
	limit  int
}

var listOptions = eventsListOptions{}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Inspect the persisted event buffer",
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List persisted events",
	Run: func(cmd *cobra.Command, args []string) {
		state, err := sorter.ParseState(listOptions.sort)
		if err != nil {
			cobra.CheckErr(fmt.Sprintf("Invalid sort: %v", err))
		}

		l, closeLog := newLogger()
		defer closeLog()
		c, closeConsole := newConsole(l, false)
		defer closeConsole()

		v := c.Snapshot().View(listOptions.filter, state)
		table, err := view.Table(v.Records, state, listOptions.limit)
		cobra.CheckErr(err)

		fmt.Println(table)
		for _, marker := range v.Markers {
			pterm.Warning.Println(marker)
		}
		fmt.Println(view.Status(v, listOptions.filter, state))
	},
}

var eventsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear persisted events",
	Run: func(cmd *cobra.Command, args []string) {
		l, closeLog := newLogger()
		defer closeLog()
		c, closeConsole := newConsole(l, false)
		defer closeConsole()

		n := c.Buffer.Len()
		c.Clear()
		pterm.Success.Printfln("Cleared %d events.", n)
	},
}

func init() {
	eventsCmd.AddCommand(eventsListCmd)
	eventsCmd.AddCommand(eventsClearCmd)

	eventsListCmd.CompletionOptions.SetDefaultShellCompDirective(cobra.ShellCompDirectiveNoFileComp)
	eventsListCmd.Flags().StringVar(&listOptions.filter, "filter", "", "Filter query (terms joined by +)")
	eventsListCmd.Flags().StringVar(&listOptions.sort, "sort", "", fmt.Sprintf("Sort as column[:asc|desc] (%s)", strings.Join(view.Columns, ", ")))
	_ = eventsListCmd.RegisterFlagCompletionFunc("sort", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return view.Columns, cobra.ShellCompDirectiveNoFileComp
	})
	eventsListCmd.Flags().IntVar(&listOptions.limit, "limit", 0, "Show at most this many rows (0 for all)")
}
