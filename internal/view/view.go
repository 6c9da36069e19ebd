/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package view

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/tschaefer/flowconsole/internal/api"
	"github.com/tschaefer/flowconsole/internal/console"
	"github.com/tschaefer/flowconsole/internal/event"
	"github.com/tschaefer/flowconsole/internal/sorter"
)

// Columns in display order. Sort key n selects Columns[n-1].
var Columns = []string{"timestamp", "protocol", "target", "domain", "source", "destination"}

var headers = map[string]string{
	"timestamp":   "Time",
	"protocol":    "Proto",
	"target":      "Target",
	"domain":      "Domain",
	"source":      "Source",
	"destination": "Destination",
}

func header(state sorter.State) []string {
	row := make([]string, 0, len(Columns))
	for _, col := range Columns {
		h := headers[col]
		if state.Column == col {
			switch state.Direction {
			case sorter.Ascending:
				h += " ▲"
			case sorter.Descending:
				h += " ▼"
			}
		}
		row = append(row, h)
	}
	return row
}

func row(rec event.Record) []string {
	target := ""
	if rec.IsTarget {
		target = pterm.LightRed("yes")
	}
	return []string{rec.Timestamp, rec.Protocol, target, rec.Domain, rec.Source, rec.Destination}
}

// Table renders at most limit records, the last ones if limit is exceeded.
// A limit of zero renders all records.
func Table(records []event.Record, state sorter.State, limit int) (string, error) {
	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}

	data := pterm.TableData{header(state)}
	for _, rec := range records {
		data = append(data, row(rec))
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}

// Status is the one line summary above the table.
func Status(v console.View, query string, state sorter.State) string {
	parts := []string{fmt.Sprintf("%d/%d events", len(v.Records), v.Total)}
	if query != "" {
		parts = append(parts, "filter: "+query)
	}
	if state.Active() {
		parts = append(parts, "sort: "+state.String())
	}
	if v.Paused {
		parts = append(parts, pterm.Yellow("PAUSED"))
	}
	if v.Failed {
		parts = append(parts, pterm.Red("STREAM CLOSED"))
	}
	return strings.Join(parts, " | ")
}

// Variants renders numbered rule candidates.
func Variants(candidates []string) (string, error) {
	data := pterm.TableData{{"#", "Candidate"}}
	for i, c := range candidates {
		data = append(data, []string{strconv.Itoa(i + 1), c})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}

// Sets renders configuration sets in backend order.
func Sets(sets []api.Set) (string, error) {
	data := pterm.TableData{{"ID", "Name", "Enabled"}}
	for _, s := range sets {
		data = append(data, []string{s.ID, s.Name, strconv.FormatBool(s.Enabled)})
	}
	return pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
}
