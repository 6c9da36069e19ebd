/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package filter

import "github.com/tschaefer/flowconsole/internal/event"

// Apply returns the records matching the filter string s, in input order.
func Apply(records []event.Record, s string) []event.Record {
	q := ParseQuery(s)
	if q.Empty() {
		return records
	}

	match := Compile(q)
	out := make([]event.Record, 0, len(records))
	for _, rec := range records {
		if match(rec) {
			out = append(out, rec)
		}
	}
	return out
}
