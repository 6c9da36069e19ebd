/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package sorter

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/tschaefer/flowconsole/internal/event"
)

type Direction int

const (
	None Direction = iota
	Ascending
	Descending
)

func (d Direction) String() string {
	switch d {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	default:
		return "none"
	}
}

const timestampLayout = "2006-01-02 15:04:05.000000"

// State is the active sort column and its direction. The zero value is
// unsorted.
type State struct {
	Column    string
	Direction Direction
}

// Active reports whether a column and direction are set.
func (s State) Active() bool {
	return s.Column != "" && s.Direction != None
}

// Toggle selects column. A new column starts ascending, the same column
// cycles ascending, descending, none.
func (s State) Toggle(column string) State {
	if column == "" {
		return State{}
	}
	if s.Column != column || s.Direction == None {
		return State{Column: column, Direction: Ascending}
	}
	if s.Direction == Ascending {
		return State{Column: column, Direction: Descending}
	}
	return State{}
}

// Clear returns the unsorted state.
func (s State) Clear() State {
	return State{}
}

func (s State) String() string {
	if !s.Active() {
		return "none"
	}
	return s.Column + ":" + s.Direction.String()
}

// ParseState reads "column[:asc|desc]". An empty string or "none" is the
// unsorted state.
func ParseState(s string) (State, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "none" {
		return State{}, nil
	}

	column, dir, _ := strings.Cut(s, ":")
	if !slices.Contains(event.Fields, column) {
		return State{}, fmt.Errorf("unknown sort column: %q", column)
	}

	switch dir {
	case "", "asc":
		return State{Column: column, Direction: Ascending}, nil
	case "desc":
		return State{Column: column, Direction: Descending}, nil
	case "none":
		return State{}, nil
	}
	return State{}, fmt.Errorf("unknown sort direction: %q", dir)
}

type key struct {
	num   int64
	str   string
	valid bool
}

type keyFunc func(rec event.Record) key

func keyFor(column string) keyFunc {
	switch column {
	case "timestamp":
		return func(r event.Record) key {
			ms, ok := Instant(r.Timestamp)
			return key{num: ms, valid: ok}
		}
	case "target":
		return func(r event.Record) key {
			if r.IsTarget {
				return key{num: 1, valid: true}
			}
			return key{num: 0, valid: true}
		}
	}

	return func(r event.Record) key {
		var v string
		switch column {
		case "protocol":
			v = r.Protocol
		case "domain":
			v = r.Domain
		case "source":
			v = r.Source
		case "destination":
			v = r.Destination
		}
		return key{str: strings.ToLower(v), valid: true}
	}
}

// Instant converts a record timestamp to epoch milliseconds. The date
// segment may use '/' or '-'; anything else is rejected.
func Instant(ts string) (int64, bool) {
	date, clock, ok := strings.Cut(ts, " ")
	if !ok {
		return 0, false
	}
	date = strings.ReplaceAll(date, "/", "-")

	t, err := time.Parse(timestampLayout, date+" "+clock)
	if err != nil {
		return 0, false
	}
	return t.UnixMilli(), true
}

// Sort returns a sorted copy of records. Ties keep their input order and
// timestamps that cannot be read sort last in either direction.
func Sort(records []event.Record, state State) []event.Record {
	out := slices.Clone(records)
	if !state.Active() || !slices.Contains(event.Fields, state.Column) {
		return out
	}

	get := keyFor(state.Column)
	type entry struct {
		rec event.Record
		key key
	}
	entries := make([]entry, len(out))
	for i, r := range out {
		entries[i] = entry{rec: r, key: get(r)}
	}

	sign := 1
	if state.Direction == Descending {
		sign = -1
	}

	slices.SortStableFunc(entries, func(a, b entry) int {
		if !a.key.valid || !b.key.valid {
			return compareValidity(a.key.valid, b.key.valid)
		}
		if c := cmp.Compare(a.key.num, b.key.num); c != 0 {
			return sign * c
		}
		return sign * strings.Compare(a.key.str, b.key.str)
	})

	for i, e := range entries {
		out[i] = e.rec
	}
	return out
}

func compareValidity(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return -1
	default:
		return 1
	}
}
