/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package filter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/tschaefer/flowconsole/internal/event"
)

// Accessor returns the attribute of a record a field name refers to.
type Accessor func(rec event.Record) string

// PredicateFunc is a compiled query.
type PredicateFunc func(rec event.Record) bool

var accessors = map[string]Accessor{
	"timestamp":   func(r event.Record) string { return r.Timestamp },
	"protocol":    func(r event.Record) string { return r.Protocol },
	"target":      func(r event.Record) string { return r.Target() },
	"domain":      func(r event.Record) string { return r.Domain },
	"source":      func(r event.Record) string { return r.Source },
	"destination": func(r event.Record) string { return r.Destination },
}

var aliases = map[string]string{
	"time":  "timestamp",
	"proto": "protocol",
	"src":   "source",
	"dst":   "destination",
	"dest":  "destination",
}

// globals are the attributes a term without field prefix is matched against.
var globals = []string{"domain", "source", "protocol", "destination"}

func init() {
	if err := validate(event.Fields); err != nil {
		panic(err)
	}
}

func validate(fields []string) error {
	for name := range accessors {
		if !slices.Contains(fields, name) {
			return fmt.Errorf("filter accessor %q has no record attribute", name)
		}
	}
	for _, name := range fields {
		if _, ok := accessors[name]; !ok {
			return fmt.Errorf("record attribute %q has no filter accessor", name)
		}
	}
	return nil
}

func canonical(field string) string {
	if name, ok := aliases[field]; ok {
		return name
	}
	return field
}

// Lookup returns the accessor for a field name or alias.
func Lookup(field string) (Accessor, bool) {
	a, ok := accessors[canonical(strings.ToLower(field))]
	return a, ok
}

// Compile turns q into a predicate. Unknown fields match no record.
func Compile(q Query) PredicateFunc {
	if q.Empty() {
		return func(event.Record) bool { return true }
	}

	var preds []PredicateFunc
	for field, values := range q.Fields {
		preds = append(preds, compileField(field, values))
	}
	for _, term := range q.Globals {
		preds = append(preds, compileGlobal(term))
	}

	return func(rec event.Record) bool {
		for _, pred := range preds {
			if !pred(rec) {
				return false
			}
		}
		return true
	}
}

// Match reports whether rec satisfies q. Callers testing many records
// should Compile once instead.
func (q Query) Match(rec event.Record) bool {
	return Compile(q)(rec)
}

func compileField(field string, values []string) PredicateFunc {
	get, ok := accessors[field]
	if !ok {
		return func(event.Record) bool { return false }
	}

	return func(rec event.Record) bool {
		attr := strings.ToLower(get(rec))
		for _, v := range values {
			if strings.Contains(attr, v) {
				return true
			}
		}
		return false
	}
}

func compileGlobal(term string) PredicateFunc {
	return func(rec event.Record) bool {
		for _, name := range globals {
			if strings.Contains(strings.ToLower(accessors[name](rec)), term) {
				return true
			}
		}
		return false
	}
}
