/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package filter

import (
	"slices"
	"strings"
)

// Separator joins terms in a query string. It cannot be escaped.
const Separator = "+"

// Query is the parsed form of a filter string. Values of one field are OR
// combined, distinct fields and global terms are AND combined.
type Query struct {
	Fields  map[string][]string
	Globals []string
}

// ParseQuery splits s on Separator. A term whose colon follows at least one
// character is scoped to the field named before the colon.
func ParseQuery(s string) Query {
	q := Query{Fields: map[string][]string{}}

	for _, term := range strings.Split(s, Separator) {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}

		idx := strings.Index(term, ":")
		if idx <= 0 {
			q.Globals = append(q.Globals, term)
			continue
		}

		field := canonical(term[:idx])
		q.Fields[field] = append(q.Fields[field], term[idx+1:])
	}

	return q
}

// Empty reports whether the query has no terms and therefore matches all.
func (q Query) Empty() bool {
	return len(q.Fields) == 0 && len(q.Globals) == 0
}

// Unknown returns the scoped field names no record attribute answers to.
func (q Query) Unknown() []string {
	var unknown []string
	for field := range q.Fields {
		if _, ok := accessors[field]; !ok {
			unknown = append(unknown, field)
		}
	}
	slices.Sort(unknown)
	return unknown
}
