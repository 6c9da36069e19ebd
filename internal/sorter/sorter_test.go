/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package sorter

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tschaefer/flowconsole/internal/event"
)

func records() []event.Record {
	return []event.Record{
		{Timestamp: "2025/03/14 09:00:02.000000", Protocol: "TCP", Domain: "b.com", Raw: "r0"},
		{Timestamp: "2025-03-14 09:00:00.500000", Protocol: "UDP", IsTarget: true, Domain: "A.com", Raw: "r1"},
		{Timestamp: "2025/03/14 09:00:01.000000", Protocol: "TCP", Domain: "c.com", Raw: "r2"},
		{Timestamp: "2025/03/14 09:00:01.000000", Protocol: "UDP", IsTarget: true, Domain: "a.com", Raw: "r3"},
	}
}

func raws(recs []event.Record) []string {
	out := []string{}
	for _, r := range recs {
		out = append(out, r.Raw)
	}
	return out
}

func TestToggle(t *testing.T) {
	var s State
	s = s.Toggle("domain")
	assert.Equal(t, State{Column: "domain", Direction: Ascending}, s)
	s = s.Toggle("domain")
	assert.Equal(t, State{Column: "domain", Direction: Descending}, s)
	s = s.Toggle("domain")
	assert.Equal(t, State{}, s)
	s = s.Toggle("domain")
	assert.Equal(t, State{Column: "domain", Direction: Ascending}, s)

	s = State{Column: "domain", Direction: Descending}.Toggle("timestamp")
	assert.Equal(t, State{Column: "timestamp", Direction: Ascending}, s)

	assert.Equal(t, State{}, s.Toggle(""))
	assert.False(t, s.Clear().Active())
}

func TestParseState(t *testing.T) {
	tests := []struct {
		input    string
		expected State
	}{
		{"", State{}},
		{"none", State{}},
		{"domain", State{Column: "domain", Direction: Ascending}},
		{"Domain:DESC", State{Column: "domain", Direction: Descending}},
		{"timestamp:asc", State{Column: "timestamp", Direction: Ascending}},
		{"target:none", State{}},
	}
	for _, tt := range tests {
		s, err := ParseState(tt.input)
		assert.NoError(t, err, tt.input)
		assert.Equal(t, tt.expected, s, tt.input)
	}

	_, err := ParseState("size:asc")
	assert.EqualError(t, err, "unknown sort column: \"size\"")
	_, err = ParseState("domain:up")
	assert.EqualError(t, err, "unknown sort direction: \"up\"")
}

func TestInstant(t *testing.T) {
	a, ok := Instant("2025/03/14 09:00:01.250000")
	require.True(t, ok)
	b, ok := Instant("2025-03-14 09:00:01.250000")
	require.True(t, ok)
	assert.Equal(t, a, b)

	for _, ts := range []string{"", "2025.03.14 09:00:01.250000", "14/03/2025 09:00:01.250000", "2025/03/14T09:00:01"} {
		_, ok := Instant(ts)
		assert.False(t, ok, ts)
	}
}

func TestSort(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		expected []string
	}{
		{"unsorted keeps insertion order", State{}, []string{"r0", "r1", "r2", "r3"}},
		{"column without direction keeps order", State{Column: "domain"}, []string{"r0", "r1", "r2", "r3"}},
		{"timestamp ascending", State{"timestamp", Ascending}, []string{"r1", "r2", "r3", "r0"}},
		{"timestamp descending keeps ties stable", State{"timestamp", Descending}, []string{"r0", "r2", "r3", "r1"}},
		{"domain ascending is case insensitive and stable", State{"domain", Ascending}, []string{"r1", "r3", "r0", "r2"}},
		{"target ascending", State{"target", Ascending}, []string{"r0", "r2", "r1", "r3"}},
		{"target descending", State{"target", Descending}, []string{"r1", "r3", "r0", "r2"}},
		{"protocol descending", State{"protocol", Descending}, []string{"r1", "r3", "r0", "r2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, raws(Sort(records(), tt.state)))
		})
	}
}

func TestSort_DoesNotMutateInput(t *testing.T) {
	input := records()
	before := slices.Clone(input)
	_ = Sort(input, State{"domain", Descending})
	assert.Equal(t, before, input)
}

func TestSort_IsIdempotent(t *testing.T) {
	state := State{"timestamp", Ascending}
	once := Sort(records(), state)
	assert.Equal(t, once, Sort(once, state))
}

func TestSort_DescendingReversesAscending(t *testing.T) {
	input := []event.Record{
		{Domain: "d.com", Raw: "r0"},
		{Domain: "a.com", Raw: "r1"},
		{Domain: "c.com", Raw: "r2"},
		{Domain: "b.com", Raw: "r3"},
	}
	asc := Sort(input, State{"domain", Ascending})
	desc := Sort(input, State{"domain", Descending})
	slices.Reverse(desc)
	assert.Equal(t, asc, desc)
}

func TestSort_InvalidTimestampsLast(t *testing.T) {
	input := []event.Record{
		{Timestamp: "garbage", Raw: "bad"},
		{Timestamp: "2025/03/14 09:00:02.000000", Raw: "late"},
		{Timestamp: "2025/03/14 09:00:01.000000", Raw: "early"},
	}
	assert.Equal(t, []string{"early", "late", "bad"}, raws(Sort(input, State{"timestamp", Ascending})))
	assert.Equal(t, []string{"late", "early", "bad"}, raws(Sort(input, State{"timestamp", Descending})))
}
