/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package event

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	ProtocolTCP = "TCP"
	ProtocolUDP = "UDP"

	targetMarker = " [target]"
	errorMarker  = "!! stream error: "
)

// Record is one parsed classification event. Raw is the identity key.
type Record struct {
	Timestamp   string `json:"timestamp"`
	Protocol    string `json:"protocol"`
	IsTarget    bool   `json:"target"`
	Domain      string `json:"domain"`
	Source      string `json:"source"`
	Destination string `json:"destination"`
	Raw         string `json:"-"`
}

// Fields lists the attribute names a record exposes to filtering and sorting.
var Fields = []string{"timestamp", "protocol", "target", "domain", "source", "destination"}

var lineRegexp = regexp.MustCompile(
	`^(\d{4}[/-]\d{2}[/-]\d{2} \d{2}:\d{2}:\d{2}\.\d{6}) \[[A-Za-z]+\] \[proto\] (TCP|UDP)(?: \[target\])?: (\S+) (\S+) (->) (\S+)$`,
)

// Parse converts a single line into a Record. It reports false for any line
// that does not match the event grammar.
func Parse(line string) (Record, bool) {
	line = strings.TrimRight(line, "\r\n")

	m := lineRegexp.FindStringSubmatch(line)
	if m == nil {
		return Record{}, false
	}

	return Record{
		Timestamp:   m[1],
		Protocol:    m[2],
		IsTarget:    strings.Contains(line, targetMarker),
		Domain:      m[3],
		Source:      m[4],
		Destination: m[6],
		Raw:         line,
	}, true
}

// ParseAll parses lines in order, dropping everything that does not parse.
func ParseAll(lines []string) []Record {
	records := make([]Record, 0, len(lines))
	for _, line := range lines {
		if rec, ok := Parse(line); ok {
			records = append(records, rec)
		}
	}
	return records
}

// ErrorMarker returns the synthetic log line shown for a failed stream.
func ErrorMarker(err error) string {
	return fmt.Sprintf("%s%v", errorMarker, err)
}

// IsMarker reports whether line is a synthetic stream error marker.
func IsMarker(line string) bool {
	return strings.HasPrefix(line, errorMarker)
}

// Target renders the boolean target attribute as used by filter and sort.
func (r Record) Target() string {
	if r.IsTarget {
		return "true"
	}
	return "false"
}
