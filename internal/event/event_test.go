/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package event

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse_Valid(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected Record
	}{
		{
			"tcp target",
			"2025/03/14 09:26:53.589793 [INFO] [proto] TCP [target]: ads.example.com 10.0.0.12:51512 -> 93.184.216.34:443",
			Record{
				Timestamp:   "2025/03/14 09:26:53.589793",
				Protocol:    "TCP",
				IsTarget:    true,
				Domain:      "ads.example.com",
				Source:      "10.0.0.12:51512",
				Destination: "93.184.216.34:443",
			},
		},
		{
			"udp without target",
			"2025-03-14 09:26:54.000001 [DEBUG] [proto] UDP: dns.google 10.0.0.12:5353 -> 8.8.8.8:53",
			Record{
				Timestamp:   "2025-03-14 09:26:54.000001",
				Protocol:    "UDP",
				IsTarget:    false,
				Domain:      "dns.google",
				Source:      "10.0.0.12:5353",
				Destination: "8.8.8.8:53",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, ok := Parse(tt.line)
			assert.True(t, ok)
			tt.expected.Raw = tt.line
			assert.Equal(t, tt.expected, rec)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	lines := []string{
		"",
		"garbage",
		"2025/03/14 09:26:53 [INFO] [proto] TCP: a.com 1.1.1.1:1 -> 2.2.2.2:2",
		"2025/03/14 09:26:53.589793 [INFO] [proto] ICMP: a.com 1.1.1.1:1 -> 2.2.2.2:2",
		"2025/03/14 09:26:53.589793 [INFO] [proto] TCP: a.com 1.1.1.1:1 2.2.2.2:2",
		"2025/03/14 09:26:53.589793 [INFO] [proto] TCP: a.com 1.1.1.1:1 -> 2.2.2.2:2 extra",
		"2025/03/14 09:26:53.589793 [INFO] TCP: a.com 1.1.1.1:1 -> 2.2.2.2:2",
		"2025/03/14 09:26:53.589793 [INFO] [proto] tcp: a.com 1.1.1.1:1 -> 2.2.2.2:2",
	}

	for _, line := range lines {
		rec, ok := Parse(line)
		assert.False(t, ok, "line %q must be rejected", line)
		assert.Equal(t, Record{}, rec)
	}
}

func TestParse_IsPure(t *testing.T) {
	line := "2025/03/14 09:26:53.589793 [INFO] [proto] TCP: a.example.com 1.1.1.1:1 -> 2.2.2.2:2"
	first, _ := Parse(line)
	second, _ := Parse(line)
	assert.Equal(t, first, second)
}

func TestParseAll_DropsInvalid(t *testing.T) {
	lines := []string{
		"2025/03/14 09:26:53.589793 [INFO] [proto] TCP: a.example.com 1.1.1.1:1 -> 2.2.2.2:2",
		"nope",
		ErrorMarker(errors.New("closed")),
		"2025/03/14 09:26:54.589793 [INFO] [proto] UDP: b.example.com 1.1.1.1:1 -> 2.2.2.2:2",
	}
	records := ParseAll(lines)
	assert.Len(t, records, 2)
	assert.Equal(t, "a.example.com", records[0].Domain)
	assert.Equal(t, "b.example.com", records[1].Domain)
}

func TestMarker(t *testing.T) {
	marker := ErrorMarker(errors.New("connection reset"))
	assert.Equal(t, "!! stream error: connection reset", marker)
	assert.True(t, IsMarker(marker))
	assert.False(t, IsMarker("2025/03/14 09:26:53.589793 [INFO] [proto] TCP: a.com 1.1.1.1:1 -> 2.2.2.2:2"))
}
