/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package variants

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomain(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"a.b.example.com", []string{"a.b.example.com", "b.example.com", "example.com"}},
		{"example.com", []string{"example.com"}},
		{"localhost", []string{}},
		{"", []string{}},
		{"a..com", []string{"a..com", ".com"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := Domain(tt.input)
			assert.Equal(t, tt.expected, got)
			if n := strings.Count(tt.input, ".") + 1; n >= 2 {
				assert.Len(t, got, n-1)
			}
		})
	}
}

func TestDomain_NeverBareTopLevel(t *testing.T) {
	for _, v := range Domain("x.y.z.example.org") {
		assert.NotEqual(t, "org", v)
		assert.True(t, strings.HasSuffix("x.y.z.example.org", v))
	}
}

func TestNetwork(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"93.184.216.34", []string{"93.184.216.34/32", "93.184.216.0/24", "93.184.0.0/16", "93.0.0.0/8"}},
		{"10.0.0.12:51512", []string{"10.0.0.12/32", "10.0.0.0/24", "10.0.0.0/16", "10.0.0.0/8"}},
		{"[2a01:4f8:160:5372::2]:443", []string{"2a01:4f8:160:5372::2/128", "2a01:4f8:160:5372::/64", "2a01:4f8:160::/48", "2a01:4f8::/32"}},
		{"::ffff:1.2.3.4", []string{"1.2.3.4/32", "1.2.3.0/24", "1.2.0.0/16", "1.0.0.0/8"}},
		{"example.com", []string{}},
		{"", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Network(tt.input))
		})
	}
}

func TestFor(t *testing.T) {
	assert.Equal(t, []string{"b.example.com", "example.com"}, For("b.example.com"))
	assert.Equal(t, "8.8.8.8/32", For("8.8.8.8:53")[0])
	assert.True(t, IsAddress("::1"))
	assert.False(t, IsAddress("dns.google"))
}
