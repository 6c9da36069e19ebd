/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package variants

import (
	"net/netip"
	"strings"
)

var (
	prefixes4 = []int{32, 24, 16, 8}
	prefixes6 = []int{128, 64, 48, 32}
)

// Domain returns the dot separated suffixes of domain, the full name first
// and the two label root last. Names with fewer than two labels yield none.
func Domain(domain string) []string {
	labels := strings.Split(domain, ".")
	if len(labels) < 2 {
		return []string{}
	}

	out := make([]string, 0, len(labels)-1)
	for i := 0; i <= len(labels)-2; i++ {
		out = append(out, strings.Join(labels[i:], "."))
	}
	return out
}

// Network returns network prefixes covering addr, most specific first.
// addr may carry a port ("ip:port", "[ip]:port"). Invalid input yields none.
func Network(addr string) []string {
	ip, ok := parseAddr(addr)
	if !ok {
		return []string{}
	}

	bits := prefixes6
	if ip.Is4() {
		bits = prefixes4
	}

	out := make([]string, 0, len(bits))
	for _, b := range bits {
		prefix, err := ip.Prefix(b)
		if err != nil {
			continue
		}
		out = append(out, prefix.String())
	}
	return out
}

func parseAddr(s string) (netip.Addr, bool) {
	if ap, err := netip.ParseAddrPort(s); err == nil {
		return ap.Addr().Unmap(), true
	}
	if ip, err := netip.ParseAddr(s); err == nil {
		return ip.Unmap(), true
	}
	return netip.Addr{}, false
}

// IsAddress reports whether value should be treated as an address rather
// than a domain name.
func IsAddress(value string) bool {
	_, ok := parseAddr(value)
	return ok
}

// For returns the candidates for value, network prefixes for addresses and
// domain suffixes otherwise.
func For(value string) []string {
	if IsAddress(value) {
		return Network(value)
	}
	return Domain(value)
}
