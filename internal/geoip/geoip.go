/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package geoip

import (
	"log/slog"
	"net/netip"
	"sync"

	"github.com/oschwald/geoip2-golang/v2"
)

// cacheSize bounds the lookup cache; it is dropped once full.
const cacheSize = 4096

// Reader resolves public addresses to locations. Lookups are cached since
// a console sees the same endpoints over and over.
type Reader struct {
	reader *geoip2.Reader

	mu    sync.Mutex
	cache map[netip.Addr]*Location
}

type Location struct {
	Country string
	City    string
	Lat     float64
	Lon     float64
}

func Open(path string) (*Reader, error) {
	slog.Debug("Opening GeoIP2 database", "path", path)

	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, err
	}

	return &Reader{reader: reader, cache: make(map[netip.Addr]*Location)}, nil
}

func (r *Reader) Close() error {
	return r.reader.Close()
}

// Endpoint resolves the address part of an "ip:port" endpoint.
func (r *Reader) Endpoint(endpoint string) *Location {
	ap, err := netip.ParseAddrPort(endpoint)
	if err != nil {
		return nil
	}
	return r.Location(ap.Addr().Unmap())
}

// Public reports whether ip can have a location.
func Public(ip netip.Addr) bool {
	return ip.IsValid() && !ip.IsUnspecified() &&
		!ip.IsLoopback() && !ip.IsPrivate() && !ip.IsMulticast() && !ip.IsLinkLocalUnicast()
}

func (r *Reader) Location(ip netip.Addr) *Location {
	if !Public(ip) {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if loc, ok := r.cache[ip]; ok {
		return loc
	}
	if len(r.cache) >= cacheSize {
		clear(r.cache)
	}
	loc := r.lookup(ip)
	r.cache[ip] = loc
	return loc
}

func (r *Reader) lookup(ip netip.Addr) *Location {
	record, err := r.reader.City(ip)
	if err != nil {
		return nil
	}
	if !record.HasData() {
		return nil
	}

	var country, city string
	if record.Country.HasData() {
		country = record.Country.Names.English
	}
	if record.City.HasData() {
		city = record.City.Names.English
	}

	var lat, lon float64
	if record.Location.HasCoordinates() {
		lat = *record.Location.Latitude
		lon = *record.Location.Longitude
	}

	if country == "" && city == "" &&
		lat == 0 && lon == 0 {
		return nil
	}

	return &Location{
		Country: country,
		City:    city,
		Lat:     lat,
		Lon:     lon,
	}
}
