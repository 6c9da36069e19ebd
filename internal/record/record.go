/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package record

import (
	"fmt"
	"log/slog"
	"net/netip"

	"github.com/tschaefer/flowconsole/internal/event"
	"github.com/tschaefer/flowconsole/internal/geoip"
)

// Record emits rec as one structured log record on logger.
func Record(rec event.Record, geo *geoip.Reader, logger *slog.Logger) {
	slog.Debug("Classification Event", "data", rec.Raw)

	established := []any{
		slog.String("time_observed", rec.Timestamp),
		slog.String("prot", rec.Protocol),
		slog.Bool("target", rec.IsTarget),
		slog.String("domain", rec.Domain),
	}
	established = append(established, endpoint("src_", rec.Source)...)
	established = append(established, endpoint("dst_", rec.Destination)...)

	location := getLocation(rec, geo)

	kind := "observed"
	if rec.IsTarget {
		kind = "target"
	}
	msg := fmt.Sprintf("%s %s %s from %s to %s",
		kind, rec.Protocol, rec.Domain, rec.Source, rec.Destination,
	)

	logger.Info(msg, append(established, location...)...)
}

func endpoint(prefix, value string) []any {
	ap, err := netip.ParseAddrPort(value)
	if err != nil {
		return []any{slog.String(prefix+"addr", value)}
	}
	return []any{
		slog.String(prefix+"addr", ap.Addr().String()),
		slog.Uint64(prefix+"port", uint64(ap.Port())),
	}
}

func getLocation(rec event.Record, geo *geoip.Reader) []any {
	if geo == nil {
		return nil
	}

	var location []any
	for _, dir := range []struct {
		prefix   string
		endpoint string
	}{
		{"src_", rec.Source},
		{"dst_", rec.Destination},
	} {
		if loc := geo.Endpoint(dir.endpoint); loc != nil {
			data := []any{
				slog.String(dir.prefix+"city", loc.City),
				slog.String(dir.prefix+"country", loc.Country),
				slog.Float64(dir.prefix+"lat", loc.Lat),
				slog.Float64(dir.prefix+"lon", loc.Lon),
			}
			location = append(location, data...)
		}
	}

	if len(location) == 0 {
		return nil
	}

	return location
}
