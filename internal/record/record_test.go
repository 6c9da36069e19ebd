/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package record

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"maps"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tschaefer/flowconsole/internal/event"
)

func setupLogger(log *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(log, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

func recordEmitsStructuredAttributes(t *testing.T) {
	var log bytes.Buffer
	logger := setupLogger(&log)

	rec, ok := event.Parse("2025/03/14 09:26:53.589793 [INFO] [proto] TCP [target]: ads.example.com 10.0.0.12:51512 -> 93.184.216.34:443")
	require.True(t, ok)

	Record(rec, nil, logger)

	var result map[string]any
	require.NoError(t, json.Unmarshal(log.Bytes(), &result))

	wanted := []string{"level", "time", "msg",
		"time_observed", "prot", "target", "domain",
		"src_addr", "src_port", "dst_addr", "dst_port"}
	got := slices.Sorted(maps.Keys(result))
	assert.ElementsMatch(t, wanted, got, "record keys without geoip")

	assert.Equal(t, "target TCP ads.example.com from 10.0.0.12:51512 to 93.184.216.34:443", result["msg"])
	assert.Equal(t, true, result["target"])
	assert.Equal(t, "93.184.216.34", result["dst_addr"])
	assert.Equal(t, float64(443), result["dst_port"])
}

func recordKeepsUnparsableEndpoint(t *testing.T) {
	var log bytes.Buffer
	logger := setupLogger(&log)

	Record(event.Record{Protocol: "UDP", Domain: "x.com", Source: "weird", Destination: "1.1.1.1:53"}, nil, logger)

	var result map[string]any
	require.NoError(t, json.Unmarshal(log.Bytes(), &result))
	assert.Equal(t, "weird", result["src_addr"])
	assert.NotContains(t, result, "src_port")
	assert.Equal(t, "observed UDP x.com from weird to 1.1.1.1:53", result["msg"])
}

func TestRecord(t *testing.T) {
	t.Run("record.Record emits structured attributes", recordEmitsStructuredAttributes)
	t.Run("record.Record keeps unparsable endpoint", recordKeepsUnparsableEndpoint)
}
