/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package sink

import (
	"log/slog"

	slogjournal "github.com/tschaefer/slog-journal"
)

// JournalFieldPrefix prefixes every event attribute written to the journal,
// e.g. FLOW_DOMAIN.
const JournalFieldPrefix = "FLOW"

type Journal struct {
	Enable bool
}

func (j *Journal) TargetJournal(options *slog.HandlerOptions) (slog.Handler, error) {
	slog.Debug("Initializing journal sink.", "prefix", JournalFieldPrefix)

	slogjournal.FieldPrefix = JournalFieldPrefix
	o := &slogjournal.Option{
		Level: options.Level,
	}
	return o.NewJournalHandler(), nil
}
