/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package sink

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

const streamFilePrefix = "file:"

var StreamWriters = []string{"stdout", "stderr", "discard"}

// Stream writes events as JSON lines. Writer names a standard stream or
// "file:<path>" to append to a file.
type Stream struct {
	Enable bool
	Writer string
}

func (s *Stream) writer() (io.Writer, error) {
	switch s.Writer {
	case "stdout":
		return os.Stdout, nil
	case "stderr":
		return os.Stderr, nil
	case "discard":
		return io.Discard, nil
	}

	if path, ok := strings.CutPrefix(s.Writer, streamFilePrefix); ok && path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, fmt.Errorf("failed to open stream file: %w", err)
		}
		return f, nil
	}

	return nil, fmt.Errorf("invalid stream writer specified: %q", s.Writer)
}

func (s *Stream) TargetStream(options *slog.HandlerOptions) (slog.Handler, error) {
	slog.Debug("Initializing stream sink.", "writer", s.Writer)

	w, err := s.writer()
	if err != nil {
		return nil, err
	}
	return slog.NewJSONHandler(w, options), nil
}
