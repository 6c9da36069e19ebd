/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package transport

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
)

// WebSocketStream receives event lines pushed by the appliance.
type WebSocketStream struct {
	*pump
	conn *websocket.Conn
}

func DialWebSocket(ctx context.Context, url string, header http.Header) (*WebSocketStream, error) {
	slog.Debug("Dialing event stream.", "url", url)

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("failed to dial event stream: %w (%s)", err, resp.Status)
		}
		return nil, fmt.Errorf("failed to dial event stream: %w", err)
	}

	s := &WebSocketStream{pump: newPump(conn.Close), conn: conn}
	go s.read()
	return s, nil
}

func (s *WebSocketStream) read() {
	defer close(s.messages)

	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			s.fail(fmt.Errorf("%w: %v", ErrClosed, err))
			return
		}

		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimRight(line, "\r")
			if line == "" {
				continue
			}
			if !s.send(Message{Line: line}) {
				return
			}
		}
	}
}
