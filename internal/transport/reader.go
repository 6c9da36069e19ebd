/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package transport

import (
	"bufio"
	"io"
)

// ReaderStream reads newline separated events from r, e.g. a pipe on stdin.
// End of input is reported as ErrClosed.
type ReaderStream struct {
	*pump
}

func FromReader(r io.Reader) *ReaderStream {
	var closer func() error
	if c, ok := r.(io.Closer); ok {
		closer = c.Close
	}

	s := &ReaderStream{pump: newPump(closer)}
	go s.read(r)
	return s
}

func (s *ReaderStream) read(r io.Reader) {
	defer close(s.messages)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if !s.send(Message{Line: scanner.Text()}) {
			return
		}
	}

	err := scanner.Err()
	if err == nil {
		err = ErrClosed
	}
	s.fail(err)
}
