/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package transport

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
)

var ErrRemoved = errors.New("followed file removed")

// FileStream follows a growing log file, like tail -f.
type FileStream struct {
	*pump
	path string
}

// Follow starts at the end of path unless fromStart is set.
func Follow(path string, fromStart bool) (*FileStream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	if !fromStart {
		if _, err := f.Seek(0, io.SeekEnd); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := w.Add(path); err != nil {
		_ = w.Close()
		_ = f.Close()
		return nil, err
	}

	s := &FileStream{
		pump: newPump(func() error {
			return errors.Join(w.Close(), f.Close())
		}),
		path: path,
	}
	go s.follow(bufio.NewReader(f), w)
	return s, nil
}

func (s *FileStream) gone(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Chmod) {
		return false
	}
	_, err := os.Stat(s.path)
	return errors.Is(err, os.ErrNotExist)
}

func (s *FileStream) follow(rd *bufio.Reader, w *fsnotify.Watcher) {
	defer close(s.messages)

	var partial strings.Builder
	drain := func() (bool, error) {
		for {
			chunk, err := rd.ReadString('\n')
			partial.WriteString(chunk)
			if errors.Is(err, io.EOF) {
				return true, nil
			}
			if err != nil {
				return false, err
			}

			line := strings.TrimRight(partial.String(), "\r\n")
			partial.Reset()
			if !s.send(Message{Line: line}) {
				return false, nil
			}
		}
	}

	if ok, err := drain(); !ok {
		if err != nil {
			s.fail(err)
		}
		return
	}

	for {
		select {
		case <-s.done:
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			slog.Debug("Followed file changed.", "event", ev.String())

			// an unlinked file that is still open only reports Chmod
			if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) || s.gone(ev) {
				s.fail(fmt.Errorf("%w: %s", ErrRemoved, s.path))
				return
			}
			if ev.Has(fsnotify.Write) {
				if ok, err := drain(); !ok {
					if err != nil {
						s.fail(err)
					}
					return
				}
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			s.fail(err)
			return
		}
	}
}
