/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package view

import (
	"strings"

	"github.com/tschaefer/flowconsole/internal/console"
	"github.com/tschaefer/flowconsole/internal/filter"
	"github.com/tschaefer/flowconsole/internal/shortcut"
	"github.com/tschaefer/flowconsole/internal/sorter"
)

// Key is a decoded key press.
type Key struct {
	Rune      rune
	Enter     bool
	Escape    bool
	Backspace bool
	Interrupt bool
}

// Model is the interactive state of the watch view.
type Model struct {
	Filter  string
	Sort    sorter.State
	Editing bool
	Draft   string
	Limit   int

	dispatcher *shortcut.Dispatcher
}

func NewModel(query string, state sorter.State, limit int) *Model {
	return &Model{
		Filter:     query,
		Sort:       state,
		Limit:      limit,
		dispatcher: shortcut.NewDispatcher(),
	}
}

// HandleKey updates the model and returns the action the caller has to
// carry out on the console.
func (m *Model) HandleKey(k Key) shortcut.Action {
	if k.Interrupt {
		return shortcut.ActionQuit
	}

	if m.Editing {
		switch {
		case k.Enter:
			m.Filter = strings.TrimSpace(m.Draft)
			m.Editing = false
		case k.Escape:
			m.Editing = false
		case k.Backspace:
			if r := []rune(m.Draft); len(r) > 0 {
				m.Draft = string(r[:len(r)-1])
			}
		case k.Rune != 0:
			m.Draft += string(k.Rune)
		}
		return shortcut.ActionNone
	}

	if k.Escape {
		m.Sort = m.Sort.Clear()
		return shortcut.ActionNone
	}

	action := m.dispatcher.Resolve(k.Rune, m.Editing)
	switch action {
	case shortcut.ActionEditFilter:
		m.Editing = true
		m.Draft = m.Filter
		return shortcut.ActionNone
	case shortcut.ActionSort:
		idx := int(k.Rune - '1')
		if idx >= 0 && idx < len(Columns) {
			m.Sort = m.Sort.Toggle(Columns[idx])
		}
		return shortcut.ActionNone
	}
	return action
}

// Render draws the snapshot for the terminal.
func (m *Model) Render(s console.Snapshot) (string, error) {
	v := s.View(m.Filter, m.Sort)

	table, err := Table(v.Records, m.Sort, m.Limit)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString(Status(v, m.Filter, m.Sort))
	b.WriteString("\n")
	if unknown := filter.ParseQuery(m.Filter).Unknown(); len(unknown) > 0 {
		b.WriteString("unknown filter fields: " + strings.Join(unknown, ", ") + "\n")
	}
	b.WriteString(table)
	for _, marker := range v.Markers {
		b.WriteString("\n" + marker)
	}
	b.WriteString("\n")
	if m.Editing {
		b.WriteString("filter> " + m.Draft + "_")
	} else {
		b.WriteString("[/] filter  [1-6] sort  [esc] unsort  [p] pause  [c] clear  [q] quit")
	}
	return b.String(), nil
}
