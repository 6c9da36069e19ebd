/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package shortcut

type Action int

const (
	ActionNone Action = iota
	ActionClear
	ActionTogglePause
	ActionQuit
	ActionEditFilter
	ActionSort
)

func (a Action) String() string {
	switch a {
	case ActionClear:
		return "clear"
	case ActionTogglePause:
		return "pause"
	case ActionQuit:
		return "quit"
	case ActionEditFilter:
		return "filter"
	case ActionSort:
		return "sort"
	default:
		return "none"
	}
}

// DefaultBindings maps keys to console actions. Digits select sort columns.
var DefaultBindings = map[rune]Action{
	'c': ActionClear,
	'p': ActionTogglePause,
	' ': ActionTogglePause,
	'q': ActionQuit,
	'/': ActionEditFilter,
	'1': ActionSort,
	'2': ActionSort,
	'3': ActionSort,
	'4': ActionSort,
	'5': ActionSort,
	'6': ActionSort,
}

// Dispatcher resolves key presses. Nothing fires while focus is on an
// editable element.
type Dispatcher struct {
	Bindings map[rune]Action
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{Bindings: DefaultBindings}
}

func (d *Dispatcher) Resolve(key rune, editing bool) Action {
	if editing {
		return ActionNone
	}
	if a, ok := d.Bindings[key]; ok {
		return a
	}
	return ActionNone
}
