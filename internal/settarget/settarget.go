/*
Copyright (c) 2025 Tobias Schäfer. All rights reserved.
Licensed under the MIT License, see LICENSE file in the project root for details.
*/
package settarget

import (
	"errors"
	"strings"
)

const (
	// DefaultSetID denotes the primary set.
	DefaultSetID = "default"
	// CreateSetID requests a new set. It is never a real set id.
	CreateSetID = "__create__"
)

var (
	ErrEmptyName   = errors.New("set name must not be empty")
	ErrNotCreating = errors.New("not entering a set name")
)

type Phase int

const (
	Idle Phase = iota
	Selected
	Creating
)

func (p Phase) String() string {
	switch p {
	case Selected:
		return "selected"
	case Creating:
		return "creating"
	default:
		return "idle"
	}
}

// Resolver tracks which set a new rule goes into. It lives as long as the
// dialog it belongs to.
type Resolver struct {
	phase    Phase
	setID    string
	name     string
	previous string
}

func New() *Resolver {
	return &Resolver{}
}

func (r *Resolver) Phase() Phase {
	return r.phase
}

// SetID returns the selected id, CreateSetID after a confirmed name.
func (r *Resolver) SetID() string {
	return r.setID
}

// Name returns the name being typed or the confirmed new set name.
func (r *Resolver) Name() string {
	return r.name
}

// Select picks an existing set or, with CreateSetID, starts name entry.
func (r *Resolver) Select(setID string) {
	if setID == CreateSetID {
		if r.phase != Creating {
			r.previous = ""
			if r.phase == Selected && r.setID != CreateSetID {
				r.previous = r.setID
			}
		}
		r.phase = Creating
		r.setID = CreateSetID
		r.name = ""
		return
	}

	r.phase = Selected
	r.setID = setID
	r.name = ""
	r.previous = ""
}

func (r *Resolver) TypeName(name string) error {
	if r.phase != Creating {
		return ErrNotCreating
	}
	r.name = name
	return nil
}

// Confirm leaves name entry and keeps the create marker with the trimmed
// name for the caller.
func (r *Resolver) Confirm() error {
	if r.phase != Creating {
		return ErrNotCreating
	}

	name := strings.TrimSpace(r.name)
	if name == "" {
		return ErrEmptyName
	}

	r.phase = Selected
	r.setID = CreateSetID
	r.name = name
	r.previous = ""
	return nil
}

// Cancel leaves name entry, restoring the prior selection or the default
// set, and discards the typed name.
func (r *Resolver) Cancel() {
	if r.phase != Creating {
		return
	}

	r.phase = Selected
	r.setID = DefaultSetID
	if r.previous != "" {
		r.setID = r.previous
	}
	r.name = ""
	r.previous = ""
}

// Target returns what the caller submits: an existing set id, or
// CreateSetID together with the name of the set to create first. ok is
// false while no usable target exists.
func (r *Resolver) Target() (setID, newName string, ok bool) {
	if r.phase != Selected {
		return "", "", false
	}
	if r.setID == CreateSetID {
		return CreateSetID, r.name, true
	}
	return r.setID, "", true
}
