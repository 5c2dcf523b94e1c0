// Package view holds the presentation state of a drawn surface: zoom, pan and
// the pointer state machine that tells a click from a drag.
package view

// State is the pointer state.
type State int

const (
	Idle State = iota
	MouseDown
	Panning
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case MouseDown:
		return "mousedown"
	case Panning:
		return "panning"
	}
	return "unknown"
}

// EventKind is a pointer event type.
type EventKind int

const (
	Down EventKind = iota
	Move
	Up
)

func (k EventKind) String() string {
	switch k {
	case Down:
		return "down"
	case Move:
		return "move"
	case Up:
		return "up"
	}
	return "unknown"
}

// Next is the transition table. displaced reports whether the pointer is
// away from where it was pressed; click is true when releasing ends a press
// that never turned into a pan.
func Next(s State, k EventKind, displaced bool) (next State, click bool) {
	switch k {
	case Down:
		return MouseDown, false
	case Move:
		switch s {
		case MouseDown:
			if displaced {
				return Panning, false
			}
			return MouseDown, false
		case Panning:
			return Panning, false
		}
		return s, false
	case Up:
		return Idle, s == MouseDown
	}
	return s, false
}
