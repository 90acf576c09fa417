package input

import "github.com/1broseidon/opendoor/internal/window"

// Phase is the pointer interaction phase.
type Phase int

const (
	// PhaseIdle means no drag is in progress
	PhaseIdle Phase = iota
	// PhaseDragging means a floating window follows the pointer
	PhaseDragging
)

// String returns the string representation of the phase
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// Pointer is one pointer event in viewport pixels.
type Pointer struct {
	ID int
	X  int
	Y  int
}

// Drag is the transient state of an active title bar drag.
type Drag struct {
	Pointer int
	Window  window.ID
	OffsetX int // cursor minus window origin at grab time
	OffsetY int
}

type click struct {
	window window.ID
	at     int64 // unix nanos
}
