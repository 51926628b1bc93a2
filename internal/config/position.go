package config

import "strings"

// Position is the corner of the host the overlay is pinned to.
type Position int

const (
	BottomLeft Position = iota
	TopLeft
	TopRight
	BottomRight
)

var positionNames = map[string]Position{
	"top-left":     TopLeft,
	"top-right":    TopRight,
	"bottom-right": BottomRight,
	"bottom-left":  BottomLeft,
}

// ParsePosition maps an option value to a Position. Anything unrecognized,
// including the empty string, is BottomLeft.
func ParsePosition(s string) Position {
	if p, ok := positionNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return p
	}
	return BottomLeft
}

func (p Position) String() string {
	switch p {
	case TopLeft:
		return "top-left"
	case TopRight:
		return "top-right"
	case BottomRight:
		return "bottom-right"
	default:
		return "bottom-left"
	}
}

// Anchors reports which edges the overlay sticks to.
func (p Position) Anchors() (right, bottom bool) {
	switch p {
	case TopLeft:
		return false, false
	case TopRight:
		return true, false
	case BottomRight:
		return true, true
	default:
		return false, true
	}
}
