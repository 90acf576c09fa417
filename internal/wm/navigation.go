package wm

import (
	"fmt"
	"strings"

	"github.com/1broseidon/opendoor/internal/window"
)

// Direction is a keyboard focus direction.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// ParseDirection accepts up, down, left and right.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return DirUp, nil
	case "down":
		return DirDown, nil
	case "left":
		return DirLeft, nil
	case "right":
		return DirRight, nil
	default:
		return 0, fmt.Errorf("unknown direction %q", s)
	}
}

// FocusDirection focuses the nearest visible window in dir, wrapping to the
// opposite edge when nothing lies that way. Without a focused window the
// topmost visible window takes focus.
func (c *Controller) FocusDirection(dir Direction) (window.ID, bool) {
	frames := c.Snapshot().Frames()
	if len(frames) == 0 {
		return "", false
	}

	rects := make([]window.Rect, len(frames))
	current := -1
	for i, f := range frames {
		rects[i] = f.Rect
		if f.ID == c.focused {
			current = i
		}
	}
	if current < 0 {
		top := frames[len(frames)-1].ID
		return top, c.Focus(top)
	}

	next := NavigateSpatial(current, dir, rects)
	if next == current {
		return c.focused, false
	}
	id := frames[next].ID
	return id, c.Focus(id)
}

// FocusNext cycles focus through visible windows in store order. delta is
// +1 for next and -1 for previous.
func (c *Controller) FocusNext(delta int) (window.ID, bool) {
	var visible []window.ID
	current := -1
	for _, w := range c.store.All() {
		if !w.Visible() {
			continue
		}
		if w.ID == c.focused {
			current = len(visible)
		}
		visible = append(visible, w.ID)
	}
	if len(visible) == 0 {
		return "", false
	}

	var next int
	switch {
	case current < 0 && delta < 0:
		next = len(visible) - 1
	case current < 0:
		next = 0
	default:
		next = ((current+delta)%len(visible) + len(visible)) % len(visible)
	}
	id := visible[next]
	return id, c.Focus(id)
}

// NavigateSpatial picks the rect closest to rects[current] in dir by
// Manhattan distance between centers. With nothing in that direction it
// wraps to the far edge, preferring the same row or column.
func NavigateSpatial(current int, dir Direction, rects []window.Rect) int {
	if current < 0 || current >= len(rects) {
		return 0
	}

	cx, cy := rects[current].Center()

	bestIdx := -1
	bestDist := -1
	for i, r := range rects {
		if i == current {
			continue
		}
		x, y := r.Center()

		inDirection := false
		switch dir {
		case DirUp:
			inDirection = y < cy
		case DirDown:
			inDirection = y > cy
		case DirLeft:
			inDirection = x < cx
		case DirRight:
			inDirection = x > cx
		}
		if !inDirection {
			continue
		}

		dist := abs(x-cx) + abs(y-cy)
		if bestIdx == -1 || dist < bestDist {
			bestDist = dist
			bestIdx = i
		}
	}
	if bestIdx >= 0 {
		return bestIdx
	}

	bestScore := 0
	for i, r := range rects {
		if i == current {
			continue
		}
		x, y := r.Center()

		var score int
		switch dir {
		case DirUp:
			score = y*10000 - abs(x-cx)
		case DirDown:
			score = -y*10000 - abs(x-cx)
		case DirLeft:
			score = x*10000 - abs(y-cy)
		case DirRight:
			score = -x*10000 - abs(y-cy)
		}
		if bestIdx == -1 || score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}
	if bestIdx >= 0 {
		return bestIdx
	}
	return current
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
