// Package nav maps a cursor over a list of arbitrary length onto a window of
// fixed size, scrolling the window once the cursor gets within shift rows of
// either edge.
package nav

import "github.com/charmbracelet/log"

// Navigator tracks the selection inside the visible window and the window's
// offset in the full list. The list length is supplied by the caller and must
// be refreshed with SetLen whenever the underlying view changes.
type Navigator struct {
	selection   int
	windowStart int
	size        int
	shift       int
	length      int
}

// New returns a navigator positioned on the first row.
func New(shift int) *Navigator {
	if shift < 0 {
		shift = 0
	}
	return &Navigator{shift: shift}
}

// SetSize updates the window capacity without moving the cursor.
func (n *Navigator) SetSize(size int) {
	if size < 0 {
		size = 0
	}
	n.size = size
}

// SetLen updates the length of the list being navigated.
func (n *Navigator) SetLen(length int) {
	if length < 0 {
		length = 0
	}
	n.length = length
}

func (n *Navigator) Size() int        { return n.size }
func (n *Navigator) Len() int         { return n.length }
func (n *Navigator) Shift() int       { return n.shift }
func (n *Navigator) Selection() int   { return n.selection }
func (n *Navigator) WindowStart() int { return n.windowStart }

// Index is the absolute position of the cursor in the full list.
func (n *Navigator) Index() int {
	return n.selection + n.windowStart
}

// Range returns the half-open window [start, end).
func (n *Navigator) Range() (int, int) {
	return n.windowStart, n.windowStart + n.size
}

// margin is the shift clamped to (size-1)/2, which leaves the cursor room to
// move in windows smaller than the configured shift.
func (n *Navigator) margin() int {
	return min(n.shift, max(0, (n.size-1)/2))
}

// Down moves the cursor one row down, scrolling the window when the cursor
// is within the shift margin of the bottom edge.
func (n *Navigator) Down() {
	act := n.selection
	shift := n.margin()
	switch {
	case n.length <= n.size:
		if n.length > act+1 {
			n.selection++
		}
	case n.size <= act+1+shift:
		if n.windowStart+n.size < n.length {
			n.windowStart++
		} else if n.size > act+1 {
			n.selection++
		}
	default:
		n.selection++
	}
	log.Debug("list down", "act", act, "size", n.size, "len", n.length, "shift", shift)
}

// Up moves the cursor one row up, scrolling the window when the cursor is
// within the shift margin of the top edge.
func (n *Navigator) Up() {
	act := n.selection
	switch {
	case act <= n.margin():
		if n.windowStart > 0 {
			n.windowStart--
		} else if act > 0 {
			n.selection--
		}
	default:
		n.selection--
	}
	log.Debug("list up", "act", act)
}

// First jumps to the first row of the list.
func (n *Navigator) First() {
	n.selection = 0
	n.windowStart = 0
}

// Last jumps to the last row, with the window showing the end of the list.
func (n *Navigator) Last() {
	switch {
	case n.length == 0:
		n.First()
	case n.length <= n.size:
		n.windowStart = 0
		n.selection = n.length - 1
	default:
		n.windowStart = n.length - n.size
		n.selection = n.size - 1
	}
}

// Next moves down one row and returns the absolute indices before and after
// the move. ok is false when the cursor already sits on the last row.
func (n *Navigator) Next() (old, cur int, ok bool) {
	if n.Index()+1 >= n.length {
		return 0, 0, false
	}
	old = n.Index()
	n.Down()
	return old, n.Index(), true
}

// Prev moves up one row and returns the absolute indices before and after
// the move. ok is false when the selection is at the top of the window, even
// if the window itself could still scroll up.
func (n *Navigator) Prev() (old, cur int, ok bool) {
	if n.selection == 0 {
		return 0, 0, false
	}
	old = n.Index()
	n.Up()
	return old, n.Index(), true
}

// Fit pulls the window and selection back inside the list after its length
// or the window size shrank.
func (n *Navigator) Fit() {
	if n.length == 0 || n.size == 0 {
		n.First()
		return
	}
	if maxStart := max(0, n.length-n.size); n.windowStart > maxStart {
		n.windowStart = maxStart
	}
	if n.selection >= n.size {
		n.selection = n.size - 1
	}
	if n.windowStart+n.selection >= n.length {
		n.selection = n.length - 1 - n.windowStart
	}
}
