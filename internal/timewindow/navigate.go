// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

package timewindow

import "fmt"

// Action names a navigation step.
type Action string

const (
	ActionZoomIn   Action = "zoom_in"
	ActionZoomOut  Action = "zoom_out"
	ActionForward  Action = "forward"
	ActionBackward Action = "backward"
	ActionUntilNow Action = "until_now"
)

// Actions lists every navigation action in display order.
var Actions = []Action{ActionBackward, ActionZoomIn, ActionZoomOut, ActionForward, ActionUntilNow}

// ParseAction validates an action name.
func ParseAction(s string) (Action, error) {
	for _, a := range Actions {
		if string(a) == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("unknown navigation action %q", s)
}

// Navigator computes neighbouring windows for a node.
type Navigator struct {
	Timebound int64
	// NodeNow is the node's reported current time.
	NodeNow int64
	// NodeStart is the earliest time the node (or module) has data for.
	NodeStart int64
}

func (n Navigator) now() int64 {
	return Align(n.NodeNow, n.Timebound)
}

func (n Navigator) past() int64 {
	return Align(n.NodeStart, n.Timebound)
}

// ZoomIn halves the interval around its centre. Windows already narrower
// than one timebound cannot be zoomed further.
func (n Navigator) ZoomIn(w Window) (Window, bool) {
	if w.Interval() < n.Timebound {
		return w, false
	}
	z := Expand(w, -0.25)
	return n.align(z), true
}

// ZoomOut triples the interval around its centre, never past the node's
// current time or before its earliest data.
func (n Navigator) ZoomOut(w Window) (Window, bool) {
	z := Expand(w, 1)
	if z.End > n.now() {
		z.End = n.now()
	}
	if z.Start < n.past() {
		z.Start = n.past()
	}
	return n.align(z), true
}

// Forward shifts by half an interval toward the present. Unavailable once
// the window already reaches the node's current time.
func (n Navigator) Forward(w Window) (Window, bool) {
	now := n.now()
	if w.End >= now {
		return w, false
	}
	f := Shift(w, 0.5, Forward)
	if f.End > now {
		f = Window{Start: now - w.Interval(), End: now}
	}
	return n.align(f), true
}

// Backward shifts by half an interval into the past. Unavailable once the
// window starts at or before the node's earliest data.
func (n Navigator) Backward(w Window) (Window, bool) {
	past := n.past()
	if w.Start <= past {
		return w, false
	}
	b := Shift(w, 0.5, Backward)
	if b.Start < past {
		b.Start = past
	}
	return n.align(b), true
}

// UntilNow keeps the interval and moves the window to end at the present.
func (n Navigator) UntilNow(w Window) (Window, bool) {
	now := n.now()
	if w.End >= now {
		return w, false
	}
	start := now - w.Interval()
	if start < n.past() {
		start = n.past()
	}
	return n.align(Window{Start: start, End: now}), true
}

// Apply dispatches to the method named by a.
func (n Navigator) Apply(a Action, w Window) (Window, bool) {
	switch a {
	case ActionZoomIn:
		return n.ZoomIn(w)
	case ActionZoomOut:
		return n.ZoomOut(w)
	case ActionForward:
		return n.Forward(w)
	case ActionBackward:
		return n.Backward(w)
	case ActionUntilNow:
		return n.UntilNow(w)
	default:
		return w, false
	}
}

// Available reports which actions would change w.
func (n Navigator) Available(w Window) map[Action]bool {
	out := make(map[Action]bool, len(Actions))
	for _, a := range Actions {
		_, ok := n.Apply(a, w)
		out[a] = ok
	}
	return out
}

func (n Navigator) align(w Window) Window {
	w.Start = Align(w.Start, n.Timebound)
	w.End = Align(w.End, n.Timebound)
	if w.Start > w.End {
		w.Start = w.End
	}
	return w
}
