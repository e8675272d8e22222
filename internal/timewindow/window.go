// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

package timewindow

import "fmt"

// Window is a closed time interval in epoch seconds.
type Window struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// Interval returns End - Start.
func (w Window) Interval() int64 {
	return w.End - w.Start
}

// String implements fmt.Stringer.
func (w Window) String() string {
	return fmt.Sprintf("[%d,%d]", w.Start, w.End)
}

// Align rounds t down to the nearest multiple of timebound. A non-positive
// timebound leaves t unchanged.
func Align(t, timebound int64) int64 {
	if timebound <= 0 {
		return t
	}
	mod := t % timebound
	if mod < 0 {
		mod += timebound
	}
	return t - mod
}

// Params are the inputs to Resolve. Zero Start, End or ModuleEarliest mean
// the value was not supplied.
type Params struct {
	Start          int64
	End            int64
	DefaultPeriod  int64
	Timebound      int64
	NodeNow        int64
	ModuleEarliest int64
}

// Resolve fills in omitted bounds and aligns the result.
//
// End defaults to the node's current time and is never later than it.
// Start defaults to End - DefaultPeriod. When a module's earliest data time
// is later than the start, the start becomes the aligned earliest time.
func Resolve(p Params) Window {
	end := p.End
	if end == 0 || (p.NodeNow > 0 && end > p.NodeNow) {
		end = p.NodeNow
	}
	end = Align(end, p.Timebound)

	start := p.Start
	if start == 0 {
		start = end - p.DefaultPeriod
	}
	start = Align(start, p.Timebound)

	if p.ModuleEarliest > 0 && start < p.ModuleEarliest {
		start = Align(p.ModuleEarliest, p.Timebound)
	}
	if start > end {
		start = end
	}
	return Window{Start: start, End: end}
}

// Direction selects the sense of a Shift.
type Direction int

const (
	Backward Direction = -1
	Forward  Direction = 1
)

// Shift moves the window by fraction of its interval without changing its
// length.
func Shift(w Window, fraction float64, dir Direction) Window {
	delta := int64(float64(w.Interval())*fraction) * int64(dir)
	return Window{Start: w.Start + delta, End: w.End + delta}
}

// Expand grows each side of the window by factor times its interval. A
// negative factor shrinks it.
func Expand(w Window, factor float64) Window {
	delta := int64(float64(w.Interval()) * factor)
	return Window{Start: w.Start - delta, End: w.End + delta}
}
