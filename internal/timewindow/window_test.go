// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

package timewindow

import (
	"math/rand"
	"testing"
)

func TestAlign(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		t         int64
		timebound int64
		want      int64
	}{
		{"already aligned", 900, 300, 900},
		{"rounds down", 1000000000, 300, 999999900},
		{"zero", 0, 300, 0},
		{"negative", -10, 300, -300},
		{"no timebound", 1234, 0, 1234},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Align(tt.t, tt.timebound); got != tt.want {
				t.Errorf("Align(%d, %d) = %d, want %d", tt.t, tt.timebound, got, tt.want)
			}
		})
	}
}

func TestAlignIdempotent(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewSource(42))
	for i := 0; i < 1000; i++ {
		ts := r.Int63n(2_000_000_000) - 1_000_000_000
		tb := r.Int63n(3600) + 1
		once := Align(ts, tb)
		if twice := Align(once, tb); twice != once {
			t.Fatalf("Align not idempotent for t=%d tb=%d: %d != %d", ts, tb, twice, once)
		}
	}
}

func TestResolveDefaults(t *testing.T) {
	t.Parallel()

	w := Resolve(Params{DefaultPeriod: 3600, Timebound: 300, NodeNow: 1000000000})

	if w.End != 999999900 {
		t.Errorf("End = %d, want 999999900", w.End)
	}
	if w.Start != 999996300 {
		t.Errorf("Start = %d, want 999996300", w.Start)
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		p    Params
		want Window
	}{
		{
			name: "explicit bounds aligned",
			p:    Params{Start: 1010, End: 2020, Timebound: 300, NodeNow: 5000},
			want: Window{Start: 900, End: 1800},
		},
		{
			name: "end clamped to node now",
			p:    Params{Start: 600, End: 9000, Timebound: 300, NodeNow: 3100},
			want: Window{Start: 600, End: 3000},
		},
		{
			name: "start clamped to module earliest",
			p:    Params{Start: 300, End: 3000, Timebound: 300, NodeNow: 3000, ModuleEarliest: 1250},
			want: Window{Start: 1200, End: 3000},
		},
		{
			name: "earliest after end collapses window",
			p:    Params{DefaultPeriod: 600, Timebound: 300, NodeNow: 3000, ModuleEarliest: 5000},
			want: Window{Start: 3000, End: 3000},
		},
		{
			name: "start only",
			p:    Params{Start: 1500, DefaultPeriod: 600, Timebound: 300, NodeNow: 3000},
			want: Window{Start: 1500, End: 3000},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Resolve(tt.p); got != tt.want {
				t.Errorf("Resolve() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveAlwaysValid(t *testing.T) {
	t.Parallel()

	r := rand.New(rand.NewSource(7))
	for i := 0; i < 2000; i++ {
		tb := []int64{1, 60, 300, 3600}[r.Intn(4)]
		now := r.Int63n(1_000_000_000) + 1
		p := Params{
			DefaultPeriod: r.Int63n(86400),
			Timebound:     tb,
			NodeNow:       now,
		}
		if r.Intn(2) == 0 {
			p.Start = r.Int63n(now) + 1
		}
		if r.Intn(2) == 0 {
			p.End = r.Int63n(2*now) + 1
		}
		if r.Intn(2) == 0 {
			p.ModuleEarliest = r.Int63n(now) + 1
		}

		w := Resolve(p)
		if w.Start%tb != 0 || w.End%tb != 0 {
			t.Fatalf("unaligned window %v for %+v", w, p)
		}
		if w.Start > w.End {
			t.Fatalf("start after end %v for %+v", w, p)
		}
		if w.End > now {
			t.Fatalf("end past node now %v for %+v", w, p)
		}
		if p.ModuleEarliest > p.Start && p.Start != 0 && p.ModuleEarliest <= Align(w.End, tb) && w.Start != Align(p.ModuleEarliest, tb) {
			t.Fatalf("start not clamped to earliest %v for %+v", w, p)
		}
	}
}

func TestShiftAndExpand(t *testing.T) {
	t.Parallel()

	w := Window{Start: 1000, End: 2000}

	if got := Shift(w, 0.5, Forward); got != (Window{Start: 1500, End: 2500}) {
		t.Errorf("Shift forward = %v", got)
	}
	if got := Shift(w, 0.5, Backward); got != (Window{Start: 500, End: 1500}) {
		t.Errorf("Shift backward = %v", got)
	}
	if got := Expand(w, 1); got != (Window{Start: 0, End: 3000}) {
		t.Errorf("Expand(1) = %v", got)
	}
	if got := Expand(w, -0.25); got != (Window{Start: 1250, End: 1750}) {
		t.Errorf("Expand(-0.25) = %v", got)
	}
}
