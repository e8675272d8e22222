// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

package models

import (
	"reflect"
	"testing"
)

func TestSnapshotSetModuleLastWriteWins(t *testing.T) {
	t.Parallel()

	var s NodeStatusSnapshot
	s.SetModule(ModuleInfo{Name: "traffic", Filter: "ip", Formats: []string{"gnuplot"}})
	s.SetModule(ModuleInfo{Name: "topdest", Formats: []string{"html"}})
	s.SetModule(ModuleInfo{Name: "traffic", Filter: "tcp", Formats: []string{"gnuplot", "html"}})

	if len(s.Modules) != 2 {
		t.Fatalf("expected 2 modules, got %d", len(s.Modules))
	}
	m, ok := s.Module("traffic")
	if !ok || m.Filter != "tcp" {
		t.Errorf("expected later traffic block to win, got %+v", m)
	}
	if s.Modules[0].Name != "traffic" {
		t.Errorf("expected traffic to keep its position, got %s", s.Modules[0].Name)
	}
}

func TestModulesSupporting(t *testing.T) {
	t.Parallel()

	s := NodeStatusSnapshot{Modules: []ModuleInfo{
		{Name: "traffic", Formats: []string{"gnuplot", "plain"}},
		{Name: "topdest", Formats: []string{"html", "plain"}},
		{Name: "alert", Formats: []string{"HTML"}},
	}}

	tests := []struct {
		format string
		want   []string
	}{
		{"gnuplot", []string{"traffic"}},
		{"html", []string{"topdest", "alert"}},
		{"plain", []string{"traffic", "topdest"}},
		{"pretty", nil},
	}
	for _, tt := range tests {
		if got := s.ModulesSupporting(tt.format); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ModulesSupporting(%q) = %v, want %v", tt.format, got, tt.want)
		}
	}
}

func TestNodeIdentityAddress(t *testing.T) {
	t.Parallel()

	id := NodeIdentity{Host: "como.example.org", Port: 44444}
	if got := id.Address(); got != "como.example.org:44444" {
		t.Errorf("Address() = %q", got)
	}
}
