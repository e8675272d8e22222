// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

package cache

import (
	"strings"
	"testing"

	"github.com/tomtom215/comolive/internal/models"
	"github.com/tomtom215/comolive/internal/timewindow"
)

func baseRequest() *models.QueryRequest {
	return &models.QueryRequest{
		Node:   "demo.example.org:44444",
		Module: "traffic",
		Filter: "proto==tcp",
		Window: timewindow.Window{Start: 1000, End: 4600},
		Format: models.FormatGnuplot,
		Extra:  map[string]string{"topn": "10", "align-to": "0"},
	}
}

func TestKeyDeterministic(t *testing.T) {
	a := Key(baseRequest())
	b := Key(baseRequest())
	if a != b {
		t.Fatalf("Key not deterministic: %q != %q", a, b)
	}
	if !strings.HasPrefix(a, "traffic_") {
		t.Errorf("Key %q missing module prefix", a)
	}
	if !ValidKey(a) {
		t.Errorf("ValidKey(%q) = false", a)
	}
}

func TestKeyExtraOrderIndependent(t *testing.T) {
	r1 := baseRequest()
	r1.Extra = map[string]string{}
	r1.Extra["b"] = "2"
	r1.Extra["a"] = "1"
	r1.Extra["c"] = "3"

	r2 := baseRequest()
	r2.Extra = map[string]string{"c": "3", "a": "1", "b": "2"}

	if Key(r1) != Key(r2) {
		t.Error("Key depends on extra insertion order")
	}
}

func TestKeyNodeCaseInsensitive(t *testing.T) {
	r := baseRequest()
	r.Node = "DEMO.Example.ORG:44444"
	if Key(r) != Key(baseRequest()) {
		t.Error("Key should ignore node host case")
	}
}

func TestKeyFieldsAffectKey(t *testing.T) {
	base := Key(baseRequest())

	tests := []struct {
		name   string
		mutate func(*models.QueryRequest)
	}{
		{"node", func(r *models.QueryRequest) { r.Node = "other:44444" }},
		{"module", func(r *models.QueryRequest) { r.Module = "application" }},
		{"filter", func(r *models.QueryRequest) { r.Filter = "proto==udp" }},
		{"start", func(r *models.QueryRequest) { r.Window.Start = 1001 }},
		{"end", func(r *models.QueryRequest) { r.Window.End = 4601 }},
		{"format", func(r *models.QueryRequest) { r.Format = models.FormatHTML }},
		{"extra value", func(r *models.QueryRequest) { r.Extra["topn"] = "20" }},
		{"extra added", func(r *models.QueryRequest) { r.Extra["daip"] = "10.0.0.1" }},
		{"extra removed", func(r *models.QueryRequest) { delete(r.Extra, "align-to") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := baseRequest()
			tt.mutate(r)
			if Key(r) == base {
				t.Errorf("changing %s did not change the key", tt.name)
			}
		})
	}
}

func TestKeyNilAndEmptyExtraEqual(t *testing.T) {
	r1 := baseRequest()
	r1.Extra = nil
	r2 := baseRequest()
	r2.Extra = map[string]string{}
	if Key(r1) != Key(r2) {
		t.Error("nil and empty extra should produce the same key")
	}
}

func TestSafePrefix(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"traffic", "traffic"},
		{"netflow-anon", "netflow-anon"},
		{"../../etc", "------etc"},
		{"", "artifact"},
		{strings.Repeat("a", 40), strings.Repeat("a", 32)},
	}
	for _, tt := range tests {
		if got := safePrefix(tt.in); got != tt.want {
			t.Errorf("safePrefix(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidKey(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"traffic_0123456789abcdef0123456789abcdef", true},
		{"traffic_0123456789ABCDEF0123456789abcdef", false},
		{"traffic_0123", false},
		{"_0123456789abcdef0123456789abcdef", false},
		{"../x_0123456789abcdef0123456789abcdef", false},
		{"traffic", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidKey(tt.in); got != tt.want {
			t.Errorf("ValidKey(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
