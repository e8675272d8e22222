// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

package proxy

import (
	"testing"

	"github.com/tomtom215/comolive/internal/timewindow"
)

func paramValues(params []Param, key string) []string {
	var out []string
	for _, p := range params {
		if p.Key == key {
			out = append(out, p.Value)
		}
	}
	return out
}

func TestModuleArgsTopDest(t *testing.T) {
	c := ArgContext{
		Node:     "demo:44444",
		Window:   timewindow.Window{Start: 600, End: 4200},
		QueryURL: "/api/v1/query",
	}
	for _, module := range []string{"topdest", "topdst", "topsrc"} {
		t.Run(module, func(t *testing.T) {
			args := ModuleArgs(module, c)

			checks := map[string]string{
				"source":   "tuple",
				"interval": "3600",
				"align-to": "600",
				"topn":     "5",
				"url":      "/api/v1/query",
			}
			for k, want := range checks {
				got := paramValues(args, k)
				if len(got) != 1 || got[0] != want {
					t.Errorf("%s = %v, want [%s]", k, got, want)
				}
			}

			urlargs := paramValues(args, "urlargs")
			if last := urlargs[len(urlargs)-1]; last != "format=html" {
				t.Errorf("last urlargs = %q, want format=html", last)
			}
		})
	}
}

func TestModuleArgsTopNAndBlincview(t *testing.T) {
	c := ArgContext{Window: timewindow.Window{Start: 0, End: 300}, TopN: 12, Blincview: true}
	args := ModuleArgs("topdest", c)

	if got := paramValues(args, "topn"); len(got) != 1 || got[0] != "12" {
		t.Errorf("topn = %v, want [12]", got)
	}
	urlargs := paramValues(args, "urlargs")
	tail := urlargs[len(urlargs)-2:]
	if tail[0] != "format=plain" || tail[1] != "extra=blincview" {
		t.Errorf("blincview urlargs = %v", tail)
	}
}

func TestModuleArgsOthers(t *testing.T) {
	c := ArgContext{Node: "demo:44444", Window: timewindow.Window{Start: 300, End: 900}, QueryURL: "/q"}

	alert := ModuleArgs("alert", c)
	if len(alert) != 2 || alert[1].Value != "node=demo:44444" {
		t.Errorf("alert args = %v", alert)
	}

	ports := ModuleArgs("topports", c)
	if got := paramValues(ports, "interval"); len(got) != 1 || got[0] != "600" {
		t.Errorf("topports interval = %v", got)
	}
	if got := paramValues(ports, "url"); got != nil {
		t.Errorf("topports should not carry url, got %v", got)
	}

	unknowns := ModuleArgs("unknowns", c)
	if got := paramValues(unknowns, "topn"); got != nil {
		t.Errorf("unknowns should not carry topn, got %v", got)
	}

	if got := ModuleArgs("traffic", c); got != nil {
		t.Errorf("traffic args = %v, want none", got)
	}
}

func TestUsesTopN(t *testing.T) {
	tests := map[string]bool{
		"topdest":  true,
		"topports": true,
		"unknowns": false,
		"alert":    false,
		"traffic":  false,
	}
	for module, want := range tests {
		if got := UsesTopN(module); got != want {
			t.Errorf("UsesTopN(%q) = %v, want %v", module, got, want)
		}
	}
}

func TestRecognizedKeysAreProduced(t *testing.T) {
	c := ArgContext{Window: timewindow.Window{Start: 0, End: 300}}
	for module, keys := range moduleKeys {
		args := ModuleArgs(module, c)
		for _, k := range keys {
			if paramValues(args, k) == nil {
				t.Errorf("%s: recognised key %q not produced", module, k)
			}
		}
	}
}

func TestIsLocalKey(t *testing.T) {
	if !IsLocalKey(KeyDestIP) || !IsLocalKey(KeyBlincview) {
		t.Error("daip and blincview must be local")
	}
	if IsLocalKey("topn") {
		t.Error("topn is forwarded to the node")
	}
}
