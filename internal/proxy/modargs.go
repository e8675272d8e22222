// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

package proxy

import (
	"strconv"

	"github.com/tomtom215/comolive/internal/timewindow"
)

// DefaultTopN is the number of entries top-N modules report when the client
// has no stored preference.
const DefaultTopN = 5

// Extra keys consumed locally and never forwarded to the node.
const (
	KeyBlincview = "blincview"
	KeyDestIP    = "daip"
)

// IsLocalKey reports whether an extra key only affects this service.
func IsLocalKey(key string) bool {
	return key == KeyBlincview || key == KeyDestIP
}

// ArgContext carries what the module catalogue needs to build arguments.
type ArgContext struct {
	// Node is the host:port of the queried node, used in drill-down links.
	Node   string
	Window timewindow.Window
	TopN   int
	// Blincview switches drill-down links to the plain blincview output.
	Blincview bool
	// QueryURL is this service's query endpoint, the target of drill-down
	// links the node embeds in its output.
	QueryURL string
}

var moduleKeys = map[string][]string{
	"alert":    {"url", "urlargs"},
	"topdest":  {"source", "interval", "align-to", "topn", "url", "urlargs"},
	"topdst":   {"source", "interval", "align-to", "topn", "url", "urlargs"},
	"topsrc":   {"source", "interval", "align-to", "topn", "url", "urlargs"},
	"topports": {"topn", "align-to", "source", "interval"},
	"unknowns": {"source", "interval", "align-to", "url", "urlargs"},
}

// RecognizedKeys returns the extra keys module understands. Unknown modules
// recognise none.
func RecognizedKeys(module string) []string {
	return moduleKeys[module]
}

// UsesTopN reports whether module takes a topn argument.
func UsesTopN(module string) bool {
	for _, k := range moduleKeys[module] {
		if k == "topn" {
			return true
		}
	}
	return false
}

// ModuleArgs returns the catalogue arguments for module in query order.
func ModuleArgs(module string, c ArgContext) []Param {
	start := strconv.FormatInt(c.Window.Start, 10)
	end := strconv.FormatInt(c.Window.End, 10)
	interval := strconv.FormatInt(c.Window.Interval(), 10)
	topn := c.TopN
	if topn <= 0 {
		topn = DefaultTopN
	}

	switch module {
	case "alert":
		return []Param{
			{"url", c.QueryURL},
			{"urlargs", "node=" + c.Node},
		}

	case "topdest", "topdst", "topsrc":
		args := []Param{
			{"source", "tuple"},
			{"interval", interval},
			{"align-to", start},
			{"topn", strconv.Itoa(topn)},
			{"url", c.QueryURL},
			{"urlargs", "start=" + start},
			{"urlargs", "end=" + end},
			{"urlargs", "interval=" + interval},
			{"urlargs", "module=tuple"},
			{"urlargs", "source=tuple"},
		}
		if c.Blincview {
			return append(args, Param{"urlargs", "format=plain"}, Param{"urlargs", "extra=blincview"})
		}
		return append(args, Param{"urlargs", "format=html"})

	case "topports":
		return []Param{
			{"topn", strconv.Itoa(topn)},
			{"align-to", start},
			{"source", "tuple"},
			{"interval", interval},
		}

	case "unknowns":
		return []Param{
			{"source", "tuple"},
			{"interval", interval},
			{"align-to", start},
			{"url", c.QueryURL},
			{"urlargs", "start=" + start},
			{"urlargs", "end=" + end},
			{"urlargs", "interval=" + interval},
			{"urlargs", "module=tuple"},
			{"urlargs", "source=tuple"},
			{"urlargs", "format=html"},
			{"urlargs", "node=" + c.Node},
		}
	}
	return nil
}
