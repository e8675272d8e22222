// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

package models

import (
	"net"
	"strconv"
	"strings"
	"time"
)

// NodeIdentity describes a CoMo node as reported by its ?status page.
type NodeIdentity struct {
	Host      string `json:"host"`
	Port      int    `json:"port"`
	Name      string `json:"name"`
	Location  string `json:"location"`
	Speed     string `json:"speed"`
	Version   string `json:"version,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
	Comment   string `json:"comment,omitempty"`
}

// Address returns host:port.
func (n NodeIdentity) Address() string {
	return net.JoinHostPort(n.Host, strconv.Itoa(n.Port))
}

// ModuleInfo describes one module running on a node.
type ModuleInfo struct {
	Name string `json:"name"`
	// Filter is the module's packet filter, query-escaped.
	Filter string `json:"filter"`
	// Earliest is the first second the module has data for. Query windows
	// never start before it.
	Earliest    int64    `json:"earliest"`
	Formats     []string `json:"formats"`
	DisplayName string   `json:"display_name"`
}

// Supports reports whether the module lists format among its outputs.
func (m ModuleInfo) Supports(format string) bool {
	for _, f := range m.Formats {
		if strings.EqualFold(f, format) {
			return true
		}
	}
	return false
}

// NodeStatusSnapshot is a parsed ?status response.
type NodeStatusSnapshot struct {
	Identity NodeIdentity `json:"identity"`
	// Current is the node-reported current time.
	Current int64 `json:"current"`
	// Start is the time the node started capturing.
	Start   int64        `json:"start"`
	Load    []float64    `json:"load,omitempty"`
	Modules []ModuleInfo `json:"modules"`
	// FetchedAt is when the raw response was obtained from the node.
	FetchedAt time.Time `json:"fetched_at"`
}

// Module looks up a module by name.
func (s *NodeStatusSnapshot) Module(name string) (ModuleInfo, bool) {
	for _, m := range s.Modules {
		if m.Name == name {
			return m, true
		}
	}
	return ModuleInfo{}, false
}

// SetModule adds m, replacing an existing module of the same name in place.
func (s *NodeStatusSnapshot) SetModule(m ModuleInfo) {
	for i := range s.Modules {
		if s.Modules[i].Name == m.Name {
			s.Modules[i] = m
			return
		}
	}
	s.Modules = append(s.Modules, m)
}

// ModulesSupporting returns, in report order, the names of modules that
// can produce format.
func (s *NodeStatusSnapshot) ModulesSupporting(format string) []string {
	var names []string
	for _, m := range s.Modules {
		if m.Supports(format) {
			names = append(names, m.Name)
		}
	}
	return names
}
