// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

package models

import (
	"github.com/tomtom215/comolive/internal/timewindow"
)

// Output formats understood by CoMo nodes.
const (
	FormatGnuplot = "gnuplot"
	FormatHTML    = "html"
	FormatPlain   = "plain"
	FormatPretty  = "pretty"
	FormatSidebox = "sidebox"
)

// KnownFormats lists the formats accepted by the query endpoint.
var KnownFormats = []string{FormatGnuplot, FormatHTML, FormatPlain, FormatPretty, FormatSidebox}

// IsPlotFormat reports whether payloads of format must be rendered to images.
func IsPlotFormat(format string) bool {
	return format == FormatGnuplot
}

// QueryRequest is one logical query against a node module.
type QueryRequest struct {
	// Node is the host:port address of the CoMo node.
	Node   string            `json:"node"`
	Module string            `json:"module"`
	Filter string            `json:"filter,omitempty"`
	Window timewindow.Window `json:"window"`
	Format string            `json:"format"`
	// Extra holds module arguments and refinements that change the output,
	// such as topn, align-to or daip.
	Extra map[string]string `json:"extra,omitempty"`
}

// Artifact is the result of a query: proxied text or a rendered plot.
type Artifact struct {
	Key         string `json:"key"`
	Format      string `json:"format"`
	ContentType string `json:"content_type"`
	// Data is the primary payload: text for passthrough formats, the JPEG
	// for rendered plots.
	Data []byte `json:"-"`
	// Vector is the EPS companion of a rendered plot.
	Vector []byte `json:"-"`
	// Path and VectorPath are set once the artifact is in the cache
	// directory.
	Path       string `json:"-"`
	VectorPath string `json:"-"`
	// Placeholder is set when the plot came back empty and no image exists.
	Placeholder bool `json:"placeholder,omitempty"`
	Cached      bool `json:"cached"`
}
