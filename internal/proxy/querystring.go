// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

package proxy

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/tomtom215/comolive/internal/timewindow"
)

// RawModule computes its own granularity and must not be sent one.
const RawModule = "netflow-anon"

var reservedKeys = map[string]bool{
	"start":    true,
	"end":      true,
	"module":   true,
	"format":   true,
	"comonode": true,
}

// IsReserved reports whether key is set by the proxy itself and may not be
// supplied as an extra argument.
func IsReserved(key string) bool {
	return reservedKeys[key]
}

// Param is one key=value pair of the outbound query string. Order is
// preserved and keys may repeat.
type Param struct {
	Key   string
	Value string
}

// BuildQueryString builds the node query string for module over w. points
// is the number of samples the plot should contain; the granularity sent to
// the node is the window length divided by it, omitted for RawModule or when
// points is not positive. Keys and values are query-escaped, so spaces are
// sent as '+'.
func BuildQueryString(module, format string, w timewindow.Window, extra []Param, points int64) string {
	var b strings.Builder
	b.WriteString("module=")
	b.WriteString(url.QueryEscape(module))
	b.WriteString("&start=")
	b.WriteString(strconv.FormatInt(w.Start, 10))
	b.WriteString("&end=")
	b.WriteString(strconv.FormatInt(w.End, 10))
	b.WriteString("&wait=no&format=")
	b.WriteString(url.QueryEscape(format))
	if module != RawModule && points > 0 {
		b.WriteString("&granularity=")
		b.WriteString(strconv.FormatInt(w.Interval()/points, 10))
	}

	for _, p := range extra {
		if p.Key == "" || IsReserved(p.Key) {
			continue
		}
		b.WriteByte('&')
		b.WriteString(url.QueryEscape(p.Key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.Value))
	}
	return b.String()
}

// Merge appends overrides to base. A key already present in base has its
// first occurrence replaced instead; remaining keys are appended in sorted
// order so the query string is stable.
func Merge(base []Param, overrides map[string]string) []Param {
	out := make([]Param, len(base), len(base)+len(overrides))
	copy(out, base)

	keys := make([]string, 0, len(overrides))
	for k := range overrides {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		replaced := false
		for i := range out {
			if out[i].Key == k {
				out[i].Value = overrides[k]
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, Param{Key: k, Value: overrides[k]})
		}
	}
	return out
}
