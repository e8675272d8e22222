// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

// Package timewindow aligns query windows to the configured granularity and
// implements the zoom and pan navigation used by the query endpoints.
//
// All values are epoch seconds. A resolved Window always satisfies:
//
//	w.Start%timebound == 0 && w.End%timebound == 0 && w.Start <= w.End
//
// The functions here are pure; callers supply the node's current time and
// earliest data time from its status snapshot.
package timewindow
