// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

// Package prefs persists per-client display preferences in BadgerDB.
//
// Clients are identified by an opaque ID carried in a cookie. The only
// preference today is the number of entries top-N modules report, stored
// per client and module under the key "topn:<client>:<module>".
package prefs
