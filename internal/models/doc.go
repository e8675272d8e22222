// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

// Package models holds the records shared between the node client, the query
// pipeline and the HTTP API: node identity and status snapshots, module
// descriptions, query requests, artifacts and the API response envelope.
//
// Records are plain structs. Snapshots and artifacts are treated as
// read-only once built.
package models
