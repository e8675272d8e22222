// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

/*
Package cache memoizes query artifacts on disk.

Every artifact is named by a Key derived from all inputs that affect its
bytes. The mapping from key to path is a pure function, so lookups never
scan the directory:

	<dir>/<key>.html   html and sidebox fragments
	<dir>/<key>.txt    plain and pretty text
	<dir>/<key>.jpg    rendered plot
	<dir>/<key>.eps    vector companion of a rendered plot

Writes go to a temporary file in the same directory and are renamed into
place, so readers never observe a partial artifact. Concurrent writers of
the same key produce identical bytes and the last rename wins.

When the store is disabled, Lookup always misses and Store is a no-op.
*/
package cache
