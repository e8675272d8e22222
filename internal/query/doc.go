// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

/*
Package query answers module queries against CoMo nodes.

Service.Handle runs one request through a fixed sequence:

 1. Fetch the node status (cached on disk for the status TTL).
 2. Resolve and align the time window against the node clock and the
    module's earliest data.
 3. Derive the cache key and return a cached artifact when there is one.
 4. Otherwise query the node, render gnuplot output to images, and store
    the artifact.

Concurrent requests for the same key share one fetch and render. Every
error is returned as a *Failure whose Kind selects the message shown to
the user:

	res, err := svc.Handle(ctx, req)
	var f *query.Failure
	if errors.As(err, &f) && f.Kind == query.KindUnreachable {
		// "node not available, try later"
	}
*/
package query
