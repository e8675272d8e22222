// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

// Package comonode talks to CoMo monitoring nodes over their HTTP interface.
//
// Transport performs guarded GET requests against a node: each node address
// gets its own circuit breaker and outbound rate limiter so one hung node
// cannot starve the others. StatusClient builds on it to fetch, cache and
// parse the ?status page:
//
//	transport := comonode.NewTransport(comonode.TransportConfig{Timeout: 30 * time.Second})
//	status := comonode.NewStatusClient(transport, "/var/lib/comolive/results", 10*time.Minute)
//	snap, err := status.GetStatus(ctx, addr)
//	if errors.Is(err, comonode.ErrUnreachable) {
//	    // node not available, try later
//	}
//
// Raw status responses are kept on disk as <host:port>_status_<unix> in the
// results directory. A file older than the TTL is deleted and refetched;
// stale status is never served.
package comonode
