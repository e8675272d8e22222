// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

/*
Package metrics declares the Prometheus collectors exported at /metrics.

Collectors are package-level promauto variables, so importing the package
registers them with the default registry.

Cache:
  - comolive_cache_hits_total / comolive_cache_misses_total (cache_type: artifact, status)
  - comolive_cache_invalidations_total
  - comolive_cache_files_swept_total (cache_type)

Remote nodes:
  - comolive_node_requests_total (node, kind, outcome)
  - comolive_node_request_duration_seconds (kind)
  - circuit_breaker_* (name is "comonode:<host:port>")

Rendering and queries:
  - comolive_render_duration_seconds (outcome)
  - comolive_render_failures_total (reason)
  - comolive_query_outcomes_total (outcome)
  - comolive_singleflight_shared_total

HTTP:
  - api_requests_total, api_request_duration_seconds, api_active_requests
*/
package metrics
