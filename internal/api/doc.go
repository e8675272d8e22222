// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

/*
Package api exposes the query pipeline over HTTP using the chi router.

Routes:

	GET /api/v1/query                       run a module query
	GET /api/v1/nodes/{node}/status         parsed node status
	GET /api/v1/nodes/{node}/modules        modules, optionally by ?format=
	GET /api/v1/nodes/{node}/navigate       next window for ?action=
	GET /api/v1/artifacts/{name}            cached artifact files
	GET /api/v1/health[/live|/ready]        health probes
	GET /metrics                            Prometheus metrics
	GET /swagger/*                          OpenAPI UI

JSON endpoints answer with models.APIResponse. Query failures map to HTTP
status codes by kind:

	unreachable          503 NODE_UNREACHABLE
	unavailable          502 MODULE_UNAVAILABLE
	render_error         500 RENDER_ERROR
	configuration_error  500 CONFIGURATION_ERROR

Invalid parameters are 400 VALIDATION_ERROR.
*/
package api
