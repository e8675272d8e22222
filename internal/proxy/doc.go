// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

/*
Package proxy translates query requests into the CoMo node query protocol and
fetches the result.

The outbound request is a plain GET of http://<node>/?<query>, where query
always carries module, start, end, wait=no and format, followed by a
granularity derived from the window and the configured resolution, the
module's catalogue arguments, caller extras and the filter:

	module=traffic&start=999996300&end=999999900&wait=no&format=gnuplot&granularity=18&filter=proto+tcp

Caller extras never override the reserved keys (start, end, module, format,
comonode). Spaces are sent as '+'.

Fetch failures and empty payloads are reported as ErrUnavailable so callers
can show a "module not available" message instead of failing the request.
*/
package proxy
