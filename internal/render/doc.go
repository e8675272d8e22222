// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

/*
Package render turns gnuplot scripts returned by CoMo nodes into images.

A node answers format=gnuplot with a single line of plot directives followed
by one inline data block. The directives reference that block once per series
with the token "-", so the block is repeated until every series has its own
copy (Replicate). Backticks and '!' are removed before the script reaches
gnuplot because the node is only semi-trusted (Sanitize).

Renderer.Render pipes the script to gnuplot, which writes EPS to stdout, then
runs the configured convert command to rasterise the EPS to JPEG. Both tools
are run with an argument vector and never through a shell. An empty EPS is
ErrEmptyPlot; callers show a placeholder and do not treat it as a failure.

Tool paths are checked once at startup with CheckTools.
*/
package render
