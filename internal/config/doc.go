// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

/*
Package config loads CoMoLive configuration with koanf.

Sources are layered with later layers winning:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file (CONFIG_PATH, ./config.yaml, /etc/comolive/config.yaml)
 3. Environment variables

The environment names keep the keys operators know from comolive.conf:

	TIMEBOUND=300          # alignment granularity, seconds
	TIMEPERIOD=3600        # default window length, seconds
	RESOLUTION=200         # samples per plot
	RESULTS_DIR=./results  # status and artifact cache
	USECACHE=true
	GNUPLOT=/usr/bin/gnuplot
	CONVERT=/usr/bin/convert

Equivalent YAML:

	query:
	  timebound: 300
	  default_period: 3600
	cache:
	  dir: /var/lib/comolive/results
	render:
	  convert: "/usr/bin/convert -density 100"
*/
package config
