// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

/*
Package main is the entry point for the CoMoLive server.

CoMoLive sits in front of one or more CoMo traffic monitoring nodes. It
forwards module queries, renders gnuplot output to JPEG and PostScript,
caches results on disk and serves everything over a JSON API.

# Application Architecture

	RootSupervisor ("comolive")
	├── MaintenanceSupervisor ("maintenance-layer")
	│   └── Cache sweeper (expired artifacts, status files, preference GC)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Result directory: created and probed for writability
 4. Plot tools: gnuplot and convert checked when rendering is enabled
 5. Node transport: per-node rate limiting and circuit breaking
 6. Preference store: BadgerDB (per-client top-N choices)
 7. Query service and Chi router
 8. Supervisor tree: Suture v4 process supervision

# Configuration

Priority: Environment variables > Config file > Defaults

	HTTP_PORT=3860               # HTTP server port
	PUBLIC_URL=https://como.example.org
	RESULTS_DIR=./results        # Status and artifact cache
	USECACHE=true                # Reuse rendered artifacts
	TIMEBOUND=300                # Window alignment in seconds
	TIMEPERIOD=3600              # Default window length
	GNUPLOT=/usr/bin/gnuplot
	CONVERT=/usr/bin/convert
	NODE_ALLOWLIST=como1:44444,como2:44444
	LOG_LEVEL=info
	LOG_FORMAT=json

A YAML file is read from CONFIG_PATH or /etc/comolive/config.yaml.

# Signal Handling

On SIGINT or SIGTERM the HTTP server stops accepting connections, waits
up to 10s for in-flight requests and the preference store is closed.

# API Documentation

Swagger documentation is served at /swagger/index.html.
*/
package main
