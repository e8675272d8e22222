// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

/*
Package supervisor runs the long-lived parts of CoMoLive under a suture v4
supervisor tree.

	RootSupervisor ("comolive")
	├── MaintenanceSupervisor ("maintenance-layer")
	│   └── SweeperService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services are restarted with backoff. Supervisor events are logged
through sutureslog using the zerolog-backed slog handler from the logging
package.

Usage in main.go:

	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddMaintenanceService(services.NewSweeperService(...))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logging.Fatal().Err(err).Msg("Supervisor failed")
	}

The service wrappers live in the services subpackage.
*/
package supervisor
