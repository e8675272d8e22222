// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

/*
Package services adapts CoMoLive components to suture.Service.

  - HTTPServerService runs an *http.Server and shuts it down gracefully
    when its context is canceled.
  - SweeperService periodically removes expired artifacts and node status
    files from the cache directory and compacts the preference store.

Every service implements fmt.Stringer so suture logs it by name.
*/
package services
