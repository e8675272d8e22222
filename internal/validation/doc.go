// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

// Package validation wraps go-playground/validator v10 with a process-wide
// validator instance and messages suitable for API error responses.
//
// Besides the built-in tags it registers:
//
//	comomodule  module names: letters, digits, '-' and '_'
//	comonode    node addresses: host:port or a bare port
//	ipprefix    an IP address or CIDR prefix
//
// Field names in messages come from the `query` struct tag when present, so
// errors name the request parameter the client sent:
//
//	type QueryParams struct {
//	    Module string `query:"module" validate:"required,comomodule"`
//	}
//
//	if err := validation.ValidateStruct(&p); err != nil {
//	    apiErr := err.ToAPIError() // Code "VALIDATION_ERROR", Message "module is required"
//	}
package validation
