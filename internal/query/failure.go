// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

package query

import (
	"errors"
	"fmt"
)

// Kind classifies a failed query.
type Kind string

const (
	// KindUnreachable means the node status could not be fetched.
	KindUnreachable Kind = "unreachable"
	// KindUnavailable means the node could not answer the module query.
	KindUnavailable Kind = "unavailable"
	// KindRenderError means gnuplot or convert failed.
	KindRenderError Kind = "render_error"
	// KindConfigurationError means the service is misconfigured, for
	// example an unwritable cache directory.
	KindConfigurationError Kind = "configuration_error"
)

// User-facing messages per Kind.
const (
	MsgUnreachable        = "Sorry, this node is not available at the moment. Please try later."
	MsgUnavailable        = "Sorry but this module is not available on this node at the moment."
	MsgRenderError        = "Sorry, the plot for this module could not be generated."
	MsgConfigurationError = "The query service is misconfigured. Please contact the administrator."
)

// Failure is the error returned by Service.Handle.
type Failure struct {
	Kind    Kind
	Message string
	Err     error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return string(f.Kind)
	}
	return fmt.Sprintf("%s: %v", f.Kind, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

func newFailure(kind Kind, err error) *Failure {
	f := &Failure{Kind: kind, Err: err}
	switch kind {
	case KindUnreachable:
		f.Message = MsgUnreachable
	case KindUnavailable:
		f.Message = MsgUnavailable
	case KindRenderError:
		f.Message = MsgRenderError
	default:
		f.Message = MsgConfigurationError
	}
	return f
}

// AsFailure extracts a *Failure from err.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
