// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

package proxy

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/comolive/internal/comonode"
	"github.com/tomtom215/comolive/internal/logging"
)

// ErrUnavailable is returned when the node cannot answer a module query.
var ErrUnavailable = errors.New("module not available")

// Proxy fetches module output from CoMo nodes.
type Proxy struct {
	getter comonode.Getter
}

// New creates a Proxy sending requests through getter.
func New(getter comonode.Getter) *Proxy {
	return &Proxy{getter: getter}
}

// Fetch requests http://<addr>/?<query>. Transport errors, non-200 answers
// and empty payloads all wrap ErrUnavailable.
func (p *Proxy) Fetch(ctx context.Context, addr comonode.Address, query string) ([]byte, error) {
	body, err := p.getter.Get(ctx, addr, query, comonode.KindQuery)
	if err != nil {
		logging.Ctx(ctx).Debug().
			Err(err).
			Str("node", addr.String()).
			Str("query", query).
			Msg("Module query failed")
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%w: empty response from %s", ErrUnavailable, addr)
	}
	return body, nil
}
