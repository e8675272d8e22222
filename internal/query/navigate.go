// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

package query

import (
	"context"

	"github.com/tomtom215/comolive/internal/comonode"
	"github.com/tomtom215/comolive/internal/timewindow"
)

// Navigation is the outcome of a navigation step.
type Navigation struct {
	Window timewindow.Window `json:"window"`
	// Moved is false when the action was not available and Window is the
	// input window.
	Moved bool `json:"moved"`
	// Available reports which actions can be applied to Window.
	Available map[timewindow.Action]bool `json:"available"`
}

// Navigate applies action to w using the node's clock and start time. When
// module is set and running on the node, its earliest data time bounds
// backward movement instead of the node start.
func (s *Service) Navigate(ctx context.Context, addr comonode.Address, module string, w timewindow.Window, action timewindow.Action) (*Navigation, error) {
	snap, err := s.Status(ctx, addr)
	if err != nil {
		return nil, err
	}

	nav := timewindow.Navigator{
		Timebound: s.cfg.Timebound,
		NodeNow:   snap.Current,
		NodeStart: snap.Start,
	}
	if mod, ok := snap.Module(module); ok && mod.Earliest > nav.NodeStart {
		nav.NodeStart = mod.Earliest
	}

	next, moved := nav.Apply(action, w)
	return &Navigation{
		Window:    next,
		Moved:     moved,
		Available: nav.Available(next),
	}, nil
}
