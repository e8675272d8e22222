// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

package comonode

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
)

// ErrInvalidAddress is returned for node addresses that are not host:port
// or a bare port.
var ErrInvalidAddress = errors.New("invalid node address")

// Address identifies a CoMo node.
type Address struct {
	Host string
	Port int
}

// String returns host:port.
func (a Address) String() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// ParseAddress accepts "host:port" or a bare port, which means localhost.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Address{}, fmt.Errorf("%w: empty", ErrInvalidAddress)
	}

	host, portStr := "localhost", s
	if strings.Contains(s, ":") {
		h, p, err := net.SplitHostPort(s)
		if err != nil {
			return Address{}, fmt.Errorf("%w: %q: %v", ErrInvalidAddress, s, err)
		}
		host, portStr = h, p
	}
	if host == "" || strings.ContainsAny(host, "/?#@ _") {
		return Address{}, fmt.Errorf("%w: bad host in %q", ErrInvalidAddress, s)
	}

	port, err := strconv.Atoi(portStr)
	if err != nil || port < 1 || port > 65535 {
		return Address{}, fmt.Errorf("%w: port %q is not numeric", ErrInvalidAddress, portStr)
	}
	return Address{Host: host, Port: port}, nil
}
