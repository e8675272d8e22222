// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

package comonode

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/tomtom215/comolive/internal/logging"
	"github.com/tomtom215/comolive/internal/models"
)

// ErrMalformedStatus is returned when a ?status payload lacks the fields
// needed to resolve query windows.
var ErrMalformedStatus = errors.New("malformed node status")

// ParseStatus parses a ?status payload. Lines look like
//
//	Node: name|location|speed
//	Start: 1136073600|
//	Current: 1136160000|
//	Module: traffic|ip|1136073600|gnuplot html|Traffic Volume
//	-- CoMo v1.0 (built: Jan 10 2006)
//
// Unknown keys are ignored. A repeated Module name replaces the earlier one.
func ParseStatus(raw []byte, addr Address) (*models.NodeStatusSnapshot, error) {
	snap := &models.NodeStatusSnapshot{
		Identity: models.NodeIdentity{Host: addr.Host, Port: addr.Port},
	}
	haveCurrent := false

	sc := bufio.NewScanner(bytes.NewReader(raw))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		key, rest, _ := strings.Cut(line, " ")
		args := strings.Split(rest, "|")
		for i := range args {
			args[i] = strings.TrimSpace(args[i])
		}

		switch strings.TrimSpace(key) {
		case "Node:":
			snap.Identity.Name = field(args, 0)
			snap.Identity.Location = field(args, 1)
			snap.Identity.Speed = field(args, 2)
		case "Start:":
			v, err := parseEpoch(field(args, 0))
			if err != nil {
				return nil, fmt.Errorf("%w: Start: %v", ErrMalformedStatus, err)
			}
			snap.Start = v
		case "Current:":
			v, err := parseEpoch(field(args, 0))
			if err != nil {
				return nil, fmt.Errorf("%w: Current: %v", ErrMalformedStatus, err)
			}
			snap.Current = v
			haveCurrent = true
		case "Comment:":
			snap.Identity.Comment = strings.TrimSpace(rest)
		case "Load:":
			snap.Load = parseLoad(args)
		case "Module:":
			m, err := parseModule(args)
			if err != nil {
				logging.Debug().Str("node", addr.String()).Err(err).Msg("Skipping module line")
				continue
			}
			snap.SetModule(m)
		case "--":
			snap.Identity.Version, snap.Identity.BuildDate = parseTrailer(rest)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedStatus, err)
	}
	if !haveCurrent {
		return nil, fmt.Errorf("%w: no Current line", ErrMalformedStatus)
	}
	return snap, nil
}

func field(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

func parseEpoch(s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("negative timestamp %d", v)
	}
	return v, nil
}

func parseLoad(args []string) []float64 {
	load := make([]float64, 0, 4)
	for i := 0; i < 4 && i < len(args); i++ {
		v, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			break
		}
		load = append(load, v)
	}
	return load
}

// parseModule handles name|filter|start|formats[|display name].
func parseModule(args []string) (models.ModuleInfo, error) {
	if len(args) < 4 || args[0] == "" {
		return models.ModuleInfo{}, fmt.Errorf("module line has %d fields, want at least 4", len(args))
	}
	earliest, err := parseEpoch(args[2])
	if err != nil {
		return models.ModuleInfo{}, fmt.Errorf("module %s start: %w", args[0], err)
	}

	m := models.ModuleInfo{
		Name:        args[0],
		Filter:      url.QueryEscape(args[1]),
		Earliest:    earliest,
		Formats:     strings.FieldsFunc(args[3], func(r rune) bool { return r == ' ' || r == ',' || r == '\t' }),
		DisplayName: args[0],
	}
	if len(args) > 4 && args[4] != "" {
		m.DisplayName = args[4]
	}
	return m, nil
}

// parseTrailer splits "CoMo v1.0 (built: Jan 10 2006)".
func parseTrailer(s string) (version, built string) {
	before, after, found := strings.Cut(s, "(built:")
	version = strings.TrimSpace(before)
	if found {
		built, _, _ = strings.Cut(after, ")")
		built = strings.TrimSpace(built)
	}
	return version, built
}
