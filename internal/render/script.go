// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

package render

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// seriesToken marks an inline data series in gnuplot plot directives.
var seriesToken = []byte(`"-"`)

// Replicate returns payload with its data block repeated once per series
// named in the header line. A header with N series tokens yields the header
// followed by N copies of the body. Payloads without a body or with fewer
// than two series are returned unchanged.
func Replicate(payload []byte) []byte {
	i := bytes.IndexByte(payload, '\n')
	if i < 0 {
		return payload
	}
	header, body := payload[:i], payload[i+1:]
	n := bytes.Count(header, seriesToken)
	if n < 2 || len(body) == 0 {
		return payload
	}

	out := make([]byte, 0, len(payload)+(n-1)*len(body))
	out = append(out, payload...)
	for ; n > 1; n-- {
		out = append(out, body...)
	}
	return out
}

var (
	sanitizer = strings.NewReplacer("`", "", "!", "")

	// systemCall matches the system() function and the system command.
	systemCall = regexp.MustCompile(`\bsystem\b`)

	// pipedName matches a quoted name that gnuplot would open as a pipe:
	// "< cmd" reads from a command, "| cmd" writes to one.
	pipedName = regexp.MustCompile(`(["'])\s*[<|]+`)

	// unsafeStatement matches statements that run a shell or touch files
	// other than stdin and stdout, including gnuplot's abbreviations.
	unsafeStatement = regexp.MustCompile(`(?m)(?:^|[;{])\s*(?:` +
		`she(?:l(?:l)?)?|` +
		`l(?:o(?:a(?:d)?)?)?|` +
		`ca(?:l(?:l)?)?|` +
		`sa(?:v(?:e)?)?|` +
		`cd|` +
		`set\s+(?:o(?:u(?:t(?:p(?:u(?:t)?)?)?)?)?|pr(?:i(?:n(?:t)?)?)?|ta(?:b(?:l(?:e)?)?)?)` +
		`)\b`)
)

// ErrUnsafeScript is returned by CheckScript.
var ErrUnsafeScript = errors.New("script redirects gnuplot input or output")

// Sanitize removes the characters gnuplot uses for shell escapes, drops
// calls to system and strips the pipe marker from quoted file names.
func Sanitize(script []byte) []byte {
	if bytes.IndexAny(script, "`!") >= 0 {
		script = []byte(sanitizer.Replace(string(script)))
	}
	script = systemCall.ReplaceAll(script, nil)
	return pipedName.ReplaceAll(script, []byte("$1"))
}

// CheckScript rejects scripts that start a shell, load other scripts or
// send output anywhere but stdout.
func CheckScript(script []byte) error {
	if loc := unsafeStatement.FindIndex(script); loc != nil {
		stmt := strings.TrimSpace(strings.TrimLeft(string(script[loc[0]:loc[1]]), ";{"))
		return fmt.Errorf("%w: %q", ErrUnsafeScript, stmt)
	}
	return nil
}
