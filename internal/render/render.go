// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/tomtom215/comolive/internal/logging"
	"github.com/tomtom215/comolive/internal/metrics"
)

var (
	// ErrToolMissing is returned when a configured tool does not exist.
	ErrToolMissing = errors.New("render tool not found")
	// ErrEmptyPlot is returned when gnuplot produced no output.
	ErrEmptyPlot = errors.New("plot is empty")
	// ErrRender is returned when a tool fails or times out.
	ErrRender = errors.New("render failed")
)

// Failure reasons recorded in metrics.
const (
	reasonGnuplot = "gnuplot"
	reasonConvert = "convert"
	reasonEmpty   = "empty_plot"
	reasonTimeout = "timeout"
	reasonIO      = "io"
	reasonUnsafe  = "unsafe_script"
)

// Tools names the external programs used for rendering.
type Tools struct {
	// Gnuplot is the path of the gnuplot binary.
	Gnuplot string
	// Convert is the image conversion command. The first word is the
	// program path and any further words are passed before the input and
	// output file names, e.g. "/usr/bin/convert -density 100".
	Convert string
}

// convertArgv splits Convert into program and leading arguments.
func (t Tools) convertArgv() (string, []string) {
	fields := strings.Fields(t.Convert)
	if len(fields) == 0 {
		return "", nil
	}
	return fields[0], fields[1:]
}

// CheckTools verifies both tools exist and are regular files.
func CheckTools(t Tools) error {
	convert, _ := t.convertArgv()
	for _, tool := range []struct{ name, path string }{
		{"gnuplot", t.Gnuplot},
		{"convert", convert},
	} {
		if tool.path == "" {
			return fmt.Errorf("%w: %s path is empty", ErrToolMissing, tool.name)
		}
		info, err := os.Stat(tool.path)
		if err != nil {
			return fmt.Errorf("%w: %s (%s): %v", ErrToolMissing, tool.name, tool.path, err)
		}
		if info.IsDir() {
			return fmt.Errorf("%w: %s (%s) is a directory", ErrToolMissing, tool.name, tool.path)
		}
	}
	return nil
}

// Images is a rendered plot.
type Images struct {
	EPS  []byte
	JPEG []byte
}

// Renderer runs gnuplot and convert.
type Renderer struct {
	tools   Tools
	timeout time.Duration
	workDir string
}

// NewRenderer creates a Renderer. Temporary files go to workDir, or the
// system temp directory when it is empty. timeout bounds each tool run.
func NewRenderer(tools Tools, timeout time.Duration, workDir string) *Renderer {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Renderer{tools: tools, timeout: timeout, workDir: workDir}
}

// Render replicates and sanitizes payload and renders it. It returns
// ErrEmptyPlot when gnuplot writes nothing and wraps ErrRender when a tool
// fails.
func (r *Renderer) Render(ctx context.Context, payload []byte) (*Images, error) {
	start := time.Now()
	images, reason, err := r.render(ctx, payload)
	metrics.RecordRender(time.Since(start), reason)
	if err != nil && !errors.Is(err, ErrEmptyPlot) {
		logging.Ctx(ctx).Warn().Err(err).Str("reason", reason).Msg("Plot rendering failed")
	}
	return images, err
}

func (r *Renderer) render(ctx context.Context, payload []byte) (*Images, string, error) {
	script := Sanitize(Replicate(payload))
	if err := CheckScript(script); err != nil {
		return nil, reasonUnsafe, fmt.Errorf("%w: %w", ErrRender, err)
	}

	dir, err := os.MkdirTemp(r.workDir, "comolive-render-*")
	if err != nil {
		return nil, reasonIO, fmt.Errorf("%w: create work dir: %v", ErrRender, err)
	}
	defer func() { _ = os.RemoveAll(dir) }()

	epsPath := filepath.Join(dir, "plot.eps")
	jpgPath := filepath.Join(dir, "plot.jpg")

	eps, err := r.run(ctx, dir, r.tools.Gnuplot, nil, bytes.NewReader(script))
	if err != nil {
		return nil, failureReason(err, reasonGnuplot), fmt.Errorf("%w: gnuplot: %w", ErrRender, err)
	}
	if len(eps) == 0 {
		return nil, reasonEmpty, ErrEmptyPlot
	}
	if err := os.WriteFile(epsPath, eps, 0o600); err != nil {
		return nil, reasonIO, fmt.Errorf("%w: write eps: %v", ErrRender, err)
	}

	prog, args := r.tools.convertArgv()
	args = append(args, epsPath, jpgPath)
	if _, err := r.run(ctx, dir, prog, args, nil); err != nil {
		return nil, failureReason(err, reasonConvert), fmt.Errorf("%w: convert: %w", ErrRender, err)
	}
	jpg, err := os.ReadFile(jpgPath)
	if err != nil {
		return nil, reasonConvert, fmt.Errorf("%w: convert produced no image: %v", ErrRender, err)
	}

	return &Images{EPS: eps, JPEG: jpg}, "", nil
}

// toolEnv is the environment of every tool run. SHELL points at a program
// that always fails so gnuplot cannot start an interactive shell.
func toolEnv(dir string) []string {
	return []string{
		"PATH=/usr/local/bin:/usr/bin:/bin",
		"HOME=" + dir,
		"TMPDIR=" + dir,
		"SHELL=/bin/false",
		"LC_ALL=C",
	}
}

// run executes prog with args in dir, feeding stdin, and returns its stdout.
func (r *Renderer) run(ctx context.Context, dir, prog string, args []string, stdin *bytes.Reader) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, prog, args...)
	cmd.Dir = dir
	cmd.Env = toolEnv(dir)
	cmd.WaitDelay = time.Second
	if stdin != nil {
		cmd.Stdin = stdin
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%w: %s", err, truncate(msg, 512))
		}
		return nil, err
	}
	return stdout.Bytes(), nil
}

func failureReason(err error, tool string) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return reasonTimeout
	}
	return tool
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
