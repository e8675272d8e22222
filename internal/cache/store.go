// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tomtom215/comolive/internal/logging"
	"github.com/tomtom215/comolive/internal/metrics"
	"github.com/tomtom215/comolive/internal/models"
)

// ErrNotWritable is returned by NewStore when the directory cannot be
// created or written.
var ErrNotWritable = errors.New("cache directory not writable")

// File extensions used for artifacts.
const (
	ExtHTML = ".html"
	ExtText = ".txt"
	ExtJPEG = ".jpg"
	ExtEPS  = ".eps"
)

var artifactExts = []string{ExtHTML, ExtText, ExtJPEG, ExtEPS}

// tmpPrefix marks in-progress writes; the sweeper removes leftovers.
const tmpPrefix = ".tmp-"

// Store is the on-disk artifact cache.
type Store struct {
	dir     string
	enabled bool
}

// NewStore creates dir if needed and verifies it is writable. The
// directory is required even when caching is disabled because node status
// files and the sweeper share it.
func NewStore(dir string, enabled bool) (*Store, error) {
	if err := EnsureWritable(dir); err != nil {
		return nil, err
	}
	return &Store{dir: dir, enabled: enabled}, nil
}

// EnsureWritable creates dir and probes it with a temporary file.
func EnsureWritable(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNotWritable, dir, err)
	}
	f, err := os.CreateTemp(dir, tmpPrefix+"probe-*")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNotWritable, dir, err)
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return nil
}

// Dir returns the cache directory.
func (s *Store) Dir() string {
	return s.dir
}

// Enabled reports whether lookups and writes are active.
func (s *Store) Enabled() bool {
	return s.enabled
}

// PrimaryExt returns the extension of the main file for format.
func PrimaryExt(format string) string {
	switch format {
	case models.FormatGnuplot:
		return ExtJPEG
	case models.FormatHTML, models.FormatSidebox:
		return ExtHTML
	default:
		return ExtText
	}
}

// ContentType returns the MIME type served for a file extension.
func ContentType(ext string) string {
	switch ext {
	case ExtJPEG:
		return "image/jpeg"
	case ExtEPS:
		return "application/postscript"
	case ExtHTML:
		return "text/html; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// Path returns the file path for key with ext.
func (s *Store) Path(key, ext string) string {
	return filepath.Join(s.dir, key+ext)
}

// Lookup returns the cached artifact for key, or false on a miss. A
// disabled store always misses.
func (s *Store) Lookup(key, format string) (*models.Artifact, bool) {
	if !s.enabled {
		return nil, false
	}

	ext := PrimaryExt(format)
	path := s.Path(key, ext)
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Warn().Err(err).Str("key", key).Msg("Failed to read cached artifact")
		}
		metrics.RecordCacheLookup(metrics.CacheArtifact, false)
		return nil, false
	}

	a := &models.Artifact{
		Key:         key,
		Format:      format,
		ContentType: ContentType(ext),
		Data:        data,
		Path:        path,
		Cached:      true,
	}
	if models.IsPlotFormat(format) {
		vpath := s.Path(key, ExtEPS)
		if vec, err := os.ReadFile(vpath); err == nil {
			a.Vector = vec
			a.VectorPath = vpath
		}
	}
	metrics.RecordCacheLookup(metrics.CacheArtifact, true)
	return a, true
}

// Store writes a under key and records the resulting paths on a. It is a
// no-op when the store is disabled.
func (s *Store) Store(key string, a *models.Artifact) error {
	if !s.enabled {
		return nil
	}

	if a.Vector != nil {
		vpath := s.Path(key, ExtEPS)
		if err := s.writeAtomic(vpath, a.Vector); err != nil {
			return err
		}
		a.VectorPath = vpath
	}

	path := s.Path(key, PrimaryExt(a.Format))
	if err := s.writeAtomic(path, a.Data); err != nil {
		return err
	}
	a.Path = path
	return nil
}

// Invalidate deletes every file stored under key.
func (s *Store) Invalidate(key string) error {
	var errs []error
	for _, ext := range artifactExts {
		if err := os.Remove(s.Path(key, ext)); err != nil && !os.IsNotExist(err) {
			errs = append(errs, err)
		}
	}
	metrics.CacheInvalidations.Inc()
	return errors.Join(errs...)
}

func (s *Store) writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, tmpPrefix+"*")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod artifact: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename artifact: %w", err)
	}
	return nil
}

// Sweep removes artifacts last modified more than maxAge ago and abandoned
// temporary files. A zero maxAge keeps artifacts forever.
func (s *Store) Sweep(maxAge time.Duration, now time.Time) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("read cache dir: %w", err)
	}

	removed := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		info, err := e.Info()
		if err != nil {
			continue
		}
		age := now.Sub(info.ModTime())

		expired := false
		switch {
		case strings.HasPrefix(name, tmpPrefix):
			expired = age > time.Hour
		case maxAge > 0 && IsArtifactName(name):
			expired = age > maxAge
		}
		if !expired {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, name)); err == nil {
			removed++
		}
	}
	if removed > 0 {
		metrics.CacheFilesSwept.WithLabelValues(metrics.CacheArtifact).Add(float64(removed))
	}
	return removed, nil
}

// IsArtifactName reports whether name is a key followed by an artifact
// extension.
func IsArtifactName(name string) bool {
	ext := filepath.Ext(name)
	for _, a := range artifactExts {
		if ext == a {
			return ValidKey(strings.TrimSuffix(name, ext))
		}
	}
	return false
}
