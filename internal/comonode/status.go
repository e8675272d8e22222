// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

package comonode

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/tomtom215/comolive/internal/logging"
	"github.com/tomtom215/comolive/internal/metrics"
	"github.com/tomtom215/comolive/internal/models"
)

// ErrUnreachable is returned when a node's status cannot be obtained.
var ErrUnreachable = errors.New("node unreachable")

const statusInfix = "_status_"

// StatusClient returns fresh-enough status snapshots for nodes.
//
// Lookups go memo -> disk -> node. The memo only saves re-parsing a file
// that is still valid on disk; its entries expire with the file.
type StatusClient struct {
	getter Getter
	dir    string
	ttl    time.Duration
	now    func() time.Time
	memo   *ttlcache.Cache[string, memoEntry]
}

type memoEntry struct {
	snap    *models.NodeStatusSnapshot
	expires time.Time
}

// maxMemoNodes bounds the in-memory snapshot memo.
const maxMemoNodes = 1024

// NewStatusClient creates a client caching raw status files under dir.
func NewStatusClient(getter Getter, dir string, ttl time.Duration) *StatusClient {
	return &StatusClient{
		getter: getter,
		dir:    dir,
		ttl:    ttl,
		now:    time.Now,
		memo: ttlcache.New[string, memoEntry](
			ttlcache.WithTTL[string, memoEntry](ttl),
			ttlcache.WithDisableTouchOnHit[string, memoEntry](),
			ttlcache.WithCapacity[string, memoEntry](maxMemoNodes),
		),
	}
}

// GetStatus returns the node's status, fetching it when no unexpired
// cached copy exists. Fetch failures wrap ErrUnreachable.
func (c *StatusClient) GetStatus(ctx context.Context, addr Address) (*models.NodeStatusSnapshot, error) {
	node := addr.String()
	now := c.now()

	if item := c.memo.Get(node); item != nil && now.Before(item.Value().expires) {
		metrics.RecordCacheLookup(metrics.CacheStatus, true)
		return item.Value().snap, nil
	}

	if snap, fetched, ok := c.readCached(addr, now); ok {
		metrics.RecordCacheLookup(metrics.CacheStatus, true)
		c.remember(node, snap, fetched)
		return snap, nil
	}
	metrics.RecordCacheLookup(metrics.CacheStatus, false)

	raw, err := c.getter.Get(ctx, addr, "status", KindStatus)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnreachable, node, err)
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return nil, fmt.Errorf("%w: %s: empty status response", ErrUnreachable, node)
	}

	snap, err := ParseStatus(raw, addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnreachable, node, err)
	}
	snap.FetchedAt = now

	if err := c.persist(node, raw, now); err != nil {
		// The snapshot is still good for this request.
		logging.Warn().Err(err).Str("node", node).Msg("Failed to cache node status")
	}
	c.remember(node, snap, now)

	logging.Debug().Str("node", node).Int("modules", len(snap.Modules)).Msg("Fetched node status")
	return snap, nil
}

// Invalidate drops any cached status for addr.
func (c *StatusClient) Invalidate(addr Address) {
	node := addr.String()
	c.memo.Delete(node)
	for _, f := range c.statusFiles(node) {
		_ = os.Remove(filepath.Join(c.dir, f.name))
	}
}

func (c *StatusClient) remember(node string, snap *models.NodeStatusSnapshot, fetched time.Time) {
	expires := fetched.Add(c.ttl)
	c.memo.Set(node, memoEntry{snap: snap, expires: expires}, c.ttl)
}

type statusFile struct {
	name    string
	fetched time.Time
}

// statusFiles lists the status files for node, newest first.
func (c *StatusClient) statusFiles(node string) []statusFile {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil
	}
	prefix := node + statusInfix
	var files []statusFile
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) {
			continue
		}
		ts, err := strconv.ParseInt(strings.TrimPrefix(name, prefix), 10, 64)
		if err != nil {
			continue
		}
		files = append(files, statusFile{name: name, fetched: time.Unix(ts, 0)})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].fetched.After(files[j].fetched) })
	return files
}

// readCached returns the newest unexpired status for addr. Expired files
// are deleted on the way.
func (c *StatusClient) readCached(addr Address, now time.Time) (*models.NodeStatusSnapshot, time.Time, bool) {
	node := addr.String()
	var found *models.NodeStatusSnapshot
	var fetched time.Time

	for _, f := range c.statusFiles(node) {
		path := filepath.Join(c.dir, f.name)
		if found != nil || now.Sub(f.fetched) > c.ttl {
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				logging.Warn().Err(err).Str("file", f.name).Msg("Failed to remove stale status file")
			}
			continue
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		snap, err := ParseStatus(raw, addr)
		if err != nil {
			logging.Warn().Err(err).Str("file", f.name).Msg("Discarding unparsable status file")
			_ = os.Remove(path)
			continue
		}
		snap.FetchedAt = f.fetched
		found, fetched = snap, f.fetched
	}
	return found, fetched, found != nil
}

// persist writes raw atomically as <node>_status_<unix>.
func (c *StatusClient) persist(node string, raw []byte, now time.Time) error {
	tmp, err := os.CreateTemp(c.dir, ".status-*")
	if err != nil {
		return fmt.Errorf("create temp status file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write status file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close status file: %w", err)
	}

	final := filepath.Join(c.dir, node+statusInfix+strconv.FormatInt(now.Unix(), 10))
	if err := os.Rename(tmpName, final); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename status file: %w", err)
	}
	return nil
}

// SweepExpired removes status files older than the TTL and returns how
// many were deleted. Expired memo entries are dropped as well.
func (c *StatusClient) SweepExpired() int {
	c.memo.DeleteExpired()
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return 0
	}
	now := c.now()
	removed := 0
	for _, e := range entries {
		name := e.Name()
		i := strings.LastIndex(name, statusInfix)
		if e.IsDir() || i < 0 {
			continue
		}
		ts, err := strconv.ParseInt(name[i+len(statusInfix):], 10, 64)
		if err != nil {
			continue
		}
		if now.Sub(time.Unix(ts, 0)) > c.ttl {
			if os.Remove(filepath.Join(c.dir, name)) == nil {
				removed++
			}
		}
	}
	return removed
}
