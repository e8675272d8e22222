// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

package cache

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/comolive/internal/models"
)

// keyMaterial is hashed to form a Key. Map fields marshal with sorted keys,
// which makes the key independent of extra-parameter order.
type keyMaterial struct {
	Node   string            `json:"node"`
	Module string            `json:"module"`
	Start  int64             `json:"start"`
	End    int64             `json:"end"`
	Filter string            `json:"filter"`
	Format string            `json:"format"`
	Extra  map[string]string `json:"extra,omitempty"`
}

// Key derives the cache key for req: the module name followed by the first
// 128 bits of a SHA-256 over every output-affecting field.
func Key(req *models.QueryRequest) string {
	extra := make(map[string]string, len(req.Extra))
	for k, v := range req.Extra {
		extra[k] = v
	}
	// Strings, ints and a string map always marshal.
	data, _ := json.Marshal(keyMaterial{
		Node:   strings.ToLower(req.Node),
		Module: req.Module,
		Start:  req.Window.Start,
		End:    req.Window.End,
		Filter: req.Filter,
		Format: req.Format,
		Extra:  extra,
	})
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%s_%x", safePrefix(req.Module), hash[:16])
}

// safePrefix keeps the key usable as a file name.
func safePrefix(module string) string {
	var b strings.Builder
	for _, r := range module {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
		if b.Len() >= 32 {
			break
		}
	}
	if b.Len() == 0 {
		return "artifact"
	}
	return b.String()
}

// ValidKey reports whether s could have been produced by Key. The API uses
// it before touching the filesystem with a client-supplied name.
func ValidKey(s string) bool {
	i := strings.LastIndexByte(s, '_')
	if i < 1 || len(s)-i-1 != 32 {
		return false
	}
	for _, r := range s[:i] {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-') {
			return false
		}
	}
	for _, r := range s[i+1:] {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f') {
			return false
		}
	}
	return true
}
