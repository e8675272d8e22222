// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

package prefs

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/tomtom215/comolive/internal/logging"
)

const prefixTopN = "topn:"

// ErrInvalidClient is returned for empty client IDs or IDs containing ':'.
var ErrInvalidClient = errors.New("invalid client id")

// Config configures the preference store.
type Config struct {
	// Path is the BadgerDB directory. Ignored when InMemory is set.
	Path     string
	InMemory bool
}

// record is the stored value of a preference.
type record struct {
	Value     int       `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is a BadgerDB-backed preference store.
type Store struct {
	db *badger.DB
}

// Open opens or creates the store.
func Open(cfg Config) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, errors.New("prefs path is required")
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Msg("Preference store opened")
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// NewClientID returns a fresh client identifier.
func NewClientID() string {
	return uuid.NewString()
}

func topNKey(client, module string) ([]byte, error) {
	if client == "" || strings.Contains(client, ":") {
		return nil, ErrInvalidClient
	}
	return []byte(prefixTopN + client + ":" + module), nil
}

// TopN returns the stored top-N count for client and module. ok is false
// when nothing is stored.
func (s *Store) TopN(client, module string) (n int, ok bool, err error) {
	key, err := topNKey(client, module)
	if err != nil {
		return 0, false, err
	}

	var rec record
	err = s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read topn preference: %w", err)
	}
	return rec.Value, true, nil
}

// SetTopN stores n as the top-N count for client and module.
func (s *Store) SetTopN(client, module string, n int) error {
	key, err := topNKey(client, module)
	if err != nil {
		return err
	}
	data, err := json.Marshal(record{Value: n, UpdatedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal preference: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// RunGC reclaims value log space. It returns nil when there was nothing to
// collect.
func (s *Store) RunGC() error {
	err := s.db.RunValueLogGC(0.5)
	if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrGCInMemoryMode) {
		return nil
	}
	return err
}
