// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

package prefs

import (
	"errors"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(Config{InMemory: true})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestTopNRoundTrip(t *testing.T) {
	s := openTestStore(t)
	client := NewClientID()

	if _, ok, err := s.TopN(client, "topdest"); err != nil || ok {
		t.Fatalf("TopN on empty store = ok %v, err %v", ok, err)
	}

	if err := s.SetTopN(client, "topdest", 10); err != nil {
		t.Fatalf("SetTopN: %v", err)
	}
	n, ok, err := s.TopN(client, "topdest")
	if err != nil || !ok || n != 10 {
		t.Errorf("TopN = %d, %v, %v; want 10, true, nil", n, ok, err)
	}

	if err := s.SetTopN(client, "topdest", 20); err != nil {
		t.Fatal(err)
	}
	if n, _, _ := s.TopN(client, "topdest"); n != 20 {
		t.Errorf("TopN after overwrite = %d, want 20", n)
	}
}

func TestTopNScopedByClientAndModule(t *testing.T) {
	s := openTestStore(t)
	a, b := NewClientID(), NewClientID()

	if err := s.SetTopN(a, "topdest", 7); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.TopN(b, "topdest"); ok {
		t.Error("preference leaked to another client")
	}
	if _, ok, _ := s.TopN(a, "topports"); ok {
		t.Error("preference leaked to another module")
	}
}

func TestInvalidClient(t *testing.T) {
	s := openTestStore(t)
	for _, client := range []string{"", "a:b"} {
		if err := s.SetTopN(client, "topdest", 5); !errors.Is(err, ErrInvalidClient) {
			t.Errorf("SetTopN(%q) err = %v, want ErrInvalidClient", client, err)
		}
		if _, _, err := s.TopN(client, "topdest"); !errors.Is(err, ErrInvalidClient) {
			t.Errorf("TopN(%q) err = %v, want ErrInvalidClient", client, err)
		}
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	client := NewClientID()

	s, err := Open(Config{Path: dir})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.SetTopN(client, "topports", 15); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(Config{Path: dir})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if n, ok, _ := s.TopN(client, "topports"); !ok || n != 15 {
		t.Errorf("TopN after reopen = %d, %v", n, ok)
	}
}

func TestRunGCInMemory(t *testing.T) {
	s := openTestStore(t)
	if err := s.RunGC(); err != nil {
		t.Errorf("RunGC: %v", err)
	}
}

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open(Config{}); err == nil {
		t.Error("Open without path or in-memory should fail")
	}
}
