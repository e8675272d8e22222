// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

package proxy

import (
	"context"
	"errors"
	"testing"

	"github.com/tomtom215/comolive/internal/comonode"
)

type fakeGetter struct {
	body  []byte
	err   error
	calls int
	last  string
	kind  string
}

func (f *fakeGetter) Get(_ context.Context, _ comonode.Address, rawQuery, kind string) ([]byte, error) {
	f.calls++
	f.last = rawQuery
	f.kind = kind
	return f.body, f.err
}

func TestFetch(t *testing.T) {
	addr := comonode.Address{Host: "demo", Port: 44444}

	tests := []struct {
		name    string
		getter  *fakeGetter
		wantErr bool
	}{
		{"success", &fakeGetter{body: []byte("<table/>")}, false},
		{"transport error", &fakeGetter{err: errors.New("connection refused")}, true},
		{"node error", &fakeGetter{err: &comonode.StatusError{Code: 404}}, true},
		{"empty body", &fakeGetter{body: []byte{}}, true},
		{"whitespace body", &fakeGetter{body: []byte(" \n\t")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.getter)
			body, err := p.Fetch(context.Background(), addr, "module=traffic")

			if tt.getter.kind != comonode.KindQuery {
				t.Errorf("kind = %q, want %q", tt.getter.kind, comonode.KindQuery)
			}
			if tt.getter.last != "module=traffic" {
				t.Errorf("query = %q", tt.getter.last)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrUnavailable) {
					t.Fatalf("err = %v, want ErrUnavailable", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Fetch: %v", err)
			}
			if string(body) != "<table/>" {
				t.Errorf("body = %q", body)
			}
		})
	}
}

func TestFetchPreservesCause(t *testing.T) {
	cause := &comonode.StatusError{Code: 500}
	p := New(&fakeGetter{err: cause})
	_, err := p.Fetch(context.Background(), comonode.Address{Host: "demo", Port: 1}, "")

	var se *comonode.StatusError
	if !errors.As(err, &se) || se.Code != 500 {
		t.Errorf("cause lost: %v", err)
	}
}
