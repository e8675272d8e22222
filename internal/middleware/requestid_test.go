// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/tomtom215/comolive/internal/logging"
)

func TestRequestID_GeneratesNewID(t *testing.T) {
	t.Parallel()

	var ctxID, logID string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxID = GetRequestID(r.Context())
		logID = logging.RequestIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	got := rec.Header().Get(RequestIDHeader)
	if _, err := uuid.Parse(got); err != nil {
		t.Fatalf("response ID %q is not a UUID: %v", got, err)
	}
	if ctxID != got || logID != got {
		t.Errorf("context IDs = %q/%q, want %q", ctxID, logID, got)
	}
}

func TestRequestID_Upstream(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		upstream string
		keep     bool
	}{
		{"well formed", "lb-1234-abcd", true},
		{"uuid", "5f3c1d9e-7c1b-4f52-9a56-2a0f6f7f1c11", true},
		{"space", "bad id", false},
		{"newline", "id\ninjected", false},
		{"non ascii", "idé", false},
		{"too long", strings.Repeat("a", maxRequestIDLen+1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(RequestIDHeader, tt.upstream)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			got := rec.Header().Get(RequestIDHeader)
			if tt.keep && got != tt.upstream {
				t.Errorf("ID = %q, want upstream %q", got, tt.upstream)
			}
			if !tt.keep && got == tt.upstream {
				t.Errorf("malformed upstream ID %q was kept", tt.upstream)
			}
		})
	}
}

func TestRequestID_FreshCorrelationID(t *testing.T) {
	t.Parallel()

	var ids []string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids = append(ids, logging.CorrelationIDFromContext(r.Context()))
	}))
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "same")
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}
	if ids[0] == "" || ids[0] == ids[1] {
		t.Errorf("correlation IDs = %v, want distinct non-empty", ids)
	}
}

func TestGetRequestID_Empty(t *testing.T) {
	t.Parallel()
	if id := GetRequestID(httptest.NewRequest(http.MethodGet, "/", nil).Context()); id != "" {
		t.Errorf("GetRequestID() = %q, want empty", id)
	}
}
