// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

package api

import (
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/tomtom215/comolive/internal/cache"
	"github.com/tomtom215/comolive/internal/models"
	"github.com/tomtom215/comolive/internal/query"
	"github.com/tomtom215/comolive/internal/timewindow"
)

func testSnapshot() *models.NodeStatusSnapshot {
	return &models.NodeStatusSnapshot{
		Identity: models.NodeIdentity{Host: "como.example.org", Port: 44444, Name: "Lab"},
		Current:  1000000000,
		Start:    999000000,
		Modules: []models.ModuleInfo{
			{Name: "traffic", Filter: "ip", Formats: []string{"gnuplot", "html"}},
			{Name: "topdest", Filter: "ip", Formats: []string{"html", "plain"}},
			{Name: "alert", Filter: "ip"},
		},
	}
}

func TestNodeStatus(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, testConfig())
	env.queries.snap = testSnapshot()

	rec := env.get(t, "/api/v1/nodes/"+testNode+"/status")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var snap models.NodeStatusSnapshot
	decodeData(t, rec, &snap)
	if snap.Identity.Name != "Lab" || snap.Current != 1000000000 || len(snap.Modules) != 3 {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestNodeStatus_Errors(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t, testConfig())
	if rec := env.get(t, "/api/v1/nodes/not-a-node/status"); rec.Code != http.StatusBadRequest {
		t.Errorf("bad node status = %d, want 400", rec.Code)
	}

	env.queries.err = &query.Failure{Kind: query.KindUnreachable, Message: query.MsgUnreachable}
	rec := env.get(t, "/api/v1/nodes/"+testNode+"/status")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("unreachable status = %d, want 503", rec.Code)
	}
}

func TestNodeModules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format string
		want   []string
	}{
		{"", []string{"traffic", "topdest", "alert"}},
		{"gnuplot", []string{"traffic"}},
		{"PLAIN", []string{"topdest"}},
		{"sidebox", []string{}},
	}

	for _, tt := range tests {
		t.Run("format="+tt.format, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t, testConfig())
			env.queries.snap = testSnapshot()

			rec := env.get(t, "/api/v1/nodes/"+testNode+"/modules?format="+tt.format)
			var resp ModulesResponse
			decodeData(t, rec, &resp)
			if !reflect.DeepEqual(resp.Names, tt.want) {
				t.Errorf("Names = %v, want %v", resp.Names, tt.want)
			}
			if len(resp.Modules) != len(tt.want) {
				t.Errorf("len(Modules) = %d, want %d", len(resp.Modules), len(tt.want))
			}
		})
	}
}

func TestNodeNavigate(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, testConfig())
	want := &query.Navigation{
		Window:    timewindow.Window{Start: 999994500, End: 999998100},
		Moved:     true,
		Available: map[timewindow.Action]bool{timewindow.ActionForward: true},
	}
	env.queries.nav = want

	rec := env.get(t, "/api/v1/nodes/44444/navigate?action=backward&start=999996300&end=999999900&module=traffic")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var got query.Navigation
	decodeData(t, rec, &got)
	if got.Window != want.Window || !got.Moved || !got.Available[timewindow.ActionForward] {
		t.Errorf("navigation = %+v", got)
	}

	if env.queries.navAddr.String() != "localhost:44444" || env.queries.navMod != "traffic" {
		t.Errorf("navigated %s module %q", env.queries.navAddr, env.queries.navMod)
	}
	if env.queries.navAct != timewindow.ActionBackward {
		t.Errorf("action = %q", env.queries.navAct)
	}
	if env.queries.navWin != (timewindow.Window{Start: 999996300, End: 999999900}) {
		t.Errorf("window = %+v", env.queries.navWin)
	}
}

func TestNodeNavigate_Validation(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"unknown action": "action=sideways&start=1&end=2",
		"missing window": "action=forward",
		"inverted":       "action=forward&start=20&end=10",
		"bad module":     "action=forward&start=1&end=2&module=a.b",
		"bad number":     "action=forward&start=x&end=2",
	}
	for name, q := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			env := newTestEnv(t, testConfig())
			env.queries.nav = &query.Navigation{}

			rec := env.get(t, "/api/v1/nodes/"+testNode+"/navigate?"+q)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400; body %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestArtifact(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, testConfig())

	key := "topdest_0123456789abcdef0123456789abcdef"
	a := &models.Artifact{Key: key, Format: models.FormatHTML, Data: []byte("<table></table>")}
	if err := env.store.Store(key, a); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(env.store.Dir(), "secret.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := env.get(t, "/api/v1/artifacts/"+key+cache.ExtHTML)
	if rec.Code != http.StatusOK || rec.Body.String() != "<table></table>" {
		t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}

	for _, name := range []string{
		key + cache.ExtJPEG, // absent
		"secret.txt",
		key + ".exe",
		"..%2F" + key + cache.ExtHTML,
	} {
		if rec := env.get(t, "/api/v1/artifacts/"+name); rec.Code != http.StatusNotFound {
			t.Errorf("%s: status = %d, want 404", name, rec.Code)
		}
	}
}

func TestArtifact_CacheDisabled(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	key := "topdest_0123456789abcdef0123456789abcdef"
	if err := os.WriteFile(filepath.Join(dir, key+cache.ExtHTML), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	store, err := cache.NewStore(dir, false)
	if err != nil {
		t.Fatal(err)
	}
	router := NewRouter(NewHandler(testConfig(), &fakeQueries{}, store, "test", true)).SetupChi()
	env := &testEnv{router: router}

	if rec := env.get(t, "/api/v1/artifacts/"+key+cache.ExtHTML); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 with caching disabled", rec.Code)
	}
}
