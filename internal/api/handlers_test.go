// CoMoLive - Traffic Monitoring Query and Plot Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/comolive

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tomtom215/comolive/internal/cache"
	"github.com/tomtom215/comolive/internal/comonode"
	"github.com/tomtom215/comolive/internal/config"
	"github.com/tomtom215/comolive/internal/models"
	"github.com/tomtom215/comolive/internal/query"
	"github.com/tomtom215/comolive/internal/timewindow"
)

type fakeQueries struct {
	mu sync.Mutex

	result *query.Result
	err    error
	snap   *models.NodeStatusSnapshot
	nav    *query.Navigation

	requests []query.Request
	navAddr  comonode.Address
	navMod   string
	navWin   timewindow.Window
	navAct   timewindow.Action
}

func (f *fakeQueries) Handle(_ context.Context, req query.Request) (*query.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeQueries) Status(_ context.Context, addr comonode.Address) (*models.NodeStatusSnapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.snap, nil
}

func (f *fakeQueries) Navigate(_ context.Context, addr comonode.Address, module string, w timewindow.Window, a timewindow.Action) (*query.Navigation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.navAddr, f.navMod, f.navWin, f.navAct = addr, module, w, a
	if f.err != nil {
		return nil, f.err
	}
	return f.nav, nil
}

func (f *fakeQueries) lastRequest(t *testing.T) query.Request {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		t.Fatal("no query reached the service")
	}
	return f.requests[len(f.requests)-1]
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{PublicURL: "https://como.example.org/"},
		Render: config.RenderConfig{Enabled: true},
		Security: config.SecurityConfig{
			RateLimitDisabled: true,
		},
	}
}

type testEnv struct {
	queries *fakeQueries
	store   *cache.Store
	handler *Handler
	router  http.Handler
}

func newTestEnv(t *testing.T, cfg *config.Config) *testEnv {
	t.Helper()
	store, err := cache.NewStore(t.TempDir(), true)
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	fq := &fakeQueries{}
	h := NewHandler(cfg, fq, store, "test", true)
	return &testEnv{
		queries: fq,
		store:   store,
		handler: h,
		router:  NewRouter(h).SetupChi(),
	}
}

func (e *testEnv) get(t *testing.T, target string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// envelope mirrors models.APIResponse with raw data for per-test decoding.
type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	env := decodeEnvelope(t, rec)
	if env.Status != "success" {
		t.Fatalf("status = %q, error = %+v", env.Status, env.Error)
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("decode data: %v", err)
	}
}

func textResult(format, body string, cached bool) *query.Result {
	return &query.Result{
		Artifact: &models.Artifact{
			Key:         "topdest_0123456789abcdef0123456789abcdef",
			Format:      format,
			ContentType: cache.ContentType(cache.PrimaryExt(format)),
			Data:        []byte(body),
			Cached:      cached,
		},
		Query: models.QueryRequest{
			Node:   "como.example.org:44444",
			Module: "topdest",
			Filter: "ip",
			Window: timewindow.Window{Start: 999996300, End: 999999900},
			Format: format,
			Extra:  map[string]string{"topn": "5"},
		},
		Outcome: query.OutcomeFetched,
	}
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, testConfig())

	rec := env.get(t, "/api/v1/health/")
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d, body %s", rec.Code, rec.Body.String())
	}
	var health HealthResponse
	decodeData(t, rec, &health)
	if health.Status != "healthy" || !health.CacheEnabled || !health.CacheWritable || !health.RenderReady {
		t.Errorf("health = %+v", health)
	}
	if health.Version != "test" {
		t.Errorf("Version = %q", health.Version)
	}

	for _, path := range []string{"/api/v1/health/live", "/api/v1/health/ready"} {
		if rec := env.get(t, path); rec.Code != http.StatusOK {
			t.Errorf("%s status = %d", path, rec.Code)
		}
	}
}

func TestHealth_DegradedWithoutRenderTools(t *testing.T) {
	t.Parallel()
	store, err := cache.NewStore(t.TempDir(), true)
	if err != nil {
		t.Fatal(err)
	}
	h := NewHandler(testConfig(), &fakeQueries{}, store, "test", false)
	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	var health HealthResponse
	decodeData(t, rec, &health)
	if health.Status != "degraded" || health.RenderReady {
		t.Errorf("health = %+v, want degraded without render tools", health)
	}
}

func TestHealthReady_CacheNotWritable(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, testConfig())

	// Replace the cache directory with a regular file.
	dir := env.store.Dir()
	if err := os.RemoveAll(dir); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dir, []byte("not a directory"), 0o644); err != nil {
		t.Fatal(err)
	}

	rec := env.get(t, "/api/v1/health/ready")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("ready status = %d, want 503", rec.Code)
	}
	if e := decodeEnvelope(t, rec); e.Error == nil || e.Error.Code != ErrCodeNotReady {
		t.Errorf("error = %+v, want %s", e.Error, ErrCodeNotReady)
	}
}

func TestSecurityHeadersAndRequestID(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, testConfig())

	rec := env.get(t, "/api/v1/health/live")
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing X-Content-Type-Options")
	}
	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("missing X-Frame-Options")
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, testConfig())
	env.queries.result = textResult(models.FormatHTML, "<table></table>", false)
	env.get(t, "/api/v1/query?node=como.example.org:44444&module=topdest&format=html")

	rec := env.get(t, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "api_requests_total") {
		t.Error("metrics output lacks api_requests_total")
	}
}

func TestUnknownRoute(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, testConfig())
	if rec := env.get(t, "/api/v1/nope"); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
