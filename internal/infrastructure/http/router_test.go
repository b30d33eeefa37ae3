package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/epicevents/crm/internal/core/ports"
	"github.com/epicevents/crm/internal/infrastructure/metrics"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func get(t *testing.T, deps map[string]ports.Pinger, path string) *httptest.ResponseRecorder {
	t.Helper()
	e := NewRouter(deps, zerolog.Nop())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestLiveness(t *testing.T) {
	rec := get(t, nil, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReadiness(t *testing.T) {
	cases := []struct {
		name       string
		deps       map[string]ports.Pinger
		wantCode   int
		wantStatus string
	}{
		{
			name:       "all up",
			deps:       map[string]ports.Pinger{"directory": stubPinger{}, "session": stubPinger{}},
			wantCode:   http.StatusOK,
			wantStatus: "ok",
		},
		{
			name:       "session store down",
			deps:       map[string]ports.Pinger{"directory": stubPinger{}, "session": stubPinger{err: errors.New("dial tcp: refused")}},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "degraded",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := get(t, tc.deps, "/health/ready")
			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}
			var body readinessBody
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Status != tc.wantStatus {
				t.Errorf("expected status %q, got %q", tc.wantStatus, body.Status)
			}
			if len(body.Dependencies) != len(tc.deps) {
				t.Errorf("expected %d dependencies, got %d", len(tc.deps), len(body.Dependencies))
			}
		})
	}
}

type readinessBody struct {
	Status       string `json:"status"`
	Dependencies map[string]struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	} `json:"dependencies"`
}

func TestMetricsExposesDomainCounters(t *testing.T) {
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	rec := get(t, nil, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "crm_logins_total") {
		t.Fatal("expected crm_logins_total in metrics output")
	}
}
