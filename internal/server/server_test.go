package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
	"github.com/nguyentantai21042004/minutes-flow/internal/metrics"
	"github.com/nguyentantai21042004/minutes-flow/internal/processor"
	"github.com/nguyentantai21042004/minutes-flow/internal/storage"
)

type stubStorage struct {
	storage.Storage
	stats storage.Stats
	err   error
}

func (s *stubStorage) Stats() (storage.Stats, error) {
	return s.stats, s.err
}

type stubTracker struct {
	runs []processor.Run
}

func (s *stubTracker) Active() []processor.Run { return s.runs }

func newTestServer(st *stubStorage, tr *stubTracker) *httptest.Server {
	srv := New(":0", st, tr, metrics.New(), logger.Nop())
	return httptest.NewServer(srv.Handler())
}

func TestEndpoints(t *testing.T) {
	st := &stubStorage{stats: storage.Stats{Root: "/out", TotalSummaries: 3}}
	tr := &stubTracker{runs: []processor.Run{{RunID: "r1", Path: "/in/a.txt", StartedAt: time.Unix(0, 0)}}}
	ts := newTestServer(st, tr)
	defer ts.Close()

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   string
	}{
		{"health", "/healthz", http.StatusOK, `"status":"ok"`},
		{"status", "/api/v1/status", http.StatusOK, `"total_summaries":3`},
		{"runs", "/api/v1/runs", http.StatusOK, `"run_id":"r1"`},
		{"metrics", "/metrics", http.StatusOK, "go_goroutines"},
		{"not found", "/nope", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(ts.URL + tt.path)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			body, err := io.ReadAll(resp.Body)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(string(body), tt.wantBody) {
				t.Errorf("body %q missing %q", body, tt.wantBody)
			}
		})
	}
}

func TestStatusInFlight(t *testing.T) {
	tr := &stubTracker{runs: []processor.Run{{RunID: "a"}, {RunID: "b"}}}
	ts := newTestServer(&stubStorage{}, tr)
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/v1/status")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body struct {
		InFlight int `json:"in_flight"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.InFlight != 2 {
		t.Errorf("in_flight = %d, want 2", body.InFlight)
	}
}

func TestStatusStorageError(t *testing.T) {
	ts := newTestServer(&stubStorage{err: errors.New("disk gone")}, &stubTracker{})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/v1/status")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
}

func TestRunsEmptyIsArray(t *testing.T) {
	ts := newTestServer(&stubStorage{}, &stubTracker{})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/v1/runs")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var runs []processor.Run
	if err := json.NewDecoder(resp.Body).Decode(&runs); err != nil {
		t.Fatal(err)
	}
	if runs == nil {
		t.Error("runs decoded as null, want []")
	}
}
