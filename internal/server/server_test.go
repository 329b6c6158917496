package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"physics-engine/internal/metrics"
	"physics-engine/internal/physics"
	"physics-engine/internal/scene"
)

func newRunner(t *testing.T) (*Runner, *prometheus.Registry) {
	t.Helper()
	w, err := physics.NewWorld(physics.DefaultSettings())
	if err != nil {
		t.Fatal(err)
	}
	scn, err := scene.New(w, scene.Stack(3), nil)
	if err != nil {
		t.Fatal(err)
	}
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	scn.OnTick = m.Observe
	return NewRunner(scn), reg
}

func get(t *testing.T, ts *httptest.Server, path string, into any) int {
	t.Helper()
	resp, err := http.Get(ts.URL + path)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if into != nil {
		if err := json.NewDecoder(resp.Body).Decode(into); err != nil {
			t.Fatalf("%s: %v", path, err)
		}
	}
	return resp.StatusCode
}

func TestRoutes(t *testing.T) {
	run, reg := newRunner(t)
	n := run.Step(0.1)
	if n == 0 {
		t.Fatal("no ticks ran")
	}
	ts := httptest.NewServer(NewRouter(Config{Sim: run, Gatherer: reg, DisableLogging: true}))
	defer ts.Close()

	var snap Snapshot
	if code := get(t, ts, "/stats", &snap); code != http.StatusOK {
		t.Fatalf("/stats: status %d", code)
	}
	if snap.Scene != "stack" || snap.Tick != uint64(n) || snap.Stats.Bodies != 4 {
		t.Errorf("/stats: got %+v", snap)
	}

	var bodies []BodyState
	get(t, ts, "/bodies", &bodies)
	if len(bodies) != 4 || bodies[0].Type != "static" || bodies[1].Handle != 2 {
		t.Errorf("/bodies: got %+v", bodies)
	}

	var one BodyState
	if code := get(t, ts, "/bodies/3", &one); code != http.StatusOK || one.Handle != 3 {
		t.Errorf("/bodies/3: status %d body %+v", code, one)
	}
	if code := get(t, ts, "/bodies/99", nil); code != http.StatusNotFound {
		t.Errorf("/bodies/99: status %d", code)
	}
	if code := get(t, ts, "/bodies/x", nil); code != http.StatusBadRequest {
		t.Errorf("/bodies/x: status %d", code)
	}

	resp, err := http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), fmt.Sprintf("physics_ticks_total %d", n)) {
		t.Errorf("/metrics missing tick counter:\n%s", body)
	}

	resp, err = http.Post(ts.URL+"/reset", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if snap := run.Snapshot(); snap.Tick != 0 {
		t.Errorf("reset: world at tick %d", snap.Tick)
	}
}

func TestRunStopsWithContext(t *testing.T) {
	run, _ := newRunner(t)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	if err := run.Run(ctx, 5*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if run.Snapshot().Tick == 0 {
		t.Error("runner never ticked")
	}
}
