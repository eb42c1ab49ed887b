package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dclough/roledash/internal/roles"
)

func testPlayers() []roles.Player {
	return []roles.Player{
		{
			Name: "Martin Ødegaard", Club: "Arsenal",
			CurrentAbility: 180, PotentialAbility: 185,
			ClusterID: 1, CoordX: 0.5, CoordY: -0.3,
			Memberships: []float64{0.2, 0.8},
			Attributes:  map[string]float64{"Pas": 1.8},
		},
		{
			Name: "Creator A", Club: "Club A",
			CurrentAbility: 150, PotentialAbility: 160,
			ClusterID: 1, CoordX: 0.6, CoordY: -0.3,
			Memberships: []float64{0.4, 0.6},
			Attributes:  map[string]float64{"Pas": 1.0},
		},
		{
			Name: "Anchor", Club: "Club C",
			CurrentAbility: 170, PotentialAbility: 175,
			ClusterID: 0, CoordX: 0.1, CoordY: 0.2,
			Memberships: []float64{0.9, 0.1},
			Attributes:  map[string]float64{"Tck": 1.9},
		},
	}
}

func newTestServer(t *testing.T, loader SnapshotLoader) *httptest.Server {
	t.Helper()
	snap := roles.NewSnapshot(testPlayers(), []roles.CentroidRow{
		{ClusterID: 0, Attr: "Tck", Z: 1.8},
		{ClusterID: 1, Attr: "Pas", Z: 1.4},
	}, []string{"Pas", "Tck"})

	ids := roles.DefaultIdentities()
	if loader == nil {
		loader = func() (*roles.Snapshot, error) { return snap, nil }
	}
	s := NewServer(roles.NewEngine(snap, ids), ids, loader, 10, 20)

	mux := http.NewServeMux()
	s.RegisterRoutes(mux)
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func getJSON(t *testing.T, url string, wantStatus int, out any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		t.Fatalf("GET %s status = %d, want %d", url, resp.StatusCode, wantStatus)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
}

func TestSearchEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)

	var body struct {
		Names []string `json:"names"`
	}
	getJSON(t, ts.URL+"/search?q=odeg", http.StatusOK, &body)
	if len(body.Names) != 1 || body.Names[0] != "Martin Ødegaard" {
		t.Errorf("search names = %v", body.Names)
	}

	// empty query is a valid request with an empty result
	getJSON(t, ts.URL+"/search?q=", http.StatusOK, &body)
	if len(body.Names) != 0 {
		t.Errorf("empty query names = %v, want []", body.Names)
	}

	// cluster filter drops players outside the set
	getJSON(t, ts.URL+"/search?q=a&clusters=0", http.StatusOK, &body)
	for _, n := range body.Names {
		if n != "Anchor" {
			t.Errorf("filtered search returned %q", n)
		}
	}
}

func TestPlayerCardEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)

	var card roles.PlayerCard
	getJSON(t, ts.URL+"/players/card?name=Martin+%C3%98degaard", http.StatusOK, &card)
	if card.ClusterID != 1 || len(card.Neighbors) != 1 {
		t.Errorf("card = %+v", card)
	}

	getJSON(t, ts.URL+"/players/card?name=Nobody", http.StatusNotFound, nil)
	getJSON(t, ts.URL+"/players/card", http.StatusBadRequest, nil)
}

func TestClusterReportEndpoint(t *testing.T) {
	ts := newTestServer(t, nil)

	var rep roles.ClusterReport
	getJSON(t, ts.URL+"/clusters/1/report", http.StatusOK, &rep)
	if rep.PlayerCount != 2 || rep.Name != "Final-Third Creator" {
		t.Errorf("report = %+v", rep)
	}

	getJSON(t, ts.URL+"/clusters/99/report", http.StatusNotFound, nil)
	getJSON(t, ts.URL+"/clusters/notanint/report", http.StatusBadRequest, nil)
}

func TestReloadSwapsSnapshot(t *testing.T) {
	fresh := roles.NewSnapshot(append(testPlayers(), roles.Player{
		Name: "New Signing", ClusterID: 0,
		Memberships: []float64{0.9, 0.1},
		Attributes:  map[string]float64{},
	}), nil, []string{"Pas", "Tck"})

	ts := newTestServer(t, func() (*roles.Snapshot, error) { return fresh, nil })

	resp, err := http.Post(ts.URL+"/reload", "application/json", strings.NewReader(""))
	if err != nil {
		t.Fatalf("POST /reload: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reload status = %d", resp.StatusCode)
	}

	var health struct {
		Players int `json:"players"`
	}
	getJSON(t, ts.URL+"/health", http.StatusOK, &health)
	if health.Players != 4 {
		t.Errorf("players after reload = %d, want 4", health.Players)
	}
}

func TestFrameRoundTrip(t *testing.T) {
	in := Frame{Type: "results", Query: "odeg", Names: []string{"Martin Ødegaard"}}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatal(err)
	}
	var out Frame
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}
	if out.Type != in.Type || out.Query != in.Query || len(out.Names) != 1 {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}
