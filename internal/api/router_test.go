package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"pixel-plaza/internal/session"
	"pixel-plaza/internal/world"
)

// mockState is a fixed StateProvider for router tests.
type mockState struct {
	participants []session.Participant
	scores       []session.LeaderboardEntry
	fixture      *world.Fixture
}

func (m *mockState) Participants() []session.Participant   { return m.participants }
func (m *mockState) ParticipantCount() int                 { return len(m.participants) }
func (m *mockState) TopScores() []session.LeaderboardEntry { return m.scores }
func (m *mockState) WorldSnapshot() *world.Fixture         { return m.fixture }

func newTestServer(t *testing.T, state StateProvider) *httptest.Server {
	t.Helper()
	router := NewRouter(RouterConfig{
		State: state,
		RateLimitConfig: &RateLimitConfig{
			RequestsPerSecond: 1000,
			Burst:             1000,
		},
		DisableLogging: true,
	})
	ts := httptest.NewServer(router)
	t.Cleanup(ts.Close)
	return ts
}

func defaultMockState() *mockState {
	return &mockState{
		participants: []session.Participant{
			{ID: "c1", Name: "Alice", X: 100, Y: 200, Color: "#FF6B6B"},
			{ID: "c2", Name: "Bob", X: 300, Y: 400, Color: "#4ECDC4"},
		},
		scores: []session.LeaderboardEntry{
			{Name: "Alice", Score: 12, Time: 45, SubmittedAt: 1700000000000},
		},
		fixture: &world.Fixture{
			Trees:  []world.Object{{X: 10, Y: 10, Size: 50}},
			Rocks:  []world.Object{},
			Bushes: []world.Object{},
			Houses: []world.House{{X: 1500, Y: 1500, Size: 80, Game: &world.ArcadeGame}},
		},
	}
}

func getJSON(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp
}

// TestHealthEndpoint tests the liveness probe
func TestHealthEndpoint(t *testing.T) {
	ts := newTestServer(t, defaultMockState())

	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200, got %d", resp.StatusCode)
	}
}

// TestStateEndpoint tests the participants read view
func TestStateEndpoint(t *testing.T) {
	ts := newTestServer(t, defaultMockState())

	var body struct {
		Participants []session.Participant `json:"participants"`
		Count        int                   `json:"count"`
	}
	resp := getJSON(t, ts.URL+"/api/state", &body)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if body.Count != 2 || len(body.Participants) != 2 {
		t.Errorf("Expected 2 participants, got count=%d len=%d", body.Count, len(body.Participants))
	}
	if body.Participants[0].Name != "Alice" {
		t.Errorf("Expected Alice first, got %q", body.Participants[0].Name)
	}
}

// TestLeaderboardEndpoint tests the scores read view
func TestLeaderboardEndpoint(t *testing.T) {
	ts := newTestServer(t, defaultMockState())

	var top []session.LeaderboardEntry
	resp := getJSON(t, ts.URL+"/api/leaderboard", &top)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if len(top) != 1 || top[0].Name != "Alice" || top[0].Score != 12 {
		t.Errorf("Unexpected leaderboard %+v", top)
	}
}

// TestWorldEndpoint tests the fixture read view and its JSON shape
func TestWorldEndpoint(t *testing.T) {
	ts := newTestServer(t, defaultMockState())

	var f world.Fixture
	resp := getJSON(t, ts.URL+"/api/world", &f)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if len(f.Trees) != 1 || len(f.Houses) != 1 {
		t.Errorf("Unexpected fixture counts: %d trees, %d houses", len(f.Trees), len(f.Houses))
	}
	if f.Houses[0].Game == nil || f.Houses[0].Game.Type != "platformer" {
		t.Error("Arcade house should carry its mini-game descriptor")
	}
}

// TestWorldMapEndpoint tests the rendered minimap
func TestWorldMapEndpoint(t *testing.T) {
	ts := newTestServer(t, defaultMockState())

	resp, err := http.Get(ts.URL + "/api/world/map.png")
	if err != nil {
		t.Fatalf("GET /api/world/map.png: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("Expected image/png, got %q", ct)
	}
}

// TestRateLimitRejects tests that a tiny limit produces 429s
func TestRateLimitRejects(t *testing.T) {
	router := NewRouter(RouterConfig{
		State: defaultMockState(),
		RateLimitConfig: &RateLimitConfig{
			RequestsPerSecond: 1,
			Burst:             1,
		},
		DisableLogging: true,
	})
	ts := httptest.NewServer(router)
	defer ts.Close()

	// First request consumes the burst, second should be rejected.
	resp1, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET 1: %v", err)
	}
	resp1.Body.Close()
	resp2, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET 2: %v", err)
	}
	resp2.Body.Close()

	if resp1.StatusCode != http.StatusOK {
		t.Errorf("First request should pass, got %d", resp1.StatusCode)
	}
	if resp2.StatusCode != http.StatusTooManyRequests {
		t.Errorf("Second request should be limited, got %d", resp2.StatusCode)
	}
}

// TestConnLimiter tests the per-IP websocket cap bookkeeping
func TestConnLimiter(t *testing.T) {
	cl := NewConnLimiter(2)

	if !cl.Allow("1.2.3.4") || !cl.Allow("1.2.3.4") {
		t.Fatal("First two connections from an IP should be allowed")
	}
	if cl.Allow("1.2.3.4") {
		t.Error("Third connection from the same IP should be rejected")
	}
	if !cl.Allow("5.6.7.8") {
		t.Error("A different IP should not be affected")
	}

	cl.Release("1.2.3.4")
	if !cl.Allow("1.2.3.4") {
		t.Error("Release should free a slot")
	}
	if got := cl.Count("1.2.3.4"); got != 2 {
		t.Errorf("Expected count 2, got %d", got)
	}
}
