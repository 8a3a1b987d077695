package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"match-analytics-system/analytics"
	"match-analytics-system/textgen"

	"github.com/gofiber/fiber/v2"
)

func analyticsApp(providerURL string) *fiber.App {
	client := &OpenDotaClient{
		BaseURL: providerURL,
		Client:  &http.Client{Timeout: 5 * time.Second},
	}
	svc := NewAnalyticsService(
		client,
		NewHeroDirectory(client),
		analytics.DefaultBenchmarks(),
		NewResponseCache(),
		textgen.NewChain(time.Second),
	)
	app := fiber.New()
	app.Get("/analysis/matches/:match_id", svc.GetMatchAnalysis)
	app.Get("/analysis/players/:account_id/meta", svc.GetPlayerMetaComparison)
	app.Get("/analysis/players/:account_id/win-conditions", svc.GetWinConditions)
	return app
}

func getJSONResponse(t *testing.T, app *fiber.App, path string) (*http.Response, map[string]interface{}) {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	raw, _ := io.ReadAll(resp.Body)
	var parsed map[string]interface{}
	_ = json.Unmarshal(raw, &parsed)
	return resp, parsed
}

// matchJSON is a two-team match where account 1 is a clear carry.
const matchJSON = `{
	"match_id": 7, "duration": 1800, "radiant_win": true,
	"players": [
		{"account_id": 1, "player_slot": 0, "hero_id": 1, "kills": 8, "deaths": 3,
		 "assists": 10, "last_hits": 120, "denies": 10, "gold_per_min": 600,
		 "xp_per_min": 660, "hero_damage": 24000, "tower_damage": 5000,
		 "net_worth": 5000, "gold_spent": 15000},
		{"account_id": 2, "player_slot": 1, "kills": 2, "assists": 4, "gold_per_min": 310},
		{"account_id": 3, "player_slot": 128, "kills": 5, "deaths": 6, "gold_per_min": 420}
	]
}`

func TestGetMatchAnalysis(t *testing.T) {
	var hits int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/matches/") {
			atomic.AddInt64(&hits, 1)
			fmt.Fprint(w, matchJSON)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	app := analyticsApp(srv.URL)
	resp, parsed := getJSONResponse(t, app, "/analysis/matches/7")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	players, _ := parsed["players"].([]interface{})
	if len(players) != 3 {
		t.Fatalf("players = %d, want 3", len(players))
	}
	first, _ := players[0].(map[string]interface{})
	if first["role"] != "carry" {
		t.Errorf("role = %v, want carry", first["role"])
	}
	if kda, _ := first["kda"].(float64); kda != 6.0 {
		t.Errorf("kda = %v, want 6.0", first["kda"])
	}
	if cs, _ := first["cs_per_min"].(float64); cs != 4.3 {
		t.Errorf("cs_per_min = %v, want 4.3 (rounded)", first["cs_per_min"])
	}
	// Hero directory not loaded: slug falls back to the ID form.
	if first["hero_slug"] != "hero-1" {
		t.Errorf("hero_slug = %v, want hero-1", first["hero_slug"])
	}
	if parsed["analysis_id"] == "" {
		t.Error("missing analysis_id")
	}

	// Second request must come from the cache.
	resp2, _ := getJSONResponse(t, app, "/analysis/matches/7")
	if resp2.StatusCode != http.StatusOK {
		t.Fatalf("cached status = %d, want 200", resp2.StatusCode)
	}
	if got := atomic.LoadInt64(&hits); got != 1 {
		t.Errorf("provider hits = %d, want 1 (response cached)", got)
	}
}

func TestGetMatchAnalysisBadID(t *testing.T) {
	app := analyticsApp("http://unused")
	resp, _ := getJSONResponse(t, app, "/analysis/matches/not-a-number")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestGetMatchAnalysisNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	app := analyticsApp(srv.URL)
	resp, _ := getJSONResponse(t, app, "/analysis/matches/99")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestUpstreamFailureNamesEntity(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	app := analyticsApp(srv.URL)
	tests := []struct {
		path   string
		entity string
	}{
		{"/analysis/matches/7", "match"},
		{"/analysis/players/1/meta", "player"},
		{"/analysis/players/1/win-conditions", "player match history"},
	}
	for _, tt := range tests {
		resp, parsed := getJSONResponse(t, app, tt.path)
		if resp.StatusCode != http.StatusBadGateway {
			t.Errorf("%s: status = %d, want 502", tt.path, resp.StatusCode)
		}
		msg, _ := parsed["error"].(string)
		if !strings.Contains(msg, tt.entity) {
			t.Errorf("%s: error %q does not name %q", tt.path, msg, tt.entity)
		}
	}
}

func TestWinConditionsAllWinsInsufficient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/recentMatches"):
			fmt.Fprint(w, `[
				{"match_id": 10, "player_slot": 0, "radiant_win": true, "duration": 1800},
				{"match_id": 11, "player_slot": 0, "radiant_win": true, "duration": 2000}
			]`)
		case strings.HasPrefix(r.URL.Path, "/api/matches/"):
			id := strings.TrimPrefix(r.URL.Path, "/api/matches/")
			fmt.Fprintf(w, `{"match_id": %s, "duration": 1800, "radiant_win": true,
				"players": [{"account_id": 42, "player_slot": 0, "kills": 5, "gold_per_min": 500}]}`, id)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	app := analyticsApp(srv.URL)
	resp, parsed := getJSONResponse(t, app, "/analysis/players/42/win-conditions")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200 (insufficiency is an empty state)", resp.StatusCode)
	}
	if available, _ := parsed["available"].(bool); available {
		t.Error("available = true, want false with zero losses")
	}
	if wins, _ := parsed["wins"].(float64); wins != 2 {
		t.Errorf("wins = %v, want 2", parsed["wins"])
	}
}

func TestPlayerMetaComparison(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/recentMatches"):
			// Ten solid carry games, all identical.
			rows := make([]string, 0, 10)
			for i := 0; i < 10; i++ {
				rows = append(rows, fmt.Sprintf(`{"match_id": %d, "player_slot": 0,
					"radiant_win": true, "duration": 1800, "kills": 9, "deaths": 3,
					"assists": 6, "last_hits": 210, "gold_per_min": 620,
					"xp_per_min": 700, "hero_damage": 26000, "tower_damage": 7000}`, 100+i))
			}
			fmt.Fprint(w, "["+strings.Join(rows, ",")+"]")
		case strings.HasSuffix(r.URL.Path, "/players/42"):
			fmt.Fprint(w, `{"profile": {"account_id": 42, "personaname": "tester"}, "rank_tier": 55}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	app := analyticsApp(srv.URL)
	resp, parsed := getJSONResponse(t, app, "/analysis/players/42/meta")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if parsed["role"] != "carry" {
		t.Errorf("role = %v, want carry", parsed["role"])
	}
	if conf, _ := parsed["role_confidence"].(float64); conf != 100 {
		t.Errorf("role_confidence = %v, want 100", parsed["role_confidence"])
	}
	comparisons, _ := parsed["comparisons"].([]interface{})
	if len(comparisons) != len(analytics.ComparedMetrics) {
		t.Errorf("comparisons = %d, want %d", len(comparisons), len(analytics.ComparedMetrics))
	}
}
