package services

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"match-analytics-system/analytics"
	"match-analytics-system/textgen"

	"github.com/gofiber/fiber/v2"
)

func insightApp(chain *textgen.Chain) *fiber.App {
	app := fiber.New()
	svc := NewInsightService(analytics.DefaultBenchmarks(), chain)
	app.Post("/insights/bulb", svc.GetBulbInsights)
	app.Post("/insights/generate", svc.GenerateInsight)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	payload, _ := io.ReadAll(resp.Body)
	var parsed map[string]interface{}
	_ = json.Unmarshal(payload, &parsed)
	return resp, parsed
}

func TestBulbUnknownContextTag(t *testing.T) {
	app := insightApp(textgen.NewChain(time.Second))
	resp, _ := postJSON(t, app, "/insights/bulb", BulbInsightRequest{
		ContextTag: "scoreboard",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestBulbInsufficientSample(t *testing.T) {
	app := insightApp(textgen.NewChain(time.Second))
	resp, parsed := postJSON(t, app, "/insights/bulb", BulbInsightRequest{
		ContextTag: "player-performance",
		Context:    analytics.InsightContext{Matches: 5},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200 (insufficiency is not an error)", resp.StatusCode)
	}
	if available, _ := parsed["available"].(bool); available {
		t.Error("available = true, want false below the minimum sample")
	}
	if parsed["reason"] == "" {
		t.Error("empty state must carry a reason")
	}
}

func TestBulbReturnsInsights(t *testing.T) {
	app := insightApp(textgen.NewChain(time.Second))
	resp, parsed := postJSON(t, app, "/insights/bulb", BulbInsightRequest{
		ContextTag: "player-performance",
		Context: analytics.InsightContext{
			Matches:           20,
			Role:              analytics.RoleCarry,
			OverallWinRatePct: 50,
			AvgDeaths:         9,
			HighDeathWinRate:  40,
			AvgCSPerMin:       4,
		},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	insights, _ := parsed["insights"].([]interface{})
	if len(insights) == 0 || len(insights) > 3 {
		t.Errorf("insights = %d, want between 1 and 3", len(insights))
	}
}

func TestGenerateNotConfigured(t *testing.T) {
	app := insightApp(textgen.NewChain(time.Second)) // no providers
	resp, parsed := postJSON(t, app, "/insights/generate", GenerativeInsightRequest{
		ElementType: textgen.ElementMatchSummary,
		ElementID:   "7",
		Context:     map[string]interface{}{"kda": 6.0},
	})
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
	if parsed["code"] != "textgen_not_configured" {
		t.Errorf("code = %v, want textgen_not_configured", parsed["code"])
	}
}

func TestGenerateUnknownElementType(t *testing.T) {
	app := insightApp(textgen.NewChain(time.Second))
	resp, _ := postJSON(t, app, "/insights/generate", GenerativeInsightRequest{
		ElementType: "scoreboard-banner",
		ElementID:   "7",
		Context:     map[string]interface{}{"kda": 6.0},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 (bad input beats provider errors)", resp.StatusCode)
	}
}

func TestGenerateMissingFields(t *testing.T) {
	app := insightApp(textgen.NewChain(time.Second))
	resp, _ := postJSON(t, app, "/insights/generate", GenerativeInsightRequest{
		ElementType: textgen.ElementMatchSummary,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

// stubProvider returns fixed text so the endpoint can be tested without a
// real provider behind it.
type stubProvider struct{ text string }

func (s stubProvider) Name() string { return "stub" }
func (s stubProvider) Generate(ctx context.Context, system, user string) (string, error) {
	return s.text, nil
}

func TestGenerateSuccess(t *testing.T) {
	chain := textgen.NewChain(time.Second, stubProvider{text: "Focus your farm."})
	app := insightApp(chain)
	resp, parsed := postJSON(t, app, "/insights/generate", GenerativeInsightRequest{
		ElementType: textgen.ElementImprovementArea,
		ElementID:   "cs_per_min",
		Context:     map[string]interface{}{"player_value": 4.1, "benchmark": 7.0},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if parsed["text"] != "Focus your farm." {
		t.Errorf("text = %v, want the provider reply", parsed["text"])
	}
}
