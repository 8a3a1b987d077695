// services/insight_service.go
package services

import (
	"errors"
	"log"

	"match-analytics-system/analytics"
	"match-analytics-system/textgen"

	"github.com/gofiber/fiber/v2"
)

// InsightService owns the insight endpoints: deterministic bulb insights
// computed purely from caller-supplied context, and generative feedback
// delegated to the text-generation fallback chain.
type InsightService struct {
	Benchmarks analytics.BenchmarkTable
	TextGen    *textgen.Chain
}

func NewInsightService(benchmarks analytics.BenchmarkTable, chain *textgen.Chain) *InsightService {
	return &InsightService{Benchmarks: benchmarks, TextGen: chain}
}

// Context tags the bulb endpoint accepts. Each tag names the context
// shape the caller must supply.
const bulbTagPlayerPerformance = "player-performance"

// BulbInsightRequest is the deterministic insight request body.
type BulbInsightRequest struct {
	ContextTag string                   `json:"context_tag"`
	Context    analytics.InsightContext `json:"context"`
}

// GetBulbInsights handles POST /insights/bulb. No upstream fetch happens:
// insights are computed purely from the supplied numeric context.
func (s *InsightService) GetBulbInsights(c *fiber.Ctx) error {
	var req BulbInsightRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.ContextTag != bulbTagPlayerPerformance {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "unknown context_tag: " + req.ContextTag,
		})
	}

	if req.Context.Matches < analytics.MinInsightSample {
		return c.JSON(fiber.Map{
			"available": false,
			"reason":    "insights need at least 10 matches of history",
			"insights":  []analytics.Insight{},
		})
	}

	insights := analytics.GenerateInsights(req.Context, s.Benchmarks)
	if insights == nil {
		insights = []analytics.Insight{}
	}
	return c.JSON(fiber.Map{
		"available": true,
		"insights":  insights,
	})
}

// GenerativeInsightRequest is the generative feedback request body.
type GenerativeInsightRequest struct {
	ElementType string                 `json:"element_type"`
	ElementID   string                 `json:"element_id"`
	Context     map[string]interface{} `json:"context"`
}

// GenerateInsight handles POST /insights/generate. Bad input fails before
// any provider call; provider exhaustion maps to 503 with a code that
// tells the caller whether anything was configured at all.
func (s *InsightService) GenerateInsight(c *fiber.Ctx) error {
	var req GenerativeInsightRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.ElementType == "" || req.ElementID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "element_type and element_id are required"})
	}
	if len(req.Context) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "context payload is required"})
	}

	system, user, err := textgen.BuildPrompt(req.ElementType, req.ElementID, req.Context)
	if err != nil {
		if errors.Is(err, textgen.ErrUnknownElement) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to build prompt"})
	}

	text, err := s.TextGen.Generate(c.Context(), system, user)
	if err != nil {
		log.Printf("❌ [TEXTGEN] generation failed for %s/%s: %v", req.ElementType, req.ElementID, err)
		if errors.Is(err, textgen.ErrNotConfigured) || errors.Is(err, textgen.ErrAllProvidersFailed) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "text generation unavailable",
				"code":  textgenErrorCode(err),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "text generation failed"})
	}

	return c.JSON(fiber.Map{
		"element_type": req.ElementType,
		"element_id":   req.ElementID,
		"text":         text,
	})
}
