// handlers/insights.go
package handlers

import (
	"match-analytics-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupInsightRoutes(app *fiber.App, insightService *services.InsightService) {
	app.Post("/insights/bulb", insightService.GetBulbInsights)
	app.Post("/insights/generate", insightService.GenerateInsight)
}
