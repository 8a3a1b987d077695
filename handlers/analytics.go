// handlers/analytics.go
package handlers

import (
	"match-analytics-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupAnalyticsRoutes(app *fiber.App, analyticsService *services.AnalyticsService) {
	app.Get("/analysis/matches/:match_id", analyticsService.GetMatchAnalysis)
	app.Get("/analysis/players/:account_id/meta", analyticsService.GetPlayerMetaComparison)
	app.Get("/analysis/players/:account_id/win-conditions", analyticsService.GetWinConditions)
}
