// services/analytics_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"strconv"

	"match-analytics-system/analytics"
	"match-analytics-system/models"
	"match-analytics-system/textgen"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// AnalyticsService owns the fetch-then-analyze endpoints. All engine
// state (benchmarks) is injected and immutable; every request builds its
// own inputs and discards them.
type AnalyticsService struct {
	OpenDota   *OpenDotaClient
	Heroes     *HeroDirectory
	Benchmarks analytics.BenchmarkTable
	Cache      *ResponseCache
	TextGen    *textgen.Chain
}

func NewAnalyticsService(client *OpenDotaClient, heroes *HeroDirectory, benchmarks analytics.BenchmarkTable, cache *ResponseCache, chain *textgen.Chain) *AnalyticsService {
	return &AnalyticsService{
		OpenDota:   client,
		Heroes:     heroes,
		Benchmarks: benchmarks,
		Cache:      cache,
		TextGen:    chain,
	}
}

// PlayerOverview is one player's line in a match analysis response.
// Ratio fields are serialized already rounded to one decimal.
type PlayerOverview struct {
	AccountID int64  `json:"account_id"`
	HeroID    int    `json:"hero_id"`
	Hero      string `json:"hero"`
	HeroSlug  string `json:"hero_slug"`
	Team      string `json:"team"`
	Won       bool   `json:"won"`

	Role   analytics.Role `json:"role"`
	Rating string         `json:"rating"`

	Kills    int `json:"kills"`
	Deaths   int `json:"deaths"`
	Assists  int `json:"assists"`
	LastHits int `json:"last_hits"`
	Denies   int `json:"denies"`
	GPM      int `json:"gpm"`
	XPM      int `json:"xpm"`

	KDA                  float64 `json:"kda"`
	CSPerMin             float64 `json:"cs_per_min"`
	DamageEfficiency     float64 `json:"damage_efficiency"`
	GoldUtilizationPct   float64 `json:"gold_utilization_pct"`
	KillParticipationPct float64 `json:"kill_participation_pct"`
	XPMGPMRatio          float64 `json:"xpm_gpm_ratio"`
	SupportScore         float64 `json:"support_score,omitempty"`
	CarryImpactScore     float64 `json:"carry_impact_score,omitempty"`

	Recommendations []string `json:"recommendations"`
}

// TeamStats aggregates one side of a match.
type TeamStats struct {
	Won            bool    `json:"won"`
	Kills          int     `json:"kills"`
	AvgGPM         float64 `json:"avg_gpm"`
	AvgKDA         float64 `json:"avg_kda"`
	AvgHeroDamage  float64 `json:"avg_hero_damage"`
	AvgWardsPlaced float64 `json:"avg_wards_placed"`
}

// MatchAnalysisResponse is the full per-match overview payload.
type MatchAnalysisResponse struct {
	AnalysisID  string           `json:"analysis_id"`
	MatchID     int64            `json:"match_id"`
	DurationSec int              `json:"duration_sec"`
	RadiantWin  bool             `json:"radiant_win"`
	Players     []PlayerOverview `json:"players"`
	Radiant     TeamStats        `json:"radiant"`
	Dire        TeamStats        `json:"dire"`
}

// Role-specific recommendation strings for the match overview. Fixed
// deterministic text, keyed by classified role.
var roleRecommendations = map[analytics.Role][]string{
	analytics.RoleCarry: {
		"Protect your farm tempo: aim for above-benchmark CS/min before taking fights.",
		"Convert gold leads into tower damage — sieging wins games, net worth alone does not.",
	},
	analytics.RoleMid: {
		"Use level leads to rotate after each wave bounce.",
		"Keep XPM ahead of GPM-equivalent pace; mid falls off when experience stalls.",
	},
	analytics.RoleOfflane: {
		"Trade deaths only for objectives or multiple enemy cooldowns.",
		"Pressure the enemy carry's lane equilibrium early.",
	},
	analytics.RoleSupport: {
		"Keep observer wards on cooldown — vision score correlates with your wins.",
		"Stack camps between rotations to fund your cores.",
	},
	analytics.RoleCore: {
		"Tighten your farming pattern between fights.",
		"Match your item timings to the game's pace rather than a fixed build order.",
	},
}

// GetMatchAnalysis handles GET /analysis/matches/:match_id.
// Responses are cached for an hour: concluded matches are immutable.
func (s *AnalyticsService) GetMatchAnalysis(c *fiber.Ctx) error {
	matchID, err := strconv.ParseInt(c.Params("match_id"), 10, 64)
	if err != nil || matchID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid match id"})
	}

	cacheKey := fmt.Sprintf("match-analysis:%d", matchID)
	if cached := s.Cache.Get(cacheKey); cached != nil {
		return c.JSON(cached)
	}

	match, err := s.OpenDota.GetMatch(c.Context(), matchID)
	if err != nil {
		status, msg := upstreamStatus(err, "match")
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}

	resp := s.buildMatchAnalysis(match)
	s.Cache.Set(cacheKey, resp, MatchAnalysisTTL)
	return c.JSON(resp)
}

func (s *AnalyticsService) buildMatchAnalysis(match *models.Match) *MatchAnalysisResponse {
	resp := &MatchAnalysisResponse{
		AnalysisID:  uuid.NewString(),
		MatchID:     match.MatchID,
		DurationSec: match.Duration,
		RadiantWin:  match.RadiantWin,
		Players:     make([]PlayerOverview, 0, len(match.Players)),
	}

	for i := range match.Players {
		p := &match.Players[i]
		role := analytics.ClassifyRole(p.GoldPerMin, p.Kills, p.Assists, p.Deaths)
		derived := analytics.Derive(p, match, role)

		team := "dire"
		if p.IsRadiant() {
			team = "radiant"
		}

		overview := PlayerOverview{
			AccountID: p.AccountID,
			HeroID:    p.HeroID,
			Hero:      s.Heroes.Name(p.HeroID),
			HeroSlug:  s.Heroes.Slug(p.HeroID),
			Team:      team,
			Won:       match.Won(p.PlayerSlot),
			Role:      role,
			Rating:    s.ratePlayer(p, derived, role),
			Kills:     p.Kills,
			Deaths:    p.Deaths,
			Assists:   p.Assists,
			LastHits:  p.LastHits,
			Denies:    p.Denies,
			GPM:       p.GoldPerMin,
			XPM:       p.XPPerMin,

			KDA:                  analytics.Round1(derived.KDA),
			CSPerMin:             analytics.Round1(derived.CSPerMin),
			DamageEfficiency:     analytics.Round1(derived.DamageEfficiency),
			GoldUtilizationPct:   analytics.Round1(derived.GoldUtilizationPct),
			KillParticipationPct: analytics.Round1(derived.KillParticipationPct),
			XPMGPMRatio:          analytics.Round1(derived.XPMGPMRatio),
			SupportScore:         analytics.Round1(derived.SupportScore),
			CarryImpactScore:     analytics.Round1(derived.CarryImpactScore),

			Recommendations: roleRecommendations[role],
		}
		resp.Players = append(resp.Players, overview)
	}

	resp.Radiant = teamStats(match, true)
	resp.Dire = teamStats(match, false)
	return resp
}

// ratePlayer buckets the single-match performance against the role
// benchmarks using the shared verdict thresholds: the mean gap percent
// across compared metrics decides the bucket.
func (s *AnalyticsService) ratePlayer(p *models.MatchPlayer, derived analytics.DerivedMetrics, role analytics.Role) string {
	values := map[analytics.Metric]float64{
		analytics.MetricGPM:         float64(p.GoldPerMin),
		analytics.MetricXPM:         float64(p.XPPerMin),
		analytics.MetricKDA:         derived.KDA,
		analytics.MetricCSPerMin:    derived.CSPerMin,
		analytics.MetricHeroDamage:  float64(p.HeroDamage),
		analytics.MetricTowerDamage: float64(p.TowerDamage),
	}

	var meanGap float64
	counted := 0
	for metric, value := range values {
		bench := s.Benchmarks.Value(role, metric)
		if bench == 0 {
			continue
		}
		meanGap += (value - bench) / bench * 100
		counted++
	}
	if counted == 0 {
		return analytics.VerdictOnPar
	}
	meanGap /= float64(counted)

	switch {
	case meanGap >= (analytics.ExcellentFactor-1)*100:
		return analytics.VerdictExcellent
	case meanGap >= (analytics.OnParFactor-1)*100:
		return analytics.VerdictOnPar
	default:
		return analytics.VerdictNeedsImprovement
	}
}

func teamStats(match *models.Match, radiant bool) TeamStats {
	stats := TeamStats{Won: match.RadiantWin == radiant}
	count := 0
	var gpm, kda, damage, wards float64
	for i := range match.Players {
		p := &match.Players[i]
		if p.IsRadiant() != radiant {
			continue
		}
		count++
		stats.Kills += p.Kills
		gpm += float64(p.GoldPerMin)
		kda += analytics.KDARatio(p.Kills, p.Deaths, p.Assists)
		damage += float64(p.HeroDamage)
		wards += float64(p.ObserverWardsPlaced + p.SentryWardsPlaced)
	}
	if count > 0 {
		n := float64(count)
		stats.AvgGPM = analytics.Round1(gpm / n)
		stats.AvgKDA = analytics.Round1(kda / n)
		stats.AvgHeroDamage = analytics.Round1(damage / n)
		stats.AvgWardsPlaced = analytics.Round1(wards / n)
	}
	return stats
}

// ImprovementArea is one comparator output plus optional generated text.
type ImprovementArea struct {
	analytics.Comparison
	GeneratedInsight string `json:"generated_insight,omitempty"`
}

// MetaComparisonResponse is the profile meta-comparison payload.
type MetaComparisonResponse struct {
	AnalysisID       string                 `json:"analysis_id"`
	AccountID        int64                  `json:"account_id"`
	Persona          string                 `json:"persona,omitempty"`
	Matches          int                    `json:"matches"`
	Role             analytics.Role         `json:"role"`
	RoleConfidence   float64                `json:"role_confidence"`
	Comparisons      []analytics.Comparison `json:"comparisons"`
	ImprovementAreas []ImprovementArea      `json:"improvement_areas"`
	InsightError     string                 `json:"insight_error,omitempty"`
}

// GetPlayerMetaComparison handles GET /analysis/players/:account_id/meta.
// Pass ?include_insights=true to attach generated text per improvement
// area; generation failures degrade to insight_error, never a 5xx, since
// the deterministic payload is complete without them.
func (s *AnalyticsService) GetPlayerMetaComparison(c *fiber.Ctx) error {
	accountID, err := strconv.ParseInt(c.Params("account_id"), 10, 64)
	if err != nil || accountID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid account id"})
	}

	profile, err := s.OpenDota.GetProfile(c.Context(), accountID)
	if err != nil {
		status, msg := upstreamStatus(err, "player")
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}

	rows, err := s.OpenDota.GetRecentMatches(c.Context(), accountID)
	if err != nil {
		status, msg := upstreamStatus(err, "player match history")
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}
	if len(rows) == 0 {
		return c.JSON(fiber.Map{
			"available": false,
			"reason":    "no recent matches to analyze",
		})
	}

	role, confidence := analytics.AggregateRole(rows)
	avgs := analytics.WeightedAverages(rows)
	comparison := analytics.CompareToBenchmarks(avgs, role, confidence, s.Benchmarks)

	resp := &MetaComparisonResponse{
		AnalysisID:     uuid.NewString(),
		AccountID:      accountID,
		Persona:        profile.Player.PersonaName,
		Matches:        len(rows),
		Role:           comparison.Role,
		RoleConfidence: analytics.Round1(comparison.RoleConfidence * 100),
	}
	for _, cmp := range comparison.Comparisons {
		resp.Comparisons = append(resp.Comparisons, roundComparison(cmp))
	}
	for _, cmp := range comparison.ImprovementAreas {
		resp.ImprovementAreas = append(resp.ImprovementAreas, ImprovementArea{Comparison: roundComparison(cmp)})
	}

	if c.QueryBool("include_insights") {
		s.attachAreaInsights(c, resp)
	}

	return c.JSON(resp)
}

func (s *AnalyticsService) attachAreaInsights(c *fiber.Ctx, resp *MetaComparisonResponse) {
	for i := range resp.ImprovementAreas {
		area := &resp.ImprovementAreas[i]
		system, user, err := textgen.BuildPrompt(textgen.ElementImprovementArea, string(area.Metric), map[string]interface{}{
			"role":         resp.Role,
			"metric":       area.Metric,
			"player_value": area.PlayerValue,
			"benchmark":    area.Benchmark,
			"gap_pct":      area.GapPct,
		})
		if err != nil {
			resp.InsightError = err.Error()
			return
		}
		text, err := s.TextGen.Generate(c.Context(), system, user)
		if err != nil {
			resp.InsightError = textgenErrorCode(err)
			log.Printf("⚠️  [TEXTGEN] improvement-area insight failed: %v", err)
			return
		}
		area.GeneratedInsight = text
	}
}

// WinConditionsResponse is the win/loss differential payload.
type WinConditionsResponse struct {
	AnalysisID     string `json:"analysis_id"`
	AccountID      int64  `json:"account_id"`
	Window         int    `json:"window"`
	MatchesSkipped int    `json:"matches_skipped"`
	analytics.WinConditions
	GeneratedInsight string `json:"generated_insight,omitempty"`
	InsightError     string `json:"insight_error,omitempty"`
}

// GetWinConditions handles GET /analysis/players/:account_id/win-conditions.
// Full match details for the window are fan-out fetched; individual fetch
// failures degrade to skipped matches.
func (s *AnalyticsService) GetWinConditions(c *fiber.Ctx) error {
	accountID, err := strconv.ParseInt(c.Params("account_id"), 10, 64)
	if err != nil || accountID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid account id"})
	}

	rows, err := s.OpenDota.GetRecentMatches(c.Context(), accountID)
	if err != nil {
		status, msg := upstreamStatus(err, "player match history")
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}

	matchIDs := make([]int64, 0, len(rows))
	for _, r := range rows {
		matchIDs = append(matchIDs, r.MatchID)
	}
	matches, skipped := s.OpenDota.FetchMatches(c.Context(), matchIDs)

	obs := make([]analytics.Observation, 0, len(matches))
	for _, m := range matches {
		p := m.PlayerByAccount(accountID)
		if p == nil {
			skipped++
			continue
		}
		obs = append(obs, analytics.ObserveMatch(m, p))
	}

	result := analytics.AnalyzeWinConditions(obs)
	resp := &WinConditionsResponse{
		AnalysisID:     uuid.NewString(),
		AccountID:      accountID,
		Window:         len(rows),
		MatchesSkipped: skipped,
		WinConditions:  roundWinConditions(result),
	}

	if result.Available && c.QueryBool("include_insight") {
		system, user, perr := textgen.BuildPrompt(textgen.ElementWinConditions, fmt.Sprint(accountID), map[string]interface{}{
			"wins":                resp.Wins,
			"losses":              resp.Losses,
			"key_differentiators": resp.KeyDifferentiators,
			"replication_score":   resp.ReplicationScore,
		})
		if perr != nil {
			resp.InsightError = perr.Error()
		} else if text, gerr := s.TextGen.Generate(c.Context(), system, user); gerr != nil {
			resp.InsightError = textgenErrorCode(gerr)
			log.Printf("⚠️  [TEXTGEN] win-conditions insight failed: %v", gerr)
		} else {
			resp.GeneratedInsight = text
		}
	}

	return c.JSON(resp)
}

// roundComparison copies a comparison with display rounding applied.
// The engine's full-precision values never leave the process.
func roundComparison(cmp analytics.Comparison) analytics.Comparison {
	cmp.PlayerValue = analytics.Round1(cmp.PlayerValue)
	cmp.Gap = analytics.Round1(cmp.Gap)
	cmp.GapPct = analytics.Round1(cmp.GapPct)
	return cmp
}

func roundDifferential(d analytics.Differential) analytics.Differential {
	d.WinAvg = analytics.Round1(d.WinAvg)
	d.LossAvg = analytics.Round1(d.LossAvg)
	d.Diff = analytics.Round1(d.Diff)
	d.PctDiff = analytics.Round1(d.PctDiff)
	return d
}

func roundWinConditions(w analytics.WinConditions) analytics.WinConditions {
	for i, d := range w.Differentials {
		w.Differentials[i] = roundDifferential(d)
	}
	for i, d := range w.KeyDifferentiators {
		w.KeyDifferentiators[i] = roundDifferential(d)
	}
	w.ReplicationScore = analytics.Round1(w.ReplicationScore)
	return w
}

// upstreamStatus maps a provider error to an HTTP status: 404 when the
// primary entity is missing, 502 for everything else upstream.
func upstreamStatus(err error, entity string) (int, string) {
	if errors.Is(err, ErrNotFound) {
		return fiber.StatusNotFound, entity + " not found"
	}
	return fiber.StatusBadGateway, "failed to fetch " + entity + " from match data provider"
}

// textgenErrorCode distinguishes not-configured from configured-but-failing.
func textgenErrorCode(err error) string {
	if errors.Is(err, textgen.ErrNotConfigured) {
		return "textgen_not_configured"
	}
	return "textgen_failed"
}
