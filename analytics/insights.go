package analytics

import "fmt"

// InsightTag classifies a deterministic insight. Tag order doubles as
// display priority: risks first, then bottlenecks, then strengths.
type InsightTag string

const (
	TagRisk       InsightTag = "risk"
	TagBottleneck InsightTag = "bottleneck"
	TagStrength   InsightTag = "strength"
)

// Insight is one short template-generated feedback string. Insights are
// produced per request and never persisted.
type Insight struct {
	Tag  InsightTag `json:"tag"`
	Text string     `json:"text"`
}

const (
	// MinInsightSample is the minimum match count before bulb insights
	// are offered at all.
	MinInsightSample = 10

	maxInsights       = 3
	insightCharBudget = 140
)

// InsightContext is the caller-supplied numeric context the bulb rules
// evaluate against. No upstream fetch happens here.
type InsightContext struct {
	Matches            int     `json:"matches"`
	Role               Role    `json:"role"`
	OverallWinRatePct  float64 `json:"overall_win_rate_pct"`
	AvgDeaths          float64 `json:"avg_deaths"`
	HighDeathWinRate   float64 `json:"high_death_win_rate_pct"`
	AvgCSPerMin        float64 `json:"avg_cs_per_min"`
	AvgGoldUtilization float64 `json:"avg_gold_utilization_pct"`
	AvgKDA             float64 `json:"avg_kda"`
	AvgWardsPlaced     float64 `json:"avg_wards_placed"`
	AvgHeroDamage      float64 `json:"avg_hero_damage"`
}

type insightRule struct {
	tag   InsightTag
	apply func(ctx InsightContext, table BenchmarkTable) (string, bool)
}

// Each rule independently yields zero or one insight. Rules are grouped by
// tag so the risk > bottleneck > strength ordering falls out of iteration.
var insightRules = []insightRule{
	{TagRisk, func(ctx InsightContext, _ BenchmarkTable) (string, bool) {
		if ctx.AvgDeaths >= 8 && ctx.HighDeathWinRate <= ctx.OverallWinRatePct-5 {
			return fmt.Sprintf("Dying %.1f times per game on average — your win rate drops to %.0f%% in those matches vs %.0f%% overall. Pick safer fights.",
				ctx.AvgDeaths, ctx.HighDeathWinRate, ctx.OverallWinRatePct), true
		}
		return "", false
	}},
	{TagBottleneck, func(ctx InsightContext, table BenchmarkTable) (string, bool) {
		bench := table.Value(ctx.Role, MetricCSPerMin)
		if bench > 0 && ctx.AvgCSPerMin < bench*OnParFactor {
			return fmt.Sprintf("Farm is your bottleneck: %.1f CS/min against a %.1f %s standard. Prioritize lane equilibrium and camp stacking.",
				ctx.AvgCSPerMin, bench, ctx.Role), true
		}
		return "", false
	}},
	{TagBottleneck, func(ctx InsightContext, _ BenchmarkTable) (string, bool) {
		if ctx.AvgGoldUtilization > 0 && ctx.AvgGoldUtilization < 60 {
			return fmt.Sprintf("Only %.0f%% of your gold gets spent — unspent gold wins nothing. Buy on cooldown.",
				ctx.AvgGoldUtilization), true
		}
		return "", false
	}},
	{TagStrength, func(ctx InsightContext, _ BenchmarkTable) (string, bool) {
		if ctx.Role == RoleSupport && ctx.AvgWardsPlaced >= 12 {
			return fmt.Sprintf("Vision is a real strength: %.1f wards per game keeps your cores playing in safety.",
				ctx.AvgWardsPlaced), true
		}
		return "", false
	}},
	{TagStrength, func(ctx InsightContext, table BenchmarkTable) (string, bool) {
		bench := table.Value(ctx.Role, MetricHeroDamage)
		if bench > 0 && ctx.AvgHeroDamage >= bench*ExcellentFactor {
			return fmt.Sprintf("Hero damage well above the %s standard (%.0f vs %.0f) — keep taking those fights.",
				ctx.Role, ctx.AvgHeroDamage, bench), true
		}
		return "", false
	}},
	{TagStrength, func(ctx InsightContext, table BenchmarkTable) (string, bool) {
		bench := table.Value(ctx.Role, MetricKDA)
		if bench > 0 && ctx.AvgKDA >= bench*ExcellentFactor {
			return fmt.Sprintf("KDA of %.1f is excellent for a %s — your fight selection is paying off.",
				ctx.AvgKDA, ctx.Role), true
		}
		return "", false
	}},
}

// GenerateInsights evaluates the full rule set against the supplied
// context. It never fails: below the minimum sample, or with no qualifying
// rules, it returns an empty list. At most 3 insights come back, ordered
// risk > bottleneck > strength, each capped to the display budget.
func GenerateInsights(ctx InsightContext, table BenchmarkTable) []Insight {
	if ctx.Matches < MinInsightSample {
		return nil
	}

	var out []Insight
	for _, rule := range insightRules {
		if len(out) == maxInsights {
			break
		}
		if text, ok := rule.apply(ctx, table); ok {
			out = append(out, Insight{Tag: rule.tag, Text: truncateInsight(text)})
		}
	}
	return out
}

func truncateInsight(text string) string {
	runes := []rune(text)
	if len(runes) <= insightCharBudget {
		return text
	}
	return string(runes[:insightCharBudget-1]) + "…"
}
