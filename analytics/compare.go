package analytics

import (
	"math"
	"sort"

	"match-analytics-system/models"
)

// Comparison measures one metric against the role benchmark.
type Comparison struct {
	Metric      Metric  `json:"metric"`
	PlayerValue float64 `json:"player_value"`
	Benchmark   float64 `json:"benchmark"`
	Gap         float64 `json:"gap"`
	GapPct      float64 `json:"gap_pct"`
	Verdict     string  `json:"verdict"`
}

// MetaComparison is the full benchmark comparison for one player window.
type MetaComparison struct {
	Role             Role         `json:"role"`
	RoleConfidence   float64      `json:"role_confidence"`
	Comparisons      []Comparison `json:"comparisons"`
	ImprovementAreas []Comparison `json:"improvement_areas"`
}

// How many improvement areas the comparator surfaces.
const maxImprovementAreas = 3

// WeightedAverages computes duration-weighted metric averages over a
// recent-match window. Weighting by match length keeps a 20-minute stomp
// from counting as much as a 60-minute grind.
func WeightedAverages(rows []models.RecentMatch) map[Metric]float64 {
	avgs := make(map[Metric]float64, len(ComparedMetrics))
	var totalDur float64
	for i := range rows {
		r := &rows[i]
		dur := float64(r.Duration)
		if dur <= 0 {
			continue
		}
		totalDur += dur
		d := DeriveRecent(r)
		avgs[MetricGPM] += float64(r.GoldPerMin) * dur
		avgs[MetricXPM] += float64(r.XPPerMin) * dur
		avgs[MetricKDA] += d.KDA * dur
		avgs[MetricCSPerMin] += d.CSPerMin * dur
		avgs[MetricHeroDamage] += float64(r.HeroDamage) * dur
		avgs[MetricTowerDamage] += float64(r.TowerDamage) * dur
	}
	if totalDur == 0 {
		return avgs
	}
	for m := range avgs {
		avgs[m] /= totalDur
	}
	return avgs
}

// AggregateRole classifies the window as a whole from plain averages of
// the classifier inputs, and reports per-match agreement as confidence.
func AggregateRole(rows []models.RecentMatch) (Role, float64) {
	if len(rows) == 0 {
		return RoleCore, 0
	}
	var gpm, kills, assists, deaths int
	perMatch := make([]Role, 0, len(rows))
	for i := range rows {
		r := &rows[i]
		gpm += r.GoldPerMin
		kills += r.Kills
		assists += r.Assists
		deaths += r.Deaths
		perMatch = append(perMatch, ClassifyRole(r.GoldPerMin, r.Kills, r.Assists, r.Deaths))
	}
	n := len(rows)
	role := ClassifyRole(gpm/n, kills/n, assists/n, deaths/n)
	return role, RoleConfidence(perMatch, role)
}

// CompareToBenchmarks produces one Comparison per tracked metric plus the
// ranked improvement areas (largest negative gaps first, top 3).
func CompareToBenchmarks(avgs map[Metric]float64, role Role, confidence float64, table BenchmarkTable) MetaComparison {
	out := MetaComparison{
		Role:           role,
		RoleConfidence: confidence,
		Comparisons:    make([]Comparison, 0, len(ComparedMetrics)),
	}

	for _, metric := range ComparedMetrics {
		bench := table.Value(role, metric)
		value := avgs[metric]
		cmp := Comparison{
			Metric:      metric,
			PlayerValue: value,
			Benchmark:   bench,
			Gap:         value - bench,
			Verdict:     VerdictFor(value, bench),
		}
		if bench != 0 {
			cmp.GapPct = (value - bench) / bench * 100
		}
		out.Comparisons = append(out.Comparisons, cmp)
	}

	areas := make([]Comparison, 0, len(out.Comparisons))
	for _, cmp := range out.Comparisons {
		if cmp.GapPct < 0 {
			areas = append(areas, cmp)
		}
	}
	sort.SliceStable(areas, func(i, j int) bool {
		return math.Abs(areas[i].GapPct) > math.Abs(areas[j].GapPct)
	})
	if len(areas) > maxImprovementAreas {
		areas = areas[:maxImprovementAreas]
	}
	out.ImprovementAreas = areas

	return out
}
