package analytics

// Metric names a tracked performance metric. The string values double as
// JSON field values in comparison payloads.
type Metric string

const (
	MetricGPM         Metric = "gpm"
	MetricXPM         Metric = "xpm"
	MetricKDA         Metric = "kda"
	MetricCSPerMin    Metric = "cs_per_min"
	MetricHeroDamage  Metric = "hero_damage"
	MetricTowerDamage Metric = "tower_damage"
	MetricDeaths      Metric = "deaths"
	MetricLastHits    Metric = "last_hits"
	MetricTeamfight   Metric = "teamfight_participation"
)

// ComparedMetrics is the fixed list (and order) of metrics measured
// against role benchmarks.
var ComparedMetrics = []Metric{
	MetricGPM, MetricXPM, MetricKDA, MetricCSPerMin,
	MetricHeroDamage, MetricTowerDamage,
}

// BenchmarkTable maps role → metric → reference value. The table is
// injected into the comparator and insight generator so tests (and a
// future tuning pass) can substitute alternates; it is never mutated.
type BenchmarkTable map[Role]map[Metric]float64

// Value returns the reference for a role/metric pair, 0 when untracked.
func (t BenchmarkTable) Value(role Role, metric Metric) float64 {
	if m, ok := t[role]; ok {
		return m[metric]
	}
	return 0
}

// Verdict buckets shared by the comparator and the deterministic insight
// generator, so qualitative language stays consistent with the numbers.
const (
	VerdictExcellent        = "excellent"
	VerdictOnPar            = "on par"
	VerdictNeedsImprovement = "needs improvement"

	// Bucket cutoffs relative to the benchmark value.
	ExcellentFactor = 1.10
	OnParFactor     = 0.85
)

// VerdictFor buckets a player value against a benchmark. A zero benchmark
// (guarded, should not occur in the shipped table) reads as on par.
func VerdictFor(value, benchmark float64) string {
	if benchmark == 0 {
		return VerdictOnPar
	}
	switch {
	case value >= benchmark*ExcellentFactor:
		return VerdictExcellent
	case value >= benchmark*OnParFactor:
		return VerdictOnPar
	default:
		return VerdictNeedsImprovement
	}
}

// DefaultBenchmarks returns the shipped meta-standard table. Values are
// hand-tuned reference points for an average ranked match, not live
// population percentiles.
func DefaultBenchmarks() BenchmarkTable {
	return BenchmarkTable{
		RoleCarry: {
			MetricGPM:         550,
			MetricXPM:         600,
			MetricKDA:         3.5,
			MetricCSPerMin:    7.0,
			MetricHeroDamage:  25000,
			MetricTowerDamage: 6000,
		},
		RoleMid: {
			MetricGPM:         520,
			MetricXPM:         640,
			MetricKDA:         3.8,
			MetricCSPerMin:    6.5,
			MetricHeroDamage:  28000,
			MetricTowerDamage: 3500,
		},
		RoleOfflane: {
			MetricGPM:         420,
			MetricXPM:         520,
			MetricKDA:         3.0,
			MetricCSPerMin:    5.0,
			MetricHeroDamage:  22000,
			MetricTowerDamage: 2500,
		},
		RoleSupport: {
			MetricGPM:         300,
			MetricXPM:         380,
			MetricKDA:         3.2,
			MetricCSPerMin:    2.0,
			MetricHeroDamage:  12000,
			MetricTowerDamage: 1000,
		},
		RoleCore: {
			MetricGPM:         480,
			MetricXPM:         540,
			MetricKDA:         3.2,
			MetricCSPerMin:    6.0,
			MetricHeroDamage:  22000,
			MetricTowerDamage: 3000,
		},
	}
}
