package analytics

import (
	"math"
	"sort"

	"match-analytics-system/models"
)

// DifferentialMetrics is the fixed metric list (and tiebreak order) for
// win/loss contrast analysis.
var DifferentialMetrics = []Metric{
	MetricGPM, MetricXPM, MetricKDA, MetricHeroDamage,
	MetricTowerDamage, MetricDeaths, MetricLastHits, MetricTeamfight,
}

// Differential contrasts one metric's average across wins vs losses.
type Differential struct {
	Metric  Metric  `json:"metric"`
	WinAvg  float64 `json:"win_avg"`
	LossAvg float64 `json:"loss_avg"`
	Diff    float64 `json:"diff"`
	PctDiff float64 `json:"pct_diff"`
}

// WinConditions is the full win/loss differential analysis for one player.
// Available is false when the sample lacks a win or a loss; callers render
// that as an empty state, not an error.
type WinConditions struct {
	Available          bool           `json:"available"`
	Reason             string         `json:"reason,omitempty"`
	Wins               int            `json:"wins"`
	Losses             int            `json:"losses"`
	Differentials      []Differential `json:"differentials,omitempty"`
	KeyDifferentiators []Differential `json:"key_differentiators,omitempty"`
	ReplicationScore   float64        `json:"replication_score"`
}

const maxKeyDifferentiators = 3

// Observation is one match reduced to the differential metric values plus
// its outcome.
type Observation struct {
	Won    bool
	Values map[Metric]float64
}

// ObserveMatch reduces one full match record to a differential observation
// for the given player.
func ObserveMatch(m *models.Match, p *models.MatchPlayer) Observation {
	role := ClassifyRole(p.GoldPerMin, p.Kills, p.Assists, p.Deaths)
	d := Derive(p, m, role)
	return Observation{
		Won: m.Won(p.PlayerSlot),
		Values: map[Metric]float64{
			MetricGPM:         float64(p.GoldPerMin),
			MetricXPM:         float64(p.XPPerMin),
			MetricKDA:         d.KDA,
			MetricHeroDamage:  float64(p.HeroDamage),
			MetricTowerDamage: float64(p.TowerDamage),
			MetricDeaths:      float64(p.Deaths),
			MetricLastHits:    float64(p.LastHits),
			MetricTeamfight:   d.KillParticipationPct,
		},
	}
}

// AnalyzeWinConditions partitions observations by outcome, contrasts the
// per-group means for each tracked metric, ranks the differentiators, and
// blends a win-condition replication score.
func AnalyzeWinConditions(obs []Observation) WinConditions {
	var wins, losses []Observation
	for _, o := range obs {
		if o.Won {
			wins = append(wins, o)
		} else {
			losses = append(losses, o)
		}
	}

	out := WinConditions{Wins: len(wins), Losses: len(losses)}
	if len(wins) == 0 || len(losses) == 0 {
		out.Reason = "win-condition analysis needs at least one win and one loss in the sample window"
		return out
	}
	out.Available = true

	winAvg := groupMeans(wins)
	lossAvg := groupMeans(losses)

	out.Differentials = make([]Differential, 0, len(DifferentialMetrics))
	for _, metric := range DifferentialMetrics {
		d := Differential{
			Metric:  metric,
			WinAvg:  winAvg[metric],
			LossAvg: lossAvg[metric],
		}
		d.Diff = d.WinAvg - d.LossAvg
		if d.LossAvg != 0 {
			d.PctDiff = d.Diff / d.LossAvg * 100
		}
		out.Differentials = append(out.Differentials, d)
	}

	ranked := make([]Differential, len(out.Differentials))
	copy(ranked, out.Differentials)
	// Stable sort keeps the metric-list order as the tiebreak.
	sort.SliceStable(ranked, func(i, j int) bool {
		return math.Abs(ranked[i].PctDiff) > math.Abs(ranked[j].PctDiff)
	})
	if len(ranked) > maxKeyDifferentiators {
		ranked = ranked[:maxKeyDifferentiators]
	}
	out.KeyDifferentiators = ranked

	out.ReplicationScore = replicationScore(winAvg, lossAvg)
	return out
}

func groupMeans(group []Observation) map[Metric]float64 {
	means := make(map[Metric]float64, len(DifferentialMetrics))
	for _, o := range group {
		for _, metric := range DifferentialMetrics {
			means[metric] += o.Values[metric]
		}
	}
	n := float64(len(group))
	for metric := range means {
		means[metric] /= n
	}
	return means
}

// replicationScore blends how closely losses track wins on the four core
// inputs: 30% GPM ratio + 20% XPM ratio + 30% KDA ratio + 20% inverted
// deaths ratio, scaled to 0–100. Any zero input short-circuits to 0
// instead of propagating NaN.
func replicationScore(winAvg, lossAvg map[Metric]float64) float64 {
	gpmWin, xpmWin := winAvg[MetricGPM], winAvg[MetricXPM]
	kdaWin, deathsWin := winAvg[MetricKDA], winAvg[MetricDeaths]
	if gpmWin == 0 || xpmWin == 0 || kdaWin == 0 || deathsWin == 0 {
		return 0
	}
	score := 0.3*(lossAvg[MetricGPM]/gpmWin) +
		0.2*(lossAvg[MetricXPM]/xpmWin) +
		0.3*(lossAvg[MetricKDA]/kdaWin) +
		0.2*(1-lossAvg[MetricDeaths]/deathsWin)
	return score * 100
}
