// Package analytics derives secondary performance metrics from raw match
// telemetry, classifies in-match roles, and compares players against
// role benchmarks. Everything in this package is pure computation: inputs
// are owned per call, nothing is cached or mutated in place.
package analytics

import (
	"math"

	"match-analytics-system/models"
)

// DerivedMetrics holds the computed attributes for one player's stat line.
// Values are kept at full precision; use Round1 when serializing.
type DerivedMetrics struct {
	KDA                  float64
	CSPerMin             float64
	DamageEfficiency     float64
	GoldUtilizationPct   float64
	KillParticipationPct float64
	XPMGPMRatio          float64

	// Role-gated impact scores. Only the score matching the classified
	// role is populated; the other stays 0 and serializes as absent.
	SupportScore     float64
	CarryImpactScore float64
}

// Derive computes the full metric set for one player within one match.
// Every formula guards its denominator, so this is a total function:
// zero-defaulted records produce zeros, never NaN or a panic.
func Derive(p *models.MatchPlayer, m *models.Match, role Role) DerivedMetrics {
	d := DerivedMetrics{
		KDA:              KDARatio(p.Kills, p.Deaths, p.Assists),
		CSPerMin:         CSPerMinute(p.LastHits, p.Denies, m.Duration),
		DamageEfficiency: damageEfficiency(p.HeroDamage, p.Deaths),
		XPMGPMRatio:      xpmGpmRatio(p.XPPerMin, p.GoldPerMin),
	}

	if total := p.GoldSpent + p.NetWorth; total > 0 {
		d.GoldUtilizationPct = float64(p.GoldSpent) / float64(total) * 100
	}

	if teamKills := m.TeamKills(p.PlayerSlot); teamKills > 0 {
		d.KillParticipationPct = float64(p.Kills+p.Assists) / float64(teamKills) * 100
	}

	switch role {
	case RoleSupport:
		d.SupportScore = float64(p.ObserverWardsPlaced)*2 +
			float64(p.SentryWardsPlaced)*1.5 +
			float64(p.Assists)*3 +
			float64(p.HeroHealing)/100
	case RoleCarry:
		d.CarryImpactScore = float64(p.GoldPerMin)*0.5 +
			float64(p.TowerDamage)*0.3 +
			float64(p.HeroDamage)*0.001 +
			d.KDA*10
	}

	return d
}

// DeriveRecent computes the metrics available from a recent-match history
// row. Team-level metrics (kill participation) and economy metrics need
// the full match record and stay 0 here.
func DeriveRecent(r *models.RecentMatch) DerivedMetrics {
	return DerivedMetrics{
		KDA:              KDARatio(r.Kills, r.Deaths, r.Assists),
		CSPerMin:         CSPerMinute(r.LastHits, 0, r.Duration),
		DamageEfficiency: damageEfficiency(r.HeroDamage, r.Deaths),
		XPMGPMRatio:      xpmGpmRatio(r.XPPerMin, r.GoldPerMin),
	}
}

// KDARatio is (kills + assists) / deaths with deaths floored to 1.
func KDARatio(kills, deaths, assists int) float64 {
	d := deaths
	if d < 1 {
		d = 1
	}
	return float64(kills+assists) / float64(d)
}

// CSPerMinute is creep score (last hits + denies) per minute of match time.
func CSPerMinute(lastHits, denies, durationSec int) float64 {
	if durationSec <= 0 {
		return 0
	}
	return float64(lastHits+denies) / (float64(durationSec) / 60)
}

// damageEfficiency is hero damage per death; with zero deaths the raw
// damage is reported as-is rather than divided.
func damageEfficiency(heroDamage, deaths int) float64 {
	if deaths > 0 {
		return float64(heroDamage) / float64(deaths)
	}
	return float64(heroDamage)
}

func xpmGpmRatio(xpm, gpm int) float64 {
	if gpm == 0 {
		return 0
	}
	return float64(xpm) / float64(gpm)
}

// Round1 rounds to one decimal place for display. Comparison math always
// runs on the unrounded values.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
