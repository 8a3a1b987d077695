package analytics

import (
	"math"
	"testing"

	"match-analytics-system/models"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

// makeMatch builds a match with one tracked player plus filler teammates
// and opponents so team-level metrics have something to aggregate.
func makeMatch(duration int, tracked models.MatchPlayer, teammateKills, enemyKills int) *models.Match {
	players := []models.MatchPlayer{tracked}
	for i := 0; i < 4; i++ {
		players = append(players, models.MatchPlayer{
			AccountID:  int64(100 + i),
			PlayerSlot: i + 1,
			Kills:      teammateKills,
		})
	}
	for i := 0; i < 5; i++ {
		players = append(players, models.MatchPlayer{
			AccountID:  int64(200 + i),
			PlayerSlot: 128 + i,
			Kills:      enemyKills,
		})
	}
	return &models.Match{
		MatchID:    1,
		Duration:   duration,
		RadiantWin: true,
		Players:    players,
	}
}

func TestKDAZeroDeathsFloorsToOne(t *testing.T) {
	got := KDARatio(7, 0, 5)
	if !almostEqual(got, 12.0) {
		t.Errorf("KDA with 0 deaths = %v, want 12.0 ((7+5)/1)", got)
	}
}

func TestCSPerMinuteGuardsDuration(t *testing.T) {
	if got := CSPerMinute(120, 10, 0); got != 0 {
		t.Errorf("CS/min with 0 duration = %v, want 0", got)
	}
	if got := CSPerMinute(120, 10, -60); got != 0 {
		t.Errorf("CS/min with negative duration = %v, want 0", got)
	}
}

func TestDeriveEndToEndExample(t *testing.T) {
	p := models.MatchPlayer{
		AccountID:  1,
		PlayerSlot: 0,
		Kills:      8,
		Deaths:     3,
		Assists:    10,
		GoldPerMin: 600,
		LastHits:   120,
		Denies:     10,
	}
	m := makeMatch(1800, p, 2, 3)

	role := ClassifyRole(p.GoldPerMin, p.Kills, p.Assists, p.Deaths)
	if role != RoleCarry {
		t.Fatalf("role = %v, want carry (gpm > 500)", role)
	}

	d := Derive(&p, m, role)
	if !almostEqual(d.KDA, 6.0) {
		t.Errorf("KDA = %v, want 6.0 ((8+10)/3)", d.KDA)
	}
	wantCS := 130.0 / 30.0
	if !almostEqual(d.CSPerMin, wantCS) {
		t.Errorf("CS/min = %v, want %v ((120+10)/(1800/60))", d.CSPerMin, wantCS)
	}
	if Round1(d.CSPerMin) != 4.3 {
		t.Errorf("display CS/min = %v, want 4.3", Round1(d.CSPerMin))
	}

	// Carry branch populates the impact score, support score stays 0.
	if d.CarryImpactScore == 0 {
		t.Error("carry impact score should be populated for a carry")
	}
	if d.SupportScore != 0 {
		t.Errorf("support score = %v, want 0 for a carry", d.SupportScore)
	}
}

func TestDamageEfficiencyZeroDeathsKeepsRawDamage(t *testing.T) {
	p := models.MatchPlayer{PlayerSlot: 0, HeroDamage: 18000, Deaths: 0, GoldPerMin: 400, Kills: 3, Assists: 2}
	m := makeMatch(1800, p, 1, 1)
	d := Derive(&p, m, RoleCore)
	if !almostEqual(d.DamageEfficiency, 18000) {
		t.Errorf("damage efficiency with 0 deaths = %v, want raw 18000", d.DamageEfficiency)
	}
}

func TestGoldUtilizationGuardsZeroDenominator(t *testing.T) {
	p := models.MatchPlayer{PlayerSlot: 0}
	m := makeMatch(1800, p, 0, 0)
	d := Derive(&p, m, RoleCore)
	if d.GoldUtilizationPct != 0 {
		t.Errorf("gold utilization with zero gold = %v, want 0", d.GoldUtilizationPct)
	}

	p2 := models.MatchPlayer{PlayerSlot: 0, GoldSpent: 15000, NetWorth: 5000}
	d2 := Derive(&p2, makeMatch(1800, p2, 0, 0), RoleCore)
	if !almostEqual(d2.GoldUtilizationPct, 75.0) {
		t.Errorf("gold utilization = %v, want 75", d2.GoldUtilizationPct)
	}
}

func TestKillParticipationUsesOwnTeam(t *testing.T) {
	p := models.MatchPlayer{AccountID: 1, PlayerSlot: 0, Kills: 4, Assists: 6}
	// Team kills: 4 (tracked) + 4×4 (teammates) = 20. Enemy kills differ.
	m := makeMatch(1800, p, 4, 9)
	d := Derive(&p, m, RoleCore)
	if !almostEqual(d.KillParticipationPct, 50.0) {
		t.Errorf("kill participation = %v, want 50 ((4+6)/20*100)", d.KillParticipationPct)
	}
}

func TestKillParticipationZeroTeamKills(t *testing.T) {
	p := models.MatchPlayer{AccountID: 1, PlayerSlot: 0, Assists: 0, Kills: 0}
	m := makeMatch(1800, p, 0, 5)
	d := Derive(&p, m, RoleCore)
	if d.KillParticipationPct != 0 {
		t.Errorf("kill participation with 0 team kills = %v, want 0", d.KillParticipationPct)
	}
}

func TestXPMGPMRatioGuardsZeroGPM(t *testing.T) {
	p := models.MatchPlayer{PlayerSlot: 0, XPPerMin: 500, GoldPerMin: 0}
	d := Derive(&p, makeMatch(1800, p, 0, 0), RoleCore)
	if d.XPMGPMRatio != 0 {
		t.Errorf("XPM/GPM with 0 GPM = %v, want 0", d.XPMGPMRatio)
	}
}

func TestSupportScoreOnlyInSupportBranch(t *testing.T) {
	p := models.MatchPlayer{
		AccountID:           2,
		PlayerSlot:          0,
		GoldPerMin:          280,
		Kills:               2,
		Assists:             15,
		ObserverWardsPlaced: 10,
		SentryWardsPlaced:   8,
		HeroHealing:         4000,
	}
	role := ClassifyRole(p.GoldPerMin, p.Kills, p.Assists, p.Deaths)
	if role != RoleSupport {
		t.Fatalf("role = %v, want support (gpm < 350, assists > kills)", role)
	}

	m := makeMatch(1800, p, 1, 1)
	d := Derive(&p, m, role)
	want := 10*2.0 + 8*1.5 + 15*3.0 + 4000/100.0
	if !almostEqual(d.SupportScore, want) {
		t.Errorf("support score = %v, want %v", d.SupportScore, want)
	}
	if d.CarryImpactScore != 0 {
		t.Errorf("carry impact score = %v, want 0 (not applicable for support)", d.CarryImpactScore)
	}
}

func TestCarryImpactScoreFormula(t *testing.T) {
	p := models.MatchPlayer{
		AccountID:   3,
		PlayerSlot:  0,
		GoldPerMin:  600,
		Kills:       8,
		Deaths:      2,
		Assists:     4,
		TowerDamage: 5000,
		HeroDamage:  20000,
	}
	m := makeMatch(2400, p, 1, 1)
	d := Derive(&p, m, RoleCarry)
	kda := (8.0 + 4.0) / 2.0
	want := 600*0.5 + 5000*0.3 + 20000*0.001 + kda*10
	if !almostEqual(d.CarryImpactScore, want) {
		t.Errorf("carry impact score = %v, want %v", d.CarryImpactScore, want)
	}
}

func TestDeriveZeroRecordIsTotal(t *testing.T) {
	var p models.MatchPlayer
	var m models.Match
	m.Players = []models.MatchPlayer{p}
	d := Derive(&p, &m, RoleCore)
	for name, v := range map[string]float64{
		"kda":      d.KDA,
		"cs":       d.CSPerMin,
		"dmg_eff":  d.DamageEfficiency,
		"gold_pct": d.GoldUtilizationPct,
		"kp":       d.KillParticipationPct,
		"xpm_gpm":  d.XPMGPMRatio,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("%s on zero record = %v, want finite", name, v)
		}
	}
}
