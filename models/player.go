package models

// Profile is the subset of the provider's player record the analytics
// layer needs — everything else (avatars, MMR estimates, plus/minus
// flags) is UI concern and ignored at the ingestion boundary.
type Profile struct {
	Player struct {
		AccountID   int64  `json:"account_id"`
		PersonaName string `json:"personaname"`
	} `json:"profile"`
	RankTier int `json:"rank_tier"`
}

// RecentMatch is one row of a player's recent-match history. It carries
// enough telemetry to derive most metrics without a full match fetch;
// team-level numbers (kill participation) require the full Match.
type RecentMatch struct {
	MatchID    int64 `json:"match_id"`
	PlayerSlot int   `json:"player_slot"`
	RadiantWin bool  `json:"radiant_win"`
	Duration   int   `json:"duration"`
	StartTime  int64 `json:"start_time"`
	HeroID     int   `json:"hero_id"`

	Kills    int `json:"kills"`
	Deaths   int `json:"deaths"`
	Assists  int `json:"assists"`
	LastHits int `json:"last_hits"`

	GoldPerMin int `json:"gold_per_min"`
	XPPerMin   int `json:"xp_per_min"`

	HeroDamage  int `json:"hero_damage"`
	TowerDamage int `json:"tower_damage"`
	HeroHealing int `json:"hero_healing"`
}

// Won reports whether the player was on the winning side of this match.
func (r *RecentMatch) Won() bool {
	return (r.PlayerSlot < 128) == r.RadiantWin
}

// WinLoss is the provider's lifetime win/loss tally for a player.
type WinLoss struct {
	Win  int `json:"win"`
	Lose int `json:"lose"`
}
