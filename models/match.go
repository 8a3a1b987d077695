package models

// MatchPlayer is one player's stat line within one match, as returned by the
// match data provider. Every numeric field is plain (non-pointer) so that
// fields the provider omits decode to zero — downstream formulas can assume
// a fully populated, zero-defaulted record.
type MatchPlayer struct {
	AccountID  int64 `json:"account_id"`
	PlayerSlot int   `json:"player_slot"` // <128 = Radiant, otherwise Dire
	HeroID     int   `json:"hero_id"`

	Kills    int `json:"kills"`
	Deaths   int `json:"deaths"`
	Assists  int `json:"assists"`
	LastHits int `json:"last_hits"`
	Denies   int `json:"denies"`

	GoldPerMin int `json:"gold_per_min"`
	XPPerMin   int `json:"xp_per_min"`

	HeroDamage  int `json:"hero_damage"`
	TowerDamage int `json:"tower_damage"`
	HeroHealing int `json:"hero_healing"`

	NetWorth     int `json:"net_worth"`
	GoldSpent    int `json:"gold_spent"`
	BuybackCount int `json:"buyback_count"`

	ObserverWardsPlaced int `json:"obs_placed"`
	SentryWardsPlaced   int `json:"sen_placed"`
	ObserverKills       int `json:"observer_kills"`
	SentryKills         int `json:"sentry_kills"`
}

// IsRadiant reports which 5-player team the record's slot belongs to.
func (p *MatchPlayer) IsRadiant() bool {
	return p.PlayerSlot < 128
}

// Match is one full match record from the data provider. Immutable once
// fetched; the analytics pipeline never mutates it.
type Match struct {
	MatchID      int64         `json:"match_id"`
	Duration     int           `json:"duration"` // seconds
	RadiantWin   bool          `json:"radiant_win"`
	RadiantScore int           `json:"radiant_score"`
	DireScore    int           `json:"dire_score"`
	StartTime    int64         `json:"start_time"`
	GameMode     int           `json:"game_mode"`
	Players      []MatchPlayer `json:"players"`
}

// PlayerByAccount returns the stat line for the given account, or nil when
// the account did not play in this match (anonymous players decode to 0).
func (m *Match) PlayerByAccount(accountID int64) *MatchPlayer {
	for i := range m.Players {
		if m.Players[i].AccountID == accountID {
			return &m.Players[i]
		}
	}
	return nil
}

// TeamKills sums kills for the team the given slot belongs to.
func (m *Match) TeamKills(playerSlot int) int {
	radiant := playerSlot < 128
	total := 0
	for i := range m.Players {
		if m.Players[i].IsRadiant() == radiant {
			total += m.Players[i].Kills
		}
	}
	return total
}

// Won reports whether the player in the given slot was on the winning side.
func (m *Match) Won(playerSlot int) bool {
	return (playerSlot < 128) == m.RadiantWin
}
