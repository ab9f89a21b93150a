package model

import "time"

// StatsRecord holds cumulative per-player results. Counters only ever grow;
// records are never deleted.
type StatsRecord struct {
	Name        PlayerName `json:"username"`
	GamesPlayed int        `json:"gamesPlayed"`
	Wins        int        `json:"wins"`
	Losses      int        `json:"losses"`
	Draws       int        `json:"draws"`
	WinRate     float64    `json:"winRate"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// NewStatsRecord returns a zeroed record for a player
func NewStatsRecord(name PlayerName, now time.Time) *StatsRecord {
	return &StatsRecord{Name: name, CreatedAt: now}
}

// Clone returns a copy independent of the original
func (s *StatsRecord) Clone() *StatsRecord {
	clone := *s
	return &clone
}

// RecalculateWinRate updates WinRate from the counters, as a percentage
// rounded to two decimal places.
func (s *StatsRecord) RecalculateWinRate() {
	if s.GamesPlayed == 0 {
		s.WinRate = 0
		return
	}
	rate := float64(s.Wins) / float64(s.GamesPlayed) * 100
	s.WinRate = float64(int(rate*100+0.5)) / 100
}
