// Package stats maintains per-player cumulative results.
package stats

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/dependencies/clock"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/model"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/storage"
)

// Ledger records match results and serves stats queries. Records are created
// lazily and counters only ever grow; recording exactly once per finished
// match is the caller's responsibility (guarded by the finished-state
// transition in the coordinator).
type Ledger struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// NewLedger creates a new stats Ledger
func NewLedger(storage storage.Storage, clk clock.Clock, logger *slog.Logger) *Ledger {
	return &Ledger{
		storage: storage,
		clock:   clk,
		logger:  logger.With(slog.String("component", "stats")),
	}
}

// Touch ensures a record exists for the player, creating a zeroed one if
// needed. Called on registration so stats queries for known names always
// resolve.
func (l *Ledger) Touch(ctx context.Context, name model.PlayerName) error {
	_, err := l.storage.GetStats(ctx, name)
	if err == nil {
		return nil
	}
	if !errors.Is(err, model.ErrStatsNotFound) {
		return err
	}
	return l.storage.UpsertStats(ctx, model.NewStatsRecord(name, l.clock.Now()))
}

// Get returns the player's record, zeroed if none exists yet
func (l *Ledger) Get(ctx context.Context, name model.PlayerName) (*model.StatsRecord, error) {
	record, err := l.storage.GetStats(ctx, name)
	if errors.Is(err, model.ErrStatsNotFound) {
		return model.NewStatsRecord(name, l.clock.Now()), nil
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// RecordResult applies one finished match to both participants' records:
// gamesPlayed always increments, and exactly one of wins/losses/draws does,
// based on each player's role relative to the winner.
func (l *Ledger) RecordResult(ctx context.Context, players []model.PlayerName, winner string) error {
	for _, name := range players {
		record, err := l.Get(ctx, name)
		if err != nil {
			return err
		}

		record.GamesPlayed++
		switch {
		case winner == model.WinnerDraw:
			record.Draws++
		case winner == string(name):
			record.Wins++
		default:
			record.Losses++
		}
		record.RecalculateWinRate()

		if err := l.storage.UpsertStats(ctx, record); err != nil {
			return err
		}
	}

	l.logger.Info("result recorded",
		slog.Any("players", players),
		slog.String("winner", winner))

	return nil
}

// Leaderboard returns players with at least one game, ordered by win rate
// then wins, capped at limit.
func (l *Ledger) Leaderboard(ctx context.Context, limit int) ([]*model.StatsRecord, error) {
	records, err := l.storage.ListStats(ctx)
	if err != nil {
		return nil, err
	}

	ranked := make([]*model.StatsRecord, 0, len(records))
	for _, record := range records {
		if record.GamesPlayed > 0 {
			ranked = append(ranked, record)
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].WinRate != ranked[j].WinRate {
			return ranked[i].WinRate > ranked[j].WinRate
		}
		if ranked[i].Wins != ranked[j].Wins {
			return ranked[i].Wins > ranked[j].Wins
		}
		return ranked[i].Name < ranked[j].Name
	})

	if limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return ranked, nil
}
