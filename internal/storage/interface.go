package storage

import (
	"context"

	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/model"
)

// Storage defines the interface for data persistence.
//
// Matches are held here so both backends see the same shape of state;
// live connection bookkeeping stays in the registry because it is
// meaningless across restarts.
type Storage interface {
	// Match operations
	SaveMatch(ctx context.Context, match *model.Match) error
	GetMatch(ctx context.Context, id model.MatchID) (*model.Match, error)
	DeleteMatch(ctx context.Context, id model.MatchID) error
	ListMatches(ctx context.Context) ([]*model.Match, error)

	// Stats operations
	UpsertStats(ctx context.Context, record *model.StatsRecord) error
	GetStats(ctx context.Context, name model.PlayerName) (*model.StatsRecord, error)
	ListStats(ctx context.Context) ([]*model.StatsRecord, error)

	// Match history operations
	AppendMatchSummary(ctx context.Context, summary *model.MatchSummary) error
	RecentMatchSummaries(ctx context.Context, limit int) ([]*model.MatchSummary, error)
}
