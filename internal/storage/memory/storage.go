package memory

import (
	"context"
	"sync"

	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/model"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/storage"
)

// maxSummaries caps the retained match history
const maxSummaries = 100

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	matches   map[model.MatchID]*model.Match
	stats     map[model.PlayerName]*model.StatsRecord
	summaries []*model.MatchSummary
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		matches: make(map[model.MatchID]*model.Match),
		stats:   make(map[model.PlayerName]*model.StatsRecord),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Match operations
//
// Records are cloned on the way in and out so callers on different
// goroutines never share a mutable record with the store, matching the
// isolation the redis backend gets from JSON round-trips.

func (s *Storage) SaveMatch(ctx context.Context, match *model.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches[match.ID] = match.Clone()
	return nil
}

func (s *Storage) GetMatch(ctx context.Context, id model.MatchID) (*model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	match, ok := s.matches[id]
	if !ok {
		return nil, model.ErrMatchNotFound
	}
	return match.Clone(), nil
}

func (s *Storage) DeleteMatch(ctx context.Context, id model.MatchID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.matches, id)
	return nil
}

func (s *Storage) ListMatches(ctx context.Context) ([]*model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	matches := make([]*model.Match, 0, len(s.matches))
	for _, match := range s.matches {
		matches = append(matches, match.Clone())
	}
	return matches, nil
}

// Stats operations

func (s *Storage) UpsertStats(ctx context.Context, record *model.StatsRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats[record.Name] = record.Clone()
	return nil
}

func (s *Storage) GetStats(ctx context.Context, name model.PlayerName) (*model.StatsRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.stats[name]
	if !ok {
		return nil, model.ErrStatsNotFound
	}
	return record.Clone(), nil
}

func (s *Storage) ListStats(ctx context.Context) ([]*model.StatsRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make([]*model.StatsRecord, 0, len(s.stats))
	for _, record := range s.stats {
		records = append(records, record.Clone())
	}
	return records, nil
}

// Match history operations

func (s *Storage) AppendMatchSummary(ctx context.Context, summary *model.MatchSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summaries = append([]*model.MatchSummary{summary}, s.summaries...)
	if len(s.summaries) > maxSummaries {
		s.summaries = s.summaries[:maxSummaries]
	}
	return nil
}

func (s *Storage) RecentMatchSummaries(ctx context.Context, limit int) ([]*model.MatchSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 || limit > len(s.summaries) {
		limit = len(s.summaries)
	}
	result := make([]*model.MatchSummary, limit)
	copy(result, s.summaries[:limit])
	return result, nil
}
