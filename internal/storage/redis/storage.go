package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/model"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Match operations

func (s *Storage) SaveMatch(ctx context.Context, match *model.Match) error {
	data, err := json.Marshal(match)
	if err != nil {
		return err
	}

	key := matchKey(match.ID)

	// Use pipeline for atomic save + index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, key, data, s.cfg.MatchTTL)
	pipe.SAdd(ctx, matchIndexKey(), string(match.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetMatch(ctx context.Context, id model.MatchID) (*model.Match, error) {
	data, err := s.client.Get(ctx, matchKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrMatchNotFound
		}
		return nil, err
	}

	var match model.Match
	if err := json.Unmarshal(data, &match); err != nil {
		return nil, err
	}
	return &match, nil
}

func (s *Storage) DeleteMatch(ctx context.Context, id model.MatchID) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, matchKey(id))
	pipe.SRem(ctx, matchIndexKey(), string(id))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) ListMatches(ctx context.Context) ([]*model.Match, error) {
	ids, err := s.client.SMembers(ctx, matchIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	matches := make([]*model.Match, 0, len(ids))
	for _, id := range ids {
		match, err := s.GetMatch(ctx, model.MatchID(id))
		if err != nil {
			if errors.Is(err, model.ErrMatchNotFound) {
				// Expired entry left a stale index member
				_ = s.client.SRem(ctx, matchIndexKey(), id).Err()
				continue
			}
			return nil, err
		}
		matches = append(matches, match)
	}
	return matches, nil
}

// Stats operations

func (s *Storage) UpsertStats(ctx context.Context, record *model.StatsRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	// Stats never expire
	pipe := s.client.Pipeline()
	pipe.Set(ctx, statsKey(record.Name), data, 0)
	pipe.SAdd(ctx, statsIndexKey(), string(record.Name))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetStats(ctx context.Context, name model.PlayerName) (*model.StatsRecord, error) {
	data, err := s.client.Get(ctx, statsKey(name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrStatsNotFound
		}
		return nil, err
	}

	var record model.StatsRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *Storage) ListStats(ctx context.Context) ([]*model.StatsRecord, error) {
	names, err := s.client.SMembers(ctx, statsIndexKey()).Result()
	if err != nil {
		return nil, err
	}

	records := make([]*model.StatsRecord, 0, len(names))
	for _, name := range names {
		record, err := s.GetStats(ctx, model.PlayerName(name))
		if err != nil {
			if errors.Is(err, model.ErrStatsNotFound) {
				continue
			}
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// Match history operations

func (s *Storage) AppendMatchSummary(ctx context.Context, summary *model.MatchSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.LPush(ctx, historyKey(), data)
	pipe.LTrim(ctx, historyKey(), 0, int64(s.cfg.HistoryLimit-1))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) RecentMatchSummaries(ctx context.Context, limit int) ([]*model.MatchSummary, error) {
	if limit <= 0 || limit > s.cfg.HistoryLimit {
		limit = s.cfg.HistoryLimit
	}

	rows, err := s.client.LRange(ctx, historyKey(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	summaries := make([]*model.MatchSummary, 0, len(rows))
	for _, row := range rows {
		var summary model.MatchSummary
		if err := json.Unmarshal([]byte(row), &summary); err != nil {
			return nil, err
		}
		summaries = append(summaries, &summary)
	}
	return summaries, nil
}
