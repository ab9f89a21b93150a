package redis

import (
	"fmt"

	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/model"
)

// Key prefix for all arena data
const keyPrefix = "ttt"

// matchKey returns the Redis key for a Match
func matchKey(id model.MatchID) string {
	return fmt.Sprintf("%s:match:%s", keyPrefix, id)
}

// matchIndexKey returns the Redis key for the SET of live match keys
func matchIndexKey() string {
	return fmt.Sprintf("%s:idx:matches", keyPrefix)
}

// statsKey returns the Redis key for a StatsRecord
func statsKey(name model.PlayerName) string {
	return fmt.Sprintf("%s:stats:%s", keyPrefix, name)
}

// statsIndexKey returns the Redis key for the SET of player names with stats
func statsIndexKey() string {
	return fmt.Sprintf("%s:idx:stats", keyPrefix)
}

// historyKey returns the Redis key for the match history LIST
func historyKey() string {
	return fmt.Sprintf("%s:history", keyPrefix)
}
