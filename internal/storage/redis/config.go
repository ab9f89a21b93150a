package redis

import "time"

// Config holds Redis connection and behavior settings
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// MatchTTL bounds how long an abandoned match record can linger.
	// Stats and match history are kept without expiry.
	MatchTTL time.Duration

	// HistoryLimit caps the retained match history list
	HistoryLimit int
}

// DefaultConfig returns sensible defaults for Redis configuration
func DefaultConfig() Config {
	return Config{
		URL:          "redis://localhost:6379",
		PoolSize:     10,
		MinIdleConns: 2,
		MatchTTL:     24 * time.Hour,
		HistoryLimit: 100,
	}
}
