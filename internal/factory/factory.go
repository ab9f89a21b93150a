// Package factory wires the application: storage, services, the session
// coordinator, and the WebSocket hub, in the one place their dependency
// order matters.
package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/dependencies/clock"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/dependencies/random"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/services/lobby"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/services/match"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/services/registry"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/services/stats"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/storage"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/storage/memory"
	redisstorage "github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/storage/redis"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/web/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Registry    *registry.Registry
	Ledger      *stats.Ledger
	Lobby       *lobby.Broadcaster
	Coordinator *match.Coordinator
	Hub         *ws.Hub
	Dispatcher  *ws.Dispatcher
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	return newWithDependencies(store, clock.New(), random.New(), logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	// The hub and the coordinator reference each other: the hub pushes
	// inbound events into the coordinator, the coordinator pushes state
	// out through the hub. Build the hub first, attach the dispatcher last.
	hub := ws.NewHub(rnd, logger)

	reg := registry.New(logger)
	ledger := stats.NewLedger(store, clk, logger)
	lobbyBroadcaster := lobby.NewBroadcaster(store, hub, logger)
	coordinator := match.NewCoordinator(store, reg, ledger, lobbyBroadcaster, hub, clk, rnd, logger)
	dispatcher := ws.NewDispatcher(coordinator, logger)
	hub.SetHandler(dispatcher)

	return &App{
		Storage:     store,
		Clock:       clk,
		Random:      rnd,
		Registry:    reg,
		Ledger:      ledger,
		Lobby:       lobbyBroadcaster,
		Coordinator: coordinator,
		Hub:         hub,
		Dispatcher:  dispatcher,
	}
}
