// Package registry maps live connections to registered display names.
package registry

import (
	"log/slog"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/model"
)

// MinNameLength is the minimum display name length after trimming
const MinNameLength = 2

// Registry tracks which display name each live connection holds. A name may
// be held by at most one live connection at a time; once that connection
// releases it (or disconnects), the name is free for reuse.
type Registry struct {
	mu     sync.RWMutex
	byConn map[model.ConnectionID]model.PlayerName
	byName map[model.PlayerName]model.ConnectionID
	logger *slog.Logger
}

// New creates an empty Registry
func New(logger *slog.Logger) *Registry {
	return &Registry{
		byConn: make(map[model.ConnectionID]model.PlayerName),
		byName: make(map[model.PlayerName]model.ConnectionID),
		logger: logger.With(slog.String("component", "registry")),
	}
}

// Register associates a display name with a connection. The raw name is
// trimmed; re-registering on the same connection replaces its prior name.
// Returns the canonical name, or ErrInvalidName / ErrNameInUse.
func (r *Registry) Register(connID model.ConnectionID, rawName string) (model.PlayerName, error) {
	trimmed := strings.TrimSpace(rawName)
	if utf8.RuneCountInString(trimmed) < MinNameLength {
		return "", model.ErrInvalidName
	}
	name := model.PlayerName(trimmed)

	r.mu.Lock()
	defer r.mu.Unlock()

	if holder, taken := r.byName[name]; taken && holder != connID {
		return "", model.ErrNameInUse
	}

	// Re-registration frees the connection's previous name
	if prev, ok := r.byConn[connID]; ok && prev != name {
		delete(r.byName, prev)
	}

	r.byConn[connID] = name
	r.byName[name] = connID

	r.logger.Info("player registered",
		slog.String("name", string(name)),
		slog.String("conn_id", string(connID)))

	return name, nil
}

// Resolve returns the display name held by a connection
func (r *Registry) Resolve(connID model.ConnectionID) (model.PlayerName, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.byConn[connID]
	return name, ok
}

// FindConnection returns the live connection holding a name. A false result
// is not an error; it means the player is currently unreachable.
func (r *Registry) FindConnection(name model.PlayerName) (model.ConnectionID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	connID, ok := r.byName[name]
	return connID, ok
}

// Release drops a connection's association on disconnect. Safe to call for
// connections that never registered.
func (r *Registry) Release(connID model.ConnectionID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name, ok := r.byConn[connID]
	if !ok {
		return
	}
	delete(r.byConn, connID)
	if r.byName[name] == connID {
		delete(r.byName, name)
	}

	r.logger.Info("player released",
		slog.String("name", string(name)),
		slog.String("conn_id", string(connID)))
}

// Count returns the number of registered live connections
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byConn)
}
