// Package lobby derives and publishes the open-games view.
package lobby

import (
	"context"
	"log/slog"
	"sort"

	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/model"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/storage"
)

// Publisher pushes events to connections. Implemented by the WebSocket hub.
type Publisher interface {
	SendTo(connID model.ConnectionID, event model.EventType, payload any)
	Broadcast(event model.EventType, payload any)
}

// Broadcaster turns the match set into the published lobby list. It only
// reads match state; all mutation belongs to the coordinator.
type Broadcaster struct {
	storage   storage.Storage
	publisher Publisher
	logger    *slog.Logger
}

// NewBroadcaster creates a lobby Broadcaster
func NewBroadcaster(storage storage.Storage, publisher Publisher, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		storage:   storage,
		publisher: publisher,
		logger:    logger.With(slog.String("component", "lobby")),
	}
}

// Snapshot returns the current lobby list: matches with an open seat,
// in a stable order. Matches mid-destruction (zero players) and matches
// already playing or finished are never published.
func (b *Broadcaster) Snapshot(ctx context.Context) ([]model.GameListing, error) {
	matches, err := b.storage.ListMatches(ctx)
	if err != nil {
		return nil, err
	}

	listings := make([]model.GameListing, 0, len(matches))
	for _, m := range matches {
		if m.Status != model.MatchStatusWaiting || len(m.Players) == 0 {
			continue
		}
		listings = append(listings, m.Listing())
	}

	// Random IDs carry no ordering, but a stable list keeps republished
	// snapshots comparable for clients and tests
	sort.Slice(listings, func(i, j int) bool {
		return listings[i].ID < listings[j].ID
	})
	return listings, nil
}

// PublishAll pushes the lobby list to every connection
func (b *Broadcaster) PublishAll(ctx context.Context) {
	listings, err := b.Snapshot(ctx)
	if err != nil {
		b.logger.Error("lobby snapshot failed", slog.String("error", err.Error()))
		return
	}
	b.publisher.Broadcast(model.EventGamesList, listings)
}

// PublishTo pushes the lobby list to one connection
func (b *Broadcaster) PublishTo(ctx context.Context, connID model.ConnectionID) {
	listings, err := b.Snapshot(ctx)
	if err != nil {
		b.logger.Error("lobby snapshot failed", slog.String("error", err.Error()))
		return
	}
	b.publisher.SendTo(connID, model.EventGamesList, listings)
}
