// Package match implements the session coordinator: the state machine that
// owns all match and stats mutation.
package match

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/dependencies/clock"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/dependencies/random"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/model"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/services/board"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/services/lobby"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/services/registry"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/services/stats"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/storage"
)

const (
	// MatchIDLength is the length of generated match IDs
	MatchIDLength = 12
	// MatchIDAlphabet is the characters used in match IDs
	MatchIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Pusher delivers events to connections. Implemented by the WebSocket hub.
// Delivery is best-effort: a recipient that cannot be reached never blocks
// or rolls back an applied state change.
type Pusher interface {
	SendTo(connID model.ConnectionID, event model.EventType, payload any)
	Broadcast(event model.EventType, payload any)
}

// Coordinator is the single authority over match lifecycle: creation,
// joining, moves, departures, rematch negotiation, and chat relay. Every
// operation validates fully before mutating anything, and all operations
// are serialized by one mutex so no transition can observe a match
// mid-change.
type Coordinator struct {
	mu sync.Mutex

	storage  storage.Storage
	registry *registry.Registry
	ledger   *stats.Ledger
	lobby    *lobby.Broadcaster
	pusher   Pusher
	clock    clock.Clock
	random   random.Random
	logger   *slog.Logger
}

// NewCoordinator creates a session Coordinator
func NewCoordinator(
	storage storage.Storage,
	reg *registry.Registry,
	ledger *stats.Ledger,
	lobbyBroadcaster *lobby.Broadcaster,
	pusher Pusher,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *Coordinator {
	return &Coordinator{
		storage:  storage,
		registry: reg,
		ledger:   ledger,
		lobby:    lobbyBroadcaster,
		pusher:   pusher,
		clock:    clk,
		random:   rnd,
		logger:   logger.With(slog.String("component", "coordinator")),
	}
}

// Register associates a display name with a connection, seeds the player's
// stats record, and sends the caller a confirmation plus the current lobby.
func (c *Coordinator) Register(ctx context.Context, connID model.ConnectionID, rawName string) (model.PlayerName, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	name, err := c.registry.Register(connID, rawName)
	if err != nil {
		return "", err
	}

	if err := c.ledger.Touch(ctx, name); err != nil {
		c.logger.Error("failed to seed stats record",
			slog.String("name", string(name)),
			slog.String("error", err.Error()))
	}

	c.pusher.SendTo(connID, model.EventRegistered, model.RegisteredPayload{Username: name})
	c.lobby.PublishTo(ctx, connID)
	return name, nil
}

// CreateMatch opens a new waiting match hosted by the caller
func (c *Coordinator) CreateMatch(ctx context.Context, connID model.ConnectionID, desiredName string) (*model.Match, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	creator, ok := c.registry.Resolve(connID)
	if !ok {
		return nil, model.ErrNotRegistered
	}

	name := strings.TrimSpace(desiredName)
	if name == "" {
		name = fmt.Sprintf("%s's Game", creator)
	}

	now := c.clock.Now()
	m := &model.Match{
		ID:           model.MatchID(c.random.String(MatchIDLength, MatchIDAlphabet)),
		Name:         name,
		Host:         creator,
		Status:       model.MatchStatusWaiting,
		Players:      []model.PlayerName{creator},
		Turn:         model.SymbolX,
		RematchVotes: make(map[model.PlayerName]bool),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := c.storage.SaveMatch(ctx, m); err != nil {
		return nil, err
	}

	c.logger.Info("match created",
		slog.String("match_id", string(m.ID)),
		slog.String("name", m.Name),
		slog.String("host", string(creator)))

	c.pusher.SendTo(connID, model.EventMatchCreated, m.State())
	c.lobby.PublishAll(ctx)
	return m, nil
}

// JoinMatch seats the caller as the second participant and starts play
func (c *Coordinator) JoinMatch(ctx context.Context, connID model.ConnectionID, matchID model.MatchID) (*model.Match, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	joiner, ok := c.registry.Resolve(connID)
	if !ok {
		return nil, model.ErrNotRegistered
	}

	m, err := c.storage.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if m.HasPlayer(joiner) {
		return nil, model.ErrAlreadyInMatch
	}
	if m.IsFull() {
		return nil, model.ErrMatchFull
	}

	m.Players = append(m.Players, joiner)
	m.Status = model.MatchStatusPlaying
	m.ResetBoard()
	m.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveMatch(ctx, m); err != nil {
		return nil, err
	}

	c.logger.Info("match started",
		slog.String("match_id", string(m.ID)),
		slog.String("joiner", string(joiner)))

	state := m.State()
	c.sendToParticipants(m, model.EventMatchStarted, state)
	c.sendToParticipants(m, model.EventPlayerJoined, model.PlayerJoinedPayload{
		Player: joiner,
		Match:  state,
	})
	c.sendTurnUpdates(m)
	c.lobby.PublishAll(ctx)
	return m, nil
}

// ApplyMove validates and applies one move. All checks run before any
// mutation; a rejected move leaves the match untouched.
func (c *Coordinator) ApplyMove(ctx context.Context, connID model.ConnectionID, matchID model.MatchID, cellIndex int) (*model.Match, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	mover, ok := c.registry.Resolve(connID)
	if !ok {
		return nil, model.ErrNotRegistered
	}

	m, err := c.storage.GetMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}

	symbol, isPlayer := m.SymbolFor(mover)
	if !isPlayer {
		return nil, model.ErrNotParticipant
	}
	if m.Status != model.MatchStatusPlaying {
		return nil, model.ErrMatchNotActive
	}
	if m.Turn != symbol {
		return nil, model.ErrNotYourTurn
	}
	if !m.Board.InBounds(cellIndex) {
		return nil, model.ErrInvalidCellIndex
	}
	if !m.Board.IsEmptyCell(cellIndex) {
		return nil, model.ErrCellOccupied
	}

	m.Board[cellIndex] = symbol

	result := board.Evaluate(m.Board)
	finished := result.Outcome != board.OutcomeNone
	if finished {
		m.Status = model.MatchStatusFinished
		switch result.Outcome {
		case board.OutcomeWin:
			winner, _ := m.PlayerFor(result.Winner)
			m.Winner = string(winner)
			m.WinningLine = result.Line[:]
		case board.OutcomeDraw:
			m.Winner = model.WinnerDraw
		}
	} else {
		m.Turn = m.Turn.Other()
	}
	m.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveMatch(ctx, m); err != nil {
		return nil, err
	}

	c.logger.Info("move applied",
		slog.String("match_id", string(m.ID)),
		slog.String("player", string(mover)),
		slog.Int("cell", cellIndex),
		slog.Bool("finished", finished))

	c.sendToParticipants(m, model.EventMoveMade, model.MoveMadePayload{
		CellIndex:   cellIndex,
		Symbol:      symbol,
		Board:       m.Board.Cells(),
		Turn:        m.Turn,
		Status:      m.Status,
		GameOver:    finished,
		Winner:      m.Winner,
		WinningLine: m.WinningLine,
	})

	if finished {
		// The playing->finished transition happens exactly once per game,
		// so stats are recorded exactly once
		c.recordCompletion(ctx, m)
	} else {
		c.sendTurnUpdates(m)
	}
	c.lobby.PublishAll(ctx)
	return m, nil
}

// LeaveMatch removes the caller from a match. The last participant out
// destroys the match; otherwise the remaining player is returned to a fresh
// waiting state.
func (c *Coordinator) LeaveMatch(ctx context.Context, connID model.ConnectionID, matchID model.MatchID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	leaver, ok := c.registry.Resolve(connID)
	if !ok {
		return model.ErrNotRegistered
	}

	m, err := c.storage.GetMatch(ctx, matchID)
	if err != nil {
		return err
	}
	if !m.HasPlayer(leaver) {
		return model.ErrNotParticipant
	}

	if err := c.removePlayer(ctx, m, leaver, model.LeaveReasonLeft); err != nil {
		return err
	}
	c.lobby.PublishAll(ctx)
	return nil
}

// HandleDisconnect cleans up after a dropped connection: the identity is
// released and the player is removed from any match, as if they had left.
// Safe to call twice; the second call finds nothing to clean up.
func (c *Coordinator) HandleDisconnect(ctx context.Context, connID model.ConnectionID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	name, ok := c.registry.Resolve(connID)
	c.registry.Release(connID)
	if !ok {
		return
	}

	matches, err := c.storage.ListMatches(ctx)
	if err != nil {
		c.logger.Error("disconnect cleanup failed to list matches",
			slog.String("error", err.Error()))
		return
	}

	removed := false
	for _, m := range matches {
		if !m.HasPlayer(name) {
			continue
		}
		if err := c.removePlayer(ctx, m, name, model.LeaveReasonDisconnected); err != nil {
			c.logger.Error("disconnect cleanup failed",
				slog.String("match_id", string(m.ID)),
				slog.String("error", err.Error()))
		}
		removed = true
	}

	c.logger.Info("connection cleaned up",
		slog.String("name", string(name)),
		slog.Bool("in_match", removed))

	c.lobby.PublishAll(ctx)
}

// RequestRematch records the caller's rematch vote on a finished match.
// Both participants must vote (and be reachable) before the board resets.
func (c *Coordinator) RequestRematch(ctx context.Context, connID model.ConnectionID, matchID model.MatchID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.voteRematch(ctx, connID, matchID, false)
}

// AcceptRematch is the second half of the handshake: it requires a pending
// offer from the opponent and then completes the reset.
func (c *Coordinator) AcceptRematch(ctx context.Context, connID model.ConnectionID, matchID model.MatchID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.voteRematch(ctx, connID, matchID, true)
}

// RejectRematch declines a pending offer, clearing all votes
func (c *Coordinator) RejectRematch(ctx context.Context, connID model.ConnectionID, matchID model.MatchID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	rejector, ok := c.registry.Resolve(connID)
	if !ok {
		return model.ErrNotRegistered
	}

	m, err := c.storage.GetMatch(ctx, matchID)
	if err != nil {
		return err
	}
	if !m.HasPlayer(rejector) {
		return model.ErrNotParticipant
	}

	opponent, hasOpponent := m.Opponent(rejector)
	if !hasOpponent || !m.RematchVotes[opponent] {
		return model.ErrNoRematchOffer
	}

	m.RematchVotes = make(map[model.PlayerName]bool)
	m.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveMatch(ctx, m); err != nil {
		return err
	}

	c.logger.Info("rematch rejected",
		slog.String("match_id", string(m.ID)),
		slog.String("by", string(rejector)))

	c.sendToPlayer(opponent, model.EventRematchRejected, model.RematchRejectedPayload{
		MatchID: m.ID,
		By:      rejector,
	})
	return nil
}

// RelayChat forwards a chat line to everyone in the match room, including an
// echo to the sender. Nothing is stored.
func (c *Coordinator) RelayChat(ctx context.Context, connID model.ConnectionID, matchID model.MatchID, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	sender, ok := c.registry.Resolve(connID)
	if !ok {
		return model.ErrNotRegistered
	}

	m, err := c.storage.GetMatch(ctx, matchID)
	if err != nil {
		return err
	}
	if !m.HasPlayer(sender) {
		return model.ErrNotParticipant
	}

	c.sendToParticipants(m, model.EventChatMessage, model.ChatPayload{
		MatchID: m.ID,
		From:    sender,
		Text:    text,
		SentAt:  c.clock.Now(),
	})
	return nil
}

// PublishGames pushes the current lobby list to one connection
func (c *Coordinator) PublishGames(ctx context.Context, connID model.ConnectionID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lobby.PublishTo(ctx, connID)
}

// ActiveMatches returns the number of live matches, for health reporting
func (c *Coordinator) ActiveMatches(ctx context.Context) (int, error) {
	matches, err := c.storage.ListMatches(ctx)
	if err != nil {
		return 0, err
	}
	return len(matches), nil
}

// voteRematch implements both request-rematch and accept-rematch. The only
// difference is that accepting requires an existing vote from the opponent.
// Callers hold the coordinator mutex.
func (c *Coordinator) voteRematch(ctx context.Context, connID model.ConnectionID, matchID model.MatchID, requireOffer bool) error {
	requester, ok := c.registry.Resolve(connID)
	if !ok {
		return model.ErrNotRegistered
	}

	m, err := c.storage.GetMatch(ctx, matchID)
	if err != nil {
		return err
	}
	if !m.HasPlayer(requester) {
		return model.ErrNotParticipant
	}
	if m.Status != model.MatchStatusFinished {
		return model.ErrMatchNotFinished
	}

	opponent, hasOpponent := m.Opponent(requester)
	if !hasOpponent {
		return model.ErrOpponentUnavailable
	}
	if requireOffer && !m.RematchVotes[opponent] {
		return model.ErrNoRematchOffer
	}

	// A rematch needs the peer present; refuse rather than record a vote
	// that can never complete
	opponentConn, reachable := c.registry.FindConnection(opponent)
	if !reachable {
		return model.ErrOpponentUnavailable
	}

	m.RematchVotes[requester] = true

	if m.RematchVotes[opponent] {
		// Both votes in: the reset is a single atomic transition
		m.ResetBoard()
		m.Status = model.MatchStatusPlaying
		m.UpdatedAt = c.clock.Now()
		if err := c.storage.SaveMatch(ctx, m); err != nil {
			return err
		}

		c.logger.Info("rematch started", slog.String("match_id", string(m.ID)))

		c.sendToParticipants(m, model.EventRematchStarted, m.State())
		c.sendTurnUpdates(m)
		c.lobby.PublishAll(ctx)
		return nil
	}

	m.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveMatch(ctx, m); err != nil {
		return err
	}

	c.logger.Info("rematch requested",
		slog.String("match_id", string(m.ID)),
		slog.String("by", string(requester)))

	c.pusher.SendTo(connID, model.EventRematchPending, model.RematchPendingPayload{
		MatchID: m.ID,
		Message: "Rematch requested. Waiting for opponent...",
	})
	c.pusher.SendTo(opponentConn, model.EventRematchOffered, model.RematchOfferedPayload{
		MatchID: m.ID,
		From:    requester,
	})
	return nil
}

// removePlayer takes one participant out of a match, destroying the match
// when it empties and resetting it to waiting otherwise. Callers hold the
// coordinator mutex and handle lobby republish.
func (c *Coordinator) removePlayer(ctx context.Context, m *model.Match, name model.PlayerName, reason model.LeaveReason) error {
	remaining := make([]model.PlayerName, 0, len(m.Players))
	for _, p := range m.Players {
		if p != name {
			remaining = append(remaining, p)
		}
	}
	m.Players = remaining

	if len(m.Players) == 0 {
		c.logger.Info("match destroyed", slog.String("match_id", string(m.ID)))
		return c.storage.DeleteMatch(ctx, m.ID)
	}

	m.Status = model.MatchStatusWaiting
	m.ResetBoard()
	m.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveMatch(ctx, m); err != nil {
		return err
	}

	c.logger.Info("player removed",
		slog.String("match_id", string(m.ID)),
		slog.String("player", string(name)),
		slog.String("reason", string(reason)))

	c.sendToParticipants(m, model.EventPlayerLeft, model.PlayerLeftPayload{
		Player: name,
		Reason: reason,
		Match:  m.State(),
	})
	return nil
}

// recordCompletion applies a finished match to the stats ledger and history,
// then pushes fresh stats to each participant. Caller holds the mutex.
func (c *Coordinator) recordCompletion(ctx context.Context, m *model.Match) {
	players := make([]model.PlayerName, len(m.Players))
	copy(players, m.Players)

	if err := c.ledger.RecordResult(ctx, players, m.Winner); err != nil {
		c.logger.Error("failed to record result",
			slog.String("match_id", string(m.ID)),
			slog.String("error", err.Error()))
	}

	summary := &model.MatchSummary{
		MatchID:     m.ID,
		MatchName:   m.Name,
		Players:     players,
		Winner:      m.Winner,
		Board:       m.Board.Cells(),
		CompletedAt: c.clock.Now(),
	}
	if err := c.storage.AppendMatchSummary(ctx, summary); err != nil {
		c.logger.Error("failed to append match summary",
			slog.String("match_id", string(m.ID)),
			slog.String("error", err.Error()))
	}

	for _, name := range players {
		record, err := c.ledger.Get(ctx, name)
		if err != nil {
			c.logger.Error("failed to load stats for push",
				slog.String("name", string(name)),
				slog.String("error", err.Error()))
			continue
		}
		c.sendToPlayer(name, model.EventStatsUpdate, record)
	}
}

// sendToParticipants pushes an event to every reachable participant.
// Unreachable participants are skipped; their absence never blocks the rest.
func (c *Coordinator) sendToParticipants(m *model.Match, event model.EventType, payload any) {
	for _, name := range m.Players {
		c.sendToPlayer(name, event, payload)
	}
}

// sendToPlayer pushes an event to a player's live connection, if any
func (c *Coordinator) sendToPlayer(name model.PlayerName, event model.EventType, payload any) {
	connID, ok := c.registry.FindConnection(name)
	if !ok {
		return
	}
	c.pusher.SendTo(connID, event, payload)
}

// sendTurnUpdates pushes a targeted turn notice to each participant
func (c *Coordinator) sendTurnUpdates(m *model.Match) {
	for _, name := range m.Players {
		symbol, _ := m.SymbolFor(name)
		c.sendToPlayer(name, model.EventTurnUpdate, model.TurnUpdatePayload{
			Symbol:     symbol,
			IsYourTurn: m.Turn == symbol,
		})
	}
}
