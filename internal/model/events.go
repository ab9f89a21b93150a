package model

import "time"

// EventType names a protocol event. Every message on the wire is one named
// event with a JSON payload; there is a single canonical set of names.
type EventType string

// Client -> server events
const (
	EventRegister       EventType = "register"
	EventCreateGame     EventType = "create-game"
	EventJoinGame       EventType = "join-game"
	EventMakeMove       EventType = "make-move"
	EventLeaveGame      EventType = "leave-game"
	EventRequestRematch EventType = "request-rematch"
	EventAcceptRematch  EventType = "accept-rematch"
	EventRejectRematch  EventType = "reject-rematch"
	EventChatMessage    EventType = "chat-message"
	EventGetGames       EventType = "get-games"
)

// Server -> client events
const (
	EventRegistered      EventType = "registered"
	EventGamesList       EventType = "games-list"
	EventMatchCreated    EventType = "match-created"
	EventMatchStarted    EventType = "match-started"
	EventPlayerJoined    EventType = "player-joined"
	EventMoveMade        EventType = "move-made"
	EventTurnUpdate      EventType = "turn-update"
	EventPlayerLeft      EventType = "player-left"
	EventRematchOffered  EventType = "rematch-offered"
	EventRematchPending  EventType = "rematch-pending"
	EventRematchStarted  EventType = "rematch-started"
	EventRematchRejected EventType = "rematch-rejected"
	EventStatsUpdate     EventType = "stats-update"
	EventError           EventType = "error"
)

// Client -> server payloads.
// Fields are validated at the transport boundary before the coordinator
// sees them.

// RegisterPayload carries the requested display name
type RegisterPayload struct {
	Name string `json:"name"`
}

// CreateGamePayload carries the desired match name (optional)
type CreateGamePayload struct {
	Name string `json:"name"`
}

// JoinGamePayload identifies the match to join
type JoinGamePayload struct {
	MatchID MatchID `json:"matchId"`
}

// MakeMovePayload carries one move
type MakeMovePayload struct {
	MatchID   MatchID `json:"matchId"`
	CellIndex int     `json:"cellIndex"`
}

// MatchRefPayload identifies a match for leave/rematch operations
type MatchRefPayload struct {
	MatchID MatchID `json:"matchId"`
}

// ChatSendPayload carries an outgoing chat line
type ChatSendPayload struct {
	MatchID MatchID `json:"matchId"`
	Text    string  `json:"text"`
}

// Server -> client payloads

// RegisteredPayload confirms a registration
type RegisteredPayload struct {
	Username PlayerName `json:"username"`
}

// PlayerJoinedPayload announces a new participant to a match room
type PlayerJoinedPayload struct {
	Player PlayerName `json:"player"`
	Match  MatchState `json:"match"`
}

// MoveMadePayload broadcasts an applied move and the updated board
type MoveMadePayload struct {
	CellIndex   int         `json:"cellIndex"`
	Symbol      Symbol      `json:"symbol"`
	Board       []Symbol    `json:"board"`
	Turn        Symbol      `json:"turn"`
	Status      MatchStatus `json:"status"`
	GameOver    bool        `json:"gameOver"`
	Winner      string      `json:"winner,omitempty"`
	WinningLine []int       `json:"winningLine,omitempty"`
}

// TurnUpdatePayload is targeted at one participant after each turn change
type TurnUpdatePayload struct {
	Symbol     Symbol `json:"symbol"`
	IsYourTurn bool   `json:"isYourTurn"`
}

// LeaveReason distinguishes an explicit leave from a dropped connection
type LeaveReason string

const (
	LeaveReasonLeft         LeaveReason = "left"
	LeaveReasonDisconnected LeaveReason = "disconnected"
)

// PlayerLeftPayload notifies the remaining participant of a departure
type PlayerLeftPayload struct {
	Player PlayerName  `json:"player"`
	Reason LeaveReason `json:"reason"`
	Match  MatchState  `json:"match"`
}

// RematchOfferedPayload notifies the opponent of a rematch request
type RematchOfferedPayload struct {
	MatchID MatchID    `json:"matchId"`
	From    PlayerName `json:"from"`
}

// RematchPendingPayload acknowledges a rematch vote to the requester
type RematchPendingPayload struct {
	MatchID MatchID `json:"matchId"`
	Message string  `json:"message"`
}

// RematchRejectedPayload notifies voters that the offer was declined
type RematchRejectedPayload struct {
	MatchID MatchID    `json:"matchId"`
	By      PlayerName `json:"by"`
}

// ChatPayload relays one chat line within a match room
type ChatPayload struct {
	MatchID MatchID    `json:"matchId"`
	From    PlayerName `json:"from"`
	Text    string     `json:"text"`
	SentAt  time.Time  `json:"sentAt"`
}

// ErrorPayload carries a human-readable reason, targeted at the
// originating connection only
type ErrorPayload struct {
	Reason string `json:"reason"`
}
