package model

import "time"

// MatchID uniquely identifies a match
type MatchID string

// Symbol is a mark on the board. The zero value is an empty cell.
type Symbol string

const (
	SymbolNone Symbol = ""
	SymbolX    Symbol = "X"
	SymbolO    Symbol = "O"
)

// Other returns the opposing symbol
func (s Symbol) Other() Symbol {
	if s == SymbolX {
		return SymbolO
	}
	return SymbolX
}

// BoardSize is the number of cells on a tic-tac-toe board
const BoardSize = 9

// Board is the 3x3 grid in row-major order
type Board [BoardSize]Symbol

// InBounds returns true if idx is a valid cell index
func (b *Board) InBounds(idx int) bool {
	return idx >= 0 && idx < BoardSize
}

// IsEmptyCell returns true if the cell at idx holds no symbol
func (b *Board) IsEmptyCell(idx int) bool {
	return b.InBounds(idx) && b[idx] == SymbolNone
}

// FilledCount returns the number of occupied cells
func (b *Board) FilledCount() int {
	count := 0
	for _, cell := range b {
		if cell != SymbolNone {
			count++
		}
	}
	return count
}

// Cells returns the board as a slice for serialization
func (b *Board) Cells() []Symbol {
	cells := make([]Symbol, BoardSize)
	copy(cells, b[:])
	return cells
}

// MatchStatus represents the current phase of a match
type MatchStatus string

const (
	MatchStatusWaiting  MatchStatus = "waiting"  // Open seat, joinable from the lobby
	MatchStatusPlaying  MatchStatus = "playing"  // Two players, game in progress
	MatchStatusFinished MatchStatus = "finished" // Winner or draw decided
)

// WinnerDraw is the winner value recorded for a drawn match
const WinnerDraw = "draw"

// MaxPlayers is the number of participants in a full match
const MaxPlayers = 2

// Match is the authoritative record of one two-player contest
type Match struct {
	ID     MatchID
	Name   string
	Host   PlayerName
	Status MatchStatus

	// Players in join order; index 0 plays X and moves first
	Players []PlayerName

	Board Board
	Turn  Symbol

	// Winner is empty while undecided, a player name, or WinnerDraw
	Winner      string
	WinningLine []int // 3 cell indices, nil until a line completes

	// RematchVotes tracks which participants asked for a rematch
	RematchVotes map[PlayerName]bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasPlayer returns true if name is a participant
func (m *Match) HasPlayer(name PlayerName) bool {
	return m.PlayerIndex(name) >= 0
}

// PlayerIndex returns name's position in the join order, or -1
func (m *Match) PlayerIndex(name PlayerName) int {
	for i, p := range m.Players {
		if p == name {
			return i
		}
	}
	return -1
}

// SymbolFor derives a participant's symbol from join order. The mapping is
// positional and never stored: Players[0] is X, Players[1] is O.
func (m *Match) SymbolFor(name PlayerName) (Symbol, bool) {
	switch m.PlayerIndex(name) {
	case 0:
		return SymbolX, true
	case 1:
		return SymbolO, true
	default:
		return SymbolNone, false
	}
}

// PlayerFor returns the participant holding the given symbol
func (m *Match) PlayerFor(symbol Symbol) (PlayerName, bool) {
	idx := 0
	if symbol == SymbolO {
		idx = 1
	}
	if idx >= len(m.Players) {
		return "", false
	}
	return m.Players[idx], true
}

// Opponent returns the other participant, if there is one
func (m *Match) Opponent(name PlayerName) (PlayerName, bool) {
	for _, p := range m.Players {
		if p != name {
			return p, true
		}
	}
	return "", false
}

// IsFull returns true if no seat is open
func (m *Match) IsFull() bool {
	return len(m.Players) >= MaxPlayers
}

// ResetBoard clears the board and outcome for a fresh game. Participants are
// kept; rematch votes are not.
func (m *Match) ResetBoard() {
	m.Board = Board{}
	m.Turn = SymbolX
	m.Winner = ""
	m.WinningLine = nil
	m.RematchVotes = make(map[PlayerName]bool)
}

// Clone returns a deep copy sharing no mutable state with m
func (m *Match) Clone() *Match {
	clone := *m
	clone.Players = make([]PlayerName, len(m.Players))
	copy(clone.Players, m.Players)
	if m.WinningLine != nil {
		clone.WinningLine = make([]int, len(m.WinningLine))
		copy(clone.WinningLine, m.WinningLine)
	}
	clone.RematchVotes = make(map[PlayerName]bool, len(m.RematchVotes))
	for name, voted := range m.RematchVotes {
		clone.RematchVotes[name] = voted
	}
	return &clone
}

// MatchState is the wire representation of a match pushed to clients
type MatchState struct {
	ID          MatchID      `json:"id"`
	Name        string       `json:"name"`
	Host        PlayerName   `json:"host"`
	Players     []PlayerName `json:"players"`
	Board       []Symbol     `json:"board"`
	Turn        Symbol       `json:"turn"`
	Status      MatchStatus  `json:"status"`
	Winner      string       `json:"winner,omitempty"`
	WinningLine []int        `json:"winningLine,omitempty"`
}

// State returns the match as its wire representation
func (m *Match) State() MatchState {
	players := make([]PlayerName, len(m.Players))
	copy(players, m.Players)
	return MatchState{
		ID:          m.ID,
		Name:        m.Name,
		Host:        m.Host,
		Players:     players,
		Board:       m.Board.Cells(),
		Turn:        m.Turn,
		Status:      m.Status,
		Winner:      m.Winner,
		WinningLine: m.WinningLine,
	}
}

// GameListing is one lobby entry for a joinable match
type GameListing struct {
	ID          MatchID      `json:"id"`
	Name        string       `json:"name"`
	Host        PlayerName   `json:"host"`
	Players     []PlayerName `json:"players"`
	PlayerCount int          `json:"playerCount"`
	Status      MatchStatus  `json:"status"`
}

// Listing returns the match as a lobby entry
func (m *Match) Listing() GameListing {
	players := make([]PlayerName, len(m.Players))
	copy(players, m.Players)
	return GameListing{
		ID:          m.ID,
		Name:        m.Name,
		Host:        m.Host,
		Players:     players,
		PlayerCount: len(m.Players),
		Status:      m.Status,
	}
}

// MatchSummary is a lightweight record of a completed match
type MatchSummary struct {
	MatchID     MatchID      `json:"matchId"`
	MatchName   string       `json:"matchName"`
	Players     []PlayerName `json:"players"`
	Winner      string       `json:"winner"`
	Board       []Symbol     `json:"board"`
	CompletedAt time.Time    `json:"completedAt"`
}
