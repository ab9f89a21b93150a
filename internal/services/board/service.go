// Package board evaluates terminal state of a tic-tac-toe grid.
// It is pure: no state, no I/O.
package board

import "github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/model"

// Outcome classifies an evaluated board
type Outcome int

const (
	OutcomeNone Outcome = iota // Game still open
	OutcomeWin
	OutcomeDraw
)

// Result is the evaluation of a board position
type Result struct {
	Outcome Outcome
	Winner  model.Symbol // Set only for OutcomeWin
	Line    [3]int       // Winning cell indices, set only for OutcomeWin
}

// winningLines are the 8 ways to win, checked in a fixed order:
// rows, then columns, then diagonals. The first completed line wins,
// which makes detection precedence deterministic.
var winningLines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8}, // rows
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8}, // columns
	{0, 4, 8}, {2, 4, 6}, // diagonals
}

// Evaluate returns the terminal state of the board, if any: a completed
// line, a draw when all 9 cells are occupied, or nothing.
func Evaluate(b model.Board) Result {
	for _, line := range winningLines {
		a, mid, c := line[0], line[1], line[2]
		if b[a] != model.SymbolNone && b[a] == b[mid] && b[a] == b[c] {
			return Result{Outcome: OutcomeWin, Winner: b[a], Line: line}
		}
	}

	if b.FilledCount() == model.BoardSize {
		return Result{Outcome: OutcomeDraw}
	}

	return Result{Outcome: OutcomeNone}
}
