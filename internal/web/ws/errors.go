package ws

import (
	"errors"

	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/model"
)

// reasonTable maps domain errors to the human-readable strings clients show
var reasonTable = []struct {
	err    error
	reason string
}{
	{model.ErrInvalidName, "Name must be at least 2 characters"},
	{model.ErrNameInUse, "Name is already taken"},
	{model.ErrNotRegistered, "Please register first"},
	{model.ErrMatchNotFound, "Game not found"},
	{model.ErrMatchFull, "Game is full"},
	{model.ErrAlreadyInMatch, "Already in this game"},
	{model.ErrNotParticipant, "Not in this game"},
	{model.ErrMatchNotActive, "Game is not active"},
	{model.ErrNotYourTurn, "Not your turn"},
	{model.ErrInvalidCellIndex, "Invalid cell index"},
	{model.ErrCellOccupied, "Cell already taken"},
	{model.ErrMatchNotFinished, "Game is not finished yet"},
	{model.ErrOpponentUnavailable, "Opponent is not connected"},
	{model.ErrNoRematchOffer, "No rematch offer to respond to"},
}

// Reason translates a domain error into the message sent to the client
func Reason(err error) string {
	for _, entry := range reasonTable {
		if errors.Is(err, entry.err) {
			return entry.reason
		}
	}
	return err.Error()
}
