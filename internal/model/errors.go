package model

import "errors"

// Common errors used across the application
var (
	// Registration errors
	ErrInvalidName   = errors.New("name must be at least 2 characters")
	ErrNameInUse     = errors.New("name is already in use")
	ErrNotRegistered = errors.New("not registered")

	// Match errors
	ErrMatchNotFound    = errors.New("match not found")
	ErrMatchFull        = errors.New("match is full")
	ErrAlreadyInMatch   = errors.New("already in this match")
	ErrNotParticipant   = errors.New("not a participant in this match")
	ErrMatchNotActive   = errors.New("match is not in progress")
	ErrNotYourTurn      = errors.New("not this player's turn")
	ErrInvalidCellIndex = errors.New("invalid cell index")
	ErrCellOccupied     = errors.New("cell is already occupied")

	// Rematch errors
	ErrMatchNotFinished    = errors.New("match is not finished")
	ErrOpponentUnavailable = errors.New("opponent is not connected")
	ErrNoRematchOffer      = errors.New("no pending rematch offer")

	// Stats errors
	ErrStatsNotFound = errors.New("stats record not found")
)
