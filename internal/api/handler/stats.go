package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/api/apierr"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/api/response"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/model"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/services/stats"
)

const defaultLeaderboardLimit = 10

// StatsHandler serves player statistics and the leaderboard
type StatsHandler struct {
	ledger *stats.Ledger
}

// NewStatsHandler creates a StatsHandler
func NewStatsHandler(ledger *stats.Ledger) *StatsHandler {
	return &StatsHandler{ledger: ledger}
}

// Get handles GET /api/stats/{name}
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	if name == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("player name is required"))
		return
	}

	record, err := h.ledger.Get(r.Context(), model.PlayerName(name))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, record)
}

// Leaderboard handles GET /api/leaderboard
func (h *StatsHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r, defaultLeaderboardLimit)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	records, err := h.ledger.Leaderboard(r.Context(), limit)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, records)
}

// parseLimit reads an optional positive ?limit= query parameter
func parseLimit(r *http.Request, fallback int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, apierr.NewInvalidRequestError("limit must be a positive integer")
	}
	return limit, nil
}
