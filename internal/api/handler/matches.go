package handler

import (
	"net/http"

	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/api/apierr"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/api/response"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/storage"
)

const defaultHistoryLimit = 20

// MatchesHandler serves completed match history
type MatchesHandler struct {
	storage storage.Storage
}

// NewMatchesHandler creates a MatchesHandler
func NewMatchesHandler(store storage.Storage) *MatchesHandler {
	return &MatchesHandler{storage: store}
}

// Recent handles GET /api/matches/recent
func (h *MatchesHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit, err := parseLimit(r, defaultHistoryLimit)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	summaries, err := h.storage.RecentMatchSummaries(r.Context(), limit)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, summaries)
}
