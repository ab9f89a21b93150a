// Package handler implements the read-only HTTP endpoints: health, stats,
// leaderboard, and recent match history. All live gameplay happens over the
// WebSocket instead.
package handler

import (
	"net/http"
	"time"

	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/api/apierr"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/api/response"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/dependencies/clock"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/services/match"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/services/registry"
)

// HealthResponse reports server liveness and headline activity counts
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	ActiveGames int       `json:"activeGames"`
	ActiveUsers int       `json:"activeUsers"`
}

// HealthHandler serves the health endpoint
type HealthHandler struct {
	coordinator *match.Coordinator
	registry    *registry.Registry
	clock       clock.Clock
}

// NewHealthHandler creates a HealthHandler
func NewHealthHandler(coordinator *match.Coordinator, reg *registry.Registry, clk clock.Clock) *HealthHandler {
	return &HealthHandler{
		coordinator: coordinator,
		registry:    reg,
		clock:       clk,
	}
}

// Get handles GET /api/health
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	activeGames, err := h.coordinator.ActiveMatches(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, HealthResponse{
		Status:      "ok",
		Timestamp:   h.clock.Now(),
		ActiveGames: activeGames,
		ActiveUsers: h.registry.Count(),
	})
}
