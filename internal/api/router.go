// Package api wires the HTTP surface: the read-only REST endpoints and the
// WebSocket entry point.
package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/api/handler"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/dependencies/clock"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/middleware"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/services/match"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/services/registry"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/services/stats"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/storage"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/web/ws"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	Coordinator *match.Coordinator
	Registry    *registry.Registry
	Ledger      *stats.Ledger
	Storage     storage.Storage
	Hub         *ws.Hub
	Clock       clock.Clock
}

// NewRouter creates the router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	healthHandler := handler.NewHealthHandler(cfg.Coordinator, cfg.Registry, cfg.Clock)
	statsHandler := handler.NewStatsHandler(cfg.Ledger)
	matchesHandler := handler.NewMatchesHandler(cfg.Storage)

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger, middleware.DefaultPanicHandler)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	api.HandleFunc("/health", healthHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/stats/{name}", statsHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/leaderboard", statsHandler.Leaderboard).Methods(http.MethodGet)
	api.HandleFunc("/matches/recent", matchesHandler.Recent).Methods(http.MethodGet)

	// The WebSocket upgrade needs the raw ResponseWriter (http.Hijacker),
	// so it bypasses the wrapping middleware
	r.HandleFunc("/ws", cfg.Hub.ServeWS).Methods(http.MethodGet)

	return r
}
