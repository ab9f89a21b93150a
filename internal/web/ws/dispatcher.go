package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/model"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/services/match"
)

// Dispatcher decodes inbound event payloads and routes them to the
// coordinator. It is the hub's Handler.
type Dispatcher struct {
	coordinator *match.Coordinator
	logger      *slog.Logger
}

// NewDispatcher creates a Dispatcher
func NewDispatcher(coordinator *match.Coordinator, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		coordinator: coordinator,
		logger:      logger.With(slog.String("component", "dispatcher")),
	}
}

// HandleEvent routes one decoded frame to the matching coordinator
// operation. Payload decode failures and unknown events are errors back to
// the sender, never a dropped connection.
func (d *Dispatcher) HandleEvent(ctx context.Context, connID model.ConnectionID, event model.EventType, payload json.RawMessage) error {
	switch event {
	case model.EventRegister:
		var p model.RegisterPayload
		if err := decode(payload, &p); err != nil {
			return err
		}
		_, err := d.coordinator.Register(ctx, connID, p.Name)
		return err

	case model.EventCreateGame:
		var p model.CreateGamePayload
		if err := decode(payload, &p); err != nil {
			return err
		}
		_, err := d.coordinator.CreateMatch(ctx, connID, p.Name)
		return err

	case model.EventJoinGame:
		var p model.JoinGamePayload
		if err := decode(payload, &p); err != nil {
			return err
		}
		_, err := d.coordinator.JoinMatch(ctx, connID, p.MatchID)
		return err

	case model.EventMakeMove:
		var p model.MakeMovePayload
		if err := decode(payload, &p); err != nil {
			return err
		}
		_, err := d.coordinator.ApplyMove(ctx, connID, p.MatchID, p.CellIndex)
		return err

	case model.EventLeaveGame:
		var p model.MatchRefPayload
		if err := decode(payload, &p); err != nil {
			return err
		}
		return d.coordinator.LeaveMatch(ctx, connID, p.MatchID)

	case model.EventRequestRematch:
		var p model.MatchRefPayload
		if err := decode(payload, &p); err != nil {
			return err
		}
		return d.coordinator.RequestRematch(ctx, connID, p.MatchID)

	case model.EventAcceptRematch:
		var p model.MatchRefPayload
		if err := decode(payload, &p); err != nil {
			return err
		}
		return d.coordinator.AcceptRematch(ctx, connID, p.MatchID)

	case model.EventRejectRematch:
		var p model.MatchRefPayload
		if err := decode(payload, &p); err != nil {
			return err
		}
		return d.coordinator.RejectRematch(ctx, connID, p.MatchID)

	case model.EventChatMessage:
		var p model.ChatSendPayload
		if err := decode(payload, &p); err != nil {
			return err
		}
		return d.coordinator.RelayChat(ctx, connID, p.MatchID, p.Text)

	case model.EventGetGames:
		d.coordinator.PublishGames(ctx, connID)
		return nil

	default:
		d.logger.Debug("unknown event",
			slog.String("conn_id", string(connID)),
			slog.String("event", string(event)))
		return fmt.Errorf("unknown event: %s", event)
	}
}

// HandleDisconnect runs cleanup for a dropped connection
func (d *Dispatcher) HandleDisconnect(ctx context.Context, connID model.ConnectionID) {
	d.coordinator.HandleDisconnect(ctx, connID)
}

func decode(raw json.RawMessage, into any) error {
	if len(raw) == 0 {
		return fmt.Errorf("missing payload")
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}
