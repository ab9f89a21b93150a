package ws

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/dependencies/mocks"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/model"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/services/lobby"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/services/match"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/services/registry"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/services/stats"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/storage/memory"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/testutil"
)

type nopPusher struct{}

func (nopPusher) SendTo(model.ConnectionID, model.EventType, any) {}
func (nopPusher) Broadcast(model.EventType, any)                  {}

type DispatcherSuite struct {
	suite.Suite
	storage    *memory.Storage
	registry   *registry.Registry
	random     *mocks.MockRandom
	dispatcher *Dispatcher
	ctx        context.Context
}

func TestDispatcherSuite(t *testing.T) {
	suite.Run(t, new(DispatcherSuite))
}

func (s *DispatcherSuite) SetupTest() {
	logger := testutil.NopLogger()
	s.storage = memory.New()
	s.registry = registry.New(logger)
	s.random = mocks.NewMockRandom()
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	ledger := stats.NewLedger(s.storage, clk, logger)
	lobbyBroadcaster := lobby.NewBroadcaster(s.storage, nopPusher{}, logger)
	coordinator := match.NewCoordinator(s.storage, s.registry, ledger, lobbyBroadcaster, nopPusher{}, clk, s.random, logger)
	s.dispatcher = NewDispatcher(coordinator, logger)
	s.ctx = context.Background()
}

func (s *DispatcherSuite) TestRegisterEvent() {
	err := s.dispatcher.HandleEvent(s.ctx, "conn-1", model.EventRegister, []byte(`{"name":"alice"}`))
	s.Require().NoError(err)

	name, ok := s.registry.Resolve("conn-1")
	s.True(ok)
	s.Equal(model.PlayerName("alice"), name)
}

func (s *DispatcherSuite) TestCreateAndJoinEvents() {
	s.random.QueueString("MATCH1")
	s.Require().NoError(s.dispatcher.HandleEvent(s.ctx, "conn-1", model.EventRegister, []byte(`{"name":"alice"}`)))
	s.Require().NoError(s.dispatcher.HandleEvent(s.ctx, "conn-2", model.EventRegister, []byte(`{"name":"bob"}`)))

	s.Require().NoError(s.dispatcher.HandleEvent(s.ctx, "conn-1", model.EventCreateGame, []byte(`{}`)))
	s.Require().NoError(s.dispatcher.HandleEvent(s.ctx, "conn-2", model.EventJoinGame, []byte(`{"matchId":"MATCH1"}`)))

	m, err := s.storage.GetMatch(s.ctx, "MATCH1")
	s.Require().NoError(err)
	s.Equal(model.MatchStatusPlaying, m.Status)
}

func (s *DispatcherSuite) TestMakeMoveEvent() {
	s.random.QueueString("MATCH1")
	s.Require().NoError(s.dispatcher.HandleEvent(s.ctx, "conn-1", model.EventRegister, []byte(`{"name":"alice"}`)))
	s.Require().NoError(s.dispatcher.HandleEvent(s.ctx, "conn-2", model.EventRegister, []byte(`{"name":"bob"}`)))
	s.Require().NoError(s.dispatcher.HandleEvent(s.ctx, "conn-1", model.EventCreateGame, []byte(`{}`)))
	s.Require().NoError(s.dispatcher.HandleEvent(s.ctx, "conn-2", model.EventJoinGame, []byte(`{"matchId":"MATCH1"}`)))

	err := s.dispatcher.HandleEvent(s.ctx, "conn-1", model.EventMakeMove, []byte(`{"matchId":"MATCH1","cellIndex":4}`))
	s.Require().NoError(err)

	m, err := s.storage.GetMatch(s.ctx, "MATCH1")
	s.Require().NoError(err)
	s.Equal(model.SymbolX, m.Board[4])
}

func (s *DispatcherSuite) TestDomainErrorsPropagate() {
	err := s.dispatcher.HandleEvent(s.ctx, "conn-1", model.EventCreateGame, []byte(`{}`))
	s.ErrorIs(err, model.ErrNotRegistered)
}

func (s *DispatcherSuite) TestMissingPayloadFails() {
	err := s.dispatcher.HandleEvent(s.ctx, "conn-1", model.EventRegister, nil)
	s.Error(err)
}

func (s *DispatcherSuite) TestInvalidPayloadFails() {
	err := s.dispatcher.HandleEvent(s.ctx, "conn-1", model.EventRegister, []byte(`"just a string"`))
	s.Error(err)
}

func (s *DispatcherSuite) TestUnknownEventFails() {
	err := s.dispatcher.HandleEvent(s.ctx, "conn-1", "mystery-event", []byte(`{}`))
	s.Error(err)
}

func (s *DispatcherSuite) TestGetGamesEventNeedsNoPayload() {
	err := s.dispatcher.HandleEvent(s.ctx, "conn-1", model.EventGetGames, nil)
	s.NoError(err)
}

func (s *DispatcherSuite) TestDisconnectReleasesPlayer() {
	s.Require().NoError(s.dispatcher.HandleEvent(s.ctx, "conn-1", model.EventRegister, []byte(`{"name":"alice"}`)))

	s.dispatcher.HandleDisconnect(s.ctx, "conn-1")

	_, ok := s.registry.Resolve("conn-1")
	s.False(ok)
}
