package lobby

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/model"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/storage/memory"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/testutil"
)

type capturedPush struct {
	ConnID  model.ConnectionID
	Event   model.EventType
	Payload any
}

type capturePublisher struct {
	pushes []capturedPush
}

func (p *capturePublisher) SendTo(connID model.ConnectionID, event model.EventType, payload any) {
	p.pushes = append(p.pushes, capturedPush{ConnID: connID, Event: event, Payload: payload})
}

func (p *capturePublisher) Broadcast(event model.EventType, payload any) {
	p.pushes = append(p.pushes, capturedPush{Event: event, Payload: payload})
}

type BroadcasterSuite struct {
	suite.Suite
	storage     *memory.Storage
	publisher   *capturePublisher
	broadcaster *Broadcaster
	ctx         context.Context
}

func TestBroadcasterSuite(t *testing.T) {
	suite.Run(t, new(BroadcasterSuite))
}

func (s *BroadcasterSuite) SetupTest() {
	s.storage = memory.New()
	s.publisher = &capturePublisher{}
	s.broadcaster = NewBroadcaster(s.storage, s.publisher, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *BroadcasterSuite) saveMatch(id model.MatchID, status model.MatchStatus, players ...model.PlayerName) {
	m := &model.Match{
		ID:      id,
		Name:    string(id),
		Status:  status,
		Players: players,
		Turn:    model.SymbolX,
	}
	if len(players) > 0 {
		m.Host = players[0]
	}
	s.Require().NoError(s.storage.SaveMatch(s.ctx, m))
}

func (s *BroadcasterSuite) TestSnapshotOnlyListsWaitingMatches() {
	s.saveMatch("AAA", model.MatchStatusWaiting, "alice")
	s.saveMatch("BBB", model.MatchStatusPlaying, "bob", "carol")
	s.saveMatch("CCC", model.MatchStatusFinished, "dave", "erin")

	listings, err := s.broadcaster.Snapshot(s.ctx)
	s.Require().NoError(err)

	s.Require().Len(listings, 1)
	s.Equal(model.MatchID("AAA"), listings[0].ID)
	s.Equal(model.PlayerName("alice"), listings[0].Host)
	s.Equal(1, listings[0].PlayerCount)
}

func (s *BroadcasterSuite) TestSnapshotSkipsEmptyMatches() {
	s.saveMatch("AAA", model.MatchStatusWaiting)

	listings, err := s.broadcaster.Snapshot(s.ctx)
	s.Require().NoError(err)
	s.Empty(listings)
}

func (s *BroadcasterSuite) TestSnapshotIsStablyOrdered() {
	s.saveMatch("CCC", model.MatchStatusWaiting, "carol")
	s.saveMatch("AAA", model.MatchStatusWaiting, "alice")
	s.saveMatch("BBB", model.MatchStatusWaiting, "bob")

	listings, err := s.broadcaster.Snapshot(s.ctx)
	s.Require().NoError(err)

	s.Require().Len(listings, 3)
	s.Equal(model.MatchID("AAA"), listings[0].ID)
	s.Equal(model.MatchID("BBB"), listings[1].ID)
	s.Equal(model.MatchID("CCC"), listings[2].ID)
}

func (s *BroadcasterSuite) TestPublishAllBroadcasts() {
	s.saveMatch("AAA", model.MatchStatusWaiting, "alice")

	s.broadcaster.PublishAll(s.ctx)

	s.Require().Len(s.publisher.pushes, 1)
	push := s.publisher.pushes[0]
	s.Equal(model.ConnectionID(""), push.ConnID)
	s.Equal(model.EventGamesList, push.Event)
	s.Len(push.Payload.([]model.GameListing), 1)
}

func (s *BroadcasterSuite) TestPublishToTargetsOneConnection() {
	s.broadcaster.PublishTo(s.ctx, "conn-1")

	s.Require().Len(s.publisher.pushes, 1)
	push := s.publisher.pushes[0]
	s.Equal(model.ConnectionID("conn-1"), push.ConnID)
	s.Equal(model.EventGamesList, push.Event)
	s.Empty(push.Payload.([]model.GameListing))
}
