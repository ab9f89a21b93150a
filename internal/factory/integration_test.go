package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/model"
)

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

// Test: complete flow from registration through a decided game
func (s *IntegrationSuite) TestCompleteMatchFlow() {
	s.app.MockRandom.QueueString("MATCH1")

	// Step 1: Both players register
	_, err := s.app.Coordinator.Register(s.ctx, "conn-a", "alice")
	s.Require().NoError(err)
	_, err = s.app.Coordinator.Register(s.ctx, "conn-b", "bob")
	s.Require().NoError(err)
	s.Equal(2, s.app.Registry.Count())

	// Step 2: Alice hosts a match
	m, err := s.app.Coordinator.CreateMatch(s.ctx, "conn-a", "")
	s.Require().NoError(err)
	s.Equal(model.MatchID("MATCH1"), m.ID)
	s.Equal("alice's Game", m.Name)
	s.Equal(model.MatchStatusWaiting, m.Status)

	// Step 3: Bob joins and play begins
	m, err = s.app.Coordinator.JoinMatch(s.ctx, "conn-b", "MATCH1")
	s.Require().NoError(err)
	s.Equal(model.MatchStatusPlaying, m.Status)

	// Step 4: Alice takes the left column; bob fills the middle
	moves := []struct {
		conn model.ConnectionID
		cell int
	}{
		{"conn-a", 0}, {"conn-b", 1}, {"conn-a", 3}, {"conn-b", 4}, {"conn-a", 6},
	}
	for _, mv := range moves {
		m, err = s.app.Coordinator.ApplyMove(s.ctx, mv.conn, "MATCH1", mv.cell)
		s.Require().NoError(err)
	}

	// Step 5: Alice wins on the left column
	s.Equal(model.MatchStatusFinished, m.Status)
	s.Equal("alice", m.Winner)
	s.Equal([]int{0, 3, 6}, m.WinningLine)

	// Step 6: Stats recorded for both players
	alice, err := s.app.Ledger.Get(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(1, alice.Wins)
	s.Equal(100.0, alice.WinRate)

	bob, err := s.app.Ledger.Get(s.ctx, "bob")
	s.Require().NoError(err)
	s.Equal(1, bob.Losses)

	// Step 7: The result appears in match history
	summaries, err := s.app.Storage.RecentMatchSummaries(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(summaries, 1)
	s.Equal("alice", summaries[0].Winner)
}

// Test: rematch handshake resets the finished match for another round
func (s *IntegrationSuite) TestRematchFlow() {
	s.playDecidedMatch()

	s.Require().NoError(s.app.Coordinator.RequestRematch(s.ctx, "conn-a", "MATCH1"))
	s.Require().NoError(s.app.Coordinator.AcceptRematch(s.ctx, "conn-b", "MATCH1"))

	m, err := s.app.Storage.GetMatch(s.ctx, "MATCH1")
	s.Require().NoError(err)
	s.Equal(model.MatchStatusPlaying, m.Status)
	s.Equal(0, m.Board.FilledCount())
	s.Equal(model.SymbolX, m.Turn)

	// The second game is a fresh contest with the same seats
	_, err = s.app.Coordinator.ApplyMove(s.ctx, "conn-a", "MATCH1", 8)
	s.Require().NoError(err)

	m, err = s.app.Storage.GetMatch(s.ctx, "MATCH1")
	s.Require().NoError(err)
	s.Equal(model.SymbolX, m.Board[8])
}

// Test: a second decided game accumulates onto existing stats
func (s *IntegrationSuite) TestStatsAccumulateAcrossRematches() {
	s.playDecidedMatch()

	s.Require().NoError(s.app.Coordinator.RequestRematch(s.ctx, "conn-a", "MATCH1"))
	s.Require().NoError(s.app.Coordinator.AcceptRematch(s.ctx, "conn-b", "MATCH1"))

	// Bob wins the rematch on the top row: X plays 3,4 then wanders
	moves := []struct {
		conn model.ConnectionID
		cell int
	}{
		{"conn-a", 3}, {"conn-b", 0}, {"conn-a", 4}, {"conn-b", 1},
		{"conn-a", 8}, {"conn-b", 2},
	}
	for _, mv := range moves {
		_, err := s.app.Coordinator.ApplyMove(s.ctx, mv.conn, "MATCH1", mv.cell)
		s.Require().NoError(err)
	}

	alice, err := s.app.Ledger.Get(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(2, alice.GamesPlayed)
	s.Equal(1, alice.Wins)
	s.Equal(1, alice.Losses)
	s.Equal(50.0, alice.WinRate)

	ranked, err := s.app.Ledger.Leaderboard(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(ranked, 2)
	s.Equal(model.PlayerName("alice"), ranked[0].Name)
	s.Equal(model.PlayerName("bob"), ranked[1].Name)

	summaries, err := s.app.Storage.RecentMatchSummaries(s.ctx, 10)
	s.Require().NoError(err)
	s.Len(summaries, 2)
}

// Test: a disconnected host leaves the match waiting for a new opponent
func (s *IntegrationSuite) TestDisconnectReturnsMatchToLobby() {
	s.app.MockRandom.QueueString("MATCH1")
	_, err := s.app.Coordinator.Register(s.ctx, "conn-a", "alice")
	s.Require().NoError(err)
	_, err = s.app.Coordinator.Register(s.ctx, "conn-b", "bob")
	s.Require().NoError(err)
	_, err = s.app.Coordinator.CreateMatch(s.ctx, "conn-a", "")
	s.Require().NoError(err)
	_, err = s.app.Coordinator.JoinMatch(s.ctx, "conn-b", "MATCH1")
	s.Require().NoError(err)

	s.app.Coordinator.HandleDisconnect(s.ctx, "conn-a")

	m, err := s.app.Storage.GetMatch(s.ctx, "MATCH1")
	s.Require().NoError(err)
	s.Equal(model.MatchStatusWaiting, m.Status)
	s.Equal([]model.PlayerName{"bob"}, m.Players)
	s.Equal(1, s.app.Registry.Count())

	// Carol can take the open seat
	_, err = s.app.Coordinator.Register(s.ctx, "conn-c", "carol")
	s.Require().NoError(err)
	m, err = s.app.Coordinator.JoinMatch(s.ctx, "conn-c", "MATCH1")
	s.Require().NoError(err)
	s.Equal(model.MatchStatusPlaying, m.Status)
	s.Equal([]model.PlayerName{"bob", "carol"}, m.Players)
}

// playDecidedMatch registers alice and bob and plays MATCH1 to an alice win
func (s *IntegrationSuite) playDecidedMatch() {
	s.app.MockRandom.QueueString("MATCH1")
	_, err := s.app.Coordinator.Register(s.ctx, "conn-a", "alice")
	s.Require().NoError(err)
	_, err = s.app.Coordinator.Register(s.ctx, "conn-b", "bob")
	s.Require().NoError(err)
	_, err = s.app.Coordinator.CreateMatch(s.ctx, "conn-a", "")
	s.Require().NoError(err)
	_, err = s.app.Coordinator.JoinMatch(s.ctx, "conn-b", "MATCH1")
	s.Require().NoError(err)

	for _, mv := range []struct {
		conn model.ConnectionID
		cell int
	}{
		{"conn-a", 0}, {"conn-b", 3}, {"conn-a", 1}, {"conn-b", 4}, {"conn-a", 2},
	} {
		_, err := s.app.Coordinator.ApplyMove(s.ctx, mv.conn, "MATCH1", mv.cell)
		s.Require().NoError(err)
	}
}
