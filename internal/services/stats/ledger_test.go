package stats

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/dependencies/mocks"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/model"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/storage/memory"
	"github.com/Nasrat2562/Tic-Tac-Toe-Arena/internal/testutil"
)

type LedgerSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	ledger  *Ledger
	ctx     context.Context
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerSuite))
}

func (s *LedgerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.ledger = NewLedger(s.storage, s.clock, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *LedgerSuite) TestTouchCreatesZeroedRecord() {
	s.Require().NoError(s.ledger.Touch(s.ctx, "alice"))

	record, err := s.storage.GetStats(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.PlayerName("alice"), record.Name)
	s.Equal(0, record.GamesPlayed)
	s.Equal(s.clock.Now(), record.CreatedAt)
}

func (s *LedgerSuite) TestTouchPreservesExistingRecord() {
	s.Require().NoError(s.ledger.RecordResult(s.ctx, []model.PlayerName{"alice", "bob"}, "alice"))

	s.Require().NoError(s.ledger.Touch(s.ctx, "alice"))

	record, err := s.ledger.Get(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(1, record.Wins)
}

// Writers update records while readers poll the same names over HTTP in
// production; the race detector flags any shared record between the two.
func (s *LedgerSuite) TestConcurrentRecordAndGet() {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 200; i++ {
			err := s.ledger.RecordResult(s.ctx, []model.PlayerName{"alice", "bob"}, "alice")
			s.NoError(err)
		}
	}()

	for i := 0; i < 200; i++ {
		record, err := s.ledger.Get(s.ctx, "alice")
		s.Require().NoError(err)
		s.Equal(record.Wins, record.GamesPlayed)
	}
	<-done

	record, err := s.ledger.Get(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(200, record.GamesPlayed)
	s.Equal(200, record.Wins)
}

func (s *LedgerSuite) TestGetUnknownPlayerReturnsZeroed() {
	record, err := s.ledger.Get(s.ctx, "nobody")
	s.Require().NoError(err)
	s.Equal(model.PlayerName("nobody"), record.Name)
	s.Equal(0, record.GamesPlayed)
	s.Equal(0.0, record.WinRate)
}

func (s *LedgerSuite) TestRecordResultWin() {
	err := s.ledger.RecordResult(s.ctx, []model.PlayerName{"alice", "bob"}, "alice")
	s.Require().NoError(err)

	alice, err := s.ledger.Get(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(1, alice.GamesPlayed)
	s.Equal(1, alice.Wins)
	s.Equal(0, alice.Losses)
	s.Equal(0, alice.Draws)
	s.Equal(100.0, alice.WinRate)

	bob, err := s.ledger.Get(s.ctx, "bob")
	s.Require().NoError(err)
	s.Equal(1, bob.GamesPlayed)
	s.Equal(0, bob.Wins)
	s.Equal(1, bob.Losses)
	s.Equal(0.0, bob.WinRate)
}

func (s *LedgerSuite) TestRecordResultDraw() {
	err := s.ledger.RecordResult(s.ctx, []model.PlayerName{"alice", "bob"}, model.WinnerDraw)
	s.Require().NoError(err)

	for _, name := range []model.PlayerName{"alice", "bob"} {
		record, err := s.ledger.Get(s.ctx, name)
		s.Require().NoError(err)
		s.Equal(1, record.GamesPlayed, "player %s", name)
		s.Equal(1, record.Draws, "player %s", name)
		s.Equal(0, record.Wins, "player %s", name)
		s.Equal(0, record.Losses, "player %s", name)
	}
}

func (s *LedgerSuite) TestRecordResultAccumulates() {
	players := []model.PlayerName{"alice", "bob"}
	s.Require().NoError(s.ledger.RecordResult(s.ctx, players, "alice"))
	s.Require().NoError(s.ledger.RecordResult(s.ctx, players, "bob"))
	s.Require().NoError(s.ledger.RecordResult(s.ctx, players, model.WinnerDraw))

	alice, err := s.ledger.Get(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(3, alice.GamesPlayed)
	s.Equal(1, alice.Wins)
	s.Equal(1, alice.Losses)
	s.Equal(1, alice.Draws)
	s.Equal(33.33, alice.WinRate)

	// Counters always balance: every game is exactly one of win/loss/draw
	s.Equal(alice.GamesPlayed, alice.Wins+alice.Losses+alice.Draws)
}

func (s *LedgerSuite) TestLeaderboardOrdering() {
	players := func(a, b model.PlayerName) []model.PlayerName { return []model.PlayerName{a, b} }

	// alice: 2 wins / 2 games (100%), bob: 1 win 2 losses, carol: 1 win 1 loss (50%)
	s.Require().NoError(s.ledger.RecordResult(s.ctx, players("alice", "bob"), "alice"))
	s.Require().NoError(s.ledger.RecordResult(s.ctx, players("alice", "bob"), "alice"))
	s.Require().NoError(s.ledger.RecordResult(s.ctx, players("bob", "carol"), "bob"))
	s.Require().NoError(s.ledger.RecordResult(s.ctx, players("bob", "carol"), "carol"))
	// dave registered but never played
	s.Require().NoError(s.ledger.Touch(s.ctx, "dave"))

	ranked, err := s.ledger.Leaderboard(s.ctx, 10)
	s.Require().NoError(err)

	s.Require().Len(ranked, 3)
	s.Equal(model.PlayerName("alice"), ranked[0].Name)
	s.Equal(model.PlayerName("carol"), ranked[1].Name)
	s.Equal(model.PlayerName("bob"), ranked[2].Name)
}

func (s *LedgerSuite) TestLeaderboardWinsBreakWinRateTies() {
	players := func(a, b model.PlayerName) []model.PlayerName { return []model.PlayerName{a, b} }

	// alice 2 wins 2 draws (50%), bob 1 win 1 draw (50%): alice ranks
	// higher on wins. Each opponent plays once so none of them reach 50%.
	s.Require().NoError(s.ledger.RecordResult(s.ctx, players("alice", "x1"), "alice"))
	s.Require().NoError(s.ledger.RecordResult(s.ctx, players("alice", "x2"), "alice"))
	s.Require().NoError(s.ledger.RecordResult(s.ctx, players("alice", "x3"), model.WinnerDraw))
	s.Require().NoError(s.ledger.RecordResult(s.ctx, players("alice", "x4"), model.WinnerDraw))
	s.Require().NoError(s.ledger.RecordResult(s.ctx, players("bob", "y1"), "bob"))
	s.Require().NoError(s.ledger.RecordResult(s.ctx, players("bob", "y2"), model.WinnerDraw))

	ranked, err := s.ledger.Leaderboard(s.ctx, 2)
	s.Require().NoError(err)

	s.Require().Len(ranked, 2)
	s.Equal(model.PlayerName("alice"), ranked[0].Name)
	s.Equal(model.PlayerName("bob"), ranked[1].Name)
}

func (s *LedgerSuite) TestLeaderboardLimit() {
	for _, pair := range [][2]model.PlayerName{{"a1", "b1"}, {"a2", "b2"}, {"a3", "b3"}} {
		s.Require().NoError(s.ledger.RecordResult(s.ctx, pair[:], string(pair[0])))
	}

	ranked, err := s.ledger.Leaderboard(s.ctx, 2)
	s.Require().NoError(err)
	s.Len(ranked, 2)
}
