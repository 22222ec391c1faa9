// Package leaderboardtest holds the behaviour every leaderboard.Store must share
package leaderboardtest

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/they4kman/ffsweep/game"
	"github.com/they4kman/ffsweep/leaderboard"
)

// StoreSuite runs against the store returned by NewStore before each test
type StoreSuite struct {
	suite.Suite
	NewStore func() leaderboard.Store

	store leaderboard.Store
	ctx   context.Context
}

var day = time.Date(2024, 5, 4, 10, 0, 0, 0, time.UTC)

func entry(player, boardID string, mode game.Mode, seconds, minute int) leaderboard.Entry {
	return leaderboard.Entry{
		Key:  leaderboard.Key{Player: player, BoardID: boardID, Mode: mode},
		Time: time.Duration(seconds) * time.Second,
		Date: day.Add(time.Duration(minute) * time.Minute),
	}
}

func (s *StoreSuite) SetupTest() {
	s.store = s.NewStore()
	s.ctx = context.Background()
}

func (s *StoreSuite) add(entries ...leaderboard.Entry) {
	for _, e := range entries {
		s.Require().NoError(s.store.Add(s.ctx, e))
	}
}

func (s *StoreSuite) times(key leaderboard.Key) []time.Duration {
	entries, err := s.store.Times(s.ctx, key)
	s.Require().NoError(err)

	times := make([]time.Duration, len(entries))
	for i, e := range entries {
		s.Equal(key, e.Key)
		times[i] = e.Time
	}
	return times
}

func (s *StoreSuite) TestTimesFastestFirst() {
	s.add(
		entry("alice", "3E", game.ModeNormal, 30, 1),
		entry("alice", "3E", game.ModeNormal, 10, 2),
		entry("alice", "3E", game.ModeNormal, 20, 3),
	)

	entries, err := s.store.Times(s.ctx, leaderboard.Key{Player: "alice", BoardID: "3E", Mode: game.ModeNormal})
	s.Require().NoError(err)
	s.Require().Len(entries, 3)
	s.Equal(10*time.Second, entries[0].Time)
	s.True(entries[0].Date.Equal(day.Add(2 * time.Minute)))
	s.Equal(30*time.Second, entries[2].Time)
}

func (s *StoreSuite) TestTimesUnknownKey() {
	s.Empty(s.times(leaderboard.Key{Player: "nobody", BoardID: "1E", Mode: game.ModeNormal}))
}

func (s *StoreSuite) TestAddRejectsInvalid() {
	s.ErrorIs(s.store.Add(s.ctx, entry("", "3E", game.ModeNormal, 1, 0)), leaderboard.ErrInvalidEntry)
	s.ErrorIs(s.store.Add(s.ctx, entry("alice", "", game.ModeNormal, 1, 0)), leaderboard.ErrInvalidEntry)
	s.ErrorIs(s.store.Add(s.ctx, entry("alice", "3E", game.Mode("FAST"), 1, 0)), leaderboard.ErrInvalidEntry)
	s.ErrorIs(s.store.Add(s.ctx, entry("alice", "3E", game.ModeNormal, 0, 0)), leaderboard.ErrInvalidEntry)
}

func (s *StoreSuite) TestModesKeptApart() {
	s.add(
		entry("alice", "3E", game.ModeNormal, 10, 1),
		entry("alice", "3E", game.ModeMulti, 40, 2),
	)

	s.Equal([]time.Duration{10 * time.Second}, s.times(leaderboard.Key{Player: "alice", BoardID: "3E", Mode: game.ModeNormal}))
	s.Equal([]time.Duration{40 * time.Second}, s.times(leaderboard.Key{Player: "alice", BoardID: "3E", Mode: game.ModeMulti}))
}

func (s *StoreSuite) TestPlayersAndBoards() {
	s.add(
		entry("bob", "1E", game.ModeNormal, 5, 1),
		entry("alice", "3E", game.ModeNormal, 10, 2),
		entry("alice", "1E", game.ModeMulti, 12, 3),
	)

	players, err := s.store.Players(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"alice", "bob"}, players)

	boards, err := s.store.Boards(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal([]string{"1E", "3E"}, boards)

	boards, err = s.store.Boards(s.ctx, "carol")
	s.Require().NoError(err)
	s.Empty(boards)
}

func (s *StoreSuite) TestRenamePlayerMerges() {
	s.add(
		entry("alice", "3E", game.ModeNormal, 10, 1),
		entry("alice", "1E", game.ModeMulti, 12, 2),
		entry("carol", "3E", game.ModeNormal, 8, 3),
	)

	s.Require().NoError(s.store.RenamePlayer(s.ctx, "alice", "carol"))

	players, err := s.store.Players(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"carol"}, players)

	boards, err := s.store.Boards(s.ctx, "carol")
	s.Require().NoError(err)
	s.Equal([]string{"1E", "3E"}, boards)

	s.Equal([]time.Duration{8 * time.Second, 10 * time.Second},
		s.times(leaderboard.Key{Player: "carol", BoardID: "3E", Mode: game.ModeNormal}))
	s.Equal([]time.Duration{12 * time.Second},
		s.times(leaderboard.Key{Player: "carol", BoardID: "1E", Mode: game.ModeMulti}))
	s.Empty(s.times(leaderboard.Key{Player: "alice", BoardID: "3E", Mode: game.ModeNormal}))
}

func (s *StoreSuite) TestRenameUnknownPlayer() {
	s.ErrorIs(s.store.RenamePlayer(s.ctx, "nobody", "carol"), leaderboard.ErrNotFound)
}

func (s *StoreSuite) TestBoardNames() {
	name, err := s.store.BoardName(s.ctx, "3E")
	s.Require().NoError(err)
	s.Empty(name)

	s.Require().NoError(s.store.RenameBoard(s.ctx, "3E", "Strip"))
	name, err = s.store.BoardName(s.ctx, "3E")
	s.Require().NoError(err)
	s.Equal("Strip", name)

	s.Require().NoError(s.store.RenameBoard(s.ctx, "3E", ""))
	name, err = s.store.BoardName(s.ctx, "3E")
	s.Require().NoError(err)
	s.Empty(name)
}

func (s *StoreSuite) TestDeleteBoard() {
	s.add(
		entry("alice", "3E", game.ModeNormal, 10, 1),
		entry("alice", "3E", game.ModeMulti, 11, 2),
		entry("alice", "1E", game.ModeNormal, 12, 3),
	)

	s.Require().NoError(s.store.DeleteBoard(s.ctx, "alice", "3E"))

	boards, err := s.store.Boards(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal([]string{"1E"}, boards)
	s.Empty(s.times(leaderboard.Key{Player: "alice", BoardID: "3E", Mode: game.ModeMulti}))

	s.Require().NoError(s.store.DeleteBoard(s.ctx, "alice", "1E"))
	players, err := s.store.Players(s.ctx)
	s.Require().NoError(err)
	s.Empty(players)
}

func (s *StoreSuite) TestDeleteTime() {
	first := entry("alice", "3E", game.ModeNormal, 10, 1)
	second := entry("alice", "3E", game.ModeNormal, 20, 2)
	s.add(first, second)

	s.Require().NoError(s.store.DeleteTime(s.ctx, first))
	s.Equal([]time.Duration{20 * time.Second}, s.times(first.Key))
	s.ErrorIs(s.store.DeleteTime(s.ctx, first), leaderboard.ErrNotFound)

	s.Require().NoError(s.store.DeleteTime(s.ctx, second))
	players, err := s.store.Players(s.ctx)
	s.Require().NoError(err)
	s.Empty(players)
}
