package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/they4kman/ffsweep/game"
	"github.com/they4kman/ffsweep/leaderboard"
	"github.com/they4kman/ffsweep/leaderboard/leaderboardtest"
)

// StoreSuite runs the shared store behaviour against miniredis
type StoreSuite struct {
	leaderboardtest.StoreSuite
	mini   *miniredis.Miniredis
	redis  *Store
	client *redis.Client
}

func TestStoreSuite(t *testing.T) {
	s := new(StoreSuite)
	s.NewStore = func() leaderboard.Store {
		s.mini = miniredis.RunT(s.T())
		s.client = redis.NewClient(&redis.Options{Addr: s.mini.Addr()})
		s.redis = NewWithClient(s.client, DefaultConfig())
		return s.redis
	}
	suite.Run(t, s)
}

func (s *StoreSuite) TearDownTest() {
	if s.redis != nil {
		_ = s.redis.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StoreSuite) TestKeyLayout() {
	ctx := context.Background()
	s.Require().NoError(s.redis.Add(ctx, leaderboard.Entry{
		Key:  leaderboard.Key{Player: "alice", BoardID: "3E", Mode: game.ModeNormal},
		Time: 2500 * time.Millisecond,
		Date: time.Unix(0, 42),
	}))

	s.True(s.mini.Exists("ffsweep:times:NORMAL:3E:alice"))
	score, err := s.mini.ZScore("ffsweep:times:NORMAL:3E:alice", "42")
	s.Require().NoError(err)
	s.Equal(2500.0, score)

	isMember, err := s.mini.SIsMember("ffsweep:idx:players", "alice")
	s.Require().NoError(err)
	s.True(isMember)
}

func (s *StoreSuite) TestNewRejectsBadURL() {
	_, err := New(Config{URL: "not a url"})
	s.Error(err)
}

func (s *StoreSuite) TestNewConnects() {
	cfg := DefaultConfig()
	cfg.URL = "redis://" + s.mini.Addr()

	store, err := New(cfg)
	s.Require().NoError(err)
	s.NoError(store.Close())
}
