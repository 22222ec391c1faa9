package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/they4kman/ffsweep/leaderboard"
)

// Store is a Redis-backed leaderboard. Each time is a ZSET member named by the
// date it was set, in Unix nanoseconds.
type Store struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis store and verifies the connection
func New(cfg Config) (*Store, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to leaderboard: %w", err)
	}

	return &Store{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis store with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Store {
	return &Store{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Store) Close() error {
	return s.client.Close()
}

// Ensure Store implements the interface
var _ leaderboard.Store = (*Store)(nil)

func member(date time.Time) string {
	return strconv.FormatInt(date.UnixNano(), 10)
}

func (s *Store) Add(ctx context.Context, entry leaderboard.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.ZAdd(ctx, timesKey(entry.Mode, entry.BoardID, entry.Player), redis.Z{
		Score:  float64(entry.Time.Milliseconds()),
		Member: member(entry.Date),
	})
	pipe.SAdd(ctx, playersIndexKey(), entry.Player)
	pipe.SAdd(ctx, boardsIndexKey(entry.Player), entry.BoardID)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Store) Times(ctx context.Context, key leaderboard.Key) ([]leaderboard.Entry, error) {
	scored, err := s.client.ZRangeWithScores(ctx, timesKey(key.Mode, key.BoardID, key.Player), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]leaderboard.Entry, 0, len(scored))
	for _, z := range scored {
		name, ok := z.Member.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected member %v in %s", z.Member, timesKey(key.Mode, key.BoardID, key.Player))
		}
		nanos, err := strconv.ParseInt(name, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing date of %s: %w", name, err)
		}

		entries = append(entries, leaderboard.Entry{
			Key:  key,
			Time: time.Duration(z.Score) * time.Millisecond,
			Date: time.Unix(0, nanos).UTC(),
		})
	}
	leaderboard.SortEntries(entries)
	return entries, nil
}

func (s *Store) Players(ctx context.Context) ([]string, error) {
	return s.sortedMembers(ctx, playersIndexKey())
}

func (s *Store) Boards(ctx context.Context, player string) ([]string, error) {
	return s.sortedMembers(ctx, boardsIndexKey(player))
}

func (s *Store) sortedMembers(ctx context.Context, key string) ([]string, error) {
	members, err := s.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(members)
	return members, nil
}

func (s *Store) BoardName(ctx context.Context, boardID string) (string, error) {
	name, err := s.client.Get(ctx, boardNameKey(boardID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return name, err
}

func (s *Store) RenameBoard(ctx context.Context, boardID, name string) error {
	if name == "" {
		return s.client.Del(ctx, boardNameKey(boardID)).Err()
	}
	return s.client.Set(ctx, boardNameKey(boardID), name, 0).Err()
}

func (s *Store) RenamePlayer(ctx context.Context, from, to string) error {
	if to == "" {
		return fmt.Errorf("%w: empty player", leaderboard.ErrInvalidEntry)
	}

	boards, err := s.Boards(ctx, from)
	if err != nil {
		return err
	}
	if len(boards) == 0 {
		return fmt.Errorf("%w: player %q", leaderboard.ErrNotFound, from)
	}
	if from == to {
		return nil
	}

	type move struct{ source, dest string }
	var moves []move
	for _, boardID := range boards {
		for _, mode := range leaderboard.Modes {
			source := timesKey(mode, boardID, from)
			exists, err := s.client.Exists(ctx, source).Result()
			if err != nil {
				return err
			}
			if exists > 0 {
				moves = append(moves, move{source: source, dest: timesKey(mode, boardID, to)})
			}
		}
	}

	pipe := s.client.TxPipeline()
	for _, m := range moves {
		pipe.ZUnionStore(ctx, m.dest, &redis.ZStore{Keys: []string{m.dest, m.source}, Aggregate: "MIN"})
		pipe.Del(ctx, m.source)
	}
	for _, boardID := range boards {
		pipe.SAdd(ctx, boardsIndexKey(to), boardID)
	}
	pipe.Del(ctx, boardsIndexKey(from))
	pipe.SRem(ctx, playersIndexKey(), from)
	pipe.SAdd(ctx, playersIndexKey(), to)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Store) DeleteBoard(ctx context.Context, player, boardID string) error {
	pipe := s.client.TxPipeline()
	for _, mode := range leaderboard.Modes {
		pipe.Del(ctx, timesKey(mode, boardID, player))
	}
	pipe.SRem(ctx, boardsIndexKey(player), boardID)
	if _, err := pipe.Exec(ctx); err != nil {
		return err
	}
	return s.pruneIndexes(ctx, player, boardID)
}

func (s *Store) DeleteTime(ctx context.Context, entry leaderboard.Entry) error {
	removed, err := s.client.ZRem(ctx, timesKey(entry.Mode, entry.BoardID, entry.Player), member(entry.Date)).Result()
	if err != nil {
		return err
	}
	if removed == 0 {
		return fmt.Errorf("%w: %s at %v", leaderboard.ErrNotFound, entry.Player, entry.Time)
	}
	return s.pruneIndexes(ctx, entry.Player, entry.BoardID)
}

// pruneIndexes drops the board and player from the indexes once they hold no times
func (s *Store) pruneIndexes(ctx context.Context, player, boardID string) error {
	keys := make([]string, 0, len(leaderboard.Modes))
	for _, mode := range leaderboard.Modes {
		keys = append(keys, timesKey(mode, boardID, player))
	}

	remaining, err := s.client.Exists(ctx, keys...).Result()
	if err != nil {
		return err
	}
	if remaining == 0 {
		if err := s.client.SRem(ctx, boardsIndexKey(player), boardID).Err(); err != nil {
			return err
		}
	}

	boards, err := s.client.SCard(ctx, boardsIndexKey(player)).Result()
	if err != nil {
		return err
	}
	if boards == 0 {
		return s.client.SRem(ctx, playersIndexKey(), player).Err()
	}
	return nil
}
