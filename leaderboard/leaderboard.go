package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/they4kman/ffsweep/game"
)

var (
	ErrNotFound     = errors.New("leaderboard entry not found")
	ErrInvalidEntry = errors.New("invalid leaderboard entry")
)

// Key groups the times of one player on one board shape under one rule set
type Key struct {
	Player  string    `yaml:"player"`
	BoardID string    `yaml:"board_id"`
	Mode    game.Mode `yaml:"mode"`
}

type Entry struct {
	Key  `yaml:",inline"`
	Time time.Duration `yaml:"time"`
	Date time.Time     `yaml:"date"`
}

// Store persists winning times. Implementations are safe for concurrent use.
type Store interface {
	Add(ctx context.Context, entry Entry) error
	// Times returns the entries for key, fastest first
	Times(ctx context.Context, key Key) ([]Entry, error)
	// Players returns every player holding at least one time, sorted
	Players(ctx context.Context) ([]string, error)
	// Boards returns the IDs of the boards player holds times on, sorted
	Boards(ctx context.Context, player string) ([]string, error)

	BoardName(ctx context.Context, boardID string) (string, error)
	RenameBoard(ctx context.Context, boardID, name string) error
	// RenamePlayer moves every time held by from over to to
	RenamePlayer(ctx context.Context, from, to string) error

	// DeleteBoard drops every time player holds on the board, in all modes
	DeleteBoard(ctx context.Context, player, boardID string) error
	DeleteTime(ctx context.Context, entry Entry) error
}

// Modes lists the rule sets times are grouped by
var Modes = []game.Mode{game.ModeNormal, game.ModeMulti}

func (key Key) Validate() error {
	if key.Player == "" {
		return fmt.Errorf("%w: empty player", ErrInvalidEntry)
	}
	if key.BoardID == "" {
		return fmt.Errorf("%w: empty board id", ErrInvalidEntry)
	}
	if key.Mode != game.ModeNormal && key.Mode != game.ModeMulti {
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidEntry, key.Mode)
	}
	return nil
}

func (entry Entry) Validate() error {
	if err := entry.Key.Validate(); err != nil {
		return err
	}
	if entry.Time <= 0 {
		return fmt.Errorf("%w: time %v", ErrInvalidEntry, entry.Time)
	}
	return nil
}

// FromGame builds the entry for a won game
func FromGame(engine *game.Engine, player string, date time.Time) (Entry, error) {
	if engine.State() != game.Won {
		return Entry{}, fmt.Errorf("%w: game is %s, not won", ErrInvalidEntry, engine.State())
	}

	entry := Entry{
		Key: Key{
			Player:  player,
			BoardID: engine.BoardID(),
			Mode:    engine.Session().Mode(),
		},
		Time: engine.Elapsed().Truncate(time.Millisecond),
		Date: date,
	}
	if entry.Time <= 0 {
		entry.Time = time.Millisecond
	}
	return entry, entry.Validate()
}

// SortEntries orders entries fastest first, oldest first among equal times
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Time != entries[j].Time {
			return entries[i].Time < entries[j].Time
		}
		return entries[i].Date.Before(entries[j].Date)
	})
}
