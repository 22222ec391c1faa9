package memory

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"gopkg.in/yaml.v2"

	"github.com/they4kman/ffsweep/leaderboard"
)

// Store is an in-memory leaderboard that can be dumped to and loaded from YAML
type Store struct {
	mu sync.RWMutex

	times      map[leaderboard.Key][]leaderboard.Entry
	boardNames map[string]string
}

func New() *Store {
	return &Store{
		times:      make(map[leaderboard.Key][]leaderboard.Entry),
		boardNames: make(map[string]string),
	}
}

// Ensure Store implements the interface
var _ leaderboard.Store = (*Store)(nil)

type document struct {
	Entries    []leaderboard.Entry `yaml:"entries"`
	BoardNames map[string]string   `yaml:"board_names,omitempty"`
}

// Load reads a document written by Save
func Load(r io.Reader) (*Store, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading leaderboard: %w", err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing leaderboard: %w", err)
	}

	store := New()
	for _, entry := range doc.Entries {
		if err := store.Add(context.Background(), entry); err != nil {
			return nil, err
		}
	}
	for boardID, name := range doc.BoardNames {
		store.boardNames[boardID] = name
	}
	return store, nil
}

func (s *Store) Save(w io.Writer) error {
	s.mu.RLock()
	doc := document{BoardNames: s.boardNames}
	for _, entries := range s.times {
		doc.Entries = append(doc.Entries, entries...)
	}
	s.mu.RUnlock()

	sort.SliceStable(doc.Entries, func(i, j int) bool {
		a, b := doc.Entries[i], doc.Entries[j]
		if a.Player != b.Player {
			return a.Player < b.Player
		}
		if a.BoardID != b.BoardID {
			return a.BoardID < b.BoardID
		}
		if a.Mode != b.Mode {
			return a.Mode < b.Mode
		}
		return a.Time < b.Time
	})

	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("serializing leaderboard: %w", err)
	}
	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("writing leaderboard: %w", err)
	}
	return nil
}

func (s *Store) Add(ctx context.Context, entry leaderboard.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	entries := append(s.times[entry.Key], entry)
	leaderboard.SortEntries(entries)
	s.times[entry.Key] = entries
	return nil
}

func (s *Store) Times(ctx context.Context, key leaderboard.Key) ([]leaderboard.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]leaderboard.Entry, len(s.times[key]))
	copy(entries, s.times[key])
	return entries, nil
}

func (s *Store) Players(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for key := range s.times {
		seen[key.Player] = struct{}{}
	}
	return sortedKeys(seen), nil
}

func (s *Store) Boards(ctx context.Context, player string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for key := range s.times {
		if key.Player == player {
			seen[key.BoardID] = struct{}{}
		}
	}
	return sortedKeys(seen), nil
}

func (s *Store) BoardName(ctx context.Context, boardID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.boardNames[boardID], nil
}

func (s *Store) RenameBoard(ctx context.Context, boardID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if name == "" {
		delete(s.boardNames, boardID)
	} else {
		s.boardNames[boardID] = name
	}
	return nil
}

func (s *Store) RenamePlayer(ctx context.Context, from, to string) error {
	if to == "" {
		return fmt.Errorf("%w: empty player", leaderboard.ErrInvalidEntry)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var keys []leaderboard.Key
	for key := range s.times {
		if key.Player == from {
			keys = append(keys, key)
		}
	}
	if len(keys) == 0 {
		return fmt.Errorf("%w: player %q", leaderboard.ErrNotFound, from)
	}
	if from == to {
		return nil
	}

	for _, key := range keys {
		entries := s.times[key]
		delete(s.times, key)

		renamed := key
		renamed.Player = to
		for i := range entries {
			entries[i].Player = to
		}
		merged := append(s.times[renamed], entries...)
		leaderboard.SortEntries(merged)
		s.times[renamed] = merged
	}
	return nil
}

func (s *Store) DeleteBoard(ctx context.Context, player, boardID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, mode := range leaderboard.Modes {
		delete(s.times, leaderboard.Key{Player: player, BoardID: boardID, Mode: mode})
	}
	return nil
}

func (s *Store) DeleteTime(ctx context.Context, entry leaderboard.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.times[entry.Key]
	for i, existing := range entries {
		if existing.Time == entry.Time && existing.Date.Equal(entry.Date) {
			entries = append(entries[:i], entries[i+1:]...)
			if len(entries) == 0 {
				delete(s.times, entry.Key)
			} else {
				s.times[entry.Key] = entries
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %s at %v", leaderboard.ErrNotFound, entry.Player, entry.Time)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
