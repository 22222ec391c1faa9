package cmd

import (
	"errors"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/they4kman/ffsweep/leaderboard"
	"github.com/they4kman/ffsweep/leaderboard/memory"
	redisstore "github.com/they4kman/ffsweep/leaderboard/redis"
)

// openStore resolves a leaderboard location. The returned close function
// persists file-backed stores.
func openStore(location string) (leaderboard.Store, func() error, error) {
	switch {
	case location == "memory":
		return memory.New(), func() error { return nil }, nil

	case strings.HasPrefix(location, "redis://"), strings.HasPrefix(location, "rediss://"):
		redisCfg := redisstore.DefaultConfig()
		redisCfg.URL = location
		store, err := redisstore.New(redisCfg)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil

	default:
		store, err := loadStoreFile(location)
		if err != nil {
			return nil, nil, err
		}
		return store, func() error { return saveStoreFile(location, store) }, nil
	}
}

func loadStoreFile(path string) (*memory.Store, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return memory.New(), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return memory.Load(f)
}

func saveStoreFile(path string, store *memory.Store) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := store.Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// withStore opens the configured leaderboard for the duration of fn
func withStore(cmd *cobra.Command, fn func(store leaderboard.Store) error) (err error) {
	store, closeStore, err := openStore(cfg.Leaderboard)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := closeStore(); err == nil {
			err = closeErr
		}
	}()

	return fn(store)
}
