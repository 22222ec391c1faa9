package redis

import (
	"fmt"

	"github.com/they4kman/ffsweep/game"
)

// Key prefix for all leaderboard data
const keyPrefix = "ffsweep"

// timesKey returns the Redis key for the ZSET of a player's times on a board,
// scored by milliseconds
func timesKey(mode game.Mode, boardID, player string) string {
	return fmt.Sprintf("%s:times:%s:%s:%s", keyPrefix, mode, boardID, player)
}

// playersIndexKey returns the Redis key for the SET of players holding times
func playersIndexKey() string {
	return fmt.Sprintf("%s:idx:players", keyPrefix)
}

// boardsIndexKey returns the Redis key for the SET of boards a player holds times on
func boardsIndexKey(player string) string {
	return fmt.Sprintf("%s:idx:boards:%s", keyPrefix, player)
}

// boardNameKey returns the Redis key for a board's display name
func boardNameKey(boardID string) string {
	return fmt.Sprintf("%s:board_name:%s", keyPrefix, boardID)
}
