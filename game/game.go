package game

import (
	"github.com/sirupsen/logrus"

	"github.com/they4kman/ffsweep/util/clock"
	"github.com/they4kman/ffsweep/util/random"
)

var log = logrus.New()

type EngineConfig struct {
	Rows, Cols int
	Bounds     Bounds

	// Whether the first reveal of a game is guaranteed not to hit a mine
	GraceRule bool
	// Whether flagging is disabled entirely
	Flagless bool

	// Source of randomness for mine placement; seeded from the clock when nil
	Rand random.Random
	// Time source for the game timer; the system clock when nil
	Clock clock.Clock
	// Logger for engine events; a package-level logrus logger when nil
	Logger logrus.FieldLogger
}

func NewEngineConfig() EngineConfig {
	return EngineConfig{
		Rows:      28,
		Cols:      30,
		Bounds:    DefaultBounds(),
		GraceRule: true,
		Flagless:  false,
	}
}
