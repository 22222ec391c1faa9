package random

import (
	"github.com/they4kman/ffsweep/game"
	"github.com/they4kman/ffsweep/util/collections"
	rng "github.com/they4kman/ffsweep/util/random"
)

// Director reveals covered cells in a random order fixed at Init
type Director struct {
	rand   rng.Random
	engine *game.Engine
	order  []game.Position

	// Skip holds cells the director must never reveal
	Skip collections.Set[game.Position]
}

func New(rand rng.Random) *Director {
	return &Director{rand: rand, Skip: collections.NewSet[game.Position]()}
}

func (director *Director) Init(engine *game.Engine) {
	director.engine = engine
	director.order = engine.Board().EnabledCells()
	rng.Shuffle(director.rand, director.order, len(director.order))
}

// Next returns the next cell that may still be revealed
func (director *Director) Next() (game.Position, bool) {
	for _, pos := range director.order {
		cell := director.engine.Cell(pos)
		if cell.Covered() && !cell.IsFlagged() && !director.Skip.Contains(pos) {
			return pos, true
		}
	}
	return game.Position{}, false
}

func (director *Director) Act() bool {
	pos, ok := director.Next()
	if ok {
		director.engine.Reveal(pos)
	}
	return ok
}
