package constraint

import (
	"fmt"
	"sort"
	"strings"

	"github.com/they4kman/ffsweep/director/random"
	"github.com/they4kman/ffsweep/game"
	"github.com/they4kman/ffsweep/util/collections"
	rng "github.com/they4kman/ffsweep/util/random"
)

// Director reasons about the numbers on the board. Each step it tries, in
// order: cells an observation proves safe or mined, the cell least likely to
// hold a mine, and finally a random cell.
type Director struct {
	rand   rng.Random
	engine *game.Engine

	fallback   *random.Director
	knownMines collections.Set[game.Position]
}

// Observation states that exactly numMines mines lie among cells
type Observation struct {
	origin    game.Position
	hasOrigin bool
	numMines  int
	cells     collections.Set[game.Position]
}

func (observation Observation) String() string {
	cellsRepr := make([]string, 0, observation.cells.Len())
	for _, pos := range sortedPositions(observation.cells) {
		cellsRepr = append(cellsRepr, pos.String())
	}

	originRepr := "?"
	if observation.hasOrigin {
		originRepr = observation.origin.String()
	}

	return fmt.Sprintf("Obs[%8s, %d ε %s]", originRepr, observation.numMines, strings.Join(cellsRepr, ", "))
}

func (observation Observation) MineProbability() float64 {
	return float64(observation.numMines) / float64(observation.cells.Len())
}

func New(rand rng.Random) *Director {
	return &Director{rand: rand}
}

func (director *Director) Init(engine *game.Engine) {
	director.engine = engine
	director.knownMines = collections.NewSet[game.Position]()
	director.fallback = random.New(director.rand)
	director.fallback.Skip = director.knownMines
	director.fallback.Init(engine)
}

func (director *Director) Act() bool {
	observations := director.observe()
	observations = append(observations, simplify(observations)...)

	actors := []func([]*Observation) bool{
		director.actDeliberate,
		director.actLowestProbability,
	}
	for _, actor := range actors {
		if actor(observations) {
			return true
		}
	}
	return director.fallback.Act()
}

func (director *Director) multimine() bool {
	return director.engine.Session().Multimine.Enabled
}

// observe builds one observation per uncovered cell bordering covered cells
func (director *Director) observe() []*Observation {
	var observations []*Observation

	for _, cell := range director.engine.Board().Cells() {
		if !cell.Enabled() || cell.Covered() || cell.IsMine() {
			continue
		}

		observation := &Observation{
			origin:    cell.Position(),
			hasOrigin: true,
			numMines:  cell.Value(),
			cells:     collections.NewSet[game.Position](),
		}
		for _, pos := range cell.Neighbors() {
			neighbor := director.engine.Cell(pos)
			switch {
			case !neighbor.Covered():
			case director.knownMines.Contains(pos):
				observation.numMines--
			case neighbor.IsFlagged():
				observation.numMines -= neighbor.FlagCount()
			default:
				observation.cells.Add(pos)
			}
		}

		if observation.cells.Len() > 0 {
			observations = append(observations, observation)
		}
	}
	return observations
}

// simplify derives new observations from pairs where one observation's cells
// lie within another's
func simplify(observations []*Observation) []*Observation {
	var derived []*Observation
	for _, inner := range observations {
		for _, outer := range observations {
			if inner == outer || inner.cells.Len() >= outer.cells.Len() || !inner.cells.IsSubsetOf(outer.cells) {
				continue
			}

			split := &Observation{
				numMines: outer.numMines - inner.numMines,
				cells:    outer.cells.Difference(inner.cells),
			}
			if !containsObservation(observations, split) && !containsObservation(derived, split) {
				derived = append(derived, split)
			}
		}
	}
	return derived
}

func containsObservation(observations []*Observation, observation *Observation) bool {
	for _, other := range observations {
		if other.numMines == observation.numMines && other.cells.Equal(observation.cells) {
			return true
		}
	}
	return false
}

func (director *Director) actDeliberate(observations []*Observation) bool {
	acted := false
	for _, observation := range observations {
		if observation.numMines == 0 {
			for _, pos := range sortedPositions(observation.cells) {
				if director.engine.State() != game.Sweep {
					return true
				}
				if cell := director.engine.Cell(pos); cell.Covered() && !cell.IsFlagged() {
					director.engine.Reveal(pos)
					acted = true
				}
			}
		} else if !director.multimine() && observation.numMines == observation.cells.Len() {
			for _, pos := range sortedPositions(observation.cells) {
				if director.knownMines.Contains(pos) {
					continue
				}
				director.knownMines.Add(pos)
				if !director.engine.Flagless() {
					director.engine.ToggleFlag(pos)
				}
				acted = true
			}
		}
	}
	return acted
}

func (director *Director) actLowestProbability(observations []*Observation) bool {
	probabilities := make(map[game.Position]float64)
	for _, observation := range observations {
		probability := observation.MineProbability()
		for pos := range observation.cells {
			if past, ok := probabilities[pos]; !ok || probability < past {
				probabilities[pos] = probability
			}
		}
	}
	if len(probabilities) == 0 {
		return false
	}

	lowest := 1.0
	for _, probability := range probabilities {
		if probability < lowest {
			lowest = probability
		}
	}
	var candidates []game.Position
	for pos, probability := range probabilities {
		if probability <= lowest && !director.knownMines.Contains(pos) {
			candidates = append(candidates, pos)
		}
	}
	if len(candidates) == 0 {
		return false
	}

	sortPositions(candidates)
	director.engine.Reveal(candidates[director.rand.Intn(len(candidates))])
	return true
}

func sortedPositions(set collections.Set[game.Position]) []game.Position {
	positions := make([]game.Position, 0, set.Len())
	for pos := range set {
		positions = append(positions, pos)
	}
	sortPositions(positions)
	return positions
}

func sortPositions(positions []game.Position) {
	sort.Slice(positions, func(i, j int) bool {
		if positions[i].Row != positions[j].Row {
			return positions[i].Row < positions[j].Row
		}
		return positions[i].Col < positions[j].Col
	})
}
