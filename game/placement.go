package game

import (
	"math"

	"github.com/they4kman/ffsweep/util/random"
)

// likelihoodEpsilon is how close to 1 the stacking likelihood must be before
// the spread formula is replaced by its limit
const likelihoodEpsilon = 1e-9

type MultimineConfig struct {
	Enabled bool `yaml:"enabled"`
	// Increase is added to the difficulty when multimines are enabled
	Increase float64 `yaml:"mine_increase"`
	// Likelihood is the fraction of a batch of mined cells that receive another mine
	Likelihood float64 `yaml:"stack_likelihood"`
	// Spread scales the number of cells mines are spread over
	Spread float64 `yaml:"spread"`
}

func DefaultMultimineConfig() MultimineConfig {
	return MultimineConfig{
		Enabled:    false,
		Increase:   0.05,
		Likelihood: 0.1,
		Spread:     1,
	}
}

func (config MultimineConfig) Validate() error {
	if !config.Enabled {
		return nil
	}
	if config.Increase < 0 || config.Increase >= 1 {
		return invalid(ErrInvalidMultimine, "mine increase %g outside [0, 1)", config.Increase)
	}
	if config.Likelihood <= 0 || config.Likelihood > 1 {
		return invalid(ErrInvalidMultimine, "stack likelihood %g outside (0, 1]", config.Likelihood)
	}
	if config.Spread <= 0 {
		return invalid(ErrInvalidMultimine, "spread %g must be positive", config.Spread)
	}
	return nil
}

// Placement describes how a minefield is laid out. It depends only on the
// number of enabled cells and the settings, so regenerating a minefield with
// the same Placement cannot fail.
type Placement struct {
	NumMines     int
	SquaresToWin int
	// Rounds holds the number of cells receiving a mine in each round. The
	// first round covers every occupied cell.
	Rounds []int
}

// PlanPlacement computes the Placement for enabledCount cells. It returns a
// PlacementError when stacked mines would need more than MaxMinesPerCell rounds.
func PlanPlacement(enabledCount int, difficulty Difficulty, multimine MultimineConfig) (Placement, error) {
	effective := float64(difficulty)
	if multimine.Enabled {
		effective += multimine.Increase
	}

	numMines := int(math.Floor(float64(enabledCount) * effective))
	if numMines > MaxMines {
		numMines = MaxMines
	}
	if numMines <= 0 {
		return Placement{NumMines: 0, SquaresToWin: enabledCount}, nil
	}

	if !multimine.Enabled {
		return Placement{
			NumMines:     numMines,
			SquaresToWin: enabledCount - numMines,
			Rounds:       []int{numMines},
		}, nil
	}

	p := multimine.Likelihood
	ratio := float64(numMines) / float64(enabledCount)
	var spread float64
	if 1-p < likelihoodEpsilon {
		spread = multimine.Spread * ratio * 0.2
	} else {
		spread = multimine.Spread * ratio * (1 - p) / (1 - math.Pow(p, MaxMinesPerCell))
	}

	seed := int(math.Ceil(float64(enabledCount) * spread))
	if seed > numMines {
		seed = numMines
	}
	if seed > enabledCount {
		seed = enabledCount
	}
	if seed < 1 {
		seed = 1
	}

	var rounds []int
	remaining := numMines
	batch := seed
	for remaining > 0 {
		if len(rounds) == MaxMinesPerCell {
			return Placement{}, &PlacementError{
				NumMines:   numMines,
				Placed:     numMines - remaining,
				SeedCells:  seed,
				Likelihood: p,
				Spread:     multimine.Spread,
			}
		}

		take := batch
		if take > remaining {
			take = remaining
		}
		rounds = append(rounds, take)
		remaining -= take
		batch = int(math.Ceil(float64(batch) * p))
	}

	return Placement{
		NumMines:     numMines,
		SquaresToWin: enabledCount - seed,
		Rounds:       rounds,
	}, nil
}

// OccupiedCells is the number of cells holding at least one mine
func (placement Placement) OccupiedCells() int {
	if len(placement.Rounds) == 0 {
		return 0
	}
	return placement.Rounds[0]
}

// MinePlacer lays mines onto a board following a Placement
type MinePlacer struct {
	Rand random.Random
}

// Place adds mines to the given enabled cells. Each round samples, without
// replacement, a subset of the cells mined in the previous round.
func (placer MinePlacer) Place(board *Board, cells []Position, placement Placement) {
	batch := make([]Position, len(cells))
	copy(batch, cells)

	for _, size := range placement.Rounds {
		random.Shuffle(placer.Rand, batch, size)
		batch = batch[:size]
		for _, pos := range batch {
			board.CellAt(pos).mineCount++
		}
	}
}
