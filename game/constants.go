package game

import (
	"fmt"
	"strconv"
	"strings"
)

type State int

const (
	Draw State = iota
	Sweep
	Pause
	Won
	Lost
)

var stateNames = map[State]string{
	Draw:  "DRAW",
	Sweep: "SWEEP",
	Pause: "PAUSE",
	Won:   "WON",
	Lost:  "LOST",
}

func (state State) String() string {
	if name, ok := stateNames[state]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(state))
}

// IsTerminal returns whether the game is over
func (state State) IsTerminal() bool {
	return state == Won || state == Lost
}

// ParseState is the inverse of State.String
func ParseState(name string) (State, error) {
	for state, stateName := range stateNames {
		if stateName == name {
			return state, nil
		}
	}
	return Draw, fmt.Errorf("unknown state %q", name)
}

// Mode groups leaderboard times by rule set
type Mode string

const (
	ModeNormal Mode = "NORMAL"
	ModeMulti  Mode = "MULTI"
)

type ClickMode int

const (
	ClickUncover ClickMode = iota
	ClickFlag
)

type Direction int

const (
	NorthWest Direction = iota
	North
	NorthEast
	West
	East
	SouthWest
	South
	SouthEast

	numDirections = 8
)

// Directions in canonical linking order
var Directions = [numDirections]Direction{NorthWest, North, NorthEast, West, East, SouthWest, South, SouthEast}

var directionOffsets = [numDirections]Position{
	NorthWest: {-1, -1},
	North:     {-1, 0},
	NorthEast: {-1, 1},
	West:      {0, -1},
	East:      {0, 1},
	SouthWest: {1, -1},
	South:     {1, 0},
	SouthEast: {1, 1},
}

func (direction Direction) String() string {
	return [...]string{"nw", "n", "ne", "w", "e", "sw", "s", "se"}[direction]
}

const (
	// Uncalculated is the value of a cell that has not been revealed
	Uncalculated = -1

	MaxMinesPerCell = 5
	MaxMines        = 999
	MinSweepCells   = 9
)

type Difficulty float64

const (
	Easy   Difficulty = 0.13
	Medium Difficulty = 0.16
	Hard   Difficulty = 0.207
	Expert Difficulty = 0.25
)

var difficultyNames = map[string]Difficulty{
	"easy":   Easy,
	"medium": Medium,
	"hard":   Hard,
	"expert": Expert,
}

// ParseDifficulty accepts a preset name or a fraction in (0, 1)
func ParseDifficulty(value string) (Difficulty, error) {
	if difficulty, ok := difficultyNames[strings.ToLower(strings.TrimSpace(value))]; ok {
		return difficulty, nil
	}

	fraction, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || fraction <= 0 || fraction >= 1 {
		return 0, &ValidationError{Reason: fmt.Sprintf("difficulty %q", value), Err: ErrInvalidDifficulty}
	}
	return Difficulty(fraction), nil
}

func (difficulty Difficulty) String() string {
	for name, preset := range difficultyNames {
		if preset == difficulty {
			return name
		}
	}
	return strconv.FormatFloat(float64(difficulty), 'g', -1, 64)
}
