package game

import (
	"fmt"
)

type Position struct {
	Row int
	Col int
}

func (pos Position) String() string {
	return fmt.Sprintf("(%d, %d)", pos.Row, pos.Col)
}

// Offset returns the position one step away in the given direction
func (pos Position) Offset(direction Direction) Position {
	offset := directionOffsets[direction]
	return Position{Row: pos.Row + offset.Row, Col: pos.Col + offset.Col}
}

// Cell is a single square of the board. Only the engine mutates cells;
// everything else reads them through the accessors.
type Cell struct {
	pos Position

	enabled   bool
	mineCount int
	covered   bool
	flagCount int
	value     int

	// Neighbours are stored as positions into the owning board
	neighbors [numDirections]Position
	linked    [numDirections]bool

	isLosingMine bool
	isWrongFlag  bool
}

func newCell(pos Position) Cell {
	return Cell{pos: pos, covered: true, value: Uncalculated}
}

func (cell *Cell) String() string {
	return fmt.Sprintf("Cell(%v, %v)", cell.pos.Row, cell.pos.Col)
}

func (cell *Cell) Position() Position {
	return cell.pos
}

func (cell *Cell) Enabled() bool {
	return cell.enabled
}

func (cell *Cell) MineCount() int {
	return cell.mineCount
}

func (cell *Cell) IsMine() bool {
	return cell.mineCount > 0
}

func (cell *Cell) Covered() bool {
	return cell.covered
}

func (cell *Cell) FlagCount() int {
	return cell.flagCount
}

func (cell *Cell) IsFlagged() bool {
	return cell.flagCount > 0
}

// Value is the number of mines around an uncovered cell, or Uncalculated
func (cell *Cell) Value() int {
	return cell.value
}

// IsLosingMine returns whether revealing this cell lost the game
func (cell *Cell) IsLosingMine() bool {
	return cell.isLosingMine
}

// IsWrongFlag returns whether the cell was shown as incorrectly flagged on loss
func (cell *Cell) IsWrongFlag() bool {
	return cell.isWrongFlag
}

// Neighbor returns the linked neighbour in the given direction
func (cell *Cell) Neighbor(direction Direction) (Position, bool) {
	return cell.neighbors[direction], cell.linked[direction]
}

// Neighbors returns the linked neighbours in canonical order
func (cell *Cell) Neighbors() []Position {
	neighbors := make([]Position, 0, numDirections)
	for _, direction := range Directions {
		if cell.linked[direction] {
			neighbors = append(neighbors, cell.neighbors[direction])
		}
	}
	return neighbors
}

func (cell *Cell) unlink() {
	cell.linked = [numDirections]bool{}
	cell.neighbors = [numDirections]Position{}
}

// reset clears everything but the enabled mask
func (cell *Cell) reset() {
	enabled := cell.enabled
	*cell = newCell(cell.pos)
	cell.enabled = enabled
}
