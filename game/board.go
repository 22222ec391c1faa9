package game

import (
	"strings"
)

// Bounds limits the dimensions a board may be resized to
type Bounds struct {
	MinRows int `yaml:"min_rows"`
	MaxRows int `yaml:"max_rows"`
	MinCols int `yaml:"min_cols"`
	MaxCols int `yaml:"max_cols"`
}

func DefaultBounds() Bounds {
	return Bounds{MinRows: 1, MaxRows: 60, MinCols: 1, MaxCols: 60}
}

// Check returns a ValidationError if rows x cols falls outside the bounds
func (bounds Bounds) Check(rows, cols int) error {
	if rows < bounds.MinRows || rows > bounds.MaxRows || cols < bounds.MinCols || cols > bounds.MaxCols {
		return invalid(ErrBoardSize, "%dx%d outside %d-%d rows, %d-%d columns",
			rows, cols, bounds.MinRows, bounds.MaxRows, bounds.MinCols, bounds.MaxCols)
	}
	return nil
}

// Board holds the free-form shape (the enabled mask) and every cell of the grid
type Board struct {
	rows, cols int
	bounds     Bounds
	cells      [][]Cell
}

func NewBoard(rows, cols int, bounds Bounds) (*Board, error) {
	if err := bounds.Check(rows, cols); err != nil {
		return nil, err
	}

	board := &Board{bounds: bounds}
	board.allocate(rows, cols)
	return board, nil
}

func (board *Board) allocate(rows, cols int) {
	previous := board.cells

	board.rows, board.cols = rows, cols
	board.cells = make([][]Cell, rows)
	for row := 0; row < rows; row++ {
		board.cells[row] = make([]Cell, cols)
		for col := 0; col < cols; col++ {
			board.cells[row][col] = newCell(Position{Row: row, Col: col})
			if row < len(previous) && col < len(previous[row]) {
				board.cells[row][col].enabled = previous[row][col].enabled
			}
		}
	}
}

func (board *Board) Rows() int {
	return board.rows
}

func (board *Board) Cols() int {
	return board.cols
}

func (board *Board) Bounds() Bounds {
	return board.bounds
}

func (board *Board) NumCells() int {
	return board.rows * board.cols
}

func (board *Board) InBounds(pos Position) bool {
	return pos.Row >= 0 && pos.Col >= 0 && pos.Row < board.rows && pos.Col < board.cols
}

// CellAt returns the cell at pos, or nil when pos is off the board
func (board *Board) CellAt(pos Position) *Cell {
	if board.InBounds(pos) {
		return &board.cells[pos.Row][pos.Col]
	}
	return nil
}

// Cells returns every cell in row-major order
func (board *Board) Cells() []*Cell {
	cells := make([]*Cell, 0, board.NumCells())
	for row := range board.cells {
		for col := range board.cells[row] {
			cells = append(cells, &board.cells[row][col])
		}
	}
	return cells
}

// EnabledCells returns the positions of the enabled cells in row-major order
func (board *Board) EnabledCells() []Position {
	var enabled []Position
	for _, cell := range board.Cells() {
		if cell.enabled {
			enabled = append(enabled, cell.pos)
		}
	}
	return enabled
}

func (board *Board) EnabledCount() int {
	count := 0
	for _, cell := range board.Cells() {
		if cell.enabled {
			count++
		}
	}
	return count
}

// Resize changes the board dimensions, keeping the mask of the overlapping area
func (board *Board) Resize(rows, cols int) error {
	if err := board.bounds.Check(rows, cols); err != nil {
		return err
	}
	board.allocate(rows, cols)
	return nil
}

// ToggleEnabled flips whether the cell is part of the shape and drops its links
func (board *Board) ToggleEnabled(pos Position) bool {
	cell := board.CellAt(pos)
	if cell == nil {
		return false
	}
	cell.enabled = !cell.enabled
	cell.unlink()
	return true
}

func (board *Board) setAllEnabled(enabled func(*Cell) bool) {
	for _, cell := range board.Cells() {
		cell.enabled = enabled(cell)
		cell.unlink()
	}
}

// Fill enables every cell
func (board *Board) Fill() {
	board.setAllEnabled(func(*Cell) bool { return true })
}

// Clear disables every cell
func (board *Board) Clear() {
	board.setAllEnabled(func(*Cell) bool { return false })
}

// Invert toggles every cell
func (board *Board) Invert() {
	board.setAllEnabled(func(cell *Cell) bool { return !cell.enabled })
}

// LinkNeighbors records the enabled neighbours of the cell at pos, in
// canonical direction order
func (board *Board) LinkNeighbors(pos Position) {
	cell := board.CellAt(pos)
	if cell == nil {
		return
	}

	cell.unlink()
	for _, direction := range Directions {
		neighborPos := pos.Offset(direction)
		if neighbor := board.CellAt(neighborPos); neighbor != nil && neighbor.enabled {
			cell.neighbors[direction] = neighborPos
			cell.linked[direction] = true
		}
	}
}

func (board *Board) LinkAll() {
	for _, cell := range board.Cells() {
		board.LinkNeighbors(cell.pos)
	}
}

// reset clears the game state of every cell, keeping the mask
func (board *Board) reset() {
	for _, cell := range board.Cells() {
		cell.reset()
	}
}

// neighbors resolves the linked neighbours of cell through the board
func (board *Board) neighbors(cell *Cell) []*Cell {
	neighbors := make([]*Cell, 0, numDirections)
	for _, direction := range Directions {
		if cell.linked[direction] {
			neighbors = append(neighbors, board.CellAt(cell.neighbors[direction]))
		}
	}
	return neighbors
}

// Mask returns one bit row per board row, '1' for enabled cells
func (board *Board) Mask() []string {
	mask := make([]string, board.rows)
	for row := range board.cells {
		var bits strings.Builder
		for col := range board.cells[row] {
			if board.cells[row][col].enabled {
				bits.WriteByte('1')
			} else {
				bits.WriteByte('0')
			}
		}
		mask[row] = bits.String()
	}
	return mask
}

// LoadMask replaces the shape with bit rows anchored at the top-left corner.
// Rows may be shorter than the board; missing cells are disabled.
func (board *Board) LoadMask(rows []string) error {
	longest := 0
	for i, row := range rows {
		if len(row) > longest {
			longest = len(row)
		}
		if strings.Trim(row, "01") != "" {
			return invalid(ErrInvalidRows, "row %d holds characters other than 0 and 1", i+1)
		}
	}
	if len(rows) > board.rows || longest > board.cols {
		return invalid(ErrBoardTooLarge, "%dx%d board does not fit %dx%d", len(rows), longest, board.rows, board.cols)
	}

	board.Clear()
	for row, bits := range rows {
		for col, bit := range bits {
			if bit == '1' {
				board.cells[row][col].enabled = true
			}
		}
	}
	return nil
}
