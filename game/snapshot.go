package game

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/they4kman/ffsweep/codec"
	"github.com/they4kman/ffsweep/util/collections"
)

// Snapshot captures a game so it can be written out and restored later. Each
// grid row holds one space-separated token per cell: a cover marker followed
// by the mine count and the flag count.
type Snapshot struct {
	BoardID    string          `yaml:"board_id"`
	Rows       int             `yaml:"rows"`
	Cols       int             `yaml:"cols"`
	State      string          `yaml:"state"`
	Difficulty float64         `yaml:"difficulty"`
	Multimine  MultimineConfig `yaml:"multimine"`
	GraceRule  bool            `yaml:"grace_rule"`
	Flagless   bool            `yaml:"flagless"`
	ElapsedMs  int64           `yaml:"elapsed_ms"`
	Grid       []string        `yaml:"grid"`
}

// Cover markers
const (
	markDisabled  = '-'
	markCovered   = '#'
	markUncovered = '.'
	markLosing    = '*'
)

func (engine *Engine) Snapshot() *Snapshot {
	board := engine.board
	grid := make([]string, board.rows)
	for row := range board.cells {
		tokens := make([]string, board.cols)
		for col := range board.cells[row] {
			tokens[col] = cellToken(&board.cells[row][col])
		}
		grid[row] = strings.Join(tokens, " ")
	}

	return &Snapshot{
		BoardID:    engine.BoardID(),
		Rows:       board.rows,
		Cols:       board.cols,
		State:      engine.state.String(),
		Difficulty: float64(engine.session.Difficulty),
		Multimine:  engine.session.Multimine,
		GraceRule:  engine.graceRule,
		Flagless:   engine.flagless,
		ElapsedMs:  engine.Elapsed().Milliseconds(),
		Grid:       grid,
	}
}

func cellToken(cell *Cell) string {
	mark := markCovered
	switch {
	case !cell.enabled:
		mark = markDisabled
	case cell.isLosingMine:
		mark = markLosing
	case !cell.covered:
		mark = markUncovered
	}
	return fmt.Sprintf("%c%d%d", mark, cell.mineCount, cell.flagCount)
}

func (snapshot *Snapshot) Serialize() (string, error) {
	out, err := yaml.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("serializing snapshot: %w", err)
	}
	return string(out), nil
}

func LoadSnapshot(in string) (*Snapshot, error) {
	var snapshot Snapshot
	if err := yaml.Unmarshal([]byte(in), &snapshot); err != nil {
		return nil, invalid(ErrInvalidSnapshot, "%v", err)
	}
	return &snapshot, nil
}

// Restore replaces the engine's board and game with the snapshot. The engine
// is left untouched when the snapshot is inconsistent.
func (engine *Engine) Restore(snapshot *Snapshot) error {
	state, err := ParseState(snapshot.State)
	if err != nil {
		return invalid(ErrInvalidSnapshot, "%v", err)
	}
	board, err := NewBoard(snapshot.Rows, snapshot.Cols, engine.board.bounds)
	if err != nil {
		return err
	}
	if len(snapshot.Grid) != snapshot.Rows {
		return invalid(ErrInvalidSnapshot, "grid has %d rows, expected %d", len(snapshot.Grid), snapshot.Rows)
	}

	session := Session{
		Difficulty: Difficulty(snapshot.Difficulty),
		Multimine:  snapshot.Multimine,
	}
	for row, line := range snapshot.Grid {
		tokens := strings.Fields(line)
		if len(tokens) != snapshot.Cols {
			return invalid(ErrInvalidSnapshot, "grid row %d has %d cells, expected %d", row+1, len(tokens), snapshot.Cols)
		}
		for col, token := range tokens {
			if err := restoreCell(&board.cells[row][col], token, session.MaxFlags()); err != nil {
				return err
			}
		}
	}

	if id := codec.CompressRLE(codec.Compress(board.Mask())); id != snapshot.BoardID {
		return invalid(ErrInvalidSnapshot, "board id %q does not match grid %q", snapshot.BoardID, id)
	}

	var placement Placement
	if state != Draw {
		if err := validateSettings(session.Difficulty, session.Multimine); err != nil {
			return err
		}
		if placement, err = PlanPlacement(board.EnabledCount(), session.Difficulty, session.Multimine); err != nil {
			return err
		}
		board.LinkAll()
	}

	for _, cell := range board.Cells() {
		if !cell.enabled {
			continue
		}
		session.NumMines += cell.mineCount
		session.FlagsPlaced += cell.flagCount
		if cell.mineCount == 0 {
			session.SquaresToWin++
			if !cell.covered {
				session.SquaresCleared++
			}
		}
		if !cell.covered && cell.mineCount > 0 && state != Lost {
			return invalid(ErrInvalidSnapshot, "mine uncovered at %v in %s", cell.pos, state)
		}
		if !cell.covered {
			value := 0
			for _, neighbor := range board.neighbors(cell) {
				value += neighbor.mineCount
			}
			cell.value = value
		}
		if state == Lost && cell.flagCount > 0 && cell.flagCount != cell.mineCount {
			cell.isWrongFlag = true
		}
	}
	if state == Draw && (session.NumMines > 0 || session.FlagsPlaced > 0 || session.SquaresCleared > 0) {
		return invalid(ErrInvalidSnapshot, "drawing board holds game state")
	}
	if state == Draw {
		session = Session{}
	}

	engine.board = board
	engine.state = state
	engine.session = session
	engine.placement = placement
	engine.graceRule = snapshot.GraceRule
	engine.flagless = snapshot.Flagless
	engine.clickMode = ClickUncover
	engine.elapsed = time.Duration(snapshot.ElapsedMs) * time.Millisecond
	engine.running = false
	if state == Sweep {
		engine.resumeTimer()
	}
	engine.changed = collections.NewSet[Position]()

	engine.log.WithField("board", snapshot.BoardID).WithField("state", state).Info("snapshot restored")
	return nil
}

func restoreCell(cell *Cell, token string, maxFlags int) error {
	if len(token) != 3 || token[1] < '0' || token[1] > '0'+MaxMinesPerCell || token[2] < '0' || token[2] > byte('0'+maxFlags) {
		return invalid(ErrInvalidSnapshot, "bad cell %q at %v", token, cell.pos)
	}
	mines, flags := int(token[1]-'0'), int(token[2]-'0')

	switch token[0] {
	case markDisabled:
		if mines != 0 || flags != 0 {
			return invalid(ErrInvalidSnapshot, "disabled cell %v holds mines or flags", cell.pos)
		}
		return nil
	case markCovered:
	case markUncovered:
		cell.covered = false
	case markLosing:
		cell.covered = false
		cell.isLosingMine = true
	default:
		return invalid(ErrInvalidSnapshot, "bad cell %q at %v", token, cell.pos)
	}

	if !cell.covered && flags > 0 {
		return invalid(ErrInvalidSnapshot, "uncovered cell %v holds flags", cell.pos)
	}
	cell.enabled = true
	cell.mineCount = mines
	cell.flagCount = flags
	return nil
}
