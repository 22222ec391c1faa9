package game

import (
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/they4kman/ffsweep/codec"
	"github.com/they4kman/ffsweep/util/clock"
	"github.com/they4kman/ffsweep/util/collections"
	"github.com/they4kman/ffsweep/util/random"
)

// Outcome reports the state after an action and the cells the action changed
type Outcome struct {
	State   State
	Changed []Position
}

// BoardView is the read-only side of a Board handed out by the engine
type BoardView interface {
	Rows() int
	Cols() int
	Bounds() Bounds
	NumCells() int
	InBounds(pos Position) bool
	CellAt(pos Position) *Cell
	Cells() []*Cell
	EnabledCells() []Position
	EnabledCount() int
	Mask() []string
}

// Engine runs a single game on a free-form board. It is not safe for
// concurrent use; callers serialize access.
type Engine struct {
	board     *Board
	state     State
	session   Session
	placement Placement
	clickMode ClickMode

	graceRule bool
	flagless  bool

	placer MinePlacer
	clock  clock.Clock
	log    logrus.FieldLogger

	elapsed   time.Duration
	resumedAt time.Time
	running   bool

	changed collections.Set[Position]
}

func NewEngine(config EngineConfig) (*Engine, error) {
	board, err := NewBoard(config.Rows, config.Cols, config.Bounds)
	if err != nil {
		return nil, err
	}

	rand := config.Rand
	if rand == nil {
		rand = random.NewTimeSeeded()
	}
	clk := config.Clock
	if clk == nil {
		clk = clock.New()
	}
	var logger logrus.FieldLogger = log
	if config.Logger != nil {
		logger = config.Logger
	}

	return &Engine{
		board:     board,
		state:     Draw,
		graceRule: config.GraceRule,
		flagless:  config.Flagless,
		placer:    MinePlacer{Rand: rand},
		clock:     clk,
		log:       logger,
		changed:   collections.NewSet[Position](),
	}, nil
}

func (engine *Engine) State() State {
	return engine.state
}

func (engine *Engine) Session() Session {
	return engine.session
}

func (engine *Engine) Board() BoardView {
	return engine.board
}

// Cell returns the cell at pos, or nil when pos is off the board
func (engine *Engine) Cell(pos Position) *Cell {
	return engine.board.CellAt(pos)
}

func (engine *Engine) MinesRemaining() int {
	return engine.session.MinesRemaining()
}

func (engine *Engine) ClickMode() ClickMode {
	return engine.clickMode
}

func (engine *Engine) GraceRule() bool {
	return engine.graceRule
}

func (engine *Engine) Flagless() bool {
	return engine.flagless
}

// Elapsed is the time spent sweeping, excluding pauses
func (engine *Engine) Elapsed() time.Duration {
	if engine.running {
		return engine.elapsed + engine.clock.Now().Sub(engine.resumedAt)
	}
	return engine.elapsed
}

func (engine *Engine) startTimer() {
	engine.elapsed = 0
	engine.resumeTimer()
}

func (engine *Engine) resumeTimer() {
	engine.resumedAt = engine.clock.Now()
	engine.running = true
}

func (engine *Engine) stopTimer() {
	if engine.running {
		engine.elapsed += engine.clock.Now().Sub(engine.resumedAt)
		engine.running = false
	}
}

func (engine *Engine) markChanged(cell *Cell) {
	engine.changed.Add(cell.pos)
}

func (engine *Engine) markAllChanged() {
	for _, cell := range engine.board.Cells() {
		engine.markChanged(cell)
	}
}

// outcome drains the changed set into an Outcome, ordered row-major
func (engine *Engine) outcome() Outcome {
	changed := make([]Position, 0, engine.changed.Len())
	for pos := range engine.changed {
		changed = append(changed, pos)
	}
	sort.Slice(changed, func(i, j int) bool {
		if changed[i].Row != changed[j].Row {
			return changed[i].Row < changed[j].Row
		}
		return changed[i].Col < changed[j].Col
	})
	engine.changed = collections.NewSet[Position]()
	return Outcome{State: engine.state, Changed: changed}
}

func (engine *Engine) setState(state State) {
	if state == engine.state {
		return
	}
	engine.log.WithFields(logrus.Fields{
		"from": engine.state,
		"to":   state,
	}).Info("state changed")
	engine.state = state
}

func (engine *Engine) requireState(op string, states ...State) error {
	for _, state := range states {
		if engine.state == state {
			return nil
		}
	}
	return invalid(ErrWrongState, "%s not allowed in %s", op, engine.state)
}

/*
 * Drawing
 */

func (engine *Engine) Resize(rows, cols int) error {
	if err := engine.requireState("resize", Draw); err != nil {
		return err
	}
	return engine.board.Resize(rows, cols)
}

// ToggleEnabled flips a cell in or out of the board shape
func (engine *Engine) ToggleEnabled(pos Position) Outcome {
	return engine.dispatch(actionToggleEnabled, pos)
}

func (engine *Engine) toggleEnabled(cell *Cell) {
	engine.board.ToggleEnabled(cell.pos)
	engine.markChanged(cell)
}

func (engine *Engine) Fill() error {
	return engine.drawAll("fill", engine.board.Fill)
}

func (engine *Engine) Clear() error {
	return engine.drawAll("clear", engine.board.Clear)
}

func (engine *Engine) Invert() error {
	return engine.drawAll("invert", engine.board.Invert)
}

func (engine *Engine) drawAll(op string, draw func()) error {
	if err := engine.requireState(op, Draw); err != nil {
		return err
	}
	draw()
	return nil
}

// LoadRows replaces the board shape with bit rows anchored at the top-left.
// Rows larger than the current board are rejected.
func (engine *Engine) LoadRows(rows []string) error {
	if err := engine.requireState("load", Draw); err != nil {
		return err
	}
	return engine.board.LoadMask(rows)
}

// Center moves the drawn shape to the middle of the board
func (engine *Engine) Center() error {
	if err := engine.requireState("center", Draw); err != nil {
		return err
	}

	centered, err := codec.Center(engine.Compress(), engine.board.rows, engine.board.cols)
	if err != nil {
		return invalid(ErrBoardTooLarge, "%v", err)
	}
	return engine.board.LoadMask(centered)
}

// Compress returns the bounding box of the enabled cells
func (engine *Engine) Compress() []string {
	return codec.Compress(engine.board.Mask())
}

func (engine *Engine) CompressRLE() string {
	return codec.CompressRLE(engine.Compress())
}

// BoardID identifies the board shape regardless of where it sits on the grid
func (engine *Engine) BoardID() string {
	return engine.CompressRLE()
}

func (engine *Engine) DecompressRLE(encoded string) ([]string, error) {
	return codec.DecompressRLE(encoded)
}

/*
 * Lifecycle
 */

func validateSettings(difficulty Difficulty, multimine MultimineConfig) error {
	if difficulty <= 0 || difficulty >= 1 {
		return invalid(ErrInvalidDifficulty, "%g outside (0, 1)", float64(difficulty))
	}
	if err := multimine.Validate(); err != nil {
		return err
	}
	if multimine.Enabled && float64(difficulty)+multimine.Increase >= 1 {
		return invalid(ErrInvalidDifficulty, "%g plus mine increase %g leaves no safe cells",
			float64(difficulty), multimine.Increase)
	}
	return nil
}

// StartSweep lays a minefield on the drawn board and starts the game
func (engine *Engine) StartSweep(difficulty Difficulty, multimine MultimineConfig) (Session, error) {
	if err := engine.requireState("start sweep", Draw); err != nil {
		return Session{}, err
	}
	if err := validateSettings(difficulty, multimine); err != nil {
		return Session{}, err
	}

	enabled := engine.board.EnabledCells()
	if len(enabled) < MinSweepCells {
		return Session{}, invalid(ErrTooFewCells, "%d enabled, need at least %d", len(enabled), MinSweepCells)
	}

	placement, err := PlanPlacement(len(enabled), difficulty, multimine)
	if err != nil {
		engine.board.reset()
		engine.log.WithError(err).WithFields(logrus.Fields{
			"cells":      len(enabled),
			"difficulty": difficulty,
		}).Error("could not place mines")
		return Session{}, err
	}

	engine.board.LinkAll()
	engine.placement = placement
	engine.session = Session{
		Difficulty:   difficulty,
		Multimine:    multimine,
		NumMines:     placement.NumMines,
		SquaresToWin: placement.SquaresToWin,
	}
	engine.placeMines(enabled)

	engine.clickMode = ClickUncover
	engine.startTimer()
	engine.setState(Sweep)

	engine.log.WithFields(logrus.Fields{
		"board":      engine.BoardID(),
		"mode":       engine.session.Mode(),
		"difficulty": difficulty,
		"mines":      placement.NumMines,
		"toWin":      placement.SquaresToWin,
	}).Info("sweep started")
	return engine.session, nil
}

func (engine *Engine) placeMines(enabled []Position) {
	engine.placer.Place(engine.board, enabled, engine.placement)
	engine.log.WithFields(logrus.Fields{
		"mines":  engine.placement.NumMines,
		"rounds": engine.placement.Rounds,
	}).Debug("mines placed")
}

// NewGame starts over on the same board with the same settings
func (engine *Engine) NewGame() (Session, error) {
	if err := engine.requireState("new game", Sweep, Pause, Won, Lost); err != nil {
		return Session{}, err
	}

	engine.board.reset()
	engine.board.LinkAll()
	engine.session.resetCounters()
	engine.placeMines(engine.board.EnabledCells())

	engine.clickMode = ClickUncover
	engine.startTimer()
	engine.setState(Sweep)
	engine.log.WithField("board", engine.BoardID()).Info("new game")
	return engine.session, nil
}

// StopGame abandons the game and returns to drawing, keeping the shape
func (engine *Engine) StopGame() error {
	if err := engine.requireState("stop game", Sweep, Pause, Won, Lost); err != nil {
		return err
	}

	engine.stopTimer()
	engine.board.reset()
	engine.session = Session{}
	engine.placement = Placement{}
	engine.elapsed = 0
	engine.setState(Draw)
	return nil
}

func (engine *Engine) Pause() error {
	if err := engine.requireState("pause", Sweep); err != nil {
		return err
	}
	engine.stopTimer()
	engine.setState(Pause)
	return nil
}

func (engine *Engine) Resume() error {
	if err := engine.requireState("resume", Pause); err != nil {
		return err
	}
	engine.resumeTimer()
	engine.setState(Sweep)
	return nil
}

/*
 * Sweeping
 */

func (engine *Engine) Reveal(pos Position) Outcome {
	return engine.dispatch(actionReveal, pos)
}

func (engine *Engine) Chord(pos Position) Outcome {
	return engine.dispatch(actionChord, pos)
}

// ForceChord reveals every unflagged neighbour of an uncovered cell without
// comparing flags to its value
func (engine *Engine) ForceChord(pos Position) Outcome {
	return engine.dispatch(actionForceChord, pos)
}

func (engine *Engine) ToggleFlag(pos Position) Outcome {
	return engine.dispatch(actionToggleFlag, pos)
}

func (engine *Engine) AddFlag(pos Position) Outcome {
	return engine.dispatch(actionAddFlag, pos)
}

func (engine *Engine) RemoveFlag(pos Position) Outcome {
	return engine.dispatch(actionRemoveFlag, pos)
}

// Primary performs the click action for the current click mode
func (engine *Engine) Primary(pos Position) Outcome {
	if engine.flagless || engine.clickMode == ClickUncover {
		return engine.Reveal(pos)
	}
	if engine.session.Multimine.Enabled {
		return engine.AddFlag(pos)
	}
	return engine.ToggleFlag(pos)
}

// SwitchClickMode swaps between uncovering and flagging on Primary. Flagless
// games always uncover.
func (engine *Engine) SwitchClickMode() ClickMode {
	if engine.flagless {
		engine.clickMode = ClickUncover
	} else if engine.clickMode == ClickUncover {
		engine.clickMode = ClickFlag
	} else {
		engine.clickMode = ClickUncover
	}
	return engine.clickMode
}

func (engine *Engine) reveal(cell *Cell) {
	if engine.state != Sweep || !cell.enabled || !cell.covered || cell.flagCount > 0 {
		return
	}

	if cell.mineCount > 0 {
		if !engine.graceRule || engine.session.SquaresCleared > 0 {
			engine.lose(cell)
			return
		}
		engine.regenerateUntilSafe(cell)
	}

	engine.flood(cell)
	engine.checkWin()
}

// regenerateUntilSafe lays new minefields until cell holds no mine. Flags
// placed before the first reveal are dropped.
func (engine *Engine) regenerateUntilSafe(cell *Cell) {
	enabled := engine.board.EnabledCells()
	attempts := 0
	for cell.mineCount > 0 {
		for _, pos := range enabled {
			other := engine.board.CellAt(pos)
			other.mineCount = 0
			other.flagCount = 0
		}
		engine.placeMines(enabled)
		attempts++
	}

	engine.session.FlagsPlaced = 0
	engine.markAllChanged()
	engine.log.WithFields(logrus.Fields{
		"cell":     cell.pos,
		"attempts": attempts,
	}).Debug("minefield regenerated for first reveal")
}

func (engine *Engine) lose(losing *Cell) {
	losing.isLosingMine = true
	engine.stopTimer()
	engine.setState(Lost)

	for _, cell := range engine.board.Cells() {
		if !cell.enabled {
			continue
		}
		if cell.mineCount > 0 && cell.flagCount == 0 {
			cell.covered = false
			engine.markChanged(cell)
		}
		if cell.flagCount > 0 && cell.flagCount != cell.mineCount {
			cell.isWrongFlag = true
			engine.markChanged(cell)
		}
	}

	engine.log.WithFields(logrus.Fields{
		"cell":    losing.pos,
		"elapsed": engine.Elapsed(),
	}).Info("game lost")
}

func (engine *Engine) checkWin() {
	if engine.state != Sweep || engine.session.SquaresCleared < engine.session.SquaresToWin {
		return
	}

	engine.stopTimer()
	engine.setState(Won)

	for _, cell := range engine.board.Cells() {
		if cell.enabled && cell.mineCount > 0 && cell.flagCount != cell.mineCount {
			cell.flagCount = cell.mineCount
			engine.markChanged(cell)
		}
	}
	engine.session.FlagsPlaced = engine.session.NumMines

	engine.log.WithFields(logrus.Fields{
		"board":   engine.BoardID(),
		"mode":    engine.session.Mode(),
		"elapsed": engine.Elapsed(),
	}).Info("game won")
}

func (engine *Engine) flagsAround(cell *Cell) int {
	flags := 0
	for _, neighbor := range engine.board.neighbors(cell) {
		flags += neighbor.flagCount
	}
	return flags
}

func (engine *Engine) chord(cell *Cell) {
	if !cell.enabled || cell.covered || cell.flagCount > 0 {
		return
	}
	if engine.flagsAround(cell) != cell.value {
		return
	}
	engine.revealNeighbors(cell)
}

func (engine *Engine) forceChord(cell *Cell) {
	if !cell.enabled || cell.covered || cell.flagCount > 0 {
		return
	}
	engine.revealNeighbors(cell)
}

func (engine *Engine) revealNeighbors(cell *Cell) {
	for _, neighbor := range engine.board.neighbors(cell) {
		if engine.state != Sweep {
			return
		}
		if neighbor.flagCount == 0 {
			engine.reveal(neighbor)
		}
	}
}

func (engine *Engine) canFlag(cell *Cell) bool {
	return !engine.flagless && cell.enabled && cell.covered
}

func (engine *Engine) toggleFlag(cell *Cell) {
	if !engine.canFlag(cell) {
		return
	}
	if cell.flagCount > 0 {
		engine.session.FlagsPlaced -= cell.flagCount
		cell.flagCount = 0
	} else if engine.session.FlagsPlaced < engine.session.NumMines {
		cell.flagCount = 1
		engine.session.FlagsPlaced++
	} else {
		return
	}
	engine.markChanged(cell)
}

func (engine *Engine) addFlag(cell *Cell) {
	if !engine.canFlag(cell) ||
		cell.flagCount >= engine.session.MaxFlags() ||
		engine.session.FlagsPlaced >= engine.session.NumMines {
		return
	}
	cell.flagCount++
	engine.session.FlagsPlaced++
	engine.markChanged(cell)
}

func (engine *Engine) removeFlag(cell *Cell) {
	if !engine.canFlag(cell) || cell.flagCount == 0 {
		return
	}
	cell.flagCount--
	engine.session.FlagsPlaced--
	engine.markChanged(cell)
}
