package game

type cellAction int

const (
	actionReveal cellAction = iota
	actionChord
	actionForceChord
	actionToggleFlag
	actionAddFlag
	actionRemoveFlag
	actionToggleEnabled
)

type cellHandler func(engine *Engine, cell *Cell)

// Cell actions each state responds to. Anything missing from a state's table
// is ignored while in that state.
var dispatchTables = map[State]map[cellAction]cellHandler{
	Draw: {
		actionToggleEnabled: (*Engine).toggleEnabled,
	},
	Sweep: {
		actionReveal:     (*Engine).reveal,
		actionChord:      (*Engine).chord,
		actionForceChord: (*Engine).forceChord,
		actionToggleFlag: (*Engine).toggleFlag,
		actionAddFlag:    (*Engine).addFlag,
		actionRemoveFlag: (*Engine).removeFlag,
	},
	Pause: {},
	Won:   {},
	Lost:  {},
}

func (engine *Engine) dispatch(action cellAction, pos Position) Outcome {
	handler, ok := dispatchTables[engine.state][action]
	if cell := engine.board.CellAt(pos); ok && cell != nil {
		handler(engine, cell)
	}
	return engine.outcome()
}
