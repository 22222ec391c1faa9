package game

// Session holds the settings and counters of the game being swept
type Session struct {
	Difficulty Difficulty
	Multimine  MultimineConfig

	NumMines       int
	SquaresToWin   int
	SquaresCleared int
	FlagsPlaced    int
}

func (session Session) Mode() Mode {
	if session.Multimine.Enabled {
		return ModeMulti
	}
	return ModeNormal
}

// MaxFlags is the number of flags a single cell may hold
func (session Session) MaxFlags() int {
	if session.Multimine.Enabled {
		return MaxMinesPerCell
	}
	return 1
}

func (session Session) MinesRemaining() int {
	return session.NumMines - session.FlagsPlaced
}

// resetCounters starts the session over with the same settings
func (session *Session) resetCounters() {
	session.SquaresCleared = 0
	session.FlagsPlaced = 0
}
