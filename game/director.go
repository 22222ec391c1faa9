package game

// Director plays a game through the same entry points a player uses
type Director interface {
	// Init prepares the director for the engine's current game
	Init(*Engine)

	// Act performs a single step of actions, returning false when the
	// director found nothing left to do
	Act() bool
}

// Autoplay lets director act until the game ends, the director gives up or
// maxSteps is reached. It returns the final state and the steps taken.
func Autoplay(engine *Engine, director Director, maxSteps int) (State, int) {
	director.Init(engine)

	steps := 0
	for steps < maxSteps && engine.State() == Sweep {
		steps++
		if !director.Act() {
			break
		}
	}

	engine.log.WithField("state", engine.State()).WithField("steps", steps).Debug("autoplay finished")
	return engine.State(), steps
}
