package game

import (
	"github.com/gammazero/deque"
	"github.com/sirupsen/logrus"

	"github.com/they4kman/ffsweep/util/collections"
)

// flood uncovers start and, while uncovered cells have no surrounding mines,
// their unflagged covered neighbours. Each cell is queued at most once.
func (engine *Engine) flood(start *Cell) int {
	var queue deque.Deque
	visited := collections.NewSet(start.pos)
	queue.PushBack(start.pos)

	numVisited := 0
	for queue.Len() > 0 {
		cell := engine.board.CellAt(queue.PopFront().(Position))
		engine.uncover(cell)
		numVisited++

		if cell.value != 0 {
			continue
		}
		for _, neighbor := range engine.board.neighbors(cell) {
			if visited.Contains(neighbor.pos) || !neighbor.covered || neighbor.flagCount > 0 {
				continue
			}
			visited.Add(neighbor.pos)
			queue.PushBack(neighbor.pos)
		}
	}

	engine.log.WithFields(logrus.Fields{
		"origin":  start.pos,
		"visited": numVisited,
	}).Debug("flood fill finished")
	return numVisited
}

func (engine *Engine) uncover(cell *Cell) {
	value := 0
	for _, neighbor := range engine.board.neighbors(cell) {
		value += neighbor.mineCount
	}

	cell.value = value
	cell.covered = false
	engine.session.SquaresCleared++
	engine.markChanged(cell)
}
