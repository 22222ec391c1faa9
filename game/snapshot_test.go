package game

import (
	"time"
)

func (s *EngineSuite) TestSnapshotGrid() {
	s.startFixture()
	s.engine.Reveal(Position{2, 3})
	s.engine.ToggleFlag(Position{1, 1})
	s.clock.Advance(3 * time.Second)

	snapshot := s.engine.Snapshot()

	s.Equal("SWEEP", snapshot.State)
	s.Equal(3, snapshot.Rows)
	s.Equal(4, snapshot.Cols)
	s.Equal(int64(3000), snapshot.ElapsedMs)
	s.Equal(s.engine.BoardID(), snapshot.BoardID)
	s.Equal([]string{
		"#10 #10 #10 #10",
		"#10 #11 .00 .00",
		"#00 #00 .00 .00",
	}, snapshot.Grid)
}

func (s *EngineSuite) TestSnapshotRoundTrip() {
	s.startFixture()
	s.engine.Reveal(Position{2, 3})
	s.engine.ToggleFlag(Position{1, 1})
	s.clock.Advance(3 * time.Second)

	serialized, err := s.engine.Snapshot().Serialize()
	s.Require().NoError(err)
	loaded, err := LoadSnapshot(serialized)
	s.Require().NoError(err)
	s.Equal(s.engine.Snapshot(), loaded)

	restored := s.newEngine(5, 5, true)
	s.Require().NoError(restored.Restore(loaded))

	s.Equal(Sweep, restored.State())
	s.Equal(3, restored.Board().Rows())
	s.False(restored.GraceRule())
	s.Equal(3*time.Second, restored.Elapsed())
	s.Equal(s.engine.Session(), restored.Session())
	s.Equal(4, restored.Cell(Position{1, 2}).Value())
	s.Equal(s.engine.BoardID(), restored.BoardID())

	s.Equal([]Position{{2, 1}}, restored.Chord(Position{2, 2}).Changed)
}

func (s *EngineSuite) TestRestoreLostGame() {
	s.startFixture()
	s.engine.ToggleFlag(Position{2, 0})
	s.engine.Reveal(Position{1, 1})

	restored := s.newEngine(3, 4, false)
	s.Require().NoError(restored.Restore(s.engine.Snapshot()))

	s.Equal(Lost, restored.State())
	s.True(restored.Cell(Position{1, 1}).IsLosingMine())
	s.True(restored.Cell(Position{2, 0}).IsWrongFlag())
	s.False(restored.Cell(Position{0, 0}).Covered())
}

func (s *EngineSuite) TestRestoreDrawing() {
	s.engine.ToggleEnabled(Position{0, 0})
	snapshot := s.engine.Snapshot()
	s.Equal("-00 #00 #00 #00", snapshot.Grid[0])

	restored := s.newEngine(5, 5, false)
	s.Require().NoError(restored.Restore(snapshot))
	s.Equal(Draw, restored.State())
	s.Equal(11, restored.Board().EnabledCount())
	s.Equal(Session{}, restored.Session())
}

func (s *EngineSuite) TestRestoreRejectsInconsistentSnapshots() {
	s.startFixture()
	s.engine.Reveal(Position{2, 3})

	restored := s.newEngine(5, 5, false)

	wrongID := s.engine.Snapshot()
	wrongID.BoardID = "1E"
	s.ErrorIs(restored.Restore(wrongID), ErrInvalidSnapshot)

	badToken := s.engine.Snapshot()
	badToken.Grid[0] = "#10 #10 #10 #1x"
	s.ErrorIs(restored.Restore(badToken), ErrInvalidSnapshot)

	shortRow := s.engine.Snapshot()
	shortRow.Grid[2] = "#00 #00 .00"
	s.ErrorIs(restored.Restore(shortRow), ErrInvalidSnapshot)

	uncoveredMine := s.engine.Snapshot()
	uncoveredMine.Grid[0] = ".10 #10 #10 #10"
	s.ErrorIs(restored.Restore(uncoveredMine), ErrInvalidSnapshot)

	badState := s.engine.Snapshot()
	badState.State = "FINISHED"
	s.ErrorIs(restored.Restore(badState), ErrInvalidSnapshot)

	s.Equal(Draw, restored.State())
	s.Equal(5, restored.Board().Rows())
}

func (s *EngineSuite) TestLoadSnapshotInvalidYAML() {
	_, err := LoadSnapshot("grid: [")
	s.ErrorIs(err, ErrInvalidSnapshot)
}
