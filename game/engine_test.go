package game

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/suite"

	"github.com/they4kman/ffsweep/codec"
	"github.com/they4kman/ffsweep/util/mocks"
)

type EngineSuite struct {
	suite.Suite
	rand   *mocks.MockRandom
	clock  *mocks.MockClock
	hook   *test.Hook
	engine *Engine
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.rand = mocks.NewMockRandom()
	s.clock = mocks.NewMockClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	s.engine = s.newEngine(3, 4, false)
}

func (s *EngineSuite) newEngine(rows, cols int, graceRule bool) *Engine {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	s.hook = hook

	config := NewEngineConfig()
	config.Rows, config.Cols = rows, cols
	config.GraceRule = graceRule
	config.Rand = s.rand
	config.Clock = s.clock
	config.Logger = logger

	engine, err := NewEngine(config)
	s.Require().NoError(err)
	s.Require().NoError(engine.Fill())
	return engine
}

// startFixture sweeps the 3x4 board with six mines, laid out as
//
//	M M M M
//	M M 4 2
//	2 2 1 0
func (s *EngineSuite) startFixture() {
	session, err := s.engine.StartSweep(Difficulty(0.5), DefaultMultimineConfig())
	s.Require().NoError(err)
	s.Require().Equal(6, session.NumMines)
}

func (s *EngineSuite) countEntries(message string) int {
	count := 0
	for _, entry := range s.hook.AllEntries() {
		if entry.Message == message {
			count++
		}
	}
	return count
}

func (s *EngineSuite) coveredCount() int {
	count := 0
	for _, cell := range s.engine.Board().Cells() {
		if cell.Covered() {
			count++
		}
	}
	return count
}

// StartSweep tests

func (s *EngineSuite) TestStartSweep() {
	session, err := s.engine.StartSweep(Difficulty(0.5), DefaultMultimineConfig())
	s.Require().NoError(err)

	s.Equal(Sweep, s.engine.State())
	s.Equal(6, session.NumMines)
	s.Equal(6, session.SquaresToWin)
	s.Equal(ModeNormal, session.Mode())
	s.Equal(1, session.MaxFlags())
	s.Equal(6, s.engine.MinesRemaining())

	s.True(s.engine.Cell(Position{0, 3}).IsMine())
	s.True(s.engine.Cell(Position{1, 1}).IsMine())
	s.False(s.engine.Cell(Position{1, 2}).IsMine())
	s.Len(s.engine.Cell(Position{1, 1}).Neighbors(), 8)

	s.Equal(1, s.countEntries("sweep started"))
}

func (s *EngineSuite) TestStartSweepTooFewCells() {
	s.engine = s.newEngine(2, 4, false)

	_, err := s.engine.StartSweep(Easy, DefaultMultimineConfig())
	s.ErrorIs(err, ErrTooFewCells)
	s.Equal(Draw, s.engine.State())
}

func (s *EngineSuite) TestStartSweepInvalidDifficulty() {
	_, err := s.engine.StartSweep(Difficulty(1), DefaultMultimineConfig())
	s.ErrorIs(err, ErrInvalidDifficulty)

	multimine := DefaultMultimineConfig()
	multimine.Enabled = true
	_, err = s.engine.StartSweep(Difficulty(0.97), multimine)
	s.ErrorIs(err, ErrInvalidDifficulty)

	multimine.Likelihood = 0
	_, err = s.engine.StartSweep(Easy, multimine)
	s.ErrorIs(err, ErrInvalidMultimine)

	s.Equal(Draw, s.engine.State())
}

func (s *EngineSuite) TestStartSweepWrongState() {
	s.startFixture()

	_, err := s.engine.StartSweep(Easy, DefaultMultimineConfig())
	s.ErrorIs(err, ErrWrongState)
}

func (s *EngineSuite) TestPlacementErrorAbortsToDraw() {
	s.engine = s.newEngine(10, 10, false)
	multimine := MultimineConfig{Enabled: true, Increase: 0.05, Likelihood: 1, Spread: 0.01}

	_, err := s.engine.StartSweep(Expert, multimine)
	s.ErrorIs(err, ErrPlacementDiverged)

	s.Equal(Draw, s.engine.State())
	s.Equal(100, s.engine.Board().EnabledCount())
	for _, cell := range s.engine.Board().Cells() {
		s.False(cell.IsMine())
		s.Empty(cell.Neighbors())
	}
	s.Equal(logrus.ErrorLevel, s.hook.LastEntry().Level)
}

// Drawing tests

func (s *EngineSuite) TestToggleEnabledInDraw() {
	outcome := s.engine.ToggleEnabled(Position{0, 0})

	s.Equal(Draw, outcome.State)
	s.Equal([]Position{{0, 0}}, outcome.Changed)
	s.False(s.engine.Cell(Position{0, 0}).Enabled())
}

func (s *EngineSuite) TestDrawingLockedWhileSweeping() {
	s.startFixture()

	s.ErrorIs(s.engine.Resize(5, 5), ErrWrongState)
	s.ErrorIs(s.engine.Fill(), ErrWrongState)
	s.ErrorIs(s.engine.Clear(), ErrWrongState)
	s.ErrorIs(s.engine.Invert(), ErrWrongState)
	s.ErrorIs(s.engine.LoadRows([]string{"1"}), ErrWrongState)
	s.ErrorIs(s.engine.Center(), ErrWrongState)

	outcome := s.engine.ToggleEnabled(Position{0, 0})
	s.Empty(outcome.Changed)
	s.True(s.engine.Cell(Position{0, 0}).Enabled())
}

func (s *EngineSuite) TestLoadRowsTooLarge() {
	s.ErrorIs(s.engine.LoadRows([]string{"11111"}), ErrBoardTooLarge)
	s.Equal(12, s.engine.Board().EnabledCount())
}

func (s *EngineSuite) TestCenterAndBoardID() {
	s.engine = s.newEngine(5, 5, false)
	s.Require().NoError(s.engine.Clear())
	s.engine.ToggleEnabled(Position{0, 0})

	s.Require().NoError(s.engine.Center())

	s.True(s.engine.Cell(Position{2, 2}).Enabled())
	s.False(s.engine.Cell(Position{0, 0}).Enabled())
	s.Equal(1, s.engine.Board().EnabledCount())
	s.Equal([]string{"1"}, s.engine.Compress())
	s.Equal(codec.CompressRLE([]string{"1"}), s.engine.BoardID())

	rows, err := s.engine.DecompressRLE(s.engine.BoardID())
	s.Require().NoError(err)
	s.Equal([]string{"1"}, rows)
}

// Reveal tests

func (s *EngineSuite) TestRevealCascade() {
	s.startFixture()

	outcome := s.engine.Reveal(Position{2, 3})

	s.Equal(Sweep, outcome.State)
	s.Equal([]Position{{1, 2}, {1, 3}, {2, 2}, {2, 3}}, outcome.Changed)
	s.Equal(4, s.engine.Cell(Position{1, 2}).Value())
	s.Equal(2, s.engine.Cell(Position{1, 3}).Value())
	s.Equal(1, s.engine.Cell(Position{2, 2}).Value())
	s.Equal(0, s.engine.Cell(Position{2, 3}).Value())
	s.Equal(Uncalculated, s.engine.Cell(Position{2, 0}).Value())
	s.Equal(4, s.engine.Session().SquaresCleared)
}

func (s *EngineSuite) TestRevealNoOps() {
	s.startFixture()
	s.engine.Reveal(Position{2, 2})
	s.engine.ToggleFlag(Position{2, 0})

	s.Empty(s.engine.Reveal(Position{2, 2}).Changed)
	s.Empty(s.engine.Reveal(Position{2, 0}).Changed)
	s.Empty(s.engine.Reveal(Position{7, 7}).Changed)
	s.Equal(1, s.engine.Session().SquaresCleared)
}

func (s *EngineSuite) TestRevealIgnoredOutsideSweep() {
	s.Empty(s.engine.Reveal(Position{2, 3}).Changed)
	s.True(s.engine.Cell(Position{2, 3}).Covered())
}

func (s *EngineSuite) TestRevealMineLoses() {
	s.startFixture()
	s.engine.ToggleFlag(Position{0, 0})
	s.engine.ToggleFlag(Position{2, 0})
	s.engine.Reveal(Position{2, 3})

	outcome := s.engine.Reveal(Position{1, 1})
	s.Equal(Lost, outcome.State)

	losing := s.engine.Cell(Position{1, 1})
	s.True(losing.IsLosingMine())
	s.False(losing.Covered())

	s.False(s.engine.Cell(Position{0, 1}).Covered())
	s.True(s.engine.Cell(Position{0, 0}).Covered())
	s.False(s.engine.Cell(Position{0, 0}).IsWrongFlag())
	s.True(s.engine.Cell(Position{2, 0}).IsWrongFlag())

	s.Empty(s.engine.Reveal(Position{2, 1}).Changed)
	s.True(s.engine.Cell(Position{2, 1}).Covered())
	s.Equal(1, s.countEntries("game lost"))
}

func (s *EngineSuite) TestGraceRuleRegeneratesMinefield() {
	s.rand.QueueIntn(0, 4)
	s.engine = s.newEngine(3, 3, true)
	_, err := s.engine.StartSweep(Easy, DefaultMultimineConfig())
	s.Require().NoError(err)
	s.Require().True(s.engine.Cell(Position{0, 0}).IsMine())

	s.engine.ToggleFlag(Position{2, 2})
	outcome := s.engine.Reveal(Position{0, 0})

	s.Equal(Sweep, outcome.State)
	s.False(s.engine.Cell(Position{0, 0}).IsMine())
	s.False(s.engine.Cell(Position{0, 0}).Covered())
	s.Equal(1, s.engine.Cell(Position{0, 0}).Value())
	s.True(s.engine.Cell(Position{1, 1}).IsMine())
	s.False(s.engine.Cell(Position{2, 2}).IsFlagged())
	s.Zero(s.engine.Session().FlagsPlaced)
	s.Equal(1, s.engine.Session().SquaresCleared)
	s.Len(outcome.Changed, 9)
}

func (s *EngineSuite) TestGraceRuleOnlyCoversFirstReveal() {
	s.engine = s.newEngine(3, 4, true)
	s.startFixture()

	s.engine.Reveal(Position{2, 3})
	outcome := s.engine.Reveal(Position{0, 0})

	s.Equal(Lost, outcome.State)
}

func (s *EngineSuite) TestWinAutoFlagsMines() {
	s.engine = s.newEngine(3, 3, false)
	_, err := s.engine.StartSweep(Easy, DefaultMultimineConfig())
	s.Require().NoError(err)

	outcome := s.engine.Reveal(Position{2, 2})

	s.Equal(Won, outcome.State)
	s.Len(outcome.Changed, 9)
	s.Equal(8, s.engine.Session().SquaresCleared)
	s.Equal(1, s.engine.Cell(Position{0, 0}).FlagCount())
	s.Zero(s.engine.MinesRemaining())

	// Nothing moves once won
	s.Empty(s.engine.Reveal(Position{0, 0}).Changed)
	s.Empty(s.engine.ToggleFlag(Position{0, 0}).Changed)
	s.Empty(s.engine.Chord(Position{1, 1}).Changed)
	s.Equal(Won, s.engine.State())
	s.Equal(1, s.countEntries("game won"))
}

// Chord tests

func (s *EngineSuite) TestChord() {
	s.startFixture()
	s.engine.Reveal(Position{2, 3})
	s.engine.ToggleFlag(Position{1, 1})

	outcome := s.engine.Chord(Position{2, 2})
	s.Equal([]Position{{2, 1}}, outcome.Changed)
	s.Equal(2, s.engine.Cell(Position{2, 1}).Value())
	s.Equal(5, s.engine.Session().SquaresCleared)

	again := s.engine.Chord(Position{2, 2})
	s.Empty(again.Changed)
	s.Equal(Sweep, again.State)
}

func (s *EngineSuite) TestChordNeedsMatchingFlags() {
	s.startFixture()
	s.engine.Reveal(Position{2, 3})

	s.Empty(s.engine.Chord(Position{1, 3}).Changed)
	s.Empty(s.engine.Chord(Position{0, 0}).Changed)
	s.Equal(Sweep, s.engine.State())
}

func (s *EngineSuite) TestForceChordIgnoresFlags() {
	s.startFixture()
	s.engine.Reveal(Position{2, 3})

	outcome := s.engine.ForceChord(Position{1, 3})

	s.Equal(Lost, outcome.State)
	s.True(s.engine.Cell(Position{0, 2}).IsLosingMine())
}

// Flag tests

func (s *EngineSuite) TestFlagLimits() {
	s.startFixture()

	for _, pos := range []Position{{0, 0}, {0, 1}, {0, 2}, {0, 3}, {1, 0}, {1, 1}} {
		s.Equal([]Position{pos}, s.engine.ToggleFlag(pos).Changed)
	}
	s.Zero(s.engine.MinesRemaining())
	s.Empty(s.engine.ToggleFlag(Position{2, 0}).Changed)
	s.False(s.engine.Cell(Position{2, 0}).IsFlagged())

	s.engine.ToggleFlag(Position{0, 0})
	s.Equal(5, s.engine.Session().FlagsPlaced)

	s.Empty(s.engine.AddFlag(Position{0, 1}).Changed)
	s.Equal(1, s.engine.Cell(Position{0, 1}).FlagCount())

	s.engine.RemoveFlag(Position{0, 1})
	s.Zero(s.engine.Cell(Position{0, 1}).FlagCount())
	s.Equal(4, s.engine.Session().FlagsPlaced)
	s.Empty(s.engine.RemoveFlag(Position{0, 1}).Changed)

	s.engine.Reveal(Position{2, 3})
	s.Empty(s.engine.ToggleFlag(Position{2, 3}).Changed)
}

func (s *EngineSuite) TestMultimineFlags() {
	multimine := DefaultMultimineConfig()
	multimine.Enabled = true

	session, err := s.engine.StartSweep(Difficulty(0.5), multimine)
	s.Require().NoError(err)
	s.Equal(ModeMulti, session.Mode())
	s.Equal(MaxMinesPerCell, session.MaxFlags())
	s.Equal(6, session.NumMines)

	for i := 0; i < MaxMinesPerCell+1; i++ {
		s.engine.AddFlag(Position{0, 0})
	}
	s.Equal(MaxMinesPerCell, s.engine.Cell(Position{0, 0}).FlagCount())
	s.Equal(1, s.engine.MinesRemaining())

	s.engine.RemoveFlag(Position{0, 0})
	s.Equal(4, s.engine.Cell(Position{0, 0}).FlagCount())

	s.Equal(ClickFlag, s.engine.SwitchClickMode())
	s.engine.Primary(Position{0, 1})
	s.Equal(1, s.engine.Cell(Position{0, 1}).FlagCount())
}

func (s *EngineSuite) TestPrimaryFollowsClickMode() {
	s.startFixture()

	s.Equal(ClickFlag, s.engine.SwitchClickMode())
	s.engine.Primary(Position{0, 0})
	s.True(s.engine.Cell(Position{0, 0}).IsFlagged())
	s.engine.Primary(Position{0, 0})
	s.False(s.engine.Cell(Position{0, 0}).IsFlagged())

	s.Equal(ClickUncover, s.engine.SwitchClickMode())
	s.engine.Primary(Position{2, 3})
	s.False(s.engine.Cell(Position{2, 3}).Covered())
}

func (s *EngineSuite) TestFlagless() {
	s.engine.flagless = true
	s.startFixture()

	s.Empty(s.engine.ToggleFlag(Position{0, 0}).Changed)
	s.Empty(s.engine.AddFlag(Position{0, 0}).Changed)
	s.Equal(ClickUncover, s.engine.SwitchClickMode())

	s.engine.Primary(Position{2, 3})
	s.False(s.engine.Cell(Position{2, 3}).Covered())
}

// Lifecycle tests

func (s *EngineSuite) TestPauseStopsTimer() {
	s.startFixture()

	s.clock.Advance(5 * time.Second)
	s.Equal(5*time.Second, s.engine.Elapsed())

	s.Require().NoError(s.engine.Pause())
	s.clock.Advance(10 * time.Second)
	s.Equal(5*time.Second, s.engine.Elapsed())

	s.ErrorIs(s.engine.Pause(), ErrWrongState)
	outcome := s.engine.Reveal(Position{2, 3})
	s.Equal(Pause, outcome.State)
	s.Empty(outcome.Changed)

	s.Require().NoError(s.engine.Resume())
	s.clock.Advance(2 * time.Second)
	s.Equal(7*time.Second, s.engine.Elapsed())
	s.ErrorIs(s.engine.Resume(), ErrWrongState)
}

func (s *EngineSuite) TestTimerStopsOnLoss() {
	s.startFixture()
	s.clock.Advance(3 * time.Second)
	s.engine.Reveal(Position{0, 0})

	s.clock.Advance(time.Minute)
	s.Equal(3*time.Second, s.engine.Elapsed())
}

func (s *EngineSuite) TestNewGame() {
	_, err := s.engine.NewGame()
	s.ErrorIs(err, ErrWrongState)

	s.startFixture()
	s.engine.Reveal(Position{1, 1})
	s.Require().Equal(Lost, s.engine.State())
	s.clock.Advance(3 * time.Second)

	session, err := s.engine.NewGame()
	s.Require().NoError(err)

	s.Equal(Sweep, s.engine.State())
	s.Zero(session.SquaresCleared)
	s.Zero(session.FlagsPlaced)
	s.Equal(6, session.NumMines)
	s.Equal(12, s.coveredCount())
	s.Zero(s.engine.Elapsed())

	mines, _, _ := mineTotals(s.engine.board)
	s.Equal(6, mines)
	for _, cell := range s.engine.Board().Cells() {
		s.False(cell.IsLosingMine())
	}
}

func (s *EngineSuite) TestNewGameWhilePaused() {
	s.startFixture()
	s.Require().NoError(s.engine.Pause())

	_, err := s.engine.NewGame()
	s.Require().NoError(err)
	s.Equal(Sweep, s.engine.State())
}

func (s *EngineSuite) TestStopGame() {
	s.ErrorIs(s.engine.StopGame(), ErrWrongState)

	s.startFixture()
	s.engine.Reveal(Position{2, 3})
	s.Require().NoError(s.engine.StopGame())

	s.Equal(Draw, s.engine.State())
	s.Equal(12, s.engine.Board().EnabledCount())
	s.Equal(12, s.coveredCount())
	s.Equal(Session{}, s.engine.Session())
	for _, cell := range s.engine.Board().Cells() {
		s.False(cell.IsMine())
	}

	s.ErrorIs(s.engine.StopGame(), ErrWrongState)
	_, err := s.engine.StartSweep(Difficulty(0.5), DefaultMultimineConfig())
	s.NoError(err)
}
