package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/they4kman/ffsweep/game"
	"github.com/they4kman/ffsweep/leaderboard"
	rng "github.com/they4kman/ffsweep/util/random"
)

type playOptions struct {
	director     string
	difficulty   game.Difficulty
	seed         int64
	rows, cols   int
	center       bool
	multimine    bool
	flagless     bool
	noGrace      bool
	maxSteps     int
	snapshot     string
	snapshotsDir string
	record       string
}

func newPlayCmd() *cobra.Command {
	opts := &playOptions{}

	cmd := &cobra.Command{
		Use:   "play [FILE]",
		Short: "Let a director play a board headlessly",
		Long: `Play a board without a player. The board is read from FILE, or the whole
grid is used when no file is given. Wins can be recorded on the leaderboard.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("difficulty") {
				cfg.Difficulty = opts.difficulty.String()
			}
			if flags.Changed("seed") {
				cfg.Seed = opts.seed
			}
			if flags.Changed("rows") {
				cfg.Rows = opts.rows
			}
			if flags.Changed("cols") {
				cfg.Cols = opts.cols
			}
			if flags.Changed("multimine") {
				cfg.Multimine.Enabled = opts.multimine
			}
			if flags.Changed("flagless") {
				cfg.Flagless = opts.flagless
			}
			if flags.Changed("no-grace") {
				cfg.GraceRule = !opts.noGrace
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			var boardPath string
			if len(args) == 1 {
				boardPath = args[0]
			}
			return runPlay(cmd, opts, boardPath)
		},
	}

	cmd.Flags().Var(newDirectorValue("constraint", &opts.director), "director", "Director to play with: random or constraint")
	cmd.Flags().Var(newDifficultyValue(game.Medium, &opts.difficulty), "difficulty", "Difficulty: beginner, easy, medium, hard, expert or a fraction in (0, 1)")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "Seed for mine placement and the director; 0 seeds from the clock")
	cmd.Flags().IntVar(&opts.rows, "rows", 28, "Rows of the grid")
	cmd.Flags().IntVar(&opts.cols, "cols", 30, "Columns of the grid")
	cmd.Flags().BoolVar(&opts.center, "center", false, "Centre the loaded board on the grid")
	cmd.Flags().BoolVar(&opts.multimine, "multimine", false, "Allow several mines per cell")
	cmd.Flags().BoolVar(&opts.flagless, "flagless", false, "Forbid flags")
	cmd.Flags().BoolVar(&opts.noGrace, "no-grace", false, "Let the first reveal hit a mine")
	cmd.Flags().IntVar(&opts.maxSteps, "max-steps", 0, "Give up after this many director steps; 0 allows two per cell")
	cmd.Flags().StringVar(&opts.snapshot, "snapshot", "", "Write the final game snapshot to this file")
	cmd.Flags().StringVar(&opts.snapshotsDir, "snapshots-dir", "", "Write the final game snapshot to a timestamped file in this directory")
	cmd.Flags().StringVar(&opts.record, "record", "", "Record a win on the leaderboard under this player")

	return cmd
}

func runPlay(cmd *cobra.Command, opts *playOptions, boardPath string) error {
	engine, err := game.NewEngine(cfg.EngineConfig(log))
	if err != nil {
		return err
	}

	if boardPath == "" {
		err = engine.Fill()
	} else {
		err = loadBoard(engine, boardPath, opts.center)
	}
	if err != nil {
		return err
	}

	difficulty, err := cfg.ParsedDifficulty()
	if err != nil {
		return err
	}
	session, err := engine.StartSweep(difficulty, cfg.Multimine)
	if err != nil {
		return err
	}

	var directorRand rng.Random
	if cfg.Seed != 0 {
		directorRand = rng.New(cfg.Seed)
	} else {
		directorRand = rng.NewTimeSeeded()
	}
	director := directors[opts.director](directorRand)

	maxSteps := opts.maxSteps
	if maxSteps <= 0 {
		maxSteps = 2 * engine.Board().NumCells()
	}
	state, steps := game.Autoplay(engine, director, maxSteps)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s after %d steps in %s\n", state, steps, engine.Elapsed().Truncate(time.Millisecond))
	fmt.Fprintf(out, "board %s, %d mines, %d of %d squares cleared\n",
		engine.BoardID(), session.NumMines, engine.Session().SquaresCleared, session.SquaresToWin)

	if opts.snapshot != "" {
		if err := writeSnapshot(engine, opts.snapshot); err != nil {
			return err
		}
	}
	if opts.snapshotsDir != "" {
		if err := saveSnapshot(engine, opts.snapshotsDir); err != nil {
			return err
		}
	}

	if opts.record != "" {
		return recordWin(cmd, engine, opts.record)
	}
	return nil
}

func loadBoard(engine *game.Engine, path string, center bool) error {
	rows, err := readRowsFile(path)
	if err != nil {
		return err
	}
	if err := engine.LoadRows(rows); err != nil {
		return err
	}
	if center {
		return engine.Center()
	}
	return nil
}

func recordWin(cmd *cobra.Command, engine *game.Engine, player string) error {
	if engine.State() != game.Won {
		log.WithField("player", player).Info("game not won, nothing recorded")
		return nil
	}

	entry, err := leaderboard.FromGame(engine, player, time.Now())
	if err != nil {
		return err
	}

	return withStore(cmd, func(store leaderboard.Store) error {
		if err := store.Add(cmd.Context(), entry); err != nil {
			return err
		}
		log.WithFields(logrus.Fields{
			"player": entry.Player,
			"board":  entry.BoardID,
			"mode":   entry.Mode,
			"time":   entry.Time,
		}).Info("time recorded")
		return nil
	})
}

func writeSnapshot(engine *game.Engine, path string) error {
	serialized, err := engine.Snapshot().Serialize()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(serialized), 0644); err != nil {
		return err
	}
	log.WithField("path", path).Debug("snapshot written")
	return nil
}

func saveSnapshot(engine *game.Engine, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	return writeSnapshot(engine, filepath.Join(dir, generateSnapshotFilename(engine.State(), time.Now())))
}

func generateSnapshotFilename(state game.State, t time.Time) string {
	filename := t.Format("20060102_150405_")
	switch state {
	case game.Won:
		filename += "win"
	case game.Lost:
		filename += "loss"
	default:
		filename += "other"
	}
	return filename + ".yaml"
}
