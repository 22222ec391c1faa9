package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/they4kman/ffsweep/config"
	"github.com/they4kman/ffsweep/director/constraint"
	"github.com/they4kman/ffsweep/director/random"
	"github.com/they4kman/ffsweep/game"
	rng "github.com/they4kman/ffsweep/util/random"
)

var (
	log = logrus.New()
	cfg *config.Config
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	var (
		configPath  string
		logLevel    string
		logJSON     bool
		leaderboard string
	)

	rootCmd := &cobra.Command{
		Use:   "ffsweep",
		Short: "Free-form minesweeper boards, headless games and leaderboards",
		Long: `ffsweep works with free-form minesweeper boards: boards of any shape,
drawn cell by cell and stored as rows of 0s and 1s.

Print the identity of a saved board
	ffsweep id heart.ffmnswpr

Let the computer play a board
	ffsweep play heart.ffmnswpr --director constraint --record alice
`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if configPath != "" {
				if cfg, err = config.LoadFile(configPath); err != nil {
					return err
				}
			} else {
				cfg = config.Default()
			}

			flags := cmd.Flags()
			if flags.Changed("log-level") {
				cfg.Log.Level = logLevel
			}
			if flags.Changed("log-json") {
				cfg.Log.JSON = logJSON
			}
			if flags.Changed("leaderboard") {
				cfg.Leaderboard = leaderboard
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			log.SetOutput(cmd.ErrOrStderr())
			return cfg.ConfigureLogger(log)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "Log as JSON")
	rootCmd.PersistentFlags().StringVar(&leaderboard, "leaderboard", "memory", `Leaderboard store:
memory: kept for this run only
redis://host:port/db: a Redis server
anything else: path of a YAML file`)

	rootCmd.AddCommand(newIDCmd())
	rootCmd.AddCommand(newDecodeCmd())
	rootCmd.AddCommand(newCenterCmd())
	rootCmd.AddCommand(newPlayCmd())
	rootCmd.AddCommand(newLeaderboardCmd())

	return rootCmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type difficultyValue game.Difficulty

func newDifficultyValue(val game.Difficulty, p *game.Difficulty) *difficultyValue {
	*p = val
	return (*difficultyValue)(p)
}

func (difficultyVal *difficultyValue) String() string {
	return game.Difficulty(*difficultyVal).String()
}

func (difficultyVal *difficultyValue) Set(value string) error {
	difficulty, err := game.ParseDifficulty(value)
	if err != nil {
		return err
	}
	*difficultyVal = difficultyValue(difficulty)
	return nil
}

func (difficultyVal *difficultyValue) Type() string {
	return "difficulty"
}

var directors = map[string]func(rand rng.Random) game.Director{
	"random":     func(rand rng.Random) game.Director { return random.New(rand) },
	"constraint": func(rand rng.Random) game.Director { return constraint.New(rand) },
}

type directorValue string

func newDirectorValue(val string, p *string) *directorValue {
	*p = val
	return (*directorValue)(p)
}

func (directorVal *directorValue) String() string {
	return string(*directorVal)
}

func (directorVal *directorValue) Set(value string) error {
	if _, isValid := directors[value]; !isValid {
		return fmt.Errorf("invalid director %q, expected random or constraint", value)
	}
	*directorVal = directorValue(value)
	return nil
}

func (directorVal *directorValue) Type() string {
	return "director"
}
