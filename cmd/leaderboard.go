package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/they4kman/ffsweep/leaderboard"
)

func newLeaderboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Inspect and edit recorded winning times",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list [PLAYER]",
		Short: "List recorded times, fastest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(store leaderboard.Store) error {
				return listTimes(cmd, store, args)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename-player FROM TO",
		Short: "Move every time of a player to another name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(store leaderboard.Store) error {
				return store.RenamePlayer(cmd.Context(), args[0], args[1])
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "rename-board ID NAME",
		Short: "Give a board a display name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(store leaderboard.Store) error {
				return store.RenameBoard(cmd.Context(), args[0], args[1])
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete-board PLAYER ID",
		Short: "Delete every time a player holds on a board",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(store leaderboard.Store) error {
				return store.DeleteBoard(cmd.Context(), args[0], args[1])
			})
		},
	})

	return cmd
}

func listTimes(cmd *cobra.Command, store leaderboard.Store, args []string) error {
	ctx := cmd.Context()

	players, err := store.Players(ctx)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		players = filterPlayer(players, args[0])
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	listed := 0
	for _, player := range players {
		boards, err := store.Boards(ctx, player)
		if err != nil {
			return err
		}
		for _, boardID := range boards {
			name, err := store.BoardName(ctx, boardID)
			if err != nil {
				return err
			}
			if name == "" {
				name = "-"
			}
			for _, mode := range leaderboard.Modes {
				entries, err := store.Times(ctx, leaderboard.Key{Player: player, BoardID: boardID, Mode: mode})
				if err != nil {
					return err
				}
				for _, entry := range entries {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
						player, boardID, name, mode, entry.Time, entry.Date.Format("2006-01-02 15:04:05"))
					listed++
				}
			}
		}
	}
	if listed == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no times recorded")
		return nil
	}
	return w.Flush()
}

func filterPlayer(players []string, player string) []string {
	for _, p := range players {
		if p == player {
			return []string{p}
		}
	}
	return nil
}
