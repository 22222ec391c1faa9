package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/they4kman/ffsweep/codec"
)

func readRowsFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := codec.ReadRows(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

func writeRowsFile(path string, rows []string) error {
	if filepath.Ext(path) == "" {
		path += codec.FileExtension
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := codec.WriteRows(f, rows); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func newIDCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "id FILE",
		Short: "Print the identity of a saved board",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := readRowsFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), codec.CompressRLE(codec.Compress(rows)))
			return nil
		},
	}
}

func newDecodeCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "decode ID",
		Short: "Expand a board identity back into save-file rows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := codec.DecompressRLE(args[0])
			if err != nil {
				return err
			}
			if output != "" {
				return writeRowsFile(output, rows)
			}
			return codec.WriteRows(cmd.OutOrStdout(), rows)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the rows to this file instead of stdout")
	return cmd
}

func newCenterCmd() *cobra.Command {
	var rows, cols int

	cmd := &cobra.Command{
		Use:   "center FILE",
		Short: "Print a saved board centred on a rows x cols grid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			board, err := readRowsFile(args[0])
			if err != nil {
				return err
			}
			centered, err := codec.Center(codec.Compress(board), rows, cols)
			if err != nil {
				return err
			}
			return codec.WriteRows(cmd.OutOrStdout(), centered)
		},
	}

	cmd.Flags().IntVar(&rows, "rows", 28, "Rows of the target grid")
	cmd.Flags().IntVar(&cols, "cols", 30, "Columns of the target grid")
	return cmd
}
