package codec

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// FileExtension is the extension of saved board files
const FileExtension = ".ffmnswpr"

// WriteRows writes rows as a board file, one row per line
func WriteRows(w io.Writer, rows []string) error {
	if err := ValidateRows(rows); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	for _, row := range rows {
		if _, err := bw.WriteString(row + "\n"); err != nil {
			return fmt.Errorf("writing board row: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing board: %w", err)
	}
	return nil
}

// ReadRows reads a board file. Lines are trimmed of surrounding whitespace and
// trailing blank lines are dropped.
func ReadRows(r io.Reader) ([]string, error) {
	var rows []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		rows = append(rows, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading board: %w", err)
	}

	for len(rows) > 0 && rows[len(rows)-1] == "" {
		rows = rows[:len(rows)-1]
	}
	if err := ValidateRows(rows); err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []string{}
	}
	return rows, nil
}
