// Package codec converts board shapes to and from their compact forms: a
// trimmed list of bit rows (the save-file format) and a run-length string
// (the board identity used to group leaderboard times).
package codec

import (
	"strconv"
	"strings"
)

const (
	Enabled  = '1'
	Disabled = '0'

	// Symbols of the run-length alphabet
	SymbolEnabled   = 'E'
	SymbolDisabled  = 'D'
	SymbolSeparator = 'N'

	// EmptyRow marks an all-disabled row between rows with content
	EmptyRow = "0"

	// MaxDecodedLength bounds the expansion of a run-length string
	MaxDecodedLength = 1 << 16
)

// Compress trims a full enabled-mask down to its smallest form. Rows before the
// first and after the last row with an enabled cell are dropped, empty rows in
// between become EmptyRow, trailing disabled cells are cut from every row, and
// all content rows are left-trimmed to the leftmost enabled column.
func Compress(mask []string) []string {
	leftmost := -1
	reachedContent := false
	bits := make([]string, 0, len(mask))

	for _, row := range mask {
		first := strings.IndexByte(row, Enabled)
		if first < 0 {
			if reachedContent {
				bits = append(bits, EmptyRow)
			}
			continue
		}

		reachedContent = true
		if leftmost < 0 || first < leftmost {
			leftmost = first
		}
		bits = append(bits, row[:strings.LastIndexByte(row, Enabled)+1])
	}

	lastContent := len(bits)
	for lastContent > 0 && bits[lastContent-1] == EmptyRow {
		lastContent--
	}
	bits = bits[:lastContent]

	for i, row := range bits {
		if row != EmptyRow {
			bits[i] = row[leftmost:]
		}
	}
	return bits
}

// CompressRLE joins rows with the separator symbol, remaps bits to the
// run-length alphabet and encodes the result as <count><symbol> pairs
func CompressRLE(rows []string) string {
	joined := strings.Join(rows, string(SymbolSeparator))

	var out strings.Builder
	for i := 0; i < len(joined); {
		symbol := toSymbol(joined[i])
		run := 1
		for i+run < len(joined) && toSymbol(joined[i+run]) == symbol {
			run++
		}
		out.WriteString(strconv.Itoa(run))
		out.WriteByte(symbol)
		i += run
	}
	return out.String()
}

func toSymbol(c byte) byte {
	switch c {
	case Enabled:
		return SymbolEnabled
	case Disabled:
		return SymbolDisabled
	default:
		return SymbolSeparator
	}
}

// DecompressRLE reverses CompressRLE. Any malformed input yields a CodecError
// and no rows.
func DecompressRLE(encoded string) ([]string, error) {
	if encoded == "" {
		return []string{}, nil
	}

	var expanded strings.Builder
	digitsStart := 0
	for i := 0; i < len(encoded); i++ {
		c := encoded[i]
		if c >= '0' && c <= '9' {
			continue
		}

		if i == digitsStart {
			return nil, &CodecError{Pos: i, Reason: "symbol without a repeat count"}
		}
		count, err := strconv.Atoi(encoded[digitsStart:i])
		if err != nil || count <= 0 {
			return nil, &CodecError{Pos: digitsStart, Reason: "invalid repeat count"}
		}
		if expanded.Len()+count > MaxDecodedLength {
			return nil, &CodecError{Pos: digitsStart, Reason: "board too large"}
		}

		var bit byte
		switch c {
		case SymbolEnabled:
			bit = Enabled
		case SymbolDisabled:
			bit = Disabled
		case SymbolSeparator:
			bit = SymbolSeparator
		default:
			return nil, &CodecError{Pos: i, Reason: "unknown symbol " + strconv.QuoteRune(rune(c))}
		}
		for n := 0; n < count; n++ {
			expanded.WriteByte(bit)
		}
		digitsStart = i + 1
	}
	if digitsStart != len(encoded) {
		return nil, &CodecError{Pos: digitsStart, Reason: "repeat count without a symbol"}
	}

	rows := strings.Split(expanded.String(), string(SymbolSeparator))
	for i, row := range rows {
		if row == "" {
			return nil, &CodecError{Pos: i, Reason: "empty row"}
		}
	}
	return rows, nil
}

// Center pads rows out to targetRows x targetCols, keeping the shape in the
// middle. Odd leftover space goes to the right and bottom.
func Center(rows []string, targetRows, targetCols int) ([]string, error) {
	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	if len(rows) > targetRows || width > targetCols {
		return nil, &FitError{Rows: len(rows), Cols: width, TargetRows: targetRows, TargetCols: targetCols}
	}

	left := (targetCols - width) / 2
	right := targetCols - width - left
	top := (targetRows - len(rows)) / 2

	emptyRow := strings.Repeat(string(Disabled), targetCols)
	centered := make([]string, 0, targetRows)
	for i := 0; i < top; i++ {
		centered = append(centered, emptyRow)
	}
	for _, row := range rows {
		centered = append(centered,
			strings.Repeat(string(Disabled), left)+
				row+strings.Repeat(string(Disabled), width-len(row)+right))
	}
	for len(centered) < targetRows {
		centered = append(centered, emptyRow)
	}
	return centered, nil
}

// ValidateRows checks that rows only hold bit characters
func ValidateRows(rows []string) error {
	for i, row := range rows {
		for _, c := range row {
			if c != Enabled && c != Disabled {
				return &CodecError{Pos: i + 1, Reason: "unexpected character " + strconv.QuoteRune(c)}
			}
		}
	}
	return nil
}
