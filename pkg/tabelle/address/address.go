// Package address converts between grid positions, column names and cell names.
//
// Column names use plain base-26 digits (A=0 … Z=25, BA=26), not the
// bijective numbering of common spreadsheet products, so "AA" is column 0
// written with a redundant leading zero digit. Rows are zero-based: "A0" is
// the top-left cell.
package address

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidName indicates text that is not a column or cell name.
var ErrInvalidName = errors.New("invalid name")

// NameError reports the text that failed to parse.
type NameError struct {
	Kind string // "column" or "cell"
	Text string
}

func (e *NameError) Error() string {
	return fmt.Sprintf("invalid %s name %q", e.Kind, e.Text)
}

func (e *NameError) Unwrap() error {
	return ErrInvalidName
}

// Position is a zero-based (column, row) grid address.
type Position struct {
	Column int `json:"column"`
	Row    int `json:"row"`
}

// Size is a grid extent in columns and rows.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Unbounded is used where no grid exists yet to bound column references.
var Unbounded = Size{Width: int(^uint(0) >> 1), Height: int(^uint(0) >> 1)}

// Name returns the cell name, e.g. "C12" for Position{2, 12}.
func (p Position) Name() string {
	return ColumnName(p.Column) + strconv.Itoa(p.Row)
}

func (p Position) String() string {
	return p.Name()
}

// Sub returns the signed offset p - o.
func (p Position) Sub(o Position) (dx, dy int) {
	return p.Column - o.Column, p.Row - o.Row
}

// Add shifts p by (dx, dy).
func (p Position) Add(dx, dy int) Position {
	return Position{Column: p.Column + dx, Row: p.Row + dy}
}

// Compare orders positions row-major: row first, then column.
func (p Position) Compare(o Position) int {
	switch {
	case p.Row < o.Row:
		return -1
	case p.Row > o.Row:
		return 1
	case p.Column < o.Column:
		return -1
	case p.Column > o.Column:
		return 1
	}
	return 0
}

// Index returns the row-major offset of p in a grid of the given width.
func (p Position) Index(width int) int {
	return p.Row*width + p.Column
}

// FromIndex is the inverse of Position.Index.
func FromIndex(index, width int) Position {
	return Position{Column: index % width, Row: index / width}
}

const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// MaxColumn is the largest column index a name may denote.
const MaxColumn = math.MaxInt32

// ColumnName returns the base-26 letter name of a column index. index must
// not be negative.
func ColumnName(index int) string {
	var digits []byte
	for index >= 26 {
		digits = append(digits, letters[index%26])
		index /= 26
	}
	digits = append(digits, letters[index])
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	return string(digits)
}

// ColumnIndex parses a column name case-insensitively. Names denoting an
// index above MaxColumn are rejected.
func ColumnIndex(name string) (int, error) {
	if name == "" {
		return 0, &NameError{Kind: "column", Text: name}
	}
	result := 0
	for i := 0; i < len(name); i++ {
		ch := name[i]
		var digit int
		switch {
		case ch >= 'A' && ch <= 'Z':
			digit = int(ch - 'A')
		case ch >= 'a' && ch <= 'z':
			digit = int(ch - 'a')
		default:
			return 0, &NameError{Kind: "column", Text: name}
		}
		var ok bool
		if result, ok = appendDigit(result, digit); !ok {
			return 0, &NameError{Kind: "column", Text: name}
		}
	}
	return result, nil
}

func appendDigit(column, digit int) (int, bool) {
	if column > (MaxColumn-digit)/26 {
		return 0, false
	}
	return column*26 + digit, true
}

// ParseCellName parses a cell name such as "C12". The column part must be
// uppercase letters and the remainder an unsigned decimal row.
func ParseCellName(name string) (Position, error) {
	column := 0
	i := 0
	for ; i < len(name) && name[i] >= 'A' && name[i] <= 'Z'; i++ {
		var ok bool
		if column, ok = appendDigit(column, int(name[i]-'A')); !ok {
			return Position{}, &NameError{Kind: "cell", Text: name}
		}
	}
	if i == 0 || i == len(name) {
		return Position{}, &NameError{Kind: "cell", Text: name}
	}
	digits := name[i:]
	if strings.IndexFunc(digits, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return Position{}, &NameError{Kind: "cell", Text: name}
	}
	row, err := strconv.ParseUint(digits, 10, 63)
	if err != nil {
		return Position{}, &NameError{Kind: "cell", Text: name}
	}
	return Position{Column: column, Row: int(row)}, nil
}

// CellName is shorthand for Position{column, row}.Name().
func CellName(column, row int) string {
	return Position{Column: column, Row: row}.Name()
}
