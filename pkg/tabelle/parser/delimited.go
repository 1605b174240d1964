package parser

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Separators are the field separators tried by ParseDelimited, in order of
// preference when two of them size the input equally.
const Separators = ",;\t"

// Delimited-text errors. They are wrapped in a *DelimitedError.
var (
	ErrNoCellsFound       = errors.New("no cells found")
	ErrInvalidEscaping    = errors.New("invalid escaping")
	ErrUnfinishedEscaping = errors.New("unfinished escaping")
)

// DelimitedError reports which separator was tried and, for escaping errors,
// the 1-based line that failed.
type DelimitedError struct {
	Separator rune
	Line      int
	Err       error
}

func (e *DelimitedError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("separator %q, line %d: %v", e.Separator, e.Line, e.Err)
	}
	return fmt.Sprintf("separator %q: %v", e.Separator, e.Err)
}

func (e *DelimitedError) Unwrap() error {
	return e.Err
}

// Delimited is a rectangular grid of raw field text in row-major order.
type Delimited struct {
	Cells     []string
	Width     int
	Height    int
	Separator rune
}

// At returns the field at (column, row).
func (d *Delimited) At(column, row int) string {
	return d.Cells[row*d.Width+column]
}

// ParseDelimited sizes s with every candidate separator, picks the one that
// yields the most columns (then the most rows) and parses s with it.
//
// If no separator works, the error of the first separator that failed on
// escaping is returned, or ErrNoCellsFound if all of them found nothing.
func ParseDelimited(s string) (*Delimited, error) {
	var (
		best     rune
		width    int
		height   int
		firstErr error
	)
	for _, sep := range Separators {
		w, h, err := MeasureDelimited(s, sep)
		if err != nil {
			if firstErr == nil || (errors.Is(firstErr, ErrNoCellsFound) && !errors.Is(err, ErrNoCellsFound)) {
				firstErr = err
			}
			continue
		}
		if w > width || (w == width && h > height) {
			best, width, height = sep, w, h
		}
	}
	if best == 0 {
		return nil, firstErr
	}
	return parseDelimited(s, best, width, height)
}

// ParseDelimitedWith parses s using sep without trying other separators.
func ParseDelimitedWith(s string, sep rune) (*Delimited, error) {
	width, height, err := MeasureDelimited(s, sep)
	if err != nil {
		return nil, err
	}
	return parseDelimited(s, sep, width, height)
}

// MeasureDelimited returns the number of columns and rows s has when split
// by sep. Width is the largest field count of any line. Lines holding
// nothing but separators and white space are not rows.
func MeasureDelimited(s string, sep rune) (width, height int, err error) {
	for i, line := range lines(s) {
		if !isRow(line, sep) {
			continue
		}
		_, count, err := splitLine(line, sep, false)
		if err != nil {
			return 0, 0, &DelimitedError{Separator: sep, Line: i + 1, Err: err}
		}
		width = max(width, count)
		height++
	}
	if width == 0 || height == 0 {
		return 0, 0, &DelimitedError{Separator: sep, Err: ErrNoCellsFound}
	}
	return width, height, nil
}

func parseDelimited(s string, sep rune, width, height int) (*Delimited, error) {
	cells := make([]string, 0, width*height)
	for i, line := range lines(s) {
		if !isRow(line, sep) {
			continue
		}
		fields, _, err := splitLine(line, sep, true)
		if err != nil {
			return nil, &DelimitedError{Separator: sep, Line: i + 1, Err: err}
		}
		cells = append(cells, fields...)
		for n := len(fields); n < width; n++ {
			cells = append(cells, "")
		}
	}
	if len(cells) != width*height {
		panic(fmt.Sprintf("parser: %d fields for a %dx%d grid", len(cells), width, height))
	}
	return &Delimited{Cells: cells, Width: width, Height: height, Separator: sep}, nil
}

func lines(s string) []string {
	out := strings.Split(s, "\n")
	for i, line := range out {
		out[i] = strings.TrimSuffix(line, "\r")
	}
	return out
}

func isRow(line string, sep rune) bool {
	return strings.IndexFunc(line, func(r rune) bool {
		return r != sep && !unicode.IsSpace(r)
	}) >= 0
}

type fieldState uint8

const (
	newField fieldState = iota
	inField
	inQuoted
	endQuoted // a quote closed the field or starts a doubled quote
)

// splitLine runs the field state machine over one line. A field ends at a
// separator outside quotes and at the end of the line. With collect unset
// only the count is returned.
func splitLine(line string, sep rune, collect bool) ([]string, int, error) {
	var (
		fields []string
		field  strings.Builder
		count  int
		state  = newField
	)
	push := func() {
		if collect {
			fields = append(fields, field.String())
		}
		field.Reset()
		count++
	}

	for _, ch := range line {
		switch {
		case ch == '"' && state != inField:
			switch state {
			case newField:
				state = inQuoted
			case inQuoted:
				state = endQuoted
			case endQuoted:
				field.WriteRune('"')
				state = inQuoted
			}
		case ch == sep && state != inQuoted:
			push()
			state = newField
		default:
			switch state {
			case newField:
				state = inField
				field.WriteRune(ch)
			case inField, inQuoted:
				field.WriteRune(ch)
			case endQuoted:
				return nil, 0, ErrInvalidEscaping
			}
		}
	}
	if state == inQuoted {
		return nil, 0, ErrUnfinishedEscaping
	}
	push()
	return fields, count, nil
}
