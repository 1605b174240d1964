// Package formula turns formula text into an evaluator expression plus an
// ordered list of references, and relocates formulas when they are copied.
//
// A formula is kept as raw text next to a side table of references in the
// order they occur in the raw text. Relocation rewrites the raw text in
// place, walking that table front to back, and then re-parses the result to
// check that both agree.
package formula

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/ukaji3/tabelle-go/pkg/tabelle/address"
)

// ErrMalformedRange indicates a range whose first endpoint is a cell name
// but whose second endpoint is neither a cell name nor a row number.
var ErrMalformedRange = errors.New("malformed range")

// ErrReferenceOutOfRange indicates a relocation that would move a
// reference before the first row or column, or a cell or column reference
// past the grid width.
var ErrReferenceOutOfRange = errors.New("reference out of range")

// separators split raw formula text into tokens. ':' is handled apart since
// it joins the two endpoints of a range.
const separators = " ()*-+/,.;[]%!"

// Formula is the content of a cell whose text starts with '='. Raw holds the
// text after the '='.
type Formula struct {
	Position   address.Position `json:"position"`
	Raw        string           `json:"raw"`
	Parsed     string           `json:"parsed"`
	References []Reference      `json:"references,omitempty"`
	Value      Value            `json:"value"`
}

// New returns an empty formula owned by the cell at pos.
func New(pos address.Position) *Formula {
	return &Formula{Position: pos}
}

// Parse builds a formula from raw text. On error the returned formula still
// carries raw, but has no expression and evaluates to an error.
func Parse(raw string, pos address.Position, size address.Size) (*Formula, error) {
	f := &Formula{Position: pos, Raw: raw}
	parsed, refs, err := ParseRaw(raw, size)
	if err != nil {
		return f, err
	}
	f.Parsed, f.References = parsed, refs
	return f, nil
}

// ParseRaw splits raw formula text into the expression handed to the
// evaluator and the references it contains, in order of occurrence.
//
// A cell name becomes a cell reference. A bare column name becomes a column
// reference only when it lies within size.Width; its text is kept either way.
// "A1:C3" expands to one row slice per column joined with " + ", "A1:5" to a
// single slice of column A. A cell range reaching past size.Width is
// malformed.
func ParseRaw(raw string, size address.Size) (string, []Reference, error) {
	p, err := parseRaw(raw, size)
	if err != nil {
		return "", nil, err
	}
	return p.parsed.String(), p.refs, nil
}

// span is the byte range of a reference in raw formula text.
type span struct {
	start, end int
}

type rawParser struct {
	size       address.Size
	token      strings.Builder
	tokenStart int
	at         int
	parsed     strings.Builder
	refs       []Reference
	spans      []span
	rangeStart *address.Position
	rangeSpan  span
}

func parseRaw(raw string, size address.Size) (*rawParser, error) {
	p := &rawParser{size: size}
	p.parsed.Grow(len(raw))
	for i, ch := range raw {
		p.at = i
		switch {
		case ch == ':':
			p.startRange()
		case strings.ContainsRune(separators, ch):
			if err := p.flush(); err != nil {
				return nil, err
			}
			if p.parsed.Len() > 0 || ch != ' ' {
				p.parsed.WriteRune(ch)
			}
		default:
			if p.token.Len() == 0 {
				p.tokenStart = i
			}
			p.token.WriteRune(ch)
		}
	}
	p.at = len(raw)
	if err := p.flush(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *rawParser) add(ref Reference, s span) {
	p.refs = append(p.refs, ref)
	p.spans = append(p.spans, s)
}

func (p *rawParser) tokenSpan() span {
	return span{p.tokenStart, p.at}
}

// startRange takes the pending token as the first endpoint of a range. Text
// that is not a cell name is passed through together with the ':'.
func (p *rawParser) startRange() {
	token := p.token.String()
	p.token.Reset()
	p.rangeStart = nil
	if start, err := address.ParseCellName(token); err == nil {
		p.rangeStart = &start
		p.rangeSpan = span{p.tokenStart, p.at}
		return
	}
	p.parsed.WriteString(token)
	p.parsed.WriteByte(':')
}

func (p *rawParser) flush() error {
	token := p.token.String()
	p.token.Reset()

	if p.rangeStart != nil {
		start := *p.rangeStart
		p.rangeStart = nil
		return p.flushRange(start, token)
	}

	if pos, err := address.ParseCellName(token); err == nil {
		p.add(CellRef(pos), p.tokenSpan())
	} else if column, err := address.ColumnIndex(token); err == nil && column < p.size.Width {
		p.add(ColumnRef(column), p.tokenSpan())
	}
	p.parsed.WriteString(token)
	return nil
}

func (p *rawParser) flushRange(start address.Position, token string) error {
	if start.Column >= p.size.Width {
		return fmt.Errorf("%w: %s:%s starts past column %d", ErrMalformedRange, start.Name(), token, p.size.Width-1)
	}

	if end, err := address.ParseCellName(token); err == nil {
		if end.Column >= p.size.Width {
			return fmt.Errorf("%w: %s:%s ends past column %d", ErrMalformedRange, start.Name(), token, p.size.Width-1)
		}
		p.add(CellRef(start), p.rangeSpan)
		p.add(CellRef(end), p.tokenSpan())
		for x := start.Column; x <= end.Column; x++ {
			if x > start.Column {
				p.parsed.WriteString(" + ")
			}
			writeSlice(&p.parsed, x, start.Row, end.Row+1)
		}
		return nil
	}

	if row, err := strconv.ParseUint(token, 10, 62); err == nil {
		p.add(CellRef(start), p.rangeSpan)
		p.add(RowRef(int(row)), p.tokenSpan())
		writeSlice(&p.parsed, start.Column, start.Row, int(row)+1)
		return nil
	}

	return fmt.Errorf("%w: %s:%s", ErrMalformedRange, start.Name(), token)
}

func writeSlice(b *strings.Builder, column, from, to int) {
	fmt.Fprintf(b, "%s[%d:%d]", address.ColumnName(column), from, to)
}

// MoveTo returns a copy of f relocated to pos: every reference is shifted by
// the offset between pos and f.Position and rewritten in the raw text, in
// the letter case it was written in. The copy has an empty value and must be
// evaluated again. A formula whose text does not parse is copied unchanged.
//
// MoveTo panics if the rewritten text does not parse back to the shifted
// references.
func (f *Formula) MoveTo(pos address.Position, size address.Size) (*Formula, error) {
	source, err := parseRaw(f.Raw, size)
	if err != nil {
		return &Formula{Position: pos, Raw: f.Raw}, nil
	}

	dx, dy := pos.Sub(f.Position)
	refs := make([]Reference, len(source.refs))
	var raw strings.Builder
	last := 0

	for i, ref := range source.refs {
		moved, ok := ref.shifted(dx, dy)
		if !ok || moved.pastWidth(size.Width) {
			return nil, fmt.Errorf("%w: %s moved by (%d, %d)", ErrReferenceOutOfRange, ref, dx, dy)
		}
		s := source.spans[i]
		replacement := moved.Text()
		if old := f.Raw[s.start:s.end]; moved.Kind == RefColumn && old == strings.ToLower(old) {
			replacement = strings.ToLower(replacement)
		}
		raw.WriteString(f.Raw[last:s.start])
		raw.WriteString(replacement)
		last = s.end
		refs[i] = moved
	}
	raw.WriteString(f.Raw[last:])

	parsed, reparsed, err := ParseRaw(raw.String(), size)
	if err != nil || !slices.Equal(refs, reparsed) {
		panic(fmt.Sprintf(
			"formula: relocated references diverge from reparse: raw=%q parsed=%q refs=%v reparsed=%v err=%v (from raw=%q parsed=%q)",
			raw.String(), parsed, refs, reparsed, err, f.Raw, f.Parsed,
		))
	}

	return &Formula{
		Position:   pos,
		Raw:        raw.String(),
		Parsed:     parsed,
		References: refs,
	}, nil
}

// Append adds ch to the raw text and re-parses the whole buffer. When the
// buffer does not parse (e.g. a half-typed range) the expression and
// references are cleared and the error is returned.
func (f *Formula) Append(ch rune, size address.Size) error {
	f.Raw += string(ch)
	parsed, refs, err := ParseRaw(f.Raw, size)
	if err != nil {
		f.Parsed, f.References = "", nil
		return err
	}
	f.Parsed, f.References = parsed, refs
	return nil
}

// Broken reports whether raw text is present but did not parse.
func (f *Formula) Broken() bool {
	return f.Parsed == "" && strings.TrimSpace(f.Raw) != ""
}

// Evaluate runs the expression through ev and stores the result. Evaluator
// failures become the error value.
func (f *Formula) Evaluate(ev Evaluator, bindings Bindings) {
	switch {
	case f.Broken():
		f.Value = ErrorValue()
	case f.Parsed == "":
		f.Value = Value{}
	default:
		v, err := ev.Evaluate(f.Parsed, bindings)
		if err != nil {
			v = ErrorValue()
		}
		f.Value = v
	}
}

// IsError reports whether the last evaluation failed.
func (f *Formula) IsError() bool {
	return f.Value.Kind == ValueError
}

// IsRightAligned reports whether the current value is numeric or an error.
func (f *Formula) IsRightAligned() bool {
	return f.Value.IsNumeric() || f.Value.Kind == ValueError
}

// LongDisplay is the editable form, "=" followed by the raw text.
func (f *Formula) LongDisplay() string {
	return "=" + f.Raw
}

// Display is the current value.
func (f *Formula) Display() string {
	return f.Value.Display()
}
