package grid

import (
	"strings"
)

// SerializeCSV renders the used area as delimited text: the long display form
// of every cell, fields joined by sep and rows terminated by "\n". Fields
// containing sep, a quote or a line break are quoted with quotes doubled.
func (g *Grid) SerializeCSV(sep rune) string {
	var b strings.Builder
	for y := 0; y <= g.used.Row; y++ {
		for x := 0; x <= g.used.Column; x++ {
			if x > 0 {
				b.WriteRune(sep)
			}
			writeField(&b, g.cells[y*g.width+x].LongDisplay(), sep)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func writeField(b *strings.Builder, field string, sep rune) {
	if !needsQuote(field, sep) {
		b.WriteString(field)
		return
	}
	b.WriteByte('"')
	b.WriteString(strings.ReplaceAll(field, `"`, `""`))
	b.WriteByte('"')
}

func needsQuote(field string, sep rune) bool {
	return strings.ContainsRune(field, sep) || strings.ContainsAny(field, "\"\r\n")
}
