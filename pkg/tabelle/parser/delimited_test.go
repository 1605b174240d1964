package parser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeasureDelimited(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		sep           rune
		width, height int
	}{
		{"ragged rows", "a,b\nc,d,e\n", ',', 3, 2},
		{"other separator", "a,b\nc,d,e\n", ';', 1, 2},
		{"blank lines skipped", "a,b\n\n   \n,,\nc,d\n", ',', 2, 2},
		{"crlf", "a;b\r\nc;d\r\n", ';', 2, 2},
		{"quoted separator", `"a,b",c` + "\n", ',', 2, 1},
		{"empty fields", "a,,b\n", ',', 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h, err := MeasureDelimited(tt.input, tt.sep)
			require.NoError(t, err)
			if w != tt.width || h != tt.height {
				t.Errorf("MeasureDelimited() = %dx%d, want %dx%d", w, h, tt.width, tt.height)
			}
		})
	}
}

func TestParseDelimitedPadsRows(t *testing.T) {
	d, err := ParseDelimited("a,b\nc,d,e\n")
	require.NoError(t, err)
	assert.Equal(t, ',', d.Separator)
	assert.Equal(t, 3, d.Width)
	assert.Equal(t, 2, d.Height)
	assert.Equal(t, []string{"a", "b", "", "c", "d", "e"}, d.Cells)
	assert.Equal(t, "e", d.At(2, 1))
}

func TestParseDelimitedSelectsWidestSeparator(t *testing.T) {
	// 4 commas, 5 semicolons and 1 tab on every line
	line := "1,2;3,4;5,6;7,8;9;10\t11"
	d, err := ParseDelimited(line + "\n" + line + "\n")
	require.NoError(t, err)
	assert.Equal(t, ';', d.Separator)
	assert.Equal(t, 6, d.Width)
	assert.Equal(t, 2, d.Height)
	assert.Equal(t, "1,2", d.At(0, 0))
	assert.Equal(t, "10\t11", d.At(5, 1))
}

func TestParseDelimitedTieKeepsOrder(t *testing.T) {
	d, err := ParseDelimited("a,b;c\n")
	require.NoError(t, err)
	assert.Equal(t, ',', d.Separator)
	assert.Equal(t, []string{"a", "b;c"}, d.Cells)
}

func TestParseDelimitedQuotes(t *testing.T) {
	d, err := ParseDelimited(`"x, y",plain,"say ""hi"""` + "\n" + `q"uote,,=A0+1` + "\n")
	require.NoError(t, err)
	assert.Equal(t, 3, d.Width)
	assert.Equal(t, []string{"x, y", "plain", `say "hi"`, `q"uote`, "", "=A0+1"}, d.Cells)
}

func TestParseDelimitedErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"nothing", "", ErrNoCellsFound},
		{"only white space", "  \n\t \n", ErrNoCellsFound},
		{"text after closing quote", `"a"b` + "\n", ErrInvalidEscaping},
		{"unterminated quote", `"abc` + "\n", ErrUnfinishedEscaping},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDelimited(tt.input)
			require.Error(t, err)
			if !errors.Is(err, tt.want) {
				t.Errorf("ParseDelimited() error = %v, want %v", err, tt.want)
			}
			var de *DelimitedError
			assert.True(t, errors.As(err, &de))
		})
	}
}

func TestParseDelimitedReportsLine(t *testing.T) {
	_, err := ParseDelimitedWith("a,b\nc,\"d\n", ',')
	var de *DelimitedError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, 2, de.Line)
	assert.Equal(t, ',', de.Separator)
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		encoding string
		want     string
	}{
		{"utf-8", []byte("a,b"), "", "a,b"},
		{"utf-8 bom", []byte("\xef\xbb\xbfa,b"), "utf-8", "a,b"},
		{"latin1", []byte("caf\xe9"), "latin1", "café"},
		{"windows-1252", []byte("\x80 5"), "windows-1252", "€ 5"},
		{"utf-16 with bom", []byte{0xff, 0xfe, 'h', 0, 'i', 0}, "utf-16", "hi"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.data, tt.encoding)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Decode([]byte("x"), "ebcdic")
	assert.True(t, errors.Is(err, ErrUnknownEncoding))
}
