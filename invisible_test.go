package tracestrip_test

import (
	"testing"

	"github.com/fwojciec/tracestrip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCodeRanges(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  []tracestrip.CodeRange
	}{
		{"single code point", "U+200B", []tracestrip.CodeRange{{Lo: 0x200B, Hi: 0x200B}}},
		{"range", "U+202A-U+202E", []tracestrip.CodeRange{{Lo: 0x202A, Hi: 0x202E}}},
		{"list without prefix", "200b, 2060-2064", []tracestrip.CodeRange{{Lo: 0x200B, Hi: 0x200B}, {Lo: 0x2060, Hi: 0x2064}}},
		{"lower case prefix", "u+e0000-u+e007f", []tracestrip.CodeRange{{Lo: 0xE0000, Hi: 0xE007F}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := tracestrip.ParseCodeRanges(tt.input)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, input := range []string{"", " , ", "U+XYZ", "U+2010-U+2000", "U+110000"} {
		t.Run("rejects "+input, func(t *testing.T) {
			t.Parallel()

			_, err := tracestrip.ParseCodeRanges(input)

			require.Error(t, err)
			assert.Equal(t, tracestrip.EINVALID, tracestrip.ErrorCode(err))
		})
	}
}

func TestFormatCodeRanges(t *testing.T) {
	t.Parallel()

	ranges := []tracestrip.CodeRange{{Lo: 0x200B, Hi: 0x200B}, {Lo: 0xE0000, Hi: 0xE007F}}

	assert.Equal(t, "U+200B,U+E0000-U+E007F", tracestrip.FormatCodeRanges(ranges))

	parsed, err := tracestrip.ParseCodeRanges(tracestrip.FormatCodeRanges(ranges))
	require.NoError(t, err)
	assert.Equal(t, ranges, parsed)
}

func TestInvisibleChar_Validate(t *testing.T) {
	t.Parallel()

	valid := tracestrip.InvisibleChar{Label: "ZWSP", Ranges: []tracestrip.CodeRange{{Lo: 0x200B, Hi: 0x200B}}}
	require.NoError(t, valid.Validate())

	for name, ch := range map[string]tracestrip.InvisibleChar{
		"missing label":    {Ranges: valid.Ranges},
		"no ranges":        {Label: "Empty"},
		"reversed range":   {Label: "Bad", Ranges: []tracestrip.CodeRange{{Lo: 0x2010, Hi: 0x2000}}},
		"printable ascii":  {Label: "Letters", Ranges: []tracestrip.CodeRange{{Lo: 0x41, Hi: 0x5A}}},
		"covers the space": {Label: "Space", Ranges: []tracestrip.CodeRange{{Lo: 0x00, Hi: 0x20}}},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			err := ch.Validate()

			require.Error(t, err)
			assert.Equal(t, tracestrip.EINVALID, tracestrip.ErrorCode(err))
		})
	}
}

func TestDefaultInvisibleChars(t *testing.T) {
	t.Parallel()

	chars := tracestrip.DefaultInvisibleChars()
	for i, a := range chars {
		require.NoError(t, a.Validate(), a.Label)
		for _, b := range chars[i+1:] {
			for _, ra := range a.Ranges {
				for _, rb := range b.Ranges {
					assert.False(t, ra.Lo <= rb.Hi && rb.Lo <= ra.Hi, "%s overlaps %s", a.Label, b.Label)
				}
			}
		}
	}
}
