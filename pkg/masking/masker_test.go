package masking

import (
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
)

func TestMaskString(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: ""},
		{name: "mixed case and digits", input: "Ab12", want: "Xx**"},
		{name: "punctuation and spaces kept", input: "Hello, World 2024!", want: "Xxxxx, Xxxxx ****!"},
		{name: "email", input: "jane.doe@example.com", want: "xxxx.xxx@xxxxxxx.xxx"},
		{name: "whitespace kept", input: "a\tb\nC\r\v\f", want: "x\tx\nX\r\v\f"},
		{name: "non-ascii becomes x", input: "café Ü", want: "xxxx x"},
		{name: "all punctuation ranges", input: "!/:@[`{~", want: "!/:@[`{~"},
		{name: "already masked", input: "Xx** x", want: "Xx** x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskString(tt.input))
		})
	}
}

func TestMaskString_NoDigitsOrUpperCase(t *testing.T) {
	inputs := []string{
		"4111 1111 1111 1111",
		"ABCDEFGHIJKLMNOPQRSTUVWXYZ",
		"Pa$$w0rd-2024",
		"ÀÉÎÕÜ 漢字 ١٢٣",
		"mixed: Q9 z8 Y7",
	}

	for _, in := range inputs {
		masked := MaskString(in)
		for _, r := range masked {
			assert.False(t, r >= '0' && r <= '9', "digit %q left in %q", r, masked)
			assert.False(t, unicode.IsUpper(r) && r != 'X', "upper-case %q left in %q", r, masked)
		}
	}
}

func TestMaskString_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"x",
		"X",
		"*",
		"Ab12",
		"IBAN: DE89 3704 0044 0532 0130 00",
		"ÀÉÎÕÜ 漢字",
		"{\"key\": [1, 2]}",
	}

	for _, in := range inputs {
		once := MaskString(in)
		assert.Equal(t, once, MaskString(once), "masking %q twice changed the result", in)
	}
}

func TestCharClassMasker(t *testing.T) {
	var m Masker = CharClassMasker{}
	assert.Equal(t, "char_class", m.Name())
	assert.Equal(t, "Xx**", m.Mask("Ab12"))
}
