package masking

import "strings"

// Masker turns a sensitive string into its redacted form.
// Implementations must be total: every input yields an output, no errors.
type Masker interface {
	// Name returns the unique identifier for this masker.
	Name() string

	// Mask returns the redacted form of data.
	Mask(data string) string
}

// CharClassMasker replaces every character with a placeholder of its class:
// digits become '*', upper-case ASCII letters become 'X' and any other
// visible character becomes 'x'. Whitespace and ASCII punctuation pass through.
type CharClassMasker struct{}

// Name implements Masker.
func (CharClassMasker) Name() string { return "char_class" }

// Mask implements Masker.
func (CharClassMasker) Mask(data string) string { return MaskString(data) }

// MaskString applies the character-class mask to s.
// The result contains no digit and no upper-case letter other than 'X',
// and MaskString(MaskString(s)) == MaskString(s).
func MaskString(s string) string {
	return strings.Map(maskRune, s)
}

func maskRune(r rune) rune {
	switch {
	case r >= '0' && r <= '9':
		return '*'
	case r >= 'A' && r <= 'Z':
		return 'X'
	case isWhitespace(r), isPunctuation(r):
		return r
	default:
		return 'x'
	}
}

// isWhitespace matches the ASCII whitespace class: space, \t, \n, \v, \f, \r.
func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// isPunctuation matches the printable ASCII ranges !-/, :-@, [-` and {-~.
// '*' falls in the first range, so masked digits stay stable.
func isPunctuation(r rune) bool {
	return (r >= '!' && r <= '/') ||
		(r >= ':' && r <= '@') ||
		(r >= '[' && r <= '`') ||
		(r >= '{' && r <= '~')
}
