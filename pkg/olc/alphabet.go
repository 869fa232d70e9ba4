package olc

import "fmt"

const (
	// Alphabet holds the 20 code symbols; a symbol's index is its digit value.
	Alphabet = "23456789CFGHJMPQRVWX"

	// Separator follows the 8th digit of every code.
	Separator = '+'

	// Padding fills unused pair positions before the separator.
	Padding = '0'

	// DefaultCodeLength gives cells of roughly 14x14 metres.
	DefaultCodeLength = 10

	// MaxCodeLength is the longest code Encode produces. Decode ignores
	// digits past it.
	MaxCodeLength = 15

	sepPos      = 8
	encBase     = len(Alphabet)
	pairCodeLen = 10
	gridCodeLen = MaxCodeLength - pairCodeLen

	latMax = 90
	lngMax = 180
)

// decodeTable maps an upper-case symbol to its digit value, -1 elsewhere.
var decodeTable = func() [256]int8 {
	var t [256]int8
	for i := range t {
		t[i] = -1
	}
	for i := 0; i < len(Alphabet); i++ {
		t[Alphabet[i]] = int8(i)
	}
	return t
}()

// DigitValue returns the digit value 0..19 of a code symbol. Lower-case
// symbols are accepted.
func DigitValue(c byte) (int, error) {
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	v := decodeTable[c]
	if v < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidCharacter, c)
	}
	return int(v), nil
}

// DigitSymbol returns the upper-case symbol for a digit value 0..19.
func DigitSymbol(v int) (byte, error) {
	if v < 0 || v >= encBase {
		return 0, fmt.Errorf("olc: digit value %d out of range 0..%d", v, encBase-1)
	}
	return Alphabet[v], nil
}

// digitOf is DigitValue for bytes already known to be valid.
func digitOf(c byte) int64 {
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	return int64(decodeTable[c])
}
