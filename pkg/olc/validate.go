package olc

import (
	"fmt"
	"strings"
)

// Kind classifies a string as an invalid, short or full code.
type Kind int

const (
	// KindInvalid is any string that is not a well-formed code.
	KindInvalid Kind = iota
	// KindShort is a valid code with leading digit pairs removed.
	KindShort
	// KindFull is a valid code that decodes without a reference location.
	KindFull
)

func (k Kind) String() string {
	switch k {
	case KindShort:
		return "short"
	case KindFull:
		return "full"
	default:
		return "invalid"
	}
}

// Classify returns the kind of code. Every string has exactly one kind.
func Classify(code string) Kind {
	k, _ := classify(code)
	return k
}

// IsValid reports whether code is a valid short or full code.
func IsValid(code string) bool { return Classify(code) != KindInvalid }

// IsShort reports whether code is a valid code missing leading digit pairs.
func IsShort(code string) bool { return Classify(code) == KindShort }

// IsFull reports whether code is a valid code that can be decoded on its own.
func IsFull(code string) bool { return Classify(code) == KindFull }

// CheckValid returns nil for a valid code, otherwise an error wrapping
// ErrInvalidCode that describes the first problem found.
func CheckValid(code string) error {
	_, err := classify(code)
	return err
}

func classify(code string) (Kind, error) {
	if code == "" {
		return KindInvalid, fmt.Errorf("%w: empty code", ErrInvalidCode)
	}
	sep := strings.IndexByte(code, Separator)
	if sep < 0 {
		return KindInvalid, fmt.Errorf("%w: missing separator in %q", ErrInvalidCode, code)
	}
	if strings.LastIndexByte(code, Separator) != sep {
		return KindInvalid, fmt.Errorf("%w: more than one separator in %q", ErrInvalidCode, code)
	}
	if len(code) == 1 {
		return KindInvalid, fmt.Errorf("%w: separator only", ErrInvalidCode)
	}
	if sep > sepPos || sep%2 == 1 {
		return KindInvalid, fmt.Errorf("%w: separator at position %d in %q", ErrInvalidCode, sep, code)
	}

	if pad := strings.IndexByte(code, Padding); pad >= 0 {
		switch {
		case sep < sepPos:
			return KindInvalid, fmt.Errorf("%w: short code %q has padding", ErrInvalidCode, code)
		case pad == 0:
			return KindInvalid, fmt.Errorf("%w: %q starts with padding", ErrInvalidCode, code)
		case pad%2 == 1:
			return KindInvalid, fmt.Errorf("%w: odd padding in %q", ErrInvalidCode, code)
		case code[len(code)-1] != Separator:
			return KindInvalid, fmt.Errorf("%w: padded code %q must end with the separator", ErrInvalidCode, code)
		case strings.Trim(code[pad:sep], string(Padding)) != "":
			return KindInvalid, fmt.Errorf("%w: padding in %q must run up to the separator", ErrInvalidCode, code)
		}
	}

	if len(code)-sep-1 == 1 {
		return KindInvalid, fmt.Errorf("%w: single digit after separator in %q", ErrInvalidCode, code)
	}

	for i := 0; i < len(code); i++ {
		c := code[i]
		if c == Separator || c == Padding {
			continue
		}
		if _, err := DigitValue(c); err != nil {
			return KindInvalid, fmt.Errorf("%w: %w at position %d", ErrInvalidCode, err, i)
		}
	}

	if sep < sepPos {
		return KindShort, nil
	}

	// Latitude spans half the longitude range, so the first latitude digit
	// stops at 8 and the first longitude digit at 17.
	if digitOf(code[0])*int64(encBase) >= 2*latMax {
		return KindInvalid, fmt.Errorf("%w: first latitude digit of %q out of range", ErrInvalidCode, code)
	}
	if digitOf(code[1])*int64(encBase) >= 2*lngMax {
		return KindInvalid, fmt.Errorf("%w: first longitude digit of %q out of range", ErrInvalidCode, code)
	}
	return KindFull, nil
}
