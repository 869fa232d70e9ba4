package olc

import "errors"

// Sentinel errors returned by the codec. Returned errors wrap one or more of
// these and can be tested with errors.Is.
var (
	// ErrInvalidLength is returned when a requested code length is not one of
	// 2, 4, 6, 8 or 10..15.
	ErrInvalidLength = errors.New("olc: invalid code length")

	// ErrInvalidCharacter is returned when a symbol is outside the code alphabet.
	ErrInvalidCharacter = errors.New("olc: invalid character")

	// ErrInvalidCode is returned when a string is not a well-formed code.
	ErrInvalidCode = errors.New("olc: invalid code")

	// ErrNotFullCode is returned when an operation requires a full code.
	ErrNotFullCode = errors.New("olc: not a full code")

	// ErrPaddedCode is returned alongside ErrNotFullCode when Shorten is given
	// a padded code.
	ErrPaddedCode = errors.New("olc: padded code")

	// ErrNotShortCode is returned when an operation requires a short code.
	ErrNotShortCode = errors.New("olc: not a short code")

	// ErrInvalidLocation is returned for NaN coordinates.
	ErrInvalidLocation = errors.New("olc: invalid location")
)
