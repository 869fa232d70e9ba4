package olc

import (
	"fmt"
	"math"
	"strings"
)

// minTrimmableCodeLen is the shortest decoded length Shorten works on.
const minTrimmableCodeLen = 6

// shortenMargin scales a pair resolution into the largest reference
// distance at which the removed pairs can still be recovered.
const shortenMargin = 0.3

// Shorten removes as many leading digits (8, 6 or 4) from a full code as can
// be recovered from the reference location. The full code is returned
// unchanged, upper-cased, when the reference is too far away.
func Shorten(code string, lat, lng float64) (string, error) {
	kind, err := classify(code)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNotFullCode, err)
	}
	if kind != KindFull {
		return "", fmt.Errorf("%w: %q", ErrNotFullCode, code)
	}
	if strings.IndexByte(code, Padding) >= 0 {
		return "", fmt.Errorf("%w: %w: %q", ErrNotFullCode, ErrPaddedCode, code)
	}
	code = strings.ToUpper(code)

	area, err := Decode(code)
	if err != nil {
		return "", err
	}
	if area.CodeLength < minTrimmableCodeLen {
		return "", fmt.Errorf("%w: code %q shorter than %d digits", ErrNotFullCode, code, minTrimmableCodeLen)
	}

	lat = clipLatitude(lat)
	lng = normalizeLongitude(lng)
	cLat, cLng := area.Center()
	rng := math.Max(math.Abs(cLat-lat), math.Abs(cLng-lng))

	// A short code keeps at least one digit pair before the separator.
	for i := len(pairResolutions) - 2; i >= 1; i-- {
		if (i+1)*2 >= area.CodeLength {
			continue
		}
		if rng < pairResolutions[i]*shortenMargin {
			return code[(i+1)*2:], nil
		}
	}
	return code, nil
}
