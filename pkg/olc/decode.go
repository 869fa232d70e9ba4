package olc

import (
	"fmt"
	"strings"
)

// Decode returns the area named by a full code. Short and invalid codes are
// rejected with ErrInvalidCode. Digits after the 15th are ignored.
func Decode(code string) (CodeArea, error) {
	kind, err := classify(code)
	if err != nil {
		return CodeArea{}, err
	}
	if kind != KindFull {
		return CodeArea{}, fmt.Errorf("%w: %w: %q", ErrInvalidCode, ErrNotFullCode, code)
	}
	return decodeDigits(significantDigits(code)), nil
}

// significantDigits strips the separator and padding and truncates to
// MaxCodeLength digits.
func significantDigits(code string) string {
	var b strings.Builder
	b.Grow(len(code))
	for i := 0; i < len(code) && b.Len() < MaxCodeLength; i++ {
		c := code[i]
		if c == Separator || c == Padding {
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func decodeDigits(digits string) CodeArea {
	normalLat := int64(-latMax * pairPrecision)
	normalLng := int64(-lngMax * pairPrecision)
	var gridLat, gridLng int64

	pv := int64(pairFirstPlaceValue)
	n := min(len(digits), pairCodeLen)
	for i := 0; i < n; i += 2 {
		normalLat += digitOf(digits[i]) * pv
		normalLng += digitOf(digits[i+1]) * pv
		if i < n-2 {
			pv /= int64(encBase)
		}
	}
	latPrecision := float64(pv) / pairPrecision
	lngPrecision := float64(pv) / pairPrecision

	if len(digits) > pairCodeLen {
		rowPV := int64(gridLatFirstPlaceValue)
		colPV := int64(gridLngFirstPlaceValue)
		for i := pairCodeLen; i < len(digits); i++ {
			row, col := gridCell(digitOf(digits[i]))
			gridLat += row * rowPV
			gridLng += col * colPV
			if i < len(digits)-1 {
				rowPV /= gridRows
				colPV /= gridCols
			}
		}
		latPrecision = float64(rowPV) / finalLatPrecision
		lngPrecision = float64(colPV) / finalLngPrecision
	}

	lat := float64(normalLat)/pairPrecision + float64(gridLat)/finalLatPrecision
	lng := float64(normalLng)/pairPrecision + float64(gridLng)/finalLngPrecision
	return CodeArea{
		LatitudeLo:  lat,
		LongitudeLo: lng,
		LatitudeHi:  lat + latPrecision,
		LongitudeHi: lng + lngPrecision,
		CodeLength:  len(digits),
	}
}
