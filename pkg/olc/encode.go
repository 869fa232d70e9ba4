package olc

import (
	"fmt"
	"math"
)

// Encode returns the Plus Code of the cell containing (lat, lng) with
// codeLen significant digits.
//
// Latitude is clipped to [-90, 90]; a latitude of exactly 90 lands in the
// topmost cell. Longitude is wrapped into [-180, 180). codeLen must be 2, 4,
// 6, 8 or 10..15; lengths below 8 produce padded codes.
func Encode(lat, lng float64, codeLen int) (string, error) {
	if !validLength(codeLen) {
		return "", fmt.Errorf("%w: %d", ErrInvalidLength, codeLen)
	}
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return "", fmt.Errorf("%w: (%v, %v)", ErrInvalidLocation, lat, lng)
	}
	latVal, lngVal := locationToIntegers(lat, lng)
	return encodeIntegers(latVal, lngVal, codeLen), nil
}

func validLength(n int) bool {
	if n < 2 || n > MaxCodeLength {
		return false
	}
	return n >= pairCodeLen || n%2 == 0
}

func clipLatitude(lat float64) float64 {
	return math.Max(-latMax, math.Min(latMax, lat))
}

func normalizeLongitude(lng float64) float64 {
	if lng >= -lngMax && lng < lngMax {
		return lng
	}
	lng = math.Mod(lng, 2*lngMax)
	if lng < -lngMax {
		lng += 2 * lngMax
	} else if lng >= lngMax {
		lng -= 2 * lngMax
	}
	return lng
}

// locationToIntegers scales a location to non-negative integer offsets from
// the south-west corner (-90, -180) in units of the finest grid cell.
func locationToIntegers(lat, lng float64) (latVal, lngVal int64) {
	lat = clipLatitude(lat)
	// math.Mod is exact, so this only drops whole turns.
	lng = math.Mod(lng, 2*lngMax)

	latVal = int64(math.Floor(lat * finalLatPrecision))
	latVal += latMax * finalLatPrecision
	if latVal < 0 {
		latVal = 0
	} else if latVal >= 2*latMax*finalLatPrecision {
		latVal = 2*latMax*finalLatPrecision - 1
	}

	lngVal = int64(math.Floor(lng * finalLngPrecision))
	lngVal += lngMax * finalLngPrecision
	lngVal %= 2 * lngMax * finalLngPrecision
	if lngVal < 0 {
		lngVal += 2 * lngMax * finalLngPrecision
	}
	return latVal, lngVal
}

func encodeIntegers(latVal, lngVal int64, codeLen int) string {
	var code [MaxCodeLength + 1]byte

	if codeLen > pairCodeLen {
		for i := gridCodeLen - 1; i >= 0; i-- {
			code[sepPos+1+2+i] = Alphabet[gridDigit(latVal%gridRows, lngVal%gridCols)]
			latVal /= gridRows
			lngVal /= gridCols
		}
	} else {
		latVal /= gridLatScale
		lngVal /= gridLngScale
	}

	code[sepPos] = Separator
	for i := pairCodeLen/2 - 1; i >= 0; i-- {
		pos := 2 * i
		if pos >= sepPos {
			pos++
		}
		code[pos] = Alphabet[latVal%int64(encBase)]
		code[pos+1] = Alphabet[lngVal%int64(encBase)]
		latVal /= int64(encBase)
		lngVal /= int64(encBase)
	}

	if codeLen < sepPos {
		for i := codeLen; i < sepPos; i++ {
			code[i] = Padding
		}
		return string(code[:sepPos+1])
	}
	return string(code[:codeLen+1])
}
