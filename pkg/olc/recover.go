package olc

import (
	"fmt"
	"math"
	"strings"
)

type shift struct{ lat, lng int }

// candidateShifts lists the neighbouring cells tried during recovery, the
// unshifted cell first so that it wins ties.
var candidateShifts = [...]shift{
	{0, 0},
	{-1, 0}, {1, 0}, {0, -1}, {0, 1},
	{-1, -1}, {-1, 1}, {1, -1}, {1, 1},
}

// RecoverNearest returns the full code closest to the reference location
// that ends with the given short code.
//
// The missing leading digits are taken from the reference location. Since
// the intended place may sit across a cell edge from the reference, the
// neighbouring cells at the recovered resolution are tried too and the one
// whose center is nearest the reference wins.
func RecoverNearest(code string, lat, lng float64) (string, error) {
	kind, err := classify(code)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNotShortCode, err)
	}
	if kind != KindShort {
		return "", fmt.Errorf("%w: %q is a full code", ErrNotShortCode, code)
	}
	if math.IsNaN(lat) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return "", fmt.Errorf("%w: (%v, %v)", ErrInvalidLocation, lat, lng)
	}
	lat = clipLatitude(lat)
	lng = normalizeLongitude(lng)
	code = strings.ToUpper(code)

	padLen := sepPos - strings.IndexByte(code, Separator)
	resolution := math.Pow(float64(encBase), float64(2-padLen/2))

	ref, err := Encode(lat, lng, DefaultCodeLength)
	if err != nil {
		return "", err
	}
	area, err := Decode(ref[:padLen] + code)
	if err != nil {
		return "", err
	}
	cLat, cLng := area.Center()

	best := ""
	bestDist := math.Inf(1)
	for _, s := range candidateShifts {
		candLat := cLat + float64(s.lat)*resolution
		if candLat < -latMax || candLat > latMax {
			continue
		}
		candLng := cLng + float64(s.lng)*resolution
		cand, err := Encode(candLat, candLng, area.CodeLength)
		if err != nil {
			return "", err
		}
		candArea, err := Decode(cand)
		if err != nil {
			return "", err
		}
		aLat, aLng := candArea.Center()
		if d := math.Hypot(aLat-lat, lngDelta(aLng, lng)); d < bestDist {
			best, bestDist = cand, d
		}
	}
	return best, nil
}

// lngDelta returns a-b measured the short way around the antimeridian.
func lngDelta(a, b float64) float64 {
	d := math.Mod(a-b, 2*lngMax)
	if d > lngMax {
		d -= 2 * lngMax
	} else if d < -lngMax {
		d += 2 * lngMax
	}
	return d
}
