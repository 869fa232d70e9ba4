package olc

import "math"

// CodeArea is the rectangle a code names, in decimal degrees.
type CodeArea struct {
	LatitudeLo  float64
	LongitudeLo float64
	LatitudeHi  float64
	LongitudeHi float64
	// CodeLength is the number of significant digits that produced the area.
	CodeLength int
}

// Center returns the middle of the area, clamped to the valid coordinate range.
func (a CodeArea) Center() (lat, lng float64) {
	lat = math.Min((a.LatitudeLo+a.LatitudeHi)/2, latMax)
	lng = math.Min((a.LongitudeLo+a.LongitudeHi)/2, lngMax)
	return lat, lng
}

// LatitudeCenter returns the latitude of the area center.
func (a CodeArea) LatitudeCenter() float64 {
	lat, _ := a.Center()
	return lat
}

// LongitudeCenter returns the longitude of the area center.
func (a CodeArea) LongitudeCenter() float64 {
	_, lng := a.Center()
	return lng
}

// Height is the latitude extent in degrees.
func (a CodeArea) Height() float64 { return a.LatitudeHi - a.LatitudeLo }

// Width is the longitude extent in degrees.
func (a CodeArea) Width() float64 { return a.LongitudeHi - a.LongitudeLo }

// Contains reports whether the point lies inside the area. The low edges are
// inclusive and the high edges exclusive, so neighbouring areas never overlap.
func (a CodeArea) Contains(lat, lng float64) bool {
	return a.LatitudeLo <= lat && lat < a.LatitudeHi &&
		a.LongitudeLo <= lng && lng < a.LongitudeHi
}
