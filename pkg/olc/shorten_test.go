package olc

import (
	"errors"
	"math"
	"testing"
)

// testType: B both directions, S shorten only, R recover only.
var shortCodeVectors = []struct {
	full      string
	lat, lng  float64
	short     string
	testType  byte
}{
	{"9C3W9QCJ+2VX", 51.3701125, -1.217765625, "+2VX", 'B'},
	{"9C3W9QCJ+2VX", 51.3708675, -1.217765625, "CJ+2VX", 'B'},
	{"9C3W9QCJ+2VX", 51.3693575, -1.217765625, "CJ+2VX", 'B'},
	{"9C3W9QCJ+2VX", 51.3701125, -1.218520625, "CJ+2VX", 'B'},
	{"9C3W9QCJ+2VX", 51.3701125, -1.217010625, "CJ+2VX", 'B'},
	{"9C3W9QCJ+2VX", 51.3852125, -1.217765625, "9QCJ+2VX", 'B'},
	{"9C3W9QCJ+2VX", 51.3550125, -1.217765625, "9QCJ+2VX", 'B'},
	{"9C3W9QCJ+2VX", 51.3701125, -1.232865625, "9QCJ+2VX", 'B'},
	{"9C3W9QCJ+2VX", 51.3701125, -1.202665625, "9QCJ+2VX", 'B'},
	{"8FJFW222+", 42.899, 9.012, "22+", 'B'},
	{"796RXG22+", 14.95125, -23.5001, "22+", 'B'},
	// an 8-digit code keeps its last pair even at its own center
	{"7RGMHX94+", 20.56875, 153.95625, "94+", 'B'},
	{"8FVC2GGG+GG", 46.976, 8.526, "2GGG+GG", 'B'},
	{"8FRCXGGG+GG", 47.026, 8.526, "XGGG+GG", 'B'},
	{"8FR9GXGG+GG", 46.526, 8.026, "GXGG+GG", 'B'},
	{"8FR9HXGG+GG", 46.626, 8.026, "HXGG+GG", 'B'},
	{"8FRCHGGG+GG", 46.776, 8.526, "HGGG+GG", 'B'},
	{"8FRCHGGG+GG", 46.626, 8.026, "CHGGG+GG", 'S'},
	// the reference sits in a neighbouring cell
	{"8FVCCJ8F+6X", 47.4, 8.6, "8F+6X", 'R'},
	// near the poles the shifted cell would leave the globe
	{"CFX22222+22", 89.6, 0.0, "2222+22", 'R'},
	{"2CCXXXXX+XX", -81.0, 0.0, "XXXXXX+XX", 'R'},
	// recovery across the antimeridian
	{"62G2G222+22", 0.5, 179.999, "22+22", 'R'},
	{"6VGXFXXX+XX", 0.5, -179.999, "XX+XX", 'R'},
	{"62F2X2X2+X2", 0.4, -179.9, "X2X2+X2", 'R'},
}

func TestShortCodes_Vectors(t *testing.T) {
	for _, v := range shortCodeVectors {
		if v.testType == 'B' || v.testType == 'S' {
			got, err := Shorten(v.full, v.lat, v.lng)
			if err != nil {
				t.Fatalf("Shorten(%q,%v,%v): %v", v.full, v.lat, v.lng, err)
			}
			if got != v.short {
				t.Fatalf("Shorten(%q,%v,%v)=%q want %q", v.full, v.lat, v.lng, got, v.short)
			}
		}
		if v.testType == 'B' || v.testType == 'R' {
			got, err := RecoverNearest(v.short, v.lat, v.lng)
			if err != nil {
				t.Fatalf("RecoverNearest(%q,%v,%v): %v", v.short, v.lat, v.lng, err)
			}
			if got != v.full {
				t.Fatalf("RecoverNearest(%q,%v,%v)=%q want %q", v.short, v.lat, v.lng, got, v.full)
			}
		}
	}
}

func TestShorten_TooFarReturnsFullCode(t *testing.T) {
	got, err := Shorten("8fvc9g8f+6x", -33.9, 151.2)
	if err != nil {
		t.Fatalf("Shorten: %v", err)
	}
	if got != "8FVC9G8F+6X" {
		t.Fatalf("Shorten far=%q want unchanged upper-case code", got)
	}
}

func TestShorten_Errors(t *testing.T) {
	for _, code := range []string{"9G8F+6X", "8FVC0000+", "not a code", ""} {
		if _, err := Shorten(code, 47.5, 8.5); !errors.Is(err, ErrNotFullCode) {
			t.Fatalf("Shorten(%q) err=%v want ErrNotFullCode", code, err)
		}
	}
}

func TestShorten_PaddedCode(t *testing.T) {
	_, err := Shorten("8FVC0000+", 47.5, 8.5)
	if !errors.Is(err, ErrPaddedCode) || !errors.Is(err, ErrNotFullCode) {
		t.Fatalf("Shorten padded err=%v want ErrPaddedCode and ErrNotFullCode", err)
	}
	if _, err := Shorten("9G8F+6X", 47.5, 8.5); errors.Is(err, ErrPaddedCode) {
		t.Fatalf("short code err=%v must not be ErrPaddedCode", err)
	}
}

func TestShorten_EightDigitCodesKeepLastPair(t *testing.T) {
	for _, lat := range []float64{-89.9, -45.3, 0, 20.5, 47.36, 89.9} {
		for _, lng := range []float64{-179.9, -75.2, 0, 8.52, 153.95, 179.9} {
			code, err := Encode(lat, lng, 8)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			a, _ := Decode(code)
			cLat, cLng := a.Center()
			short, err := Shorten(code, cLat, cLng)
			if err != nil {
				t.Fatalf("Shorten(%q): %v", code, err)
			}
			if short != code[6:] {
				t.Fatalf("Shorten(%q) at center=%q want %q", code, short, code[6:])
			}
			got, err := RecoverNearest(short, cLat, cLng)
			if err != nil || got != code {
				t.Fatalf("RecoverNearest(%q)=%q,%v want %q", short, got, err, code)
			}
		}
	}
}

func TestRecoverNearest_Errors(t *testing.T) {
	for _, code := range []string{"8FVC9G8F+6X", "8FVC0000+", "9G8F+6", "", "WC2300+"} {
		if _, err := RecoverNearest(code, 47.4, 8.6); !errors.Is(err, ErrNotShortCode) {
			t.Fatalf("RecoverNearest(%q) err=%v want ErrNotShortCode", code, err)
		}
	}
	if _, err := RecoverNearest("9G8F+6X", math.NaN(), 8.6); !errors.Is(err, ErrInvalidLocation) {
		t.Fatalf("NaN reference err=%v", err)
	}
}

func TestRecoverNearest_LowerCaseAndFarReferences(t *testing.T) {
	got, err := RecoverNearest("9g8f+6x", 47.4, 8.6)
	if err != nil || got != "8FVC9G8F+6X" {
		t.Fatalf("lower-case recover=%q,%v", got, err)
	}
	// a reference on the other side of the world still yields a full code
	// ending in the short code
	got, err = RecoverNearest("9G8F+6X", -33.9, 151.2)
	if err != nil {
		t.Fatalf("RecoverNearest far: %v", err)
	}
	if !IsFull(got) || got[4:] != "9G8F+6X" {
		t.Fatalf("far recover=%q", got)
	}
}
