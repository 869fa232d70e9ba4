package olc

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestReadmeExamples(t *testing.T) {
	code, err := Encode(47.365590, 8.524997, DefaultCodeLength)
	if err != nil || code != "8FVC9G8F+6X" {
		t.Fatalf("Encode default=%q,%v want 8FVC9G8F+6X", code, err)
	}
	code, err = Encode(47.365590, 8.524997, 11)
	if err != nil || code != "8FVC9G8F+6XQ" {
		t.Fatalf("Encode 11=%q,%v want 8FVC9G8F+6XQ", code, err)
	}

	area, err := Decode("8FVC9G8F+6X")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	lat, lng := area.Center()
	if math.Abs(lat-47.3655625) > 1e-7 || math.Abs(lng-8.5249375) > 1e-7 {
		t.Fatalf("center=(%v,%v) want (47.3655625,8.5249375)", lat, lng)
	}

	short, err := Shorten("8FVC9G8F+6X", 47.5, 8.5)
	if err != nil || short != "9G8F+6X" {
		t.Fatalf("Shorten=%q,%v want 9G8F+6X", short, err)
	}
	full, err := RecoverNearest("9G8F+6X", 47.4, 8.6)
	if err != nil || full != "8FVC9G8F+6X" {
		t.Fatalf("RecoverNearest(9G8F+6X)=%q,%v want 8FVC9G8F+6X", full, err)
	}
	full, err = RecoverNearest("8F+6X", 47.4, 8.6)
	if err != nil || full != "8FVCCJ8F+6X" {
		t.Fatalf("RecoverNearest(8F+6X)=%q,%v want 8FVCCJ8F+6X", full, err)
	}
}

type encodingVector struct {
	code                       string
	lat, lng                   float64
	latLo, lngLo, latHi, lngHi float64
}

var encodingVectors = []encodingVector{
	{"7FG49Q00+", 20.375, 2.775, 20.35, 2.75, 20.4, 2.8},
	{"7FG49QCJ+2V", 20.3700625, 2.7821875, 20.37, 2.782125, 20.370125, 2.78225},
	{"7FG49QCJ+2VX", 20.3701125, 2.782234375, 20.3701, 2.78221875, 20.370125, 2.78225},
	{"7FG49QCJ+2VXGJ", 20.3701135, 2.78223535156, 20.370113, 2.782234375, 20.370114, 2.78223632813},
	{"8FVC2222+22", 47.0000625, 8.0000625, 47.0, 8.0, 47.000125, 8.000125},
	{"4VCPPQGP+Q9", -41.2730625, 174.7859375, -41.273125, 174.785875, -41.273, 174.786},
	{"62G20000+", 0.5, -179.5, 0.0, -180.0, 1, -179},
	{"22220000+", -89.5, -179.5, -90, -180, -89, -179},
	{"7FG40000+", 20.5, 2.5, 20.0, 2.0, 21.0, 3.0},
	{"22222222+22", -89.9999375, -179.9999375, -90.0, -180.0, -89.999875, -179.999875},
	{"6VGX0000+", 0.5, 179.5, 0, 179, 1, 180},
	{"6FH32222+222", 1, 1, 1, 1, 1.000025, 1.00003125},
	{"CFX30000+", 90, 1, 89, 1, 90, 2},
	{"CFX30000+", 92, 1, 89, 1, 90, 2},
	{"CFX3X2X2+X2", 90, 1, 89.999875, 1, 90, 1.000125},
	{"62H20000+", 1, 180, 1, -180, 2, -179},
	{"62H30000+", 1, 181, 1, -179, 2, -178},
	{"6F000000+", 0, 0, -10, 0, 10, 20},
	{"6FG22200+", 0, 0, 0, 0, 0.05, 0.05},
	{"6FG22222+", 0, 0, 0, 0, 0.0025, 0.0025},
	{"849VGJQF+VX7Q", 37.539669125, -122.375069125, 37.539665, -122.3750703125, 37.53967, -122.3750625},
	{"849VGJQF+VX7QR", 37.539669125, -122.375069125, 37.539669, -122.3750703125, 37.53967, -122.375068359375},
	{"849VGJQF+VX7QR4", 37.539669125, -122.375069125, 37.539669, -122.3750693359375, 37.5396692, -122.37506884765625},
	{"849VGJQF+VX7QR4M", 37.539669125, -122.375069125, 37.53966912, -122.37506921386718, 37.53966916, -122.37506909179686},
	{"4RRH46J5+FPM4", -33.8688, 151.2093, -33.8688, 151.209296875, -33.868795, 151.2093046875},
	{"9C3XGV2G+75J5252", 51.5007, -0.1246, 51.5007, -0.12460009765625, 51.50070004, -0.1245999755859375},
}

// vectorLength derives the requested length from the code: padded codes end
// their digits at the first padding symbol.
func vectorLength(code string) int {
	if i := strings.IndexByte(code, Padding); i >= 0 {
		return i
	}
	return len(code) - 1
}

func TestEncode_Vectors(t *testing.T) {
	for _, v := range encodingVectors {
		got, err := Encode(v.lat, v.lng, vectorLength(v.code))
		if err != nil {
			t.Fatalf("Encode(%v,%v): %v", v.lat, v.lng, err)
		}
		if got != v.code {
			t.Fatalf("Encode(%v,%v,%d)=%q want %q", v.lat, v.lng, vectorLength(v.code), got, v.code)
		}
	}
}

func TestDecode_Vectors(t *testing.T) {
	const eps = 1e-10
	for _, v := range encodingVectors {
		a, err := Decode(v.code)
		if err != nil {
			t.Fatalf("Decode(%q): %v", v.code, err)
		}
		if math.Abs(a.LatitudeLo-v.latLo) > eps || math.Abs(a.LongitudeLo-v.lngLo) > eps ||
			math.Abs(a.LatitudeHi-v.latHi) > eps || math.Abs(a.LongitudeHi-v.lngHi) > eps {
			t.Fatalf("Decode(%q)=%+v want lo=(%v,%v) hi=(%v,%v)", v.code, a, v.latLo, v.lngLo, v.latHi, v.lngHi)
		}
		if a.CodeLength != vectorLength(v.code) {
			t.Fatalf("Decode(%q).CodeLength=%d want %d", v.code, a.CodeLength, vectorLength(v.code))
		}
	}
}

func TestEncode_InvalidLengths(t *testing.T) {
	for _, n := range []int{-1, 0, 1, 3, 5, 7, 9, 16, 17, 100000} {
		if _, err := Encode(47.365590, 8.524997, n); !errors.Is(err, ErrInvalidLength) {
			t.Fatalf("Encode len=%d err=%v want ErrInvalidLength", n, err)
		}
	}
	for _, n := range []int{2, 4, 6, 8, 10, 11, 12, 13, 14, 15} {
		code, err := Encode(47.365590, 8.524997, n)
		if err != nil {
			t.Fatalf("Encode len=%d: %v", n, err)
		}
		if !IsFull(code) {
			t.Fatalf("Encode len=%d produced non-full code %q", n, code)
		}
	}
}

func TestEncode_RejectsNaN(t *testing.T) {
	if _, err := Encode(math.NaN(), 0, 10); !errors.Is(err, ErrInvalidLocation) {
		t.Fatalf("NaN latitude err=%v", err)
	}
	if _, err := Encode(0, math.Inf(1), 10); !errors.Is(err, ErrInvalidLocation) {
		t.Fatalf("Inf longitude err=%v", err)
	}
}

func TestDecode_IgnoresDigitsPastMaximum(t *testing.T) {
	const maxCode = "849VGJQF+VX7QR4M"
	a, err := Decode(maxCode)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	b, err := Decode(maxCode + "7QR4M")
	if err != nil {
		t.Fatalf("Decode exceeded: %v", err)
	}
	if a != b {
		t.Fatalf("extra digits changed area: %+v vs %+v", a, b)
	}
	if b.CodeLength != MaxCodeLength {
		t.Fatalf("CodeLength=%d want %d", b.CodeLength, MaxCodeLength)
	}
}

func TestDecode_CaseInsensitive(t *testing.T) {
	a, err := Decode("8fvc9g8f+6x")
	if err != nil {
		t.Fatalf("Decode lower: %v", err)
	}
	b, _ := Decode("8FVC9G8F+6X")
	if a != b {
		t.Fatalf("lower-case decode %+v differs from %+v", a, b)
	}
}

func TestDecode_RejectsShortAndInvalid(t *testing.T) {
	for _, code := range []string{"9G8F+6X", "+2VX", "22+"} {
		if _, err := Decode(code); !errors.Is(err, ErrInvalidCode) || !errors.Is(err, ErrNotFullCode) {
			t.Fatalf("Decode(%q) err=%v want ErrInvalidCode/ErrNotFullCode", code, err)
		}
	}
	if _, err := Decode("8FWC2_45+G6"); !errors.Is(err, ErrInvalidCode) {
		t.Fatalf("expected ErrInvalidCode, got %v", err)
	}
	if _, err := Decode("8FVC9G8U+6X"); !errors.Is(err, ErrInvalidCharacter) {
		t.Fatalf("expected ErrInvalidCharacter, got %v", err)
	}
}

func TestCodeArea_Contains(t *testing.T) {
	area, err := Decode("8FVC9G8F+6X")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	lat, lng := area.Center()
	if !area.Contains(lat, lng) {
		t.Fatalf("area does not contain its center (%v,%v)", lat, lng)
	}
	if !area.Contains(area.LatitudeLo, area.LongitudeLo) {
		t.Fatalf("low corner must be inside")
	}
	for _, p := range [][2]float64{
		{area.LatitudeHi, lng},
		{lat, area.LongitudeHi},
		{area.LatitudeLo - 1e-9, lng},
		{lat, area.LongitudeLo - 1e-9},
	} {
		if area.Contains(p[0], p[1]) {
			t.Fatalf("area contains (%v,%v) outside [lo,hi)", p[0], p[1])
		}
	}

	// every encoded point lies in the area of its own code
	for _, pt := range [][2]float64{{47.365590, 8.524997}, {-33.8688, 151.2093}, {0, 0}} {
		code, _ := Encode(pt[0], pt[1], 10)
		a, _ := Decode(code)
		if !a.Contains(pt[0], pt[1]) {
			t.Fatalf("Decode(%q)=%+v does not contain (%v,%v)", code, a, pt[0], pt[1])
		}
	}
}
