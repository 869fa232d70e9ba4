package olc

// Digits after the 10th each split the current cell into gridRows latitude
// bands and gridCols longitude bands, numbered row-major from the south-west.
const (
	gridRows = 5
	gridCols = 4
)

func gridDigit(row, col int64) int64 { return row*gridCols + col }

func gridCell(d int64) (row, col int64) { return d / gridCols, d % gridCols }

// Integer scales. Coordinates are multiplied by the final precisions so that
// every digit can be extracted with exact div/mod arithmetic.
const (
	// pairPrecision is the number of units per degree at the 10th digit
	// (1 / 0.000125).
	pairPrecision = 8000
	// pairFirstPlaceValue is the unit value of the first pair digit.
	pairFirstPlaceValue = 160000

	gridLatFirstPlaceValue = 625 // gridRows^(gridCodeLen-1)
	gridLngFirstPlaceValue = 256 // gridCols^(gridCodeLen-1)

	gridLatScale = 3125 // gridRows^gridCodeLen
	gridLngScale = 1024 // gridCols^gridCodeLen

	finalLatPrecision = pairPrecision * gridLatScale
	finalLngPrecision = pairPrecision * gridLngScale
)

// pairResolutions holds the cell size in degrees of each digit pair.
var pairResolutions = [pairCodeLen / 2]float64{20.0, 1.0, .05, .0025, .000125}
