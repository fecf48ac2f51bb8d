package library

import (
	"math"

	"github.com/philipparndt/gridlib/pkg/geometry"
)

// GridUnitMM is the Gridfinity base grid pitch
const GridUnitMM = 42.0

// UnitsFor converts a millimeter extent into grid units, rounding up.
// Anything above an exact multiple occupies the next full cell.
func UnitsFor(extentMM float64) int {
	if extentMM <= 0 {
		return 0
	}
	return int(math.Ceil(extentMM / GridUnitMM))
}

// GridDimensions converts a bounding box into grid units. The smaller of
// the two footprint extents is reported as width.
func GridDimensions(bbox geometry.BoundingBox) (width, height int) {
	size := bbox.Size()
	x := UnitsFor(size.X)
	y := UnitsFor(size.Y)
	if x <= y {
		return x, y
	}
	return y, x
}

// FootprintUnits converts a bounding box into grid units keeping the X/Y
// axis assignment, for callers that care about orientation.
func FootprintUnits(bbox geometry.BoundingBox) (xUnits, yUnits int) {
	size := bbox.Size()
	return UnitsFor(size.X), UnitsFor(size.Y)
}
