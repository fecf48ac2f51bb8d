package render

import (
	"math"
	"testing"
)

func TestFillTriangleCoverage(t *testing.T) {
	fb := NewFrameBuffer(20, 20)

	// Right triangle with legs of length 10: roughly 50 px² of coverage
	fb.FillTriangle(
		pixelVertex{X: 2, Y: 2, Z: 1},
		pixelVertex{X: 12, Y: 2, Z: 1},
		pixelVertex{X: 2, Y: 12, Z: 1},
		RGBA{R: 1, A: 1},
	)

	covered := fb.CoveredPixels()
	if covered < 40 || covered > 70 {
		t.Errorf("covered = %d, want roughly 50", covered)
	}
}

func TestFillTriangleDepthOrderIndependent(t *testing.T) {
	near := RGBA{R: 1, A: 1}
	far := RGBA{B: 1, A: 1}

	tri := func(z float64) [3]pixelVertex {
		return [3]pixelVertex{
			{X: 2, Y: 2, Z: z},
			{X: 17, Y: 2, Z: z},
			{X: 2, Y: 17, Z: z},
		}
	}

	for name, order := range map[string][2]float64{
		"near first": {5, 10},
		"far first":  {10, 5},
	} {
		fb := NewFrameBuffer(20, 20)
		for _, z := range order {
			col := near
			if z > 5 {
				col = far
			}
			v := tri(z)
			fb.FillTriangle(v[0], v[1], v[2], col)
		}

		if got := fb.At(5, 5); got != near {
			t.Errorf("%s: overlap color = %+v, want near triangle", name, got)
		}
		if got := fb.DepthAt(5, 5); math.Abs(got-5) > 1e-9 {
			t.Errorf("%s: overlap depth = %v, want 5", name, got)
		}
	}
}

func TestFillTriangleDegenerateSkipped(t *testing.T) {
	fb := NewFrameBuffer(10, 10)

	// Collinear vertices: zero signed area, must write nothing
	fb.FillTriangle(
		pixelVertex{X: 1, Y: 1, Z: 1},
		pixelVertex{X: 5, Y: 5, Z: 1},
		pixelVertex{X: 9, Y: 9, Z: 1},
		RGBA{R: 1, A: 1},
	)

	if got := fb.CoveredPixels(); got != 0 {
		t.Errorf("degenerate triangle covered %d pixels", got)
	}
}

func TestFillTriangleWindingInsensitive(t *testing.T) {
	col := RGBA{G: 1, A: 1}

	ccw := NewFrameBuffer(20, 20)
	ccw.FillTriangle(
		pixelVertex{X: 2, Y: 2, Z: 1},
		pixelVertex{X: 17, Y: 2, Z: 1},
		pixelVertex{X: 2, Y: 17, Z: 1},
		col,
	)

	cw := NewFrameBuffer(20, 20)
	cw.FillTriangle(
		pixelVertex{X: 2, Y: 2, Z: 1},
		pixelVertex{X: 2, Y: 17, Z: 1},
		pixelVertex{X: 17, Y: 2, Z: 1},
		col,
	)

	if ccw.CoveredPixels() != cw.CoveredPixels() {
		t.Errorf("coverage depends on winding: ccw %d, cw %d",
			ccw.CoveredPixels(), cw.CoveredPixels())
	}
}

func TestFillTriangleClippedToBuffer(t *testing.T) {
	fb := NewFrameBuffer(10, 10)

	// Extends well past every edge; must not panic or index out of range
	fb.FillTriangle(
		pixelVertex{X: -100, Y: -100, Z: 1},
		pixelVertex{X: 300, Y: -100, Z: 1},
		pixelVertex{X: -100, Y: 300, Z: 1},
		RGBA{R: 1, A: 1},
	)

	if got := fb.CoveredPixels(); got != 100 {
		t.Errorf("covered = %d, want full buffer", got)
	}
}

func TestFillTriangleFullyOutside(t *testing.T) {
	fb := NewFrameBuffer(10, 10)

	fb.FillTriangle(
		pixelVertex{X: 100, Y: 100, Z: 1},
		pixelVertex{X: 120, Y: 100, Z: 1},
		pixelVertex{X: 100, Y: 120, Z: 1},
		RGBA{R: 1, A: 1},
	)

	if got := fb.CoveredPixels(); got != 0 {
		t.Errorf("off-screen triangle covered %d pixels", got)
	}
}

func TestPaintTriangleLastWriterWins(t *testing.T) {
	first := RGBA{R: 1, A: 1}
	second := RGBA{B: 1, A: 1}

	fb := NewFrameBuffer(20, 20)
	v := [3]pixelVertex{
		{X: 2, Y: 2, Z: 10},
		{X: 17, Y: 2, Z: 10},
		{X: 2, Y: 17, Z: 10},
	}
	fb.PaintTriangle(v[0], v[1], v[2], first)

	// Painter's algorithm ignores depth: the later triangle wins even
	// though its z is farther away.
	w := [3]pixelVertex{
		{X: 2, Y: 2, Z: 100},
		{X: 17, Y: 2, Z: 100},
		{X: 2, Y: 17, Z: 100},
	}
	fb.PaintTriangle(w[0], w[1], w[2], second)

	if got := fb.At(5, 5); got != second {
		t.Errorf("overlap color = %+v, want last painted", got)
	}
}

func TestToImagePreservesTransparency(t *testing.T) {
	fb := NewFrameBuffer(4, 4)
	fb.FillTriangle(
		pixelVertex{X: 0, Y: 0, Z: 1},
		pixelVertex{X: 4, Y: 0, Z: 1},
		pixelVertex{X: 0, Y: 4, Z: 1},
		RGBA{R: 0.5, G: 0.5, B: 0.5, A: 1},
	)

	img := fb.ToImage()
	if img.Bounds().Dx() != 4 || img.Bounds().Dy() != 4 {
		t.Fatalf("image bounds = %v", img.Bounds())
	}

	// Top-left is inside the triangle, bottom-right untouched
	if _, _, _, a := img.At(0, 0).RGBA(); a == 0 {
		t.Error("covered pixel is transparent")
	}
	if _, _, _, a := img.At(3, 3).RGBA(); a != 0 {
		t.Error("uncovered pixel is opaque")
	}
}

func TestChannelByteClamps(t *testing.T) {
	cases := []struct {
		in   float64
		want uint8
	}{
		{-1, 0},
		{0, 0},
		{0.5, 128},
		{1, 255},
		{2, 255},
	}
	for _, c := range cases {
		if got := channelByte(c.in); got != c.want {
			t.Errorf("channelByte(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestDepthBufferStartsAtInfinity(t *testing.T) {
	fb := NewFrameBuffer(2, 2)
	if !math.IsInf(fb.DepthAt(1, 1), 1) {
		t.Errorf("initial depth = %v", fb.DepthAt(1, 1))
	}
}
