package render

import (
	"image"
	"image/color"
	"math"
)

// Signed triangle areas smaller than this are treated as degenerate and
// skipped entirely (sub-pixel or zero-area faces).
const minTriangleArea = 0.5

// RGBA is a straight-alpha pixel with float channels in [0, 1]
type RGBA struct {
	R, G, B, A float64
}

// FrameBuffer is a color buffer with a parallel z-buffer. It is created
// fresh for each render call and owned exclusively by it.
type FrameBuffer struct {
	Width  int
	Height int
	color  []RGBA
	depth  []float64
}

// NewFrameBuffer creates a transparent framebuffer with all depths at
// positive infinity.
func NewFrameBuffer(width, height int) *FrameBuffer {
	fb := &FrameBuffer{
		Width:  width,
		Height: height,
		color:  make([]RGBA, width*height),
		depth:  make([]float64, width*height),
	}
	for i := range fb.depth {
		fb.depth[i] = math.Inf(1)
	}
	return fb
}

// At returns the color at a pixel
func (fb *FrameBuffer) At(x, y int) RGBA {
	return fb.color[y*fb.Width+x]
}

// DepthAt returns the z-buffer value at a pixel
func (fb *FrameBuffer) DepthAt(x, y int) float64 {
	return fb.depth[y*fb.Width+x]
}

// pixelVertex is a vertex mapped to pixel coordinates, keeping its
// view-space depth for the z test.
type pixelVertex struct {
	X, Y float64
	Z    float64
}

// FillTriangle rasterizes one triangle with per-pixel depth testing.
// Coverage and depth use the edge-function barycentric formulation; depth
// is interpolated linearly in view-space z, which is sufficient for
// flat-shaded opaque faces. Closer fragments overwrite farther ones;
// equal depths leave the previous writer in place or not, unspecified.
func (fb *FrameBuffer) FillTriangle(v1, v2, v3 pixelVertex, col RGBA) {
	denom := (v2.Y-v3.Y)*(v1.X-v3.X) + (v3.X-v2.X)*(v1.Y-v3.Y)
	if math.Abs(denom) < minTriangleArea {
		return
	}

	minX := int(math.Floor(math.Min(v1.X, math.Min(v2.X, v3.X))))
	maxX := int(math.Ceil(math.Max(v1.X, math.Max(v2.X, v3.X))))
	minY := int(math.Floor(math.Min(v1.Y, math.Min(v2.Y, v3.Y))))
	maxY := int(math.Ceil(math.Max(v1.Y, math.Max(v2.Y, v3.Y))))

	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX > fb.Width-1 {
		maxX = fb.Width - 1
	}
	if maxY > fb.Height-1 {
		maxY = fb.Height - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	for y := minY; y <= maxY; y++ {
		py := float64(y)
		for x := minX; x <= maxX; x++ {
			px := float64(x)

			w1 := ((v2.Y-v3.Y)*(px-v3.X) + (v3.X-v2.X)*(py-v3.Y)) / denom
			w2 := ((v3.Y-v1.Y)*(px-v3.X) + (v1.X-v3.X)*(py-v3.Y)) / denom
			w3 := 1.0 - w1 - w2

			if w1 < 0 || w2 < 0 || w3 < 0 {
				continue
			}

			z := w1*v1.Z + w2*v2.Z + w3*v3.Z
			idx := y*fb.Width + x
			if z < fb.depth[idx] {
				fb.depth[idx] = z
				fb.color[idx] = col
			}
		}
	}
}

// PaintTriangle rasterizes one triangle without depth testing, for
// painter's-algorithm rendering where draw order resolves occlusion.
func (fb *FrameBuffer) PaintTriangle(v1, v2, v3 pixelVertex, col RGBA) {
	denom := (v2.Y-v3.Y)*(v1.X-v3.X) + (v3.X-v2.X)*(v1.Y-v3.Y)
	if math.Abs(denom) < minTriangleArea {
		return
	}

	minX := int(math.Floor(math.Min(v1.X, math.Min(v2.X, v3.X))))
	maxX := int(math.Ceil(math.Max(v1.X, math.Max(v2.X, v3.X))))
	minY := int(math.Floor(math.Min(v1.Y, math.Min(v2.Y, v3.Y))))
	maxY := int(math.Ceil(math.Max(v1.Y, math.Max(v2.Y, v3.Y))))

	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX > fb.Width-1 {
		maxX = fb.Width - 1
	}
	if maxY > fb.Height-1 {
		maxY = fb.Height - 1
	}

	for y := minY; y <= maxY; y++ {
		py := float64(y)
		for x := minX; x <= maxX; x++ {
			px := float64(x)

			w1 := ((v2.Y-v3.Y)*(px-v3.X) + (v3.X-v2.X)*(py-v3.Y)) / denom
			w2 := ((v3.Y-v1.Y)*(px-v3.X) + (v1.X-v3.X)*(py-v3.Y)) / denom
			w3 := 1.0 - w1 - w2

			if w1 < 0 || w2 < 0 || w3 < 0 {
				continue
			}

			fb.color[y*fb.Width+x] = col
		}
	}
}

// CoveredPixels counts pixels that have been written at least once
func (fb *FrameBuffer) CoveredPixels() int {
	count := 0
	for _, c := range fb.color {
		if c.A > 0 {
			count++
		}
	}
	return count
}

// ToImage converts the framebuffer into a straight-alpha image
func (fb *FrameBuffer) ToImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			c := fb.color[y*fb.Width+x]
			img.SetNRGBA(x, y, color.NRGBA{
				R: channelByte(c.R),
				G: channelByte(c.G),
				B: channelByte(c.B),
				A: channelByte(c.A),
			})
		}
	}
	return img
}

func channelByte(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255.0 + 0.5)
}
