package render

import (
	"image"
	"math"
	"sort"

	xdraw "golang.org/x/image/draw"

	"github.com/philipparndt/gridlib/pkg/geometry"
	"github.com/philipparndt/gridlib/pkg/mesh"
)

// baseDPI is the resolution the maxDimension parameter is calibrated for.
// Other DPI values resample the finished raster proportionally.
const baseDPI = 100

// renderOrthographic draws a top-down preview using the painter's
// algorithm: faces sorted by mean height, lowest first, projected straight
// onto the XY plane. Occlusion comes from draw order, not a z-buffer.
func renderOrthographic(m *mesh.Mesh, maxDimension, dpi int) *image.NRGBA {
	bbox := m.BoundingBox()
	size := bbox.Size()

	width, height := imageSize(size.X, size.Y, maxDimension)
	fb := NewFrameBuffer(width, height)
	if len(m.Faces) == 0 {
		return fb.ToImage()
	}

	order := make([]int, len(m.Faces))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return meanZ(m.Faces[order[a]]) < meanZ(m.Faces[order[b]])
	})

	padX := size.X * paddingFraction
	padY := size.Y * paddingFraction
	originX := bbox.Min.X - padX
	originY := bbox.Min.Y - padY
	spanX := size.X + 2*padX
	spanY := size.Y + 2*padY

	for _, i := range order {
		face := m.Faces[i]
		col := shadeFace(face.Normal)

		var px [3]pixelVertex
		for j, v := range [3]struct{ X, Y float64 }{
			{face.V1.X, face.V1.Y},
			{face.V2.X, face.V2.Y},
			{face.V3.X, face.V3.Y},
		} {
			var x, y float64
			if spanX > 0 {
				x = (v.X - originX) / spanX * float64(width-1)
			}
			if spanY > 0 {
				// +Y in the model maps to the top of the image
				y = (1.0 - (v.Y-originY)/spanY) * float64(height-1)
			}
			px[j] = pixelVertex{X: x, Y: y}
		}
		fb.PaintTriangle(px[0], px[1], px[2], col)
	}

	return scaleForDPI(fb.ToImage(), dpi)
}

func meanZ(face geometry.Triangle) float64 {
	return (face.V1.Z + face.V2.Z + face.V3.Z) / 3.0
}

// scaleForDPI resamples the rendered image when a non-default DPI is
// requested, preserving aspect ratio.
func scaleForDPI(img *image.NRGBA, dpi int) *image.NRGBA {
	if dpi <= 0 || dpi == baseDPI {
		return img
	}
	factor := float64(dpi) / float64(baseDPI)
	bounds := img.Bounds()
	w := int(math.Round(float64(bounds.Dx()) * factor))
	h := int(math.Round(float64(bounds.Dy()) * factor))
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	scaled := image.NewNRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(scaled, scaled.Bounds(), img, bounds, xdraw.Over, nil)
	return scaled
}
