package render

import (
	"image"
	"math"

	"github.com/philipparndt/gridlib/pkg/geometry"
	"github.com/philipparndt/gridlib/pkg/mesh"
)

// Flat-shading model shared by both renderers: a single directional light
// at 45 degrees elevation, 225 degrees azimuth (upper-left-rear), over a
// neutral base albedo.
const (
	ambientIntensity = 0.3
	diffuseIntensity = 0.7
	paddingFraction  = 0.02
)

var (
	lightDirection = lightFromAngles(45, 225)
	baseAlbedo     = geometry.NewVector3(0.7, 0.7, 0.75)
)

func lightFromAngles(elevationDeg, azimuthDeg float64) geometry.Vector3 {
	el := elevationDeg * math.Pi / 180.0
	az := azimuthDeg * math.Pi / 180.0
	return geometry.NewVector3(
		math.Cos(el)*math.Sin(az),
		math.Cos(el)*math.Cos(az),
		math.Sin(el),
	).Normalize()
}

// shadeFace computes one flat color for a face from its unit normal
func shadeFace(normal geometry.Vector3) RGBA {
	diffuse := normal.Dot(lightDirection)
	if diffuse < 0 {
		diffuse = 0
	}
	brightness := ambientIntensity + diffuseIntensity*diffuse
	return RGBA{
		R: brightness * baseAlbedo.X,
		G: brightness * baseAlbedo.Y,
		B: brightness * baseAlbedo.Z,
		A: 1,
	}
}

// renderPerspective projects the mesh through a pinhole camera and
// rasterizes it into a z-buffered framebuffer. The output image dimensions
// follow the projected extents, bounded by maxDimension on the longer side.
func renderPerspective(m *mesh.Mesh, tiltDegrees, fovDegrees float64, maxDimension int) *image.NRGBA {
	camera := NewCamera(m.BoundingBox(), tiltDegrees, fovDegrees)

	// Project every vertex of every face to NDC
	projected := make([][3]ProjectedVertex, len(m.Faces))
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i, face := range m.Faces {
		p := [3]ProjectedVertex{
			camera.Project(face.V1),
			camera.Project(face.V2),
			camera.Project(face.V3),
		}
		projected[i] = p
		for _, v := range p {
			minX = math.Min(minX, v.X)
			maxX = math.Max(maxX, v.X)
			minY = math.Min(minY, v.Y)
			maxY = math.Max(maxY, v.Y)
		}
	}

	xRange := maxX - minX
	yRange := maxY - minY
	width, height := imageSize(xRange, yRange, maxDimension)

	fb := NewFrameBuffer(width, height)
	if len(m.Faces) == 0 {
		return fb.ToImage()
	}

	// Pad the NDC extents so geometry never touches the image edge
	padX := xRange * paddingFraction
	padY := yRange * paddingFraction
	originX := minX - padX
	originY := minY - padY
	spanX := xRange + 2*padX
	spanY := yRange + 2*padY

	toPixel := func(v ProjectedVertex) pixelVertex {
		var px, py float64
		if spanX > 0 {
			px = (v.X - originX) / spanX * float64(width-1)
		}
		if spanY > 0 {
			// Image rows grow downward, NDC y grows upward
			py = (1.0 - (v.Y-originY)/spanY) * float64(height-1)
		}
		return pixelVertex{X: px, Y: py, Z: v.Z}
	}

	for i, face := range m.Faces {
		col := shadeFace(face.Normal)
		fb.FillTriangle(toPixel(projected[i][0]), toPixel(projected[i][1]), toPixel(projected[i][2]), col)
	}

	return fb.ToImage()
}

// imageSize derives output dimensions from the projected extents: the
// longer side gets maxDimension pixels, the shorter side scales by aspect
// ratio, and both sides are at least one pixel.
func imageSize(xRange, yRange float64, maxDimension int) (int, int) {
	aspect := 1.0
	if yRange > 0 {
		aspect = xRange / yRange
	}

	var width, height int
	if aspect >= 1.0 {
		width = maxDimension
		height = int(math.Round(float64(maxDimension) / aspect))
	} else {
		width = int(math.Round(float64(maxDimension) * aspect))
		height = maxDimension
	}

	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return width, height
}
