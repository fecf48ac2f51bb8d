package render

import (
	"math"
	"testing"

	"github.com/philipparndt/gridlib/pkg/geometry"
	"github.com/philipparndt/gridlib/pkg/mesh"
)

// flatTriangleMesh is a single right triangle in the z=0 plane
func flatTriangleMesh() *mesh.Mesh {
	m := mesh.New("flat")
	m.AddFace(geometry.NewTriangle(
		geometry.NewVector3(0, 0, 1),
		geometry.NewVector3(0, 0, 0),
		geometry.NewVector3(10, 0, 0),
		geometry.NewVector3(0, 10, 0),
	))
	return m
}

func flatQuadMesh(w, d float64) *mesh.Mesh {
	m := mesh.New("quad")
	up := geometry.NewVector3(0, 0, 1)
	m.AddFace(geometry.NewTriangle(up,
		geometry.NewVector3(0, 0, 0),
		geometry.NewVector3(w, 0, 0),
		geometry.NewVector3(w, d, 0),
	))
	m.AddFace(geometry.NewTriangle(up,
		geometry.NewVector3(0, 0, 0),
		geometry.NewVector3(w, d, 0),
		geometry.NewVector3(0, d, 0),
	))
	return m
}

func TestShadeFace(t *testing.T) {
	// Light sits at 45 degrees elevation, so an upward face gets a
	// diffuse term of sin(45)
	up := shadeFace(geometry.NewVector3(0, 0, 1))
	wantBrightness := 0.3 + 0.7*math.Sin(45*math.Pi/180)
	if math.Abs(up.R-wantBrightness*0.7) > 1e-9 {
		t.Errorf("upward face R = %v, want %v", up.R, wantBrightness*0.7)
	}
	if math.Abs(up.B-wantBrightness*0.75) > 1e-9 {
		t.Errorf("upward face B = %v, want %v", up.B, wantBrightness*0.75)
	}

	// A face turned away from the light gets ambient only
	down := shadeFace(geometry.NewVector3(0, 0, -1))
	if math.Abs(down.R-0.3*0.7) > 1e-9 {
		t.Errorf("downward face R = %v, want ambient only", down.R)
	}

	if up.A != 1 || down.A != 1 {
		t.Error("shaded faces must be opaque")
	}
}

func TestRenderPerspectiveFlatTriangleCoverage(t *testing.T) {
	img := renderPerspective(flatTriangleMesh(), 0, 45, 100)

	bounds := img.Bounds()
	if bounds.Dx() != 100 || bounds.Dy() != 100 {
		t.Fatalf("image size = %dx%d, want 100x100", bounds.Dx(), bounds.Dy())
	}

	covered := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a > 0 {
				covered++
			}
		}
	}

	// Viewed straight down, the triangle projects without distortion:
	// half the padded square, roughly (99/1.04)^2 / 2 pixels
	side := 99.0 / (1.0 + 2*paddingFraction)
	want := side * side / 2
	if math.Abs(float64(covered)-want) > want*0.08 {
		t.Errorf("covered = %d, want about %.0f", covered, want)
	}
}

func TestRenderPerspectiveAspectRatio(t *testing.T) {
	// A 40x20 flat plate viewed straight down projects 2:1
	img := renderPerspective(flatQuadMesh(40, 20), 0, 45, 100)

	bounds := img.Bounds()
	if bounds.Dx() != 100 || bounds.Dy() != 50 {
		t.Errorf("image size = %dx%d, want 100x50", bounds.Dx(), bounds.Dy())
	}
}

func TestRenderPerspectiveEdgeOnFlatMesh(t *testing.T) {
	// Tilt 90 looks horizontally at a zero-height plate: the projected
	// vertical extent collapses, the image must still come out valid
	img := renderPerspective(flatQuadMesh(40, 40), 90, 45, 100)

	bounds := img.Bounds()
	if bounds.Dx() != 100 {
		t.Errorf("width = %d, want 100", bounds.Dx())
	}
	if bounds.Dy() < 1 {
		t.Errorf("height = %d, want at least 1", bounds.Dy())
	}
}

func TestRenderPerspectiveEmptyMesh(t *testing.T) {
	img := renderPerspective(mesh.New("empty"), 22.5, 45, 50)
	if img == nil {
		t.Fatal("nil image for empty mesh")
	}
	for y := img.Bounds().Min.Y; y < img.Bounds().Max.Y; y++ {
		for x := img.Bounds().Min.X; x < img.Bounds().Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0 {
				t.Fatalf("empty mesh rendered an opaque pixel at %d,%d", x, y)
			}
		}
	}
}

func TestImageSize(t *testing.T) {
	cases := []struct {
		name           string
		xRange, yRange float64
		max            int
		wantW, wantH   int
	}{
		{"square", 10, 10, 800, 800, 800},
		{"wide", 20, 10, 800, 800, 400},
		{"tall", 10, 20, 800, 400, 800},
		{"flat", 10, 0, 800, 800, 800},
		{"thin sliver", 1000, 0.1, 800, 800, 1},
	}
	for _, c := range cases {
		w, h := imageSize(c.xRange, c.yRange, c.max)
		if w != c.wantW || h != c.wantH {
			t.Errorf("%s: imageSize(%v, %v, %d) = %dx%d, want %dx%d",
				c.name, c.xRange, c.yRange, c.max, w, h, c.wantW, c.wantH)
		}
	}
}

func TestLightDirectionUnitLength(t *testing.T) {
	if math.Abs(lightDirection.Length()-1) > 1e-9 {
		t.Errorf("light direction not normalized: %v", lightDirection.Length())
	}
	if lightDirection.Z <= 0 {
		t.Errorf("light must come from above, Z = %v", lightDirection.Z)
	}
}
