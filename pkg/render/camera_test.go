package render

import (
	"math"
	"testing"

	"github.com/philipparndt/gridlib/pkg/geometry"
)

func testBox(t *testing.T, w, d, h float64) geometry.BoundingBox {
	t.Helper()
	bbox := geometry.NewBoundingBox()
	bbox.Extend(geometry.NewVector3(0, 0, 0))
	bbox.Extend(geometry.NewVector3(w, d, h))
	return bbox
}

func TestCameraBasisOrthonormal(t *testing.T) {
	for _, tilt := range []float64{0, 22.5, 45, 90} {
		c := NewCamera(testBox(t, 42, 42, 10), tilt, 45)

		for name, v := range map[string]geometry.Vector3{
			"forward": c.Forward, "right": c.Right, "up": c.Up,
		} {
			if math.Abs(v.Length()-1) > 1e-9 {
				t.Errorf("tilt %v: %s not unit length: %v", tilt, name, v.Length())
			}
		}
		if d := math.Abs(c.Forward.Dot(c.Right)); d > 1e-9 {
			t.Errorf("tilt %v: forward.right = %v", tilt, d)
		}
		if d := math.Abs(c.Forward.Dot(c.Up)); d > 1e-9 {
			t.Errorf("tilt %v: forward.up = %v", tilt, d)
		}
		if d := math.Abs(c.Right.Dot(c.Up)); d > 1e-9 {
			t.Errorf("tilt %v: right.up = %v", tilt, d)
		}
	}
}

func TestCameraLooksAtCentroid(t *testing.T) {
	bbox := testBox(t, 10, 20, 30)
	c := NewCamera(bbox, 22.5, 45)

	// The centroid must project to the NDC origin
	p := c.Project(bbox.Center())
	if math.Abs(p.X) > 1e-9 || math.Abs(p.Y) > 1e-9 {
		t.Errorf("centroid projected to (%v, %v), want origin", p.X, p.Y)
	}
	if math.Abs(p.Z-c.Distance) > 1e-9 {
		t.Errorf("centroid depth = %v, want camera distance %v", p.Z, c.Distance)
	}
}

func TestCameraDistanceMargin(t *testing.T) {
	bbox := testBox(t, 42, 42, 10)
	c := NewCamera(bbox, 0, 45)

	radius := bbox.Diagonal() / 2
	expected := radius / math.Sin(45*math.Pi/360) * 1.5
	if math.Abs(c.Distance-expected) > 1e-9 {
		t.Errorf("distance = %v, want %v", c.Distance, expected)
	}
}

func TestCameraStraightDownUsesFallbackUp(t *testing.T) {
	// Looking straight down, forward is anti-parallel to +Z; the basis
	// must still come out orthonormal via the -Y world-up fallback.
	c := NewCamera(testBox(t, 10, 10, 0), 0, 45)

	if math.Abs(c.Forward.Z+1) > 1e-9 {
		t.Fatalf("forward = %v, want straight down", c.Forward)
	}
	if math.Abs(c.Right.Length()-1) > 1e-9 {
		t.Errorf("right degenerate: %v", c.Right)
	}
}

func TestCameraNearClamp(t *testing.T) {
	c := NewCamera(testBox(t, 10, 10, 10), 22.5, 45)

	// A point far behind the camera must stay finite
	behind := c.Position.Sub(c.Forward.Mul(100 * c.Distance))
	p := c.Project(behind)
	if math.IsInf(p.X, 0) || math.IsNaN(p.X) || math.IsInf(p.Y, 0) || math.IsNaN(p.Y) {
		t.Errorf("projection behind camera not clamped: %+v", p)
	}
	if p.Z < nearClampFactor*c.Distance-1e-12 {
		t.Errorf("depth below clamp: %v", p.Z)
	}
}

func TestCameraPointSceneDoesNotDivideByZero(t *testing.T) {
	bbox := geometry.NewBoundingBox()
	bbox.Extend(geometry.NewVector3(1, 1, 1))

	c := NewCamera(bbox, 22.5, 45)
	p := c.Project(geometry.NewVector3(1, 1, 1))
	if math.IsNaN(p.X) || math.IsNaN(p.Y) {
		t.Errorf("projection of degenerate scene is NaN: %+v", p)
	}
}
