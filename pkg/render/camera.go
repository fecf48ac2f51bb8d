package render

import (
	"math"

	"github.com/philipparndt/gridlib/pkg/geometry"
)

// Camera placement constants. The distance margin and near clamp are fixed
// tuning values; adjust them if the framing of generated previews needs to
// change.
const (
	cameraDistanceMargin = 1.5
	nearClampFactor      = 0.01
)

// Camera models a pinhole camera with an orthonormal basis
type Camera struct {
	Position geometry.Vector3
	Forward  geometry.Vector3
	Right    geometry.Vector3
	Up       geometry.Vector3
	FOV      float64 // vertical field of view in radians
	Distance float64 // distance from the scene centroid

	focal float64 // 1 / tan(FOV/2)
}

// ProjectedVertex is a vertex after perspective projection: normalized
// device coordinates plus the view-space depth used for occlusion. Depth
// is the distance along the forward axis, not the Euclidean distance.
type ProjectedVertex struct {
	X, Y float64 // NDC
	Z    float64 // view-space depth
}

// NewCamera places a camera that keeps the whole bounding box inside the
// given vertical field of view. The camera sits in the -Y/+Z half-plane
// relative to the centroid: tilt 0 looks straight down, tilt 90 looks
// horizontally from the front.
func NewCamera(bbox geometry.BoundingBox, tiltDegrees, fovDegrees float64) *Camera {
	centroid := bbox.Center()
	sceneRadius := bbox.Diagonal() / 2.0

	fov := fovDegrees * math.Pi / 180.0
	distance := sceneRadius / math.Sin(fov/2.0) * cameraDistanceMargin
	if distance == 0 {
		// Degenerate point-sized scene; any positive distance works
		distance = 1
	}

	tilt := tiltDegrees * math.Pi / 180.0
	position := centroid.Add(geometry.NewVector3(
		0,
		-distance*math.Sin(tilt),
		distance*math.Cos(tilt),
	))

	forward := centroid.Sub(position).Normalize()

	// World up is +Z unless the view axis is nearly vertical, which would
	// make the cross product degenerate.
	worldUp := geometry.NewVector3(0, 0, 1)
	if math.Abs(forward.Dot(worldUp)) > 0.999 {
		worldUp = geometry.NewVector3(0, -1, 0)
	}

	right := forward.Cross(worldUp).Normalize()
	up := right.Cross(forward)

	return &Camera{
		Position: position,
		Forward:  forward,
		Right:    right,
		Up:       up,
		FOV:      fov,
		Distance: distance,
		focal:    1.0 / math.Tan(fov/2.0),
	}
}

// Project transforms a world-space point into normalized device
// coordinates. View depth is clamped to a small fraction of the camera
// distance so points at or behind the camera plane stay numerically safe
// rather than being clipped.
func (c *Camera) Project(point geometry.Vector3) ProjectedVertex {
	relative := point.Sub(c.Position)

	viewX := relative.Dot(c.Right)
	viewY := relative.Dot(c.Up)
	viewZ := relative.Dot(c.Forward)

	safeZ := viewZ
	if min := nearClampFactor * c.Distance; safeZ < min {
		safeZ = min
	}

	return ProjectedVertex{
		X: viewX / safeZ * c.focal,
		Y: viewY / safeZ * c.focal,
		Z: safeZ,
	}
}
