// Package scene ties the geometry, material, and BVH packages together
// into a renderable scene: object list, top-level BVH, emitter index, and
// camera.
package scene

import (
	"fmt"
	"math"

	"github.com/amberhive/beeant-tracer/pkg/core"
)

// Camera generates camera rays from a view-to-world basis: the camera
// sits at Pos, -LookAt is the local Z axis, LookAt x (0,1,0) is the local
// X axis, and X x (-Z) is the local Y axis.
//
// viewWidth collapses to viewHeight regardless of the screen aspect
// ratio — the source computes view_width as
// view_height/screen_height*screen_height, which cancels to view_height.
// SPEC_FULL.md keeps this rather than silently fixing it; scenes
// rendered at a non-square aspect will look horizontally stretched or
// squeezed exactly as the source does.
type Camera struct {
	Pos    core.Vec3
	LookAt core.Vec3
	FOVDeg float64

	screenWidth, screenHeight int

	x, y       core.Vec3 // camera-space X, Y basis, as world-space directions
	viewHeight float64
	viewWidth  float64 // == viewHeight; see doc comment above
}

// NewCamera builds a camera looking from pos toward lookAt (a direction,
// not a point) with the given vertical field of view in degrees, over a
// screenWidth x screenHeight image. Panics if |lookAt.Y| >= 0.9, the
// degenerate-basis guard the source asserts.
func NewCamera(pos, lookAt core.Vec3, fovDeg float64, screenWidth, screenHeight int) *Camera {
	lookAt = lookAt.Normalize()
	if math.Abs(lookAt.Y) >= 0.9 {
		panic(fmt.Sprintf("scene: camera look_at.y = %g too close to vertical, basis would degenerate", lookAt.Y))
	}

	localZ := lookAt.Negate()
	x := lookAt.Cross(core.NewVec3(0, 1, 0)).Normalize()
	y := x.Cross(localZ.Negate()).Normalize()

	fovRad := fovDeg * math.Pi / 180.0
	viewHeight := 2 * math.Tan(fovRad/2)

	return &Camera{
		Pos: pos, LookAt: lookAt, FOVDeg: fovDeg,
		screenWidth: screenWidth, screenHeight: screenHeight,
		x: x, y: y,
		viewHeight: viewHeight,
		viewWidth:  viewHeight, // see Camera doc comment
	}
}

// RayForPixel returns the camera ray through the center of pixel
// (col, row), col in [0, screenWidth), row in [0, screenHeight).
func (c *Camera) RayForPixel(col, row int) core.Ray {
	// Map pixel center to [-0.5, 0.5] screen-space offsets.
	s := (float64(col)+0.5)/float64(c.screenWidth) - 0.5
	t := 0.5 - (float64(row)+0.5)/float64(c.screenHeight)

	// The view plane sits at local z = -1; since local Z = -LookAt,
	// -1 * localZ == LookAt, so the forward term is just LookAt.
	dir := c.x.Multiply(s * c.viewWidth).
		Add(c.y.Multiply(t * c.viewHeight)).
		Add(c.LookAt)

	return core.NewRay(c.Pos, dir)
}
