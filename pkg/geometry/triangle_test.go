package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amberhive/beeant-tracer/pkg/core"
)

func unitTriangle(mat core.Material) *Triangle {
	return NewTriangle(
		core.NewVec3(0, 0, 0),
		core.NewVec3(1, 0, 0),
		core.NewVec3(0, 1, 0),
		mat,
	)
}

func TestNewTriangleAreaAndNormal(t *testing.T) {
	tri := unitTriangle(nil)
	assert.InDelta(t, 0.5, tri.Area(), 1e-12)
	assert.True(t, tri.Normal().Equals(core.NewVec3(0, 0, 1)))
}

func TestTriangleIntersectHit(t *testing.T) {
	tri := unitTriangle(nil)
	ray := core.NewRay(core.NewVec3(0.2, 0.2, -5), core.NewVec3(0, 0, 1))

	hit := tri.Intersect(ray, 0, 100)
	require.True(t, hit.Hit)
	assert.InDelta(t, 5.0, hit.T, 1e-9)
	assert.True(t, hit.Position.Equals(core.NewVec3(0.2, 0.2, 0)))
	assert.True(t, hit.Normal.Equals(core.NewVec3(0, 0, 1)))
}

func TestTriangleIntersectMissOutsideEdges(t *testing.T) {
	tri := unitTriangle(nil)
	ray := core.NewRay(core.NewVec3(2, 2, -5), core.NewVec3(0, 0, 1))
	hit := tri.Intersect(ray, 0, 100)
	assert.False(t, hit.Hit)
}

func TestTriangleIntersectMissParallel(t *testing.T) {
	tri := unitTriangle(nil)
	ray := core.NewRay(core.NewVec3(0.2, 0.2, -5), core.NewVec3(1, 0, 0))
	hit := tri.Intersect(ray, 0, 100)
	assert.False(t, hit.Hit)
}

func TestTriangleIntersectRespectsTRange(t *testing.T) {
	tri := unitTriangle(nil)
	ray := core.NewRay(core.NewVec3(0.2, 0.2, -5), core.NewVec3(0, 0, 1))
	// Hit is at t=5; a tMax below that should miss.
	hit := tri.Intersect(ray, 0, 4)
	assert.False(t, hit.Hit)
}

// TestTriangleRayHitAtBarycentricCombination reproduces the generic
// scenario: for any barycentric weights b with b_i >= 0 and sum(b) = 1,
// a ray from the origin toward P_bary = b0*A + b1*B + b2*C must report a
// hit at that exact point with the triangle's face normal.
func TestTriangleRayHitAtBarycentricCombination(t *testing.T) {
	tri := NewTriangle(
		core.NewVec3(2, -1, 3),
		core.NewVec3(-3, 4, 1),
		core.NewVec3(5, 2, -2),
		nil,
	)
	n := tri.Normal()

	combos := [][3]float64{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
		{0.2, 0.3, 0.5},
		{0.5, 0.5, 0},
		{1.0 / 3, 1.0 / 3, 1.0 / 3},
	}

	for _, b := range combos {
		pBary := tri.A.Multiply(b[0]).Add(tri.B.Multiply(b[1])).Add(tri.C.Multiply(b[2]))
		ray := core.NewRayTo(core.NewVec3(0, 0, 0), pBary)

		hit := tri.Intersect(ray, 0, 1000)
		require.True(t, hit.Hit, "b=%v", b)
		assert.InDelta(t, pBary.X, hit.Position.X, core.Eps1)
		assert.InDelta(t, pBary.Y, hit.Position.Y, core.Eps1)
		assert.InDelta(t, pBary.Z, hit.Position.Z, core.Eps1)
		assert.True(t, hit.Normal.Equals(n), "b=%v", b)
	}
}

func TestTriangleSampleInAreaLiesInPlane(t *testing.T) {
	tri := unitTriangle(nil)
	rng := core.NewRNG(3)
	for i := 0; i < 50; i++ {
		pos, normal := tri.SampleInArea(0, rng)
		assert.InDelta(t, 0.0, pos.Z, 1e-9)
		assert.True(t, normal.Equals(core.NewVec3(0, 0, 1)))
	}
}
