package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pointPrimitive is a degenerate zero-size Primitive located at Pos, used
// to exercise BVH construction and sampling without pulling in the
// geometry package.
type pointPrimitive struct {
	Pos       Vec3
	PArea     float64
	hitResult Intersection
}

func (p *pointPrimitive) AABB() AABB { return NewAABB(p.Pos, p.Pos) }
func (p *pointPrimitive) Area() float64 { return p.PArea }
func (p *pointPrimitive) Intersect(ray Ray, tMin, tMax float64) Intersection { return p.hitResult }
func (p *pointPrimitive) SampleInArea(threshold float64, rng *RNG) (Vec3, Vec3) {
	return p.Pos, NewVec3(0, 1, 0)
}

func TestBuildBVHEmpty(t *testing.T) {
	bvh := BuildBVH(nil)
	assert.Nil(t, bvh.Root)
	assert.Equal(t, 0.0, bvh.Area)
}

func TestBuildBVHSinglePrimitiveIsLeaf(t *testing.T) {
	p := &pointPrimitive{Pos: NewVec3(1, 2, 3), PArea: 5}
	bvh := BuildBVH([]Primitive{p})
	require.NotNil(t, bvh.Root)
	assert.True(t, bvh.Root.isLeaf())
	assert.Equal(t, 1, bvh.NodeCount())
	assert.Equal(t, 5.0, bvh.Area)
}

func TestBuildBVHNodeCountIsTwoNMinusOne(t *testing.T) {
	prims := make([]Primitive, 0, 7)
	for i := 0; i < 7; i++ {
		prims = append(prims, &pointPrimitive{Pos: NewVec3(float64(i), 0, 0), PArea: 1})
	}
	bvh := BuildBVH(prims)
	assert.Equal(t, 2*7-1, bvh.NodeCount())
}

// TestMedianPartitionOrdering verifies the deterministic median split:
// after partitioning, every element at or before k is <= the pivot's
// final value on the chosen axis, and everything after is >=.
func TestMedianPartitionOrdering(t *testing.T) {
	prims := []Primitive{
		&pointPrimitive{Pos: NewVec3(5, 0, 0), PArea: 1},
		&pointPrimitive{Pos: NewVec3(1, 0, 0), PArea: 1},
		&pointPrimitive{Pos: NewVec3(4, 0, 0), PArea: 1},
		&pointPrimitive{Pos: NewVec3(2, 0, 0), PArea: 1},
		&pointPrimitive{Pos: NewVec3(3, 0, 0), PArea: 1},
	}
	k := (len(prims) - 1) / 2 // = 2
	medianPartition(prims, 0, k)

	pivotVal := centroidAxis(prims[k], 0)
	for i := 0; i <= k; i++ {
		assert.LessOrEqual(t, centroidAxis(prims[i], 0), pivotVal)
	}
	for i := k + 1; i < len(prims); i++ {
		assert.GreaterOrEqual(t, centroidAxis(prims[i], 0), pivotVal)
	}
	// The median of {1,2,3,4,5} sorted by X is 3.
	assert.Equal(t, 3.0, pivotVal)
}

func TestBVHIntersectReturnsClosestHit(t *testing.T) {
	far := &pointPrimitive{
		Pos:       NewVec3(0, 0, 10),
		PArea:     1,
		hitResult: Intersection{Hit: true, T: 10, Position: NewVec3(0, 0, 10)},
	}
	near := &pointPrimitive{
		Pos:       NewVec3(0, 0, 2),
		PArea:     1,
		hitResult: Intersection{Hit: true, T: 2, Position: NewVec3(0, 0, 2)},
	}
	bvh := BuildBVH([]Primitive{far, near})

	ray := NewRay(NewVec3(0, 0, 0), NewVec3(0, 0, 1))
	hit := bvh.Intersect(ray, 0, 100)
	require.True(t, hit.Hit)
	assert.Equal(t, 2.0, hit.T)
}

func TestBVHIntersectMissWhenBoxMissed(t *testing.T) {
	p := &pointPrimitive{Pos: NewVec3(100, 100, 100), PArea: 1}
	bvh := BuildBVH([]Primitive{p})
	ray := NewRay(NewVec3(0, 0, 0), NewVec3(0, 0, 1))
	hit := bvh.Intersect(ray, 0, 1000)
	assert.False(t, hit.Hit)
}

func TestBVHSampleAreaWeighted(t *testing.T) {
	small := &pointPrimitive{Pos: NewVec3(0, 0, 0), PArea: 1}
	big := &pointPrimitive{Pos: NewVec3(5, 0, 0), PArea: 9}
	bvh := BuildBVH([]Primitive{small, big})
	assert.Equal(t, 10.0, bvh.Area)

	pos, _ := bvh.Sample(0.5, nil)
	assert.Equal(t, small.Pos, pos)

	pos, _ = bvh.Sample(9.9, nil)
	assert.Equal(t, big.Pos, pos)
}
