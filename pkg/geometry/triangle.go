// Package geometry holds the leaf primitives of the scene: triangles and
// the meshes that group them.
package geometry

import (
	"github.com/amberhive/beeant-tracer/pkg/core"
)

// Triangle is three vertices with a counter-clockwise winding (viewed
// from outside), a precomputed one-sided outward face normal and area,
// and a shared material reference. It implements core.Primitive.
type Triangle struct {
	A, B, C  core.Vec3
	Material core.Material

	normal core.Vec3
	area   float64
	bbox   core.AABB
}

// NewTriangle builds a triangle, deriving its face normal as
// normalize((B-A) x (C-B)) and its area as half the magnitude of
// (B-A) x (C-A).
func NewTriangle(a, b, c core.Vec3, mat core.Material) *Triangle {
	cross := b.Subtract(a).Cross(c.Subtract(a))

	return &Triangle{
		A: a, B: b, C: c,
		Material: mat,
		normal:   b.Subtract(a).Cross(c.Subtract(b)).Normalize(),
		area:     0.5 * cross.Length(),
		bbox:     core.NewAABBFromPoints(a, b, c),
	}
}

// AABB implements core.Primitive.
func (t *Triangle) AABB() core.AABB { return t.bbox }

// Area implements core.Primitive.
func (t *Triangle) Area() float64 { return t.area }

// Normal returns the triangle's precomputed face normal.
func (t *Triangle) Normal() core.Vec3 { return t.normal }

// Intersect implements core.Primitive using Moller-Trumbore: with
// E1 = B-A, E2 = C-A, S = O-A, S1 = D x E2, S2 = S x E1 and
// delta = S1.E1, the triangle is missed if |delta| <= machine-eps;
// otherwise t = S2.E2/delta, b1 = S1.S/delta, b2 = S2.D/delta, and the
// ray hits iff t > 0 and b1, b2 and 1-b1-b2 are all >= -EpsBarycentric
// (the slack keeps rays aimed exactly at a vertex or edge from missing
// through rounding).
func (t *Triangle) Intersect(ray core.Ray, tMin, tMax float64) core.Intersection {
	e1 := t.B.Subtract(t.A)
	e2 := t.C.Subtract(t.A)
	d := ray.Direction.Vec3
	s := ray.Origin.Subtract(t.A)
	s1 := d.Cross(e2)
	s2 := s.Cross(e1)

	delta := s1.Dot(e1)
	if delta >= -core.EpsMachine && delta <= core.EpsMachine {
		return core.Miss
	}
	invDelta := 1.0 / delta

	tHit := s2.Dot(e2) * invDelta
	b1 := s1.Dot(s) * invDelta
	b2 := s2.Dot(d) * invDelta

	if tHit <= 0 || tHit < tMin || tHit > tMax {
		return core.Miss
	}
	if b1 < -core.EpsBarycentric || b2 < -core.EpsBarycentric || 1-b1-b2 < -core.EpsBarycentric {
		return core.Miss
	}

	return core.Intersection{
		Hit:      true,
		Position: ray.At(tHit),
		Normal:   t.normal,
		T:        tHit,
		Material: t.Material,
	}
}

// SampleInArea implements core.Primitive, drawing a point uniformly over
// the triangle's area. threshold is unused for a leaf primitive; the
// parameter exists so BVH.Sample can treat leaves and internal nodes
// uniformly.
func (t *Triangle) SampleInArea(threshold float64, rng *core.RNG) (position, normal core.Vec3) {
	return core.SampleTriangleArea(t.A, t.B, t.C, rng), t.normal
}
