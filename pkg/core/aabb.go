package core

import "math"

// AABB is an axis-aligned bounding box with invariant Min_i <= Max_i per
// axis, except for the empty sentinel (Min = +Inf, Max = -Inf) which is
// the identity of Union.
type AABB struct {
	Min Vec3
	Max Vec3
}

// EmptyAABB returns the identity box: unioning it with anything yields
// the other box unchanged.
func EmptyAABB() AABB {
	inf := math.Inf(1)
	return AABB{Min: NewVec3(inf, inf, inf), Max: NewVec3(-inf, -inf, -inf)}
}

// NewAABB creates an AABB from explicit min/max corners.
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// NewAABBFromPoints returns the smallest AABB containing all given points.
func NewAABBFromPoints(points ...Vec3) AABB {
	box := EmptyAABB()
	for _, p := range points {
		box = box.UnionPoint(p)
	}
	return box
}

// UnionPoint returns the AABB extended to contain p.
func (aabb AABB) UnionPoint(p Vec3) AABB {
	return AABB{
		Min: NewVec3(math.Min(aabb.Min.X, p.X), math.Min(aabb.Min.Y, p.Y), math.Min(aabb.Min.Z, p.Z)),
		Max: NewVec3(math.Max(aabb.Max.X, p.X), math.Max(aabb.Max.Y, p.Y), math.Max(aabb.Max.Z, p.Z)),
	}
}

// Union returns the AABB bounding both this box and other. The empty
// sentinel is the identity of this operation.
func (aabb AABB) Union(other AABB) AABB {
	return AABB{
		Min: NewVec3(math.Min(aabb.Min.X, other.Min.X), math.Min(aabb.Min.Y, other.Min.Y), math.Min(aabb.Min.Z, other.Min.Z)),
		Max: NewVec3(math.Max(aabb.Max.X, other.Max.X), math.Max(aabb.Max.Y, other.Max.Y), math.Max(aabb.Max.Z, other.Max.Z)),
	}
}

// Diagonal returns Max - Min.
func (aabb AABB) Diagonal() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// Centroid returns the midpoint of Min and Max.
func (aabb AABB) Centroid() Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// SurfaceArea returns the surface area of the box.
func (aabb AABB) SurfaceArea() float64 {
	d := aabb.Diagonal()
	return 2.0 * (d.X*d.Y + d.Y*d.Z + d.Z*d.X)
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the longest extent.
// Ties favor X over Y over Z, matching the source's tie-break policy.
func (aabb AABB) LongestAxis() int {
	d := aabb.Diagonal()
	if d.X >= d.Y && d.X >= d.Z {
		return 0
	}
	if d.Y >= d.Z {
		return 1
	}
	return 2
}

// Contains reports whether p lies within the box, within containEps on
// each axis.
func (aabb AABB) Contains(p Vec3) bool {
	return p.X >= aabb.Min.X-containEps && p.X <= aabb.Max.X+containEps &&
		p.Y >= aabb.Min.Y-containEps && p.Y <= aabb.Max.Y+containEps &&
		p.Z >= aabb.Min.Z-containEps && p.Z <= aabb.Max.Z+containEps
}

// IsIntersect runs the three-slab ray-box test described in the rendering
// spec: per axis, a direction near machine-epsilon is treated as parallel
// to that axis (missing unless the origin already lies within the slab,
// which also makes degenerate zero-thickness boxes behave correctly for
// rays crossing the degenerate face).
func (aabb AABB) IsIntersect(ray Ray) bool {
	tMin, tMax := math.Inf(-1), math.Inf(1)

	for axis := 0; axis < 3; axis++ {
		var lo, hi, origin, dir float64
		switch axis {
		case 0:
			lo, hi, origin, dir = aabb.Min.X, aabb.Max.X, ray.Origin.X, ray.Direction.X
		case 1:
			lo, hi, origin, dir = aabb.Min.Y, aabb.Max.Y, ray.Origin.Y, ray.Direction.Y
		default:
			lo, hi, origin, dir = aabb.Min.Z, aabb.Max.Z, ray.Origin.Z, ray.Direction.Z
		}

		if math.Abs(dir) < EpsMachine {
			if origin < lo || origin > hi {
				return false
			}
			continue
		}

		t1 := (lo - origin) / dir
		t2 := (hi - origin) / dir
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
	}

	return tMin <= tMax && tMax > 0
}
