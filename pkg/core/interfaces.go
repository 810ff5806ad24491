package core

// Material is a diffuse-or-emissive sum type. Concrete implementations
// (material.Diffuse, material.Emissive) live in pkg/material; this
// interface is the contract the renderer core depends on so it never
// needs a string-typed material tag.
type Material interface {
	// IsEmissive reports whether this material is the Emissive form.
	IsEmissive() bool
	// Emission returns the emitted radiance; zero for non-emissive
	// materials.
	Emission() Vec3
	// BRDF evaluates the bidirectional reflectance for a pair of
	// directions and a shading normal, both measured from the surface
	// point. Zero whenever wi or wo lies below the normal, or for
	// emissive materials (which do not reflect).
	BRDF(wi, wo, normal Vec3) Vec3
}

// Intersection is the outcome of a ray-object probe: either the sentinel
// miss (Hit == false, all other fields zero) or a populated hit. The
// material is captured at hit time so downstream code never needs to
// traverse back to the originating object.
type Intersection struct {
	Hit      bool
	Position Vec3
	Normal   Vec3
	T        float64
	Material Material
}

// Miss is the sentinel "no intersection" result.
var Miss = Intersection{}

// Primitive is anything that can be tested for ray intersection, bounded
// by an AABB, and sampled proportional to surface area. Triangle and Mesh
// both implement it, so the BVH never needs to know which leaf type it
// holds (the source's base-class-over-leaf-types design, expressed as an
// interface instead of a runtime tag).
type Primitive interface {
	AABB() AABB
	Area() float64
	Intersect(ray Ray, tMin, tMax float64) Intersection
	// SampleInArea draws a uniform point on the primitive's surface given
	// a residual area threshold in [0, Area()+EpsAreaSlack]; used by BVH
	// area-weighted sampling to descend into leaves.
	SampleInArea(threshold float64, rng *RNG) (position, normal Vec3)
}
