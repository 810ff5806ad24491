package geometry

import (
	"github.com/amberhive/beeant-tracer/pkg/core"
)

// Mesh is a collection of triangles sharing one material, built into its
// own BVH. A Mesh implements core.Primitive itself, exposing the whole
// mesh as a single leaf of the scene's top-level BVH, with a union AABB
// and total area — so the scene's BVH never has to know it is holding a
// compound object rather than a single surface.
type Mesh struct {
	triangles []*Triangle
	bvh       *core.BVH
	bbox      core.AABB
	material  core.Material
}

// NewMesh builds a mesh from a flat vertex list and triangle index
// triples (three indices per triangle), all sharing mat. The mesh importer
// never stamps a default material: callers supply mat explicitly.
func NewMesh(vertices []core.Vec3, faces []int, mat core.Material) *Mesh {
	if len(faces)%3 != 0 {
		panic("geometry: face index count must be a multiple of 3")
	}

	triangles := make([]*Triangle, 0, len(faces)/3)
	box := core.EmptyAABB()
	for i := 0; i+2 < len(faces); i += 3 {
		a, b, c := vertices[faces[i]], vertices[faces[i+1]], vertices[faces[i+2]]
		tri := NewTriangle(a, b, c, mat)
		triangles = append(triangles, tri)
		box = box.Union(tri.AABB())
	}

	prims := make([]core.Primitive, len(triangles))
	for i, t := range triangles {
		prims[i] = t
	}

	return &Mesh{
		triangles: triangles,
		bvh:       core.BuildBVH(prims),
		bbox:      box,
		material:  mat,
	}
}

// Triangles returns the mesh's triangles, in construction order.
func (m *Mesh) Triangles() []*Triangle { return m.triangles }

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int { return len(m.triangles) }

// Material returns the mesh's shared material.
func (m *Mesh) Material() core.Material { return m.material }

// AABB implements core.Primitive: the union of every triangle's box.
func (m *Mesh) AABB() core.AABB { return m.bbox }

// Area implements core.Primitive: the sum of every triangle's area.
func (m *Mesh) Area() float64 {
	if m.bvh == nil {
		return 0
	}
	return m.bvh.Area
}

// Intersect implements core.Primitive by delegating to the mesh's own
// BVH over its triangles.
func (m *Mesh) Intersect(ray core.Ray, tMin, tMax float64) core.Intersection {
	if m.bvh == nil {
		return core.Miss
	}
	return m.bvh.Intersect(ray, tMin, tMax)
}

// SampleInArea implements core.Primitive, selecting one of the mesh's
// triangles proportional to area via the mesh's own BVH and sampling a
// point on it.
func (m *Mesh) SampleInArea(threshold float64, rng *core.RNG) (position, normal core.Vec3) {
	return m.bvh.Sample(threshold, rng)
}
