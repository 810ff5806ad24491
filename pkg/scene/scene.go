package scene

import (
	"fmt"
	"sort"

	"github.com/amberhive/beeant-tracer/pkg/core"
)

// Scene is an ordered list of objects, a top-level BVH over them, an
// emitter index (the subset whose material is emissive, with a
// cumulative-area prefix sum for O(log n) light selection), and a
// camera. Nothing in a Scene is mutated after Build returns.
type Scene struct {
	Camera *Camera

	objects []core.Primitive

	emitters         []core.Primitive
	emitterMaterials []core.Material
	emitterPrefix    []float64 // emitterPrefix[i] = cumulative area of emitters[0..i]
	totalEmitArea    float64
	bvh              *core.BVH
}

// NewScene creates an empty scene with the given camera.
func NewScene(camera *Camera) *Scene {
	return &Scene{Camera: camera}
}

// AddObject appends o to the scene's object list, and to the emitter
// index (with its cumulative area) if material is emissive. o is
// typically a *geometry.Mesh.
func (s *Scene) AddObject(o core.Primitive, material core.Material) {
	s.objects = append(s.objects, o)
	if material != nil && material.IsEmissive() {
		s.totalEmitArea += o.Area()
		s.emitters = append(s.emitters, o)
		s.emitterMaterials = append(s.emitterMaterials, material)
		s.emitterPrefix = append(s.emitterPrefix, s.totalEmitArea)
	}
}

// Build constructs the top-level BVH over every object added so far.
// Must be called, exactly once, before Intersect or SampleLight.
func (s *Scene) Build() {
	s.bvh = core.BuildBVH(s.objects)
}

// Intersect traverses the scene's top-level BVH.
func (s *Scene) Intersect(ray core.Ray, tMin, tMax float64) core.Intersection {
	if s.bvh == nil {
		panic("scene: Intersect called before Build")
	}
	return s.bvh.Intersect(ray, tMin, tMax)
}

// ObjectCount returns the number of top-level objects (meshes) in the
// scene.
func (s *Scene) ObjectCount() int { return len(s.objects) }

// SampleLight draws a point on an emitter proportional to its surface
// area and returns the per-surface pdf (1/area of the chosen emitter,
// not a joint pdf over the whole scene) alongside the sampled
// intersection. Panics if the scene has no emitters — an empty emitter
// index is a caller bug (an invariant violation per the error-handling
// design), not a runtime condition to recover from.
func (s *Scene) SampleLight(rng *core.RNG) (pdf float64, hit core.Intersection) {
	if len(s.emitters) == 0 {
		panic("scene: SampleLight called with no emitters in the scene")
	}

	u := rng.Float64() * s.totalEmitArea
	idx := sort.Search(len(s.emitterPrefix), func(i int) bool {
		return s.emitterPrefix[i] >= u
	})
	if idx == len(s.emitterPrefix) {
		idx = len(s.emitterPrefix) - 1
	}

	emitter := s.emitters[idx]
	areaBefore := 0.0
	if idx > 0 {
		areaBefore = s.emitterPrefix[idx-1]
	}
	threshold := u - areaBefore
	if threshold < 0 {
		threshold = 0
	}
	if max := emitter.Area() + core.EpsAreaSlack; threshold > max {
		panic(fmt.Sprintf("scene: light-sample threshold %g exceeds emitter area %g", threshold, max))
	}

	pos, normal := emitter.SampleInArea(threshold, rng)

	return 1.0 / emitter.Area(), core.Intersection{
		Hit:      true,
		Position: pos,
		Normal:   normal,
		T:        0,
		Material: s.emitterMaterials[idx],
	}
}
