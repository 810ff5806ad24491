package integrator

import (
	"math"

	"github.com/amberhive/beeant-tracer/pkg/core"
	"github.com/amberhive/beeant-tracer/pkg/scene"
)

// traceEpsilon is the tMin passed to every trace; it keeps a ray from
// re-intersecting the surface it just left due to floating-point error.
const traceEpsilon = 1e-6

// Config tunes the kernel's Russian-roulette continuation probability
// and the surface-acne offset applied to secondary ray origins. OFFSET
// is scene-scale dependent; the default assumes a scene with roughly
// unit-to-hundred-unit extents.
type Config struct {
	RRContinueProb float64 // q in the source; survival probability per bounce
	Offset         float64 // secondary-ray origin offset along the shading normal
}

// DefaultConfig returns the source's tuned constants: q = 0.8, offset = 0.01.
func DefaultConfig() Config {
	return Config{RRContinueProb: 0.8, Offset: 0.01}
}

// Kernel casts camera rays through a built scene, producing Paths. A
// Kernel is read-only after construction and safe to share across bees:
// all per-call state (the RNG) is supplied by the caller.
type Kernel struct {
	Scene  *scene.Scene
	Config Config
}

// NewKernel returns a Kernel over scene with the given config.
func NewKernel(s *scene.Scene, cfg Config) *Kernel {
	return &Kernel{Scene: s, Config: cfg}
}

// CastRay traces ray through the scene and returns its Path. A miss or a
// direct hit on an emitter terminates immediately with a single node;
// otherwise the recursive estimator runs.
func (k *Kernel) CastRay(ray core.Ray, rng *core.RNG) Path {
	hit := k.Scene.Intersect(ray, traceEpsilon, math.Inf(1))

	if !hit.Hit {
		return Path{{Lo: core.Vec3{}, Wo: ray.Direction.Negate(), PosOut: ray.Origin, Hit: hit}}
	}
	if hit.Material.IsEmissive() {
		return Path{{Lo: hit.Material.Emission(), Wo: ray.Direction.Negate(), PosOut: ray.Origin, Hit: hit}}
	}
	return k.castRayRecursive(ray, hit, rng)
}

// castRayRecursive builds the PathNode for a non-emissive hit, combining
// next-event estimation with Russian-roulette-continued indirect
// lighting, and pushes it onto the front of whatever path the indirect
// branch (if it survived) produced.
func (k *Kernel) castRayRecursive(ray core.Ray, hit core.Intersection, rng *core.RNG) Path {
	n := hit.Normal
	wo := ray.Direction.Negate()

	direct, fromLight := k.sampleDirect(hit, n, wo, rng)

	indirect, fromObj, childPath := k.sampleIndirect(hit, n, wo, rng)

	node := PathNode{
		Lo:        direct.Add(indirect),
		Wo:        wo,
		PosOut:    ray.Origin,
		Hit:       hit,
		FromLight: fromLight,
		FromObj:   fromObj,
	}

	return append(Path{node}, childPath...)
}

// sampleDirect implements next-event estimation: sample a point on an
// emitter, trace a shadow ray toward it, and treat it as visible iff the
// shadow ray's hit lands within the offset-induced slack of the sampled
// point.
func (k *Kernel) sampleDirect(hit core.Intersection, n core.Vec3, wo core.Direction, rng *core.RNG) (core.Vec3, FromLight) {
	pdfLight, hitLight := k.Scene.SampleLight(rng)

	shadowOrigin := hit.Position.Add(n.Multiply(k.Config.Offset))
	shadowRay := core.NewRayTo(shadowOrigin, hitLight.Position)
	shadowHit := k.Scene.Intersect(shadowRay, traceEpsilon, math.Inf(1))

	wiLight := shadowRay.Direction

	record := FromLight{WiLight: wiLight, HitLight: shadowHit}

	cosSurface := n.Dot(wiLight.Vec3)
	cosLight := hitLight.Normal.Dot(wiLight.Negate().Vec3)
	if !shadowHit.Hit || cosSurface <= 0 || cosLight <= core.EpsMachine {
		return core.Vec3{}, record
	}

	sinTheta := math.Sqrt(math.Max(0, 1-cosSurface*cosSurface))
	delta := k.Config.Offset * sinTheta / cosLight
	dist := shadowHit.Position.Subtract(hitLight.Position).Length()
	if dist > delta+core.Eps1 {
		return core.Vec3{}, record
	}

	record.LiLight = hitLight.Material.Emission()

	distSq := hitLight.Position.Subtract(hit.Position).LengthSquared()
	brdf := hit.Material.BRDF(wiLight.Vec3, wo.Vec3, n)
	direct := record.LiLight.MultiplyVec(brdf).Multiply(cosSurface * cosLight / distSq / pdfLight)

	return direct, record
}

// sampleIndirect implements the Russian-roulette-continued bounce: draw
// RR, and if the arm survives, sample a hemisphere direction, cast a ray
// along it, and recurse unless it misses or lands on an emitter (direct
// lighting already accounts for emitters, so counting them here would
// double-count). Returns the indirect contribution, the branch's record,
// and the child path (nil if the branch didn't recurse).
func (k *Kernel) sampleIndirect(hit core.Intersection, n core.Vec3, wo core.Direction, rng *core.RNG) (core.Vec3, FromObj, Path) {
	rr := rng.Float64()
	record := FromObj{RR: rr}

	if rr > k.Config.RRContinueProb {
		return core.Vec3{}, record, nil
	}

	wiObj, pdfObj := core.SampleHemisphere(n, rng)
	record.WiObj = core.NewDirection(wiObj)

	objOrigin := hit.Position.Add(n.Multiply(k.Config.Offset))
	objRay := core.NewRay(objOrigin, wiObj)
	objHit := k.Scene.Intersect(objRay, traceEpsilon, math.Inf(1))
	record.HitObj = objHit

	if !objHit.Hit || objHit.Material.IsEmissive() {
		return core.Vec3{}, record, nil
	}

	childPath := k.castRayRecursive(objRay, objHit, rng)
	liObj := childPath[0].Lo
	record.LiObj = liObj

	cosine := math.Max(0, n.Dot(wiObj))
	brdf := hit.Material.BRDF(wiObj, wo.Vec3, n)
	indirect := liObj.MultiplyVec(brdf).Multiply(cosine / pdfObj / k.Config.RRContinueProb)

	return indirect, record, childPath
}
