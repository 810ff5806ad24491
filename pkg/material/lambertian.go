// Package material holds the two material forms the spec recognizes:
// Diffuse (Lambertian) and Emissive. Both implement core.Material so the
// renderer core never needs a string-typed material tag.
package material

import (
	"math"

	"github.com/amberhive/beeant-tracer/pkg/core"
)

// Diffuse is a perfectly Lambertian material: BRDF = Albedo/pi whenever
// both the incoming and outgoing directions lie above the shading
// normal, zero otherwise.
type Diffuse struct {
	Albedo core.Vec3
}

// NewDiffuse creates a Diffuse material with the given albedo.
func NewDiffuse(albedo core.Vec3) *Diffuse {
	return &Diffuse{Albedo: albedo}
}

// IsEmissive implements core.Material.
func (d *Diffuse) IsEmissive() bool { return false }

// Emission implements core.Material; diffuse surfaces emit nothing.
func (d *Diffuse) Emission() core.Vec3 { return core.Vec3{} }

// BRDF implements core.Material.
func (d *Diffuse) BRDF(wi, wo, normal core.Vec3) core.Vec3 {
	if wi.Dot(normal) <= 0 || wo.Dot(normal) <= 0 {
		return core.Vec3{}
	}
	return d.Albedo.Multiply(1.0 / math.Pi)
}
